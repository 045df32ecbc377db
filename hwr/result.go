package hwr

import (
	"encoding/json"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Result is a recognition response. InstanceID must be echoed on every
// follow-up call of the same document.
type Result struct {
	InstanceID string        `json:"instanceId,omitempty"`
	Document   *TextDocument `json:"result,omitempty"`
}

// Text returns the selected label of the whole text segment
func (r *Result) Text() string {
	if r == nil || r.Document == nil {
		return ""
	}
	return r.Document.Text()
}

type TextDocument struct {
	TagItems          []TextTagItem `json:"tagItems"`
	WordSegments      []TextSegment `json:"wordSegments"`
	CharSegments      []TextSegment `json:"charSegments"`
	TextSegmentResult *TextSegment  `json:"textSegmentResult,omitempty"`
}

func (d *TextDocument) UnmarshalJSON(b []byte) error {
	var raw struct {
		TagItems          []TextTagItem `json:"tagItems"`
		WordSegments      []TextSegment `json:"wordSegments"`
		CharSegments      []TextSegment `json:"charSegments"`
		WordCandidates    []TextSegment `json:"wordCandidates"`
		CharCandidates    []TextSegment `json:"charCandidates"`
		TextSegmentResult *TextSegment  `json:"textSegmentResult"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	d.TagItems = raw.TagItems
	d.TextSegmentResult = raw.TextSegmentResult
	d.WordSegments = raw.WordSegments
	if d.WordSegments == nil {
		d.WordSegments = raw.WordCandidates
	}
	d.CharSegments = raw.CharSegments
	if d.CharSegments == nil {
		d.CharSegments = raw.CharCandidates
	}
	return nil
}

func (d *TextDocument) Text() string {
	if d.TextSegmentResult == nil {
		return ""
	}
	if c := d.TextSegmentResult.SelectedCandidate(); c != nil {
		return c.Label
	}
	return ""
}

// WordSegment finds the word segment covering exactly ranges
func (d *TextDocument) WordSegment(ranges []InkRange) *TextSegment {
	return findSegment(d.WordSegments, ranges)
}

// CharSegment finds the char segment covering exactly ranges
func (d *TextDocument) CharSegment(ranges []InkRange) *TextSegment {
	return findSegment(d.CharSegments, ranges)
}

func findSegment(segments []TextSegment, ranges []InkRange) *TextSegment {
	for i := range segments {
		if slices.Equal(segments[i].InkRanges, InkRanges(ranges)) {
			return &segments[i]
		}
	}
	return nil
}

type TextSegment struct {
	Candidates           []TextCandidate `json:"candidates"`
	InkRanges            InkRanges       `json:"inkRanges,omitempty"`
	SelectedCandidateIdx int             `json:"selectedCandidateIdx"`
}

func (s *TextSegment) SelectedCandidate() *TextCandidate {
	if s.SelectedCandidateIdx < 0 || s.SelectedCandidateIdx >= len(s.Candidates) {
		return nil
	}
	return &s.Candidates[s.SelectedCandidateIdx]
}

type TextCandidate struct {
	Label                   string        `json:"label"`
	NormalizedScore         float64       `json:"normalizedScore"`
	ResemblanceScore        float64       `json:"resemblanceScore"`
	SpellingDistortionRatio float64       `json:"spellingDistortionRatio"`
	Flags                   []string      `json:"flags"`
	Children                []TextSegment `json:"children,omitempty"`
}

type TextTagItem struct {
	TagType   string    `json:"tagType"`
	InkRanges InkRanges `json:"inkRanges,omitempty"`
}

// InkRange points at the slice of raw input a segment was recognized from
type InkRange struct {
	StartUnit      int `json:"startUnit"`
	StartComponent int `json:"startComponent"`
	StartPoint     int `json:"startPoint"`
	EndUnit        int `json:"endUnit"`
	EndComponent   int `json:"endComponent"`
	EndPoint       int `json:"endPoint"`
}

var inkRangeSep = regexp.MustCompile(`[:-]+`)

// ParseInkRange parses the compact "su:sc:sp-eu:ec:ep" form. Any run of
// colons and dashes separates fields.
func ParseInkRange(s string) (InkRange, error) {
	parts := inkRangeSep.Split(strings.TrimSpace(s), -1)
	if len(parts) != 6 {
		return InkRange{}, errors.Errorf("ink range %q: want 6 fields, got %d", s, len(parts))
	}
	var v [6]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return InkRange{}, errors.Wrapf(err, "ink range %q", s)
		}
		v[i] = n
	}
	return InkRange{
		StartUnit:      v[0],
		StartComponent: v[1],
		StartPoint:     v[2],
		EndUnit:        v[3],
		EndComponent:   v[4],
		EndPoint:       v[5],
	}, nil
}

func (r InkRange) String() string {
	return strconv.Itoa(r.StartUnit) + ":" + strconv.Itoa(r.StartComponent) + ":" + strconv.Itoa(r.StartPoint) +
		"-" + strconv.Itoa(r.EndUnit) + ":" + strconv.Itoa(r.EndComponent) + ":" + strconv.Itoa(r.EndPoint)
}

func (r *InkRange) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := ParseInkRange(s)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}
	type plain InkRange
	return json.Unmarshal(b, (*plain)(r))
}

// InkRanges decodes from a list or from a whitespace separated string
type InkRanges []InkRange

func (rs *InkRanges) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		out := InkRanges{}
		for _, f := range strings.Fields(s) {
			r, err := ParseInkRange(f)
			if err != nil {
				return err
			}
			out = append(out, r)
		}
		*rs = out
		return nil
	}
	var list []InkRange
	if err := json.Unmarshal(b, &list); err != nil {
		return errors.Wrap(err, "can't decode ink ranges")
	}
	*rs = list
	return nil
}
