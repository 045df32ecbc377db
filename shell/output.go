package shell

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/juruen/inkpaper/hwr"
	"github.com/juruen/inkpaper/ink"
)

type StrokeJSON struct {
	ID     string        `json:"id"`
	Points int           `json:"points"`
	Color  string        `json:"color"`
	Width  float64       `json:"width"`
	Box    ink.Rectangle `json:"boundingBox"`
	Start  int64         `json:"start"`
	End    int64         `json:"end"`
}

func StrokeToJSON(s *ink.Stroke) StrokeJSON {
	out := StrokeJSON{
		ID:     s.ID,
		Points: s.Len(),
		Color:  s.Color,
		Width:  s.Width,
		Box:    s.BoundingBox(),
	}
	if first, ok := s.Point(0); ok {
		out.Start = first.T
	}
	if last, ok := s.LastPoint(); ok {
		out.End = last.T
	}
	return out
}

type CandidateJSON struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type WordJSON struct {
	Label      string          `json:"label"`
	InkRanges  string          `json:"inkRanges"`
	Candidates []CandidateJSON `json:"candidates"`
}

type ResultJSON struct {
	InstanceID string     `json:"instanceId"`
	Text       string     `json:"text"`
	Words      []WordJSON `json:"words"`
}

func ResultToJSON(res *hwr.Result) ResultJSON {
	out := ResultJSON{InstanceID: res.InstanceID, Text: res.Text(), Words: []WordJSON{}}
	if res.Document == nil {
		return out
	}
	for _, seg := range res.Document.WordSegments {
		w := WordJSON{InkRanges: inkRanges(seg.InkRanges)}
		if c := seg.SelectedCandidate(); c != nil {
			w.Label = c.Label
		}
		for _, c := range seg.Candidates {
			w.Candidates = append(w.Candidates, CandidateJSON{Label: c.Label, Score: c.NormalizedScore})
		}
		out.Words = append(out.Words, w)
	}
	return out
}

func inkRanges(ranges hwr.InkRanges) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

// shellWriter sends output through the shell so it is not mixed with the
// prompt
type shellWriter struct {
	c *ishell.Context
}

func (w shellWriter) Write(b []byte) (int, error) {
	w.c.Print(string(b))
	return len(b), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// writeResult prints the recognized text followed by word candidates
func writeResult(w io.Writer, res *hwr.Result, jsonOutput bool) error {
	if res == nil {
		_, err := fmt.Fprintln(w, "no result")
		return err
	}
	out := ResultToJSON(res)
	if jsonOutput {
		return writeJSON(w, out)
	}

	fmt.Fprintln(w, out.Text)
	for _, word := range out.Words {
		labels := make([]string, len(word.Candidates))
		for i, c := range word.Candidates {
			labels[i] = c.Label
		}
		fmt.Fprintf(w, "  [%s]\t%s\t(%s)\n", word.InkRanges, word.Label, strings.Join(labels, " | "))
	}
	return nil
}
