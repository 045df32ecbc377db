package hwr

import (
	"strings"

	"github.com/pkg/errors"
)

type InputMode string

const (
	InputModeCursive      InputMode = "CURSIVE"
	InputModeIsolated     InputMode = "ISOLATED"
	InputModeSuperimposed InputMode = "SUPERIMPOSED"
	InputModeVertical     InputMode = "VERTICAL"
)

type InputType string

const (
	InputTypeChar           InputType = "CHAR"
	InputTypeWord           InputType = "WORD"
	InputTypeSingleLineText InputType = "SINGLE_LINE_TEXT"
	InputTypeMultiLineText  InputType = "MULTI_LINE_TEXT"
)

type ResultDetail string

const (
	ResultDetailText      ResultDetail = "TEXT"
	ResultDetailWord      ResultDetail = "WORD"
	ResultDetailCharacter ResultDetail = "CHARACTER"
)

const (
	DefaultLanguage     = "en_US"
	DefaultInputMode    = InputModeCursive
	DefaultInputType    = InputTypeMultiLineText
	DefaultResultDetail = ResultDetailText
)

func ParseInputMode(s string) (InputMode, error) {
	switch m := InputMode(strings.ToUpper(s)); m {
	case InputModeCursive, InputModeIsolated, InputModeSuperimposed, InputModeVertical:
		return m, nil
	}
	return "", errors.Errorf("unknown input mode %q", s)
}

func ParseResultDetail(s string) (ResultDetail, error) {
	switch d := ResultDetail(strings.ToUpper(s)); d {
	case ResultDetailText, ResultDetailWord, ResultDetailCharacter:
		return d, nil
	}
	return "", errors.Errorf("unknown result detail %q", s)
}

// TextProperties tunes candidate lists and lexicon tolerance
type TextProperties struct {
	TextCandidateListSize         int     `json:"textCandidateListSize" yaml:"textCandidateListSize"`
	WordCandidateListSize         int     `json:"wordCandidateListSize" yaml:"wordCandidateListSize"`
	WordPredictionListSize        int     `json:"wordPredictionListSize" yaml:"wordPredictionListSize"`
	WordCompletionListSize        int     `json:"wordCompletionListSize" yaml:"wordCompletionListSize"`
	CharacterCandidateListSize    int     `json:"characterCandidateListSize" yaml:"characterCandidateListSize"`
	DiscardCaseVariations         bool    `json:"discardCaseVariations" yaml:"discardCaseVariations"`
	DiscardAccentuationVariations bool    `json:"discardAccentuationVariations" yaml:"discardAccentuationVariations"`
	DisableSpatialOrdering        bool    `json:"disableSpatialOrdering" yaml:"disableSpatialOrdering"`
	GlyphDistortion               float64 `json:"glyphDistortion" yaml:"glyphDistortion"`
	EnableOutOfLexicon            bool    `json:"enableOutOfLexicon" yaml:"enableOutOfLexicon"`
	SpellingDistortion            float64 `json:"spellingDistortion" yaml:"spellingDistortion"`
}

// TextParameter is sent with every start request
type TextParameter struct {
	Language         string         `json:"language" yaml:"language"`
	TextInputMode    InputMode      `json:"textInputMode" yaml:"inputMode"`
	ResultDetail     ResultDetail   `json:"resultDetail" yaml:"resultDetail"`
	ContentTypes     []string       `json:"contentTypes,omitempty" yaml:"contentTypes"`
	SubsetKnowledges []string       `json:"subsetKnowledges" yaml:"subsetKnowledges"`
	UserResources    []string       `json:"userResources" yaml:"userResources"`
	UserLkWords      []string       `json:"userLkWords" yaml:"userLkWords"`
	TextProperties   TextProperties `json:"textProperties" yaml:"textProperties"`
}

func DefaultTextParameter() TextParameter {
	return TextParameter{
		Language:         DefaultLanguage,
		TextInputMode:    DefaultInputMode,
		ResultDetail:     DefaultResultDetail,
		SubsetKnowledges: []string{},
		UserResources:    []string{},
		UserLkWords:      []string{},
	}
}

// Normalize fills unset fields with defaults
func (p TextParameter) Normalize() TextParameter {
	if p.Language == "" {
		p.Language = DefaultLanguage
	}
	if p.TextInputMode == "" {
		p.TextInputMode = DefaultInputMode
	}
	if p.ResultDetail == "" {
		p.ResultDetail = DefaultResultDetail
	}
	if p.SubsetKnowledges == nil {
		p.SubsetKnowledges = []string{}
	}
	if p.UserResources == nil {
		p.UserResources = []string{}
	}
	if p.UserLkWords == nil {
		p.UserLkWords = []string{}
	}
	return p
}
