package hwr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInkRange(t *testing.T) {
	r, err := ParseInkRange("0-1-2-0-1-5")
	require.NoError(t, err)
	assert.Equal(t, InkRange{StartUnit: 0, StartComponent: 1, StartPoint: 2, EndUnit: 0, EndComponent: 1, EndPoint: 5}, r)

	r, err = ParseInkRange("0:3:14-0:4:2")
	require.NoError(t, err)
	assert.Equal(t, InkRange{StartComponent: 3, StartPoint: 14, EndComponent: 4, EndPoint: 2}, r)
	assert.Equal(t, "0:3:14-0:4:2", r.String())

	_, err = ParseInkRange("0-1-2")
	assert.Error(t, err)
	_, err = ParseInkRange("a-1-2-0-1-5")
	assert.Error(t, err)
}

const documentJSON = `{
  "instanceId": "abc",
  "result": {
    "textSegmentResult": {
      "selectedCandidateIdx": 1,
      "inkRanges": "0:0:0-0:1:4",
      "candidates": [
        {"label": "hallo", "normalizedScore": 0.6},
        {"label": "hello", "normalizedScore": 1, "flags": ["OMITTED"]}
      ]
    },
    "wordCandidates": [
      {"selectedCandidateIdx": 0, "inkRanges": "0:0:0-0:0:9 0:1:0-0:1:4", "candidates": [{"label": "hello"}]}
    ],
    "charSegments": [
      {"selectedCandidateIdx": 0, "inkRanges": [{"startUnit":0,"startComponent":0,"startPoint":0,"endUnit":0,"endComponent":0,"endPoint":9}], "candidates": [{"label": "h"}]}
    ],
    "tagItems": [{"tagType": "TEXT_LINE", "inkRanges": ["0-0-0-0-1-4"]}]
  }
}`

func TestDecodeDocument(t *testing.T) {
	res := &Result{}
	require.NoError(t, json.Unmarshal([]byte(documentJSON), res))

	assert.Equal(t, "abc", res.InstanceID)
	assert.Equal(t, "hello", res.Text())

	doc := res.Document
	require.NotNil(t, doc)
	require.Len(t, doc.WordSegments, 1)
	require.Len(t, doc.CharSegments, 1)
	require.Len(t, doc.TagItems, 1)
	assert.Equal(t, "TEXT_LINE", doc.TagItems[0].TagType)
	assert.Equal(t, 4, doc.TagItems[0].InkRanges[0].EndPoint)

	word := doc.WordSegment([]InkRange{
		{EndPoint: 9},
		{StartComponent: 1, EndComponent: 1, EndPoint: 4},
	})
	require.NotNil(t, word)
	assert.Equal(t, "hello", word.SelectedCandidate().Label)

	char := doc.CharSegment([]InkRange{{EndPoint: 9}})
	require.NotNil(t, char)
	assert.Equal(t, "h", char.SelectedCandidate().Label)

	assert.Nil(t, doc.WordSegment([]InkRange{{EndPoint: 1}}))
}

func TestSelectedCandidateOutOfRange(t *testing.T) {
	s := TextSegment{SelectedCandidateIdx: 2, Candidates: []TextCandidate{{Label: "a"}}}
	assert.Nil(t, s.SelectedCandidate())

	var r *Result
	assert.Equal(t, "", r.Text())
}

func TestDecodeFrame(t *testing.T) {
	f, err := DecodeFrame([]byte(`{"type":"init"}`))
	require.NoError(t, err)
	assert.Equal(t, FrameInit, f.Kind)

	f, err = DecodeFrame([]byte(`{"type":"reset"}`))
	require.NoError(t, err)
	assert.Equal(t, FrameReset, f.Kind)

	f, err = DecodeFrame([]byte(`{"type":"hmacChallenge","challenge":"xyz"}`))
	require.NoError(t, err)
	assert.Equal(t, FrameChallenge, f.Kind)
	assert.Equal(t, "xyz", f.Challenge)

	f, err = DecodeFrame([]byte(`{"type":"error","error":{"code":"access.not.granted"}}`))
	require.NoError(t, err)
	assert.Equal(t, FrameError, f.Kind)
	var se *SessionError
	require.ErrorAs(t, f.Err, &se)
	assert.Contains(t, se.Message, "access.not.granted")

	f, err = DecodeFrame([]byte(documentJSON))
	require.NoError(t, err)
	assert.Equal(t, FrameResult, f.Kind)
	assert.Equal(t, "abc", f.Result.InstanceID)

	_, err = DecodeFrame([]byte(`not json`))
	assert.Error(t, err)
}

func TestTextParameterDefaults(t *testing.T) {
	p := TextParameter{}.Normalize()
	assert.Equal(t, DefaultTextParameter(), p)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"textInputMode":"CURSIVE"`)
	assert.Contains(t, string(b), `"resultDetail":"TEXT"`)
	assert.Contains(t, string(b), `"discardCaseVariations":false`)

	m, err := ParseInputMode("isolated")
	require.NoError(t, err)
	assert.Equal(t, InputModeIsolated, m)
	_, err = ParseInputMode("diagonal")
	assert.Error(t, err)

	d, err := ParseResultDetail("word")
	require.NoError(t, err)
	assert.Equal(t, ResultDetailWord, d)
	_, err = ParseResultDetail("page")
	assert.Error(t, err)
}
