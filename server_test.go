package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/juruen/inkpaper/hwr"
	"github.com/juruen/inkpaper/paper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeREST struct{}

func (fakeREST) Recognize(ctx context.Context, req *hwr.RecognizeRequest) (*hwr.Result, error) {
	return &hwr.Result{
		InstanceID: "instance-1",
		Document: &hwr.TextDocument{TextSegmentResult: &hwr.TextSegment{
			Candidates: []hwr.TextCandidate{{Label: "ink"}},
		}},
	}, nil
}

func (fakeREST) Languages(ctx context.Context, applicationKey string, mode hwr.InputMode) (map[string]string, error) {
	return map[string]string{"en_US": "English"}, nil
}

func (fakeREST) SetHost(string, bool) {}
func (fakeREST) SetPrecision(int)     {}

func newTestServer(t *testing.T) (*paper.Paper, *httptest.Server) {
	opts := paper.DefaultOptions()
	opts.Timeout = paper.NoTimeout
	p, err := paper.New(opts,
		paper.WithRESTRecognizer(fakeREST{}),
		paper.WithExecutor(func(f func()) { f() }),
	)
	require.NoError(t, err)

	ts := httptest.NewServer(NewApiServer(p).routes())
	t.Cleanup(func() {
		ts.Close()
		p.Close()
	})
	return p, ts
}

func post(t *testing.T, url, body string) (*http.Response, map[string]interface{}) {
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

const strokeBody = `{"points":[{"x":10,"y":10,"t":0},{"x":30,"y":10,"t":16},{"x":50,"y":20,"t":32}]}`

func TestStrokeAndRecognize(t *testing.T) {
	p, ts := newTestServer(t)

	resp, out := post(t, ts.URL+"/api/stroke", strokeBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := out["data"].(map[string]interface{})
	stroke := data["stroke"].(map[string]interface{})
	assert.Equal(t, float64(3), stroke["points"])
	assert.Len(t, p.Strokes(), 1)

	resp, out = post(t, ts.URL+"/api/recognize", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = out["data"].(map[string]interface{})
	assert.Equal(t, "ink", data["text"])

	res, err := http.Get(ts.URL + "/api/result")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestStrokeErrors(t *testing.T) {
	_, ts := newTestServer(t)

	resp, out := post(t, ts.URL+"/api/stroke", `{"points":[]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "points are required", out["error"])

	resp, _ = post(t, ts.URL+"/api/stroke", `{`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	res, err := http.Get(ts.URL + "/api/stroke")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)

	resp, _ = post(t, ts.URL+"/api/recognize", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	res, err = http.Get(ts.URL + "/api/result")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestStrokeClearedBeforeResponse(t *testing.T) {
	p, ts := newTestServer(t)
	cleared := false
	p.SetChangeCallback(func(paper.ChangeData) {
		if !cleared && len(p.Strokes()) > 0 {
			cleared = true
			p.Clear()
		}
	})

	resp, out := post(t, ts.URL+"/api/stroke", strokeBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stroke := out["data"].(map[string]interface{})["stroke"].(map[string]interface{})
	assert.Equal(t, float64(3), stroke["points"])
	assert.Empty(t, p.Strokes())
}

func TestPointer(t *testing.T) {
	p, ts := newTestServer(t)
	bounds := `"bounds":{"left":100,"top":50}`

	for _, ev := range []string{
		`{"type":"pointerdown","event":{"pointerId":1,"clientX":110,"clientY":60,"timeStamp":0},` + bounds + `}`,
		`{"type":"pointermove","event":{"pointerId":1,"clientX":140,"clientY":60,"timeStamp":16},` + bounds + `}`,
		`{"type":"pointerup","event":{"pointerId":1,"clientX":170,"clientY":80,"timeStamp":32},` + bounds + `}`,
	} {
		resp, _ := post(t, ts.URL+"/api/pointer", ev)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	strokes := p.Strokes()
	require.Len(t, strokes, 1)
	first, ok := strokes[0].Point(0)
	require.True(t, ok)
	assert.Equal(t, 10.0, first.X)
	assert.Equal(t, 10.0, first.Y)

	resp, _ := post(t, ts.URL+"/api/pointer", `{"type":"pointercancel"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEdits(t *testing.T) {
	p, ts := newTestServer(t)
	post(t, ts.URL+"/api/stroke", strokeBody)

	resp, out := post(t, ts.URL+"/api/undo", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := out["data"].(map[string]interface{})["history"].(map[string]interface{})
	assert.Equal(t, true, history["canRedo"])
	assert.Empty(t, p.Strokes())

	post(t, ts.URL+"/api/redo", "")
	assert.Len(t, p.Strokes(), 1)

	post(t, ts.URL+"/api/clear", "")
	assert.Empty(t, p.Strokes())
	assert.False(t, p.CanRedo())
}

func TestSettingsEndpoint(t *testing.T) {
	p, ts := newTestServer(t)

	resp, out := post(t, ts.URL+"/api/settings", `{"name":"lang","value":"fr_FR"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fr_FR", out["data"].(map[string]interface{})["lang"])
	assert.Equal(t, "fr_FR", p.TextParameters().Language)

	resp, _ = post(t, ts.URL+"/api/settings", `{"name":"protocol","value":"smoke"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportAndPage(t *testing.T) {
	p, ts := newTestServer(t)
	post(t, ts.URL+"/api/stroke", strokeBody)

	res, err := http.Get(ts.URL + "/api/export?format=png&width=100")
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))
	res.Body.Close()

	res, err = http.Get(ts.URL + "/api/export?format=gif")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, err = http.Get(ts.URL + "/api/page")
	require.NoError(t, err)
	var page bytes.Buffer
	_, err = page.ReadFrom(res.Body)
	res.Body.Close()
	require.NoError(t, err)

	p.Clear()
	res, err = http.Post(ts.URL+"/api/page", "application/octet-stream", &page)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, p.Strokes(), 1)
}

func TestEvents(t *testing.T) {
	_, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	post(t, ts.URL+"/api/stroke", strokeBody)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var e EventJSON
	require.NoError(t, conn.ReadJSON(&e))
	assert.Equal(t, paper.EventChange, e.Type)
	require.NotNil(t, e.Change)
	assert.Equal(t, 1, e.Change.UndoLength)
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	res, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
