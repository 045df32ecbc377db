package hwr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/juruen/inkpaper/ink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognizeBatch(t *testing.T) {
	var inFlight, maxInFlight int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
				break
			}
		}
		var data RecognitionData
		json.NewDecoder(r.Body).Decode(&data)
		if data.ApplicationKey != "app" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"instanceId":"x","result":{"textSegmentResult":{"candidates":[{"label":"ok"}]}}}`))
	}))
	defer srv.Close()

	reqs := make([]*RecognizeRequest, 6)
	for i := range reqs {
		reqs[i] = &RecognizeRequest{Components: []ink.Component{testStroke()}}
	}
	reqs[3].Components = nil

	cfg := BatchConfig{ApplicationKey: "app", BatchSize: 2, Parameters: DefaultTextParameter()}
	results, errs := RecognizeBatch(context.Background(), &RESTClient{BaseURL: srv.URL}, cfg, reqs)

	require.Len(t, results, 6)
	for i := range reqs {
		if i == 3 {
			assert.Equal(t, NoContent, errs[i])
			assert.Nil(t, results[i])
			continue
		}
		assert.NoError(t, errs[i])
		assert.Equal(t, "ok", results[i].Text())
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&maxInFlight), int32(2))
}

func TestLanguageCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"result":{"de_DE":"German"}}`))
	}))
	defer srv.Close()

	client := &RESTClient{BaseURL: srv.URL}
	lc := &LanguageCache{Path: filepath.Join(t.TempDir(), "languages.cache")}

	for i := 0; i < 3; i++ {
		langs, err := lc.Languages(context.Background(), client, "app", InputModeCursive)
		require.NoError(t, err)
		assert.Equal(t, "German", langs["de_DE"])
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, err := lc.Languages(context.Background(), client, "app", InputModeVertical)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// another host does not reuse the cache
	other := &RESTClient{BaseURL: srv.URL + "/"}
	_, err = lc.Languages(context.Background(), other, "app", InputModeCursive)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
