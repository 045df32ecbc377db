package hwr

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/juruen/inkpaper/ink"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	kind int
	data []byte
}

type fakeConn struct {
	in        chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	mu  sync.Mutex
	out []message
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan []byte, 16), closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case m := <-f.in:
		return websocket.TextMessage, m, nil
	case <-f.closed:
		return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
	}
}

func (f *fakeConn) WriteMessage(kind int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, message{kind, data})
	return nil
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) sent() []message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]message(nil), f.out...)
}

func (f *fakeConn) sentType(t *testing.T, i int) map[string]interface{} {
	out := f.sent()
	require.True(t, len(out) > i, "frame %d not sent", i)
	m := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(out[i].data, &m))
	return m
}

func newTestStream(conn *fakeConn) (*StreamClient, chan Frame) {
	c := NewStreamClient("example.com", true)
	c.Dial = func(ctx context.Context, url string) (Conn, error) {
		return conn, nil
	}
	frames := make(chan Frame, 16)
	c.SetHandler(func(f Frame) { frames <- f })
	return c, frames
}

func next(t *testing.T, frames chan Frame) Frame {
	select {
	case f := <-frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
	}
	return Frame{}
}

func TestStreamSession(t *testing.T) {
	conn := newFakeConn()
	c, frames := newTestStream(conn)
	c.SetCredentials("app", "secret")
	c.SetPrecision(0)

	s := ink.NewStroke("", 3)
	s.AddPoint(1.4, 2.6, 0)

	// sending before the handshake queues the frame and connects
	require.NoError(t, c.Start([]ink.Component{s}, DefaultTextParameter()))
	assert.Equal(t, FrameOpen, next(t, frames).Kind)
	assert.True(t, c.IsOpen())
	assert.False(t, c.IsReady())

	m := conn.sentType(t, 0)
	assert.Equal(t, "applicationKey", m["type"])
	assert.Equal(t, "app", m["applicationKey"])

	conn.in <- []byte(`{"type":"hmacChallenge","challenge":"nonce"}`)
	assert.Equal(t, FrameChallenge, next(t, frames).Kind)
	m = conn.sentType(t, 1)
	assert.Equal(t, "hmac", m["type"])
	assert.Equal(t, "nonce", m["challenge"])
	assert.Equal(t, ComputeHmac([]byte("nonce"), "app", "secret"), m["hmac"])

	conn.in <- []byte(`{"type":"init"}`)
	assert.Equal(t, FrameInit, next(t, frames).Kind)
	assert.True(t, c.IsReady())
	m = conn.sentType(t, 2)
	assert.Equal(t, "start", m["type"])
	units := m["inputUnits"].([]interface{})
	comp := units[0].(map[string]interface{})["components"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, []interface{}{1.0}, comp["x"])
	assert.Equal(t, []interface{}{3.0}, comp["y"])

	conn.in <- []byte(`{"instanceId":"i-1","result":{"textSegmentResult":{"candidates":[{"label":"hi"}]}}}`)
	f := next(t, frames)
	require.Equal(t, FrameResult, f.Kind)
	assert.Equal(t, "i-1", f.Result.InstanceID)
	assert.Equal(t, "hi", f.Result.Text())

	require.NoError(t, c.Continue([]ink.Component{s}, "i-1"))
	m = conn.sentType(t, 3)
	assert.Equal(t, "continue", m["type"])
	assert.Equal(t, "i-1", m["instanceId"])

	require.NoError(t, c.Reset())
	assert.Equal(t, "reset", conn.sentType(t, 4)["type"])

	conn.in <- []byte(`{"type":"error","error":"bad input"}`)
	f = next(t, frames)
	assert.Equal(t, FrameError, f.Kind)
	assert.Error(t, f.Err)

	c.Close(websocket.CloseNormalClosure, "bye")
	f = next(t, frames)
	assert.Equal(t, FrameClose, f.Kind)
	assert.Equal(t, websocket.CloseNormalClosure, f.Code)
	assert.Equal(t, StateClosed, c.State())
	assert.Equal(t, websocket.CloseMessage, conn.sent()[5].kind)

	c.Close(websocket.CloseNormalClosure, "")
	assert.Len(t, conn.sent(), 6)
}

func TestStreamWithoutHmacKey(t *testing.T) {
	conn := newFakeConn()
	c, frames := newTestStream(conn)
	c.SetCredentials("app", "")
	c.Open()
	c.Open()
	assert.Equal(t, FrameOpen, next(t, frames).Kind)

	conn.in <- []byte(`{"type":"hmacChallenge","challenge":"nonce"}`)
	next(t, frames)
	m := conn.sentType(t, 1)
	_, ok := m["hmac"]
	assert.False(t, ok)
	c.Close(websocket.CloseNormalClosure, "")
}

func TestStreamResetBeforeReady(t *testing.T) {
	conn := newFakeConn()
	c, _ := newTestStream(conn)
	require.NoError(t, c.Reset())
	assert.Equal(t, StateNone, c.State())
	assert.Empty(t, conn.sent())
}

func TestStreamDialError(t *testing.T) {
	c := NewStreamClient("example.com", false)
	c.Dial = func(ctx context.Context, url string) (Conn, error) {
		return nil, errors.New("refused")
	}
	frames := make(chan Frame, 4)
	c.SetHandler(func(f Frame) { frames <- f })

	c.Open()
	f := next(t, frames)
	assert.Equal(t, FrameError, f.Kind)
	assert.Contains(t, f.Err.Error(), "refused")
	assert.Equal(t, FrameClose, next(t, frames).Kind)
	assert.Equal(t, StateClosed, c.State())
}

func TestStreamConnectionLost(t *testing.T) {
	conn := newFakeConn()
	c, frames := newTestStream(conn)
	c.Open()
	assert.Equal(t, FrameOpen, next(t, frames).Kind)

	conn.Close()
	// a normal closure from the server is not an error
	f := next(t, frames)
	assert.Equal(t, FrameClose, f.Kind)
	assert.False(t, c.IsOpen())
}
