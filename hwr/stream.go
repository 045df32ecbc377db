package hwr

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/juruen/inkpaper/ink"
	"github.com/juruen/inkpaper/log"
	"github.com/pkg/errors"
)

// ErrNotConnected is returned when a frame can't be queued
var ErrNotConnected = errors.New("stream not connected")

// Conn is the part of *websocket.Conn the stream client needs
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type DialFunc func(ctx context.Context, url string) (Conn, error)

func dialWebsocket(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

type ConnState int

const (
	StateNone ConnState = iota
	StateConnecting
	StateOpen
	StateReady
	StateClosing
	StateClosed
)

// StreamClient owns one persistent connection to the streaming api.
//
// Once connected it sends the application key and answers the hmac
// challenge itself. Recognition frames sent before the service
// acknowledged the handshake with init are queued and flushed right
// after it. Every frame and connection event is passed to the handler,
// which runs on the reader goroutine and without any client lock held.
type StreamClient struct {
	URL  string
	Dial DialFunc

	mu             sync.Mutex
	state          ConnState
	conn           Conn
	gen            int
	queue          [][]byte
	handler        func(Frame)
	applicationKey string
	hmacKey        string
	precision      int
}

func NewStreamClient(host string, ssl bool) *StreamClient {
	return &StreamClient{
		URL:       StreamURL(host, ssl),
		Dial:      dialWebsocket,
		precision: -1,
	}
}

func (c *StreamClient) SetHandler(h func(Frame)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

func (c *StreamClient) SetCredentials(applicationKey, hmacKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applicationKey = applicationKey
	c.hmacKey = hmacKey
}

func (c *StreamClient) SetPrecision(precision int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.precision = precision
}

// SetURL closes the current connection if the url changes
func (c *StreamClient) SetURL(url string) {
	c.mu.Lock()
	same := c.URL == url
	c.mu.Unlock()
	if same {
		return
	}
	c.Close(websocket.CloseNormalClosure, "")
	c.mu.Lock()
	c.URL = url
	c.mu.Unlock()
}

func (c *StreamClient) SetHost(host string, ssl bool) {
	c.SetURL(StreamURL(host, ssl))
}

func (c *StreamClient) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsOpen reports an established connection, handshake done or not
func (c *StreamClient) IsOpen() bool {
	s := c.State()
	return s == StateOpen || s == StateReady
}

func (c *StreamClient) IsConnecting() bool {
	return c.State() == StateConnecting
}

func (c *StreamClient) IsReady() bool {
	return c.State() == StateReady
}

// Open starts connecting unless a connection is open or in progress
func (c *StreamClient) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openLocked()
}

func (c *StreamClient) openLocked() {
	switch c.state {
	case StateConnecting, StateOpen, StateReady:
		return
	}
	c.state = StateConnecting
	c.gen++
	go c.connect(c.gen, c.URL)
}

func (c *StreamClient) connect(gen int, url string) {
	dial := c.Dial
	if dial == nil {
		dial = dialWebsocket
	}
	log.Trace.Printf("stream: dialing %s", url)
	conn, err := dial(context.Background(), url)

	c.mu.Lock()
	if gen != c.gen || c.state != StateConnecting {
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		c.state = StateClosed
		c.queue = nil
		c.mu.Unlock()
		log.Error.Printf("stream: can't connect: %v", err)
		c.emit(Frame{Kind: FrameError, Err: errors.Wrap(err, "can't connect")})
		c.emit(Frame{Kind: FrameClose, Code: websocket.CloseAbnormalClosure})
		return
	}

	c.conn = conn
	c.state = StateOpen
	init, _ := json.Marshal(initRequest{Type: "applicationKey", ApplicationKey: c.applicationKey})
	werr := conn.WriteMessage(websocket.TextMessage, init)
	c.mu.Unlock()

	if werr != nil {
		log.Error.Printf("stream: can't send application key: %v", werr)
	}
	c.emit(Frame{Kind: FrameOpen})
	c.read(gen, conn)
}

func (c *StreamClient) read(gen int, conn Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			c.closed(gen, err)
			return
		}

		frame, err := DecodeFrame(msg)
		if err != nil {
			log.Error.Printf("stream: %v", err)
			continue
		}
		log.Trace.Printf("stream: received %s", frame.Kind)

		switch frame.Kind {
		case FrameChallenge:
			c.answerChallenge(frame.Challenge)
		case FrameInit:
			c.ready(gen)
		}
		c.emit(frame)
	}
}

func (c *StreamClient) closed(gen int, err error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	closing := c.state == StateClosing
	c.state = StateClosed
	c.conn = nil
	c.queue = nil
	c.mu.Unlock()

	code := websocket.CloseAbnormalClosure
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		code = ce.Code
	}

	if !closing && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.Error.Printf("stream: connection lost: %v", err)
		c.emit(Frame{Kind: FrameError, Err: errors.Wrap(err, "connection lost")})
	}
	if closing {
		code = websocket.CloseNormalClosure
	}
	c.emit(Frame{Kind: FrameClose, Code: code})
}

func (c *StreamClient) answerChallenge(challenge string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	req := challengeRequest{
		Type:           "hmac",
		ApplicationKey: c.applicationKey,
		Challenge:      challenge,
	}
	if c.hmacKey != "" {
		req.Hmac = ComputeHmac([]byte(challenge), c.applicationKey, c.hmacKey)
	}
	b, _ := json.Marshal(req)
	if c.conn == nil {
		return
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		log.Error.Printf("stream: can't answer challenge: %v", err)
	}
}

func (c *StreamClient) ready(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.conn == nil {
		return
	}
	c.state = StateReady
	queue := c.queue
	c.queue = nil
	for _, b := range queue {
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Error.Printf("stream: can't flush frame: %v", err)
			return
		}
	}
	if len(queue) > 0 {
		log.Trace.Printf("stream: flushed %d queued frames", len(queue))
	}
}

func (c *StreamClient) emit(f Frame) {
	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()
	if h != nil {
		h(f)
	}
}

// Close is a no-op once the connection is closing or closed
func (c *StreamClient) Close(code int, reason string) {
	c.mu.Lock()
	switch c.state {
	case StateNone, StateClosing, StateClosed:
		c.mu.Unlock()
		return
	case StateConnecting:
		c.state = StateClosed
		c.gen++
		c.queue = nil
		c.mu.Unlock()
		c.emit(Frame{Kind: FrameClose, Code: code})
		return
	}

	c.state = StateClosing
	c.queue = nil
	conn := c.conn
	err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	c.mu.Unlock()
	if err != nil {
		log.Trace.Printf("stream: close frame: %v", err)
	}
	// unblocks the reader, which reports the close
	conn.Close()
}

// Start begins a new recognition with the whole input
func (c *StreamClient) Start(components []ink.Component, params TextParameter) error {
	c.mu.Lock()
	p := c.precision
	c.mu.Unlock()
	return c.send(startRequest{
		Type:          "start",
		TextParameter: params.Normalize(),
		InputUnits:    inputUnits(components, p),
	})
}

// Continue sends an increment of an existing recognition
func (c *StreamClient) Continue(components []ink.Component, instanceID string) error {
	c.mu.Lock()
	p := c.precision
	c.mu.Unlock()
	return c.send(continueRequest{
		Type:       "continue",
		InstanceID: instanceID,
		InputUnits: inputUnits(components, p),
	})
}

// Reset drops the server side recognition. Without a ready connection
// there is nothing to reset.
func (c *StreamClient) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return nil
	}
	b, _ := json.Marshal(resetRequest{Type: "reset"})
	return errors.Wrap(c.conn.WriteMessage(websocket.TextMessage, b), "can't send reset")
}

func (c *StreamClient) send(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "can't encode frame")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateReady {
		log.Trace.Printf("stream: sending %d bytes", len(b))
		return errors.Wrap(c.conn.WriteMessage(websocket.TextMessage, b), "can't send frame")
	}
	c.queue = append(c.queue, b)
	c.openLocked()
	return nil
}
