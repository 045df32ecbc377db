// Package paper captures pointer input into strokes, draws them and keeps
// a recognition session in sync with the ink buffer.
package paper

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/juruen/inkpaper/hwr"
	"github.com/juruen/inkpaper/ink"
	"github.com/juruen/inkpaper/log"
	"github.com/juruen/inkpaper/render"
)

type State int

const (
	Idle State = iota
	Capturing
	AwaitingConnection
	Recognizing
	Initialized
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Capturing:
		return "capturing"
	case AwaitingConnection:
		return "awaiting connection"
	case Recognizing:
		return "recognizing"
	case Initialized:
		return "initialized"
	}
	return "unknown"
}

// RESTRecognizer is the request/response side of the recognition service
type RESTRecognizer interface {
	Recognize(ctx context.Context, req *hwr.RecognizeRequest) (*hwr.Result, error)
	Languages(ctx context.Context, applicationKey string, mode hwr.InputMode) (map[string]string, error)
	SetHost(host string, ssl bool)
	SetPrecision(precision int)
}

// StreamRecognizer is the streaming side of the recognition service. It
// reports connection events and server messages to its handler.
type StreamRecognizer interface {
	SetHandler(h func(hwr.Frame))
	SetCredentials(applicationKey, hmacKey string)
	SetHost(host string, ssl bool)
	SetPrecision(precision int)
	IsOpen() bool
	IsConnecting() bool
	Open()
	Close(code int, reason string)
	Start(components []ink.Component, params hwr.TextParameter) error
	Continue(components []ink.Component, instanceID string) error
	Reset() error
}

type session struct {
	instanceID  string
	initialized bool
	started     bool
	lastSent    int
	// bumped on every invalidation, REST completions of an older
	// generation are dropped
	generation int
	inFlight   bool
	pending    bool
	// a reset was sent and not acknowledged yet
	resetting bool
}

type subscriber struct {
	id int
	f  func(Event)
}

type Paper struct {
	id string

	mu         sync.Mutex
	opts       Options
	rest       RESTRecognizer
	stream     StreamRecognizer
	scheduler  Scheduler
	exec       Executor
	renderer   *render.Renderer
	capture    *render.Renderer
	ownsCanvas bool

	grabber    grabber
	strokes    []*ink.Stroke
	redo       []*ink.Stroke
	session    session
	state      State
	lastResult *hwr.Result

	timer    Timer
	timerSeq int

	onChange    ChangeFunc
	onResult    ResultFunc
	subscribers []subscriber
	nextSubID   int

	// run in order once mu is released
	deferred []func()
	outbox   outbox

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	pointer pointerTracker
}

type Option func(*Paper)

// WithSurface draws the ink buffer on s instead of an owned canvas
func WithSurface(s render.Surface) Option {
	return func(p *Paper) {
		p.renderer.Surface = s
		p.ownsCanvas = false
	}
}

// WithCaptureSurface draws the stroke being captured on s
func WithCaptureSurface(s render.Surface) Option {
	return func(p *Paper) {
		p.capture = render.NewRenderer(s)
	}
}

func WithRESTRecognizer(r RESTRecognizer) Option {
	return func(p *Paper) {
		p.rest = r
	}
}

func WithStreamRecognizer(s StreamRecognizer) Option {
	return func(p *Paper) {
		p.stream = s
	}
}

func WithScheduler(s Scheduler) Option {
	return func(p *Paper) {
		p.scheduler = s
	}
}

func WithExecutor(e Executor) Option {
	return func(p *Paper) {
		p.exec = e
	}
}

func New(opts Options, options ...Option) (*Paper, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	p := &Paper{
		id:         uuid.New().String(),
		opts:       opts,
		scheduler:  clockScheduler{},
		exec:       goExecutor,
		renderer:   render.NewRenderer(render.NewCanvas(opts.Width, opts.Height)),
		ownsCanvas: true,
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())
	for _, o := range options {
		o(p)
	}

	if p.rest == nil {
		rest := hwr.NewRESTClient(opts.Host, opts.SSL)
		rest.Precision = opts.Precision
		p.rest = rest
	}
	if p.stream == nil {
		p.stream = hwr.NewStreamClient(opts.Host, opts.SSL)
	}
	p.stream.SetCredentials(opts.ApplicationKey, opts.HmacKey)
	p.stream.SetPrecision(opts.Precision)
	p.stream.SetHandler(p.handleFrame)

	p.applyPen()
	p.renderer.Typeset = opts.Typeset
	p.mu.Lock()
	p.redrawLocked()
	p.mu.Unlock()

	log.Trace.Printf("paper %s: protocol %s, host %s", p.id, opts.Protocol, opts.Host)
	return p, nil
}

func (p *Paper) ID() string {
	return p.id
}

func (p *Paper) unlock() {
	actions := p.deferred
	p.deferred = nil
	drain := p.outbox.claimLocked()
	p.mu.Unlock()
	for _, a := range actions {
		a()
	}
	if drain {
		p.drainOutbox()
	}
}

func (p *Paper) later(f func()) {
	p.deferred = append(p.deferred, f)
}

func (p *Paper) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.grabber.writing {
		return Capturing
	}
	return p.state
}

func (p *Paper) SetChangeCallback(f ChangeFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = f
}

func (p *Paper) SetResultCallback(f ResultFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onResult = f
}

// Subscribe registers f for every event. The returned func unregisters it.
func (p *Paper) Subscribe(f func(Event)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers = append(p.subscribers, subscriber{id: id, f: f})
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, s := range p.subscribers {
			if s.id == id {
				p.subscribers = append(p.subscribers[:i:i], p.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (p *Paper) publishLocked(e Event) {
	subs := make([]subscriber, len(p.subscribers))
	copy(subs, p.subscribers)
	onChange, onResult := p.onChange, p.onResult
	p.later(func() {
		switch e.Kind {
		case EventChange:
			if onChange != nil {
				onChange(e.Change)
			}
		case EventSuccess, EventError:
			if onResult != nil {
				onResult(e.Result, e.Err)
			}
		}
		for _, s := range subs {
			s.f(e)
		}
	})
}

func (p *Paper) historyLocked() ChangeData {
	return ChangeData{
		CanUndo:    len(p.strokes) > 0,
		UndoLength: len(p.strokes),
		CanRedo:    len(p.redo) > 0,
		RedoLength: len(p.redo),
	}
}

// History is the undo and redo state, as sent with change events
func (p *Paper) History() ChangeData {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.historyLocked()
}

func (p *Paper) changedLocked() {
	p.publishLocked(Event{Kind: EventChange, Change: p.historyLocked()})
}

func (p *Paper) resultLocked(res *hwr.Result, err error) {
	if err != nil {
		log.Warning.Printf("paper %s: recognition failed: %v", p.id, err)
		p.publishLocked(Event{Kind: EventError, Err: err})
		return
	}
	p.publishLocked(Event{Kind: EventSuccess, Result: res})
}

// input is the default components followed by the ink buffer
func (p *Paper) inputLocked() []ink.Component {
	input := make([]ink.Component, 0, len(p.opts.Components)+len(p.strokes))
	input = append(input, p.opts.Components...)
	for _, s := range p.strokes {
		input = append(input, s)
	}
	return input
}

func (p *Paper) redrawLocked() {
	p.renderer.Clear()
	if err := p.renderer.DrawComponents(p.inputLocked()); err != nil {
		log.Warning.Printf("paper %s: redraw: %v", p.id, err)
	}
}

func (p *Paper) renderResultLocked(res *hwr.Result) {
	p.lastResult = res
	if err := p.renderer.DrawRecognitionResult(p.inputLocked(), res); err != nil {
		log.Warning.Printf("paper %s: render result: %v", p.id, err)
	}
	p.resultLocked(res, nil)
}

func (p *Paper) stopTimerLocked() {
	p.timerSeq++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// armTimerLocked schedules a recognition after the inactivity timeout
func (p *Paper) armTimerLocked() bool {
	p.stopTimerLocked()
	if p.opts.Timeout <= NoTimeout || p.closed {
		return false
	}
	seq := p.timerSeq
	p.timer = p.scheduler.AfterFunc(time.Duration(p.opts.Timeout)*time.Millisecond, func() {
		p.timerFired(seq)
	})
	return true
}

func (p *Paper) timerFired(seq int) {
	p.mu.Lock()
	defer p.unlock()
	if seq != p.timerSeq {
		return
	}
	p.timer = nil
	p.recognizeLocked()
}

// Render draws the default components and the ink buffer on sf
func (p *Paper) Render(sf render.Surface) error {
	p.mu.Lock()
	input := p.inputLocked()
	r := render.NewRenderer(sf)
	r.Pen = p.opts.Pen
	r.Typeset = p.opts.Typeset
	p.mu.Unlock()

	r.Clear()
	return r.DrawComponents(input)
}

// Surface is where the ink buffer is drawn
func (p *Paper) Surface() render.Surface {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renderer.Surface
}

func (p *Paper) Strokes() []*ink.Stroke {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*ink.Stroke, len(p.strokes))
	copy(out, p.strokes)
	return out
}

func (p *Paper) LastResult() *hwr.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastResult
}

func (p *Paper) Stats() Stats {
	p.mu.Lock()
	strokes := make([]*ink.Stroke, len(p.strokes))
	copy(strokes, p.strokes)
	p.mu.Unlock()
	return computeStats(strokes)
}

// Languages lists the languages of the current input mode
func (p *Paper) Languages(ctx context.Context) (map[string]string, error) {
	p.mu.Lock()
	key, mode := p.opts.ApplicationKey, p.opts.TextParameters.TextInputMode
	p.mu.Unlock()
	return p.rest.Languages(ctx, key, mode)
}

// Close stops the timer, abandons running requests and closes the
// streaming connection.
func (p *Paper) Close() {
	p.mu.Lock()
	defer p.unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.outbox.frames = nil
	p.stopTimerLocked()
	p.cancel()
	stream := p.stream
	p.later(func() {
		stream.Close(websocket.CloseNormalClosure, "")
	})
}
