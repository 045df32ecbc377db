package paper

import (
	"strings"
	"sync"

	"github.com/juruen/inkpaper/ink"
	"github.com/juruen/inkpaper/log"
	"github.com/pkg/errors"
)

var (
	ErrNoCapture      = errors.New("missing start of ink capture")
	ErrCaptureRunning = errors.New("stroke capture already running")
)

// grabber builds the stroke under the pen
type grabber struct {
	stroke  *ink.Stroke
	writing bool
}

func (g *grabber) start(x, y float64, t int64, color string, width, alpha float64) error {
	if g.writing {
		return ErrCaptureRunning
	}
	g.writing = true
	g.stroke = ink.NewStroke(color, width)
	g.stroke.Alpha = alpha
	g.stroke.AddPoint(x, y, t)
	return nil
}

func (g *grabber) add(x, y float64, t int64) error {
	if !g.writing {
		return ErrNoCapture
	}
	g.stroke.AddPoint(x, y, t)
	return nil
}

func (g *grabber) end(x, y float64, t int64) (*ink.Stroke, error) {
	if err := g.add(x, y, t); err != nil {
		return nil, err
	}
	s := g.stroke
	g.stroke = nil
	g.writing = false
	return s, nil
}

func (p *Paper) drawCaptureLocked() {
	if p.capture == nil {
		return
	}
	p.capture.Clear()
	if p.grabber.stroke == nil {
		return
	}
	if err := p.capture.DrawComponent(p.grabber.stroke); err != nil {
		log.Warning.Printf("paper %s: capture: %v", p.id, err)
	}
}

// PointerDown starts a stroke with the current pen. It discards the redo
// buffer.
func (p *Paper) PointerDown(x, y float64, t int64) error {
	p.mu.Lock()
	defer p.unlock()

	pen := p.opts.Pen
	if err := p.grabber.start(x, y, t, pen.Color, pen.Width, pen.Alpha); err != nil {
		return err
	}
	p.stopTimerLocked()
	if len(p.redo) > 0 {
		p.redo = nil
		p.changedLocked()
	}
	p.drawCaptureLocked()
	return nil
}

func (p *Paper) PointerMove(x, y float64, t int64) error {
	p.mu.Lock()
	defer p.unlock()

	if err := p.grabber.add(x, y, t); err != nil {
		return err
	}
	p.drawCaptureLocked()
	return nil
}

func (p *Paper) PointerUp(x, y float64, t int64) error {
	_, err := p.FinishStroke(x, y, t)
	return err
}

// FinishStroke is PointerUp returning the stroke it committed
func (p *Paper) FinishStroke(x, y float64, t int64) (*ink.Stroke, error) {
	p.mu.Lock()
	defer p.unlock()

	s, err := p.grabber.end(x, y, t)
	if err != nil {
		return nil, err
	}
	p.commitLocked(s)
	return s, nil
}

// PointerLeave ends the stroke at its last accepted point
func (p *Paper) PointerLeave() error {
	p.mu.Lock()
	defer p.unlock()

	if !p.grabber.writing {
		return ErrNoCapture
	}
	last, _ := p.grabber.stroke.LastPoint()
	s, err := p.grabber.end(last.X, last.Y, last.T)
	if err != nil {
		return err
	}
	p.commitLocked(s)
	return nil
}

// commitLocked appends a finished stroke and decides how it gets
// recognized
func (p *Paper) commitLocked(s *ink.Stroke) {
	p.drawCaptureLocked()
	if err := p.renderer.DrawComponent(s); err != nil {
		log.Warning.Printf("paper %s: draw stroke: %v", p.id, err)
	}
	p.strokes = append(p.strokes, s)
	p.changedLocked()
	log.Trace.Printf("paper %s: stroke %s with %d points", p.id, s.ID, s.Len())

	if p.opts.Protocol == WebSocket {
		if !p.stream.IsOpen() && !p.stream.IsConnecting() {
			p.openStreamLocked()
			return
		}
		p.recognizeLocked()
		return
	}
	p.armTimerLocked()
}

type PointerKind int

const (
	PointerDownEvent PointerKind = iota
	PointerMoveEvent
	PointerUpEvent
	PointerLeaveEvent
	PointerOutEvent
)

var pointerKinds = map[string]PointerKind{
	"pointerdown":  PointerDownEvent,
	"pointermove":  PointerMoveEvent,
	"pointerup":    PointerUpEvent,
	"pointerleave": PointerLeaveEvent,
	"pointerout":   PointerOutEvent,
}

// ParsePointerKind accepts DOM event names, with or without the pointer
// prefix
func ParsePointerKind(s string) (PointerKind, error) {
	s = strings.ToLower(s)
	if !strings.HasPrefix(s, "pointer") {
		s = "pointer" + s
	}
	if k, ok := pointerKinds[s]; ok {
		return k, nil
	}
	return 0, errors.Errorf("unknown pointer event %q", s)
}

// pointerTracker follows one pointer at a time
type pointerTracker struct {
	mu       sync.Mutex
	tracking bool
	id       int
}

// HandlePointer feeds a pointer event of the element with bounds b. Events
// of other pointers than the one that went down are ignored. The tracker
// lock is released before the paper runs, callbacks may feed more events.
func (p *Paper) HandlePointer(kind PointerKind, e PointerEvent, b Bounds) error {
	c := Coordinates(e, b)
	tr := &p.pointer

	tr.mu.Lock()
	switch kind {
	case PointerDownEvent:
		if tr.tracking {
			tr.mu.Unlock()
			return nil
		}
		tr.tracking, tr.id = true, e.PointerID
		tr.mu.Unlock()

		if err := p.PointerDown(c.X, c.Y, c.T); err != nil {
			tr.mu.Lock()
			if tr.id == e.PointerID {
				tr.tracking = false
			}
			tr.mu.Unlock()
			return err
		}
		return nil
	case PointerMoveEvent, PointerUpEvent, PointerLeaveEvent, PointerOutEvent:
	default:
		tr.mu.Unlock()
		return errors.Errorf("unknown pointer event %d", kind)
	}

	if !tr.tracking || tr.id != e.PointerID {
		tr.mu.Unlock()
		return nil
	}
	if kind != PointerMoveEvent {
		tr.tracking = false
	}
	tr.mu.Unlock()

	switch kind {
	case PointerMoveEvent:
		return p.PointerMove(c.X, c.Y, c.T)
	case PointerUpEvent:
		return p.PointerUp(c.X, c.Y, c.T)
	}
	return p.PointerLeave()
}
