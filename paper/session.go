package paper

import (
	"github.com/juruen/inkpaper/hwr"
	"github.com/juruen/inkpaper/ink"
	"github.com/juruen/inkpaper/log"
)

// Recognize sends what the service has not seen yet. Failures are only
// reported through the result callback and the error event.
func (p *Paper) Recognize() {
	p.mu.Lock()
	defer p.unlock()
	p.recognizeLocked()
}

func (p *Paper) recognizeLocked() {
	if p.closed {
		return
	}
	p.stopTimerLocked()
	if p.opts.Protocol == WebSocket {
		p.recognizeStreamLocked()
		return
	}
	p.recognizeRESTLocked()
}

func (p *Paper) increment() []ink.Component {
	input := p.inputLocked()
	if p.session.lastSent > len(input) {
		p.session.lastSent = len(input)
	}
	return input[p.session.lastSent:]
}

func (p *Paper) recognizeRESTLocked() {
	if p.session.inFlight {
		p.session.pending = true
		return
	}

	increment := p.increment()
	if len(increment) == 0 {
		p.renderResultLocked(p.lastResult)
		return
	}

	s := &p.session
	s.inFlight = true
	p.state = Recognizing
	gen, n := s.generation, len(increment)
	req := &hwr.RecognizeRequest{
		ApplicationKey: p.opts.ApplicationKey,
		HmacKey:        p.opts.HmacKey,
		InstanceID:     s.instanceID,
		Parameters:     p.opts.TextParameters,
		Components:     increment,
	}
	log.Trace.Printf("paper %s: REST %d components, instance %q", p.id, n, s.instanceID)

	ctx, rest, exec := p.ctx, p.rest, p.exec
	p.later(func() {
		exec(func() {
			res, err := rest.Recognize(ctx, req)
			p.restDone(gen, n, res, err)
		})
	})
}

func (p *Paper) restDone(gen, n int, res *hwr.Result, err error) {
	p.mu.Lock()
	defer p.unlock()

	s := &p.session
	if gen != s.generation || p.closed {
		log.Trace.Printf("paper %s: dropping stale response of generation %d", p.id, gen)
		return
	}
	s.inFlight = false

	if err != nil {
		s.pending = false
		if s.started {
			p.state = Initialized
		} else {
			p.state = Idle
		}
		p.resultLocked(nil, err)
		return
	}

	s.started = true
	if s.instanceID == "" {
		s.instanceID = res.InstanceID
	}
	// strokes added while the call was running are still unsent
	s.lastSent += n
	p.state = Initialized
	p.renderResultLocked(res)

	if s.pending {
		s.pending = false
		p.recognizeLocked()
	}
}

func (p *Paper) openStreamLocked() {
	p.state = AwaitingConnection
	stream := p.stream
	p.later(stream.Open)
}

func (p *Paper) recognizeStreamLocked() {
	s := &p.session
	if !s.initialized {
		if !p.stream.IsOpen() && !p.stream.IsConnecting() {
			p.openStreamLocked()
		}
		return
	}
	if s.resetting {
		// the reset acknowledgement starts over with the whole buffer
		return
	}
	if s.started && s.instanceID == "" {
		// continue needs the instance id of the first result
		s.pending = true
		return
	}

	increment := p.increment()
	if len(increment) == 0 {
		p.renderResultLocked(p.lastResult)
		return
	}

	s.lastSent += len(increment)
	p.state = Recognizing
	stream := p.stream
	if !s.started {
		s.started = true
		params := p.opts.TextParameters
		log.Trace.Printf("paper %s: stream start with %d components", p.id, len(increment))
		p.sendLocked(func() error {
			return stream.Start(increment, params)
		})
		return
	}

	id := s.instanceID
	log.Trace.Printf("paper %s: stream continue %q with %d components", p.id, id, len(increment))
	p.sendLocked(func() error {
		return stream.Continue(increment, id)
	})
}

func (p *Paper) streamFailed(err error) {
	p.mu.Lock()
	defer p.unlock()
	p.forgetSessionLocked()
	p.resultLocked(nil, err)
}

func (p *Paper) forgetSessionLocked() {
	s := &p.session
	s.instanceID = ""
	s.started = false
	s.lastSent = 0
	s.pending = false
	s.resetting = false
	// frames of the lost session are not sent
	p.outbox.frames = nil
	p.state = Idle
}

func (p *Paper) handleFrame(f hwr.Frame) {
	if p.HandleFrame(f) {
		log.Trace.Printf("paper %s: session lost, replayed on next recognition", p.id)
	}
}

// HandleFrame applies an event of the streaming session. It reports
// whether the session was lost and the buffer needs to be sent again.
func (p *Paper) HandleFrame(f hwr.Frame) (replay bool) {
	p.mu.Lock()
	defer p.unlock()

	log.Trace.Printf("paper %s: frame %s", p.id, f.Kind)
	s := &p.session
	if f.Kind == hwr.FrameClose {
		s.initialized = false
	}
	if p.opts.Protocol != WebSocket {
		return false
	}

	switch f.Kind {
	case hwr.FrameClose:
		p.forgetSessionLocked()
	case hwr.FrameInit:
		s.initialized = true
		p.forgetSessionLocked()
		p.recognizeLocked()
	case hwr.FrameReset:
		p.forgetSessionLocked()
		p.recognizeLocked()
	case hwr.FrameError:
		p.forgetSessionLocked()
		p.resultLocked(nil, f.Err)
		return true
	case hwr.FrameResult:
		if s.resetting {
			log.Trace.Printf("paper %s: dropping result received while resetting", p.id)
			return false
		}
		s.started = true
		if s.instanceID == "" && f.Result != nil {
			s.instanceID = f.Result.InstanceID
		}
		p.state = Initialized
		p.renderResultLocked(f.Result)
		if s.pending {
			s.pending = false
			p.recognizeLocked()
		}
	}
	return false
}

// invalidateLocked forgets the recognition session. A streaming session
// is reset on the server.
func (p *Paper) invalidateLocked() {
	p.stopTimerLocked()
	s := &p.session
	s.generation++
	s.inFlight = false
	p.forgetSessionLocked()
	p.lastResult = nil

	if p.opts.Protocol == WebSocket && s.initialized {
		s.resetting = true
		stream := p.stream
		p.sendLocked(stream.Reset)
	}
}

// afterEditLocked runs once the buffer changed under the session
func (p *Paper) afterEditLocked(recognizeNow bool) {
	p.redrawLocked()
	p.changedLocked()
	if p.opts.Protocol == WebSocket {
		if recognizeNow {
			p.recognizeLocked()
		}
		return
	}
	p.armTimerLocked()
}

func (p *Paper) CanUndo() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.strokes) > 0
}

func (p *Paper) CanRedo() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.redo) > 0
}

// Undo moves the last stroke to the redo buffer
func (p *Paper) Undo() {
	p.mu.Lock()
	defer p.unlock()
	n := len(p.strokes)
	if n == 0 {
		return
	}
	p.redo = append(p.redo, p.strokes[n-1])
	p.strokes = p.strokes[: n-1 : n-1]
	p.invalidateLocked()
	p.resultLocked(nil, nil)
	p.afterEditLocked(false)
}

// Redo restores the last undone stroke. Streaming sessions recognize right
// away.
func (p *Paper) Redo() {
	p.mu.Lock()
	defer p.unlock()
	n := len(p.redo)
	if n == 0 {
		return
	}
	p.strokes = append(p.strokes, p.redo[n-1])
	p.redo = p.redo[:n-1]
	p.invalidateLocked()
	p.resultLocked(nil, nil)
	p.afterEditLocked(true)
}

// Clear empties the ink and redo buffers
func (p *Paper) Clear() {
	p.mu.Lock()
	defer p.unlock()
	p.strokes = nil
	p.redo = nil
	p.invalidateLocked()
	p.resultLocked(nil, nil)
	p.afterEditLocked(false)
}
