package paper

// outbox holds the streaming frames in the order the session produced
// them. Only one goroutine sends at a time, so the server sees increments
// in buffer order whichever goroutine made the transition.
type outbox struct {
	frames   []func() error
	draining bool
}

// claimLocked reports whether the caller has to drain the outbox
func (o *outbox) claimLocked() bool {
	if o.draining || len(o.frames) == 0 {
		return false
	}
	o.draining = true
	return true
}

func (p *Paper) sendLocked(f func() error) {
	p.outbox.frames = append(p.outbox.frames, f)
}

func (p *Paper) drainOutbox() {
	for {
		p.mu.Lock()
		if len(p.outbox.frames) == 0 || p.closed {
			p.outbox.frames = nil
			p.outbox.draining = false
			p.mu.Unlock()
			return
		}
		send := p.outbox.frames[0]
		p.outbox.frames = p.outbox.frames[1:]
		p.mu.Unlock()

		if err := send(); err != nil {
			p.streamFailed(err)
		}
	}
}
