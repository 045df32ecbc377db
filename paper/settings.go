package paper

import (
	"github.com/gorilla/websocket"
	"github.com/juruen/inkpaper/hwr"
	"github.com/juruen/inkpaper/ink"
	"github.com/juruen/inkpaper/render"
)

func (p *Paper) ApplicationKey() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.ApplicationKey
}

func (p *Paper) SetApplicationKey(key string) {
	p.mu.Lock()
	defer p.unlock()
	p.opts.ApplicationKey = key
	p.credentialsLocked()
}

func (p *Paper) HmacKey() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.HmacKey
}

func (p *Paper) SetHmacKey(key string) {
	p.mu.Lock()
	defer p.unlock()
	p.opts.HmacKey = key
	p.credentialsLocked()
}

func (p *Paper) credentialsLocked() {
	stream, key, hmacKey := p.stream, p.opts.ApplicationKey, p.opts.HmacKey
	p.later(func() {
		stream.SetCredentials(key, hmacKey)
	})
}

func (p *Paper) Host() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.Host
}

// SetHost points both clients to host. An open streaming connection to
// the previous host is closed.
func (p *Paper) SetHost(host string) {
	p.mu.Lock()
	defer p.unlock()
	if host == "" {
		host = hwr.DefaultHost
	}
	p.opts.Host = host
	p.endpointLocked()
}

func (p *Paper) SSL() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.SSL
}

func (p *Paper) SetSSL(ssl bool) {
	p.mu.Lock()
	defer p.unlock()
	p.opts.SSL = ssl
	p.endpointLocked()
}

func (p *Paper) endpointLocked() {
	rest, stream := p.rest, p.stream
	host, ssl := p.opts.Host, p.opts.SSL
	p.later(func() {
		rest.SetHost(host, ssl)
		stream.SetHost(host, ssl)
	})
}

func (p *Paper) Type() RecognitionType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.Type
}

// SetType selects the recognition type, only TEXT is known
func (p *Paper) SetType(t string) error {
	typ, err := ParseType(t)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.unlock()
	p.opts.Type = typ
	p.invalidateLocked()
	return nil
}

func (p *Paper) Protocol() Protocol {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.Protocol
}

// SetProtocol switches between REST and WebSocket. Streaming disables the
// inactivity timer, leaving it closes the connection.
func (p *Paper) SetProtocol(s string) error {
	proto, err := ParseProtocol(s)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.unlock()

	if p.opts.Protocol == WebSocket && proto != WebSocket {
		p.session.initialized = false
		stream := p.stream
		p.later(func() {
			stream.Close(websocket.CloseNormalClosure, "")
		})
	}
	p.invalidateLocked()
	p.opts.Protocol = proto
	if proto == WebSocket {
		p.opts.Timeout = NoTimeout
	}
	return nil
}

func (p *Paper) Width() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.Width
}

func (p *Paper) SetWidth(width int) {
	p.resize(width, 0)
}

func (p *Paper) Height() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.Height
}

func (p *Paper) SetHeight(height int) {
	p.resize(0, height)
}

// resize replaces an owned canvas and redraws
func (p *Paper) resize(width, height int) {
	p.mu.Lock()
	defer p.unlock()
	if width > 0 {
		p.opts.Width = width
	}
	if height > 0 {
		p.opts.Height = height
	}
	if p.ownsCanvas {
		p.renderer.Surface = render.NewCanvas(p.opts.Width, p.opts.Height)
	}
	p.redrawLocked()
}

// Timeout is the inactivity delay in milliseconds
func (p *Paper) Timeout() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.Timeout
}

func (p *Paper) SetTimeout(ms int) {
	p.mu.Lock()
	defer p.unlock()
	p.opts.Timeout = ms
	if ms <= NoTimeout {
		p.stopTimerLocked()
	}
}

func (p *Paper) Typeset() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.Typeset
}

func (p *Paper) SetTypeset(typeset bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts.Typeset = typeset
	p.renderer.Typeset = typeset
}

func (p *Paper) Precision() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.Precision
}

func (p *Paper) SetPrecision(precision int) {
	p.mu.Lock()
	defer p.unlock()
	p.opts.Precision = precision
	rest, stream := p.rest, p.stream
	p.later(func() {
		rest.SetPrecision(precision)
		stream.SetPrecision(precision)
	})
}

// Components are the default components sent before the ink buffer
func (p *Paper) Components() []ink.Component {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ink.Component, len(p.opts.Components))
	copy(out, p.opts.Components)
	return out
}

func (p *Paper) SetComponents(components []ink.Component) {
	p.mu.Lock()
	defer p.unlock()
	p.opts.Components = components
	p.redrawLocked()
}

func (p *Paper) TextParameters() hwr.TextParameter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.TextParameters
}

// SetTextParameters starts a new recognition session with params
func (p *Paper) SetTextParameters(params hwr.TextParameter) {
	p.mu.Lock()
	defer p.unlock()
	p.opts.TextParameters = params.Normalize()
	p.invalidateLocked()
}

func (p *Paper) PenParameters() render.PenParameters {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.Pen
}

// SetPenParameters styles the strokes captured from now on and the
// overlays
func (p *Paper) SetPenParameters(pen render.PenParameters) {
	p.mu.Lock()
	defer p.unlock()
	p.opts.Pen = pen.Normalize()
	p.applyPen()
	p.redrawLocked()
}

func (p *Paper) applyPen() {
	p.renderer.Pen = p.opts.Pen
	if p.capture != nil {
		p.capture.Pen = p.opts.Pen
	}
}
