package hwr

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

type FrameKind int

const (
	FrameOpen FrameKind = iota
	FrameClose
	FrameError
	FrameInit
	FrameReset
	FrameChallenge
	FrameResult
)

func (k FrameKind) String() string {
	switch k {
	case FrameOpen:
		return "open"
	case FrameClose:
		return "close"
	case FrameError:
		return "error"
	case FrameInit:
		return "init"
	case FrameReset:
		return "reset"
	case FrameChallenge:
		return "hmacChallenge"
	case FrameResult:
		return "result"
	}
	return fmt.Sprintf("frame(%d)", int(k))
}

// Frame is an event of the streaming session, either a connection event
// or a decoded server message.
type Frame struct {
	Kind      FrameKind
	Challenge string
	Result    *Result
	Err       error
	// Code is the close code of a FrameClose
	Code int
}

// SessionError is an error frame sent by the recognition service
type SessionError struct {
	Message string
}

func (e *SessionError) Error() string {
	return "recognition session error: " + e.Message
}

// DecodeFrame decodes a server message. Messages with an unknown type are
// results.
func DecodeFrame(b []byte) (Frame, error) {
	var msg struct {
		Type      string          `json:"type"`
		Challenge string          `json:"challenge"`
		Error     json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(b, &msg); err != nil {
		return Frame{}, errors.Wrap(err, "can't decode frame")
	}

	switch msg.Type {
	case "init":
		return Frame{Kind: FrameInit}, nil
	case "reset":
		return Frame{Kind: FrameReset}, nil
	case "hmacChallenge":
		return Frame{Kind: FrameChallenge, Challenge: msg.Challenge}, nil
	case "error":
		return Frame{Kind: FrameError, Err: &SessionError{Message: string(msg.Error)}}, nil
	}

	res := &Result{}
	if err := json.Unmarshal(b, res); err != nil {
		return Frame{}, errors.Wrap(err, "can't decode result")
	}
	return Frame{Kind: FrameResult, Result: res}, nil
}
