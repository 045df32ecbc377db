package paper

import (
	"github.com/juruen/inkpaper/hwr"
)

type EventKind string

const (
	EventChange  EventKind = "change"
	EventSuccess EventKind = "success"
	EventError   EventKind = "error"
)

// ChangeData describes the undo and redo buffers after an edit
type ChangeData struct {
	CanUndo    bool `json:"canUndo"`
	UndoLength int  `json:"undoLength"`
	CanRedo    bool `json:"canRedo"`
	RedoLength int  `json:"redoLength"`
}

type Event struct {
	Kind   EventKind
	Change ChangeData
	// Result is nil for a success event that cleared the result
	Result *hwr.Result
	Err    error
}

type ChangeFunc func(ChangeData)

// ResultFunc receives either a result or the error of a failed attempt
type ResultFunc func(*hwr.Result, error)
