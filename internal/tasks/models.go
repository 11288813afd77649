package tasks

import (
	"errors"
	"time"
)

var (
	ErrBusy     = errors.New("task already pending")
	ErrNotFound = errors.New("task not found")

	// ErrRejected is returned by an Apply step for a payload that fails
	// validation; the task ends validation_failed.
	ErrRejected = errors.New("result rejected")
)

type State string

const (
	StatePending          State = "pending"
	StateSucceeded        State = "succeeded"
	StateValidationFailed State = "validation_failed"
	StateOracleFailed     State = "oracle_failed"
	StateDiscarded        State = "discarded"
)

func (s State) Terminal() bool {
	return s != StatePending
}

// Task is a snapshot of an async oracle call.
type Task struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	State      State      `json:"state"`
	Error      string     `json:"error,omitempty"`
	Result     any        `json:"result,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
