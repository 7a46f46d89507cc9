package app

import "time"

// Operation describes one CLI invocation. Its ID tags every log line the
// invocation writes.
type Operation struct {
	ID      string
	Command string
	Started time.Time
	Status  string // "success" or "error"
	Err     error
}

// NewOperation creates an operation for command started at now.
func NewOperation(command string, now time.Time) *Operation {
	return &Operation{
		ID:      now.UTC().Format("20060102T150405Z"),
		Command: command,
		Started: now,
		Status:  "success",
	}
}

// Fail marks the operation as failed. A nil error is ignored.
func (op *Operation) Fail(err error) {
	if err == nil {
		return
	}
	op.Status = "error"
	op.Err = err
}

// Failed reports whether Fail was called with an error.
func (op *Operation) Failed() bool {
	return op.Status == "error"
}
