// Package sagalog defines the durable journal of saga executions.
//
// The journal is append-only: every state transition of a saga adds a row and
// the newest row is the current state. It serves two purposes:
//
//  1. Observability: each row carries the trace and span ids that were active
//     when it was written, so a row can be joined with the distributed trace.
//
//  2. Recovery: a saga that stopped half way (PARTIAL, or a crash after a
//     STEP_DONE) can be picked up again from the payload stored on its rows.
package sagalog

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("saga not found")

// Status represents the lifecycle state of a saga execution.
type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusStepDone  Status = "STEP_DONE"
	StatusCompleted Status = "COMPLETED"
	// StatusPartial means a step failed after an earlier step had already
	// finished. The saga must be resumed, not restarted.
	StatusPartial Status = "PARTIAL"
	StatusFailed  Status = "FAILED"
)

// Resumable reports whether a saga stopped in a state that Resume can finish.
func (s Status) Resumable() bool {
	return s == StatusPartial || s == StatusStepDone
}

// SagaLog is a single row in the saga_logs table.
type SagaLog struct {
	// SagaID is the order id, so it can be joined with business data.
	SagaID string

	// OwnerID is the user the saga runs for.
	OwnerID string

	Status Status

	// CurrentStep is the name of the step that was just executed or failed.
	CurrentStep string

	// Payload is the JSON input of the saga. It is repeated on every row so
	// the newest row alone is enough to resume.
	Payload string

	// ErrorMessages is a JSON array of failure details, one per failed step.
	ErrorMessages string

	TraceID string
	SpanID  string

	UpdatedAt time.Time
}
