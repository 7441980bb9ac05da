package execution

import (
	"fmt"
	"time"

	"github.com/runlet/runlet/internal/clock"
)

// Status of an execution record.
type Status string

const (
	StatusRunning Status = "RUNNING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Execution is the persisted lifecycle row of one workflow run. It is
// mutated exactly twice: created RUNNING at the start of the run and patched
// once to a terminal state. Intermediate context is never persisted - only a
// successful run stores an output snapshot.
type Execution struct {
	ID          string     `json:"id"`
	WorkflowID  string     `json:"workflowId"`
	EventID     string     `json:"eventId"`
	Status      Status     `json:"status"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
	ErrorStack  string     `json:"errorStack,omitempty"`
	Output      Context    `json:"output,omitempty"`
}

// New creates a RUNNING execution for (workflowID, eventID).
func New(id, workflowID, eventID string) *Execution {
	return &Execution{
		ID:         id,
		WorkflowID: workflowID,
		EventID:    eventID,
		Status:     StatusRunning,
		StartedAt:  clock.Now(),
	}
}

// Complete marks the execution successful and snapshots the final context.
func (e *Execution) Complete(output Context) {
	now := clock.Now()
	e.CompletedAt = &now
	e.Status = StatusSuccess
	e.Output = output.Clone()
}

// Fail marks the execution failed. The pre-failure context is deliberately
// discarded.
func (e *Execution) Fail(err error, stack string) {
	now := clock.Now()
	e.CompletedAt = &now
	e.Status = StatusFailed
	if err != nil {
		e.Error = err.Error()
	}
	e.ErrorStack = stack
}

// Terminal reports whether the execution reached a final state.
func (e *Execution) Terminal() bool {
	return e.Status == StatusSuccess || e.Status == StatusFailed
}

// Clone returns a deep-enough copy so that callers can mutate the result
// without affecting the stored instance.
func (e *Execution) Clone() *Execution {
	if e == nil {
		return nil
	}
	clone := *e
	if e.CompletedAt != nil {
		completedAt := *e.CompletedAt
		clone.CompletedAt = &completedAt
	}
	clone.Output = e.Output.Clone()
	return &clone
}

func (e *Execution) String() string {
	return fmt.Sprintf("execution %s workflow=%s status=%s", e.ID, e.WorkflowID, e.Status)
}
