// Package step implements the durable step primitive: run(stepName, fn)
// returns a memoized result, so re-running a whole function after a crash or
// retry does not repeat an already-committed effect. Memoization is scoped to
// one execution and persisted through a journal DAO - in memory for
// development, filesystem-backed (afs) for durability across restarts.
package step

import (
	"context"
	"time"

	"github.com/runlet/runlet/internal/clock"
	"github.com/runlet/runlet/model/types"
	"github.com/runlet/runlet/service/dao"
	"github.com/runlet/runlet/service/dao/store"
	"github.com/runlet/runlet/tracing"
)

type (
	// Result records one committed step.
	Result struct {
		Name        string      `json:"name"`
		Output      interface{} `json:"output,omitempty"`
		CompletedAt time.Time   `json:"completedAt"`
	}

	// Journal holds every committed step of one execution, keyed by step
	// name. Failed steps are not journaled - only success commits.
	Journal struct {
		ID    string             `json:"id"` // execution id
		Steps map[string]*Result `json:"steps,omitempty"`
	}
)

// Clone deep-copies the journal's step map.
func (j *Journal) Clone() *Journal {
	if j == nil {
		return nil
	}
	clone := *j
	clone.Steps = make(map[string]*Result, len(j.Steps))
	for name, result := range j.Steps {
		resultCopy := *result
		clone.Steps[name] = &resultCopy
	}
	return &clone
}

// Service creates per-execution runners over a shared journal store.
type Service struct {
	journals dao.Service[string, Journal]
}

// New creates a step service over the supplied journal DAO.
func New(journals dao.Service[string, Journal]) *Service {
	return &Service{journals: journals}
}

// NewMemory creates a step service over an in-memory journal store.
func NewMemory() *Service {
	return New(store.NewMemory[string, Journal](
		func(j *Journal) string { return j.ID },
		func(j *Journal) *Journal { return j.Clone() },
	))
}

// Runner returns the step runner bound to one execution. Re-invoking with
// the same execution id (a whole-run retry) sees the earlier journal and
// skips committed steps.
func (s *Service) Runner(executionID string) *Runner {
	return &Runner{service: s, executionID: executionID}
}

// Runner memoizes steps for a single execution.
type Runner struct {
	service     *Service
	executionID string
}

var _ types.StepRunner = (*Runner)(nil)

func (r *Runner) journal(ctx context.Context) (*Journal, error) {
	journal, err := r.service.journals.Load(ctx, r.executionID)
	if err == nil {
		return journal, nil
	}
	if err == dao.ErrNotFound {
		return &Journal{ID: r.executionID, Steps: map[string]*Result{}}, nil
	}
	return nil, err
}

// Run executes fn inside the named step boundary. A step that already
// committed returns its recorded output without re-executing fn; a step that
// fails commits nothing, so the next attempt re-runs it.
func (r *Runner) Run(ctx context.Context, name string, fn types.StepFunc) (interface{}, error) {
	journal, err := r.journal(ctx)
	if err != nil {
		return nil, err
	}
	if committed, ok := journal.Steps[name]; ok {
		return committed.Output, nil
	}
	output, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	journal.Steps[name] = &Result{Name: name, Output: output, CompletedAt: clock.Now()}
	if err = r.service.journals.Save(ctx, journal); err != nil {
		return nil, err
	}
	return output, nil
}

// RunModelCall is the AI-instrumented variant of Run: the call executes
// inside a CLIENT span carrying the step name, so provider latency and
// failures are visible in traces.
func (r *Runner) RunModelCall(ctx context.Context, name string, fn types.StepFunc) (interface{}, error) {
	return r.Run(ctx, name, func(ctx context.Context) (interface{}, error) {
		ctx, span := tracing.StartSpan(ctx, "model.generate", "CLIENT")
		span.WithAttributes(map[string]string{"step.name": name, "execution.id": r.executionID})
		output, err := fn(ctx)
		span.SetStatus(err)
		span.OnDone()
		return output, err
	})
}
