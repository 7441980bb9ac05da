// Package engine dispatches workflow runs: it creates the execution record,
// linearizes the graph, resolves the active trigger and invokes the
// registered executor of every node in order, threading one accumulating
// context through the chain. Node effects run inside durable step boundaries
// owned by the executors; the dispatcher's own publishes sit outside any step
// and may repeat on a retried run.
package engine

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/runlet/runlet/extension"
	"github.com/runlet/runlet/internal/idgen"
	"github.com/runlet/runlet/model"
	mexecution "github.com/runlet/runlet/model/execution"
	"github.com/runlet/runlet/model/graph"
	"github.com/runlet/runlet/model/types"
	"github.com/runlet/runlet/service/broadcast"
	"github.com/runlet/runlet/service/dao"
	executiondao "github.com/runlet/runlet/service/dao/execution"
	"github.com/runlet/runlet/service/dao/workflow"
	"github.com/runlet/runlet/service/step"
	"github.com/runlet/runlet/tracing"
)

// DefaultMaxAttempts bounds whole-run retries: one initial attempt plus up to
// three retries of retriable failures.
const DefaultMaxAttempts = 4

// Event activates one workflow run. ID deduplicates redeliveries of the same
// inbound event; an empty ID gets a generated one, which makes the run
// non-idempotent across redeliveries.
type Event struct {
	ID         string
	WorkflowID string
	Trigger    *mexecution.Trigger
}

// Service is the run dispatcher.
type Service struct {
	workflows   *workflow.Service
	executions  *executiondao.Service
	steps       *step.Service
	broadcaster broadcast.Publisher
	registry    *extension.Registry
	logger      zerolog.Logger
	maxAttempts int
}

// New creates a dispatcher over the supplied collaborators.
func New(workflows *workflow.Service, executions *executiondao.Service, steps *step.Service, broadcaster broadcast.Publisher, registry *extension.Registry, opts ...Option) *Service {
	ret := &Service{
		workflows:   workflows,
		executions:  executions,
		steps:       steps,
		broadcaster: broadcaster,
		registry:    registry,
		logger:      zerolog.Nop(),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Run executes the workflow activated by event and returns the terminal
// execution record. The record is touched exactly twice regardless of how
// many attempts the run takes: created RUNNING up front and patched once to
// SUCCESS or FAILED at the end. Only retriable failures consume additional
// attempts; committed steps are skipped on every re-attempt.
func (s *Service) Run(ctx context.Context, event *Event) (*mexecution.Execution, error) {
	if event == nil || event.WorkflowID == "" {
		return nil, types.NewGraphError("event has no workflow id")
	}
	eventID := event.ID
	if eventID == "" {
		eventID = idgen.New()
	}

	row, err := s.executions.LookupByEvent(ctx, eventID, event.WorkflowID)
	switch {
	case errors.Is(err, dao.ErrNotFound):
		row = mexecution.New(idgen.New(), event.WorkflowID, eventID)
		if err = s.executions.Save(ctx, row); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case row.Terminal():
		// Redelivered event for a finished run.
		return row, nil
	}

	ctx, span := tracing.StartSpan(ctx, "workflow.run", "SERVER")
	span.WithAttributes(map[string]string{
		"workflow.id":  event.WorkflowID,
		"execution.id": row.ID,
	})
	s.logger.Info().
		Str("workflow", event.WorkflowID).
		Str("execution", row.ID).
		Msg("run started")

	var output mexecution.Context
	var runErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		output, runErr = s.attempt(ctx, event, row)
		if runErr == nil || !types.IsRetriable(runErr) {
			break
		}
		s.logger.Warn().
			Str("execution", row.ID).
			Int("attempt", attempt).
			Err(runErr).
			Msg("retriable failure")
	}
	tracing.EndSpan(span, runErr)

	row, err = s.executions.Patch(ctx, eventID, event.WorkflowID, func(e *mexecution.Execution) {
		if runErr != nil {
			e.Fail(runErr, string(debug.Stack()))
			return
		}
		e.Complete(output)
	})
	if err != nil {
		return nil, err
	}
	if runErr != nil {
		s.logger.Error().
			Str("execution", row.ID).
			Err(runErr).
			Msg("run failed")
		return row, runErr
	}
	s.logger.Info().
		Str("execution", row.ID).
		Msg("run completed")
	return row, nil
}

// attempt performs one pass over the graph. The reset signal and the active
// trigger's status transitions are published directly by the dispatcher, so a
// retried attempt repeats them; node effects stay memoized behind their step
// boundaries.
func (s *Service) attempt(ctx context.Context, event *Event, row *mexecution.Execution) (mexecution.Context, error) {
	if err := broadcast.PublishReset(ctx, s.broadcaster, event.WorkflowID, row.ID); err != nil {
		s.logger.Debug().Err(err).Msg("reset publish dropped")
	}

	flow, err := s.workflows.LoadForRun(ctx, event.WorkflowID)
	if err != nil {
		return nil, err
	}
	sorted, err := graph.TopologicalSort(flow.Nodes, flow.Edges)
	if err != nil {
		return nil, err
	}

	trigger := event.Trigger
	if trigger == nil {
		trigger = &mexecution.Trigger{Type: model.TriggerKindManual}
	}
	if trigger.WorkflowID == "" {
		trigger.WorkflowID = event.WorkflowID
	}
	active, err := activeTrigger(flow, trigger.Type)
	if err != nil {
		return nil, err
	}

	runner := s.steps.Runner(row.ID)
	current := mexecution.NewContext(trigger)

	if err = broadcast.PublishStatus(ctx, s.broadcaster, active.Type, active.ID, broadcast.StatusLoading); err != nil {
		s.logger.Debug().Err(err).Msg("status publish dropped")
	}

	for _, node := range sorted {
		executor, err := s.registry.Lookup(node.Type)
		if err != nil {
			return nil, err
		}
		nodeCtx, span := tracing.StartSpan(ctx, "node.execute", "INTERNAL")
		span.WithAttributes(map[string]string{
			"node.id":   node.ID,
			"node.type": string(node.Type),
		})
		next, err := executor.Execute(nodeCtx, &types.Request{
			Node:        node,
			WorkflowID:  event.WorkflowID,
			UserID:      trigger.UserID,
			ExecutionID: row.ID,
			Context:     current,
			Steps:       runner,
			Publisher:   s.broadcaster,
		})
		tracing.EndSpan(span, err)
		if err != nil {
			s.logger.Debug().
				Str("node", node.ID).
				Str("type", string(node.Type)).
				Err(err).
				Msg("node failed")
			return nil, err
		}
		current = next
		if node.ID == active.ID {
			if err = broadcast.PublishStatus(ctx, s.broadcaster, active.Type, active.ID, broadcast.StatusSuccess); err != nil {
				s.logger.Debug().Err(err).Msg("status publish dropped")
			}
		}
	}
	return current, nil
}
