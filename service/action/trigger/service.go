// Package trigger implements the zero-effect trigger executors. A trigger
// node only participates in the run that its kind activated; in every other
// run it is a pass-through skip: context returned unchanged, nothing
// published, no side effects.
package trigger

import (
	"context"

	"github.com/runlet/runlet/model"
	"github.com/runlet/runlet/model/execution"
	"github.com/runlet/runlet/model/types"
)

// Service executes one kind of trigger node.
type Service struct {
	kind model.TriggerKind
}

var _ types.Executor = (*Service)(nil)

// New creates a trigger executor for the given kind.
func New(kind model.TriggerKind) *Service {
	return &Service{kind: kind}
}

// Execute returns the context unchanged. The active trigger still records a
// memo step so that replay ordering matches the original run; the dispatcher
// owns the active trigger's status publishes.
func (s *Service) Execute(ctx context.Context, request *types.Request) (execution.Context, error) {
	trigger := request.Context.Trigger()
	if trigger == nil || trigger.Type != s.kind {
		// Not the active trigger for this run.
		return request.Context, nil
	}
	output, err := request.Steps.Run(ctx, "trigger-"+request.Node.ID, func(context.Context) (interface{}, error) {
		return request.Context, nil
	})
	if err != nil {
		return nil, err
	}
	return asContext(output, request.Context), nil
}

// asContext recovers the context from a memoized step output. A journal that
// round-tripped through JSON yields a plain map.
func asContext(output interface{}, fallback execution.Context) execution.Context {
	switch value := output.(type) {
	case execution.Context:
		return value
	case map[string]interface{}:
		return execution.Context(value)
	default:
		return fallback
	}
}
