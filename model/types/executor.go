package types

import (
	"context"

	"github.com/runlet/runlet/model"
	"github.com/runlet/runlet/model/execution"
)

// StepFunc is the unit of work guarded by a durable step boundary.
type StepFunc func(ctx context.Context) (interface{}, error)

// StepRunner memoizes effects by step name within one run. A completed step
// is never re-executed when the run is replayed after a crash or retry - the
// recorded output is returned instead.
type StepRunner interface {
	// Run executes fn inside the named step boundary.
	Run(ctx context.Context, name string, fn StepFunc) (interface{}, error)

	// RunModelCall behaves like Run with additional AI-call instrumentation.
	RunModelCall(ctx context.Context, name string, fn StepFunc) (interface{}, error)
}

// Publisher delivers realtime events to currently subscribed listeners.
// Publishing is fire-and-forget from the caller's perspective; delivery is
// at-most-once but ordered within a channel.
type Publisher interface {
	Publish(ctx context.Context, channel, topic string, payload interface{}) error
}

// Request carries everything an executor needs for one node invocation.
type Request struct {
	Node        *model.Node
	WorkflowID  string
	UserID      string
	ExecutionID string

	// Context is the accumulating variable bag threaded between executors.
	Context execution.Context

	Steps     StepRunner
	Publisher Publisher
}

// Executor is the pluggable per-node-type runtime handler. Execute returns
// the (possibly extended) context; errors abort the remaining nodes of the
// run. Config validation is each executor's own responsibility - the engine
// passes the node's Data payload through opaquely.
type Executor interface {
	Execute(ctx context.Context, request *Request) (execution.Context, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, request *Request) (execution.Context, error)

func (f ExecutorFunc) Execute(ctx context.Context, request *Request) (execution.Context, error) {
	return f(ctx, request)
}
