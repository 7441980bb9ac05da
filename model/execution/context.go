package execution

import "github.com/runlet/runlet/model"

// TriggerKey is the reserved context entry describing the run's activation.
const TriggerKey = "trigger"

// Trigger describes how a run was activated. It is seeded into the context
// under TriggerKey before any node executes.
type Trigger struct {
	Type       model.TriggerKind `json:"type"`
	Source     string            `json:"source"`
	WorkflowID string            `json:"workflowId"`
	UserID     string            `json:"userId"`
	Message    string            `json:"message,omitempty"`
}

// Context is the variable bag threaded through node executors. Each executor
// conventionally writes its result under the node's configured variable
// name; there is no collision detection - last writer wins.
type Context map[string]interface{}

// NewContext returns a context seeded with the activation trigger.
func NewContext(trigger *Trigger) Context {
	ret := Context{}
	if trigger != nil {
		ret[TriggerKey] = trigger
	}
	return ret
}

// Trigger returns the seeded activation descriptor, or nil.
func (c Context) Trigger() *Trigger {
	trigger, _ := c[TriggerKey].(*Trigger)
	return trigger
}

// With returns a copy of the context extended with name=value. The receiver
// is left untouched so that executors can hand back a new snapshot per node.
func (c Context) With(name string, value interface{}) Context {
	ret := c.Clone()
	ret[name] = value
	return ret
}

// Clone shallow-copies the bag. Values are shared; keys are not.
func (c Context) Clone() Context {
	if c == nil {
		return nil
	}
	ret := make(Context, len(c))
	for key, value := range c {
		ret[key] = value
	}
	return ret
}
