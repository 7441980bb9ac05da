package execution

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runlet/runlet/model"
)

func TestExecution_Lifecycle(t *testing.T) {
	row := New("exec-1", "wf1", "evt1")
	assert.Equal(t, StatusRunning, row.Status)
	assert.False(t, row.Terminal())
	assert.False(t, row.StartedAt.IsZero())

	row.Complete(Context{"node": "done"})
	assert.Equal(t, StatusSuccess, row.Status)
	assert.True(t, row.Terminal())
	assert.NotNil(t, row.CompletedAt)
	assert.Equal(t, "done", row.Output["node"])
}

func TestExecution_Fail(t *testing.T) {
	row := New("exec-1", "wf1", "evt1")
	row.Fail(errors.New("remote down"), "stack trace")
	assert.Equal(t, StatusFailed, row.Status)
	assert.True(t, row.Terminal())
	assert.Equal(t, "remote down", row.Error)
	assert.Equal(t, "stack trace", row.ErrorStack)
	assert.Nil(t, row.Output)
}

func TestExecution_Clone(t *testing.T) {
	row := New("exec-1", "wf1", "evt1")
	row.Complete(Context{"node": "done"})
	clone := row.Clone()
	clone.Output["node"] = "mutated"
	assert.Equal(t, "done", row.Output["node"])
}

func TestContext_TriggerAndWith(t *testing.T) {
	trigger := &Trigger{Type: model.TriggerKindChat, Message: "hi"}
	ctx := NewContext(trigger)
	assert.Equal(t, trigger, ctx.Trigger())

	extended := ctx.With("node", "value")
	assert.Equal(t, "value", extended["node"])
	_, present := ctx["node"]
	assert.False(t, present)

	// A context without a seeded trigger.
	assert.Nil(t, Context{}.Trigger())
}

func TestContext_Clone(t *testing.T) {
	var empty Context
	assert.Nil(t, empty.Clone())

	ctx := Context{"a": 1}
	clone := ctx.Clone()
	clone["a"] = 2
	assert.Equal(t, 1, ctx["a"])
}
