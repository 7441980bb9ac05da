package fs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/runlet/runlet/service/dao"
	"github.com/runlet/runlet/service/step"
)

func TestService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	service := New("mem://localhost/runlet/test/journals")

	journal := &step.Journal{ID: "exec-1", Steps: map[string]*step.Result{
		"effect": {Name: "effect", Output: "done", CompletedAt: time.Now().UTC()},
	}}
	assert.NoError(t, service.Save(ctx, journal))

	loaded, err := service.Load(ctx, "exec-1")
	assert.NoError(t, err)
	assert.Equal(t, "done", loaded.Steps["effect"].Output)

	_, err = service.Load(ctx, "absent")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	assert.NoError(t, service.Delete(ctx, "exec-1"))
	_, err = service.Load(ctx, "exec-1")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestService_Validation(t *testing.T) {
	ctx := context.Background()
	service := New("mem://localhost/runlet/test/journals-validation")

	assert.ErrorIs(t, service.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, service.Save(ctx, &step.Journal{}), dao.ErrInvalidID)
	_, err := service.Load(ctx, "")
	assert.ErrorIs(t, err, dao.ErrInvalidID)
}

func TestService_BacksStepRunner(t *testing.T) {
	ctx := context.Background()
	service := step.New(New("mem://localhost/runlet/test/journals-runner"))

	calls := 0
	for i := 0; i < 2; i++ {
		// A fresh runner per attempt, as after a process restart.
		output, err := service.Runner("exec-1").Run(ctx, "effect", func(context.Context) (interface{}, error) {
			calls++
			return "committed", nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "committed", output)
	}
	assert.Equal(t, 1, calls)
}
