package credential

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runlet/runlet/service/dao"
)

func TestService_SaveReveal(t *testing.T) {
	ctx := context.Background()
	service := New("mem://localhost/runlet/test/credentials", "")

	err := service.Save(ctx, &Credential{ID: "c1", Type: TypeOpenAI, OwnerID: "user-1"}, "sk-secret")
	assert.NoError(t, err)

	value, err := service.Reveal(ctx, "c1", TypeOpenAI, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, "sk-secret", value)
}

func TestService_Scoping(t *testing.T) {
	ctx := context.Background()
	service := New("mem://localhost/runlet/test/scoping", "")

	err := service.Save(ctx, &Credential{ID: "c1", Type: TypeOpenAI, OwnerID: "user-1"}, "sk-secret")
	assert.NoError(t, err)

	// Wrong provider type.
	_, err = service.Reveal(ctx, "c1", TypeDeepSeek, "user-1")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	// Wrong owner.
	_, err = service.Reveal(ctx, "c1", TypeOpenAI, "user-2")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	// Unknown id.
	_, err = service.Reveal(ctx, "absent", TypeOpenAI, "user-1")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestService_EmptyValue(t *testing.T) {
	ctx := context.Background()
	service := New("mem://localhost/runlet/test/empty", "")

	err := service.Save(ctx, &Credential{ID: "c1", Type: TypeOpenAI, OwnerID: "user-1"}, "   ")
	assert.NoError(t, err)

	_, err = service.Reveal(ctx, "c1", TypeOpenAI, "user-1")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestService_SaveValidation(t *testing.T) {
	ctx := context.Background()
	service := New("mem://localhost/runlet/test/validation", "")

	assert.ErrorIs(t, service.Save(ctx, nil, "value"), dao.ErrNilEntity)
	assert.ErrorIs(t, service.Save(ctx, &Credential{}, "value"), dao.ErrInvalidID)
}
