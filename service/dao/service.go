// Package dao defines the persistent-store contract consumed by the engine.
// Concrete stores (workflow, execution, credential) embed the generic
// in-memory implementation from the store sub-package; production deployments
// substitute database-backed implementations through the same interface.
package dao

import "context"

// Service is the generic storage contract for entity T keyed by K.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context) ([]*T, error)
}
