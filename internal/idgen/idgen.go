// Package idgen generates globally unique identifiers for executions and
// events. It is a thin wrapper so tests can stub id generation.
package idgen

import "github.com/google/uuid"

// NewFunc returns a new unique identifier. Override in tests for determinism.
var NewFunc = func() string { return uuid.New().String() }

// New is a thin wrapper around NewFunc.
func New() string { return NewFunc() }
