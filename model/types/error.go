package types

import (
	"errors"
	"fmt"
)

// The engine distinguishes three failure classes:
//
//   - ConfigurationError: the node (or its credential) is misconfigured. The
//     user has to fix the workflow; retrying cannot help.
//   - GraphError: the graph itself is unusable (cycle, no trigger node,
//     unregistered node type). Halts before or at the offending node.
//   - ExternalCallError: a remote effect failed. Retriable by the durable
//     substrate up to a bounded attempt count.

// ConfigurationError reports a missing or invalid node configuration field
// or credential reference.
type ConfigurationError struct {
	NodeID string
	Msg    string
}

func (e *ConfigurationError) Error() string {
	if e.NodeID == "" {
		return e.Msg
	}
	return fmt.Sprintf("node %s: %s", e.NodeID, e.Msg)
}

// NewConfigurationError creates a non-retriable configuration error.
func NewConfigurationError(nodeID, format string, args ...interface{}) error {
	return &ConfigurationError{NodeID: nodeID, Msg: fmt.Sprintf(format, args...)}
}

// GraphError reports a structurally unusable workflow graph.
type GraphError struct {
	Msg string
}

func (e *GraphError) Error() string { return e.Msg }

// NewGraphError creates a non-retriable graph error.
func NewGraphError(format string, args ...interface{}) error {
	return &GraphError{Msg: fmt.Sprintf(format, args...)}
}

// ExternalCallError wraps a failed HTTP/provider call. It is the only
// retriable class in the taxonomy.
type ExternalCallError struct {
	NodeID string
	Err    error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("node %s: external call failed: %v", e.NodeID, e.Err)
}

func (e *ExternalCallError) Unwrap() error { return e.Err }

// NewExternalCallError wraps err as a retriable external-call failure.
func NewExternalCallError(nodeID string, err error) error {
	return &ExternalCallError{NodeID: nodeID, Err: err}
}

// IsRetriable reports whether the whole run may be retried after err. Only
// external-call failures qualify; configuration and graph errors terminate
// the run immediately.
func IsRetriable(err error) bool {
	var external *ExternalCallError
	return errors.As(err, &external)
}
