// Package extension holds the executor registry - the open extension point
// of the engine. Registering a new node type means implementing
// types.Executor and adding it here; the dispatcher never learns about any
// specific node-type's configuration shape.
package extension

import (
	"reflect"
	"sync"

	"github.com/viant/x"

	"github.com/runlet/runlet/model"
	"github.com/runlet/runlet/model/types"
)

// ConfigPrototyper is optionally implemented by executors that want their
// configuration shape registered for introspection (catalog listings,
// editor schemas). The engine itself never decodes the prototype.
type ConfigPrototyper interface {
	ConfigPrototype() interface{}
}

// Registry maps node-type discriminants to registered executors. Lookup of
// an unregistered type is a fatal dispatch error, not a silent no-op.
type Registry struct {
	mux       sync.RWMutex
	executors map[model.NodeType]types.Executor
	types     *x.Registry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[model.NodeType]types.Executor),
		types:     x.NewRegistry(),
	}
}

// Register binds an executor to a node type, replacing any previous binding.
func (r *Registry) Register(nodeType model.NodeType, executor types.Executor) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.executors[nodeType] = executor
	if prototyper, ok := executor.(ConfigPrototyper); ok {
		if prototype := prototyper.ConfigPrototype(); prototype != nil {
			rType := reflect.TypeOf(prototype)
			if rType.Kind() == reflect.Ptr {
				rType = rType.Elem()
			}
			r.types.Register(x.NewType(rType, x.WithName(string(nodeType))))
		}
	}
}

// Lookup returns the executor for a node type. A missing binding is a
// configuration-catalog gap and surfaces as a non-retriable GraphError.
func (r *Registry) Lookup(nodeType model.NodeType) (types.Executor, error) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	executor, ok := r.executors[nodeType]
	if !ok {
		return nil, types.NewGraphError("no executor registered for node type %s", nodeType)
	}
	return executor, nil
}

// ConfigType returns the registered configuration prototype type for a node
// type, or nil when the executor did not expose one.
func (r *Registry) ConfigType(nodeType model.NodeType) *x.Type {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.types.Lookup(string(nodeType))
}

// NodeTypes returns the registered node types in unspecified order.
func (r *Registry) NodeTypes() []model.NodeType {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret := make([]model.NodeType, 0, len(r.executors))
	for nodeType := range r.executors {
		ret = append(ret, nodeType)
	}
	return ret
}
