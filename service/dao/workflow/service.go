// Package workflow stores workflow definitions with their nodes and edges.
package workflow

import (
	"context"

	"github.com/runlet/runlet/model"
	"github.com/runlet/runlet/service/dao"
	"github.com/runlet/runlet/service/dao/store"
)

// Service is an in-memory workflow store. The engine loads a workflow fresh
// per run, so the store hands out deep copies of node/edge slices.
type Service struct {
	*store.Memory[string, model.Workflow]
}

var _ dao.Service[string, model.Workflow] = (*Service)(nil)

// New creates an empty workflow store.
func New() *Service {
	return &Service{
		Memory: store.NewMemory[string, model.Workflow](
			func(w *model.Workflow) string { return w.ID },
			cloneWorkflow,
		),
	}
}

func cloneWorkflow(w *model.Workflow) *model.Workflow {
	if w == nil {
		return nil
	}
	clone := *w
	clone.Nodes = make([]*model.Node, len(w.Nodes))
	for i, node := range w.Nodes {
		nodeCopy := *node
		if node.Data != nil {
			nodeCopy.Data = make(map[string]interface{}, len(node.Data))
			for key, value := range node.Data {
				nodeCopy.Data[key] = value
			}
		}
		clone.Nodes[i] = &nodeCopy
	}
	clone.Edges = make([]*model.Edge, len(w.Edges))
	for i, edge := range w.Edges {
		edgeCopy := *edge
		edgeCopy.Normalize()
		clone.Edges[i] = &edgeCopy
	}
	return &clone
}

// LoadForRun returns the workflow and validates edge references so that a
// malformed graph fails before any node executes.
func (s *Service) LoadForRun(ctx context.Context, id string) (*model.Workflow, error) {
	workflow, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if issues := workflow.Validate(); len(issues) > 0 {
		return nil, issues[0]
	}
	return workflow, nil
}
