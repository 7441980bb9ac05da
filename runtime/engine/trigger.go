package engine

import (
	"github.com/runlet/runlet/model"
	"github.com/runlet/runlet/model/types"
)

// activeTrigger resolves which trigger node the inbound event activates. A
// node whose type serves the event's kind wins; when none matches, the first
// trigger node in definition order serves the run. A workflow without any
// trigger node cannot be activated at all.
func activeTrigger(workflow *model.Workflow, kind model.TriggerKind) (*model.Node, error) {
	triggers := workflow.TriggerNodes()
	if len(triggers) == 0 {
		return nil, types.NewGraphError("workflow %s has no trigger node", workflow.ID)
	}
	for _, node := range triggers {
		if node.Type.TriggerKind() == kind {
			return node, nil
		}
	}
	return triggers[0], nil
}
