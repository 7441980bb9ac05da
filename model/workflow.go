package model

import (
	"fmt"
	"time"
)

// NodeType discriminates the runtime behaviour of a node. The engine core
// never interprets a node's Data payload - it only uses the type to look up
// the registered executor.
type NodeType string

const (
	NodeTypeManualTrigger  NodeType = "MANUAL_TRIGGER"
	NodeTypeChatTrigger    NodeType = "CHAT_TRIGGER"
	NodeTypeFormTrigger    NodeType = "FORM_TRIGGER"
	NodeTypePaymentTrigger NodeType = "PAYMENT_TRIGGER"
	NodeTypeHTTPRequest    NodeType = "HTTP_REQUEST"
	NodeTypeOpenAI         NodeType = "OPENAI"
	NodeTypeDeepSeek       NodeType = "DEEPSEEK"
	NodeTypeDiscord        NodeType = "DISCORD"
	NodeTypeSlack          NodeType = "SLACK"
)

// TriggerKind identifies which kind of inbound event activates a run.
type TriggerKind string

const (
	TriggerKindManual  TriggerKind = "manual"
	TriggerKindChat    TriggerKind = "chat"
	TriggerKindForm    TriggerKind = "form-submission"
	TriggerKindPayment TriggerKind = "payment-webhook"
)

// triggerKinds maps trigger node types to the event kind that activates them.
var triggerKinds = map[NodeType]TriggerKind{
	NodeTypeManualTrigger:  TriggerKindManual,
	NodeTypeChatTrigger:    TriggerKindChat,
	NodeTypeFormTrigger:    TriggerKindForm,
	NodeTypePaymentTrigger: TriggerKindPayment,
}

// IsTrigger reports whether the node type can start a run.
func (t NodeType) IsTrigger() bool {
	_, ok := triggerKinds[t]
	return ok
}

// TriggerKind returns the event kind served by a trigger node type, or an
// empty kind for action node types.
func (t NodeType) TriggerKind() TriggerKind {
	return triggerKinds[t]
}

// DefaultHandle is the edge handle label used when the editor does not set one.
const DefaultHandle = "main"

type (
	// Node is a unit of work within a workflow - either a trigger (entry
	// point) or an action (effectful step). Data carries the type-specific
	// configuration payload; its shape is owned by the node's executor, not
	// by the engine.
	Node struct {
		ID         string                 `json:"id" yaml:"id"`
		Type       NodeType               `json:"type" yaml:"type"`
		Data       map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`
		WorkflowID string                 `json:"workflowId" yaml:"workflowId"`
	}

	// Edge is a directed connection between two nodes of the same workflow.
	Edge struct {
		FromNodeID string `json:"fromNodeId" yaml:"fromNodeId"`
		ToNodeID   string `json:"toNodeId" yaml:"toNodeId"`
		FromOutput string `json:"fromOutput,omitempty" yaml:"fromOutput,omitempty"`
		ToInput    string `json:"toInput,omitempty" yaml:"toInput,omitempty"`
	}

	// Workflow is a user-assembled directed graph of nodes. The engine loads
	// it fresh for every run; no state is cached across runs.
	Workflow struct {
		ID        string    `json:"id" yaml:"id"`
		OwnerID   string    `json:"ownerId" yaml:"ownerId"`
		Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
		Nodes     []*Node   `json:"nodes" yaml:"nodes"`
		Edges     []*Edge   `json:"edges,omitempty" yaml:"edges,omitempty"`
		CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
		UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	}
)

// IsTrigger reports whether the node is trigger-typed.
func (n *Node) IsTrigger() bool {
	return n.Type.IsTrigger()
}

// String returns a string config field from the node payload, or "".
func (n *Node) String(key string) string {
	if n.Data == nil {
		return ""
	}
	value, _ := n.Data[key].(string)
	return value
}

// Normalize fills in defaulted edge handles.
func (e *Edge) Normalize() {
	if e.FromOutput == "" {
		e.FromOutput = DefaultHandle
	}
	if e.ToInput == "" {
		e.ToInput = DefaultHandle
	}
}

// Node returns a node by id or nil.
func (w *Workflow) Node(id string) *Node {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node
		}
	}
	return nil
}

// TriggerNodes returns the trigger-typed subset of nodes in list order.
func (w *Workflow) TriggerNodes() []*Node {
	var ret []*Node
	for _, node := range w.Nodes {
		if node.IsTrigger() {
			ret = append(ret, node)
		}
	}
	return ret
}

// Validate performs a best-effort structural validation of the workflow. The
// returned slice is empty when the workflow is sound; otherwise it contains
// human-readable error descriptions. Cycle detection is the sorter's job and
// is intentionally not duplicated here.
func (w *Workflow) Validate() []error {
	var issues []error
	if w.ID == "" {
		issues = append(issues, fmt.Errorf("workflow id is empty"))
	}
	seen := map[string]bool{}
	for _, node := range w.Nodes {
		if node.ID == "" {
			issues = append(issues, fmt.Errorf("node id is empty"))
			continue
		}
		if seen[node.ID] {
			issues = append(issues, fmt.Errorf("duplicate node id %s", node.ID))
		}
		seen[node.ID] = true
		if node.WorkflowID != "" && node.WorkflowID != w.ID {
			issues = append(issues, fmt.Errorf("node %s belongs to workflow %s", node.ID, node.WorkflowID))
		}
	}
	for _, edge := range w.Edges {
		if !seen[edge.FromNodeID] {
			issues = append(issues, fmt.Errorf("edge refers to unknown node %s", edge.FromNodeID))
		}
		if !seen[edge.ToNodeID] {
			issues = append(issues, fmt.Errorf("edge refers to unknown node %s", edge.ToNodeID))
		}
	}
	return issues
}
