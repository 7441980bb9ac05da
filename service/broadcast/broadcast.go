// Package broadcast delivers realtime node-status events to live
// subscribers. The addressing model is a named channel per node category,
// each exposing named topics. Delivery is fire-and-forget and at-most-once;
// ordering is guaranteed per channel only. Nothing here is persisted - the
// execution record is the durable artifact, not the status stream.
package broadcast

import (
	"context"
	"time"

	"github.com/runlet/runlet/model"
)

// Node status values published on the "status" topic.
const (
	StatusLoading = "loading"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Topic names.
const (
	TopicStatus = "status"
	TopicReset  = "reset"
)

// ResetChannel is the single shared channel carrying the once-per-run reset
// signal that tells subscribers to clear stale per-node UI state.
const ResetChannel = "workflow-reset"

// StatusEvent is the payload of the "status" topic.
type StatusEvent struct {
	NodeID string `json:"nodeId"`
	Status string `json:"status"`
}

// ResetEvent is the payload of the "reset" topic. Consumers key their local
// state by execution id rather than a shared counter.
type ResetEvent struct {
	WorkflowID  string `json:"workflowId"`
	ExecutionID string `json:"executionId"`
}

// Event is a delivered message.
type Event struct {
	Channel   string      `json:"channel"`
	Topic     string      `json:"topic"`
	Payload   interface{} `json:"payload"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Service is the realtime publish contract plus subscription management for
// in-process consumers.
type Service interface {
	Publish(ctx context.Context, channel, topic string, payload interface{}) error

	// Subscribe attaches a listener to a channel. The returned cancel
	// function detaches it; events published while the listener's buffer is
	// full are dropped (at-most-once).
	Subscribe(channel string) (<-chan Event, func())
}

// channelNames maps each node type to its status channel.
var channelNames = map[model.NodeType]string{
	model.NodeTypeManualTrigger:  "manual-trigger-execution",
	model.NodeTypeChatTrigger:    "chat-trigger-execution",
	model.NodeTypeFormTrigger:    "form-trigger-execution",
	model.NodeTypePaymentTrigger: "payment-trigger-execution",
	model.NodeTypeHTTPRequest:    "http-request-execution",
	model.NodeTypeOpenAI:         "openai-execution",
	model.NodeTypeDeepSeek:       "deepseek-execution",
	model.NodeTypeDiscord:        "discord-execution",
	model.NodeTypeSlack:          "slack-execution",
}

// ChannelFor returns the status channel of a node type. Unknown types map to
// a catch-all channel so that custom executors still broadcast somewhere.
func ChannelFor(nodeType model.NodeType) string {
	if name, ok := channelNames[nodeType]; ok {
		return name
	}
	return "node-execution"
}

// Publisher is the minimal publish-only view of Service.
type Publisher interface {
	Publish(ctx context.Context, channel, topic string, payload interface{}) error
}

// PublishStatus publishes a node lifecycle transition on the node's channel.
func PublishStatus(ctx context.Context, publisher Publisher, nodeType model.NodeType, nodeID, status string) error {
	return publisher.Publish(ctx, ChannelFor(nodeType), TopicStatus, &StatusEvent{NodeID: nodeID, Status: status})
}

// PublishReset publishes the once-per-run reset signal.
func PublishReset(ctx context.Context, publisher Publisher, workflowID, executionID string) error {
	return publisher.Publish(ctx, ResetChannel, TopicReset, &ResetEvent{WorkflowID: workflowID, ExecutionID: executionID})
}
