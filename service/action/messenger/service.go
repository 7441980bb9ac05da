// Package messenger executes the outbound chat-message webhook nodes
// (Discord/Slack style). Message text is template-expanded, HTML-entity
// unescaped and posted as JSON; Slack workflow-trigger URLs get the flat
// payload shape that the trigger endpoint expects.
package messenger

import (
	"context"
	"errors"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/runlet/runlet/model/execution"
	"github.com/runlet/runlet/model/types"
	"github.com/runlet/runlet/runtime/expander"
	"github.com/runlet/runlet/service/broadcast"
)

// Flavor selects the webhook payload dialect.
type Flavor string

const (
	FlavorDiscord Flavor = "discord"
	FlavorSlack   Flavor = "slack"
)

// Config documents the node's data payload.
type Config struct {
	VariableName string `json:"variableName"`
	WebhookURL   string `json:"webhookUrl"`
	Content      string `json:"content"`  // templated message text
	Username     string `json:"username"` // optional bot-name override
}

// Service posts templated messages to incoming webhooks.
type Service struct {
	client *http.Client
	flavor Flavor
}

var _ types.Executor = (*Service)(nil)

// New creates the executor. A nil client falls back to a 30s-timeout default.
func New(client *http.Client, flavor Flavor) *Service {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Service{client: client, flavor: flavor}
}

// ConfigPrototype exposes the config shape for catalog introspection.
func (s *Service) ConfigPrototype() interface{} { return &Config{} }

// Execute posts the expanded message inside a durable step boundary and
// merges {variableName: {messageContent: text}} into the context.
func (s *Service) Execute(ctx context.Context, request *types.Request) (execution.Context, error) {
	node := request.Node
	publishStatus := func(status string) {
		_ = broadcast.PublishStatus(ctx, request.Publisher, node.Type, node.ID, status)
	}
	publishStatus(broadcast.StatusLoading)

	rawContent := node.String("content")
	if rawContent == "" {
		publishStatus(broadcast.StatusError)
		return nil, types.NewConfigurationError(node.ID, "message content is required")
	}
	webhookURL := node.String("webhookUrl")
	if webhookURL == "" {
		publishStatus(broadcast.StatusError)
		return nil, types.NewConfigurationError(node.ID, "webhook URL is required")
	}
	variableName := node.String("variableName")
	if variableName == "" {
		publishStatus(broadcast.StatusError)
		return nil, types.NewConfigurationError(node.ID, "variable name is missing")
	}

	content := html.UnescapeString(expander.Expand(rawContent, request.Context))
	username := ""
	if configured := node.String("username"); configured != "" {
		username = html.UnescapeString(expander.Expand(configured, request.Context))
	}

	_, err := request.Steps.Run(ctx, "send-message-"+node.ID, func(ctx context.Context) (interface{}, error) {
		return nil, s.post(ctx, webhookURL, content, username)
	})
	if err != nil {
		publishStatus(broadcast.StatusError)
		var configErr *types.ConfigurationError
		if errors.As(err, &configErr) {
			return nil, err
		}
		return nil, types.NewExternalCallError(node.ID, err)
	}

	publishStatus(broadcast.StatusSuccess)
	return request.Context.With(variableName, map[string]interface{}{
		"messageContent": content,
	}), nil
}

func (s *Service) post(ctx context.Context, webhookURL, content, username string) error {
	payload := map[string]interface{}{}
	switch {
	case s.flavor == FlavorSlack && strings.Contains(webhookURL, "/triggers/"):
		// Slack workflow triggers expect a flat JSON structure.
		payload["content"] = content
	case s.flavor == FlavorSlack:
		payload["text"] = content
		if username != "" {
			payload["username"] = username
		}
	default:
		payload["content"] = content
		if username != "" {
			payload["username"] = username
		}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return err
	}
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	response, err := s.client.Do(httpRequest)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)
	if response.StatusCode >= http.StatusBadRequest {
		return errors.New("webhook returned " + response.Status)
	}
	return nil
}
