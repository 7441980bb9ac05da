// Package ai executes the text-generation nodes. All providers share one
// system/user-prompt template contract; the provider seam decides which chat
// model serves the call. The API key is fetched per invocation from the
// credential store - decrypted values are never cached across nodes.
package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/runlet/runlet/model/execution"
	"github.com/runlet/runlet/model/types"
	"github.com/runlet/runlet/runtime/expander"
	"github.com/runlet/runlet/service/broadcast"
	"github.com/runlet/runlet/service/dao/credential"
)

// DefaultSystemPrompt is used when the node does not configure one.
const DefaultSystemPrompt = "You are a helpful assistant."

// Config documents the node's data payload.
type Config struct {
	VariableName string `json:"variableName"`
	CredentialID string `json:"credentialId"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
	UserPrompt   string `json:"userPrompt"`
}

// Service executes AI nodes for one provider.
type Service struct {
	credentials *credential.Service
	provider    Provider
}

var _ types.Executor = (*Service)(nil)

// New creates the executor for a provider.
func New(credentials *credential.Service, provider Provider) *Service {
	return &Service{credentials: credentials, provider: provider}
}

// ConfigPrototype exposes the config shape for catalog introspection.
func (s *Service) ConfigPrototype() interface{} { return &Config{} }

// Execute generates text from the expanded prompts and merges
// {variableName: {aiResponse: text}} into the context.
func (s *Service) Execute(ctx context.Context, request *types.Request) (execution.Context, error) {
	node := request.Node
	publishStatus := func(status string) {
		_ = broadcast.PublishStatus(ctx, request.Publisher, node.Type, node.ID, status)
	}
	publishStatus(broadcast.StatusLoading)

	variableName := strings.TrimSpace(node.String("variableName"))
	if variableName == "" {
		publishStatus(broadcast.StatusError)
		return nil, types.NewConfigurationError(node.ID, "variable name is required")
	}
	userPrompt := node.String("userPrompt")
	if strings.TrimSpace(userPrompt) == "" {
		publishStatus(broadcast.StatusError)
		return nil, types.NewConfigurationError(node.ID, "user prompt is required")
	}
	credentialID := node.String("credentialId")
	if credentialID == "" {
		publishStatus(broadcast.StatusError)
		return nil, types.NewConfigurationError(node.ID, "credential is required")
	}

	apiKey, err := request.Steps.Run(ctx, "fetch-credential-"+node.ID, func(ctx context.Context) (interface{}, error) {
		value, err := s.credentials.Reveal(ctx, credentialID, s.provider.CredentialType(), request.UserID)
		if err != nil {
			return nil, types.NewConfigurationError(node.ID, "credential not found or empty")
		}
		return value, nil
	})
	if err != nil {
		publishStatus(broadcast.StatusError)
		return nil, err
	}

	systemPrompt := DefaultSystemPrompt
	if configured := node.String("systemPrompt"); configured != "" {
		systemPrompt = expander.Expand(configured, request.Context)
	}
	userPrompt = expander.Expand(userPrompt, request.Context)

	output, err := request.Steps.RunModelCall(ctx, s.provider.Name()+"-generate-"+node.ID, func(ctx context.Context) (interface{}, error) {
		chatModel, err := s.provider.ChatModel(ctx, apiKey.(string))
		if err != nil {
			return nil, err
		}
		response, err := chatModel.Generate(ctx, []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(userPrompt),
		})
		if err != nil {
			return nil, err
		}
		return response.Content, nil
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
		"aiResponse": output,
	}), nil
}
