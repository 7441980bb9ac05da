package ai

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"

	"github.com/runlet/runlet/service/dao/credential"
)

// Provider constructs a chat model from a decrypted API key. Providers are
// interchangeable behind this seam; adding one is a constructor plus a
// registry binding.
type Provider interface {
	Name() string
	CredentialType() credential.Type
	ChatModel(ctx context.Context, apiKey string) (einomodel.BaseChatModel, error)
}

type openAIProvider struct {
	model string
}

// OpenAI returns the OpenAI text-generation provider. An empty model picks
// gpt-4o.
func OpenAI(model string) Provider {
	if model == "" {
		model = "gpt-4o"
	}
	return &openAIProvider{model: model}
}

func (p *openAIProvider) Name() string { return "openai" }

func (p *openAIProvider) CredentialType() credential.Type { return credential.TypeOpenAI }

func (p *openAIProvider) ChatModel(ctx context.Context, apiKey string) (einomodel.BaseChatModel, error) {
	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey: apiKey,
		Model:  p.model,
	})
}

type deepSeekProvider struct {
	model string
}

// DeepSeek returns the DeepSeek text-generation provider. An empty model
// picks deepseek-chat.
func DeepSeek(model string) Provider {
	if model == "" {
		model = "deepseek-chat"
	}
	return &deepSeekProvider{model: model}
}

func (p *deepSeekProvider) Name() string { return "deepseek" }

func (p *deepSeekProvider) CredentialType() credential.Type { return credential.TypeDeepSeek }

func (p *deepSeekProvider) ChatModel(ctx context.Context, apiKey string) (einomodel.BaseChatModel, error) {
	return deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
		APIKey: apiKey,
		Model:  p.model,
	})
}
