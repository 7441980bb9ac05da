package ai

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"

	"github.com/runlet/runlet/model"
	"github.com/runlet/runlet/model/execution"
	"github.com/runlet/runlet/model/types"
	"github.com/runlet/runlet/service/broadcast"
	"github.com/runlet/runlet/service/dao/credential"
	"github.com/runlet/runlet/service/step"
)

type fakeChatModel struct {
	reply    string
	err      error
	messages []*schema.Message
}

func (m *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	m.messages = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *fakeChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

type fakeProvider struct {
	chatModel *fakeChatModel
	lastKey   string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) CredentialType() credential.Type { return credential.TypeOpenAI }

func (p *fakeProvider) ChatModel(_ context.Context, apiKey string) (einomodel.BaseChatModel, error) {
	p.lastKey = apiKey
	return p.chatModel, nil
}

func newCredentials(t *testing.T) *credential.Service {
	t.Helper()
	service := credential.New("mem://localhost/runlet/test/ai", "")
	err := service.Save(context.Background(),
		&credential.Credential{ID: "c1", Type: credential.TypeOpenAI, OwnerID: "user-1"}, "sk-test")
	assert.NoError(t, err)
	return service
}

func newRequest(data map[string]interface{}, recorder *broadcast.Recorder) *types.Request {
	ctx := execution.NewContext(&execution.Trigger{Type: model.TriggerKindChat, UserID: "user-1", Message: "hello"})
	return &types.Request{
		Node:        &model.Node{ID: "a1", Type: model.NodeTypeOpenAI, Data: data},
		WorkflowID:  "wf1",
		UserID:      "user-1",
		ExecutionID: "exec-1",
		Context:     ctx.With("upstream", map[string]interface{}{"value": "context data"}),
		Steps:       step.NewMemory().Runner("exec-1"),
		Publisher:   recorder,
	}
}

func TestExecute_Generate(t *testing.T) {
	provider := &fakeProvider{chatModel: &fakeChatModel{reply: "generated text"}}
	service := New(newCredentials(t), provider)
	recorder := broadcast.NewRecorder()

	request := newRequest(map[string]interface{}{
		"variableName": "aiNode",
		"credentialId": "c1",
		"systemPrompt": "Summarize {{upstream.value}}",
		"userPrompt":   "User said: {{trigger.message}}",
	}, recorder)

	output, err := service.Execute(context.Background(), request)
	assert.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"aiResponse": "generated text"}, output["aiNode"])
	assert.Equal(t, "sk-test", provider.lastKey)
	assert.Equal(t, []string{"a1:loading", "a1:success"}, recorder.Statuses())

	if assert.Equal(t, 2, len(provider.chatModel.messages)) {
		assert.Equal(t, "Summarize context data", provider.chatModel.messages[0].Content)
		assert.Equal(t, "User said: hello", provider.chatModel.messages[1].Content)
	}
}

func TestExecute_DefaultSystemPrompt(t *testing.T) {
	provider := &fakeProvider{chatModel: &fakeChatModel{reply: "ok"}}
	service := New(newCredentials(t), provider)

	request := newRequest(map[string]interface{}{
		"variableName": "aiNode",
		"credentialId": "c1",
		"userPrompt":   "hi",
	}, broadcast.NewRecorder())

	_, err := service.Execute(context.Background(), request)
	assert.NoError(t, err)
	assert.Equal(t, DefaultSystemPrompt, provider.chatModel.messages[0].Content)
}

func TestExecute_MissingConfig(t *testing.T) {
	testCases := []struct {
		description string
		data        map[string]interface{}
	}{
		{
			description: "missing variable name",
			data:        map[string]interface{}{"credentialId": "c1", "userPrompt": "hi"},
		},
		{
			description: "blank user prompt",
			data:        map[string]interface{}{"variableName": "aiNode", "credentialId": "c1", "userPrompt": "  "},
		},
		{
			description: "missing credential id",
			data:        map[string]interface{}{"variableName": "aiNode", "userPrompt": "hi"},
		},
	}
	provider := &fakeProvider{chatModel: &fakeChatModel{reply: "ok"}}
	service := New(newCredentials(t), provider)
	for _, testCase := range testCases {
		recorder := broadcast.NewRecorder()
		_, err := service.Execute(context.Background(), newRequest(testCase.data, recorder))
		var configErr *types.ConfigurationError
		assert.ErrorAs(t, err, &configErr, testCase.description)
		assert.Equal(t, []string{"a1:loading", "a1:error"}, recorder.Statuses(), testCase.description)
	}
}

func TestExecute_UnknownCredential(t *testing.T) {
	provider := &fakeProvider{chatModel: &fakeChatModel{reply: "ok"}}
	service := New(newCredentials(t), provider)
	recorder := broadcast.NewRecorder()

	request := newRequest(map[string]interface{}{
		"variableName": "aiNode",
		"credentialId": "absent",
		"userPrompt":   "hi",
	}, recorder)

	_, err := service.Execute(context.Background(), request)
	var configErr *types.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
	assert.False(t, types.IsRetriable(err))
	assert.Equal(t, []string{"a1:loading", "a1:error"}, recorder.Statuses())
}

func TestExecute_ProviderFailureIsRetriable(t *testing.T) {
	provider := &fakeProvider{chatModel: &fakeChatModel{err: errors.New("rate limited")}}
	service := New(newCredentials(t), provider)
	recorder := broadcast.NewRecorder()

	request := newRequest(map[string]interface{}{
		"variableName": "aiNode",
		"credentialId": "c1",
		"userPrompt":   "hi",
	}, recorder)

	_, err := service.Execute(context.Background(), request)
	assert.True(t, types.IsRetriable(err))
	assert.Equal(t, []string{"a1:loading", "a1:error"}, recorder.Statuses())
}

func TestProviders(t *testing.T) {
	openAI := OpenAI("")
	assert.Equal(t, "openai", openAI.Name())
	assert.Equal(t, credential.TypeOpenAI, openAI.CredentialType())

	deepSeek := DeepSeek("")
	assert.Equal(t, "deepseek", deepSeek.Name())
	assert.Equal(t, credential.TypeDeepSeek, deepSeek.CredentialType())
}
