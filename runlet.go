package runlet

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/runlet/runlet/extension"
	"github.com/runlet/runlet/model"
	mexecution "github.com/runlet/runlet/model/execution"
	"github.com/runlet/runlet/runtime/engine"
	"github.com/runlet/runlet/service/action/ai"
	"github.com/runlet/runlet/service/action/httprequest"
	"github.com/runlet/runlet/service/action/messenger"
	"github.com/runlet/runlet/service/action/trigger"
	"github.com/runlet/runlet/service/broadcast"
	"github.com/runlet/runlet/service/dao/credential"
	executiondao "github.com/runlet/runlet/service/dao/execution"
	"github.com/runlet/runlet/service/dao/workflow"
	"github.com/runlet/runlet/service/step"
	stepfs "github.com/runlet/runlet/service/step/fs"
)

// Event re-exports the dispatcher's activation event.
type Event = engine.Event

// Service is the assembled engine: stores, broadcaster, step substrate,
// executor registry and dispatcher wired together. The zero-option New gives
// the in-process development setup.
type Service struct {
	config      *Config
	logger      zerolog.Logger
	httpClient  *http.Client
	workflows   *workflow.Service
	executions  *executiondao.Service
	credentials *credential.Service
	steps       *step.Service
	broadcaster broadcast.Service
	registry    *extension.Registry
	engine      *engine.Service
}

// New assembles a service. Options override individual collaborators; any
// collaborator left unset is built from the configuration.
func New(opts ...Option) *Service {
	ret := &Service{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.config == nil {
		ret.config = DefaultConfig()
	}
	if ret.workflows == nil {
		ret.workflows = workflow.New()
	}
	if ret.executions == nil {
		ret.executions = executiondao.New()
	}
	if ret.credentials == nil {
		ret.credentials = credential.New(ret.config.CredentialURL, ret.config.CredentialKey)
	}
	if ret.steps == nil {
		if ret.config.JournalURL != "" {
			ret.steps = step.New(stepfs.New(ret.config.JournalURL))
		} else {
			ret.steps = step.NewMemory()
		}
	}
	if ret.broadcaster == nil {
		if ret.config.RedisAddr != "" {
			ret.broadcaster = broadcast.NewRedis(redis.NewClient(&redis.Options{Addr: ret.config.RedisAddr}))
		} else {
			ret.broadcaster = broadcast.NewMemory(ret.config.BroadcastBuffer)
		}
	}
	if ret.registry == nil {
		ret.registry = ret.defaultRegistry()
	}
	// An unset attempt budget means a single attempt, not the dispatcher's
	// production default.
	attempts := ret.config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	engineOpts := []engine.Option{
		engine.WithLogger(ret.logger),
		engine.WithMaxAttempts(attempts),
	}
	ret.engine = engine.New(ret.workflows, ret.executions, ret.steps, ret.broadcaster, ret.registry, engineOpts...)
	return ret
}

// defaultRegistry binds the built-in executors: the four trigger kinds, the
// HTTP request node, both AI providers and both messenger flavours.
func (s *Service) defaultRegistry() *extension.Registry {
	registry := extension.NewRegistry()
	registry.Register(model.NodeTypeManualTrigger, trigger.New(model.TriggerKindManual))
	registry.Register(model.NodeTypeChatTrigger, trigger.New(model.TriggerKindChat))
	registry.Register(model.NodeTypeFormTrigger, trigger.New(model.TriggerKindForm))
	registry.Register(model.NodeTypePaymentTrigger, trigger.New(model.TriggerKindPayment))
	registry.Register(model.NodeTypeHTTPRequest, httprequest.New(s.httpClient))
	registry.Register(model.NodeTypeOpenAI, ai.New(s.credentials, ai.OpenAI(s.config.OpenAIModel)))
	registry.Register(model.NodeTypeDeepSeek, ai.New(s.credentials, ai.DeepSeek(s.config.DeepSeekModel)))
	registry.Register(model.NodeTypeDiscord, messenger.New(s.httpClient, messenger.FlavorDiscord))
	registry.Register(model.NodeTypeSlack, messenger.New(s.httpClient, messenger.FlavorSlack))
	return registry
}

// Run executes the workflow activated by event.
func (s *Service) Run(ctx context.Context, event *Event) (*mexecution.Execution, error) {
	return s.engine.Run(ctx, event)
}

// Subscribe attaches a listener to a broadcast channel.
func (s *Service) Subscribe(channel string) (<-chan broadcast.Event, func()) {
	return s.broadcaster.Subscribe(channel)
}

// Workflows returns the workflow store.
func (s *Service) Workflows() *workflow.Service { return s.workflows }

// Executions returns the execution store.
func (s *Service) Executions() *executiondao.Service { return s.executions }

// Credentials returns the credential store.
func (s *Service) Credentials() *credential.Service { return s.credentials }

// Registry returns the executor registry for custom node types.
func (s *Service) Registry() *extension.Registry { return s.registry }
