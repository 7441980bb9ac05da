package runlet

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/runlet/runlet/extension"
	"github.com/runlet/runlet/service/broadcast"
	"github.com/runlet/runlet/service/dao/credential"
	executiondao "github.com/runlet/runlet/service/dao/execution"
	"github.com/runlet/runlet/service/dao/workflow"
	"github.com/runlet/runlet/service/step"
)

// Option customises service assembly.
type Option func(*Service)

// WithConfig supplies the configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithLogger replaces the default no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithHTTPClient sets the client shared by the HTTP-calling executors.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) { s.httpClient = client }
}

// WithWorkflows replaces the workflow store.
func WithWorkflows(workflows *workflow.Service) Option {
	return func(s *Service) { s.workflows = workflows }
}

// WithExecutions replaces the execution store.
func WithExecutions(executions *executiondao.Service) Option {
	return func(s *Service) { s.executions = executions }
}

// WithCredentials replaces the credential store.
func WithCredentials(credentials *credential.Service) Option {
	return func(s *Service) { s.credentials = credentials }
}

// WithSteps replaces the durable step substrate.
func WithSteps(steps *step.Service) Option {
	return func(s *Service) { s.steps = steps }
}

// WithBroadcaster replaces the realtime broadcaster.
func WithBroadcaster(broadcaster broadcast.Service) Option {
	return func(s *Service) { s.broadcaster = broadcaster }
}

// WithRegistry replaces the executor registry entirely; callers keep full
// control over which node types are bound.
func WithRegistry(registry *extension.Registry) Option {
	return func(s *Service) { s.registry = registry }
}
