// Package httprequest executes the generic HTTP request node: arbitrary
// method/endpoint/body, response captured under the node's variable name.
package httprequest

import (
	"context"
	"errors"
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

// Config documents the node's data payload.
type Config struct {
	VariableName string `json:"variableName"`
	Endpoint     string `json:"endpoint"`
	Method       string `json:"method,omitempty"` // GET, POST, PUT, PATCH, DELETE
	Body         string `json:"body,omitempty"`   // template-expanded JSON text
}

// Service executes HTTP request nodes over a shared client.
type Service struct {
	client *http.Client
}

var _ types.Executor = (*Service)(nil)

// New creates the executor. A nil client falls back to a 30s-timeout default.
func New(client *http.Client) *Service {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Service{client: client}
}

// ConfigPrototype exposes the config shape for catalog introspection.
func (s *Service) ConfigPrototype() interface{} { return &Config{} }

// Execute performs the request inside a durable step boundary and merges
// {variableName: {httpResponse: {status, statusText, data}}} into the context.
func (s *Service) Execute(ctx context.Context, request *types.Request) (execution.Context, error) {
	node := request.Node
	publishStatus := func(status string) {
		_ = broadcast.PublishStatus(ctx, request.Publisher, node.Type, node.ID, status)
	}
	publishStatus(broadcast.StatusLoading)

	endpoint := node.String("endpoint")
	if endpoint == "" {
		publishStatus(broadcast.StatusError)
		return nil, types.NewConfigurationError(node.ID, "no endpoint configured")
	}
	variableName := node.String("variableName")
	if variableName == "" {
		publishStatus(broadcast.StatusError)
		return nil, types.NewConfigurationError(node.ID, "variable name not configured")
	}

	endpoint = expander.Expand(endpoint, request.Context)
	body := expander.Expand(node.String("body"), request.Context)
	method := strings.ToUpper(node.String("method"))
	if method == "" {
		method = http.MethodGet
	}

	output, err := request.Steps.Run(ctx, "http-request-"+node.ID, func(ctx context.Context) (interface{}, error) {
		return s.call(ctx, method, endpoint, body)
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
	return request.Context.With(variableName, output), nil
}

func (s *Service) call(ctx context.Context, method, endpoint, body string) (interface{}, error) {
	var reader io.Reader
	withBody := method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
	if withBody {
		reader = strings.NewReader(body)
	}
	httpRequest, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if withBody {
		httpRequest.Header.Set("Content-Type", "application/json")
	}
	response, err := s.client.Do(httpRequest)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if response.StatusCode >= http.StatusBadRequest {
		return nil, errors.New(endpoint + " returned " + response.Status)
	}
	var parsed interface{} = string(data)
	if strings.Contains(response.Header.Get("Content-Type"), "application/json") {
		var decoded interface{}
		if err = sonic.Unmarshal(data, &decoded); err == nil {
			parsed = decoded
		}
	}
	return map[string]interface{}{
		"httpResponse": map[string]interface{}{
			"status":     response.StatusCode,
			"statusText": response.Status,
			"data":       parsed,
		},
	}, nil
}
