// Package api implements the client for the Groq chat completions endpoint.
package api

import (
	"fmt"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.uber.org/zap"

	"github.com/diogo/groqchat/internal/config"
	"github.com/diogo/groqchat/internal/models"
)

// HTTPDoer is the part of tls_client.HttpClient the completion client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// CompletionClient sends single-turn requests to the completions endpoint
type CompletionClient struct {
	httpClient     HTTPDoer
	endpoint       string
	model          string
	systemPrompt   string
	maxTokens      int
	temperature    float64
	timeoutSeconds int
	logger         *zap.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*CompletionClient)

// WithEndpoint overrides the completions URL
func WithEndpoint(endpoint string) ClientOption {
	return func(c *CompletionClient) {
		c.endpoint = endpoint
	}
}

// WithModel sets the model name sent with every request
func WithModel(model string) ClientOption {
	return func(c *CompletionClient) {
		c.model = model
	}
}

// WithSystemPrompt sets the fixed system instruction
func WithSystemPrompt(prompt string) ClientOption {
	return func(c *CompletionClient) {
		c.systemPrompt = prompt
	}
}

// WithMaxTokens sets the completion length limit
func WithMaxTokens(n int) ClientOption {
	return func(c *CompletionClient) {
		c.maxTokens = n
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(t float64) ClientOption {
	return func(c *CompletionClient) {
		c.temperature = t
	}
}

// WithTimeoutSeconds sets the transport timeout. Ignored when WithHTTPClient is used.
func WithTimeoutSeconds(seconds int) ClientOption {
	return func(c *CompletionClient) {
		c.timeoutSeconds = seconds
	}
}

// WithHTTPClient replaces the TLS transport, mainly for tests
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *CompletionClient) {
		c.httpClient = doer
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *CompletionClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// OptionsFromConfig maps the user configuration onto client options
func OptionsFromConfig(cfg config.Config) []ClientOption {
	return []ClientOption{
		WithEndpoint(cfg.Endpoint),
		WithModel(cfg.Model),
		WithSystemPrompt(cfg.SystemPrompt),
		WithMaxTokens(cfg.MaxTokens),
		WithTemperature(cfg.Temperature),
		WithTimeoutSeconds(cfg.TimeoutSeconds),
	}
}

// NewCompletionClient creates a new CompletionClient
func NewCompletionClient(opts ...ClientOption) (*CompletionClient, error) {
	client := &CompletionClient{
		endpoint:       models.EndpointCompletions,
		model:          models.DefaultModel,
		systemPrompt:   models.DefaultSystemPrompt,
		maxTokens:      models.DefaultMaxTokens,
		temperature:    models.DefaultTemperature,
		timeoutSeconds: 300,
		logger:         zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// Create TLS client with Chrome profile for browser emulation
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(client.timeoutSeconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the completions URL
func (c *CompletionClient) Endpoint() string {
	return c.endpoint
}

// Model returns the model name
func (c *CompletionClient) Model() string {
	return c.model
}
