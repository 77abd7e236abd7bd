// Package api provides the client for the MongoMentor question-answering endpoint.
package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// DefaultEndpoint is the question-answering endpoint used when none is configured
const DefaultEndpoint = "http://10.0.0.136:8000/api/query"

// QAClient is the interface the rest of the application uses to ask questions
type QAClient interface {
	Answer(ctx context.Context, requestID, question string) (string, error)
	Endpoint() string
	Close()
}

// Client talks to the question-answering endpoint
type Client struct {
	httpClient     tls_client.HttpClient
	endpoint       string
	timeoutSeconds int
	logger         *slog.Logger
	mu             sync.RWMutex
	closed         bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithEndpoint sets the endpoint URL
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient replaces the transport (used by tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeoutSeconds sets a transport timeout. Zero keeps the transport default.
func WithTimeoutSeconds(seconds int) ClientOption {
	return func(c *Client) {
		c.timeoutSeconds = seconds
	}
}

// WithLogger sets the logger for request diagnostics
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		endpoint: DefaultEndpoint,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithClientProfile(profiles.Chrome_120),
		}
		if client.timeoutSeconds > 0 {
			options = append(options, tls_client.WithTimeoutSeconds(client.timeoutSeconds))
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the configured endpoint URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Close releases idle connections. Further calls to Answer fail.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
