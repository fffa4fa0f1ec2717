// Package api provides the HTTP client for the Athena prompt endpoint.
package api

import (
	"context"
	"fmt"
	"strings"
	"sync"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	apierrors "github.com/monument-ai/athena/internal/errors"
	"github.com/monument-ai/athena/internal/models"
)

// HTTPDoer is the subset of tls_client.HttpClient the client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// AthenaClientInterface defines the client operations used by the chat
// controller and the CLI commands
type AthenaClientInterface interface {
	Prompt(ctx context.Context, prompt string) (string, error)
	RequestReply(ctx context.Context, prompt string) string
	Health(ctx context.Context) (*models.HealthStatus, error)
	BaseURL() string
	Close()
}

// Client talks to the Athena prompt service
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	mu         sync.RWMutex
	closed     bool
}

// Ensure Client implements AthenaClientInterface
var _ AthenaClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the service root, e.g. "http://localhost:8000"
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient injects the transport (used by tests)
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL: models.DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.baseURL == "" {
		return nil, fmt.Errorf("%w: empty", apierrors.ErrInvalidBaseURL)
	}

	if client.httpClient == nil {
		// No client-level timeout: the wait is bounded only by the request context
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(0),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the service root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections. Requests after Close fail.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if idle, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
		idle.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
