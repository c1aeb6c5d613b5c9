package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/ragchat/ragchat/internal/models"
)

// ClientInterface is the set of backend operations the UI and commands use.
// Every method performs exactly one HTTP round trip.
type ClientInterface interface {
	GetMessages(ctx context.Context, sessionID int) ([]models.Message, error)
	GetSessionInfo(ctx context.Context, sessionID int) (*models.Session, error)
	CurrentSession(ctx context.Context) (*models.Session, error)
	ListModels(ctx context.Context) ([]models.LLMModel, error)
	SwitchModel(ctx context.Context, modelName string, sessionID int) (*models.SwitchResult, error)
	SendChat(ctx context.Context, message string, sessionID int) (*models.ChatReply, error)
	UploadDocument(ctx context.Context, filePath string) (*models.UploadResult, error)
	ListDocuments(ctx context.Context) ([]models.Document, error)
	DeleteDocument(ctx context.Context, docID int) error
	RAGStats(ctx context.Context) (*models.RAGStats, error)
	BaseURL() string
	Close()
}

// Client talks to the RAG chat backend over its JSON endpoints
type Client struct {
	httpClient tls_client.HttpClient
	baseURL    string
	timeout    time.Duration
	version    string
	logger     *slog.Logger
	mu         sync.RWMutex
	closed     bool
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the backend base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithVersion sets the version reported in the User-Agent header
func WithVersion(version string) ClientOption {
	return func(c *Client) {
		c.version = version
	}
}

// WithLogger sets the debug logger for request traces
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient injects the transport (used by tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL: models.DefaultServerURL,
		timeout: 120 * time.Second,
		version: "dev",
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.baseURL == "" {
		return nil, fmt.Errorf("server URL is empty")
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
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

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections. Further requests fail.
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
