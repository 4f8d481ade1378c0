// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package jarvis provides the HTTP client for the Jarvis document assistant.
package jarvis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Jarvis client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by type so wrapped causes still compare equal.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Message == "" || t.Message == e.Message)
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	// ErrTypeConnection is a transport failure: the request never got an answer.
	ErrTypeConnection
	ErrTypeTimeout
	// ErrTypeInvalidResponse means the body could not be decoded.
	ErrTypeInvalidResponse
	// ErrTypeApplication means the server answered with a failure.
	ErrTypeApplication
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeApplication:
		return "application"
	default:
		return "unknown"
	}
}

// DefaultChatError is reported when a failed chat response carries no error text.
const DefaultChatError = "Failed to get response"

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeConnection, Message: "cannot connect to server"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrEmptyInput  = errors.New("message is empty")
)

// IsTransport reports whether err is a network-level failure rather than an
// answer from the server.
func IsTransport(err error) bool {
	var cerr *ClientError
	if !errors.As(err, &cerr) {
		return false
	}
	return cerr.Type == ErrTypeConnection || cerr.Type == ErrTypeTimeout
}

// ErrorText is the short message shown to the user for a failed request.
// Application failures show the server's own text.
func ErrorText(err error) string {
	var cerr *ClientError
	if !errors.As(err, &cerr) {
		return err.Error()
	}
	switch cerr.Type {
	case ErrTypeConnection:
		return "Cannot connect to server"
	case ErrTypeTimeout:
		return "Request timed out"
	case ErrTypeInvalidResponse:
		return "Invalid response from server"
	}
	return cerr.Message
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the Jarvis client.
type ClientConfig struct {
	// BaseURL is the server root; "/api" is appended (default: http://127.0.0.1:5000)
	BaseURL string

	// Timeout bounds every request (default: 60s)
	Timeout time.Duration

	// Logger receives request-level debug logs (default: disabled)
	Logger *zerolog.Logger
}

// DefaultBaseURL is where the Flask backend listens by default.
const DefaultBaseURL = "http://127.0.0.1:5000"

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: DefaultBaseURL,
		Timeout: 60 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Jarvis API.
//
// The Client is safe for concurrent use: status polls may overlap a chat call.
type Client struct {
	config     *ClientConfig
	apiURL     string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new client. A nil config uses DefaultConfig.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = config.Logger.With().Str("component", "jarvis").Logger()
	}

	return &Client{
		config: config,
		apiURL: strings.TrimRight(config.BaseURL, "/") + "/api",
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		log: logger,
	}
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Status queries /api/status. A decoded response is returned even when the
// backend reports a state other than "running"; callers decide how to render it.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var result StatusResponse
	if _, err := c.getJSON(ctx, "/status", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExampleQuestions fetches the suggested prompts. A non-2xx answer is an error.
func (c *Client) ExampleQuestions(ctx context.Context) ([]string, error) {
	var result ExampleQuestionsResponse
	status, err := c.getJSON(ctx, "/example-questions", &result)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, &ClientError{
			Type:    ErrTypeApplication,
			Message: "example questions request failed: " + http.StatusText(status),
		}
	}
	return result.Questions, nil
}

// Chat posts a message and returns the answer. The call succeeds only when
// the HTTP status is 2xx and the body reports status "success"; otherwise the
// error carries the server's error text or DefaultChatError.
func (c *Client) Chat(ctx context.Context, message string) (*ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyInput
	}

	body, err := json.Marshal(ChatRequest{Message: message})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("endpoint", "/chat").Msg("request failed")
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	var result ChatResponse
	if err := decodeBody(resp.Body, &result); err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("endpoint", "/chat").
		Int("http_status", resp.StatusCode).
		Str("status", result.Status).
		Int("sources", len(result.Sources)).
		Dur("elapsed", time.Since(start)).
		Msg("chat answered")

	if !is2xx(resp.StatusCode) || !result.Succeeded() {
		msg := result.Error
		if msg == "" {
			msg = DefaultChatError
		}
		return nil, &ClientError{Type: ErrTypeApplication, Message: msg}
	}

	return &result, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// getJSON issues a GET and decodes the body into out. It returns the HTTP
// status so callers can apply their own success rule.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return 0, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("endpoint", path).Msg("request failed")
		return 0, transportError(err)
	}
	defer resp.Body.Close()

	if err := decodeBody(resp.Body, out); err != nil {
		return resp.StatusCode, err
	}

	c.log.Debug().Str("endpoint", path).Int("http_status", resp.StatusCode).Msg("request done")
	return resp.StatusCode, nil
}

func decodeBody(r io.Reader, out interface{}) error {
	// Bodies are capped at maxBodyBytes.
	if err := json.NewDecoder(io.LimitReader(r, maxBodyBytes)).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

const maxBodyBytes = 8 << 20

func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeTimeout, Message: ErrTimeout.Message, Cause: err}
	}
	var nerr interface{ Timeout() bool }
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &ClientError{Type: ErrTypeTimeout, Message: ErrTimeout.Message, Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: ErrUnreachable.Message, Cause: err}
}

func is2xx(code int) bool {
	return code >= 200 && code < 300
}
