// Package openrouter implements the zenx.Completer interface against the
// OpenRouter chat-completions endpoint.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/longkey1/zenx/internal/zenx"
	"github.com/rs/zerolog"
)

const (
	ProviderName = "openrouter"

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024
)

var (
	// ErrMalformedResponse is returned when a successful response lacks the
	// expected choices[0].message shape.
	ErrMalformedResponse = errors.New("invalid response format from API")

	ErrUnauthorized        = errors.New("authentication failed")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrRateLimited         = errors.New("rate limited")
)

// APIError is returned for any response status outside the 2xx range.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("API request failed with status %d [%s]: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.Status, msg)
}

// Is lets errors.Is match the status sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrInsufficientCredits:
		return e.Status == http.StatusPaymentRequired
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	}
	return false
}

// ChatRequest represents the request body for the chat completions endpoint
type ChatRequest struct {
	Model    string             `json:"model"`
	Messages []zenx.ChatMessage `json:"messages"`
}

// ChatResponse represents the response from the chat completions endpoint
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Choice is one element of the choices array
type Choice struct {
	Message      *ResponseMessage `json:"message"`
	FinishReason string           `json:"finish_reason"`
}

// ResponseMessage is the reply carried by a choice
type ResponseMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type errorResponse struct {
	Error *struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
	} `json:"error"`
}

// Config defines the configuration interface for the OpenRouter client
type Config interface {
	GetModel() string
	GetBaseURL() string
	GetReferer() string
	GetTitle() string
}

// Client implements the zenx.Completer interface for OpenRouter
type Client struct {
	config     Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a new OpenRouter client instance
func NewClient(config Config, opts ...Option) *Client {
	c := &Client{
		config:     config,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends the messages to the chat completions endpoint and returns
// the content of the first choice.
func (c *Client) Complete(ctx context.Context, credential string, messages []zenx.ChatMessage) (string, error) {
	reqBody := ChatRequest{
		Model:    c.config.GetModel(),
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	url := strings.TrimSuffix(c.config.GetBaseURL(), "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+credential)
	if referer := c.config.GetReferer(); referer != "" {
		req.Header.Set("HTTP-Referer", referer)
	}
	if title := c.config.GetTitle(); title != "" {
		req.Header.Set("X-Title", title)
	}
	req.Header.Set("Content-Type", "application/json")

	// Never log the credential or the message bodies.
	c.logger.Debug().
		Str("url", url).
		Str("model", reqBody.Model).
		Int("messages", len(messages)).
		Int("credential_len", len(credential)).
		Msg("sending completion request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp.Body)
	if err != nil {
		return "", err
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Int("bytes", len(body)).
		Msg("received completion response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newAPIError(resp.StatusCode, body)
	}

	var result ChatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message == nil || result.Choices[0].Message.Content == nil {
		return "", ErrMalformedResponse
	}

	return *result.Choices[0].Message.Content, nil
}

func readBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != nil {
		apiErr.Message = errResp.Error.Message
		// OpenRouter sends numeric codes, other gateways send strings.
		var code string
		if json.Unmarshal(errResp.Error.Code, &code) == nil {
			apiErr.Code = code
		} else if len(errResp.Error.Code) > 0 && string(errResp.Error.Code) != "null" {
			apiErr.Code = string(errResp.Error.Code)
		}
	}
	return apiErr
}

var _ zenx.Completer = (*Client)(nil)
