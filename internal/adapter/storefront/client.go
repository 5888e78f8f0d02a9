// Package storefront is the HTTP client of the remote marketplace API.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
)

const (
	defaultTimeout  = 10 * time.Second
	maxErrorBody    = 64 << 10
	requestIDHeader = "X-Request-ID"
)

// TokenSource returns the bearer token of the active session, empty when signed out.
type TokenSource interface {
	Token() string
}

// APIError is a non-2xx answer other than 401 and 404.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("storefront error: status %d", e.Status)
	}
	return fmt.Sprintf("storefront error: status %d: %s", e.Status, e.Message)
}

// StatusCode returns the HTTP status the API answered with.
func (e *APIError) StatusCode() int {
	return e.Status
}

// UserMessage returns the server provided message.
func (e *APIError) UserMessage() string {
	return e.Message
}

// HTTPClient talks to the storefront REST API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

// NewHTTPClient creates a client for baseURL. A non-positive timeout selects the default.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse storefront url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("storefront url must be absolute")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL: parsed,
		tokens:  tokens,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        any
	rawBody     io.Reader
	contentType string
}

// call sends req and decodes the response data into out when out is not nil.
func (c *HTTPClient) call(ctx context.Context, req request, out any) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, req.path)
	if strings.HasSuffix(req.path, "/") && !strings.HasSuffix(endpoint.Path, "/") {
		endpoint.Path += "/"
	}
	if len(req.query) > 0 {
		endpoint.RawQuery = req.query.Encode()
	}

	body := req.rawBody
	contentType := req.contentType
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint.String(), body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(requestIDHeader, uuid.NewString())
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			if !strings.HasPrefix(token, "Bearer ") {
				token = "Bearer " + token
			}
			httpReq.Header.Set("Authorization", token)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return decodeInto(raw, out)
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := errorMessage(raw)
	c.logger.Warn("storefront request failed",
		slog.String("method", req.method),
		slog.String("path", req.path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", httpReq.Header.Get(requestIDHeader)),
		slog.String("message", message),
	)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domainErrors.ErrUnauthorized, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domainErrors.ErrNotFound, message)
	default:
		return &APIError{Status: resp.StatusCode, Message: message}
	}
}

func errorMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
