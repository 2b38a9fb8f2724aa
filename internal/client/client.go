package client

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

	"storefront/internal/apperr"
	"storefront/internal/logger"
	"storefront/internal/metrics"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:5000/api"
	defaultTimeout = 15 * time.Second
)

// Credentials supplies the Authorization header of the signed-in actor.
type Credentials interface {
	Authorization() string
}

type authKey struct{}

// WithAuthorization overrides the header for calls made with ctx. Sign-in
// flows use it to check credentials before they are stored.
func WithAuthorization(ctx context.Context, header string) context.Context {
	return context.WithValue(ctx, authKey{}, header)
}

func AuthorizationFrom(ctx context.Context) (string, bool) {
	h, ok := ctx.Value(authKey{}).(string)
	return h, ok
}

// Client talks to the storefront REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
}

type Option func(*Client)

func WithCredentials(c Credentials) Option {
	return func(cl *Client) { cl.creds = c }
}

func WithHTTPClient(h *http.Client) Option {
	return func(cl *Client) { cl.httpClient = h }
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) authorization(ctx context.Context) string {
	if h, ok := AuthorizationFrom(ctx); ok {
		return h
	}
	if c.creds != nil {
		return c.creds.Authorization()
	}
	return ""
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, fallback string, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, contentType, body, fallback, out)
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader, fallback string, out any) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "client"),
		zap.String("method", method),
		zap.String("path", path),
	)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		log.Error("failed building request", zap.Error(err))
		return err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if auth := c.authorization(ctx); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	timer := metrics.StartTimer()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error("request failed", zap.Error(err))
		return &apperr.CollaboratorError{Message: fallback}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read response body", zap.Error(err))
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("backend returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
			zap.Duration("duration", timer.Duration()),
		)
		return decodeError(resp.StatusCode, path, bodyBytes, fallback)
	}

	if out == nil || len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		log.Error("failed decoding response", zap.Error(err))
		return &apperr.CollaboratorError{Status: resp.StatusCode, Message: fallback}
	}
	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decodeError maps a non-2xx response to the error taxonomy. The backend's
// own message is kept verbatim when it sent one.
func decodeError(status int, path string, body []byte, fallback string) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	msg := eb.Error
	if msg == "" {
		msg = eb.Message
	}

	if msg == apperr.ErrAccountDeleted.Error() {
		return apperr.ErrAccountDeleted
	}
	if msg == "" {
		msg = fallback
	}

	switch status {
	case http.StatusUnauthorized:
		return &apperr.AuthError{Message: msg}
	case http.StatusForbidden:
		return &apperr.ForbiddenError{Action: "request", Reason: msg}
	case http.StatusNotFound:
		return &apperr.NotFoundError{Resource: path, Message: msg}
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", apperr.ErrConflict, msg)
	case http.StatusBadRequest:
		return apperr.Invalid("", msg)
	}
	return &apperr.CollaboratorError{Status: status, Message: msg}
}

// IsAccountDeleted reports whether err means the signed-in seller is gone.
func IsAccountDeleted(err error) bool {
	return errors.Is(err, apperr.ErrAccountDeleted)
}
