// Package registry implements the Handle REST API client.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/catalog/pidreg/internal/infrastructure/telemetry"
)

// SubmissionObserver receives the duration of every registry request
type SubmissionObserver interface {
	RecordSubmission(ctx context.Context, serverName string, d time.Duration, err error)
}

// Client submits handle payloads with HTTP PUT and basic authentication.
// It is safe for concurrent use; the underlying http.Client pools connections.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     *zap.Logger
	observer   SubmissionObserver
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithObserver records submission durations
func WithObserver(o SubmissionObserver) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient creates a registry client
func NewClient(config Config, logger *zap.Logger, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		config: config,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Submit sends one PUT request for identifier. Anything but 200 or 201 is a *handle.SubmissionError.
func (c *Client) Submit(ctx context.Context, server *handle.RegistryServer, identifier string, payload *handle.Payload) error {
	endpoint := handle.SubmissionURL(server, identifier)
	handleURL := handle.ResolveIdentifierURL(server, identifier)

	ctx, span := telemetry.StartSpan(ctx, "registry.submit",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrHTTPEndpoint, endpoint),
		telemetry.WithAttribute(telemetry.SpanAttrHandle, identifier),
	)
	defer span.End()

	start := time.Now()
	status, err := c.put(ctx, server, endpoint, payload)
	if err != nil {
		err = &handle.SubmissionError{URL: endpoint, HandleURL: handleURL, Err: err}
	} else if status.code != http.StatusOK && status.code != http.StatusCreated {
		err = &handle.SubmissionError{
			URL:        endpoint,
			HandleURL:  handleURL,
			StatusCode: status.code,
			Body:       status.detail(),
		}
	}
	elapsed := time.Since(start)

	if c.observer != nil {
		c.observer.RecordSubmission(ctx, server.Name, elapsed, err)
	}
	if status.code != 0 {
		telemetry.SetAttributes(span, telemetry.SpanAttrHTTPStatus, status.code)
	}

	if err != nil {
		telemetry.RecordError(span, err)
		c.logger.Warn("Handle submission failed",
			zap.String("server", server.Name),
			zap.String("url", endpoint),
			zap.Int("status", status.code),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("Handle submitted",
		zap.String("server", server.Name),
		zap.String("handle", identifier),
		zap.Int("status", status.code),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}

type response struct {
	code       int
	statusText string
	body       []byte
}

// detail is the response body, or the status text when the body is empty
func (r response) detail() string {
	if len(bytes.TrimSpace(r.body)) == 0 {
		return r.statusText
	}
	return string(r.body)
}

func (c *Client) put(ctx context.Context, server *handle.RegistryServer, endpoint string, payload *handle.Payload) (response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return response{}, fmt.Errorf("registry: failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return response{}, fmt.Errorf("registry: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	req.SetBasicAuth(server.Username, server.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, err
	}
	defer func() {
		// Drain past the read limit before closing
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseSize))
	if err != nil {
		return response{code: resp.StatusCode}, fmt.Errorf("registry: failed to read response: %w", err)
	}

	return response{
		code:       resp.StatusCode,
		statusText: http.StatusText(resp.StatusCode),
		body:       respBody,
	}, nil
}

// Ensure Client implements handle.RegistryClient
var _ handle.RegistryClient = (*Client)(nil)
