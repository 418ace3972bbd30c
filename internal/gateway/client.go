// Package gateway is the client side of the analysis API: one call, one
// HTTP round trip, one validated result.
//
// SubmitImage never retries, caches, or batches. Every failure is reported
// as a *RequestError whose Message can be shown to the user directly.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fpang/fridge-chef/internal/recipe"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultTimeout bounds a single analysis round trip. The backend
	// waits on a vision model, so this is generous.
	DefaultTimeout = 90 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 10 << 20 // 10 MB
)

// Client submits images to the analysis backend.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client is copied,
// never modified. Its Timeout is kept unless WithTimeout is also given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the bounded wait for a response.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a gateway for the backend at baseURL
// (e.g. "http://localhost:8080"). A trailing slash is ignored.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := &http.Client{Timeout: DefaultTimeout}
	if c.httpClient != nil {
		copied := *c.httpClient
		hc = &copied
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.httpClient = hc
	return c
}

// Endpoint returns the full analysis URL.
func (c *Client) Endpoint() string {
	return c.baseURL + recipe.AnalyzePath
}

// SubmitImage sends image (a base64 data URL) to the backend and returns the
// analysis result. The image format is not checked here; that is the
// backend's job. An empty image fails with KindValidation without any
// network traffic.
func (c *Client) SubmitImage(ctx context.Context, image string) (*recipe.AnalysisResult, error) {
	if image == "" {
		return nil, &RequestError{Kind: KindValidation, Message: EmptyImageMessage}
	}

	body, err := json.Marshal(recipe.AnalyzeRequest{Image: image})
	if err != nil {
		return nil, &RequestError{Kind: KindValidation, Message: FallbackMessage, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{Kind: KindTransport, Message: FallbackMessage, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debug().
		Str("url", c.Endpoint()).
		Int("image_bytes", len(image)).
		Msg("Submitting image for analysis")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		reqErr := classifyTransportError(err)
		reqErr.Status = resp.StatusCode
		return nil, reqErr
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Int("body_bytes", len(raw)).
		Dur("duration", time.Since(start)).
		Msg("Analysis response received")

	return decodeEnvelope(resp.StatusCode, raw)
}

// decodeEnvelope validates an AnalyzeResponse body. The HTTP status is only
// informational: a non-2xx response with a well-formed envelope still yields
// the envelope's error text.
func decodeEnvelope(status int, raw []byte) (*recipe.AnalysisResult, error) {
	var envelope recipe.AnalyzeResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &RequestError{
			Kind:    KindProtocol,
			Message: FallbackMessage,
			Status:  status,
			Err:     fmt.Errorf("invalid response body: %w", err),
		}
	}

	if !envelope.Success || envelope.Data == nil {
		msg := strings.TrimSpace(envelope.Error)
		if msg == "" {
			msg = FallbackMessage
		}
		var cause error
		if envelope.Success {
			cause = errors.New("success envelope without data")
		}
		return nil, &RequestError{Kind: KindProtocol, Message: msg, Status: status, Err: cause}
	}

	return envelope.Data, nil
}

// classifyTransportError maps a client.Do or body read failure onto a Kind.
func classifyTransportError(err error) *RequestError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &RequestError{Kind: KindTimeout, Message: TimeoutMessage, Err: err}
	}
	return &RequestError{Kind: KindTransport, Message: FallbackMessage, Err: err}
}
