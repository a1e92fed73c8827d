package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anjiri1684/cricket_coach/utils"
	"github.com/rs/zerolog"
)

// Client talks to the remote booking API. It holds no credentials; every call
// carries the bearer token of the session it is made for.
type Client struct {
	baseURL        string
	http           *http.Client
	log            zerolog.Logger
	onUnauthorized func(token string)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithUnauthorizedHandler registers the hook run on every 401, before
// ErrUnauthorized is returned.
func WithUnauthorizedHandler(fn func(token string)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUnauthorizedHandler wires the hook after construction, for the session
// provider which itself needs the client.
func (c *Client) SetUnauthorizedHandler(fn func(token string)) {
	c.onUnauthorized = fn
}

// do sends one request and decodes the response into out. keys name the
// envelope fields the payload may be wrapped in besides "data".
func (c *Client) do(ctx context.Context, token, method, path string, body, out any, keys ...string) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := utils.NewRequestID()
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("booking api unreachable")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(started)).
		Str("request_id", requestID).
		Msg("booking api call")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.onUnauthorized != nil && token != "" {
			c.onUnauthorized(token)
		}
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, errorMessage(payload, resp.Status))
	case resp.StatusCode >= 400:
		return &APIError{Status: resp.StatusCode, Message: errorMessage(payload, http.StatusText(resp.StatusCode))}
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := decodeEnvelope(payload, out, keys...); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeEnvelope accepts a bare payload, {"data": payload}, {"<key>": payload}
// or {"data": {"<key>": payload}}.
func decodeEnvelope(payload []byte, out any, keys ...string) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return json.Unmarshal(trimmed, out)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	if inner, ok := envelope["data"]; ok && !isNull(inner) {
		if len(keys) > 0 {
			var nested map[string]json.RawMessage
			if json.Unmarshal(inner, &nested) == nil {
				for _, key := range keys {
					if v, ok := nested[key]; ok {
						return json.Unmarshal(v, out)
					}
				}
			}
		}
		return json.Unmarshal(inner, out)
	}
	for _, key := range keys {
		if v, ok := envelope[key]; ok {
			return json.Unmarshal(v, out)
		}
	}
	return json.Unmarshal(trimmed, out)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
