// Package api is the typed HTTP client for the career-guidance backend.
// It owns the wire contracts of the four remote collaborators (auth,
// profile store, recommendation engine, chat service) and maps their
// failures onto a small error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 90 * time.Second

// TokenSource supplies the current bearer token, if any. The client reads
// it per request, so a session transition is picked up by the very next
// call with no ambient header state.
type TokenSource interface {
	Token() (string, bool)
}

// Client talks to the backend's /api surface.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout on the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New builds a client for the backend at baseURL. tokens may be nil for a
// client that only performs anonymous calls.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// detailBody is the error envelope the backend uses for failures.
type detailBody struct {
	Detail string `json:"detail"`
}

// call issues a JSON request and decodes the response into out (which may
// be nil). authed selects both the bearer header and how a 401 is
// classified: a rejected login is an authentication failure, a rejected
// protected call is an authorization failure.
func (c *Client) call(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, reader)
	if err != nil {
		return &Error{Kind: KindTransport, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, ok := c.token()
		if !ok {
			return &Error{Kind: KindAuthorization, Message: "no session token"}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classify(resp, authed)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: KindTransport, Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}

func (c *Client) token() (string, bool) {
	if c.tokens == nil {
		return "", false
	}
	return c.tokens.Token()
}

func classify(resp *http.Response, authed bool) *Error {
	detail := readDetail(resp.Body)
	apiErr := &Error{Status: resp.StatusCode, Message: detail}

	switch {
	case resp.StatusCode == http.StatusUnauthorized && authed:
		apiErr.Kind = KindAuthorization
	case resp.StatusCode == http.StatusUnauthorized:
		apiErr.Kind = KindAuthentication
	case resp.StatusCode == http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		apiErr.Kind = KindValidation
	default:
		apiErr.Kind = KindTransport
	}
	return apiErr
}

func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "request failed"
	}
	var body detailBody
	if json.Unmarshal(data, &body) == nil && body.Detail != "" {
		return body.Detail
	}
	return strings.TrimSpace(string(data))
}
