// Package backend is the typed client for the MealPoint staff REST API.
// The dashboard and session core never speak HTTP directly; every remote
// interaction goes through Client so that bearer-token injection and
// session-expiry detection live in exactly one place.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultRequestTimeout = 15 * time.Second

// TokenSource supplies the current bearer token, if any. The session package
// implements it; Client never stores a token itself.
type TokenSource interface {
	Token() (string, bool)
}

// Client issues requests against the staff REST API.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	logger  *slog.Logger

	onExpired func()
	mu        sync.Mutex
	expired   string // last token value already reported expired
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithLogger sets the structured logger. If not set, a JSON logger writing
// to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithExpiryHook registers a callback fired when an authenticated call
// returns 401. The hook fires at most once per token value, so concurrent
// expired calls produce a single local sign-out.
func WithExpiryHook(fn func()) Option {
	return func(c *Client) { c.onExpired = fn }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultRequestTimeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return c
}

// call describes one request through the shared request path.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	// unauthenticated calls (sign-in, sign-up) skip token injection and map
	// 401/403 to ErrInvalidCredentials instead of ErrSessionExpired.
	unauthenticated bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var reqBody io.Reader
	if cl.body != nil {
		buf, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", cl.method, cl.path, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, reqBody)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", cl.method, cl.path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var token string
	if !cl.unauthenticated {
		var ok bool
		token, ok = c.tokens.Token()
		if !ok {
			return ErrSessionExpired
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			slog.String("method", cl.method),
			slog.String("path", cl.path),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, cl.method, cl.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if cl.unauthenticated {
			return ErrInvalidCredentials
		}
		c.noteExpired(token)
		return ErrSessionExpired
	}
	if cl.unauthenticated && resp.StatusCode == http.StatusForbidden {
		return ErrInvalidCredentials
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(resp, cl)
	}
	if cl.out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if !isJSON(resp) {
		return fmt.Errorf("%w: %s %s: non-JSON response (status %d)",
			ErrUnavailable, cl.method, cl.path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return fmt.Errorf("%w: decoding %s %s response: %v",
			ErrUnavailable, cl.method, cl.path, err)
	}
	return nil
}

func (c *Client) errorFromResponse(resp *http.Response, cl call) error {
	apiErr := &APIError{Status: resp.StatusCode}
	if isJSON(resp) {
		var body struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
			apiErr.Message = body.Message
			if apiErr.Message == "" {
				apiErr.Message = body.Error
			}
		}
	}
	if apiErr.Status >= 500 {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, cl.method, cl.path, apiErr)
	}
	return apiErr
}

// noteExpired fires the expiry hook unless this token value was already
// reported. Several in-flight calls sharing one stale token collapse to a
// single hook invocation.
func (c *Client) noteExpired(token string) {
	if token == "" || c.onExpired == nil {
		return
	}
	c.mu.Lock()
	fire := token != c.expired
	if fire {
		c.expired = token
	}
	c.mu.Unlock()
	if fire {
		c.onExpired()
	}
}

func isJSON(resp *http.Response) bool {
	ct, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return err == nil && (ct == "application/json" || strings.HasSuffix(ct, "+json"))
}
