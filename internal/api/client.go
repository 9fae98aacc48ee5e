// Package api implements the remote layer of the fleet client: one method
// per REST endpoint, cookie-session auth, and the {data: ...} response
// envelope. No retry, no caching, no request de-duplication.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"traki/internal/fleet"
)

// DefaultTimeout caps each request when the config does not set one.
const DefaultTimeout = 5 * time.Second

// cookieKey is the StateStore key the session cookies persist under.
const cookieKey = "cookies"

// Client talks to the fleet API. The session token lives in an httpOnly
// cookie managed by the jar; credentials ride along on every request.
type Client struct {
	baseURL *url.URL
	httpc   *http.Client
	jar     http.CookieJar
	log     fleet.Logger
	idgen   fleet.IDGenerator
}

// NewClient creates a client for the API at baseURL (e.g.
// "http://localhost:9849/api"). A zero timeout means DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, log fleet.Logger, idgen fleet.IDGenerator) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = fleet.NewNopLogger()
	}
	if idgen == nil {
		idgen = fleet.UUIDGenerator{}
	}

	return &Client{
		baseURL: u,
		httpc:   &http.Client{Jar: jar, Timeout: timeout},
		jar:     jar,
		log:     log,
		idgen:   idgen,
	}, nil
}

// persistedCookie is the on-disk shape of a session cookie.
type persistedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SaveCookies persists the current session cookies so the next CLI run
// stays logged in.
func (c *Client) SaveCookies(store fleet.StateStore) error {
	cookies := c.jar.Cookies(c.baseURL)
	if len(cookies) == 0 {
		return store.DeleteValue(cookieKey)
	}
	out := make([]persistedCookie, 0, len(cookies))
	for _, ck := range cookies {
		out = append(out, persistedCookie{Name: ck.Name, Value: ck.Value})
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding cookies: %w", err)
	}
	return store.SetValue(cookieKey, string(raw))
}

// RestoreCookies loads previously persisted session cookies into the jar.
// Missing or corrupt state is not fatal; the user just logs in again.
func (c *Client) RestoreCookies(store fleet.StateStore) error {
	raw, ok, err := store.GetValue(cookieKey)
	if err != nil {
		return fmt.Errorf("reading persisted cookies: %w", err)
	}
	if !ok {
		return nil
	}
	var saved []persistedCookie
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		c.log.Warn("discarding corrupt persisted cookies", "error", err)
		return store.DeleteValue(cookieKey)
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, ck := range saved {
		cookies = append(cookies, &http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	c.jar.SetCookies(c.baseURL, cookies)
	return nil
}

// ClearCookies drops the in-memory session cookies. The persisted copy goes
// away with the next SaveCookies, which deletes the key when the jar is empty.
func (c *Client) ClearCookies() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("creating cookie jar: %w", err)
	}
	c.jar = jar
	c.httpc.Jar = jar
	return nil
}

// envelope is the {data: ...} wrapper every endpoint responds with.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// errorBody is the error payload shape; some endpoints use "message",
// older ones "error".
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do issues one request and decodes the enveloped response into out.
// out may be nil for endpoints whose response body is irrelevant (deletes).
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	reqID := c.idgen.New()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Error("request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.responseError(resp, method, path, reqID)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("%s %s: response missing data envelope", method, path)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding %s %s data: %w", method, path, err)
	}
	return nil
}

// download issues a GET for a binary body and streams it to w.
func (c *Client) download(ctx context.Context, path string, w io.Writer) (int64, error) {
	reqID := c.idgen.New()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String()+path, nil)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("X-Request-Id", reqID)

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Error("request failed", "method", "GET", "path", path, "request_id", reqID, "error", err)
		return 0, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, c.responseError(resp, http.MethodGet, path, reqID)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("streaming %s: %w", path, err)
	}
	return n, nil
}

// responseError turns a non-2xx response into an *Error carrying the
// server's message.
func (c *Client) responseError(resp *http.Response, method, path, reqID string) error {
	apiErr := &Error{Status: resp.StatusCode, RequestID: reqID}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(raw) > 0 {
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			if eb.Message != "" {
				apiErr.Message = eb.Message
			} else {
				apiErr.Message = eb.Error
			}
		}
	}

	c.log.Warn("api request failed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"kind", apiErr.classify(),
		"request_id", reqID,
	)
	return apiErr
}

// Compile-time check that Client implements the remote layer contract.
var _ fleet.API = (*Client)(nil)
