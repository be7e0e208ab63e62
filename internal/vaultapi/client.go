package vaultapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// requestTimeout bounds every call to the service. There is no retry layer:
// a failed call is reported once and retrying is the user's decision.
const requestTimeout = 10 * time.Second

// Client is the single dispatch path to the credential service. Every
// outgoing request gets the current bearer token (when the source holds
// one), the fixed timeout, and a typed outcome: *APIError for server
// rejections, *TransportError for network failures, ErrUnauthorized for a
// dead session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	limiter    *rate.Limiter

	mu             sync.Mutex
	onUnauthorized func()
}

// NewClient creates a Client for the given base URL. The token source is
// consulted on every request; an invalid (empty) token means the request is
// sent without a credential.
func NewClient(baseURL string, tokens oauth2.TokenSource) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("server URL not configured")
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
	}, nil
}

// OnUnauthorized installs fn to run whenever an authenticated call comes
// back 401. The auth flow uses this to force the session teardown no matter
// which operation tripped the rejection.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

func (c *Client) notifyUnauthorized() {
	c.mu.Lock()
	fn := c.onUnauthorized
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// do dispatches one request. authed marks calls made against the
// authenticated surface: only those map a 401 to ErrUnauthorized, since a
// 401 from /login just means the credentials were wrong.
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Err: err}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if tok, err := c.tokens.Token(); err == nil && tok.Valid() {
		tok.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if authed && resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		c.notifyUnauthorized()
		return nil, ErrUnauthorized
	}

	return resp, nil
}

// parseError turns a non-2xx response into an *APIError carrying the
// server's message. The service reports errors as {"error": "..."}; a
// {"message": "..."} shape and raw text are tolerated.
func (c *Client) parseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode}
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
		}
		if payload.Message != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: payload.Message}
		}
	}

	return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}

func success(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Login exchanges credentials for a session token. The request carries no
// bearer credential and a 401 here is a server rejection, not a dead
// session.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/login", LoginRequest{Username: username, Password: password}, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !success(resp) {
		return nil, c.parseError(resp)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if loginResp.AccessToken == "" {
		return nil, fmt.Errorf("login response missing access token")
	}

	return &loginResp, nil
}

// Logout invalidates the session server-side. Callers treat failures as
// non-blocking; local teardown proceeds regardless.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/logout", nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !success(resp) {
		return c.parseError(resp)
	}

	return nil
}

// ListRecords fetches the full credential collection in server order.
func (c *Client) ListRecords(ctx context.Context) ([]Record, error) {
	resp, err := c.do(ctx, http.MethodGet, "/dashboard", nil, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !success(resp) {
		return nil, c.parseError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read listing response: %w", err)
	}

	var list recordList
	if err := list.UnmarshalJSON(body); err != nil {
		return nil, fmt.Errorf("decode listing response: %w", err)
	}

	return list.Records, nil
}

// CreateRecord stores a new credential and returns it with the
// server-assigned identifier.
func (c *Client) CreateRecord(ctx context.Context, req CreateRecordRequest) (*Record, error) {
	resp, err := c.do(ctx, http.MethodPost, "/passwords", req, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !success(resp) {
		return nil, c.parseError(resp)
	}

	var record Record
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decode created record: %w", err)
	}

	return &record, nil
}

// DeleteRecord removes a credential by identifier.
func (c *Client) DeleteRecord(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/passwords/%d", id), nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !success(resp) {
		return c.parseError(resp)
	}

	return nil
}
