package fexapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
)

const userAgent = "fex-go/0.1"

// DefaultBaseURL is the production FEX.net endpoint.
const DefaultBaseURL = "https://fex.net"

// Client is an HTTP client for the FEX.net API. It owns the cookie jar
// carrying the authenticated session; the session package snapshots and
// restores the jar across invocations.
//
// Failed requests are never retried — every remote mutation must happen
// exactly once, in order.
type Client struct {
	baseURL    string
	httpClient *http.Client
	jar        *cookiejar.Jar
	logger     *slog.Logger
}

// NewClient creates a FEX.net API client. baseURL is typically
// DefaultBaseURL. The passed http.Client's Jar is replaced with one owned
// by this client.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("fexapi: creating cookie jar: %w", err)
	}

	// Shallow copy so the jar swap does not leak into the caller's client.
	hc := *httpClient
	hc.Jar = jar

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &hc,
		jar:        jar,
		logger:     logger,
	}, nil
}

// BaseURL returns the client's API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SessionCookies returns the cookies currently held for the API host.
func (c *Client) SessionCookies() []*http.Cookie {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil
	}

	return c.jar.Cookies(u)
}

// SetSessionCookies installs previously persisted cookies for the API host.
func (c *Client) SetSessionCookies(cookies []*http.Cookie) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return
	}

	c.jar.SetCookies(u, cookies)
}

// ClearSession drops all session cookies by replacing the jar.
func (c *Client) ClearSession() {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return
	}

	c.jar = jar
	c.httpClient.Jar = jar
}

// postForm executes a form-encoded POST against the API and returns the
// raw response. Non-2xx statuses and transport failures are both returned
// as *APIError. The caller owns the response body on success.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	endpoint := c.baseURL + path

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("fexapi: creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	c.logger.Debug("api request", slog.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error(), Err: ErrTransport}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if readErr != nil {
			errBody = []byte("(failed to read response body)")
		}

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(errBody),
			Err:        classifyStatus(resp.StatusCode),
		}
	}

	c.logger.Debug("api response",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
	)

	return resp, nil
}

// do executes a form POST and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, path string, form url.Values, out any) error {
	resp, err := c.postForm(ctx, path, form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, drainErr := io.Copy(io.Discard, resp.Body)
		return drainErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Message: fmt.Sprintf("decoding %s response: %v", path, err), Err: ErrTransport}
	}

	return nil
}
