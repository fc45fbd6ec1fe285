// api/http_client.go
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

	"pqr-portal/config"
)

// StatusError is returned when the backend answers outside the 2xx range.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "unexpected status code: " + e.Status
}

// HTTPClient struct to hold base URL and HTTP client configuration.
// The cookie jar keeps the backend session and its CSRF cookie between calls.
type HTTPClient struct {
	BaseURL    string
	HTTPClient *http.Client
	// CSRFPath is fetched once to obtain the CSRF cookie when none is present yet.
	CSRFPath string
}

// NewHTTPClient creates a new instance of HTTPClient with default settings
func NewHTTPClient(baseURL string) *HTTPClient {
	return NewHTTPClientWithTimeout(baseURL, 10*time.Second)
}

// NewHTTPClientWithTimeout creates an HTTPClient with the given request timeout.
func NewHTTPClientWithTimeout(baseURL string, timeout time.Duration) *HTTPClient {
	jar, _ := cookiejar.New(nil)
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}
}

// Request makes a JSON request to the API and decodes the response
func (c *HTTPClient) Request(ctx context.Context, method, endpoint string, headers map[string]string, body interface{}, response interface{}) error {
	var requestBody []byte
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		requestBody = jsonBody
	}

	if method != http.MethodGet {
		c.ensureCSRFToken(ctx)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, bytes.NewBuffer(requestBody))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	c.setCSRFHeader(req)

	return c.do(req, response)
}

// PostForm sends an url-encoded form and decodes the JSON answer.
func (c *HTTPClient) PostForm(ctx context.Context, endpoint string, form url.Values, response interface{}) error {
	c.ensureCSRFToken(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.setCSRFHeader(req)

	return c.do(req, response)
}

// Get issues a GET with the given query and decodes the JSON answer.
func (c *HTTPClient) Get(ctx context.Context, endpoint string, query url.Values, response interface{}) error {
	raw, err := c.GetRaw(ctx, endpoint, query)
	if err != nil {
		return err
	}
	if response == nil {
		return nil
	}
	return json.Unmarshal(raw, response)
}

// GetRaw issues a GET and returns the body untouched.
func (c *HTTPClient) GetRaw(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	u := c.BaseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return c.send(req)
}

// CSRFToken returns the CSRF cookie value the backend handed out, or "".
func (c *HTTPClient) CSRFToken() string {
	if c.HTTPClient.Jar == nil {
		return ""
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.HTTPClient.Jar.Cookies(base) {
		if cookie.Name == config.CSRF_COOKIE_NAME {
			return cookie.Value
		}
	}
	return ""
}

func (c *HTTPClient) ensureCSRFToken(ctx context.Context) {
	if c.CSRFPath == "" || c.CSRFToken() != "" {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+c.CSRFPath, nil)
	if err != nil {
		return
	}
	// Only the Set-Cookie side effect matters here.
	_, _ = c.send(req)
}

func (c *HTTPClient) setCSRFHeader(req *http.Request) {
	if token := c.CSRFToken(); token != "" {
		req.Header.Set(config.CSRF_HEADER_NAME, token)
	}
}

func (c *HTTPClient) do(req *http.Request, response interface{}) error {
	resBody, err := c.send(req)
	if err != nil {
		return err
	}
	if response != nil {
		if err := json.Unmarshal(resBody, response); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
		}
	}
	return nil
}

func (c *HTTPClient) send(req *http.Request) ([]byte, error) {
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{Code: res.StatusCode, Status: res.Status}
	}
	return resBody, nil
}
