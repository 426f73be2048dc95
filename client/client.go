// Package client calls the thoughts REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// DefaultBaseURL is the origin of the hosted thoughts API.
const DefaultBaseURL = "https://api.klimentsi.live"

const thoughtsPath = "/thoughts/"

// maxErrorBody caps how much of a failed response is kept on the error.
const maxErrorBody = 4 << 10

// ErrRequestFailed is matched by every error the client returns, whether the
// request never reached the server or the server answered with a non-2xx
// status.
var ErrRequestFailed = errors.New("request failed")

// A RequestError describes a failed API call.
type RequestError struct {
	Method string
	URL    string
	// StatusCode is 0 when no response was received.
	StatusCode int
	// Body is the start of the response body for non-2xx responses.
	Body string
	Err  error
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Method, e.URL, ErrRequestFailed)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Client lists and creates thoughts on a thoughts API. The zero value talks
// to DefaultBaseURL using http.DefaultClient. A Client is safe for concurrent
// use.
type Client struct {
	// BaseURL is the API origin, for example "http://localhost:8000".
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// New returns a client for the API at baseURL.
func New(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		Logger:  logger,
	}
}

// ListThoughts returns the thoughts the server currently holds, in the order
// the server returned them.
func (c *Client) ListThoughts(ctx context.Context) ([]Thought, error) {
	var out []Thought
	if err := c.do(ctx, http.MethodGet, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Thought{}
	}
	return out, nil
}

// CreateThought posts a new thought and returns the server's representation
// of it.
func (c *Client) CreateThought(ctx context.Context, content string) (Thought, error) {
	type request struct {
		Content string `json:"content"`
	}
	body, err := json.Marshal(request{Content: content})
	if err != nil {
		return Thought{}, fmt.Errorf("encode request: %w", err)
	}

	var out Thought
	if err := c.do(ctx, http.MethodPost, body, &out); err != nil {
		return Thought{}, err
	}
	return out, nil
}

func (c *Client) endpoint() string {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/") + thoughtsPath
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// do sends a single request and decodes a successful JSON response into out.
func (c *Client) do(ctx context.Context, method string, body []byte, out any) error {
	url := c.endpoint()
	fail := func(status int, respBody string, err error) error {
		reqErr := &RequestError{
			Method:     method,
			URL:        url,
			StatusCode: status,
			Body:       respBody,
			Err:        err,
		}
		c.logger().Error("Thoughts API request failed", "method", method, "url", url, "status", status, "error", reqErr.Error())
		return reqErr
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fail(0, "", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient().Do(req)
	if err != nil {
		return fail(0, "", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return fail(res.StatusCode, string(b), nil)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fail(res.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	c.logger().Debug("Thoughts API request done", "method", method, "url", url, "status", res.StatusCode)
	return nil
}
