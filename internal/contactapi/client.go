package contactapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/muurk/contactdesk/internal/contact"
	"github.com/muurk/contactdesk/internal/logging"
	"github.com/muurk/contactdesk/internal/version"
)

const (
	// DefaultPath is the collection path appended to the base URL
	DefaultPath = "/contacts"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// maxErrorBody caps how much of an error response is read
	maxErrorBody = 64 << 10
)

// Client talks to the contacts REST API. Calls are never retried.
type Client struct {
	// BaseURL is the API root, e.g. "http://localhost:8080"
	BaseURL string

	// Path is the contacts collection path (default "/contacts")
	Path string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// UserAgent is sent with every request
	UserAgent string
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Path:       DefaultPath,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		UserAgent:  version.UserAgent(),
	}
}

// SetTimeout sets the HTTP request timeout. Zero means no timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetPath sets the contacts collection path.
func (c *Client) SetPath(path string) {
	if path == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	c.Path = strings.TrimRight(path, "/")
}

// CollectionURL returns the URL of the contacts collection.
func (c *Client) CollectionURL() string {
	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	return strings.TrimRight(c.BaseURL, "/") + path
}

func (c *Client) itemURL(id string) string {
	return c.CollectionURL() + "/" + url.PathEscape(id)
}

// Ping checks that the collection endpoint answers with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, c.CollectionURL(), nil, nil, statusOK2xx)
}

// FetchAll returns every contact in the order the API lists them.
func (c *Client) FetchAll(ctx context.Context) ([]contact.Contact, error) {
	var contacts []contact.Contact
	err := c.do(ctx, "fetch contacts", http.MethodGet, c.CollectionURL(), nil, &contacts,
		statusIn(http.StatusOK))
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		// API answered with null
		contacts = []contact.Contact{}
	}
	return contacts, nil
}

// Add creates c on the server. The response body is ignored.
func (c *Client) Add(ctx context.Context, ct contact.Contact) error {
	return c.do(ctx, "add contact", http.MethodPost, c.CollectionURL(), ct, nil,
		statusIn(http.StatusOK, http.StatusCreated, http.StatusNoContent))
}

// Update replaces the contact with ct.ID. The response body is ignored.
func (c *Client) Update(ctx context.Context, ct contact.Contact) error {
	if ct.ID == "" {
		return &APIError{Type: ErrTypeHTTP, Op: "update contact", Message: "contact has no id"}
	}
	return c.do(ctx, "update contact", http.MethodPut, c.itemURL(ct.ID), ct, nil,
		statusIn(http.StatusOK, http.StatusNoContent))
}

// Delete removes the contact with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &APIError{Type: ErrTypeHTTP, Op: "delete contact", Message: "contact has no id"}
	}
	return c.do(ctx, "delete contact", http.MethodDelete, c.itemURL(id), nil, nil,
		statusIn(http.StatusOK, http.StatusNoContent))
}

type statusCheck func(int) bool

func statusOK2xx(code int) bool { return code >= 200 && code < 300 }

func statusIn(codes ...int) statusCheck {
	return func(code int) bool {
		for _, c := range codes {
			if c == code {
				return true
			}
		}
		return false
	}
}

// do performs one request. in, if non-nil, is sent as JSON; out, if non-nil,
// receives the decoded JSON response.
func (c *Client) do(ctx context.Context, op, method, target string, in, out any, ok statusCheck) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		logging.LogAPIRequest(method, target, status, time.Since(start), err)
	}()

	var body io.Reader
	if in != nil {
		payload, mErr := json.Marshal(in)
		if mErr != nil {
			return &APIError{Type: ErrTypeParse, Op: op, Message: "failed to encode request", Err: mErr}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &APIError{Type: ErrTypeNetwork, Op: op, Message: fmt.Sprintf("invalid request URL %q", target), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return classifyTransportError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()
	status = resp.StatusCode

	if !ok(resp.StatusCode) {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newStatusError(op, resp.StatusCode, errBody)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(op, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return newParseError(op, err)
	}
	return nil
}
