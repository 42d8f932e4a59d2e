package contactapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"syscall"
)

// ErrorType is the category of a failed API call.
type ErrorType int

const (
	// ErrTypeNetwork is a transport failure not covered by a narrower type
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout means the request or its context deadline expired
	ErrTypeTimeout
	// ErrTypeConnectionRefused means nothing is listening at the base URL
	ErrTypeConnectionRefused
	// ErrTypeDNS means the API hostname did not resolve
	ErrTypeDNS
	// ErrTypeHTTP is a non-success status other than 404
	ErrTypeHTTP
	// ErrTypeNotFound is a 404, usually an id that no longer exists
	ErrTypeNotFound
	// ErrTypeParse means the response body was not the expected JSON
	ErrTypeParse
	// ErrTypeCanceled means the caller's context was canceled
	ErrTypeCanceled
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(t))
	}
}

// APIError is returned by every Client method that fails.
type APIError struct {
	Type       ErrorType
	Op         string // operation, e.g. "fetch contacts"
	Message    string // server-provided or classified message
	StatusCode int    // HTTP status, 0 when no response was received
	Err        error  // underlying transport or decode error
}

func (e *APIError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Type.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Err)
	}
	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// AsAPIError returns the *APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Type == ErrTypeNotFound
}

// IsNetworkError reports whether err happened before any response arrived.
func IsNetworkError(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	switch apiErr.Type {
	case ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS:
		return true
	}
	return false
}

// classifyTransportError maps an error from http.Client.Do onto the taxonomy.
// The *url.Error wrapper is walked by errors.As.
func classifyTransportError(op string, err error) *APIError {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return &APIError{Type: ErrTypeCanceled, Op: op, Message: "request canceled", Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return &APIError{Type: ErrTypeTimeout, Op: op, Message: "request timed out", Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &APIError{
			Type:    ErrTypeDNS,
			Op:      op,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &APIError{Type: ErrTypeConnectionRefused, Op: op, Message: "connection refused", Err: err}
	}

	return &APIError{Type: ErrTypeNetwork, Op: op, Message: "network error", Err: err}
}

// newStatusError builds the error for an unexpected response status. body is
// the (possibly empty) response body.
func newStatusError(op string, status int, body []byte) *APIError {
	typ := ErrTypeHTTP
	if status == http.StatusNotFound {
		typ = ErrTypeNotFound
	}
	msg := problemMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Type: typ, Op: op, Message: msg, StatusCode: status}
}

func newParseError(op string, err error) *APIError {
	return &APIError{Type: ErrTypeParse, Op: op, Message: "unexpected response body", Err: err}
}

const maxMessageLen = 200

// problemMessage extracts a human message from an error body. RFC 7807
// problem documents use detail and title; other APIs use message or error.
// Plain-text bodies are returned trimmed.
func problemMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err == nil {
		for _, key := range []string{"detail", "title", "message", "error"} {
			if s, ok := doc[key].(string); ok && strings.TrimSpace(s) != "" {
				return truncate(strings.TrimSpace(s))
			}
		}
		return ""
	}

	if strings.HasPrefix(text, "<") {
		// HTML error page
		return ""
	}
	return truncate(text)
}

func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	return s[:maxMessageLen-3] + "..."
}

// ShortMessage returns a one-line description of err for inline display.
func ShortMessage(err error) string {
	if err == nil {
		return ""
	}
	apiErr, ok := AsAPIError(err)
	if !ok {
		return err.Error()
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return "Contacts API not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Contacts API refused the connection - is it running?"
	case ErrTypeDNS:
		return "Cannot resolve the contacts API hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeNotFound:
		return "Contact not found (HTTP 404)"
	case ErrTypeHTTP:
		if apiErr.Message != "" && apiErr.Message != http.StatusText(apiErr.StatusCode) {
			return fmt.Sprintf("API error (HTTP %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Sprintf("API error (HTTP %d)", apiErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse API response"
	case ErrTypeCanceled:
		return "Request canceled"
	default:
		return apiErr.Error()
	}
}

// Hint returns multi-line troubleshooting advice for err, as printed by the
// command line tools.
func Hint(err error) string {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The contacts API did not respond in time.",
			"Troubleshooting:",
			"  • Check that the API server is running",
			"  • Try a longer timeout with --timeout",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"Nothing is listening at the configured address.",
			"Troubleshooting:",
			"  • Start the API server",
			"  • Check the port in --api-url or the config file",
			"  • Run 'contactdesk scan' to find servers on the local network",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the API hostname.",
			"Troubleshooting:",
			"  • Check the spelling of --api-url",
			"  • Use an IP address instead of a hostname",
		}, "\n")

	case ErrTypeNetwork:
		return strings.Join([]string{
			"Network communication failed.",
			"Troubleshooting:",
			"  • Check your network connection",
			"  • Verify the API URL with 'contactdesk config show'",
		}, "\n")

	case ErrTypeNotFound:
		return "The contact no longer exists on the server. Run 'contactdesk list' to refresh."

	case ErrTypeHTTP:
		if apiErr.StatusCode >= 500 {
			return fmt.Sprintf("The API server failed (HTTP %d). Check the server logs.", apiErr.StatusCode)
		}
		return fmt.Sprintf("The API rejected the request (HTTP %d). Check the values sent.", apiErr.StatusCode)

	case ErrTypeParse:
		return strings.Join([]string{
			"The server response was not a contacts document.",
			"Troubleshooting:",
			"  • Check that --api-url points at the contacts API",
			"  • Check the contacts path in the config file (default /contacts)",
		}, "\n")

	case ErrTypeCanceled:
		return "The request was canceled before it completed."

	default:
		return "An error occurred. Please check the error message for details."
	}
}
