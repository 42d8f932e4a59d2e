package contactapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/muurk/contactdesk/internal/contact"
)

const mockContactsResponse = `[
	{"id":"1","name":"Ann","phone":"555","age":30,"email":"a@x.com"},
	{"id":"2","name":"Ben","phone":"556","age":41,"email":"b@x.com"}
]`

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %s, want http://localhost:8080", client.BaseURL)
	}
	if client.Path != DefaultPath {
		t.Errorf("Path = %s, want %s", client.Path, DefaultPath)
	}
	if client.HTTPClient == nil || client.HTTPClient.Timeout != DefaultTimeout {
		t.Error("HTTPClient should be set with the default timeout")
	}
	if !strings.HasPrefix(client.UserAgent, "contactdesk/") {
		t.Errorf("UserAgent = %q", client.UserAgent)
	}
}

func TestSetPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/contacts"},
		{"people", "/people"},
		{"/api/v1/contacts/", "/api/v1/contacts"},
	}
	for _, tt := range tests {
		client := NewClient("http://api")
		client.SetPath(tt.in)
		if client.Path != tt.want {
			t.Errorf("SetPath(%q) -> %q, want %q", tt.in, client.Path, tt.want)
		}
	}
}

func TestSetTimeout(t *testing.T) {
	client := NewClient("http://api")
	client.SetTimeout(5 * time.Second)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
}

func TestFetchAll_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/contacts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("User-Agent header missing")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mockContactsResponse))
	}))
	defer server.Close()

	contacts, err := NewClient(server.URL).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	if len(contacts) != 2 {
		t.Fatalf("len(contacts) = %d, want 2", len(contacts))
	}
	if contacts[0].ID != "1" || contacts[1].ID != "2" {
		t.Errorf("order not preserved: %v", contacts)
	}
	if contacts[0].Age != 30 || contacts[0].Email != "a@x.com" {
		t.Errorf("contacts[0] = %+v", contacts[0])
	}
}

func TestFetchAll_NullBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	defer server.Close()

	contacts, err := NewClient(server.URL).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if contacts == nil || len(contacts) != 0 {
		t.Errorf("contacts = %#v, want empty non-nil slice", contacts)
	}
}

func TestFetchAll_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"contacts": oops`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).FetchAll(context.Background())
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Type != ErrTypeParse {
		t.Fatalf("error = %v, want parse error", err)
	}
	if apiErr.Op != "fetch contacts" {
		t.Errorf("Op = %q", apiErr.Op)
	}
}

func TestFetchAll_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"title":"Internal Server Error","detail":"database offline"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).FetchAll(context.Background())
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Type != ErrTypeHTTP || apiErr.StatusCode != 500 {
		t.Errorf("got %v/%d, want HTTP/500", apiErr.Type, apiErr.StatusCode)
	}
	if apiErr.Message != "database offline" {
		t.Errorf("Message = %q, want detail from problem body", apiErr.Message)
	}
}

func TestAdd_SendsContact(t *testing.T) {
	var got contact.Contact
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/contacts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ignored":true}`))
	}))
	defer server.Close()

	c := contact.Contact{ID: "abc", Name: "Dan", Phone: "558", Age: 50, Email: "d@x.com"}
	if err := NewClient(server.URL).Add(context.Background(), c); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got != c {
		t.Errorf("server received %+v, want %+v", got, c)
	}
}

func TestAdd_AcceptedStatuses(t *testing.T) {
	tests := []struct {
		status  int
		wantErr bool
	}{
		{http.StatusOK, false},
		{http.StatusCreated, false},
		{http.StatusNoContent, false},
		{http.StatusAccepted, true},
		{http.StatusBadRequest, true},
		{http.StatusConflict, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			err := NewClient(server.URL).Add(context.Background(), contact.Contact{ID: "x"})
			if (err != nil) != tt.wantErr {
				t.Errorf("Add() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdate_PutsToItemURL(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if r.URL.EscapedPath() != "/contacts/a%2Fb" {
			t.Errorf("path = %s, want escaped id", r.URL.EscapedPath())
		}
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := contact.Contact{ID: "a/b", Name: "Ann", Age: 31}
	if err := NewClient(server.URL).Update(context.Background(), c); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !strings.Contains(string(body), `"age":31`) {
		t.Errorf("body = %s", body)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"no contact 9"}`, http.StatusNotFound)
	}))
	defer server.Close()

	err := NewClient(server.URL).Update(context.Background(), contact.Contact{ID: "9"})
	if !IsNotFound(err) {
		t.Fatalf("error = %v, want not found", err)
	}
	apiErr, _ := AsAPIError(err)
	if apiErr.Message != "no contact 9" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestUpdate_MissingID(t *testing.T) {
	err := NewClient("http://api.invalid").Update(context.Background(), contact.Contact{Name: "x"})
	if err == nil {
		t.Fatal("Update() without id should fail")
	}
}

func TestDelete(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetPath("/api/people")
	if err := client.Delete(context.Background(), "42"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if gotPath != "/api/people/42" {
		t.Errorf("path = %s", gotPath)
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	if err := NewClient(server.URL).Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v, want nil for any 2xx", err)
	}
}

func TestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetTimeout(50 * time.Millisecond)

	_, err := client.FetchAll(context.Background())
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Type != ErrTypeTimeout {
		t.Fatalf("error = %v, want timeout", err)
	}
	if !IsNetworkError(err) {
		t.Error("timeout should count as a network error")
	}
}

func TestCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewClient(server.URL).Delete(ctx, "1")
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Type != ErrTypeCanceled {
		t.Fatalf("error = %v, want canceled", err)
	}
}

func TestConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := NewClient(url).Ping(context.Background())
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Type != ErrTypeConnectionRefused {
		t.Errorf("Type = %v, want %v", apiErr.Type, ErrTypeConnectionRefused)
	}
}
