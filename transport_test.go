package akhttp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPTransportSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.Header.Get("X-Custom") != "yes" {
			t.Errorf("X-Custom = %q", r.Header.Get("X-Custom"))
		}
		w.Header().Set("X-Server", "v1")
		w.WriteHeader(http.StatusCreated)
		if _, err := w.Write([]byte("created")); err != nil {
			t.Fatalf("write response: %v", err)
		}
	}))
	defer server.Close()

	tr := NewHTTPTransport(nil)
	resp, err := tr.Do(context.Background(), &Request{
		Method:  http.MethodPost,
		URL:     server.URL + "/things",
		Headers: map[string]string{"X-Custom": "yes"},
		Body:    []byte(`{"name":"a"}`),
	})
	if err != nil {
		t.Fatalf("Do() returned error: %v", err)
	}
	if resp.Status != http.StatusCreated {
		t.Errorf("status = %d, want 201", resp.Status)
	}
	if resp.String() != "created" {
		t.Errorf("body = %q", resp.String())
	}
	if resp.Headers.Get("X-Server") != "v1" {
		t.Errorf("X-Server = %q", resp.Headers.Get("X-Server"))
	}
}

func TestHTTPTransportErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		if _, err := w.Write([]byte(`{"message":"no such thing"}`)); err != nil {
			t.Fatalf("write response: %v", err)
		}
	}))
	defer server.Close()

	req := &Request{Method: http.MethodGet, URL: server.URL + "/missing"}
	resp, err := NewHTTPTransport(nil).Do(context.Background(), req)

	// Error statuses still surface the response alongside the error so the
	// pipeline can hand the body to interceptors and the normalizer.
	if resp == nil || resp.Status != http.StatusNotFound {
		t.Fatalf("resp = %v, want the 404 response", resp)
	}
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if terr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", terr.Status)
	}
	if terr.Request != req {
		t.Error("TransportError should carry the request context")
	}
	if string(terr.Body) != `{"message":"no such thing"}` {
		t.Errorf("Body = %s", terr.Body)
	}
}

func TestHTTPTransportTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	req := &Request{Method: http.MethodGet, URL: server.URL, Timeout: 20 * time.Millisecond}
	_, err := NewHTTPTransport(nil).Do(context.Background(), req)

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if terr.Request == nil {
		t.Error("timeout should carry the request context")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error chain = %v, want context.DeadlineExceeded", err)
	}
}

func TestSleep(t *testing.T) {
	if err := sleep(context.Background(), 0); err != nil {
		t.Errorf("zero delay on a live context: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := sleep(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("sleep on cancelled context: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("sleep took %v on a cancelled context", elapsed)
	}
}
