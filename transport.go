package akhttp

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// Transport issues the actual network call. The default implementation
// wraps net/http; anything that satisfies the interface can be swapped in
// via WithTransport (fakes in tests, instrumented clients, etc).
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// TransportError carries whatever context was available when a dispatch
// failed: the request descriptor, the HTTP status if a response arrived,
// and the response body if one could be read. A nil Request means the
// failure happened before any request context existed; the pipeline
// passes such errors through without normalization.
type TransportError struct {
	Request *Request
	Status  int
	Code    string
	Body    []byte
	Cause   error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Status > 0 {
		if e.Cause != nil {
			return "akhttp: transport: status " + http.StatusText(e.Status) + ": " + e.Cause.Error()
		}
		return "akhttp: transport: " + http.StatusText(e.Status)
	}
	if e.Cause != nil {
		return "akhttp: transport: " + e.Cause.Error()
	}
	return "akhttp: transport: request failed"
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

const maxErrorBodyBytes int64 = 64 << 10

// httpTransport is the default Transport backed by a shared *http.Client.
// Per-request timeouts are applied through the context rather than the
// client's own Timeout field so a single client can serve every call.
type httpTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps hc as a Transport. A nil hc uses a fresh
// http.Client with no timeout of its own.
func NewHTTPTransport(hc *http.Client) Transport {
	if hc == nil {
		hc = &http.Client{}
	}
	return &httpTransport{client: hc}
}

func (t *httpTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	for k, v := range req.Headers {
		hreq.Header.Set(k, v)
	}

	hresp, err := t.client.Do(hreq)
	if err != nil {
		return nil, &TransportError{Request: req, Cause: err}
	}
	defer hresp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(hresp.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, &TransportError{Request: req, Status: hresp.StatusCode, Cause: err}
	}

	resp := &Response{
		Status:  hresp.StatusCode,
		Headers: hresp.Header.Clone(),
		Body:    raw,
	}
	if hresp.StatusCode >= 400 {
		errBody := raw
		if int64(len(errBody)) > maxErrorBodyBytes {
			errBody = errBody[:maxErrorBodyBytes]
		}
		return resp, &TransportError{
			Request: req,
			Status:  hresp.StatusCode,
			Body:    errBody,
		}
	}
	return resp, nil
}

const maxResponseBodyBytes int64 = 32 << 20

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
