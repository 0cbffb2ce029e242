package akhttp

import (
	"context"
	"net/http"
	"time"
)

// ServicePublic and ServicePrivate are the two service names every client
// resolves out of the box. Both default to the configured base endpoint;
// public requests carry no credentials, private requests do.
const (
	ServicePublic  = "public"
	ServicePrivate = "private"
)

// ServiceEntry describes one logical backend: where it lives and whether
// requests to it carry a bearer token.
type ServiceEntry struct {
	Endpoint    string `koanf:"endpoint" json:"endpoint"`
	AuthEnabled bool   `koanf:"authEnabled" json:"authEnabled"`
}

// Params holds query string parameters. Values that are nil or empty
// strings are dropped at build time; everything else is coerced to its
// string form.
type Params map[string]any

// Session is the credential bundle returned by a SessionProvider. Only
// AccessToken matters to the client; the remaining fields are carried for
// callers that want them in interceptors or logs.
type Session struct {
	AccessToken string    `json:"accessToken"`
	UserID      string    `json:"userId,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt,omitempty"`
}

// SessionProvider supplies the current session, or nil when there is none.
// A provider error is treated as "no session", never as a request failure.
type SessionProvider func(ctx context.Context) (*Session, error)

// SignOutHandler invalidates the current session. It is awaited exactly
// once per 401 response before the authentication error is returned.
type SignOutHandler func(ctx context.Context) error

// Request is the outbound request descriptor handed to the Transport.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	Timeout time.Duration
}

// Clone returns a deep copy so interceptors can replace the request
// without aliasing the pipeline's own view of it.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	out := *r
	out.Headers = make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		out.Headers[k] = v
	}
	if r.Body != nil {
		out.Body = append([]byte(nil), r.Body...)
	}
	return &out
}

// Response is the transport-level response descriptor.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// RequestInterceptor runs after the request is fully composed and before it
// is dispatched. It may mutate the request in place or return a new one;
// returning an error aborts the call without retries.
type RequestInterceptor func(ctx context.Context, req *Request) (*Request, error)

// ResponseInterceptor runs over every response, including the shells
// synthesized on the failure path. Its returned response is what the
// caller sees.
type ResponseInterceptor func(ctx context.Context, resp *Response) (*Response, error)

// RequestErrorHandler observes every terminal normalized failure. It is
// best effort: the pipeline does not recover from a panicking handler.
type RequestErrorHandler func(err *APIError)

// Option represents a configuration option
type Option func(*Config)
