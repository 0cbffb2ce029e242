package akhttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Client is the authenticated request orchestration layer. It resolves
// logical services, attaches bearer tokens, runs the caller's
// interceptors, retries transient 5xx failures and normalizes every
// terminal failure into the typed error taxonomy. It is safe for
// concurrent use.
type Client struct {
	mu       sync.RWMutex
	config   Config
	registry *serviceRegistry

	tokens    *TokenCache
	transport Transport
	metrics   *MetricsCollector
	logger    Logger
	debug     *DebugConfig

	// Interceptors are composed into the pipeline at construction time.
	// UpdateConfig stores replacements in the config but does not re-wire
	// a live pipeline; reconstruct the client to swap them.
	onRequest  RequestInterceptor
	onResponse ResponseInterceptor
}

// RequestOptions carries the optional per-call knobs of every verb.
type RequestOptions struct {
	// Service selects the logical backend; defaults to "private".
	Service string
	// Params become the filtered query string.
	Params Params
	// Headers override defaults for this call only.
	Headers map[string]string
	// Timeout overrides the configured per-dispatch timeout.
	Timeout time.Duration
}

// New constructs a Client for baseEndpoint using the provided functional
// options. Construction fails synchronously with a ConfigurationError when
// auth is enabled without both session hooks; that is the only validation
// performed here.
func New(baseEndpoint string, options ...Option) (*Client, error) {
	cfg := DefaultConfig(baseEndpoint)
	for _, option := range options {
		option(&cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Transport == nil {
		cfg.Transport = NewHTTPTransport(nil)
	}
	if cfg.Debug == nil {
		cfg.Debug = DefaultDebugConfig()
	}
	cfg.Debug.Enabled = cfg.Debug.Enabled || cfg.DebugEnabled
	if cfg.Debug.RequestIDGen == nil {
		cfg.Debug.RequestIDGen = DefaultRequestIDGen
	}
	if cfg.Logger == nil && cfg.Debug.Enabled {
		cfg.Logger = NewSimpleLogger()
	}

	return &Client{
		config:     cfg.clone(),
		registry:   newServiceRegistry(cfg.BaseEndpoint, cfg.Services),
		tokens:     NewTokenCache(),
		transport:  cfg.Transport,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		debug:      cfg.Debug,
		onRequest:  cfg.OnRequest,
		onResponse: cfg.OnResponse,
	}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, opts *RequestOptions) (*Response, error) {
	return c.Request(ctx, http.MethodGet, endpoint, nil, opts)
}

// Post performs a POST request. A non-nil body is JSON-encoded unless it
// is already []byte or json.RawMessage.
func (c *Client) Post(ctx context.Context, endpoint string, body any, opts *RequestOptions) (*Response, error) {
	return c.Request(ctx, http.MethodPost, endpoint, body, opts)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, endpoint string, body any, opts *RequestOptions) (*Response, error) {
	return c.Request(ctx, http.MethodPut, endpoint, body, opts)
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, endpoint string, body any, opts *RequestOptions) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, endpoint, body, opts)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, opts *RequestOptions) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, endpoint, nil, opts)
}

// Request performs a request with an arbitrary method. This is the
// generic entry point every verb delegates to.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any, opts *RequestOptions) (*Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	serviceName := opts.Service
	if serviceName == "" {
		serviceName = ServicePrivate
	}

	snap, registry := c.snapshot()

	// Service resolution failures never reach the transport, the retry
	// machinery or the request error observer.
	entry, err := registry.Resolve(serviceName)
	if err != nil {
		return nil, err
	}

	url := entry.Endpoint + BuildURL(endpoint, opts.Params)

	payload, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("akhttp: encode request body: %w", err)
	}

	headers := make(map[string]string, len(snap.DefaultHeaders)+len(opts.Headers))
	for k, v := range snap.DefaultHeaders {
		headers[k] = v
	}
	for k, v := range opts.Headers {
		headers[k] = v
	}

	c.attachAuth(ctx, snap, registry, entry, url, headers)

	timeout := snap.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	req := &Request{
		Method:  method,
		URL:     url,
		Headers: headers,
		Body:    payload,
		Timeout: timeout,
	}

	requestID := ""
	if c.debugEnabled() && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}
	if c.debugEnabled() && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("Starting request",
			"requestID", requestID, "method", method, "endpoint", endpoint,
			"service", serviceName, "params", fmt.Sprintf("%v", opts.Params))
	}

	// The request interceptor sees the fully composed request. Its error
	// aborts the call without retries and without the error observer.
	if c.onRequest != nil {
		replaced, err := c.onRequest(ctx, req)
		if err != nil {
			if c.debugEnabled() && c.debug.LogErrors && c.logger != nil {
				c.logger.Error("Request interceptor failed", "requestID", requestID, "error", err.Error())
			}
			return nil, err
		}
		if replaced != nil {
			req = replaced
		}
	}

	start := time.Now()
	c.metrics.RecordRequestStart(method, serviceName)
	resp, err := c.dispatch(ctx, snap, req, serviceName, endpoint, requestID)
	c.metrics.RecordRequestEnd(method, serviceName)

	status := 0
	if resp != nil {
		status = resp.Status
	}
	c.metrics.RecordRequest(method, serviceName, status, time.Since(start))

	return resp, err
}

// dispatch drives the failure state machine: Dispatched -> Retrying,
// SignedOut, Failed or Succeeded.
func (c *Client) dispatch(ctx context.Context, snap Config, req *Request, serviceName, endpoint, requestID string) (*Response, error) {
	attempt := 0
	for {
		resp, derr := c.transport.Do(ctx, req)
		if derr == nil {
			return c.interceptResponse(ctx, resp, requestID)
		}

		var terr *TransportError
		if !errors.As(derr, &terr) || terr.Request == nil {
			// No request context at all: run the response interceptor
			// over an empty shell and pass the failure through untouched.
			if _, ierr := c.interceptResponse(ctx, &Response{}, requestID); ierr != nil {
				return nil, ierr
			}
			return nil, derr
		}

		switch {
		case terr.Status == http.StatusUnauthorized:
			return c.failAuth(ctx, snap, terr, resp, serviceName, requestID)

		case terr.Status >= 500 && attempt < snap.MaxRetries:
			attempt++
			c.metrics.RecordRetry(req.Method, serviceName, attempt)
			if c.debugEnabled() && c.debug.LogRetries && c.logger != nil {
				c.logger.Info("Scheduling retry",
					"requestID", requestID, "attempt", attempt,
					"maxRetries", snap.MaxRetries, "status", terr.Status)
			}
			delay := snap.Backoff.Delay(attempt-1, snap.RetryDelay, snap.MaxRetryDelay)
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}

		default:
			return c.failTerminal(ctx, snap, terr, resp, serviceName, endpoint, req.Method, requestID)
		}
	}
}

// failAuth handles the 401 transition: sign out exactly once, run the
// response interceptor, surface an AuthenticationError. Never retried.
func (c *Client) failAuth(ctx context.Context, snap Config, terr *TransportError, resp *Response, serviceName, requestID string) (*Response, error) {
	c.metrics.RecordAuthFailure(serviceName)
	if c.debugEnabled() && c.debug.LogAuth && c.logger != nil {
		c.logger.Warn("Authentication failed, signing out", "requestID", requestID, "service", serviceName)
	}

	if snap.SignOutHandler != nil {
		c.metrics.RecordSignOut()
		if err := snap.SignOutHandler(ctx); err != nil && c.debugEnabled() && c.debug.LogAuth && c.logger != nil {
			c.logger.Error("Sign-out handler failed", "requestID", requestID, "error", err.Error())
		}
	}

	shell := resp
	if shell == nil {
		shell = &Response{Status: http.StatusUnauthorized, Body: terr.Body}
	}
	if _, ierr := c.interceptResponse(ctx, shell, requestID); ierr != nil {
		return nil, ierr
	}

	return nil, NewAuthenticationError(serverMessage(terr.Body), terr)
}

// failTerminal normalizes the failure, notifies the error observer, runs
// the response interceptor and propagates the normalized error.
func (c *Client) failTerminal(ctx context.Context, snap Config, terr *TransportError, resp *Response, serviceName, endpoint, method, requestID string) (*Response, error) {
	apiErr := normalizeError(terr, endpoint, method, serviceName)
	c.metrics.RecordError(apiErr.Type, method, serviceName)

	if c.debugEnabled() && c.debug.LogErrors && c.logger != nil {
		c.logger.Error("Request failed",
			"requestID", requestID, "method", method, "endpoint", endpoint,
			"status", apiErr.Status, "code", apiErr.Code)
	}

	if snap.OnRequestError != nil {
		snap.OnRequestError(apiErr)
	}

	shell := resp
	if shell == nil {
		shell = &Response{Status: terr.Status, Body: terr.Body}
	}
	if _, ierr := c.interceptResponse(ctx, shell, requestID); ierr != nil {
		return nil, ierr
	}

	return nil, apiErr
}

// interceptResponse runs the caller's response interceptor. Its returned
// response is what the pipeline hands back; its error is logged and
// re-raised.
func (c *Client) interceptResponse(ctx context.Context, resp *Response, requestID string) (*Response, error) {
	if c.onResponse == nil {
		return resp, nil
	}
	replaced, err := c.onResponse(ctx, resp)
	if err != nil {
		if c.debugEnabled() && c.debug.LogErrors && c.logger != nil {
			c.logger.Error("Response interceptor failed", "requestID", requestID, "error", err.Error())
		}
		return nil, err
	}
	if replaced == nil {
		return resp, nil
	}
	return replaced, nil
}

// attachAuth sets the Authorization header when the global switch, the
// destination service and the token cache all allow it. The decision keys
// off the resolved endpoint, not the service name the caller passed:
// EntryForEndpoint is the authoritative signal once the URL is final.
func (c *Client) attachAuth(ctx context.Context, snap Config, registry *serviceRegistry, entry ServiceEntry, url string, headers map[string]string) {
	if !snap.AuthEnabled {
		return
	}
	authRequired := entry.AuthEnabled
	// Only a strictly more specific endpoint match overrides the named
	// resolution: public and private share the base endpoint, and a
	// public request must never pick up private's auth flag.
	if matched, ok := registry.EntryForEndpoint(url); ok && matched.Endpoint != entry.Endpoint {
		authRequired = matched.AuthEnabled
	}
	if !authRequired {
		return
	}

	if c.tokens.Peek() != "" {
		c.metrics.RecordTokenCacheHit()
	} else {
		c.metrics.RecordTokenCacheMiss()
	}
	token := c.tokens.CurrentToken(ctx, snap.SessionProvider)
	if token == "" {
		// No session is recoverable: the request goes out unauthenticated.
		return
	}
	headers["Authorization"] = "Bearer " + token
}

// CurrentToken resolves the token the next authenticated request would
// use: empty when auth is globally disabled or no session exists.
func (c *Client) CurrentToken(ctx context.Context) string {
	c.mu.RLock()
	enabled := c.config.AuthEnabled
	provider := c.config.SessionProvider
	c.mu.RUnlock()
	if !enabled {
		return ""
	}
	return c.tokens.CurrentToken(ctx, provider)
}

// SetToken overrides the cached token, bypassing the session provider.
func (c *Client) SetToken(token string) {
	c.tokens.Set(token)
}

// ClearToken empties the cache; the next authenticated request re-invokes
// the session provider.
func (c *Client) ClearToken() {
	c.tokens.Clear()
}

// AuthEnabled reports the global auth switch.
func (c *Client) AuthEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.AuthEnabled
}

// Config returns a snapshot copy of the live configuration.
func (c *Client) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg := c.config.clone()
	cfg.Services = c.registry.snapshot()
	return cfg
}

// Services returns the registered service names.
func (c *Client) Services() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry.Names()
}

// UpdateConfig merges a partial update into the live configuration,
// shallow per top-level key; Services and DefaultHeaders replace their
// previous value wholesale when supplied. Requests already in flight keep
// the snapshot they captured. Interceptor replacements are stored but do
// not re-wire the composed pipeline; construct a new client for that.
func (c *Client) UpdateConfig(update ConfigUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	update.apply(&c.config)
	c.registry = newServiceRegistry(c.config.BaseEndpoint, c.config.Services)
}

// SetSessionProvider swaps the session provider; takes effect on the next
// token cache miss.
func (c *Client) SetSessionProvider(p SessionProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.SessionProvider = p
}

// SetSignOutHandler swaps the sign-out handler.
func (c *Client) SetSignOutHandler(h SignOutHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.SignOutHandler = h
}

// snapshot captures the config and registry a single request runs with.
func (c *Client) snapshot() (Config, *serviceRegistry) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.clone(), c.registry
}

func (c *Client) debugEnabled() bool {
	return c.debug != nil && c.debug.Enabled
}

// serverMessage extracts the message field from an error payload, if any.
func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var sb serverErrorBody
	if err := json.Unmarshal(body, &sb); err != nil {
		return ""
	}
	if sb.Message != "" {
		return sb.Message
	}
	return sb.Error
}

// encodeBody converts a verb's body argument to raw bytes.
func encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	default:
		return json.Marshal(v)
	}
}
