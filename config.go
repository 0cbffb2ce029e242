package akhttp

import (
	"time"

	"github.com/AndersonKouadio/ak-api-http/internal/backoff"
)

// Default configuration values.
const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 1 * time.Second
	DefaultMaxDelay   = 30 * time.Second
)

// Config holds everything a Client needs. Construct one through New plus
// functional options, or decode one from a file with LoadConfig. After
// construction the client owns its copy; mutate it only through
// UpdateConfig.
type Config struct {
	// BaseEndpoint is required. It seeds the public and private service
	// entries.
	BaseEndpoint string `koanf:"baseEndpoint"`

	// Timeout bounds each transport dispatch. Defaults to 10s.
	Timeout time.Duration `koanf:"timeout"`

	// DefaultHeaders are attached to every request. A Content-Type of
	// application/json is always present unless the caller overrides it.
	DefaultHeaders map[string]string `koanf:"defaultHeaders"`

	// AuthEnabled is the global auth switch, on by default. When on at
	// construction time, SessionProvider and SignOutHandler must both be
	// supplied or construction fails.
	AuthEnabled bool `koanf:"authEnabled"`

	// MaxRetries bounds 5xx re-dispatches per logical request. Default 3.
	MaxRetries int `koanf:"maxRetries"`

	// RetryDelay is the pause before each re-dispatch. Default 1s.
	RetryDelay time.Duration `koanf:"retryDelay"`

	// MaxRetryDelay caps whatever the backoff strategy computes.
	MaxRetryDelay time.Duration `koanf:"maxRetryDelay"`

	// Services are layered over the seeded public/private entries; a
	// caller entry replaces a seeded one wholesale.
	Services map[string]ServiceEntry `koanf:"services"`

	// DebugEnabled turns on per-request debug logging.
	DebugEnabled bool `koanf:"debugEnabled"`

	SessionProvider SessionProvider     `koanf:"-"`
	SignOutHandler  SignOutHandler      `koanf:"-"`
	OnRequestError  RequestErrorHandler `koanf:"-"`
	OnRequest       RequestInterceptor  `koanf:"-"`
	OnResponse      ResponseInterceptor `koanf:"-"`

	Transport Transport        `koanf:"-"`
	Backoff   backoff.Strategy `koanf:"-"`
	Logger    Logger           `koanf:"-"`
	Debug     *DebugConfig     `koanf:"-"`
	Metrics   *MetricsCollector `koanf:"-"`
}

// DefaultConfig returns the baseline configuration for the given base
// endpoint.
func DefaultConfig(baseEndpoint string) Config {
	return Config{
		BaseEndpoint: baseEndpoint,
		Timeout:      DefaultTimeout,
		DefaultHeaders: map[string]string{
			"Content-Type": "application/json",
		},
		AuthEnabled:   true,
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxDelay,
		Backoff:       backoff.ConstantStrategy{},
	}
}

// validate enforces the construction-time invariants. Checking the auth
// hooks is the only cross-field validation the client performs.
func (c *Config) validate() error {
	if c.BaseEndpoint == "" {
		return &ConfigurationError{Message: "baseEndpoint is required"}
	}
	if c.MaxRetries < 0 {
		return &ConfigurationError{Message: "maxRetries must be non-negative"}
	}
	if c.RetryDelay < 0 {
		return &ConfigurationError{Message: "retryDelay must be non-negative"}
	}
	if c.AuthEnabled && (c.SessionProvider == nil || c.SignOutHandler == nil) {
		return &ConfigurationError{Message: "sessionProvider and signOutHandler are required when auth is enabled"}
	}
	return nil
}

// clone copies the config deep enough that callers mutating the returned
// maps cannot affect the client.
func (c Config) clone() Config {
	out := c
	out.DefaultHeaders = make(map[string]string, len(c.DefaultHeaders))
	for k, v := range c.DefaultHeaders {
		out.DefaultHeaders[k] = v
	}
	if c.Services != nil {
		out.Services = make(map[string]ServiceEntry, len(c.Services))
		for k, v := range c.Services {
			out.Services[k] = v
		}
	}
	return out
}

// ConfigUpdate is a partial configuration merged over the live config by
// UpdateConfig. Nil fields are left untouched; non-nil map fields replace
// their target wholesale. Interceptor fields are stored for clients
// constructed afterwards but do not re-wire an already composed pipeline
// (see UpdateConfig).
type ConfigUpdate struct {
	BaseEndpoint   *string
	Timeout        *time.Duration
	DefaultHeaders map[string]string
	AuthEnabled    *bool
	MaxRetries     *int
	RetryDelay     *time.Duration
	Services       map[string]ServiceEntry
	DebugEnabled   *bool
	OnRequestError RequestErrorHandler
	OnRequest      RequestInterceptor
	OnResponse     ResponseInterceptor
}

// apply merges the update into cfg, shallow per top-level key.
func (u ConfigUpdate) apply(cfg *Config) {
	if u.BaseEndpoint != nil {
		cfg.BaseEndpoint = *u.BaseEndpoint
	}
	if u.Timeout != nil {
		cfg.Timeout = *u.Timeout
	}
	if u.DefaultHeaders != nil {
		cfg.DefaultHeaders = u.DefaultHeaders
	}
	if u.AuthEnabled != nil {
		cfg.AuthEnabled = *u.AuthEnabled
	}
	if u.MaxRetries != nil {
		cfg.MaxRetries = *u.MaxRetries
	}
	if u.RetryDelay != nil {
		cfg.RetryDelay = *u.RetryDelay
	}
	if u.Services != nil {
		cfg.Services = u.Services
	}
	if u.DebugEnabled != nil {
		cfg.DebugEnabled = *u.DebugEnabled
	}
	if u.OnRequestError != nil {
		cfg.OnRequestError = u.OnRequestError
	}
	if u.OnRequest != nil {
		cfg.OnRequest = u.OnRequest
	}
	if u.OnResponse != nil {
		cfg.OnResponse = u.OnResponse
	}
}
