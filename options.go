package akhttp

import (
	"net/http"
	"time"

	"github.com/AndersonKouadio/ak-api-http/internal/backoff"
)

// WithTimeout sets the per-dispatch timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxRetries sets the maximum number of 5xx re-dispatches.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithRetryDelay sets the pause before each re-dispatch.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Config) {
		c.RetryDelay = d
	}
}

// WithBackoffStrategy swaps the fixed-delay default for another strategy,
// e.g. backoff.ExponentialJitterStrategy.
func WithBackoffStrategy(s backoff.Strategy) Option {
	return func(c *Config) {
		c.Backoff = s
	}
}

// WithHeader adds a default header. Caller values override the built-in
// Content-Type default.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.DefaultHeaders == nil {
			c.DefaultHeaders = map[string]string{}
		}
		c.DefaultHeaders[key] = value
	}
}

// WithService registers or replaces a service entry. Supplying "public"
// or "private" replaces the seeded default wholesale.
func WithService(name string, entry ServiceEntry) Option {
	return func(c *Config) {
		if c.Services == nil {
			c.Services = map[string]ServiceEntry{}
		}
		c.Services[name] = entry
	}
}

// WithServices registers several service entries at once.
func WithServices(services map[string]ServiceEntry) Option {
	return func(c *Config) {
		if c.Services == nil {
			c.Services = map[string]ServiceEntry{}
		}
		for name, entry := range services {
			c.Services[name] = entry
		}
	}
}

// WithAuthDisabled turns the global auth switch off. Construction then no
// longer requires session hooks and no request carries a token.
func WithAuthDisabled() Option {
	return func(c *Config) {
		c.AuthEnabled = false
	}
}

// WithSessionProvider sets the session provider hook.
func WithSessionProvider(p SessionProvider) Option {
	return func(c *Config) {
		c.SessionProvider = p
	}
}

// WithSignOutHandler sets the sign-out hook invoked on 401 responses.
func WithSignOutHandler(h SignOutHandler) Option {
	return func(c *Config) {
		c.SignOutHandler = h
	}
}

// WithRequestInterceptor sets the request interceptor.
func WithRequestInterceptor(i RequestInterceptor) Option {
	return func(c *Config) {
		c.OnRequest = i
	}
}

// WithResponseInterceptor sets the response interceptor.
func WithResponseInterceptor(i ResponseInterceptor) Option {
	return func(c *Config) {
		c.OnResponse = i
	}
}

// WithRequestErrorHandler sets the terminal-failure observer.
func WithRequestErrorHandler(h RequestErrorHandler) Option {
	return func(c *Config) {
		c.OnRequestError = h
	}
}

// WithTransport swaps the transport collaborator.
func WithTransport(t Transport) Option {
	return func(c *Config) {
		c.Transport = t
	}
}

// WithHTTPClient uses hc for the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Config) {
		c.Transport = NewHTTPTransport(hc)
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithDebug enables debug logging with default configuration.
func WithDebug() Option {
	return func(c *Config) {
		c.DebugEnabled = true
		if c.Debug == nil {
			c.Debug = DefaultDebugConfig()
		}
		c.Debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration.
func WithDebugConfig(dc *DebugConfig) Option {
	return func(c *Config) {
		c.Debug = dc
		if dc != nil {
			c.DebugEnabled = dc.Enabled
		}
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Config) {
		c.Metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(mc *MetricsCollector) Option {
	return func(c *Config) {
		c.Metrics = mc
	}
}
