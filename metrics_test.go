package akhttp

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsCollectorIsSafe(t *testing.T) {
	var mc *MetricsCollector
	mc.RecordRequestStart("GET", "private")
	mc.RecordRequestEnd("GET", "private")
	mc.RecordRequest("GET", "private", 200, time.Millisecond)
	mc.RecordRetry("GET", "private", 1)
	mc.RecordAuthFailure("private")
	mc.RecordSignOut()
	mc.RecordTokenCacheHit()
	mc.RecordTokenCacheMiss()
	mc.RecordError(ErrorTypeAPI, "GET", "private")
}

func TestMetricsCollectorCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	mc := NewMetricsCollectorWithRegistry(registry)

	mc.RecordRequestStart("GET", "private")
	if got := testutil.ToFloat64(mc.requestsInFlight.WithLabelValues("GET", "private")); got != 1 {
		t.Errorf("in-flight = %v, want 1", got)
	}
	mc.RecordRequestEnd("GET", "private")
	if got := testutil.ToFloat64(mc.requestsInFlight.WithLabelValues("GET", "private")); got != 0 {
		t.Errorf("in-flight = %v, want 0", got)
	}

	mc.RecordRequest("GET", "private", 200, 5*time.Millisecond)
	mc.RecordRequest("GET", "private", 200, 7*time.Millisecond)
	if got := testutil.ToFloat64(mc.requestsTotal.WithLabelValues("GET", "private", "200")); got != 2 {
		t.Errorf("requests_total = %v, want 2", got)
	}

	mc.RecordRetry("GET", "private", 1)
	if got := testutil.ToFloat64(mc.retriesTotal.WithLabelValues("GET", "private", "1")); got != 1 {
		t.Errorf("retries_total = %v, want 1", got)
	}

	mc.RecordAuthFailure("private")
	mc.RecordSignOut()
	if got := testutil.ToFloat64(mc.authFailuresTotal.WithLabelValues("private")); got != 1 {
		t.Errorf("auth_failures_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(mc.signOutsTotal); got != 1 {
		t.Errorf("sign_outs_total = %v, want 1", got)
	}

	mc.RecordTokenCacheMiss()
	mc.RecordTokenCacheHit()
	mc.RecordTokenCacheHit()
	if got := testutil.ToFloat64(mc.tokenCacheHits); got != 2 {
		t.Errorf("token_cache_hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(mc.tokenCacheMisses); got != 1 {
		t.Errorf("token_cache_misses = %v, want 1", got)
	}

	mc.RecordError(ErrorTypeAuthentication, "GET", "private")
	if got := testutil.ToFloat64(mc.errorsTotal.WithLabelValues(ErrorTypeAuthentication, "GET", "private")); got != 1 {
		t.Errorf("errors_total = %v, want 1", got)
	}
}

func TestClientRecordsPipelineMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	mc := NewMetricsCollectorWithRegistry(registry)

	attempts := 0
	ft := &fakeTransport{fn: func(req *Request) (*Response, error) {
		attempts++
		if attempts == 1 {
			return serverError(req, http.StatusInternalServerError, "")
		}
		return &Response{Status: http.StatusOK}, nil
	}}
	client := newTestClient(t, ft, WithMetricsCollector(mc))

	if _, err := client.Get(context.Background(), "/things", nil); err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}

	if got := testutil.ToFloat64(mc.requestsTotal.WithLabelValues("GET", "private", "200")); got != 1 {
		t.Errorf("requests_total{200} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(mc.retriesTotal.WithLabelValues("GET", "private", "1")); got != 1 {
		t.Errorf("retries_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(mc.tokenCacheMisses); got != 1 {
		t.Errorf("token_cache_misses = %v, want 1", got)
	}

	ft.fn = func(req *Request) (*Response, error) {
		return serverError(req, http.StatusUnauthorized, "")
	}
	if _, err := client.Get(context.Background(), "/me", nil); !IsAuthenticationError(err) {
		t.Fatalf("error = %v, want AuthenticationError", err)
	}
	if got := testutil.ToFloat64(mc.authFailuresTotal.WithLabelValues("private")); got != 1 {
		t.Errorf("auth_failures_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(mc.signOutsTotal); got != 1 {
		t.Errorf("sign_outs_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(mc.tokenCacheHits); got != 1 {
		t.Errorf("token_cache_hits = %v, want 1: second request reuses the token", got)
	}
}
