package akhttp

import (
	"context"
	"sync"
)

// TokenCache holds at most one credential string, scoped to the client
// instance that owns it. It is lazily populated from the session provider
// and can be overridden or cleared by the caller at any time.
//
// Concurrent requests may race to populate the cache. That race is benign:
// last writer wins, and every writer got its token from the same provider,
// which is the source of truth. The mutex exists for memory safety, not to
// serialize provider calls.
type TokenCache struct {
	mu    sync.RWMutex
	token string
}

// NewTokenCache returns an empty cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

// CurrentToken returns the cached token, fetching it from provider on a
// miss. A nil provider, an empty session or a provider error all resolve
// to "" with the cache left empty; an unauthenticated request is a
// recoverable condition, not a failure.
func (tc *TokenCache) CurrentToken(ctx context.Context, provider SessionProvider) string {
	tc.mu.RLock()
	token := tc.token
	tc.mu.RUnlock()
	if token != "" {
		return token
	}
	if provider == nil {
		return ""
	}

	session, err := provider(ctx)
	if err != nil || session == nil || session.AccessToken == "" {
		return ""
	}

	tc.mu.Lock()
	tc.token = session.AccessToken
	tc.mu.Unlock()
	return session.AccessToken
}

// Set stores token directly, bypassing the provider.
func (tc *TokenCache) Set(token string) {
	tc.mu.Lock()
	tc.token = token
	tc.mu.Unlock()
}

// Clear empties the cache so the next CurrentToken call re-invokes the
// provider.
func (tc *TokenCache) Clear() {
	tc.mu.Lock()
	tc.token = ""
	tc.mu.Unlock()
}

// Peek returns the cached token without consulting the provider.
func (tc *TokenCache) Peek() string {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.token
}
