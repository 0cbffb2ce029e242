package akhttp

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestTokenCacheLazyPopulate(t *testing.T) {
	calls := 0
	provider := func(ctx context.Context) (*Session, error) {
		calls++
		return &Session{AccessToken: "tok-1"}, nil
	}

	tc := NewTokenCache()
	if got := tc.CurrentToken(context.Background(), provider); got != "tok-1" {
		t.Fatalf("CurrentToken = %q, want tok-1", got)
	}
	if got := tc.CurrentToken(context.Background(), provider); got != "tok-1" {
		t.Fatalf("CurrentToken second call = %q, want tok-1", got)
	}
	if calls != 1 {
		t.Errorf("provider called %d times, want 1 (cached after first fetch)", calls)
	}
}

func TestTokenCacheProviderFailureIsRecoverable(t *testing.T) {
	provider := func(ctx context.Context) (*Session, error) {
		return nil, errors.New("session store down")
	}

	tc := NewTokenCache()
	if got := tc.CurrentToken(context.Background(), provider); got != "" {
		t.Errorf("CurrentToken after provider failure = %q, want empty", got)
	}
	if tc.Peek() != "" {
		t.Error("cache should stay empty after provider failure")
	}
}

func TestTokenCacheEmptySession(t *testing.T) {
	tc := NewTokenCache()

	got := tc.CurrentToken(context.Background(), func(ctx context.Context) (*Session, error) {
		return nil, nil
	})
	if got != "" {
		t.Errorf("CurrentToken with nil session = %q, want empty", got)
	}

	got = tc.CurrentToken(context.Background(), func(ctx context.Context) (*Session, error) {
		return &Session{}, nil
	})
	if got != "" {
		t.Errorf("CurrentToken with empty access token = %q, want empty", got)
	}
	if tc.Peek() != "" {
		t.Error("empty sessions must not populate the cache")
	}
}

func TestTokenCacheNilProvider(t *testing.T) {
	tc := NewTokenCache()
	if got := tc.CurrentToken(context.Background(), nil); got != "" {
		t.Errorf("CurrentToken with nil provider = %q, want empty", got)
	}
}

func TestTokenCacheSetBypassesProvider(t *testing.T) {
	calls := 0
	provider := func(ctx context.Context) (*Session, error) {
		calls++
		return &Session{AccessToken: "from-provider"}, nil
	}

	tc := NewTokenCache()
	tc.Set("manual")
	if got := tc.CurrentToken(context.Background(), provider); got != "manual" {
		t.Fatalf("CurrentToken = %q, want manual", got)
	}
	if calls != 0 {
		t.Errorf("provider called %d times, want 0", calls)
	}
}

func TestTokenCacheClearForcesRefetch(t *testing.T) {
	calls := 0
	provider := func(ctx context.Context) (*Session, error) {
		calls++
		return &Session{AccessToken: "tok"}, nil
	}

	tc := NewTokenCache()
	tc.CurrentToken(context.Background(), provider)
	tc.Clear()
	tc.CurrentToken(context.Background(), provider)
	if calls != 2 {
		t.Errorf("provider called %d times, want 2 after Clear", calls)
	}
}

// Concurrent population is a benign race: every writer got its token from
// the same provider, so last writer wins and all callers see a valid
// token. This test pins that contract down under the race detector.
func TestTokenCacheConcurrentPopulate(t *testing.T) {
	provider := func(ctx context.Context) (*Session, error) {
		return &Session{AccessToken: "shared"}, nil
	}

	tc := NewTokenCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := tc.CurrentToken(context.Background(), provider); got != "shared" {
				t.Errorf("CurrentToken = %q, want shared", got)
			}
		}()
	}
	wg.Wait()

	if tc.Peek() != "shared" {
		t.Errorf("Peek = %q, want shared", tc.Peek())
	}
}
