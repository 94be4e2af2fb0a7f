package browser

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestManager() *Manager {
	opts := DefaultOptions()
	opts.MinRequestInterval = 0
	opts.BackoffUnit = time.Millisecond
	return NewManager(opts)
}

func TestFetchRetriesExhaustNavigationFailures(t *testing.T) {
	m := newTestManager()

	attempts := 0
	navErr := &NavigationError{URL: "https://example.test/catalog", Err: errors.New("timeout exceeded")}
	_, err := m.fetchWithRetry(context.Background(), "https://example.test/catalog",
		func(ctx context.Context, url string) (*Page, error) {
			attempts++
			return nil, navErr
		})

	if attempts != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", attempts)
	}
	var got *NavigationError
	if !errors.As(err, &got) {
		t.Fatalf("expected NavigationError after exhausted retries, got %v", err)
	}
}

func TestFetchBackoffGrowsLinearly(t *testing.T) {
	opts := DefaultOptions()
	opts.MinRequestInterval = 0
	opts.BackoffUnit = 30 * time.Millisecond
	m := NewManager(opts)

	var stamps []time.Time
	m.fetchWithRetry(context.Background(), "https://example.test",
		func(ctx context.Context, url string) (*Page, error) {
			stamps = append(stamps, time.Now())
			return nil, &NavigationError{URL: url, Err: errors.New("boom")}
		})

	if len(stamps) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(stamps))
	}
	// Backoff is unit×1 after the first failure, unit×2 after the second.
	first := stamps[1].Sub(stamps[0])
	second := stamps[2].Sub(stamps[1])
	if first < opts.BackoffUnit {
		t.Errorf("first backoff too short: %v", first)
	}
	if second < 2*opts.BackoffUnit {
		t.Errorf("second backoff too short: %v", second)
	}
	if second <= first {
		t.Errorf("backoff did not grow: first=%v second=%v", first, second)
	}
}

func TestFetchSucceedsAfterTransientFailure(t *testing.T) {
	m := newTestManager()

	attempts := 0
	want := &Page{challenge: ChallengePassed}
	page, err := m.fetchWithRetry(context.Background(), "https://example.test",
		func(ctx context.Context, url string) (*Page, error) {
			attempts++
			if attempts < 2 {
				return nil, &NavigationError{URL: url, Err: errors.New("flaky")}
			}
			return want, nil
		})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != want {
		t.Error("expected the successful attempt's page")
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestFetchInitializationErrorIsFatal(t *testing.T) {
	m := newTestManager()

	attempts := 0
	_, err := m.fetchWithRetry(context.Background(), "https://example.test",
		func(ctx context.Context, url string) (*Page, error) {
			attempts++
			return nil, &InitializationError{Err: errors.New("no chromium")}
		})

	if attempts != 1 {
		t.Errorf("initialization failure must not be retried, got %d attempts", attempts)
	}
	var initErr *InitializationError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected InitializationError, got %v", err)
	}
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	m := newTestManager()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.fetchWithRetry(ctx, "https://example.test",
		func(ctx context.Context, url string) (*Page, error) {
			t.Fatal("attempt must not run once the context is cancelled")
			return nil, nil
		})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	m := NewManager(nil)

	// Never started: both calls must be safe no-ops.
	m.Close()
	m.Close()

	if m.browser != nil || m.pw != nil {
		t.Error("expected manager to remain closed")
	}
}

func TestRandomUserAgentFromPool(t *testing.T) {
	m := NewManager(nil)

	pool := make(map[string]bool, len(defaultUserAgents))
	for _, ua := range defaultUserAgents {
		pool[ua] = true
	}

	for i := 0; i < 50; i++ {
		if ua := m.randomUserAgent(); !pool[ua] {
			t.Fatalf("user agent not from configured pool: %q", ua)
		}
	}
}

func TestNavigationErrorUnwrap(t *testing.T) {
	inner := errors.New("net::ERR_TIMED_OUT")
	err := &NavigationError{URL: "https://example.test", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("expected NavigationError to unwrap to its cause")
	}
}
