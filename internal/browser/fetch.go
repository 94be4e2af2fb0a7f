package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

const bodyWaitTimeout = 50 * time.Second

// Page is a live page handle returned by Fetch. It stays valid until the
// caller releases it; releasing destroys the attempt's whole context.
type Page struct {
	page      playwright.Page
	context   playwright.BrowserContext
	challenge ChallengeState
	logger    *slog.Logger

	mu       sync.Mutex
	released bool
}

// URL returns the current resolved URL, which may differ from the requested
// one after redirects.
func (p *Page) URL() string {
	return p.page.URL()
}

// Content returns the serialized HTML of the page as it stands.
func (p *Page) Content() (string, error) {
	return p.page.Content()
}

// Challenge reports the terminal challenge state of the attempt that
// produced this page. ChallengeTimeoutFailed content is best-effort.
func (p *Page) Challenge() ChallengeState {
	return p.challenge
}

// Release destroys the page's browsing context. Idempotent; close failures
// are logged only.
func (p *Page) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return
	}
	p.released = true
	if err := p.context.Close(); err != nil {
		p.logger.Error("failed to release page context", "error", err)
	}
}

// Fetch loads the target URL through the full evasion chain: rate gate,
// fresh fingerprinted context, navigation, behavior simulation, and the
// challenge state machine. Failed attempts are retried with linear backoff
// up to MaxRetries; the live page handle is the caller's to release.
func (m *Manager) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	return m.fetchWithRetry(ctx, targetURL, m.fetchOnce)
}

func (m *Manager) fetchWithRetry(ctx context.Context, targetURL string, attemptFn func(context.Context, string) (*Page, error)) (*Page, error) {
	var lastErr error

	for attempt := 1; attempt <= m.opts.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		m.logger.Info("fetching url", "url", targetURL, "attempt", attempt)

		page, err := attemptFn(ctx, targetURL)
		if err == nil {
			return page, nil
		}
		lastErr = err

		var initErr *InitializationError
		if errors.As(err, &initErr) {
			return nil, err
		}

		m.logger.Error("fetch attempt failed",
			"url", targetURL, "attempt", attempt, "max_retries", m.opts.MaxRetries, "error", err)

		if attempt < m.opts.MaxRetries {
			sleepCtx(ctx, time.Duration(attempt)*m.opts.BackoffUnit)
		}
	}

	return nil, lastErr
}

// fetchOnce runs a single attempt. On any failure the attempt's context is
// torn down before the error propagates to the retry loop.
func (m *Manager) fetchOnce(ctx context.Context, targetURL string) (result *Page, err error) {
	if err := m.ensureStarted(); err != nil {
		return nil, err
	}

	bctx, err := m.newContext()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			m.closeContext(bctx)
		}
	}()

	pg, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if m.opts.UseStealth {
		if err := pg.SetExtraHTTPHeaders(stealthHeaders()); err != nil {
			return nil, fmt.Errorf("failed to set stealth headers: %w", err)
		}
	}

	if _, gotoErr := pg.Goto(targetURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(m.opts.NavigationTimeout.Milliseconds())),
	}); gotoErr != nil {
		err = &NavigationError{URL: targetURL, Err: gotoErr}
		return nil, err
	}

	s := pageSurface{page: pg}

	m.behavior.Simulate(ctx, s)

	state := m.handler.Handle(ctx, s)

	if _, found := s.WaitFor("body", bodyWaitTimeout); !found {
		m.logger.Warn("body selector not found, continuing anyway", "url", targetURL)
	}

	m.behavior.Simulate(ctx, s)

	return &Page{
		page:      pg,
		context:   bctx,
		challenge: state,
		logger:    m.logger,
	}, nil
}
