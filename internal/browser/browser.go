package browser

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/jrosariodev/dealscout/internal/ratelimit"
)

// Santo Domingo. Every context reports the same location so the fingerprint
// stays consistent with the locale and proxy exit.
const (
	geoLatitude  = 18.4861
	geoLongitude = -69.9312
)

// ProxySettings carries authenticated proxy credentials for both the browser
// process and each context it spawns.
type ProxySettings struct {
	Host     string
	Port     string
	Username string
	Password string
}

func (p *ProxySettings) server() string {
	return fmt.Sprintf("http://%s:%s", p.Host, p.Port)
}

type Options struct {
	Headless           bool
	NavigationTimeout  time.Duration
	MinRequestInterval time.Duration
	MaxRetries         int
	BackoffUnit        time.Duration
	ViewportWidth      int
	ViewportHeight     int
	Locale             string
	TimezoneID         string
	UserAgents         []string
	UseStealth         bool
	Proxy              *ProxySettings
}

func DefaultOptions() *Options {
	return &Options{
		Headless:           false, // headless Chromium trips challenge heuristics
		NavigationTimeout:  60 * time.Second,
		MinRequestInterval: 2 * time.Second,
		MaxRetries:         3,
		BackoffUnit:        2 * time.Second,
		ViewportWidth:      1920,
		ViewportHeight:     1080,
		Locale:             "en-US",
		TimezoneID:         "America/New_York",
		UserAgents:         defaultUserAgents,
		UseStealth:         true,
	}
}

// Manager owns the single shared browser process and hands out isolated,
// fingerprint-randomized contexts for individual fetch attempts.
type Manager struct {
	opts     *Options
	logger   *slog.Logger
	limiter  ratelimit.RateLimiter
	behavior *BehaviorSimulator
	handler  *ChallengeHandler

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewManager(opts *Options) *Manager {
	if opts == nil {
		opts = DefaultOptions()
	}
	if len(opts.UserAgents) == 0 {
		opts.UserAgents = defaultUserAgents
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 3
	}
	if opts.BackoffUnit <= 0 {
		opts.BackoffUnit = 2 * time.Second
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 60 * time.Second
	}

	logger := slog.Default().With("component", "browser")
	return &Manager{
		opts:     opts,
		logger:   logger,
		limiter:  ratelimit.NewIntervalLimiter(opts.MinRequestInterval),
		behavior: NewBehaviorSimulator(opts.ViewportWidth, opts.ViewportHeight),
		handler:  NewChallengeHandler(),
	}
}

// ensureStarted lazily launches the browser process. Safe to call repeatedly;
// only the first call does work. A failed launch unwinds the driver before
// returning.
func (m *Manager) ensureStarted() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return &InitializationError{Err: err}
	}

	args := append([]string(nil), launchArgs...)
	if m.opts.Proxy != nil {
		args = append(args, fmt.Sprintf("--proxy-server=http://%s:%s@%s:%s",
			m.opts.Proxy.Username, m.opts.Proxy.Password, m.opts.Proxy.Host, m.opts.Proxy.Port))
		m.logger.Info("using proxy", "host", m.opts.Proxy.Host, "port", m.opts.Proxy.Port)
	} else {
		m.logger.Warn("no proxy configured, running direct")
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.opts.Headless),
		Args:     args,
	})
	if err != nil {
		if stopErr := pw.Stop(); stopErr != nil {
			m.logger.Error("failed to stop playwright after launch failure", "error", stopErr)
		}
		return &InitializationError{Err: err}
	}

	m.pw = pw
	m.browser = b
	m.logger.Info("browser started", "headless", m.opts.Headless)
	return nil
}

// Close tears the browser process down. Idempotent and safe on a
// never-started manager; teardown errors are logged, never returned.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			m.logger.Error("failed to close browser", "error", err)
		}
		m.browser = nil
	}

	if m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			m.logger.Error("failed to stop playwright", "error", err)
		}
		m.pw = nil
	}
}

// newContext builds an isolated, fingerprint-randomized context for one fetch
// attempt. No two contexts share cookies or storage.
func (m *Manager) newContext() (playwright.BrowserContext, error) {
	m.mu.Lock()
	b := m.browser
	m.mu.Unlock()
	if b == nil {
		return nil, &InitializationError{Err: fmt.Errorf("browser not started")}
	}

	ctxOpts := playwright.BrowserNewContextOptions{
		UserAgent:         playwright.String(m.randomUserAgent()),
		Viewport:          &playwright.Size{Width: m.opts.ViewportWidth, Height: m.opts.ViewportHeight},
		IgnoreHttpsErrors: playwright.Bool(true),
		JavaScriptEnabled: playwright.Bool(true),
		Locale:            playwright.String(m.opts.Locale),
		TimezoneId:        playwright.String(m.opts.TimezoneID),
		Geolocation:       &playwright.Geolocation{Latitude: geoLatitude, Longitude: geoLongitude},
		Permissions:       []string{"geolocation"},
		ColorScheme:       playwright.ColorSchemeLight,
		ReducedMotion:     playwright.ReducedMotionNoPreference,
		ForcedColors:      playwright.ForcedColorsNone,
		AcceptDownloads:   playwright.Bool(true),
	}

	if m.opts.Proxy != nil {
		ctxOpts.Proxy = &playwright.Proxy{
			Server:   m.opts.Proxy.server(),
			Username: playwright.String(m.opts.Proxy.Username),
			Password: playwright.String(m.opts.Proxy.Password),
		}
	}

	bctx, err := b.NewContext(ctxOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	if err := bctx.AddInitScript(playwright.Script{Content: playwright.String(stealthInitScript)}); err != nil {
		m.closeContext(bctx)
		return nil, fmt.Errorf("failed to add stealth script: %w", err)
	}

	return bctx, nil
}

// closeContext releases an attempt's context. Failures here are non-fatal.
func (m *Manager) closeContext(bctx playwright.BrowserContext) {
	if bctx == nil {
		return
	}
	if err := bctx.Close(); err != nil {
		m.logger.Error("failed to close context", "error", err)
	}
}

func (m *Manager) randomUserAgent() string {
	return m.opts.UserAgents[rand.Intn(len(m.opts.UserAgents))]
}
