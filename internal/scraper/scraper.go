package scraper

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jrosariodev/dealscout/internal/browser"
	"github.com/jrosariodev/dealscout/internal/models"
)

var (
	ErrUnknownSite        = errors.New("unknown site")
	ErrUnsupportedFilters = errors.New("filters not supported by site")
)

// Page is the live page handle a scraper consumes; it releases the handle
// once the content has been read.
type Page interface {
	URL() string
	Content() (string, error)
	Release()
}

// Fetcher loads bot-protected pages. The browser manager is the production
// implementation.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// Scraper is one site integration: it scrapes deals matching the filters and
// advertises which filters it can honor.
type Scraper interface {
	Scrape(ctx context.Context, filters models.Filters) ([]*models.Deal, error)
	SupportedFilters() models.SupportedFilters
}

// Factory builds a site scraper around a fetcher.
type Factory func(f Fetcher) Scraper

var registry = map[string]Factory{}

// Register adds a site to the registry; sites self-register from init so a
// run can be configured by name.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// New looks a site up by its registered name.
func New(name string, f Fetcher) (Scraper, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSite, name)
	}
	return factory(f), nil
}

// Names lists the registered sites in stable order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewManagerFetcher adapts the browser manager to the Fetcher interface.
func NewManagerFetcher(m *browser.Manager) Fetcher {
	return managerFetcher{m: m}
}

type managerFetcher struct {
	m *browser.Manager
}

func (f managerFetcher) Fetch(ctx context.Context, url string) (Page, error) {
	page, err := f.m.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return page, nil
}
