package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// surface is the slice of the automation engine the challenge handler and
// behavior simulator drive. Narrow on purpose so the timing-sensitive state
// machines can be exercised without a live browser.
type surface interface {
	// WaitFor blocks until the selector is attached or the timeout elapses.
	// A timeout is an absence signal, not an error.
	WaitFor(selector string, timeout time.Duration) (clickTarget, bool)
	// Has reports whether the selector currently matches.
	Has(selector string) bool
	MoveMouse(x, y float64) error
	Evaluate(js string) error
}

type clickTarget interface {
	BoundingBox() (*playwright.Rect, error)
	Click() error
}

type pageSurface struct {
	page playwright.Page
}

func (s pageSurface) WaitFor(selector string, timeout time.Duration) (clickTarget, bool) {
	el, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil || el == nil {
		return nil, false
	}
	return elementTarget{el: el}, true
}

func (s pageSurface) Has(selector string) bool {
	el, err := s.page.QuerySelector(selector)
	return err == nil && el != nil
}

func (s pageSurface) MoveMouse(x, y float64) error {
	return s.page.Mouse().Move(x, y)
}

func (s pageSurface) Evaluate(js string) error {
	_, err := s.page.Evaluate(js)
	return err
}

type elementTarget struct {
	el playwright.ElementHandle
}

func (t elementTarget) BoundingBox() (*playwright.Rect, error) {
	return t.el.BoundingBox()
}

func (t elementTarget) Click() error {
	return t.el.Click()
}
