package autochek

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"autochek-scraper/config"
	"autochek-scraper/utils"
)

const (
	queryTimeout  = 5 * time.Second
	actionTimeout = 10 * time.Second
	settleDelay   = 2 * time.Second
)

// Session owns one Chrome process and one tab for the duration of a run.
// It is not safe for concurrent use; a run drives it sequentially and
// must call Close on every exit path.
type Session struct {
	cfg         config.Config
	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
}

// NewSession launches the browser. The parent ctx propagates caller
// cancellation into every browser operation.
func NewSession(ctx context.Context, cfg config.Config) (*Session, error) {
	utils.Info("Launching Chrome browser...")
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, utils.StealthOpts(cfg.Headless)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Run a no-op so a missing Chrome binary fails here, not mid-run.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	utils.Success("Browser ready")
	return &Session{
		cfg:         cfg,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}, nil
}

// Close releases the tab and the browser process unconditionally.
func (s *Session) Close() {
	utils.Info("Closing browser...")
	s.tabCancel()
	s.allocCancel()
}

// Navigate loads url, failing with a NavigationError when the page does
// not load within timeout.
func (s *Session) Navigate(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.tabCtx, timeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		utils.HideWebDriver(),
	)
	if err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	return nil
}

// WaitStable blocks until the page settles, bounded by the configured
// stability timeout. A page that keeps polling in the background is not
// an error; the timeout just caps how long we wait for it.
func (s *Session) WaitStable() error {
	ctx, cancel := context.WithTimeout(s.tabCtx, s.cfg.StableTimeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Poll(`document.readyState === 'complete'`, nil),
		chromedp.Sleep(settleDelay),
	)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// QueryFirst returns the first selector in candidates that matches an
// element on the page, or ErrNoSelectorMatch when none do.
func (s *Session) QueryFirst(candidates []string) (string, error) {
	ctx, cancel := context.WithTimeout(s.tabCtx, queryTimeout)
	defer cancel()

	encoded, err := json.Marshal(candidates)
	if err != nil {
		return "", err
	}

	js := fmt.Sprintf(`(() => {
		for (const sel of %s) {
			try { if (document.querySelector(sel)) return sel; } catch (e) {}
		}
		return '';
	})()`, encoded)

	var matched string
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &matched)); err != nil {
		return "", err
	}
	if matched == "" {
		return "", ErrNoSelectorMatch
	}
	return matched, nil
}

// Click clicks the first element matching selector.
func (s *Session) Click(selector string) error {
	ctx, cancel := context.WithTimeout(s.tabCtx, actionTimeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Click(selector, chromedp.ByQuery))
}

// SelectOption sets the value of a form control and fires its change
// event so framework-bound listeners see the update.
func (s *Session) SelectOption(selector, value string) error {
	ctx, cancel := context.WithTimeout(s.tabCtx, actionTimeout)
	defer cancel()
	return chromedp.Run(ctx,
		chromedp.SetValue(selector, value, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(`(() => {
			const el = document.querySelector(%q);
			if (el) el.dispatchEvent(new Event('change', { bubbles: true }));
		})()`, selector), nil),
	)
}

// Evaluate runs js in the page and unmarshals its result into out.
func (s *Session) Evaluate(js string, out interface{}) error {
	ctx, cancel := context.WithTimeout(s.tabCtx, actionTimeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Evaluate(js, out))
}

// Location returns the tab's current URL.
func (s *Session) Location() (string, error) {
	ctx, cancel := context.WithTimeout(s.tabCtx, queryTimeout)
	defer cancel()
	var loc string
	if err := chromedp.Run(ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}
