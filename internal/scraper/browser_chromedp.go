package scraper

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/outflo/outreach-service/internal/config"
	"github.com/outflo/outreach-service/internal/outreach"
)

const (
	// sessionCookieName authenticates the browser against the results site.
	sessionCookieName = "li_at"

	// resultsContainerSel is the element that signals the results list has
	// rendered. Search pages build the list client side, so navigation alone
	// is not enough.
	resultsContainerSel = ".search-results-container"
)

// extractCandidatesJS pulls one raw candidate per result card. Validation
// happens on the Go side; here we only read the fixed DOM locations.
const extractCandidatesJS = `
Array.from(document.querySelectorAll('.linked-area')).map((el) => {
	const text = (sel) => {
		const node = el.querySelector(sel);
		return node ? node.textContent.trim() : '';
	};
	const link = el.querySelector('a[href*="linkedin.com/in/"]');
	return {
		fullName: text('span[aria-hidden="true"]'),
		currentRole: text('.entity-result__summary'),
		location: text('.entity-result__secondary-subtitle'),
		profileLink: link ? link.href : '',
	};
})`

// autoScrollJS scrolls to the bottom in fixed steps so lazily rendered result
// cards attach before extraction. Resolves once the viewport reaches the end.
const autoScrollJS = `
new Promise((resolve) => {
	let scrolled = 0;
	const step = %d;
	const timer = setInterval(() => {
		const height = document.body.scrollHeight;
		window.scrollBy(0, step);
		scrolled += step;
		if (scrolled >= height - window.innerHeight) {
			clearInterval(timer);
			resolve(true);
		}
	}, %d);
})`

// Launcher opens authenticated chromedp sessions. It owns a single browser
// allocator shared by all sessions.
type Launcher struct {
	cfg         config.ScraperConfig
	allocator   context.Context
	allocCancel context.CancelFunc
}

// NewLauncher starts a headless Chrome allocator configured for scraping.
func NewLauncher(cfg config.ScraperConfig) (*Launcher, error) {
	if cfg.SessionCookie == "" {
		return nil, fmt.Errorf("scraper session cookie is required")
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &Launcher{
		cfg:         cfg,
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// Close shuts down the browser allocator.
func (l *Launcher) Close() {
	l.allocCancel()
}

// NewSession opens a browser tab with the session cookie, user agent and
// viewport applied.
func (l *Launcher) NewSession(ctx context.Context) (Session, error) {
	tabCtx, tabCancel := chromedp.NewContext(l.allocator)

	setup := []chromedp.Action{
		chromedp.ActionFunc(func(ctx context.Context) error {
			if err := network.Enable().Do(ctx); err != nil {
				return fmt.Errorf("enable network domain: %w", err)
			}
			err := network.SetCookie(sessionCookieName, l.cfg.SessionCookie).
				WithDomain(l.cfg.CookieDomain).
				WithPath("/").
				WithHTTPOnly(true).
				WithSecure(true).
				Do(ctx)
			if err != nil {
				return fmt.Errorf("set session cookie: %w", err)
			}
			return nil
		}),
		emulation.SetUserAgentOverride(l.cfg.UserAgent),
		emulation.SetDeviceMetricsOverride(
			int64(l.cfg.ViewportWidth), int64(l.cfg.ViewportHeight), 1, false),
	}

	setupCtx, cancel := context.WithTimeout(tabCtx, l.cfg.NavTimeout())
	defer cancel()
	if err := chromedp.Run(setupCtx, setup...); err != nil {
		tabCancel()
		return nil, fmt.Errorf("browser session setup: %w", err)
	}

	select {
	case <-ctx.Done():
		tabCancel()
		return nil, ctx.Err()
	default:
	}

	return &chromeSession{cfg: l.cfg, tab: tabCtx, cancel: tabCancel}, nil
}

type chromeSession struct {
	cfg    config.ScraperConfig
	tab    context.Context
	cancel context.CancelFunc
}

// LoadResults navigates to one results page, waits for the container, scrolls
// the full page and extracts raw candidates.
func (s *chromeSession) LoadResults(ctx context.Context, pageURL string) ([]outreach.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	navCtx, cancel := context.WithTimeout(s.tab, s.cfg.NavTimeout())
	defer cancel()
	if err := chromedp.Run(navCtx, chromedp.Navigate(pageURL)); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", pageURL, err)
	}

	waitCtx, cancel := context.WithTimeout(s.tab, s.cfg.ResultsTimeout())
	defer cancel()
	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(resultsContainerSel, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("wait for results container: %w", err)
	}

	scroll := fmt.Sprintf(autoScrollJS, s.cfg.ScrollStepPx, s.cfg.ScrollIntervalMs)
	var candidates []outreach.Candidate
	extractCtx, cancel := context.WithTimeout(s.tab, s.cfg.NavTimeout())
	defer cancel()
	err := chromedp.Run(extractCtx,
		chromedp.Evaluate(scroll, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.Evaluate(extractCandidatesJS, &candidates),
	)
	if err != nil {
		return nil, fmt.Errorf("extract candidates: %w", err)
	}
	return candidates, nil
}

// Close releases the browser tab.
func (s *chromeSession) Close() {
	s.cancel()
}
