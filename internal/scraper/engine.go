package scraper

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/outflo/outreach-service/internal/metrics"
	"github.com/outflo/outreach-service/internal/outreach"
)

// Session is one live browser session pointed at the search results site.
type Session interface {
	// LoadResults navigates to pageURL, waits for the results container,
	// scrolls the page to force lazy content, and extracts raw candidates.
	LoadResults(ctx context.Context, pageURL string) ([]outreach.Candidate, error)
	// Close releases the session and its browser process.
	Close()
}

// SessionFactory opens browser sessions. The engine opens one session per
// scrape run and closes it on every exit path.
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}

// Request describes one scrape run.
type Request struct {
	SearchURL   string
	MaxProfiles int
}

// Config tunes the pagination loop.
type Config struct {
	// DefaultMaxProfiles applies when a request does not set MaxProfiles.
	DefaultMaxProfiles int
	// EmptyPageLimit is the number of consecutive pages yielding zero new
	// results after which the run stops.
	EmptyPageLimit int
}

// Engine walks paginated search results, validates candidates and persists
// them with first-write-wins dedup.
type Engine struct {
	cfg      Config
	sessions SessionFactory
	profiles outreach.ProfileStore
	clock    outreach.Clock
	logger   *zap.Logger
}

// NewEngine wires a scrape engine. Zero config fields fall back to sane
// defaults.
func NewEngine(cfg Config, sessions SessionFactory, profiles outreach.ProfileStore, clock outreach.Clock, logger *zap.Logger) *Engine {
	if cfg.DefaultMaxProfiles <= 0 {
		cfg.DefaultMaxProfiles = 20
	}
	if cfg.EmptyPageLimit <= 0 {
		cfg.EmptyPageLimit = 2
	}
	metrics.Init()
	return &Engine{
		cfg:      cfg,
		sessions: sessions,
		profiles: profiles,
		clock:    clock,
		logger:   logger,
	}
}

// Run executes one scrape: it pages through search results starting at page 1
// until maxProfiles records are collected or EmptyPageLimit consecutive pages
// yield nothing new. Every returned profile is persisted; rescraped profiles
// keep their originally stored record.
func (e *Engine) Run(ctx context.Context, req Request) ([]outreach.Profile, error) {
	base, err := url.Parse(req.SearchURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &outreach.ValidationError{Field: "searchUrl", Reason: "must be an absolute URL"}
	}
	maxProfiles := req.MaxProfiles
	if maxProfiles <= 0 {
		maxProfiles = e.cfg.DefaultMaxProfiles
	}

	session, err := e.sessions.NewSession(ctx)
	if err != nil {
		metrics.ObserveScrapeRun("error")
		return nil, &outreach.ScrapeError{Stage: "session", Err: err}
	}
	defer session.Close()

	e.logger.Info("scrape run started",
		zap.String("search_url", base.String()),
		zap.Int("max_profiles", maxProfiles))

	results := make([]outreach.Profile, 0, maxProfiles)
	emptyPages := 0
	for page := 1; len(results) < maxProfiles; page++ {
		candidates, err := session.LoadResults(ctx, pageURL(base, page))
		if err != nil {
			metrics.ObserveScrapeRun("error")
			return nil, &outreach.ScrapeError{Stage: "page", Err: err}
		}
		metrics.ObserveScrapePage()

		added := 0
		for _, candidate := range candidates {
			if len(results) >= maxProfiles {
				break
			}
			profile, ok := ProfileFromCandidate(candidate)
			if !ok {
				e.logger.Debug("discarding candidate",
					zap.Int("page", page),
					zap.String("profile_link", candidate.ProfileLink))
				continue
			}
			profile.ScrapedAt = e.clock.Now()
			stored, created, err := e.profiles.Insert(ctx, profile)
			if err != nil {
				e.logger.Warn("persisting profile failed",
					zap.String("profile_url", profile.ProfileURL),
					zap.Error(err))
				continue
			}
			if created {
				metrics.ObserveScrapedProfile("new")
			} else {
				metrics.ObserveScrapedProfile("existing")
			}
			results = append(results, stored)
			added++
		}

		e.logger.Info("scraped results page",
			zap.Int("page", page),
			zap.Int("candidates", len(candidates)),
			zap.Int("added", added))

		if added == 0 {
			emptyPages++
			if emptyPages >= e.cfg.EmptyPageLimit {
				e.logger.Info("stopping scrape, results exhausted",
					zap.Int("empty_pages", emptyPages))
				break
			}
		} else {
			emptyPages = 0
		}
	}

	metrics.ObserveScrapeRun("success")
	return results, nil
}

// Disabled is a SessionFactory for deployments that have no session cookie
// configured. Every scrape request fails with a clear error while the rest
// of the service keeps working.
type Disabled struct{}

// NewSession always fails.
func (Disabled) NewSession(context.Context) (Session, error) {
	return nil, errors.New("scraper is not configured: session cookie missing")
}

// pageURL sets the page query parameter on a copy of the base search URL.
func pageURL(base *url.URL, page int) string {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
