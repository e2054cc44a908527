package autochek

import (
	"context"
	"fmt"
	"time"

	"autochek-scraper/config"
	"autochek-scraper/models"
	"autochek-scraper/utils"
)

// Scraper runs the full extraction pipeline for one criteria set.
type Scraper struct {
	cfg      config.Config
	fallback *Fallback

	// pipeline is the browser path. Kept as a field so the recovery
	// behaviour of Search can be exercised without a browser.
	pipeline func(ctx context.Context, criteria models.SearchCriteria) ([]models.VehicleListing, error)
}

func New(cfg config.Config) *Scraper {
	s := &Scraper{cfg: cfg, fallback: NewFallback(cfg)}
	s.pipeline = s.browserPipeline
	return s
}

// Search is total: it always returns a result set, even an empty one.
// The browser pipeline handles its own partial failures; only a failure
// of the whole chain crosses this boundary, and it lands in the static
// fallback instead of the caller. This is the single recovery point of
// the pipeline; nothing below it converts errors into fallbacks.
func (s *Scraper) Search(ctx context.Context, criteria models.SearchCriteria) []models.VehicleListing {
	utils.Info("Searching for %s %s %d", criteria.Make, criteria.Model, criteria.Year)

	listings, err := s.pipeline(ctx, criteria)
	if err != nil {
		utils.Warn("Browser pipeline failed: %v, switching to fallback fetch", err)
		return s.fallback.Fetch(ctx, criteria)
	}
	return listings
}

func (s *Scraper) browserPipeline(ctx context.Context, criteria models.SearchCriteria) ([]models.VehicleListing, error) {
	session, err := NewSession(ctx, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("open browser session: %w", err)
	}
	defer session.Close()

	selector := NewStrategySelector(session, s.cfg)
	access, err := selector.Select(criteria)
	if err != nil {
		return nil, err
	}
	utils.Success("Listings surfaced via %s strategy at %s", access.Strategy, access.URL)

	parser := NewParser(s.cfg)
	fetcher := &browserFetcher{
		session:    session,
		extractor:  NewExtractor(session, parser),
		navTimeout: s.cfg.NavTimeout,
	}
	traverser := NewTraverser(fetcher, utils.NewRateLimiter(s.cfg.RateLimit), s.cfg.MaxPages)

	return traverser.Traverse(ctx, access.URL), nil
}

// browserFetcher adapts the session + extractor pair to the PageFetcher
// contract the traverser paginates over.
type browserFetcher struct {
	session    *Session
	extractor  *Extractor
	navTimeout time.Duration
}

func (b *browserFetcher) FetchPage(_ context.Context, pageURL string) (models.PageResult, error) {
	if err := b.session.Navigate(pageURL, b.navTimeout); err != nil {
		return nil, err
	}
	if err := b.session.WaitStable(); err != nil {
		return nil, err
	}
	return b.extractor.ExtractPage(pageURL)
}
