package autochek

import (
	"context"
	"net/url"
	"strconv"

	"autochek-scraper/models"
	"autochek-scraper/utils"
)

// PageFetcher renders one result page and extracts its listings.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (models.PageResult, error)
}

// Traverser walks successive result pages, accumulating listings until
// an empty page, a navigation failure or the page ceiling.
type Traverser struct {
	fetcher  PageFetcher
	limiter  *utils.RateLimiter
	maxPages int
}

func NewTraverser(fetcher PageFetcher, limiter *utils.RateLimiter, maxPages int) *Traverser {
	return &Traverser{fetcher: fetcher, limiter: limiter, maxPages: maxPages}
}

// Traverse returns every listing collected in page order. A failure on
// page N returns the listings of pages 1..N-1 instead of discarding
// them; an empty page is the normal end of results, not an error.
// The limiter is awaited at the top of every iteration; a fresh
// limiter admits the first fetch immediately, so the delay applies
// between page transitions only.
func (t *Traverser) Traverse(ctx context.Context, accessURL string) []models.VehicleListing {
	var all []models.VehicleListing

	for page := 1; ; page++ {
		if t.maxPages > 0 && page > t.maxPages {
			utils.Warn("Reached page ceiling (%d), stopping", t.maxPages)
			break
		}
		if err := t.limiter.Wait(ctx); err != nil {
			utils.Warn("Run cancelled during pagination: %v", err)
			break
		}

		pageURL := pageURLFor(accessURL, page)
		result, err := t.fetcher.FetchPage(ctx, pageURL)
		if err != nil {
			utils.Warn("Page %d failed: %v, keeping %d listings already collected", page, err, len(all))
			break
		}
		if len(result) == 0 {
			utils.Info("No listings on page %d, end of results", page)
			break
		}

		all = append(all, result...)
		utils.Success("Page %d → %d listings (running total: %d)", page, len(result), len(all))
	}
	return all
}

// pageURLFor encodes the page number into the access URL, matching the
// site's page_number query parameter. Page 1 is the access URL itself.
func pageURLFor(accessURL string, page int) string {
	if page <= 1 {
		return accessURL
	}
	u, err := url.Parse(accessURL)
	if err != nil {
		return accessURL
	}
	q := u.Query()
	q.Set("page_number", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
