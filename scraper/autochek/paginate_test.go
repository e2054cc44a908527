package autochek

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autochek-scraper/models"
	"autochek-scraper/utils"
)

// fakeFetcher serves scripted pages keyed on the page_number parameter.
type fakeFetcher struct {
	pages   map[int]models.PageResult
	failOn  int
	fetched []int
}

func (f *fakeFetcher) FetchPage(_ context.Context, pageURL string) (models.PageResult, error) {
	page := 1
	if u, err := url.Parse(pageURL); err == nil {
		if n, err := strconv.Atoi(u.Query().Get("page_number")); err == nil {
			page = n
		}
	}
	f.fetched = append(f.fetched, page)
	if f.failOn > 0 && page == f.failOn {
		return nil, &NavigationError{URL: pageURL, Err: context.DeadlineExceeded}
	}
	return f.pages[page], nil
}

func listingStub(id string) models.VehicleListing {
	return models.VehicleListing{
		ListingID:  id,
		ListingURL: "https://autochek.africa/ng/car/" + id,
	}
}

func TestTraverseStopsOnEmptyPage(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]models.PageResult{
		1: {listingStub("a"), listingStub("b")},
		2: {listingStub("c")},
		3: {},
	}}
	traverser := NewTraverser(fetcher, utils.NewRateLimiter(0), 10)

	got := traverser.Traverse(context.Background(), "https://autochek.africa/ng/cars-for-sale")

	require.Len(t, got, 3)
	// Page order, then intra-page order.
	assert.Equal(t, "a", got[0].ListingID)
	assert.Equal(t, "b", got[1].ListingID)
	assert.Equal(t, "c", got[2].ListingID)
	assert.Equal(t, []int{1, 2, 3}, fetcher.fetched)
}

func TestTraverseHonorsPageCeiling(t *testing.T) {
	pages := make(map[int]models.PageResult)
	for i := 1; i <= 10; i++ {
		pages[i] = models.PageResult{listingStub(fmt.Sprintf("p%d", i))}
	}
	fetcher := &fakeFetcher{pages: pages}
	traverser := NewTraverser(fetcher, utils.NewRateLimiter(0), 2)

	got := traverser.Traverse(context.Background(), "https://autochek.africa/ng/cars-for-sale")

	assert.Len(t, got, 2)
	assert.Equal(t, []int{1, 2}, fetcher.fetched)
}

func TestTraverseKeepsPartialResultsOnFailure(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[int]models.PageResult{
			1: {listingStub("a"), listingStub("b")},
		},
		failOn: 2,
	}
	traverser := NewTraverser(fetcher, utils.NewRateLimiter(0), 10)

	got := traverser.Traverse(context.Background(), "https://autochek.africa/ng/cars-for-sale")

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ListingID)
	assert.Equal(t, "b", got[1].ListingID)
}

func TestTraverseRateLimitsPageFetches(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]models.PageResult{
		1: {listingStub("a")},
		2: {listingStub("b")},
		3: {},
	}}
	const interval = 40 * time.Millisecond
	traverser := NewTraverser(fetcher, utils.NewRateLimiter(interval), 10)

	start := time.Now()
	traverser.Traverse(context.Background(), "https://autochek.africa/ng/cars-for-sale")
	elapsed := time.Since(start)

	// Three fetches, two enforced gaps.
	assert.GreaterOrEqual(t, elapsed, 2*interval)
}

func TestTraverseStopsWhenCancelled(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]models.PageResult{
		1: {listingStub("a")},
		2: {listingStub("b")},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	traverser := NewTraverser(fetcher, utils.NewRateLimiter(time.Hour), 10)
	got := traverser.Traverse(ctx, "https://autochek.africa/ng/cars-for-sale")

	assert.Empty(t, got)
	assert.Empty(t, fetcher.fetched)
}

func TestPageURLFor(t *testing.T) {
	base := "https://autochek.africa/ng/cars-for-sale"

	assert.Equal(t, base, pageURLFor(base, 1))
	assert.Equal(t, base+"?page_number=2", pageURLFor(base, 2))

	// Existing query parameters survive.
	withQuery := pageURLFor(base+"?make=Toyota", 3)
	u, err := url.Parse(withQuery)
	require.NoError(t, err)
	assert.Equal(t, "Toyota", u.Query().Get("make"))
	assert.Equal(t, "3", u.Query().Get("page_number"))
}

func TestNavigationErrorUnwraps(t *testing.T) {
	err := &NavigationError{URL: "https://x", Err: context.DeadlineExceeded}
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
