package autochek

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autochek-scraper/models"
)

func TestSearchFallsBackWhenBrowserPipelineFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fallbackHTML))
	}))
	defer server.Close()

	scr := New(fallbackConfig(server.URL))
	scr.pipeline = func(context.Context, models.SearchCriteria) ([]models.VehicleListing, error) {
		return nil, errors.New("browser could not be started")
	}

	got := scr.Search(context.Background(), models.SearchCriteria{Make: "Toyota"})

	// A dead browser degrades to the static fetch, never an error.
	require.Len(t, got, 2)
	assert.Equal(t, "toyota-corolla-2015-ref-abc123", got[0].ListingID)
	assert.Equal(t, "honda-civic-2018-ref-def456", got[1].ListingID)
}

func TestSearchAlwaysReturnsAList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	scr := New(fallbackConfig(server.URL))
	scr.pipeline = func(context.Context, models.SearchCriteria) ([]models.VehicleListing, error) {
		return nil, errors.New("browser could not be started")
	}

	// Browser and site both down: still a list, still no error.
	got := scr.Search(context.Background(), models.SearchCriteria{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchUsesPipelineResultWhenItSucceeds(t *testing.T) {
	scr := New(fallbackConfig("http://unreachable.invalid"))
	want := []models.VehicleListing{{ListingID: "x", ListingURL: "https://autochek.africa/ng/car/x"}}
	scr.pipeline = func(context.Context, models.SearchCriteria) ([]models.VehicleListing, error) {
		return want, nil
	}

	got := scr.Search(context.Background(), models.SearchCriteria{})
	assert.Equal(t, want, got)
}
