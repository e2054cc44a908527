package autochek

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"autochek-scraper/config"
	"autochek-scraper/models"
	"autochek-scraper/utils"
)

// Page is the subset of browser operations the strategy selector needs.
// Session satisfies it; tests substitute a scripted fake.
type Page interface {
	Navigate(url string, timeout time.Duration) error
	WaitStable() error
	QueryFirst(candidates []string) (string, error)
	Click(selector string) error
	SelectOption(selector, value string) error
	Location() (string, error)
}

// Access is the terminal state of a successful strategy search: the URL
// pagination should start from and the strategy that surfaced it.
type Access struct {
	URL      string
	Strategy string
}

// StrategySelector walks the candidate index URLs, trying each access
// strategy in turn until one exposes listing cards.
type StrategySelector struct {
	page Page
	cfg  config.Config
}

func NewStrategySelector(page Page, cfg config.Config) *StrategySelector {
	return &StrategySelector{page: page, cfg: cfg}
}

// Select returns the first Access whose page shows at least one listing
// card, or ErrPipelineExhausted when every candidate and strategy fails.
// Navigation timeouts on an individual candidate are non-fatal and
// advance to the next one.
func (s *StrategySelector) Select(criteria models.SearchCriteria) (Access, error) {
	for _, path := range s.cfg.CandidatePaths {
		candidate := strings.TrimRight(s.cfg.BaseURL, "/") + path

		if err := s.page.Navigate(candidate, s.cfg.NavTimeout); err != nil {
			utils.Warn("Candidate %s unreachable: %v", candidate, err)
			continue
		}
		_ = s.page.WaitStable()

		if s.tryFormSubmit(criteria) && s.hasListings() {
			loc, err := s.page.Location()
			if err != nil || loc == "" {
				loc = candidate
			}
			return Access{URL: loc, Strategy: "form"}, nil
		}

		if target, ok := s.tryQueryParams(candidate, criteria); ok {
			return Access{URL: target, Strategy: "query"}, nil
		}

		// The candidate index itself may already expose listings. The
		// query attempt moved the page, so render it once more.
		if err := s.page.Navigate(candidate, s.cfg.NavTimeout); err == nil {
			_ = s.page.WaitStable()
			if s.hasListings() {
				return Access{URL: candidate, Strategy: "direct"}, nil
			}
		}
	}
	return Access{}, ErrPipelineExhausted
}

func (s *StrategySelector) hasListings() bool {
	_, err := s.page.QueryFirst(cardChains)
	return err == nil
}

// tryFormSubmit locates make/model/year controls via their candidate
// chains, fills whichever exist and submits. It reports whether a
// submission actually happened.
func (s *StrategySelector) tryFormSubmit(criteria models.SearchCriteria) bool {
	filled := false

	if sel, err := s.page.QueryFirst(formMakeChain); err == nil && criteria.Make != "" {
		if s.page.SelectOption(sel, criteria.Make) == nil {
			filled = true
		}
	}
	if sel, err := s.page.QueryFirst(formModelChain); err == nil && criteria.Model != "" {
		if s.page.SelectOption(sel, criteria.Model) == nil {
			filled = true
		}
	}
	if sel, err := s.page.QueryFirst(formYearChain); err == nil && criteria.Year > 0 {
		if s.page.SelectOption(sel, strconv.Itoa(criteria.Year)) == nil {
			filled = true
		}
	}
	if !filled {
		return false
	}

	submit, err := s.page.QueryFirst(formSubmitChain)
	if err != nil {
		return false
	}
	if err := s.page.Click(submit); err != nil {
		return false
	}
	_ = s.page.WaitStable()
	return true
}

// tryQueryParams navigates to the candidate URL with the criteria
// encoded as query parameters and checks for listings.
func (s *StrategySelector) tryQueryParams(candidate string, criteria models.SearchCriteria) (string, bool) {
	target := criteriaQueryURL(candidate, criteria)
	if target == candidate {
		return "", false
	}
	if err := s.page.Navigate(target, s.cfg.NavTimeout); err != nil {
		return "", false
	}
	_ = s.page.WaitStable()
	return target, s.hasListings()
}

// criteriaQueryURL appends the non-empty criteria fields to base as
// query parameters, preserving any existing query.
func criteriaQueryURL(base string, criteria models.SearchCriteria) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	if criteria.Make != "" {
		q.Set("make", criteria.Make)
	}
	if criteria.Model != "" {
		q.Set("model", criteria.Model)
	}
	if criteria.Year > 0 {
		q.Set("year", strconv.Itoa(criteria.Year))
	}
	if len(q) == 0 {
		return base
	}
	u.RawQuery = q.Encode()
	return u.String()
}
