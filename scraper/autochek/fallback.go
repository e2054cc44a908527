package autochek

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"autochek-scraper/config"
	"autochek-scraper/models"
	"autochek-scraper/utils"
)

// Fallback is the browser-free degraded path: a plain HTTP GET through
// the retry policy and a static parse of whatever markup comes back.
type Fallback struct {
	cfg    config.Config
	client *resty.Client
	parser *Parser
}

func NewFallback(cfg config.Config) *Fallback {
	client := resty.New().
		SetTimeout(cfg.NavTimeout).
		SetHeader("User-Agent", utils.RandomUserAgent())
	return &Fallback{cfg: cfg, client: client, parser: NewParser(cfg)}
}

// Fetch extracts whatever listing data is statically available. It
// never fails outward: every error degrades to an empty result list so
// the top-level operation stays total.
func (f *Fallback) Fetch(ctx context.Context, criteria models.SearchCriteria) []models.VehicleListing {
	utils.Info("Fallback fetch: static HTML extraction without a browser")

	for _, path := range f.cfg.CandidatePaths {
		target := criteriaQueryURL(strings.TrimRight(f.cfg.BaseURL, "/")+path, criteria)

		body, err := f.get(ctx, target)
		if err != nil {
			utils.Warn("Fallback fetch of %s failed: %v", target, err)
			continue
		}

		if listings := f.parseStatic(target, body); len(listings) > 0 {
			utils.Success("Fallback extracted %d listings from %s", len(listings), target)
			return listings
		}
	}

	utils.Warn("Fallback found no extractable listings")
	return []models.VehicleListing{}
}

func (f *Fallback) get(ctx context.Context, target string) ([]byte, error) {
	var body []byte
	err := utils.Retry(ctx, f.cfg.MaxRetries, f.cfg.RetryBaseDelay, func() error {
		resp, err := f.client.R().SetContext(ctx).Get(target)
		if err != nil {
			return err
		}
		if resp.StatusCode() >= 400 {
			return &utils.NetworkError{Status: resp.StatusCode(), URL: target}
		}
		body = resp.Body()
		return nil
	})
	return body, err
}

// parseStatic applies the same selector-candidate chains as the browser
// extractor, degraded to static markup.
func (f *Fallback) parseStatic(pageURL string, body []byte) []models.VehicleListing {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var cards *goquery.Selection
	for _, chain := range cardChains {
		if s := doc.Find(chain); s.Length() > 0 {
			cards = s
			break
		}
	}
	if cards == nil {
		return nil
	}

	var out []models.VehicleListing
	cards.Each(func(_ int, card *goquery.Selection) {
		href, ok := card.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			href, _ = card.Find("a[href]").Attr("href")
		}

		raw := rawCard{
			Href:     href,
			Title:    textFromChains(card, titleChains),
			Price:    textFromChains(card, priceChains),
			Mileage:  textFromChains(card, mileageChains),
			Location: textFromChains(card, locationChains),
		}
		if src, ok := card.Find("img").Attr("src"); ok {
			raw.Image = src
		}
		if dt, ok := card.Find("time, [datetime]").Attr("datetime"); ok {
			raw.Posted = dt
		}

		listing, ok := buildListing(f.parser, base, raw)
		if !ok {
			utils.Debug("Fallback dropped card with no usable listing url")
			return
		}
		out = append(out, listing)
	})
	return out
}

func textFromChains(sel *goquery.Selection, chains []string) string {
	for _, chain := range chains {
		if text := strings.TrimSpace(sel.Find(chain).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
