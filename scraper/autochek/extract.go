package autochek

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"autochek-scraper/models"
	"autochek-scraper/utils"
)

// rawCard is the untyped field bundle one listing card yields in the
// page before parsing.
type rawCard struct {
	Href     string `json:"href"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Mileage  string `json:"mileage"`
	Location string `json:"location"`
	Image    string `json:"image"`
	Posted   string `json:"posted"`
}

type pageExtract struct {
	Chain int       `json:"chain"`
	Cards []rawCard `json:"cards"`
}

// Extractor locates listing cards on the rendered page and produces
// typed records. The first card chain that matches wins and is reused
// for every later page of the run, keeping extraction consistent.
type Extractor struct {
	session *Session
	parser  *Parser
	chain   int
}

func NewExtractor(session *Session, parser *Parser) *Extractor {
	return &Extractor{session: session, parser: parser, chain: -1}
}

// ExtractPage pulls every card off the current page in one JS round
// trip and builds listings from them. Cards that yield no listing URL
// cannot be identified and are dropped; every other missing field just
// stays null.
func (e *Extractor) ExtractPage(pageURL string) (models.PageResult, error) {
	var res pageExtract
	if err := e.session.Evaluate(extractScript(e.chain), &res); err != nil {
		return nil, fmt.Errorf("extract cards: %w", err)
	}
	if e.chain < 0 && len(res.Cards) > 0 {
		e.chain = res.Chain
		utils.Debug("Card chain %d (%s) matched, reusing for this run", res.Chain, cardChains[res.Chain])
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url %s: %w", pageURL, err)
	}

	out := make(models.PageResult, 0, len(res.Cards))
	for _, card := range res.Cards {
		listing, ok := buildListing(e.parser, base, card)
		if !ok {
			utils.Debug("Dropped card with no usable listing url (title=%q)", card.Title)
			continue
		}
		out = append(out, listing)
	}
	return out, nil
}

// buildListing turns one raw card into an immutable record. It returns
// ok=false only when the card cannot be identified by a URL.
func buildListing(parser *Parser, base *url.URL, card rawCard) (models.VehicleListing, bool) {
	href := strings.TrimSpace(card.Href)
	if href == "" {
		return models.VehicleListing{}, false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return models.VehicleListing{}, false
	}
	abs := base.ResolveReference(ref)
	id := lastPathSegment(abs.Path)
	if id == "" {
		return models.VehicleListing{}, false
	}

	listing := models.VehicleListing{
		ListingID:  id,
		ListingURL: abs.String(),
	}

	title := parser.ParseTitle(card.Title)
	listing.Make = title.Make
	listing.Model = title.Model
	listing.Year = title.Year
	listing.Variant = title.Variant
	listing.Price, listing.Currency = parser.ParsePrice(card.Price)
	listing.Mileage = parser.ParseMileage(card.Mileage)
	listing.Location = parser.ParseLocation(card.Location)

	if thumb := resolveURL(base, card.Image); thumb != "" {
		listing.ThumbnailURL = &thumb
	}
	if posted := strings.TrimSpace(card.Posted); posted != "" {
		listing.CreatedAt = &posted
	}
	return listing, true
}

// lastPathSegment returns the last non-empty segment of a URL path.
func lastPathSegment(path string) string {
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}

// resolveURL makes raw absolute against base, handling scheme-relative
// sources. Unparseable or empty input yields "".
func resolveURL(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// extractScript builds the in-page extraction routine. preferred pins
// the card chain chosen on an earlier page; once pinned it is the only
// chain consulted, so an empty match is the genuine end of results and
// never a reason to fall through to looser chains. -1 probes all
// chains in order and the first one that matches wins.
func extractScript(preferred int) string {
	cards, _ := json.Marshal(cardChains)
	titles, _ := json.Marshal(titleChains)
	prices, _ := json.Marshal(priceChains)
	mileages, _ := json.Marshal(mileageChains)
	locations, _ := json.Marshal(locationChains)

	pick := `let chain = -1, cards = [];
		for (let i = 0; i < chains.length; i++) {
			const found = tryChain(i);
			if (found.length) { chain = i; cards = found; break; }
		}`
	if preferred >= 0 {
		pick = fmt.Sprintf(`const chain = %d;
		const cards = tryChain(chain);`, preferred)
	}

	return fmt.Sprintf(`(() => {
		const chains = %s;
		const tryChain = (i) => {
			try { return Array.from(document.querySelectorAll(chains[i])); } catch (e) { return []; }
		};
		%s

		const textFrom = (root, sels) => {
			for (const s of sels) {
				try {
					const el = root.querySelector(s);
					if (el && el.textContent && el.textContent.trim()) return el.textContent.trim();
				} catch (e) {}
			}
			return '';
		};

		const titleSels = %s, priceSels = %s, mileageSels = %s, locationSels = %s;

		const result = cards.map(card => {
			const anchor = card.tagName === 'A' ? card : card.querySelector('a[href]');
			const href = anchor ? (anchor.getAttribute('href') || '') : '';

			let image = '';
			const img = card.querySelector('img');
			if (img) image = img.getAttribute('src') || '';
			if (!image) {
				const styled = card.querySelector('[style*="background-image"]');
				if (styled) {
					const m = (styled.getAttribute('style') || '').match(/url\(["']?([^"')]+)["']?\)/);
					if (m) image = m[1];
				}
			}

			let posted = '';
			const months = /ago|posted|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec/;
			for (const el of card.querySelectorAll('time, [datetime], [class*="date"], span[title], div[title]')) {
				const dt = el.getAttribute('datetime');
				if (dt) { posted = dt; break; }
				const title = (el.getAttribute('title') || '').trim();
				if (title && months.test(title)) { posted = title; break; }
				const text = (el.textContent || '').trim();
				if (text && months.test(text)) { posted = text; break; }
			}

			return {
				href: href,
				title: textFrom(card, titleSels),
				price: textFrom(card, priceSels),
				mileage: textFrom(card, mileageSels),
				location: textFrom(card, locationSels),
				image: image,
				posted: posted,
			};
		});
		return { chain: chain, cards: result };
	})()`, cards, pick, titles, prices, mileages, locations)
}
