package autochek

import (
	"regexp"
	"strconv"
	"strings"

	"autochek-scraper/config"
)

// Parser turns raw card text into typed listing fields. Every method is
// total: malformed or empty input leaves the field nil.
type Parser struct {
	defaultCurrency string
	knownCities     []string
}

func NewParser(cfg config.Config) *Parser {
	return &Parser{
		defaultCurrency: cfg.DefaultCurrency,
		knownCities:     cfg.KnownCities,
	}
}

// Title holds the fields parsed out of a card's title text.
type Title struct {
	Make    *string
	Model   *string
	Year    *int
	Variant *string
}

// numberRe matches the first run of digits and thousands separators.
var numberRe = regexp.MustCompile(`[0-9][0-9,]*`)

// ParseTitle tokenizes on whitespace. The first 4-digit token in
// 1900 to 2099 is the year; tokens around it fill make, model and variant
// positionally, covering both "YEAR MAKE MODEL [VARIANT]" and
// "MAKE MODEL [VARIANT] [YEAR] [VARIANT]" layouts.
func (p *Parser) ParseTitle(text string) Title {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return Title{}
	}

	yearIdx := -1
	var year int
	for i, tok := range tokens {
		if len(tok) != 4 {
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil || v < 1900 || v > 2099 {
			continue
		}
		yearIdx, year = i, v
		break
	}

	var t Title
	if yearIdx < 0 {
		t.Make = nonEmpty(tokens, 0)
		t.Model = nonEmpty(tokens, 1)
		t.Variant = joined(tokens[min(2, len(tokens)):])
		return t
	}

	t.Year = &year
	before := tokens[:yearIdx]
	after := tokens[yearIdx+1:]

	switch {
	case len(before) == 0:
		t.Make = nonEmpty(after, 0)
		t.Model = nonEmpty(after, 1)
		t.Variant = joined(after[min(2, len(after)):])
	case len(before) == 1:
		t.Make = nonEmpty(before, 0)
		t.Model = nonEmpty(after, 0)
		t.Variant = joined(after[min(1, len(after)):])
	default:
		t.Make = nonEmpty(before, 0)
		t.Model = nonEmpty(before, 1)
		rest := append(append([]string{}, before[2:]...), after...)
		t.Variant = joined(rest)
	}
	return t
}

// ParsePrice extracts the first numeric run as an integer price in the
// smallest currency unit and recognizes the currency by scanning known
// codes and symbols in a fixed priority order. A price with no
// recognizable currency gets the configured market default.
func (p *Parser) ParsePrice(text string) (*int64, *string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	raw := numberRe.FindString(text)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(strings.ReplaceAll(raw, ",", ""), 10, 64)
	if err != nil {
		return nil, nil
	}

	currency := p.currencyFor(text)
	return &value, &currency
}

func (p *Parser) currencyFor(text string) string {
	switch {
	case strings.Contains(text, "NGN"):
		return "NGN"
	case strings.Contains(text, "₦"):
		return p.defaultCurrency
	case strings.Contains(text, "USD"):
		return "USD"
	case strings.Contains(text, "$"):
		return "USD"
	default:
		return p.defaultCurrency
	}
}

// ParseMileage extracts the first numeric run, ignoring unit suffixes
// like "km" and thousands separators.
func (p *Parser) ParseMileage(text string) *int64 {
	raw := numberRe.FindString(text)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(strings.ReplaceAll(raw, ",", ""), 10, 64)
	if err != nil {
		return nil
	}
	return &value
}

// ParseLocation matches text against the known city names for the
// configured market, returning the canonical city on a match and the
// raw trimmed text otherwise.
func (p *Parser) ParseLocation(text string) *string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	for _, city := range p.knownCities {
		if strings.Contains(lower, strings.ToLower(city)) {
			c := city
			return &c
		}
	}
	return &text
}

func nonEmpty(tokens []string, i int) *string {
	if i >= len(tokens) || tokens[i] == "" {
		return nil
	}
	tok := tokens[i]
	return &tok
}

func joined(tokens []string) *string {
	if len(tokens) == 0 {
		return nil
	}
	s := strings.Join(tokens, " ")
	return &s
}
