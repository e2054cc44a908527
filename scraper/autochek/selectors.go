package autochek

// Selector-candidate chains, tried in order until one matches.
// Centralising them makes updates after a site redesign trivial.
// The leading entries mirror the markup Autochek shipped last time the
// chains were verified; the tail entries are structural fallbacks.

var cardChains = []string{
	`a[href*="/ng/car/"]`,
	`a[href*="/car/"]`,
	`[data-testid*="car"]`,
	`.vehicle-card, .car-card, .listing-card`,
	`.MuiCard-root`,
	`article`,
}

var titleChains = []string{
	`h6.MuiTypography-h6`,
	`h6[class*="MuiTypography"]`,
	`h6`,
	`h5, h4, h3, h2`,
	`[class*="title"]`,
}

var priceChains = []string{
	`p.MuiTypography-body1`,
	`p[class*="MuiTypography"]`,
	`[class*="price"]`,
	`p`,
}

var mileageChains = []string{
	`span.MuiChip-label`,
	`span[class*="MuiChip"]`,
	`[class*="mileage"]`,
}

var locationChains = []string{
	`span.MuiTypography-caption`,
	`span[class*="caption"]`,
	`[class*="location"]`,
}

// Search-form controls, per criteria field.
var (
	formMakeChain   = []string{`select[name="make"]`, `#make`, `.make-select`}
	formModelChain  = []string{`select[name="model"]`, `#model`, `.model-select`}
	formYearChain   = []string{`select[name="year"]`, `#year`, `.year-select`}
	formSubmitChain = []string{`button[type="submit"]`, `.search-btn`, `#search`}
)
