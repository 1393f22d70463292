package selectors

import (
	"strings"

	"portfolio-tracker/internal/models"
)

// Filter keys understood by FilteredHoldings.
const (
	FilterSection   = "section"
	FilterTheme     = "theme"
	FilterAccount   = "account"
	FilterAssetType = "assetType"
	FilterExchange  = "exchange"
	FilterSearch    = "search"
)

// FilteredHoldings returns the holdings of p matching every filter. Empty
// filter values match everything; unknown keys are ignored.
func FilteredHoldings(filters map[string]string, p *models.Portfolio) []*models.Holding {
	if len(filters) == 0 {
		return p.Holdings
	}

	out := make([]*models.Holding, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		if matchesFilters(filters, h) {
			out = append(out, h)
		}
	}
	return out
}

func matchesFilters(filters map[string]string, h *models.Holding) bool {
	for key, want := range filters {
		if want == "" {
			continue
		}
		switch key {
		case FilterSection:
			if h.Section != want {
				return false
			}
		case FilterTheme:
			if h.Theme != want {
				return false
			}
		case FilterAccount:
			if h.Account != want {
				return false
			}
		case FilterAssetType:
			if h.AssetType != want {
				return false
			}
		case FilterExchange:
			if !strings.EqualFold(h.Exchange, want) {
				return false
			}
		case FilterSearch:
			q := strings.ToLower(want)
			if !strings.Contains(strings.ToLower(h.Name), q) && !strings.Contains(strings.ToLower(h.Ticker), q) {
				return false
			}
		}
	}
	return true
}
