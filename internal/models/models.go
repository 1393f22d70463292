// Package models provides domain models for the portfolio tracker.
package models

// CashSection is the distinguished section that always exists and is
// always the last entry of a portfolio's section list.
const CashSection = "Cash"

// CashAssetType marks holdings that never receive live prices.
const CashAssetType = "Cash"

// PortfolioType represents the lifecycle type of a portfolio.
type PortfolioType string

const (
	PortfolioActual PortfolioType = "actual"
	PortfolioDraft  PortfolioType = "draft"
)

// TradeType represents the side of a trade.
type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

// ListKind names one of the ordered classification lists of a portfolio.
type ListKind string

const (
	ListSections ListKind = "sections"
	ListThemes   ListKind = "themes"
	ListAccounts ListKind = "accounts"
)

// FilterKey returns the filters key that tracks a value of this list.
func (k ListKind) FilterKey() string {
	switch k {
	case ListSections:
		return "section"
	case ListThemes:
		return "theme"
	case ListAccounts:
		return "account"
	default:
		return ""
	}
}

// Valid reports whether k names a known list.
func (k ListKind) Valid() bool {
	return k == ListSections || k == ListThemes || k == ListAccounts
}

// BudgetDomain names one of the three budget maps.
type BudgetDomain string

const (
	BudgetSections BudgetDomain = "sections"
	BudgetAccounts BudgetDomain = "accounts"
	BudgetThemes   BudgetDomain = "themes"
)

// Valid reports whether d names a known budget map.
func (d BudgetDomain) Valid() bool {
	return d == BudgetSections || d == BudgetAccounts || d == BudgetThemes
}

// Float returns a pointer to v. Optional numeric fields are pointers.
func Float(v float64) *float64 {
	return &v
}

// FloatValue dereferences p, treating nil as zero.
func FloatValue(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
