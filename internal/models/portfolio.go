package models

import (
	"time"

	apperrors "portfolio-tracker/internal/errors"
)

// Portfolio is a named collection of holdings with its own lists, budgets
// and settings.
type Portfolio struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Type      PortfolioType `json:"type"`
	ParentID  string        `json:"parentId,omitempty"`
	Holdings  []*Holding    `json:"holdings"`
	Trades    []Trade       `json:"trades"`
	Settings  Settings      `json:"settings"`
	Lists     Lists         `json:"lists"`
	Budgets   Budgets       `json:"budgets"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Settings holds per-portfolio preferences.
type Settings struct {
	Currency                string   `json:"currency"`
	LockTotal               bool     `json:"lockTotal"`
	LockedTotal             *float64 `json:"lockedTotal,omitempty"`
	EnableLivePricing       bool     `json:"enableLivePricing"`
	LivePriceUpdateInterval int      `json:"livePriceUpdateInterval"` // minutes
	TargetPortfolioValue    *float64 `json:"targetPortfolioValue,omitempty"`
}

// Lists holds the ordered classification names of a portfolio.
type Lists struct {
	Sections      []string          `json:"sections"`
	Themes        []string          `json:"themes"`
	Accounts      []string          `json:"accounts"`
	ThemeSections map[string]string `json:"themeSections"`
}

// Budgets holds the three independent limit maps.
type Budgets struct {
	Sections map[string]BudgetLimit `json:"sections"`
	Accounts map[string]BudgetLimit `json:"accounts"`
	Themes   map[string]BudgetLimit `json:"themes"`
}

// BudgetLimit is an optional limit. Themes use PercentOfSection, sections
// and accounts use Percent of the portfolio.
type BudgetLimit struct {
	Percent          *float64 `json:"percent,omitempty"`
	Amount           *float64 `json:"amount,omitempty"`
	PercentOfSection *float64 `json:"percentOfSection,omitempty"`
}

// IsEmpty reports whether no field of the limit is set.
func (b BudgetLimit) IsEmpty() bool {
	return b.Percent == nil && b.Amount == nil && b.PercentOfSection == nil
}

// Clone returns a deep copy of b.
func (b BudgetLimit) Clone() BudgetLimit {
	return BudgetLimit{
		Percent:          cloneFloat(b.Percent),
		Amount:           cloneFloat(b.Amount),
		PercentOfSection: cloneFloat(b.PercentOfSection),
	}
}

// Equal reports whether both limits hold the same values.
func (b BudgetLimit) Equal(o BudgetLimit) bool {
	return floatPtrEqual(b.Percent, o.Percent) &&
		floatPtrEqual(b.Amount, o.Amount) &&
		floatPtrEqual(b.PercentOfSection, o.PercentOfSection)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Map returns the budget map for a domain.
func (b Budgets) Map(domain BudgetDomain) map[string]BudgetLimit {
	switch domain {
	case BudgetSections:
		return b.Sections
	case BudgetAccounts:
		return b.Accounts
	case BudgetThemes:
		return b.Themes
	default:
		return nil
	}
}

// WithMap returns a copy of b with the domain map replaced.
func (b Budgets) WithMap(domain BudgetDomain, m map[string]BudgetLimit) Budgets {
	switch domain {
	case BudgetSections:
		b.Sections = m
	case BudgetAccounts:
		b.Accounts = m
	case BudgetThemes:
		b.Themes = m
	}
	return b
}

// Clone returns a deep copy of b.
func (b Budgets) Clone() Budgets {
	return Budgets{
		Sections: CloneBudgetMap(b.Sections),
		Accounts: CloneBudgetMap(b.Accounts),
		Themes:   CloneBudgetMap(b.Themes),
	}
}

// CloneBudgetMap returns a deep copy of m, never nil.
func CloneBudgetMap(m map[string]BudgetLimit) map[string]BudgetLimit {
	out := make(map[string]BudgetLimit, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

// List returns the ordered names for kind.
func (l Lists) List(kind ListKind) []string {
	switch kind {
	case ListSections:
		return l.Sections
	case ListThemes:
		return l.Themes
	case ListAccounts:
		return l.Accounts
	default:
		return nil
	}
}

// WithList returns a copy of l with the list for kind replaced.
func (l Lists) WithList(kind ListKind, values []string) Lists {
	switch kind {
	case ListSections:
		l.Sections = values
	case ListThemes:
		l.Themes = values
	case ListAccounts:
		l.Accounts = values
	}
	return l
}

// Clone returns a deep copy of l.
func (l Lists) Clone() Lists {
	out := Lists{
		Sections:      append([]string(nil), l.Sections...),
		Themes:        append([]string(nil), l.Themes...),
		Accounts:      append([]string(nil), l.Accounts...),
		ThemeSections: make(map[string]string, len(l.ThemeSections)),
	}
	for k, v := range l.ThemeSections {
		out.ThemeSections[k] = v
	}
	return out
}

// EnsureCashLast returns sections with exactly one Cash entry, placed last.
func EnsureCashLast(sections []string) []string {
	out := make([]string, 0, len(sections)+1)
	for _, s := range sections {
		if s != CashSection {
			out = append(out, s)
		}
	}
	return append(out, CashSection)
}

// Clone returns a deep copy of p.
func (p *Portfolio) Clone() *Portfolio {
	if p == nil {
		return nil
	}
	c := *p
	c.Holdings = make([]*Holding, len(p.Holdings))
	for i, h := range p.Holdings {
		c.Holdings[i] = h.Clone()
	}
	c.Trades = append([]Trade(nil), p.Trades...)
	c.Settings.LockedTotal = cloneFloat(p.Settings.LockedTotal)
	c.Settings.TargetPortfolioValue = cloneFloat(p.Settings.TargetPortfolioValue)
	c.Lists = p.Lists.Clone()
	c.Budgets = p.Budgets.Clone()
	return &c
}

// ShallowCopy copies the portfolio header and the holdings slice so a
// single holding can be replaced without touching the original.
func (p *Portfolio) ShallowCopy() *Portfolio {
	c := *p
	c.Holdings = append([]*Holding(nil), p.Holdings...)
	return &c
}

// HoldingIndex returns the index of the holding with id, or -1.
func (p *Portfolio) HoldingIndex(id string) int {
	for i, h := range p.Holdings {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// FindHolding returns the holding with id, or nil.
func (p *Portfolio) FindHolding(id string) *Holding {
	if i := p.HoldingIndex(id); i >= 0 {
		return p.Holdings[i]
	}
	return nil
}

// LookupHolding returns the holding with id or ErrHoldingNotFound.
func (p *Portfolio) LookupHolding(id string) (*Holding, error) {
	h := p.FindHolding(id)
	if h == nil {
		return nil, apperrors.Wrapf(apperrors.ErrHoldingNotFound, "id %q", id)
	}
	return h, nil
}

// UsesLivePrices reports whether live quotes override manual prices.
func (p *Portfolio) UsesLivePrices() bool {
	return p.Settings.EnableLivePricing
}

// IncludedTotal sums the current value of every included holding.
func (p *Portfolio) IncludedTotal() float64 {
	useLive := p.UsesLivePrices()
	var total float64
	for _, h := range p.Holdings {
		if h.Include {
			total += h.CurrentValue(useLive)
		}
	}
	return total
}
