// Package factory constructs portfolio entities with their default values.
package factory

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-tracker/internal/models"
)

// Defaults used when no configuration overrides them.
const (
	DefaultCurrency         = "GBP"
	DefaultCashBufferName   = "Cash buffer"
	DefaultPortfolioName    = "Main"
	DefaultLiveIntervalMins = 15
)

// Factory creates entities. NewID and Now are injectable so tests can be
// deterministic.
type Factory struct {
	NewID          func() string
	Now            func() time.Time
	Currency       string
	CashBufferName string
}

// New creates a factory backed by random UUIDs and the wall clock.
func New() *Factory {
	return &Factory{
		NewID:          uuid.NewString,
		Now:            time.Now,
		Currency:       DefaultCurrency,
		CashBufferName: DefaultCashBufferName,
	}
}

// DefaultLists returns the lists every new portfolio starts with.
func DefaultLists() models.Lists {
	return models.Lists{
		Sections:      []string{"Core", "Satellite", models.CashSection},
		Themes:        []string{"General"},
		Accounts:      []string{"General"},
		ThemeSections: map[string]string{"General": "Core"},
	}
}

// DefaultBudgets returns empty budget maps.
func DefaultBudgets() models.Budgets {
	return models.Budgets{
		Sections: map[string]models.BudgetLimit{},
		Accounts: map[string]models.BudgetLimit{},
		Themes:   map[string]models.BudgetLimit{},
	}
}

// DefaultSettings returns settings for a new portfolio.
func DefaultSettings(currency string) models.Settings {
	if currency == "" {
		currency = DefaultCurrency
	}
	return models.Settings{
		Currency:                currency,
		LivePriceUpdateInterval: DefaultLiveIntervalMins,
	}
}

// NewPortfolio creates an empty actual portfolio.
func (f *Factory) NewPortfolio(name string) *models.Portfolio {
	now := f.Now()
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPortfolioName
	}
	return &models.Portfolio{
		ID:        f.NewID(),
		Name:      name,
		Type:      models.PortfolioActual,
		Holdings:  []*models.Holding{},
		Trades:    []models.Trade{},
		Settings:  DefaultSettings(f.Currency),
		Lists:     DefaultLists(),
		Budgets:   DefaultBudgets(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewAppState creates a state holding one active portfolio.
func (f *Factory) NewAppState(name string) *models.AppState {
	p := f.NewPortfolio(name)
	return &models.AppState{
		Portfolios:        []*models.Portfolio{p},
		ActivePortfolioID: p.ID,
		Filters:           map[string]string{},
	}
}

// NewHolding fills in the defaults of seed and returns a new holding: a
// fresh ID when missing, AvgCost taken from Price, negative numbers clamped
// and empty classifications taken from lists. New holdings always start
// included; update-holding excludes them.
func (f *Factory) NewHolding(seed models.Holding, lists models.Lists) *models.Holding {
	h := seed.Clone()
	now := f.Now()
	if h.ID == "" {
		h.ID = f.NewID()
	}
	h.Include = true
	if h.Price < 0 {
		h.Price = 0
	}
	if h.Qty < 0 {
		h.Qty = 0
	}
	if h.AvgCost <= 0 {
		h.AvgCost = h.Price
	}
	if h.Section == "" {
		h.Section = FirstNonCash(lists.Sections)
	}
	if h.Theme == "" && len(lists.Themes) > 0 {
		h.Theme = lists.Themes[0]
	}
	if h.Account == "" && len(lists.Accounts) > 0 {
		h.Account = lists.Accounts[0]
	}
	if h.AssetType == "" {
		h.AssetType = "Stock"
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	h.UpdatedAt = now
	return h
}

// FromExtracted builds a holding from an import row.
func (f *Factory) FromExtracted(row models.ExtractedHolding, lists models.Lists) *models.Holding {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		name = strings.TrimSpace(row.Ticker)
	}
	return f.NewHolding(models.Holding{
		Name:      name,
		Ticker:    strings.TrimSpace(row.Ticker),
		Exchange:  row.Exchange,
		Section:   row.Section,
		Theme:     row.Theme,
		Account:   row.Account,
		AssetType: row.AssetType,
		Price:     row.Price,
		Qty:       row.Qty,
	}, lists)
}

// FromImportedTrade builds an empty position for a traded ticker that has no
// holding yet.
func (f *Factory) FromImportedTrade(t models.ImportedTrade, lists models.Lists) *models.Holding {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		name = strings.TrimSpace(t.Ticker)
	}
	return f.NewHolding(models.Holding{
		Name:      name,
		Ticker:    strings.TrimSpace(t.Ticker),
		Section:   t.Section,
		Theme:     t.Theme,
		Account:   t.Account,
		AssetType: t.AssetType,
		Price:     t.Price,
	}, lists)
}

// NewCashBuffer creates the synthetic cash holding used by locked totals.
func (f *Factory) NewCashBuffer(qty float64, lists models.Lists) *models.Holding {
	return f.NewHolding(models.Holding{
		Name:      f.CashBufferName,
		Section:   models.CashSection,
		AssetType: models.CashAssetType,
		Price:     1,
		AvgCost:   1,
		Qty:       qty,
	}, lists)
}

// IsCashBuffer reports whether h is the synthetic cash holding.
func (f *Factory) IsCashBuffer(h *models.Holding) bool {
	return h.Name == f.CashBufferName && h.Section == models.CashSection
}

// NewTrade creates a trade log entry for holding h.
func (f *Factory) NewTrade(h *models.Holding, typ models.TradeType, date time.Time, price, qty float64) models.Trade {
	if date.IsZero() {
		date = f.Now()
	}
	return models.Trade{
		ID:        f.NewID(),
		HoldingID: h.ID,
		Ticker:    h.Ticker,
		Type:      typ,
		Date:      date,
		Price:     price,
		Qty:       qty,
	}
}

// FirstNonCash returns the first section other than Cash, or Cash when
// none exists.
func FirstNonCash(sections []string) string {
	for _, s := range sections {
		if s != models.CashSection {
			return s
		}
	}
	return models.CashSection
}
