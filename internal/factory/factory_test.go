package factory

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-tracker/internal/models"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testFactory() *Factory {
	n := 0
	f := New()
	f.NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	f.Now = func() time.Time { return fixedTime }
	return f
}

func TestNewPortfolio_Defaults(t *testing.T) {
	f := testFactory()

	p := f.NewPortfolio("  ")

	assert.Equal(t, "id-1", p.ID)
	assert.Equal(t, DefaultPortfolioName, p.Name)
	assert.Equal(t, models.PortfolioActual, p.Type)
	assert.Empty(t, p.ParentID)
	assert.Equal(t, models.CashSection, p.Lists.Sections[len(p.Lists.Sections)-1])
	assert.Equal(t, DefaultCurrency, p.Settings.Currency)
	assert.NotNil(t, p.Budgets.Sections)
	assert.NotNil(t, p.Budgets.Accounts)
	assert.NotNil(t, p.Budgets.Themes)
	assert.Equal(t, fixedTime, p.CreatedAt)
}

func TestNewAppState(t *testing.T) {
	s := testFactory().NewAppState("Family")

	require.Len(t, s.Portfolios, 1)
	assert.Equal(t, s.Portfolios[0].ID, s.ActivePortfolioID)
	assert.Equal(t, "Family", s.Portfolios[0].Name)
	assert.NotNil(t, s.Filters)
	assert.False(t, s.Playground.Enabled)
}

func TestNewHolding_Defaults(t *testing.T) {
	f := testFactory()
	lists := DefaultLists()

	h := f.NewHolding(models.Holding{Name: "Apple", Ticker: "AAPL", Price: 150, Qty: -3}, lists)

	assert.Equal(t, "id-1", h.ID)
	assert.True(t, h.Include)
	assert.Equal(t, 150.0, h.AvgCost)
	assert.Equal(t, 0.0, h.Qty)
	assert.Equal(t, "Core", h.Section)
	assert.Equal(t, "General", h.Theme)
	assert.Equal(t, "General", h.Account)
	assert.Equal(t, fixedTime, h.CreatedAt)
}

func TestNewHolding_KeepsExplicitFields(t *testing.T) {
	f := testFactory()

	h := f.NewHolding(models.Holding{ID: "keep", Section: "Satellite", Price: 10, AvgCost: 8}, DefaultLists())

	assert.Equal(t, "keep", h.ID)
	assert.True(t, h.Include)
	assert.Equal(t, 8.0, h.AvgCost)
	assert.Equal(t, "Satellite", h.Section)
}

func TestNewHolding_AlwaysIncluded(t *testing.T) {
	f := testFactory()

	withID := f.NewHolding(models.Holding{ID: "given", Name: "Fund", Include: false}, DefaultLists())
	fresh := f.NewHolding(models.Holding{Name: "Fund"}, DefaultLists())

	assert.True(t, withID.Include)
	assert.True(t, fresh.Include)
}

func TestNewCashBuffer(t *testing.T) {
	f := testFactory()

	h := f.NewCashBuffer(1000, DefaultLists())

	assert.Equal(t, DefaultCashBufferName, h.Name)
	assert.Equal(t, models.CashSection, h.Section)
	assert.Equal(t, models.CashAssetType, h.AssetType)
	assert.Equal(t, 1.0, h.Price)
	assert.Equal(t, 1000.0, h.Qty)
	assert.True(t, f.IsCashBuffer(h))
}

func TestFromExtracted_NameFallsBackToTicker(t *testing.T) {
	h := testFactory().FromExtracted(models.ExtractedHolding{Ticker: " VWRL ", Qty: 10, Price: 90}, DefaultLists())

	assert.Equal(t, "VWRL", h.Name)
	assert.Equal(t, "VWRL", h.Ticker)
	assert.Equal(t, 90.0, h.AvgCost)
}

func TestFirstNonCash(t *testing.T) {
	assert.Equal(t, "Core", FirstNonCash([]string{"Core", models.CashSection}))
	assert.Equal(t, models.CashSection, FirstNonCash([]string{models.CashSection}))
}
