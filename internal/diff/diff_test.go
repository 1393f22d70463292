package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-tracker/internal/models"
)

func TestHoldings_ChangedQty(t *testing.T) {
	current := []*models.Holding{{ID: "h1", Ticker: "VWRL", Name: "Vanguard", Qty: 100}}
	extracted := []models.ExtractedHolding{{Ticker: "VWRL", Name: "Vanguard", Qty: 120}}

	diffs := Holdings(current, extracted)

	require.Len(t, diffs, 1)
	assert.Equal(t, KindChanged, diffs[0].Kind)
	assert.Equal(t, FieldChange{Old: 100, New: 120}, diffs[0].Changes[FieldQty])
	assert.NotContains(t, diffs[0].Changes, FieldPrice)
	assert.False(t, diffs[0].Accepted)
	assert.Same(t, current[0], diffs[0].Current)
}

func TestHoldings_CaseInsensitiveTicker(t *testing.T) {
	current := []*models.Holding{{ID: "h1", Ticker: "vwrl", Name: "Vanguard", Qty: 10, Price: 5}}
	extracted := []models.ExtractedHolding{{Ticker: "VWRL", Name: " Vanguard ", Qty: 10, Price: 5}}

	diffs := Holdings(current, extracted)

	require.Len(t, diffs, 1)
	assert.Equal(t, KindUnchanged, diffs[0].Kind)
	assert.Empty(t, diffs[0].Changes)
	assert.False(t, diffs[0].Accepted)
}

func TestHoldings_NameMatchWithoutTicker(t *testing.T) {
	current := []*models.Holding{{ID: "h1", Name: "Premium Bonds", Qty: 1, Price: 1000}}
	extracted := []models.ExtractedHolding{{Name: "Premium Bonds", Qty: 1, Price: 1200}}

	diffs := Holdings(current, extracted)

	require.Len(t, diffs, 1)
	assert.Equal(t, KindChanged, diffs[0].Kind)
	assert.Equal(t, FieldChange{Old: 1000, New: 1200}, diffs[0].Changes[FieldPrice])
}

func TestHoldings_SameTickerDifferentNameIsNew(t *testing.T) {
	current := []*models.Holding{{ID: "h1", Ticker: "VWRL", Name: "Vanguard", Qty: 10, Price: 100}}
	extracted := []models.ExtractedHolding{{Ticker: "VWRL", Name: "Vanguard All-World Acc", Qty: 7, Price: 90}}

	diffs := Holdings(current, extracted)

	require.Len(t, diffs, 1)
	assert.Equal(t, KindNew, diffs[0].Kind)
	assert.Nil(t, diffs[0].Current)
	assert.True(t, diffs[0].Accepted)
}

func TestMatches(t *testing.T) {
	h := &models.Holding{Ticker: "VWRL", Name: "Vanguard"}

	tests := []struct {
		name string
		row  models.ExtractedHolding
		want bool
	}{
		{"same pair", models.ExtractedHolding{Ticker: "VWRL", Name: "Vanguard"}, true},
		{"ticker case", models.ExtractedHolding{Ticker: "vwrl", Name: "Vanguard"}, true},
		{"row without name", models.ExtractedHolding{Ticker: "VWRL"}, true},
		{"different name", models.ExtractedHolding{Ticker: "VWRL", Name: "Vanguard All-World Acc"}, false},
		{"name case differs", models.ExtractedHolding{Ticker: "VWRL", Name: "vanguard"}, false},
		{"different ticker", models.ExtractedHolding{Ticker: "VUSA", Name: "Vanguard"}, false},
		{"name only", models.ExtractedHolding{Name: "Vanguard"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(h, tt.row))
		})
	}

	untickered := &models.Holding{Name: "Premium Bonds"}
	assert.True(t, Matches(untickered, models.ExtractedHolding{Name: "Premium Bonds"}))
	assert.False(t, Matches(untickered, models.ExtractedHolding{}))
}

func TestHoldings_OrderingAndDefaults(t *testing.T) {
	current := []*models.Holding{
		{ID: "a", Ticker: "AAA", Qty: 1, Price: 1},
		{ID: "b", Ticker: "BBB", Qty: 1, Price: 1},
		{ID: "gone", Ticker: "OLD", Qty: 1, Price: 1},
	}
	extracted := []models.ExtractedHolding{
		{Ticker: "AAA", Qty: 1, Price: 1},
		{Ticker: "NEW1", Qty: 2, Price: 10},
		{Ticker: "BBB", Qty: 5, Price: 1},
		{Ticker: "NEW2", Qty: 3, Price: 4},
	}

	diffs := Holdings(current, extracted)

	require.Len(t, diffs, 4)
	assert.Equal(t, "NEW1", diffs[0].Extracted.Ticker)
	assert.Equal(t, "NEW2", diffs[1].Extracted.Ticker)
	assert.Equal(t, "BBB", diffs[2].Extracted.Ticker)
	assert.Equal(t, "AAA", diffs[3].Extracted.Ticker)

	for _, d := range diffs {
		assert.NotEqual(t, KindRemoved, d.Kind)
		assert.Equal(t, d.Kind == KindNew, d.Accepted)
	}
}

func TestSummarize(t *testing.T) {
	diffs := []Diff{
		{Kind: KindNew, Extracted: models.ExtractedHolding{Qty: 2, Price: 10}},
		{Kind: KindNew, Extracted: models.ExtractedHolding{Qty: 3, Price: 4}},
		{Kind: KindChanged, Extracted: models.ExtractedHolding{Qty: 100, Price: 100}},
		{Kind: KindUnchanged},
	}

	s := Summarize(diffs)

	assert.Equal(t, Summary{NewCount: 2, ChangedCount: 1, UnchangedCount: 1, EstimatedValueChange: 32}, s)
}

func TestAccepted(t *testing.T) {
	diffs := []Diff{
		{Kind: KindNew, Accepted: true, Extracted: models.ExtractedHolding{Ticker: "A"}},
		{Kind: KindChanged, Extracted: models.ExtractedHolding{Ticker: "B"}},
		{Kind: KindChanged, Accepted: true, Extracted: models.ExtractedHolding{Ticker: "C"}},
	}

	rows := Accepted(diffs)

	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Ticker)
	assert.Equal(t, "C", rows[1].Ticker)
}
