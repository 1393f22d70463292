// Package diff reconciles externally extracted holdings against the
// holdings of a portfolio.
package diff

import (
	"math"
	"sort"
	"strings"

	"portfolio-tracker/internal/models"
)

// Kind classifies a diff entry.
type Kind string

const (
	KindNew       Kind = "new"
	KindChanged   Kind = "changed"
	KindRemoved   Kind = "removed" // declared, never produced
	KindUnchanged Kind = "unchanged"
)

var kindRank = map[Kind]int{
	KindNew:       0,
	KindChanged:   1,
	KindRemoved:   2,
	KindUnchanged: 3,
}

// Tracked field names.
const (
	FieldQty   = "qty"
	FieldPrice = "price"
)

// FieldChange records the old and new value of a tracked field.
type FieldChange struct {
	Old float64 `json:"old"`
	New float64 `json:"new"`
}

// Diff is the classification of one extracted row.
type Diff struct {
	Kind      Kind                    `json:"kind"`
	Extracted models.ExtractedHolding `json:"extracted"`
	Current   *models.Holding         `json:"current,omitempty"`
	Changes   map[string]FieldChange  `json:"changes,omitempty"`
	Accepted  bool                    `json:"accepted"`
}

// Summary tallies a diff list.
type Summary struct {
	NewCount             int     `json:"newCount"`
	ChangedCount         int     `json:"changedCount"`
	UnchangedCount       int     `json:"unchangedCount"`
	EstimatedValueChange float64 `json:"estimatedValueChange"`
}

const epsilon = 1e-9

// Matches reports whether an extracted row refers to holding h. Rows are
// keyed by (ticker, name): tickers compare case-insensitively, names compare
// exactly after trimming and constrain the match only when both sides carry
// one. Without tickers on either side the names must be equal.
func Matches(h *models.Holding, row models.ExtractedHolding) bool {
	ht := strings.TrimSpace(h.Ticker)
	rt := strings.TrimSpace(row.Ticker)
	hn := strings.TrimSpace(h.Name)
	rn := strings.TrimSpace(row.Name)
	if ht == "" && rt == "" {
		return hn != "" && hn == rn
	}
	if !strings.EqualFold(ht, rt) {
		return false
	}
	return hn == "" || rn == "" || hn == rn
}

// Match returns the first holding matching row, or nil.
func Match(current []*models.Holding, row models.ExtractedHolding) *models.Holding {
	for _, h := range current {
		if Matches(h, row) {
			return h
		}
	}
	return nil
}

// Holdings classifies every extracted row against current. Holdings absent
// from extracted produce no entry. The result is ordered new, changed,
// removed, unchanged, keeping input order within a kind.
func Holdings(current []*models.Holding, extracted []models.ExtractedHolding) []Diff {
	diffs := make([]Diff, 0, len(extracted))
	for _, row := range extracted {
		h := Match(current, row)
		if h == nil {
			diffs = append(diffs, Diff{Kind: KindNew, Extracted: row, Accepted: true})
			continue
		}

		changes := make(map[string]FieldChange)
		if math.Abs(h.Qty-row.Qty) > epsilon {
			changes[FieldQty] = FieldChange{Old: h.Qty, New: row.Qty}
		}
		if math.Abs(h.Price-row.Price) > epsilon {
			changes[FieldPrice] = FieldChange{Old: h.Price, New: row.Price}
		}

		d := Diff{Kind: KindUnchanged, Extracted: row, Current: h}
		if len(changes) > 0 {
			d.Kind = KindChanged
			d.Changes = changes
		}
		diffs = append(diffs, d)
	}

	sort.SliceStable(diffs, func(i, j int) bool {
		return kindRank[diffs[i].Kind] < kindRank[diffs[j].Kind]
	})
	return diffs
}

// Summarize counts diffs per kind and estimates the value added by new rows.
func Summarize(diffs []Diff) Summary {
	var s Summary
	for _, d := range diffs {
		switch d.Kind {
		case KindNew:
			s.NewCount++
			s.EstimatedValueChange += d.Extracted.Price * d.Extracted.Qty
		case KindChanged:
			s.ChangedCount++
		case KindUnchanged:
			s.UnchangedCount++
		}
	}
	return s
}

// Accepted returns the extracted rows of accepted diffs in order.
func Accepted(diffs []Diff) []models.ExtractedHolding {
	rows := make([]models.ExtractedHolding, 0, len(diffs))
	for _, d := range diffs {
		if d.Accepted {
			rows = append(rows, d.Extracted)
		}
	}
	return rows
}
