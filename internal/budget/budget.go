// Package budget rescales child allocations when a parent allocation
// changes, keeping the children's relative weights.
package budget

import (
	"math"

	"portfolio-tracker/internal/models"
)

// PreserveChildPercentageRatios scales every positive child percentage by
// newParent/oldParent. Zero children are omitted. The result is empty when
// oldParent <= 0 or newParent < 0. Children are not renormalized.
func PreserveChildPercentageRatios(children map[string]float64, oldParent, newParent float64) map[string]float64 {
	out := make(map[string]float64)
	if !(oldParent > 0) || newParent < 0 || math.IsNaN(newParent) {
		return out
	}

	ratio := newParent / oldParent
	for key, pct := range children {
		if pct > 0 {
			out[key] = pct * ratio
		}
	}
	return out
}

// PreserveThemeRatiosOnSectionChange rescales the PercentOfSection budget of
// every theme mapped to section. The portfolio is returned unchanged when
// there is nothing to rescale.
func PreserveThemeRatiosOnSectionChange(p *models.Portfolio, section string, oldPct, newPct float64) *models.Portfolio {
	children := make(map[string]float64)
	for theme, sec := range p.Lists.ThemeSections {
		if sec != section {
			continue
		}
		children[theme] = CalculateThemeCurrentPercent(p.Budgets.Themes[theme])
	}
	if len(children) == 0 {
		return p
	}

	scaled := PreserveChildPercentageRatios(children, oldPct, newPct)
	if len(scaled) == 0 {
		return p
	}

	themes := models.CloneBudgetMap(p.Budgets.Themes)
	for theme, pct := range scaled {
		limit := themes[theme]
		limit.PercentOfSection = models.Float(pct)
		themes[theme] = limit
	}

	next := *p
	next.Budgets = p.Budgets.WithMap(models.BudgetThemes, themes)
	return &next
}

// PreserveHoldingRatiosOnThemeChange rescales the TargetPct of every holding
// in theme. The portfolio is returned unchanged when there is nothing to
// rescale.
func PreserveHoldingRatiosOnThemeChange(p *models.Portfolio, theme string, oldPct, newPct float64) *models.Portfolio {
	children := make(map[string]float64)
	for _, h := range p.Holdings {
		if h.Theme == theme {
			children[h.ID] = models.FloatValue(h.TargetPct)
		}
	}
	if len(children) == 0 {
		return p
	}

	scaled := PreserveChildPercentageRatios(children, oldPct, newPct)
	if len(scaled) == 0 {
		return p
	}

	next := p.ShallowCopy()
	for i, h := range next.Holdings {
		pct, ok := scaled[h.ID]
		if !ok {
			continue
		}
		c := h.Clone()
		c.TargetPct = models.Float(pct)
		next.Holdings[i] = c
	}
	return next
}

// CalculateSectionCurrentPercent returns the section's effective percent of
// the portfolio: the explicit percent, else the amount relative to
// totalValue, else zero.
func CalculateSectionCurrentPercent(limit models.BudgetLimit, totalValue float64) float64 {
	if limit.Percent != nil {
		return *limit.Percent
	}
	if limit.Amount != nil && totalValue > 0 {
		return *limit.Amount / totalValue * 100
	}
	return 0
}

// CalculateThemeCurrentPercent returns the theme's percent of its section,
// or zero. Themes have no amount-based fallback.
func CalculateThemeCurrentPercent(limit models.BudgetLimit) float64 {
	if limit.PercentOfSection != nil {
		return *limit.PercentOfSection
	}
	return 0
}
