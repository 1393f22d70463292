// Package selectors computes derived portfolio figures: valuations,
// breakdowns, targets and budget utilization. Results are memoized in the
// cache service keyed by content fingerprints.
package selectors

import (
	"sort"

	"portfolio-tracker/internal/cache"
	"portfolio-tracker/internal/models"
)

// HoldingValue holds the valuation of one holding.
type HoldingValue struct {
	ID                 string  `json:"id"`
	ManualValue        float64 `json:"manualValue"`
	LiveValue          float64 `json:"liveValue"`
	Value              float64 `json:"value"`
	DayChange          float64 `json:"dayChange"`
	DayChangePercent   float64 `json:"dayChangePercent"`
	PercentOfPortfolio float64 `json:"percentOfPortfolio"`
	HasLivePrice       bool    `json:"hasLivePrice"`
}

// BreakdownEntry is the aggregated value of one section, theme or account.
type BreakdownEntry struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
	Count   int     `json:"count"`
}

// LiveResult is the output of the live calculation.
type LiveResult struct {
	TotalValue       float64                 `json:"totalValue"`
	ManualTotal      float64                 `json:"manualTotal"`
	LiveTotal        float64                 `json:"liveTotal"`
	DayChange        float64                 `json:"dayChange"`
	DayChangePercent float64                 `json:"dayChangePercent"`
	Holdings         map[string]HoldingValue `json:"holdings"`
	Sections         []BreakdownEntry        `json:"sections"`
	Accounts         []BreakdownEntry        `json:"accounts"`
	Themes           []BreakdownEntry        `json:"themes"`
}

// Section returns the breakdown entry for a section.
func (r *LiveResult) Section(name string) BreakdownEntry {
	return findEntry(r.Sections, name)
}

// Account returns the breakdown entry for an account.
func (r *LiveResult) Account(name string) BreakdownEntry {
	return findEntry(r.Accounts, name)
}

// Theme returns the breakdown entry for a theme.
func (r *LiveResult) Theme(name string) BreakdownEntry {
	return findEntry(r.Themes, name)
}

func findEntry(entries []BreakdownEntry, name string) BreakdownEntry {
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	return BreakdownEntry{Name: name}
}

// TargetResult is the output of the target calculation.
type TargetResult struct {
	PortfolioTarget float64            `json:"portfolioTarget"`
	Sections        map[string]float64 `json:"sections"`
	Themes          map[string]float64 `json:"themes"`
	Holdings        map[string]float64 `json:"holdings"`
}

// DerivedHolding combines live and target figures for one holding.
type DerivedHolding struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Ticker             string  `json:"ticker"`
	Section            string  `json:"section"`
	Theme              string  `json:"theme"`
	Included           bool    `json:"included"`
	Value              float64 `json:"value"`
	TargetValue        float64 `json:"targetValue"`
	Delta              float64 `json:"delta"`
	PercentOfPortfolio float64 `json:"percentOfPortfolio"`
	PercentOfSection   float64 `json:"percentOfSection"`
	PercentOfTheme     float64 `json:"percentOfTheme"`
}

// DerivedResult is the output of the derived-holdings calculation.
type DerivedResult struct {
	Holdings []DerivedHolding `json:"holdings"`
}

// Selectors reads derived figures through a cache service.
type Selectors struct {
	cache *cache.Service
}

// New creates selectors backed by svc.
func New(svc *cache.Service) *Selectors {
	return &Selectors{cache: svc}
}

// Live returns the live calculation for p.
func (s *Selectors) Live(p *models.Portfolio) *LiveResult {
	return cache.Lookup(s.cache.Live(), LiveKey(p), func() *LiveResult {
		return computeLive(p)
	})
}

// Target returns the target calculation for p.
func (s *Selectors) Target(p *models.Portfolio) *TargetResult {
	return cache.Lookup(s.cache.Target(), TargetKey(p), func() *TargetResult {
		return computeTarget(p)
	})
}

// Derived returns per-holding figures combining live and target results.
func (s *Selectors) Derived(p *models.Portfolio) *DerivedResult {
	key := DerivedKey(LiveKey(p), TargetKey(p))
	return cache.Lookup(s.cache.Derived(), key, func() *DerivedResult {
		return computeDerived(p, s.Live(p), s.Target(p))
	})
}

// TotalValue returns the current value of the included holdings of p.
func (s *Selectors) TotalValue(p *models.Portfolio) float64 {
	return s.Live(p).TotalValue
}

func percentOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

func computeLive(p *models.Portfolio) *LiveResult {
	useLive := p.UsesLivePrices()
	res := &LiveResult{Holdings: make(map[string]HoldingValue, len(p.Holdings))}

	sections := make(map[string]*BreakdownEntry)
	accounts := make(map[string]*BreakdownEntry)
	themes := make(map[string]*BreakdownEntry)
	add := func(m map[string]*BreakdownEntry, name string, v float64) {
		e, ok := m[name]
		if !ok {
			e = &BreakdownEntry{Name: name}
			m[name] = e
		}
		e.Value += v
		e.Count++
	}

	for _, h := range p.Holdings {
		hv := HoldingValue{
			ID:           h.ID,
			ManualValue:  h.ManualValue(),
			LiveValue:    h.LiveValue(),
			Value:        h.CurrentValue(useLive),
			DayChange:    h.DayChangeValue(),
			HasLivePrice: h.HasLivePrice(),
		}
		if h.DayChangePercent != nil {
			hv.DayChangePercent = *h.DayChangePercent
		}
		if h.Include {
			res.TotalValue += hv.Value
			res.ManualTotal += hv.ManualValue
			res.LiveTotal += hv.LiveValue
			res.DayChange += hv.DayChange
			add(sections, h.Section, hv.Value)
			add(accounts, h.Account, hv.Value)
			add(themes, h.Theme, hv.Value)
		}
		res.Holdings[h.ID] = hv
	}

	for _, h := range p.Holdings {
		if !h.Include {
			continue
		}
		hv := res.Holdings[h.ID]
		hv.PercentOfPortfolio = percentOf(hv.Value, res.TotalValue)
		res.Holdings[h.ID] = hv
	}
	res.DayChangePercent = percentOf(res.DayChange, res.TotalValue-res.DayChange)

	res.Sections = orderedBreakdown(p.Lists.Sections, sections, res.TotalValue)
	res.Accounts = orderedBreakdown(p.Lists.Accounts, accounts, res.TotalValue)
	res.Themes = orderedBreakdown(p.Lists.Themes, themes, res.TotalValue)
	return res
}

// orderedBreakdown lists entries in list order, followed by names that only
// appear on holdings, sorted.
func orderedBreakdown(order []string, values map[string]*BreakdownEntry, total float64) []BreakdownEntry {
	out := make([]BreakdownEntry, 0, len(order)+len(values))
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		seen[name] = true
		e := BreakdownEntry{Name: name}
		if v, ok := values[name]; ok {
			e = *v
		}
		e.Percent = percentOf(e.Value, total)
		out = append(out, e)
	}

	var extra []string
	for name := range values {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		e := *values[name]
		e.Percent = percentOf(e.Value, total)
		out = append(out, e)
	}
	return out
}

// PortfolioTarget returns the value targets are measured against: the
// explicit target value, else the locked total, else zero.
func PortfolioTarget(settings models.Settings) float64 {
	if settings.TargetPortfolioValue != nil && *settings.TargetPortfolioValue > 0 {
		return *settings.TargetPortfolioValue
	}
	if settings.LockTotal && settings.LockedTotal != nil {
		return *settings.LockedTotal
	}
	return 0
}

func computeTarget(p *models.Portfolio) *TargetResult {
	target := PortfolioTarget(p.Settings)
	res := &TargetResult{
		PortfolioTarget: target,
		Sections:        make(map[string]float64, len(p.Budgets.Sections)),
		Themes:          make(map[string]float64, len(p.Budgets.Themes)),
		Holdings:        make(map[string]float64, len(p.Holdings)),
	}

	for name, limit := range p.Budgets.Sections {
		switch {
		case limit.Percent != nil:
			res.Sections[name] = *limit.Percent * target / 100
		case limit.Amount != nil:
			res.Sections[name] = *limit.Amount
		}
	}

	for theme, limit := range p.Budgets.Themes {
		if limit.PercentOfSection == nil {
			continue
		}
		section := p.Lists.ThemeSections[theme]
		res.Themes[theme] = res.Sections[section] * *limit.PercentOfSection / 100
	}

	for _, h := range p.Holdings {
		if !h.Include || h.TargetPct == nil {
			continue
		}
		res.Holdings[h.ID] = res.Themes[h.Theme] * *h.TargetPct / 100
	}
	return res
}

func computeDerived(p *models.Portfolio, live *LiveResult, target *TargetResult) *DerivedResult {
	res := &DerivedResult{Holdings: make([]DerivedHolding, 0, len(p.Holdings))}
	for _, h := range p.Holdings {
		hv := live.Holdings[h.ID]
		d := DerivedHolding{
			ID:       h.ID,
			Name:     h.Name,
			Ticker:   h.Ticker,
			Section:  h.Section,
			Theme:    h.Theme,
			Included: h.Include,
			Value:    hv.Value,
		}
		if h.Include {
			d.TargetValue = target.Holdings[h.ID]
			if h.TargetPct != nil {
				d.Delta = d.TargetValue - d.Value
			}
			d.PercentOfPortfolio = hv.PercentOfPortfolio
			d.PercentOfSection = percentOf(hv.Value, live.Section(h.Section).Value)
			d.PercentOfTheme = percentOf(hv.Value, live.Theme(h.Theme).Value)
		}
		res.Holdings = append(res.Holdings, d)
	}
	return res
}
