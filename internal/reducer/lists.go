package reducer

import (
	"strings"

	"portfolio-tracker/internal/budget"
	"portfolio-tracker/internal/factory"
	"portfolio-tracker/internal/models"
)

// budgetDomain returns the budget map keyed by names of list kind.
func budgetDomain(kind models.ListKind) models.BudgetDomain {
	switch kind {
	case models.ListSections:
		return models.BudgetSections
	case models.ListThemes:
		return models.BudgetThemes
	default:
		return models.BudgetAccounts
	}
}

func holdingField(h *models.Holding, kind models.ListKind) string {
	switch kind {
	case models.ListSections:
		return h.Section
	case models.ListThemes:
		return h.Theme
	default:
		return h.Account
	}
}

func setHoldingField(h *models.Holding, kind models.ListKind, v string) {
	switch kind {
	case models.ListSections:
		h.Section = v
	case models.ListThemes:
		h.Theme = v
	default:
		h.Account = v
	}
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneFilters(f map[string]string) map[string]string {
	out := make(map[string]string, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func (r *Reducer) addListItem(state *models.AppState, a AddListItem) *models.AppState {
	value := strings.TrimSpace(a.Value)
	if !a.List.Valid() || value == "" {
		return state
	}
	return r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		if indexOf(p.Lists.List(a.List), value) >= 0 {
			return p
		}
		lists := p.Lists.Clone()
		switch a.List {
		case models.ListSections:
			lists.Sections = models.EnsureCashLast(append(lists.Sections, value))
		case models.ListThemes:
			lists.Themes = append(lists.Themes, value)
			section := strings.TrimSpace(a.Section)
			if indexOf(lists.Sections, section) < 0 {
				section = factory.FirstNonCash(lists.Sections)
			}
			lists.ThemeSections[value] = section
		case models.ListAccounts:
			lists.Accounts = append(lists.Accounts, value)
		}
		next := *p
		next.Lists = lists
		return &next
	})
}

// renameListItem renames a list entry. Holdings, the matching filter,
// themeSections and budget keys follow the new name.
func (r *Reducer) renameListItem(state *models.AppState, a RenameListItem) *models.AppState {
	to := strings.TrimSpace(a.To)
	if !a.List.Valid() || to == "" || to == a.From {
		return state
	}
	if a.List == models.ListSections && a.From == models.CashSection {
		return state
	}

	next := r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		list := p.Lists.List(a.List)
		idx := indexOf(list, a.From)
		if idx < 0 || indexOf(list, to) >= 0 {
			return p
		}

		lists := p.Lists.Clone()
		lists.List(a.List)[idx] = to
		switch a.List {
		case models.ListSections:
			for theme, section := range lists.ThemeSections {
				if section == a.From {
					lists.ThemeSections[theme] = to
				}
			}
		case models.ListThemes:
			if section, ok := lists.ThemeSections[a.From]; ok {
				delete(lists.ThemeSections, a.From)
				lists.ThemeSections[to] = section
			}
		}

		budgets := p.Budgets
		domain := budgetDomain(a.List)
		if limit, ok := p.Budgets.Map(domain)[a.From]; ok {
			m := models.CloneBudgetMap(p.Budgets.Map(domain))
			delete(m, a.From)
			m[to] = limit
			budgets = budgets.WithMap(domain, m)
		}

		np := r.reassignHoldings(p, a.List, a.From, to)
		np.Lists = lists
		np.Budgets = budgets
		return np
	})
	if next == state {
		return state
	}

	key := a.List.FilterKey()
	if state.Filters[key] == a.From {
		filters := cloneFilters(state.Filters)
		filters[key] = to
		next.Filters = filters
	}
	return next
}

// removeListItem removes a list entry. Holdings and themes that referenced
// it move to a fallback entry; its budget key and filter are dropped.
func (r *Reducer) removeListItem(state *models.AppState, a RemoveListItem) *models.AppState {
	if !a.List.Valid() {
		return state
	}
	if a.List == models.ListSections && a.Value == models.CashSection {
		return state
	}

	next := r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		list := p.Lists.List(a.List)
		idx := indexOf(list, a.Value)
		if idx < 0 {
			return p
		}

		remaining := make([]string, 0, len(list)-1)
		remaining = append(remaining, list[:idx]...)
		remaining = append(remaining, list[idx+1:]...)

		var fallback string
		switch {
		case a.List == models.ListSections:
			fallback = factory.FirstNonCash(remaining)
		case len(remaining) > 0:
			fallback = remaining[0]
		}

		lists := p.Lists.Clone().WithList(a.List, remaining)
		switch a.List {
		case models.ListSections:
			for theme, section := range lists.ThemeSections {
				if section == a.Value {
					lists.ThemeSections[theme] = fallback
				}
			}
		case models.ListThemes:
			delete(lists.ThemeSections, a.Value)
		}

		budgets := p.Budgets
		domain := budgetDomain(a.List)
		if _, ok := p.Budgets.Map(domain)[a.Value]; ok {
			m := models.CloneBudgetMap(p.Budgets.Map(domain))
			delete(m, a.Value)
			budgets = budgets.WithMap(domain, m)
		}

		np := r.reassignHoldings(p, a.List, a.Value, fallback)
		np.Lists = lists
		np.Budgets = budgets
		return np
	})
	if next == state {
		return state
	}

	key := a.List.FilterKey()
	if v, ok := state.Filters[key]; ok && v == a.Value {
		filters := cloneFilters(state.Filters)
		delete(filters, key)
		next.Filters = filters
	}
	return next
}

// reassignHoldings returns a copy of p where every holding whose kind field
// equals from is replaced by a copy set to to.
func (r *Reducer) reassignHoldings(p *models.Portfolio, kind models.ListKind, from, to string) *models.Portfolio {
	next := p.ShallowCopy()
	for i, h := range next.Holdings {
		if holdingField(h, kind) != from {
			continue
		}
		c := h.Clone()
		setHoldingField(c, kind, to)
		c.UpdatedAt = r.factory.Now()
		next.Holdings[i] = c
	}
	return next
}

func (r *Reducer) reorderList(state *models.AppState, a ReorderList) *models.AppState {
	if !a.List.Valid() || a.From == a.To {
		return state
	}
	return r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		list := p.Lists.List(a.List)
		n := len(list)
		if a.From < 0 || a.From >= n || a.To < 0 || a.To >= n {
			return p
		}
		if a.List == models.ListSections && list[a.From] == models.CashSection {
			return p
		}

		item := list[a.From]
		moved := make([]string, 0, n)
		moved = append(moved, list[:a.From]...)
		moved = append(moved, list[a.From+1:]...)
		moved = append(moved[:a.To], append([]string{item}, moved[a.To:]...)...)
		if a.List == models.ListSections {
			moved = models.EnsureCashLast(moved)
		}
		if equalStrings(moved, list) {
			return p
		}

		next := *p
		next.Lists = p.Lists.Clone().WithList(a.List, moved)
		return &next
	})
}

func (r *Reducer) setThemeSection(state *models.AppState, a SetThemeSection) *models.AppState {
	return r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		if indexOf(p.Lists.Themes, a.Theme) < 0 || indexOf(p.Lists.Sections, a.Section) < 0 {
			return p
		}
		if p.Lists.ThemeSections[a.Theme] == a.Section {
			return p
		}
		lists := p.Lists.Clone()
		lists.ThemeSections[a.Theme] = a.Section
		next := *p
		next.Lists = lists
		return &next
	})
}

// setBudget writes or removes one budget limit. Empty limits are never
// stored.
func (r *Reducer) setBudget(state *models.AppState, a SetBudget) *models.AppState {
	key := strings.TrimSpace(a.Key)
	if !a.Domain.Valid() || key == "" {
		return state
	}
	return r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		current := p.Budgets.Map(a.Domain)
		old, exists := current[key]

		var limit models.BudgetLimit
		if a.Limit != nil {
			limit = a.Limit.Clone()
		}
		m := models.CloneBudgetMap(current)
		if limit.IsEmpty() {
			if !exists {
				return p
			}
			delete(m, key)
		} else {
			if exists && old.Equal(limit) {
				return p
			}
			m[key] = limit
		}

		next := *p
		next.Budgets = p.Budgets.WithMap(a.Domain, m)
		np := &next
		if a.PreserveRatios {
			switch a.Domain {
			case models.BudgetSections:
				total := p.IncludedTotal()
				np = budget.PreserveThemeRatiosOnSectionChange(np, key,
					budget.CalculateSectionCurrentPercent(old, total),
					budget.CalculateSectionCurrentPercent(limit, total))
			case models.BudgetThemes:
				np = budget.PreserveHoldingRatiosOnThemeChange(np, key,
					budget.CalculateThemeCurrentPercent(old),
					budget.CalculateThemeCurrentPercent(limit))
			}
		}
		return np
	})
}

// importHoldings upserts rows. A row updates the first holding it matches,
// which includes holdings added earlier in the same batch. Classification
// names unknown to the lists are added to them. Filters are reset.
func (r *Reducer) importHoldings(state *models.AppState, a ImportHoldings) *models.AppState {
	if len(a.Rows) == 0 {
		return state
	}
	next := r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		np := p.ShallowCopy()
		lists := p.Lists.Clone()
		applied := false
		for _, row := range a.Rows {
			row.Ticker = strings.TrimSpace(row.Ticker)
			row.Name = strings.TrimSpace(row.Name)
			if row.Ticker == "" && row.Name == "" {
				continue
			}
			ensureListed(&lists, row)
			if idx := matchIndex(np.Holdings, row); idx >= 0 {
				np.Holdings[idx] = r.applyImportRow(np.Holdings[idx], row)
			} else {
				np.Holdings = append(np.Holdings, r.factory.FromExtracted(row, lists))
			}
			applied = true
		}
		if !applied {
			return p
		}
		np.Lists = lists
		return np
	})
	if next == state {
		return state
	}
	next.Filters = map[string]string{}
	return next
}

func (r *Reducer) applyImportRow(h *models.Holding, row models.ExtractedHolding) *models.Holding {
	c := h.Clone()
	c.Qty = sanitize(row.Qty)
	if price := sanitize(row.Price); price > 0 {
		c.Price = price
	}
	if row.Name != "" {
		c.Name = row.Name
	}
	if c.Ticker == "" {
		c.Ticker = row.Ticker
	}
	if row.Exchange != "" {
		c.Exchange = row.Exchange
	}
	if row.Section != "" {
		c.Section = row.Section
	}
	if row.Theme != "" {
		c.Theme = row.Theme
	}
	if row.Account != "" {
		c.Account = row.Account
	}
	if row.AssetType != "" {
		c.AssetType = row.AssetType
	}
	c.UpdatedAt = r.factory.Now()
	return c
}

// ensureListed adds the row's classification names to lists when missing.
func ensureListed(lists *models.Lists, row models.ExtractedHolding) {
	if row.Section != "" && indexOf(lists.Sections, row.Section) < 0 {
		lists.Sections = models.EnsureCashLast(append(lists.Sections, row.Section))
	}
	if row.Theme != "" && indexOf(lists.Themes, row.Theme) < 0 {
		lists.Themes = append(lists.Themes, row.Theme)
		section := row.Section
		if section == "" {
			section = factory.FirstNonCash(lists.Sections)
		}
		lists.ThemeSections[row.Theme] = section
	}
	if row.Account != "" && indexOf(lists.Accounts, row.Account) < 0 {
		lists.Accounts = append(lists.Accounts, row.Account)
	}
}
