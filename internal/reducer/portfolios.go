package reducer

import (
	"strings"

	"portfolio-tracker/internal/models"
)

func (r *Reducer) addPortfolio(state *models.AppState, a AddPortfolio) *models.AppState {
	p := r.factory.NewPortfolio(a.Name)
	p.Name = UniqueName(p.Name, state.PortfolioNames(""))

	next := state.ShallowCopy()
	next.Portfolios = append(next.Portfolios, p)
	next.ActivePortfolioID = p.ID
	next.Playground = models.Playground{}
	return next
}

func (r *Reducer) removePortfolio(state *models.AppState, a RemovePortfolio) *models.AppState {
	idx := state.PortfolioIndex(a.ID)
	if idx < 0 || len(state.Portfolios) <= 1 {
		return state
	}

	next := *state
	next.Portfolios = removePortfolioAt(state.Portfolios, idx)
	if state.ActivePortfolioID == a.ID {
		sibling := idx
		if sibling >= len(next.Portfolios) {
			sibling = len(next.Portfolios) - 1
		}
		next.ActivePortfolioID = next.Portfolios[sibling].ID
		next.Playground = models.Playground{}
	}
	return &next
}

func (r *Reducer) renamePortfolio(state *models.AppState, a RenamePortfolio) *models.AppState {
	p := state.FindPortfolio(a.ID)
	name := strings.TrimSpace(a.Name)
	if p == nil || name == "" {
		return state
	}
	name = UniqueName(name, state.PortfolioNames(a.ID))
	if name == p.Name {
		return state
	}

	np := *p
	np.Name = name
	np.UpdatedAt = r.factory.Now()
	return replacePortfolio(state, &np)
}

// selectPortfolio changes the active portfolio. Every switch of the active
// portfolio discards the playground, whose snapshot belongs to the previous
// one.
func (r *Reducer) selectPortfolio(state *models.AppState, a SelectPortfolio) *models.AppState {
	if a.ID == state.ActivePortfolioID || state.PortfolioIndex(a.ID) < 0 {
		return state
	}
	next := *state
	next.ActivePortfolioID = a.ID
	next.Playground = models.Playground{}
	return &next
}

// createDraft clones the parent into a draft with a fresh ID and makes the
// draft active. Holding IDs are kept so a later promotion lines up.
func (r *Reducer) createDraft(state *models.AppState, a CreateDraftPortfolio) *models.AppState {
	parent := state.FindPortfolio(a.ParentID)
	if parent == nil {
		return state
	}

	d := parent.Clone()
	d.ID = r.factory.NewID()
	d.Type = models.PortfolioDraft
	d.ParentID = parent.ID
	base := strings.TrimSpace(a.Name)
	if base == "" {
		base = parent.Name + " (Draft)"
	}
	d.Name = UniqueName(base, state.PortfolioNames(""))
	d.CreatedAt = r.factory.Now()
	d.UpdatedAt = d.CreatedAt

	next := state.ShallowCopy()
	next.Portfolios = append(next.Portfolios, d)
	next.ActivePortfolioID = d.ID
	next.Playground = models.Playground{}
	return next
}

// promoteDraft writes the draft's contents over its parent, keeping the
// parent's ID, name and creation time, and deletes the draft. A draft whose
// parent no longer exists is converted in place.
func (r *Reducer) promoteDraft(state *models.AppState, a PromoteDraftToActual) *models.AppState {
	di := state.PortfolioIndex(a.DraftID)
	if di < 0 || state.Portfolios[di].Type != models.PortfolioDraft {
		return state
	}
	draft := state.Portfolios[di]

	promoted := draft.Clone()
	promoted.Type = models.PortfolioActual
	promoted.ParentID = ""
	promoted.UpdatedAt = r.factory.Now()

	next := state.ShallowCopy()
	if pi := state.PortfolioIndex(draft.ParentID); draft.ParentID != "" && pi >= 0 {
		parent := state.Portfolios[pi]
		promoted.ID = parent.ID
		promoted.Name = parent.Name
		promoted.CreatedAt = parent.CreatedAt
		next.Portfolios[pi] = promoted
		next.Portfolios = removePortfolioAt(next.Portfolios, di)
	} else {
		next.Portfolios[di] = promoted
	}
	next.ActivePortfolioID = promoted.ID
	next.Playground = models.Playground{}
	return next
}

func (r *Reducer) setPlaygroundEnabled(state *models.AppState, a SetPlaygroundEnabled) *models.AppState {
	if a.Enabled == state.Playground.Enabled {
		return state
	}
	next := *state
	if a.Enabled {
		next.Playground = models.Playground{
			Enabled:  true,
			Snapshot: models.MustActivePortfolio(state).Clone(),
		}
	} else {
		next.Playground = models.Playground{}
	}
	return &next
}

// restorePlayground replaces the active portfolio with a copy of the
// snapshot. The snapshot is kept for further restores.
func (r *Reducer) restorePlayground(state *models.AppState) *models.AppState {
	snap := state.Playground.Snapshot
	if snap == nil {
		return state
	}
	return r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		restored := snap.Clone()
		restored.ID = p.ID
		return restored
	})
}

func setFilter(state *models.AppState, a SetFilter) *models.AppState {
	key := strings.TrimSpace(a.Key)
	if key == "" {
		return state
	}
	value := strings.TrimSpace(a.Value)
	current, ok := state.Filters[key]
	switch {
	case value == "" && !ok:
		return state
	case value != "" && ok && current == value:
		return state
	}

	filters := cloneFilters(state.Filters)
	if value == "" {
		delete(filters, key)
	} else {
		filters[key] = value
	}
	next := *state
	next.Filters = filters
	return &next
}

func clearFilters(state *models.AppState) *models.AppState {
	if len(state.Filters) == 0 {
		return state
	}
	next := *state
	next.Filters = map[string]string{}
	return &next
}
