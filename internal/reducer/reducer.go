// Package reducer implements the portfolio state machine. Reduce is a pure
// function of (state, action): it never mutates a value reachable from its
// input and returns the input pointer unchanged when an action has no
// effect.
package reducer

import (
	"fmt"

	"portfolio-tracker/internal/cache"
	"portfolio-tracker/internal/factory"
	"portfolio-tracker/internal/models"
)

// invalidation selects the cache groups a transition dirties.
type invalidation uint8

const (
	invalidateNone   invalidation = 0
	invalidateLive   invalidation = 1 << 0
	invalidateTarget invalidation = 1 << 1
	invalidateAll                 = invalidateLive | invalidateTarget
)

type nopInvalidator struct{}

func (nopInvalidator) InvalidateLiveCalculations()   {}
func (nopInvalidator) InvalidateTargetCalculations() {}
func (nopInvalidator) InvalidateAllCalculations()    {}

// Reducer applies actions to application state. It signals the cache after
// every effective transition.
type Reducer struct {
	factory *factory.Factory
	cache   cache.Invalidator
}

// New creates a reducer. A nil factory uses factory.New and a nil
// invalidator discards invalidation signals.
func New(f *factory.Factory, inv cache.Invalidator) *Reducer {
	if f == nil {
		f = factory.New()
	}
	if inv == nil {
		inv = nopInvalidator{}
	}
	return &Reducer{factory: f, cache: inv}
}

// Factory returns the factory used for new entities.
func (r *Reducer) Factory() *factory.Factory {
	return r.factory
}

// Reduce returns the state after action. Unknown actions and semantic no-ops
// return state itself. Actions that operate on the active portfolio panic
// with ErrActivePortfolioNotFound when the state has no such portfolio.
func (r *Reducer) Reduce(state *models.AppState, action Action) *models.AppState {
	next, inv := r.reduce(state, action)
	if next != state {
		r.invalidate(inv)
	}
	return next
}

// ReduceAll applies actions in order.
func (r *Reducer) ReduceAll(state *models.AppState, actions []Action) *models.AppState {
	for _, a := range actions {
		state = r.Reduce(state, a)
	}
	return state
}

func (r *Reducer) invalidate(inv invalidation) {
	switch inv {
	case invalidateAll:
		r.cache.InvalidateAllCalculations()
	case invalidateLive:
		r.cache.InvalidateLiveCalculations()
	case invalidateTarget:
		r.cache.InvalidateTargetCalculations()
	}
}

func (r *Reducer) reduce(state *models.AppState, action Action) (*models.AppState, invalidation) {
	switch a := action.(type) {
	case AddHolding:
		return r.addHolding(state, a), invalidateAll
	case UpdateHolding:
		return r.updateHolding(state, a), invalidateAll
	case DeleteHolding:
		return r.deleteHolding(state, a), invalidateAll
	case DuplicateHolding:
		return r.duplicateHolding(state, a), invalidateAll
	case RecordTrade:
		return r.recordTrade(state, a), invalidateAll
	case ImportTrades:
		return r.importTrades(state, a), invalidateAll
	case SetTotal:
		return r.setTotal(state, a), invalidateAll
	case UnlockTotal:
		return r.unlockTotal(state), invalidateTarget
	case UpdateSettings:
		return r.updateSettings(state, a)
	case SetBudget:
		return r.setBudget(state, a), invalidateTarget
	case AddListItem:
		return r.addListItem(state, a), invalidateNone
	case RenameListItem:
		return r.renameListItem(state, a), invalidateAll
	case RemoveListItem:
		return r.removeListItem(state, a), invalidateAll
	case ReorderList:
		return r.reorderList(state, a), invalidateNone
	case SetThemeSection:
		return r.setThemeSection(state, a), invalidateTarget
	case ImportHoldings:
		return r.importHoldings(state, a), invalidateAll
	case AddPortfolio:
		return r.addPortfolio(state, a), invalidateNone
	case RemovePortfolio:
		return r.removePortfolio(state, a), invalidateAll
	case RenamePortfolio:
		return r.renamePortfolio(state, a), invalidateNone
	case SelectPortfolio:
		return r.selectPortfolio(state, a), invalidateNone
	case CreateDraftPortfolio:
		return r.createDraft(state, a), invalidateNone
	case PromoteDraftToActual:
		return r.promoteDraft(state, a), invalidateAll
	case SetPlaygroundEnabled:
		return r.setPlaygroundEnabled(state, a), invalidateNone
	case RestorePlayground:
		return r.restorePlayground(state), invalidateAll
	case UpdateLivePrices:
		return r.updateLivePrices(state, a), invalidateLive
	case SetFilter:
		return setFilter(state, a), invalidateNone
	case ClearFilters:
		return clearFilters(state), invalidateNone
	default:
		return state, invalidateNone
	}
}

// updateActive applies fn to the active portfolio. When fn returns its
// argument the state is returned unchanged.
func (r *Reducer) updateActive(state *models.AppState, fn func(p *models.Portfolio) *models.Portfolio) *models.AppState {
	p := models.MustActivePortfolio(state)
	np := fn(p)
	if np == p {
		return state
	}
	np.UpdatedAt = r.factory.Now()
	return replacePortfolio(state, np)
}

// replacePortfolio returns a copy of state with the portfolio of the same ID
// swapped for p.
func replacePortfolio(state *models.AppState, p *models.Portfolio) *models.AppState {
	next := state.ShallowCopy()
	next.Portfolios[state.PortfolioIndex(p.ID)] = p
	return next
}

func removePortfolioAt(ps []*models.Portfolio, i int) []*models.Portfolio {
	out := make([]*models.Portfolio, 0, len(ps)-1)
	out = append(out, ps[:i]...)
	return append(out, ps[i+1:]...)
}

func removeHoldingAt(hs []*models.Holding, i int) []*models.Holding {
	out := make([]*models.Holding, 0, len(hs)-1)
	out = append(out, hs[:i]...)
	return append(out, hs[i+1:]...)
}

func insertHoldingAt(hs []*models.Holding, i int, h *models.Holding) []*models.Holding {
	out := make([]*models.Holding, 0, len(hs)+1)
	out = append(out, hs[:i]...)
	out = append(out, h)
	return append(out, hs[i:]...)
}

// UniqueName returns base, or base followed by the smallest numeric suffix
// from 2 upwards that is not in taken.
func UniqueName(base string, taken []string) string {
	used := make(map[string]bool, len(taken))
	for _, n := range taken {
		used[n] = true
	}
	if !used[base] {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s %d", base, i)
		if !used[candidate] {
			return candidate
		}
	}
}
