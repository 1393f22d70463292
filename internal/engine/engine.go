// Package engine serializes actions against a single application state and
// exposes the cached selectors over it.
package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"portfolio-tracker/internal/cache"
	"portfolio-tracker/internal/factory"
	"portfolio-tracker/internal/logging"
	"portfolio-tracker/internal/models"
	"portfolio-tracker/internal/reducer"
	"portfolio-tracker/internal/selectors"
)

// Options configures an Engine.
type Options struct {
	CacheCapacity int
	PortfolioName string
	Factory       *factory.Factory
	Logger        zerolog.Logger
}

// Engine owns the state, the cache service and the reducer. Dispatch is the
// only writer; readers get immutable snapshots.
type Engine struct {
	mu        sync.Mutex
	state     *models.AppState
	reducer   *reducer.Reducer
	cache     *cache.Service
	selectors *selectors.Selectors
	logger    zerolog.Logger
}

// New creates an engine over initial. A nil initial state starts with one
// default portfolio.
func New(initial *models.AppState, opts Options) *Engine {
	f := opts.Factory
	if f == nil {
		f = factory.New()
	}
	svc := cache.NewService(opts.CacheCapacity)
	if initial == nil {
		name := opts.PortfolioName
		if name == "" {
			name = factory.DefaultPortfolioName
		}
		initial = f.NewAppState(name)
	}
	return &Engine{
		state:     initial,
		reducer:   reducer.New(f, svc),
		cache:     svc,
		selectors: selectors.New(svc),
		logger:    opts.Logger,
	}
}

// State returns the current state. Callers must not modify it.
func (e *Engine) State() *models.AppState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Active returns the active portfolio of the current state.
func (e *Engine) Active() (*models.Portfolio, error) {
	return models.FindActivePortfolio(e.State())
}

// Selectors returns the cached selectors bound to this engine's cache.
func (e *Engine) Selectors() *selectors.Selectors {
	return e.selectors
}

// Dispatch applies action and reports whether the state changed.
func (e *Engine) Dispatch(action reducer.Action) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	prev := e.state
	e.state = e.reducer.Reduce(prev, action)
	changed := e.state != prev

	tag := "unknown"
	if action != nil {
		tag = action.Type()
	}
	logger := logging.WithAction(logging.WithPortfolio(e.logger, e.state.ActivePortfolioID), tag)
	logging.LogAction(logger, !changed, time.Since(start))
	return changed
}

// DispatchAll applies actions in order and returns how many changed state.
func (e *Engine) DispatchAll(actions []reducer.Action) int {
	n := 0
	for _, a := range actions {
		if e.Dispatch(a) {
			n++
		}
	}
	return n
}

// CacheStats returns the counters of the calculation tables and logs them.
func (e *Engine) CacheStats() []cache.TableStats {
	stats := e.cache.Stats()
	for _, s := range stats {
		logging.LogCacheStats(e.logger, s.Name, s.Size, s.Capacity, s.Hits, s.Misses, s.Evictions)
	}
	return stats
}
