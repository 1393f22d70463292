package engine

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-tracker/internal/factory"
	"portfolio-tracker/internal/models"
	"portfolio-tracker/internal/reducer"
)

func newTestEngine(buf *bytes.Buffer) *Engine {
	n := 0
	var mu sync.Mutex
	f := &factory.Factory{
		NewID: func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("id-%d", n)
		},
		Now:            func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
		Currency:       "GBP",
		CashBufferName: factory.DefaultCashBufferName,
	}
	return New(nil, Options{
		CacheCapacity: 10,
		Factory:       f,
		Logger:        zerolog.New(buf).Level(zerolog.DebugLevel),
	})
}

func TestEngine_DispatchUpdatesStateAndLogs(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEngine(&buf)
	before := e.State()

	changed := e.Dispatch(reducer.AddHolding{Holding: models.Holding{Name: "Fund", Ticker: "FND", Price: 10, Qty: 100}})

	assert.True(t, changed)
	assert.NotSame(t, before, e.State())
	assert.Contains(t, buf.String(), `"action":"add-holding"`)
	assert.Contains(t, buf.String(), `"noop":false`)

	p, err := e.Active()
	require.NoError(t, err)
	assert.Equal(t, 1000.0, e.Selectors().TotalValue(p))
}

func TestEngine_NoopKeepsState(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEngine(&buf)
	before := e.State()

	assert.False(t, e.Dispatch(reducer.DeleteHolding{ID: "missing"}))
	assert.Same(t, before, e.State())
	assert.Contains(t, buf.String(), `"noop":true`)
}

func TestEngine_InvalidationForcesRecompute(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEngine(&buf)
	e.Dispatch(reducer.AddHolding{Holding: models.Holding{Name: "Fund", Ticker: "FND", Price: 10, Qty: 100}})

	p, _ := e.Active()
	first := e.Selectors().Live(p)
	assert.Same(t, first, e.Selectors().Live(p))

	e.Dispatch(reducer.SetTotal{Total: 5000})
	p, _ = e.Active()
	live := e.Selectors().Live(p)

	assert.NotSame(t, first, live)
	assert.Equal(t, 5000.0, live.TotalValue)
}

func TestEngine_SetTotalScenario(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEngine(&buf)
	e.Dispatch(reducer.AddHolding{Holding: models.Holding{Name: "Fund", Ticker: "FND", Price: 100, Qty: 10}})

	e.Dispatch(reducer.SetTotal{Total: 2000})

	p, err := e.Active()
	require.NoError(t, err)
	require.Len(t, p.Holdings, 2)
	assert.Equal(t, 1000.0, p.Holdings[1].Qty)
	assert.Equal(t, 2000.0, *p.Settings.LockedTotal)
}

func TestEngine_ConcurrentDispatchIsSerialized(t *testing.T) {
	e := newTestEngine(&bytes.Buffer{})
	e.Dispatch(reducer.AddHolding{Holding: models.Holding{ID: "h", Name: "Fund", Ticker: "FND", Price: 1, Qty: 0, Include: true}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Dispatch(reducer.RecordTrade{HoldingID: "h", TradeType: models.TradeBuy, Price: 1, Qty: 1})
		}()
	}
	wg.Wait()

	p, err := e.Active()
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.FindHolding("h").Qty)
	assert.Len(t, p.Trades, 50)
}

func TestEngine_CacheStats(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEngine(&buf)
	p, _ := e.Active()
	e.Selectors().Live(p)
	e.Selectors().Live(p)

	stats := e.CacheStats()
	require.Len(t, stats, 3)
	assert.Equal(t, uint64(1), stats[0].Hits)
	assert.Equal(t, uint64(1), stats[0].Misses)
	assert.Contains(t, buf.String(), `"event":"cache_stats"`)
}

func TestEngine_DefaultPortfolioName(t *testing.T) {
	e := New(nil, Options{CacheCapacity: 1, PortfolioName: "ISA", Logger: zerolog.Nop()})

	p, err := e.Active()
	require.NoError(t, err)
	assert.Equal(t, "ISA", p.Name)
}
