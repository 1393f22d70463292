package reducer

import (
	"math"
	"strings"
	"time"

	"portfolio-tracker/internal/diff"
	"portfolio-tracker/internal/models"
	"portfolio-tracker/internal/money"
)

func (r *Reducer) addHolding(state *models.AppState, a AddHolding) *models.AppState {
	return r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		if a.Holding.ID != "" && p.HoldingIndex(a.Holding.ID) >= 0 {
			return p
		}
		next := p.ShallowCopy()
		next.Holdings = append(next.Holdings, r.factory.NewHolding(a.Holding, p.Lists))
		return next
	})
}

func (r *Reducer) updateHolding(state *models.AppState, a UpdateHolding) *models.AppState {
	return r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		idx := p.HoldingIndex(a.Holding.ID)
		if idx < 0 {
			return p
		}
		h := a.Holding.Clone()
		h.Price = sanitize(h.Price)
		h.Qty = sanitize(h.Qty)
		h.AvgCost = sanitize(h.AvgCost)
		h.CreatedAt = p.Holdings[idx].CreatedAt
		h.UpdatedAt = r.factory.Now()

		next := p.ShallowCopy()
		next.Holdings[idx] = h
		return next
	})
}

func (r *Reducer) deleteHolding(state *models.AppState, a DeleteHolding) *models.AppState {
	return r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		idx := p.HoldingIndex(a.ID)
		if idx < 0 {
			return p
		}
		next := *p
		next.Holdings = removeHoldingAt(p.Holdings, idx)
		return &next
	})
}

func (r *Reducer) duplicateHolding(state *models.AppState, a DuplicateHolding) *models.AppState {
	return r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		idx := p.HoldingIndex(a.ID)
		if idx < 0 {
			return p
		}
		c := p.Holdings[idx].Clone()
		c.ID = r.factory.NewID()
		c.CreatedAt = r.factory.Now()
		c.UpdatedAt = c.CreatedAt

		next := *p
		next.Holdings = insertHoldingAt(p.Holdings, idx+1, c)
		return &next
	})
}

func (r *Reducer) recordTrade(state *models.AppState, a RecordTrade) *models.AppState {
	return r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		idx := p.HoldingIndex(a.HoldingID)
		if idx < 0 || !validTradeType(a.TradeType) {
			return p
		}
		old := p.Holdings[idx]
		trade := r.factory.NewTrade(old, a.TradeType, a.Date, sanitize(a.Price), sanitize(a.Qty))
		h := ApplyTradeToHolding(old, trade)
		h.UpdatedAt = r.factory.Now()

		next := p.ShallowCopy()
		next.Holdings[idx] = h
		next.Trades = appendTrades(p.Trades, trade)
		return next
	})
}

func (r *Reducer) importTrades(state *models.AppState, a ImportTrades) *models.AppState {
	if len(a.Trades) == 0 {
		return state
	}
	return r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		next := p.ShallowCopy()
		var trades []models.Trade
		for _, t := range a.Trades {
			if !validTradeType(t.Type) {
				continue
			}
			if strings.TrimSpace(t.Ticker) == "" && strings.TrimSpace(t.Name) == "" {
				continue
			}
			idx := tradeMatchIndex(next.Holdings, t)
			if idx < 0 {
				next.Holdings = append(next.Holdings, r.factory.FromImportedTrade(t, p.Lists))
				idx = len(next.Holdings) - 1
			}
			old := next.Holdings[idx]
			trade := r.factory.NewTrade(old, t.Type, t.Date, sanitize(t.Price), sanitize(t.Qty))
			h := ApplyTradeToHolding(old, trade)
			h.UpdatedAt = r.factory.Now()
			next.Holdings[idx] = h
			trades = append(trades, trade)
		}
		if len(trades) == 0 {
			return p
		}
		next.Trades = appendTrades(p.Trades, trades...)
		return next
	})
}

func appendTrades(log []models.Trade, trades ...models.Trade) []models.Trade {
	out := make([]models.Trade, 0, len(log)+len(trades))
	out = append(out, log...)
	return append(out, trades...)
}

// tradeMatchIndex returns the index of the holding an imported trade
// belongs to, or -1. Trades are keyed by ticker alone; a trade without a
// ticker falls back to the name of an untickered holding.
func tradeMatchIndex(holdings []*models.Holding, t models.ImportedTrade) int {
	ticker := strings.TrimSpace(t.Ticker)
	name := strings.TrimSpace(t.Name)
	for i, h := range holdings {
		ht := strings.TrimSpace(h.Ticker)
		if ticker != "" {
			if strings.EqualFold(ht, ticker) {
				return i
			}
			continue
		}
		if ht == "" && strings.EqualFold(strings.TrimSpace(h.Name), name) {
			return i
		}
	}
	return -1
}

// matchIndex returns the index of the holding matching row, or -1.
func matchIndex(holdings []*models.Holding, row models.ExtractedHolding) int {
	for i, h := range holdings {
		if diff.Matches(h, row) {
			return i
		}
	}
	return -1
}

// setTotal locks the total and sizes the cash buffer so the included
// holdings sum to it. Only the buffer itself is left out of the sum.
func (r *Reducer) setTotal(state *models.AppState, a SetTotal) *models.AppState {
	total := sanitize(a.Total)
	return r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		useLive := p.UsesLivePrices()
		bufIdx := -1
		var others float64
		for i, h := range p.Holdings {
			if r.factory.IsCashBuffer(h) {
				if bufIdx < 0 {
					bufIdx = i
				}
				continue
			}
			if h.Include {
				others += h.CurrentValue(useLive)
			}
		}
		cashQty := math.Max(0, money.Sub(total, others))

		s := p.Settings
		if bufIdx >= 0 && s.LockTotal && s.LockedTotal != nil && *s.LockedTotal == total {
			buf := p.Holdings[bufIdx]
			if buf.Qty == cashQty && buf.Price == 1 && buf.Include {
				return p
			}
		}

		next := p.ShallowCopy()
		next.Settings.LockTotal = true
		next.Settings.LockedTotal = models.Float(total)
		if bufIdx >= 0 {
			buf := p.Holdings[bufIdx].Clone()
			buf.Qty = cashQty
			buf.Price = 1
			buf.Include = true
			buf.UpdatedAt = r.factory.Now()
			next.Holdings[bufIdx] = buf
		} else {
			next.Holdings = append(next.Holdings, r.factory.NewCashBuffer(cashQty, p.Lists))
		}
		return next
	})
}

func (r *Reducer) unlockTotal(state *models.AppState) *models.AppState {
	return r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		if !p.Settings.LockTotal && p.Settings.LockedTotal == nil {
			return p
		}
		next := *p
		next.Settings.LockTotal = false
		next.Settings.LockedTotal = nil
		return &next
	})
}

func (r *Reducer) updateSettings(state *models.AppState, a UpdateSettings) (*models.AppState, invalidation) {
	p := models.MustActivePortfolio(state)
	s := p.Settings
	inv := invalidateNone
	changed := false

	if a.Currency != nil {
		if c := strings.TrimSpace(*a.Currency); c != "" && c != s.Currency {
			s.Currency = c
			inv |= invalidateLive
		}
	}
	if a.EnableLivePricing != nil && *a.EnableLivePricing != s.EnableLivePricing {
		s.EnableLivePricing = *a.EnableLivePricing
		inv |= invalidateLive
	}
	if a.LivePriceUpdateInterval != nil && *a.LivePriceUpdateInterval > 0 && *a.LivePriceUpdateInterval != s.LivePriceUpdateInterval {
		s.LivePriceUpdateInterval = *a.LivePriceUpdateInterval
		changed = true
	}
	switch {
	case a.ClearTargetPortfolioValue:
		if s.TargetPortfolioValue != nil {
			s.TargetPortfolioValue = nil
			inv |= invalidateTarget
		}
	case a.TargetPortfolioValue != nil:
		v := sanitize(*a.TargetPortfolioValue)
		if s.TargetPortfolioValue == nil || *s.TargetPortfolioValue != v {
			s.TargetPortfolioValue = models.Float(v)
			inv |= invalidateTarget
		}
	}

	if inv == invalidateNone && !changed {
		return state, invalidateNone
	}
	next := *p
	next.Settings = s
	next.UpdatedAt = r.factory.Now()
	return replacePortfolio(state, &next), inv
}

func (r *Reducer) updateLivePrices(state *models.AppState, a UpdateLivePrices) *models.AppState {
	if len(a.Prices) == 0 {
		return state
	}
	quotes := make(map[string]models.LivePrice, len(a.Prices))
	for ticker, q := range a.Prices {
		quotes[strings.ToUpper(strings.TrimSpace(ticker))] = q
	}

	return r.updateActive(state, func(p *models.Portfolio) *models.Portfolio {
		var next *models.Portfolio
		for i, h := range p.Holdings {
			if h.AssetType == models.CashAssetType || h.Ticker == "" {
				continue
			}
			q, ok := quotes[strings.ToUpper(strings.TrimSpace(h.Ticker))]
			if !ok {
				continue
			}
			price := money.ToMajorUnits(q.Price, q.OriginalCurrency)
			if math.IsNaN(price) || price <= 0 {
				continue
			}
			updated := q.Updated
			if updated.IsZero() {
				updated = r.factory.Now()
			}
			if sameQuote(h, price, q, updated) {
				continue
			}

			c := h.Clone()
			c.LivePrice = models.Float(price)
			c.DayChange = models.Float(q.Change)
			c.DayChangePercent = models.Float(q.ChangePercent)
			c.LivePriceUpdated = &updated
			if next == nil {
				next = p.ShallowCopy()
			}
			next.Holdings[i] = c
		}
		if next == nil {
			return p
		}
		return next
	})
}

func sameQuote(h *models.Holding, price float64, q models.LivePrice, updated time.Time) bool {
	return h.LivePrice != nil && *h.LivePrice == price &&
		h.DayChange != nil && *h.DayChange == q.Change &&
		h.DayChangePercent != nil && *h.DayChangePercent == q.ChangePercent &&
		h.LivePriceUpdated != nil && h.LivePriceUpdated.Equal(updated)
}
