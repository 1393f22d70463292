package reducer

import (
	"math"

	"portfolio-tracker/internal/models"
	"portfolio-tracker/internal/money"
)

// sanitize maps NaN, infinities and negative numbers to zero.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ApplyTradeToHolding folds trade into h using weighted-average cost and
// returns the updated copy. A buy with zero price is valued at the holding's
// current price. A sell never changes the average cost; a position sold down
// to zero resets it.
func ApplyTradeToHolding(h *models.Holding, trade models.Trade) *models.Holding {
	next := h.Clone()
	price := sanitize(trade.Price)
	qty := sanitize(trade.Qty)
	curQty := sanitize(h.Qty)
	curAvg := sanitize(h.AvgCost)

	switch trade.Type {
	case models.TradeBuy:
		effective := price
		if effective == 0 {
			effective = sanitize(h.Price)
		}
		total := money.Add(curQty, qty)
		if total <= 0 {
			next.Qty = 0
			next.AvgCost = 0
			return next
		}
		next.Qty = total
		next.AvgCost = money.WeightedAverage(curQty, curAvg, qty, effective)
		if price > 0 {
			next.Price = price
		}
	case models.TradeSell:
		remaining := money.Sub(curQty, qty)
		if remaining <= 0 {
			next.Qty = 0
			next.AvgCost = 0
			return next
		}
		next.Qty = remaining
		next.AvgCost = curAvg
	}
	return next
}

func validTradeType(t models.TradeType) bool {
	return t == models.TradeBuy || t == models.TradeSell
}
