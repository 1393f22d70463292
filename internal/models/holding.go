package models

import "time"

// Holding represents a single position inside a portfolio.
type Holding struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Ticker    string `json:"ticker"`
	Exchange  string `json:"exchange,omitempty"`
	Section   string `json:"section"`
	Theme     string `json:"theme"`
	AssetType string `json:"assetType"`
	Account   string `json:"account"`

	Price   float64 `json:"price"` // manual/basis price
	Qty     float64 `json:"qty"`
	AvgCost float64 `json:"avgCost"`

	// TargetPct is the desired share of the holding's theme.
	TargetPct *float64 `json:"targetPct,omitempty"`
	Include   bool     `json:"include"`

	LivePrice        *float64   `json:"livePrice,omitempty"`
	DayChange        *float64   `json:"dayChange,omitempty"`
	DayChangePercent *float64   `json:"dayChangePercent,omitempty"`
	LivePriceUpdated *time.Time `json:"livePriceUpdated,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of h.
func (h *Holding) Clone() *Holding {
	if h == nil {
		return nil
	}
	c := *h
	c.TargetPct = cloneFloat(h.TargetPct)
	c.LivePrice = cloneFloat(h.LivePrice)
	c.DayChange = cloneFloat(h.DayChange)
	c.DayChangePercent = cloneFloat(h.DayChangePercent)
	if h.LivePriceUpdated != nil {
		t := *h.LivePriceUpdated
		c.LivePriceUpdated = &t
	}
	return &c
}

// ManualValue is the value at the manually entered price.
func (h *Holding) ManualValue() float64 {
	return h.Price * h.Qty
}

// HasLivePrice reports whether a live quote has been ingested.
func (h *Holding) HasLivePrice() bool {
	return h.LivePrice != nil && *h.LivePrice > 0
}

// LiveValue is the value at the live price, falling back to the manual price.
func (h *Holding) LiveValue() float64 {
	if h.HasLivePrice() {
		return *h.LivePrice * h.Qty
	}
	return h.ManualValue()
}

// CurrentValue returns the live value when live pricing is in use.
func (h *Holding) CurrentValue(useLive bool) float64 {
	if useLive {
		return h.LiveValue()
	}
	return h.ManualValue()
}

// DayChangeValue is the absolute day change for the whole position.
func (h *Holding) DayChangeValue() float64 {
	if h.DayChange == nil {
		return 0
	}
	return *h.DayChange * h.Qty
}

// IsCash reports whether the holding is a cash position.
func (h *Holding) IsCash() bool {
	return h.AssetType == CashAssetType
}

// ExtractedHolding is a plain row produced by an external importer.
type ExtractedHolding struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
	Section   string  `json:"section,omitempty"`
	Theme     string  `json:"theme,omitempty"`
	Account   string  `json:"account,omitempty"`
	AssetType string  `json:"assetType,omitempty"`
	Exchange  string  `json:"exchange,omitempty"`
}

// LivePrice is a quote supplied by a price-fetching collaborator.
type LivePrice struct {
	Price            float64   `json:"price"`
	Change           float64   `json:"change"`
	ChangePercent    float64   `json:"changePercent"`
	Updated          time.Time `json:"updated"`
	OriginalPrice    *float64  `json:"originalPrice,omitempty"`
	OriginalCurrency string    `json:"originalCurrency,omitempty"`
}
