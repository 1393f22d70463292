package models

import "time"

// Trade represents a recorded buy or sell. Trades are never edited.
type Trade struct {
	ID        string    `json:"id"`
	HoldingID string    `json:"holdingId"`
	Ticker    string    `json:"ticker,omitempty"`
	Type      TradeType `json:"type"`
	Date      time.Time `json:"date"`
	Price     float64   `json:"price"`
	Qty       float64   `json:"qty"`
}

// ImportedTrade is a trade row supplied by an importer, matched to holdings
// by ticker.
type ImportedTrade struct {
	Ticker    string    `json:"ticker"`
	Name      string    `json:"name,omitempty"`
	Type      TradeType `json:"type"`
	Date      time.Time `json:"date"`
	Price     float64   `json:"price"`
	Qty       float64   `json:"qty"`
	Section   string    `json:"section,omitempty"`
	Theme     string    `json:"theme,omitempty"`
	Account   string    `json:"account,omitempty"`
	AssetType string    `json:"assetType,omitempty"`
}
