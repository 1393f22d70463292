package reducer

import (
	"time"

	"portfolio-tracker/internal/models"
)

// Action is a state transition request. The set of actions is closed; each
// variant carries its own payload.
type Action interface {
	Type() string
	isAction()
}

// Action tags.
const (
	TypeAddHolding           = "add-holding"
	TypeUpdateHolding        = "update-holding"
	TypeDeleteHolding        = "delete-holding"
	TypeDuplicateHolding     = "duplicate-holding"
	TypeRecordTrade          = "record-trade"
	TypeImportTrades         = "import-trades"
	TypeSetTotal             = "set-total"
	TypeUnlockTotal          = "unlock-total"
	TypeUpdateSettings       = "update-settings"
	TypeSetBudget            = "set-budget"
	TypeAddListItem          = "add-list-item"
	TypeRenameListItem       = "rename-list-item"
	TypeRemoveListItem       = "remove-list-item"
	TypeReorderList          = "reorder-list"
	TypeSetThemeSection      = "set-theme-section"
	TypeImportHoldings       = "import-holdings"
	TypeAddPortfolio         = "add-portfolio"
	TypeRemovePortfolio      = "remove-portfolio"
	TypeRenamePortfolio      = "rename-portfolio"
	TypeSelectPortfolio      = "select-portfolio"
	TypeCreateDraftPortfolio = "create-draft-portfolio"
	TypePromoteDraft         = "promote-draft-to-actual"
	TypeSetPlaygroundEnabled = "set-playground-enabled"
	TypeRestorePlayground    = "restore-playground"
	TypeUpdateLivePrices     = "update-live-prices"
	TypeSetFilter            = "set-filter"
	TypeClearFilters         = "clear-filters"
)

// AddHolding appends a holding to the active portfolio. Missing fields are
// filled with factory defaults.
type AddHolding struct {
	Holding models.Holding `json:"holding"`
}

// UpdateHolding replaces the holding with the same ID.
type UpdateHolding struct {
	Holding models.Holding `json:"holding"`
}

// DeleteHolding removes a holding.
type DeleteHolding struct {
	ID string `json:"id"`
}

// DuplicateHolding inserts a copy of a holding with a fresh ID right after
// the original.
type DuplicateHolding struct {
	ID string `json:"id"`
}

// RecordTrade appends a trade to the log and folds it into the holding.
type RecordTrade struct {
	HoldingID string           `json:"holdingId"`
	TradeType models.TradeType `json:"tradeType"`
	Date      time.Time        `json:"date"`
	Price     float64          `json:"price"`
	Qty       float64          `json:"qty"`
}

// ImportTrades applies trades matched to holdings by ticker, creating
// holdings for unknown tickers.
type ImportTrades struct {
	Trades []models.ImportedTrade `json:"trades"`
}

// SetTotal locks the portfolio total and sizes the cash buffer to reach it.
type SetTotal struct {
	Total float64 `json:"total"`
}

// UnlockTotal releases a locked total. The cash buffer is kept.
type UnlockTotal struct{}

// UpdateSettings changes the set fields of the portfolio settings.
type UpdateSettings struct {
	Currency                  *string  `json:"currency,omitempty"`
	EnableLivePricing         *bool    `json:"enableLivePricing,omitempty"`
	LivePriceUpdateInterval   *int     `json:"livePriceUpdateInterval,omitempty"`
	TargetPortfolioValue      *float64 `json:"targetPortfolioValue,omitempty"`
	ClearTargetPortfolioValue bool     `json:"clearTargetPortfolioValue,omitempty"`
}

// SetBudget sets or clears the limit for key in a budget domain. A nil or
// empty limit removes the key. With PreserveRatios, a changed section
// percent rescales its themes and a changed theme percent rescales its
// holdings' targets.
type SetBudget struct {
	Domain         models.BudgetDomain `json:"domain"`
	Key            string              `json:"key"`
	Limit          *models.BudgetLimit `json:"limit,omitempty"`
	PreserveRatios bool                `json:"preserveRatios,omitempty"`
}

// AddListItem adds a name to a list. New themes map to Section when given.
type AddListItem struct {
	List    models.ListKind `json:"list"`
	Value   string          `json:"value"`
	Section string          `json:"section,omitempty"`
}

// RenameListItem renames a list entry and everything referencing it.
type RenameListItem struct {
	List models.ListKind `json:"list"`
	From string          `json:"from"`
	To   string          `json:"to"`
}

// RemoveListItem removes a list entry and reassigns what referenced it.
type RemoveListItem struct {
	List  models.ListKind `json:"list"`
	Value string          `json:"value"`
}

// ReorderList moves the entry at From to position To.
type ReorderList struct {
	List models.ListKind `json:"list"`
	From int             `json:"from"`
	To   int             `json:"to"`
}

// SetThemeSection maps a theme to a section.
type SetThemeSection struct {
	Theme   string `json:"theme"`
	Section string `json:"section"`
}

// ImportHoldings upserts extracted rows into the active portfolio.
type ImportHoldings struct {
	Rows []models.ExtractedHolding `json:"rows"`
}

// AddPortfolio creates a portfolio and makes it active.
type AddPortfolio struct {
	Name string `json:"name"`
}

// RemovePortfolio deletes a portfolio unless it is the last one.
type RemovePortfolio struct {
	ID string `json:"id"`
}

// RenamePortfolio renames a portfolio, suffixing duplicates.
type RenamePortfolio struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SelectPortfolio makes a portfolio active.
type SelectPortfolio struct {
	ID string `json:"id"`
}

// CreateDraftPortfolio clones a portfolio into a draft and activates it.
type CreateDraftPortfolio struct {
	ParentID string `json:"parentId"`
	Name     string `json:"name,omitempty"`
}

// PromoteDraftToActual replaces the draft's parent with the draft.
type PromoteDraftToActual struct {
	DraftID string `json:"draftId"`
}

// SetPlaygroundEnabled toggles the playground sandbox.
type SetPlaygroundEnabled struct {
	Enabled bool `json:"enabled"`
}

// RestorePlayground resets the active portfolio to the playground snapshot.
type RestorePlayground struct{}

// UpdateLivePrices ingests quotes keyed by ticker.
type UpdateLivePrices struct {
	Prices map[string]models.LivePrice `json:"prices"`
}

// SetFilter sets a filter value; an empty value removes the key.
type SetFilter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ClearFilters removes every filter.
type ClearFilters struct{}

func (AddHolding) Type() string           { return TypeAddHolding }
func (UpdateHolding) Type() string        { return TypeUpdateHolding }
func (DeleteHolding) Type() string        { return TypeDeleteHolding }
func (DuplicateHolding) Type() string     { return TypeDuplicateHolding }
func (RecordTrade) Type() string          { return TypeRecordTrade }
func (ImportTrades) Type() string         { return TypeImportTrades }
func (SetTotal) Type() string             { return TypeSetTotal }
func (UnlockTotal) Type() string          { return TypeUnlockTotal }
func (UpdateSettings) Type() string       { return TypeUpdateSettings }
func (SetBudget) Type() string            { return TypeSetBudget }
func (AddListItem) Type() string          { return TypeAddListItem }
func (RenameListItem) Type() string       { return TypeRenameListItem }
func (RemoveListItem) Type() string       { return TypeRemoveListItem }
func (ReorderList) Type() string          { return TypeReorderList }
func (SetThemeSection) Type() string      { return TypeSetThemeSection }
func (ImportHoldings) Type() string       { return TypeImportHoldings }
func (AddPortfolio) Type() string         { return TypeAddPortfolio }
func (RemovePortfolio) Type() string      { return TypeRemovePortfolio }
func (RenamePortfolio) Type() string      { return TypeRenamePortfolio }
func (SelectPortfolio) Type() string      { return TypeSelectPortfolio }
func (CreateDraftPortfolio) Type() string { return TypeCreateDraftPortfolio }
func (PromoteDraftToActual) Type() string { return TypePromoteDraft }
func (SetPlaygroundEnabled) Type() string { return TypeSetPlaygroundEnabled }
func (RestorePlayground) Type() string    { return TypeRestorePlayground }
func (UpdateLivePrices) Type() string     { return TypeUpdateLivePrices }
func (SetFilter) Type() string            { return TypeSetFilter }
func (ClearFilters) Type() string         { return TypeClearFilters }

func (AddHolding) isAction()           {}
func (UpdateHolding) isAction()        {}
func (DeleteHolding) isAction()        {}
func (DuplicateHolding) isAction()     {}
func (RecordTrade) isAction()          {}
func (ImportTrades) isAction()         {}
func (SetTotal) isAction()             {}
func (UnlockTotal) isAction()          {}
func (UpdateSettings) isAction()       {}
func (SetBudget) isAction()            {}
func (AddListItem) isAction()          {}
func (RenameListItem) isAction()       {}
func (RemoveListItem) isAction()       {}
func (ReorderList) isAction()          {}
func (SetThemeSection) isAction()      {}
func (ImportHoldings) isAction()       {}
func (AddPortfolio) isAction()         {}
func (RemovePortfolio) isAction()      {}
func (RenamePortfolio) isAction()      {}
func (SelectPortfolio) isAction()      {}
func (CreateDraftPortfolio) isAction() {}
func (PromoteDraftToActual) isAction() {}
func (SetPlaygroundEnabled) isAction() {}
func (RestorePlayground) isAction()    {}
func (UpdateLivePrices) isAction()     {}
func (SetFilter) isAction()            {}
func (ClearFilters) isAction()         {}
