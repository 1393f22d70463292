package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"portfolio-tracker/internal/diff"
	apperrors "portfolio-tracker/internal/errors"
	"portfolio-tracker/internal/models"
	"portfolio-tracker/internal/reducer"
	"portfolio-tracker/internal/selectors"
)

// addPortfolioCommands adds the commands that operate on a state document.
func addPortfolioCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newApplyCmd(app))
	rootCmd.AddCommand(newSummaryCmd(app))
	rootCmd.AddCommand(newBudgetsCmd(app))
	rootCmd.AddCommand(newDiffCmd(app))
	rootCmd.AddCommand(newPricesCmd(app))
	rootCmd.AddCommand(newActionsCmd(app))
}

// applyResult reports a batch of dispatched actions.
type applyResult struct {
	Applied  int    `json:"applied"`
	Changed  int    `json:"changed"`
	Out      string `json:"out,omitempty"`
	Duration string `json:"duration"`
}

// finishApply writes the state and reports the batch. Without --out the
// state itself is the command output.
func finishApply(cmd *cobra.Command, app *App, out string, state *models.AppState, res applyResult) error {
	if err := writeState(cmd, out, state); err != nil {
		return err
	}
	app.Logger.Info().
		Int("applied", res.Applied).
		Int("changed", res.Changed).
		Str("duration", res.Duration).
		Msg("Actions applied")
	if out == "" {
		return nil
	}

	output := NewOutput(cmd, app)
	if output.IsJSON() {
		return output.JSON(res)
	}
	output.Success("Applied %d actions (%d changed state) in %s", res.Applied, res.Changed, res.Duration)
	output.Dim("State written to %s", out)
	return nil
}

func newApplyCmd(app *App) *cobra.Command {
	var statePath, actionsPath, out string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a list of actions to a state",
		Long: `Apply decodes a JSON array of {"type", "payload"} actions and dispatches
them in order against the state. Without --state a fresh state with one
portfolio is used.`,
		Example: `  portfolio apply --state state.json --actions actions.json --out state.json
  echo '[{"type":"set-total","payload":{"total":5000}}]' | portfolio apply --state state.json --actions -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := loadState(cmd, statePath)
			if err != nil {
				return err
			}
			actions, err := loadActions(cmd, actionsPath)
			if err != nil {
				return err
			}

			start := time.Now()
			eng := app.newEngine(state)
			changed := eng.DispatchAll(actions)
			eng.CacheStats()

			return finishApply(cmd, app, out, eng.State(), applyResult{
				Applied:  len(actions),
				Changed:  changed,
				Out:      out,
				Duration: FormatDuration(time.Since(start)),
			})
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "state JSON file (- for stdin)")
	cmd.Flags().StringVar(&actionsPath, "actions", "", "actions JSON file (- for stdin)")
	cmd.Flags().StringVar(&out, "out", "", "write the resulting state to this file")
	_ = cmd.MarkFlagRequired("actions")

	return cmd
}

// summaryReport is the JSON form of the summary command.
type summaryReport struct {
	PortfolioID string                     `json:"portfolioId"`
	Name        string                     `json:"name"`
	Currency    string                     `json:"currency"`
	Live        *selectors.LiveResult      `json:"live"`
	Target      *selectors.TargetResult    `json:"target"`
	Holdings    []selectors.DerivedHolding `json:"holdings"`
}

func newSummaryCmd(app *App) *cobra.Command {
	var statePath, portfolioID, holdingID string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show valuation and allocation of the active portfolio",
		Long: `Summary shows the total value, day change, section/theme/account
breakdowns and per-holding targets of the active portfolio. The holdings
table honours the filters stored in the state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := loadState(cmd, statePath)
			if err != nil {
				return err
			}
			eng := app.newEngine(state)
			p, err := selectPortfolio(eng, portfolioID)
			if err != nil {
				return err
			}
			visible := selectors.FilteredHoldings(eng.State().Filters, p)
			if holdingID != "" {
				h, err := p.LookupHolding(holdingID)
				if err != nil {
					return err
				}
				visible = []*models.Holding{h}
			}

			sel := eng.Selectors()
			live := sel.Live(p)
			target := sel.Target(p)
			holdings := filterDerived(sel.Derived(p).Holdings, visible)

			output := NewOutput(cmd, app)
			if output.IsJSON() {
				return output.JSON(summaryReport{
					PortfolioID: p.ID,
					Name:        p.Name,
					Currency:    p.Settings.Currency,
					Live:        live,
					Target:      target,
					Holdings:    holdings,
				})
			}
			renderSummary(output, p, live, target, holdings)
			return nil
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "state JSON file (- for stdin)")
	cmd.Flags().StringVar(&portfolioID, "portfolio", "", "portfolio ID to report (default: the active portfolio)")
	cmd.Flags().StringVar(&holdingID, "holding", "", "show only the holding with this ID")
	return cmd
}

func filterDerived(all []selectors.DerivedHolding, visible []*models.Holding) []selectors.DerivedHolding {
	ids := make(map[string]bool, len(visible))
	for _, h := range visible {
		ids[h.ID] = true
	}
	out := make([]selectors.DerivedHolding, 0, len(visible))
	for _, d := range all {
		if ids[d.ID] {
			out = append(out, d)
		}
	}
	return out
}

func renderSummary(output *Output, p *models.Portfolio, live *selectors.LiveResult, target *selectors.TargetResult, holdings []selectors.DerivedHolding) {
	cur := p.Settings.Currency

	output.Bold("%s (%s)", p.Name, p.Type)
	output.Printf("  Total value:  %s\n", FormatMoney(live.TotalValue, cur))
	if p.UsesLivePrices() {
		output.Printf("  Day change:   %s (%s)\n", output.FormatChange(live.DayChange, cur), output.FormatPercent(live.DayChangePercent))
	}
	if target.PortfolioTarget > 0 {
		output.Printf("  Target value: %s\n", FormatMoney(target.PortfolioTarget, cur))
	}
	if p.Settings.LockTotal && p.Settings.LockedTotal != nil {
		output.Printf("  Locked total: %s\n", FormatMoney(*p.Settings.LockedTotal, cur))
	}
	output.Println()

	renderBreakdown(output, "Sections", live.Sections, cur)
	renderBreakdown(output, "Themes", live.Themes, cur)
	renderBreakdown(output, "Accounts", live.Accounts, cur)

	output.Bold("Holdings")
	if len(holdings) == 0 {
		output.Dim("  No holdings")
		return
	}
	table := NewTable(output, "TICKER", "NAME", "SECTION", "THEME", "VALUE", "TARGET", "DELTA", "% PORT")
	for _, h := range holdings {
		name := TruncateString(h.Name, 28)
		if !h.Included {
			name = output.DimText(name)
		}
		table.AddRow(
			h.Ticker,
			name,
			h.Section,
			h.Theme,
			FormatMoney(h.Value, cur),
			FormatMoney(h.TargetValue, cur),
			output.FormatChange(h.Delta, cur),
			FormatShare(h.PercentOfPortfolio),
		)
	}
	table.Render()
}

func renderBreakdown(output *Output, title string, entries []selectors.BreakdownEntry, cur string) {
	if len(entries) == 0 {
		return
	}
	output.Bold(title)
	table := NewTable(output, "NAME", "HOLDINGS", "VALUE", "SHARE")
	for _, e := range entries {
		table.AddRow(e.Name, fmt.Sprintf("%d", e.Count), FormatMoney(e.Value, cur), FormatShare(e.Percent))
	}
	table.Render()
	output.Println()
}

func newBudgetsCmd(app *App) *cobra.Command {
	var statePath, domain, portfolioID string

	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Show budget utilization of the active portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := models.BudgetDomain(strings.ToLower(domain))
			if !d.Valid() {
				return fmt.Errorf("%w: %w", apperrors.ErrInputValidation,
					apperrors.NewValidationError("domain", domain, "must be sections, accounts or themes"))
			}

			state, err := loadState(cmd, statePath)
			if err != nil {
				return err
			}
			eng := app.newEngine(state)
			p, err := selectPortfolio(eng, portfolioID)
			if err != nil {
				return err
			}
			usage := eng.Selectors().BudgetUtilization(p, d)

			output := NewOutput(cmd, app)
			if output.IsJSON() {
				return output.JSON(usage)
			}
			if len(usage) == 0 {
				output.Dim("No %s budgets set", d)
				return nil
			}

			cur := p.Settings.Currency
			table := NewTable(output, "KEY", "LIMIT", "USED", "REMAINING", "USED %")
			for _, u := range usage {
				remaining := FormatMoney(u.Remaining, cur)
				if u.Over() {
					remaining = output.Red(remaining)
				}
				limit := FormatMoney(u.Limit, cur)
				if !u.HasLimit {
					limit = output.DimText("-")
				}
				table.AddRow(u.Key, limit, FormatMoney(u.Used, cur), remaining, FormatShare(u.UsedPercent))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "state JSON file (- for stdin)")
	cmd.Flags().StringVar(&domain, "domain", string(models.BudgetSections), "budget domain: sections, accounts or themes")
	cmd.Flags().StringVar(&portfolioID, "portfolio", "", "portfolio ID to report (default: the active portfolio)")
	return cmd
}

// diffReport is the JSON form of the diff command.
type diffReport struct {
	Diffs   []diff.Diff  `json:"diffs"`
	Summary diff.Summary `json:"summary"`
}

func newDiffCmd(app *App) *cobra.Command {
	var statePath, rowsPath, out string
	var apply bool

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare extracted holdings with the active portfolio",
		Long: `Diff classifies each extracted row as new, changed or unchanged against
the holdings of the active portfolio. With --import the rows are imported
and the resulting state is written like apply does.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := loadState(cmd, statePath)
			if err != nil {
				return err
			}
			var rows []models.ExtractedHolding
			if err := readJSON(cmd, rowsPath, &rows); err != nil {
				return err
			}

			eng := app.newEngine(state)
			p, err := eng.Active()
			if err != nil {
				return err
			}
			diffs := diff.Holdings(p.Holdings, rows)
			summary := diff.Summarize(diffs)

			if apply {
				start := time.Now()
				changed := eng.DispatchAll([]reducer.Action{reducer.ImportHoldings{Rows: diff.Accepted(diffs)}})
				return finishApply(cmd, app, out, eng.State(), applyResult{
					Applied:  1,
					Changed:  changed,
					Out:      out,
					Duration: FormatDuration(time.Since(start)),
				})
			}

			output := NewOutput(cmd, app)
			if output.IsJSON() {
				return output.JSON(diffReport{Diffs: diffs, Summary: summary})
			}
			renderDiff(output, p.Settings.Currency, diffs, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "state JSON file (- for stdin)")
	cmd.Flags().StringVar(&rowsPath, "rows", "", "extracted holdings JSON file (- for stdin)")
	cmd.Flags().BoolVar(&apply, "import", false, "import the rows and write the resulting state")
	cmd.Flags().StringVar(&out, "out", "", "with --import, write the resulting state to this file")
	_ = cmd.MarkFlagRequired("rows")

	return cmd
}

func renderDiff(output *Output, cur string, diffs []diff.Diff, summary diff.Summary) {
	table := NewTable(output, "KIND", "TICKER", "NAME", "QTY", "PRICE")
	for _, d := range diffs {
		kind := string(d.Kind)
		switch d.Kind {
		case diff.KindNew:
			kind = output.Green(kind)
		case diff.KindChanged:
			kind = output.Yellow(kind)
		case diff.KindUnchanged:
			kind = output.DimText(kind)
		}
		table.AddRow(
			kind,
			d.Extracted.Ticker,
			TruncateString(d.Extracted.Name, 28),
			describeChange(d, diff.FieldQty, FormatQuantity(d.Extracted.Qty), FormatQuantity),
			describeChange(d, diff.FieldPrice, FormatMoney(d.Extracted.Price, cur), func(v float64) string { return FormatMoney(v, cur) }),
		)
	}
	table.Render()
	output.Println()
	output.Printf("New: %d  Changed: %d  Unchanged: %d\n", summary.NewCount, summary.ChangedCount, summary.UnchangedCount)
	output.Printf("Estimated value added: %s\n", FormatMoney(summary.EstimatedValueChange, cur))
}

func describeChange(d diff.Diff, field, current string, format func(float64) string) string {
	c, ok := d.Changes[field]
	if !ok {
		return current
	}
	return format(c.Old) + " -> " + format(c.New)
}

func newPricesCmd(app *App) *cobra.Command {
	var statePath, pricesPath, out string

	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Merge live quotes into the active portfolio",
		Long: `Prices reads a JSON object mapping tickers to quotes
({"price", "change", "changePercent", "updated"}) and applies them to the
active portfolio. Quotes in minor units (GBX) are converted to pounds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := loadState(cmd, statePath)
			if err != nil {
				return err
			}
			prices := make(map[string]models.LivePrice)
			if err := readJSON(cmd, pricesPath, &prices); err != nil {
				return err
			}

			start := time.Now()
			eng := app.newEngine(state)
			changed := eng.DispatchAll([]reducer.Action{reducer.UpdateLivePrices{Prices: prices}})

			return finishApply(cmd, app, out, eng.State(), applyResult{
				Applied:  1,
				Changed:  changed,
				Out:      out,
				Duration: FormatDuration(time.Since(start)),
			})
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "state JSON file (- for stdin)")
	cmd.Flags().StringVar(&pricesPath, "prices", "", "live prices JSON file (- for stdin)")
	cmd.Flags().StringVar(&out, "out", "", "write the resulting state to this file")
	_ = cmd.MarkFlagRequired("prices")

	return cmd
}

func newActionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the action types accepted by apply",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd, app)
			if output.IsJSON() {
				output.JSON(reducer.Types())
				return
			}
			for _, t := range reducer.Types() {
				output.Println(t)
			}
		},
	}
}
