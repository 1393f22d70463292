package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-tracker/internal/config"
	apperrors "portfolio-tracker/internal/errors"
	"portfolio-tracker/internal/models"
	"portfolio-tracker/internal/selectors"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return runWithLogger(t, zerolog.Nop(), stdin, args...)
}

func runWithLogger(t *testing.T, logger zerolog.Logger, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(config.Default(), logger)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const seedActions = `[
  {"type": "add-holding", "payload": {"holding": {"name": "Fund", "ticker": "FND", "price": 100, "qty": 10}}},
  {"type": "set-total", "payload": {"total": 2000}}
]`

// seedState builds a state with FND (10 @ 100) and a cash buffer of 1000.
func seedState(t *testing.T, dir string) string {
	t.Helper()
	actions := writeFile(t, dir, "seed.json", seedActions)
	statePath := filepath.Join(dir, "state.json")
	_, err := run(t, "", "apply", "--actions", actions, "--out", statePath)
	require.NoError(t, err)
	return statePath
}

func decodeState(t *testing.T, data []byte) *models.AppState {
	t.Helper()
	var state models.AppState
	require.NoError(t, json.Unmarshal(data, &state))
	return &state
}

func activeOf(t *testing.T, state *models.AppState) *models.Portfolio {
	t.Helper()
	p, err := models.FindActivePortfolio(state)
	require.NoError(t, err)
	return p
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "0.1.0"`)
}

func TestConfigValidateCommand(t *testing.T) {
	out, err := run(t, "", "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
}

func TestApplyCommand_WritesStateToStdout(t *testing.T) {
	dir := t.TempDir()
	actions := writeFile(t, dir, "actions.json", seedActions)

	out, err := run(t, "", "apply", "--actions", actions)
	require.NoError(t, err)

	p := activeOf(t, decodeState(t, []byte(out)))
	assert.Equal(t, "Main", p.Name)
	require.Len(t, p.Holdings, 2)
	assert.Equal(t, "Cash buffer", p.Holdings[1].Name)
	assert.Equal(t, 1000.0, p.Holdings[1].Qty)
	assert.True(t, p.Settings.LockTotal)
}

func TestApplyCommand_ReadsActionsFromStdin(t *testing.T) {
	dir := t.TempDir()
	statePath := seedState(t, dir)

	out, err := run(t, `[{"type":"set-total","payload":{"total":3000}}]`,
		"apply", "--state", statePath, "--actions", "-")
	require.NoError(t, err)

	p := activeOf(t, decodeState(t, []byte(out)))
	assert.Equal(t, 2000.0, p.Holdings[1].Qty)
	assert.Equal(t, 3000.0, p.IncludedTotal())
}

func TestApplyCommand_OutReportsCounts(t *testing.T) {
	dir := t.TempDir()
	statePath := seedState(t, dir)
	actions := writeFile(t, dir, "noop.json", `[
  {"type": "delete-holding", "payload": {"id": "missing"}},
  {"type": "unlock-total"}
]`)
	outPath := filepath.Join(dir, "next.json")

	out, err := run(t, "", "apply", "--state", statePath, "--actions", actions, "--out", outPath, "--json")
	require.NoError(t, err)

	var res applyResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.Applied)
	assert.Equal(t, 1, res.Changed)
	assert.Equal(t, outPath, res.Out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.False(t, activeOf(t, decodeState(t, data)).Settings.LockTotal)
}

func TestApplyCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	unknown := writeFile(t, dir, "unknown.json", `[{"type":"launch-rocket","payload":{}}]`)
	badState := writeFile(t, dir, "bad.json", `{"portfolios": [], "activePortfolioId": "x"}`)

	_, err := run(t, "", "apply", "--actions", unknown)
	assert.ErrorIs(t, err, apperrors.ErrUnknownAction)

	_, err = run(t, "", "apply", "--actions", unknown, "--state", badState)
	assert.ErrorIs(t, err, apperrors.ErrActivePortfolioNotFound)

	_, err = run(t, "", "apply", "--actions", filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = run(t, "", "apply")
	assert.Error(t, err)
}

func TestApplyCommand_LogsRejectedAction(t *testing.T) {
	dir := t.TempDir()
	actions := writeFile(t, dir, "bad.json", `[{"type":"unlock-total"},{"type":"launch-rocket","payload":{}}]`)
	var logs bytes.Buffer

	_, err := runWithLogger(t, zerolog.New(&logs), "", "apply", "--actions", actions)

	assert.ErrorIs(t, err, apperrors.ErrUnknownAction)
	assert.Contains(t, logs.String(), `"event":"decode"`)
	assert.Contains(t, logs.String(), `"index":1`)
	assert.Contains(t, logs.String(), `"operation":"apply"`)
}

func TestSummaryCommand(t *testing.T) {
	dir := t.TempDir()
	statePath := seedState(t, dir)

	out, err := run(t, "", "summary", "--state", statePath, "--json")
	require.NoError(t, err)

	var report summaryReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "GBP", report.Currency)
	assert.Equal(t, 2000.0, report.Live.TotalValue)
	assert.Len(t, report.Holdings, 2)

	text, err := run(t, "", "summary", "--state", statePath)
	require.NoError(t, err)
	assert.Contains(t, text, "Total value:  £2,000.00")
	assert.Contains(t, text, "Locked total: £2,000.00")
	assert.Contains(t, text, "FND")
}

func TestSummaryCommand_SelectsPortfolioAndHolding(t *testing.T) {
	dir := t.TempDir()
	statePath := seedState(t, dir)
	data, err := os.ReadFile(statePath)
	require.NoError(t, err)
	p := activeOf(t, decodeState(t, data))

	out, err := run(t, "", "summary", "--state", statePath, "--json", "--portfolio", p.ID, "--holding", p.Holdings[0].ID)
	require.NoError(t, err)
	var report summaryReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, p.ID, report.PortfolioID)
	require.Len(t, report.Holdings, 1)
	assert.Equal(t, "Fund", report.Holdings[0].Name)

	_, err = run(t, "", "summary", "--state", statePath, "--portfolio", "missing")
	assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)

	_, err = run(t, "", "summary", "--state", statePath, "--holding", "missing")
	assert.ErrorIs(t, err, apperrors.ErrHoldingNotFound)

	_, err = run(t, "", "budgets", "--state", statePath, "--portfolio", "missing")
	assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)
}

func TestSummaryCommand_HonoursFilters(t *testing.T) {
	dir := t.TempDir()
	statePath := seedState(t, dir)
	filtered := filepath.Join(dir, "filtered.json")
	actions := writeFile(t, dir, "filter.json", `[{"type":"set-filter","payload":{"key":"section","value":"Cash"}}]`)
	_, err := run(t, "", "apply", "--state", statePath, "--actions", actions, "--out", filtered)
	require.NoError(t, err)

	out, err := run(t, "", "summary", "--state", filtered, "--json")
	require.NoError(t, err)

	var report summaryReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Holdings, 1)
	assert.Equal(t, "Cash buffer", report.Holdings[0].Name)
}

func TestBudgetsCommand(t *testing.T) {
	dir := t.TempDir()
	statePath := seedState(t, dir)
	budgeted := filepath.Join(dir, "budgeted.json")
	actions := writeFile(t, dir, "budget.json",
		`[{"type":"set-budget","payload":{"domain":"sections","key":"Core","limit":{"percent":40}}}]`)
	_, err := run(t, "", "apply", "--state", statePath, "--actions", actions, "--out", budgeted)
	require.NoError(t, err)

	out, err := run(t, "", "budgets", "--state", budgeted, "--json")
	require.NoError(t, err)

	var usage []selectors.BudgetUsage
	require.NoError(t, json.Unmarshal([]byte(out), &usage))
	require.Len(t, usage, 1)
	assert.Equal(t, "Core", usage[0].Key)
	assert.Equal(t, 800.0, usage[0].Limit)
	assert.Equal(t, 1000.0, usage[0].Used)
	assert.True(t, usage[0].Over())

	text, err := run(t, "", "budgets", "--state", statePath, "--domain", "themes")
	require.NoError(t, err)
	assert.Contains(t, text, "No themes budgets set")
}

func TestBudgetsCommand_RejectsDomain(t *testing.T) {
	_, err := run(t, "", "budgets", "--domain", "planets")

	assert.ErrorIs(t, err, apperrors.ErrInputValidation)
	var verr *apperrors.ValidationError
	require.True(t, apperrors.As(err, &verr))
	assert.Equal(t, "domain", verr.Field)
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	statePath := seedState(t, dir)
	rows := writeFile(t, dir, "rows.json", `[
  {"ticker": "fnd", "name": "Fund", "qty": 12, "price": 100},
  {"ticker": "NEW", "name": "New Fund", "qty": 4, "price": 25}
]`)

	out, err := run(t, "", "diff", "--state", statePath, "--rows", rows, "--json")
	require.NoError(t, err)

	var report diffReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Diffs, 2)
	assert.Equal(t, "new", string(report.Diffs[0].Kind))
	assert.Equal(t, "changed", string(report.Diffs[1].Kind))
	assert.Equal(t, 1, report.Summary.NewCount)
	assert.Equal(t, 1, report.Summary.ChangedCount)
	assert.Equal(t, 100.0, report.Summary.EstimatedValueChange)

	text, err := run(t, "", "diff", "--state", statePath, "--rows", rows)
	require.NoError(t, err)
	assert.Contains(t, text, "10 -> 12")
	assert.Contains(t, text, "New: 1  Changed: 1  Unchanged: 0")
}

func TestDiffCommand_Import(t *testing.T) {
	dir := t.TempDir()
	statePath := seedState(t, dir)
	rows := writeFile(t, dir, "rows.json", `[{"ticker": "NEW", "name": "New Fund", "qty": 4, "price": 25}]`)

	out, err := run(t, "", "diff", "--state", statePath, "--rows", rows, "--import")
	require.NoError(t, err)

	p := activeOf(t, decodeState(t, []byte(out)))
	require.Len(t, p.Holdings, 3)
	assert.Equal(t, "NEW", p.Holdings[2].Ticker)
	assert.Equal(t, 4.0, p.Holdings[2].Qty)
}

func TestPricesCommand(t *testing.T) {
	dir := t.TempDir()
	statePath := seedState(t, dir)
	prices := writeFile(t, dir, "prices.json", `{
  "fnd": {"price": 11000, "change": 50, "changePercent": 0.5, "originalCurrency": "GBX"},
  "ZZZ": {"price": 1}
}`)

	out, err := run(t, "", "prices", "--state", statePath, "--prices", prices)
	require.NoError(t, err)

	p := activeOf(t, decodeState(t, []byte(out)))
	fund := p.Holdings[0]
	require.NotNil(t, fund.LivePrice)
	assert.Equal(t, 110.0, *fund.LivePrice)
	assert.Nil(t, p.Holdings[1].LivePrice, "cash is never priced")
}

func TestActionsCommand(t *testing.T) {
	out, err := run(t, "", "actions")
	require.NoError(t, err)
	assert.Contains(t, out, "set-total\n")
	assert.Contains(t, out, "update-live-prices\n")
}
