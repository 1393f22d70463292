package selectors

import (
	"sort"
	"strconv"
	"strings"

	"portfolio-tracker/internal/models"
)

// keyWriter builds fingerprints from field values. Fields are separated by
// a unit separator so values containing ordinary punctuation cannot collide.
type keyWriter struct {
	b strings.Builder
}

func (w *keyWriter) str(s string) {
	w.b.WriteString(s)
	w.b.WriteByte(0x1f)
}

func (w *keyWriter) num(v float64) {
	w.b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	w.b.WriteByte(0x1f)
}

func (w *keyWriter) opt(p *float64) {
	if p == nil {
		w.str("-")
		return
	}
	w.num(*p)
}

func (w *keyWriter) flag(v bool) {
	if v {
		w.str("1")
	} else {
		w.str("0")
	}
}

func (w *keyWriter) list(values []string) {
	w.num(float64(len(values)))
	for _, v := range values {
		w.str(v)
	}
}

func (w *keyWriter) budgets(m map[string]models.BudgetLimit) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w.num(float64(len(keys)))
	for _, k := range keys {
		limit := m[k]
		w.str(k)
		w.opt(limit.Percent)
		w.opt(limit.Amount)
		w.opt(limit.PercentOfSection)
	}
}

func (w *keyWriter) mapping(m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w.num(float64(len(keys)))
	for _, k := range keys {
		w.str(k)
		w.str(m[k])
	}
}

// LiveKey fingerprints the inputs of the live calculation: valuation
// settings, list order and each holding's identity, classification, price,
// quantity, inclusion and live quote. Budgets do not take part.
func LiveKey(p *models.Portfolio) string {
	var w keyWriter
	w.b.WriteString("live:")
	w.str(p.Settings.Currency)
	w.flag(p.Settings.EnableLivePricing)
	w.list(p.Lists.Sections)
	w.list(p.Lists.Themes)
	w.list(p.Lists.Accounts)
	w.num(float64(len(p.Holdings)))
	for _, h := range p.Holdings {
		w.str(h.ID)
		w.str(h.Name)
		w.str(h.Ticker)
		w.str(h.Section)
		w.str(h.Theme)
		w.str(h.Account)
		w.str(h.AssetType)
		w.num(h.Price)
		w.num(h.Qty)
		w.flag(h.Include)
		w.opt(h.LivePrice)
		w.opt(h.DayChange)
		w.opt(h.DayChangePercent)
	}
	return w.b.String()
}

// TargetKey fingerprints the inputs of the target calculation: the target
// portfolio value, section and theme budgets, the theme to section mapping
// and each holding's classification and target percent.
func TargetKey(p *models.Portfolio) string {
	var w keyWriter
	w.b.WriteString("target:")
	w.opt(p.Settings.TargetPortfolioValue)
	w.flag(p.Settings.LockTotal)
	w.opt(p.Settings.LockedTotal)
	w.budgets(p.Budgets.Sections)
	w.budgets(p.Budgets.Themes)
	w.mapping(p.Lists.ThemeSections)
	w.num(float64(len(p.Holdings)))
	for _, h := range p.Holdings {
		w.str(h.ID)
		w.str(h.Section)
		w.str(h.Theme)
		w.opt(h.TargetPct)
		w.flag(h.Include)
	}
	return w.b.String()
}

// DerivedKey composes the live and target keys.
func DerivedKey(liveKey, targetKey string) string {
	return "derived:" + liveKey + "|" + targetKey
}
