package selectors

import (
	"sort"

	"portfolio-tracker/internal/budget"
	"portfolio-tracker/internal/models"
)

// BudgetUsage compares a budget limit with the value currently allocated.
type BudgetUsage struct {
	Domain      models.BudgetDomain `json:"domain"`
	Key         string              `json:"key"`
	Limit       float64             `json:"limit"`
	Used        float64             `json:"used"`
	Remaining   float64             `json:"remaining"`
	UsedPercent float64             `json:"usedPercent"`
	HasLimit    bool                `json:"hasLimit"`
}

// Over reports whether more than the limit is allocated.
func (u BudgetUsage) Over() bool {
	return u.HasLimit && u.Remaining < 0
}

// BudgetRemaining reports the usage of the budget for key in domain. Keys
// without a limit report HasLimit=false and a zero limit.
func (s *Selectors) BudgetRemaining(p *models.Portfolio, domain models.BudgetDomain, key string) BudgetUsage {
	live := s.Live(p)
	usage := BudgetUsage{Domain: domain, Key: key}

	switch domain {
	case models.BudgetSections:
		usage.Used = live.Section(key).Value
		usage.Limit, usage.HasLimit = portfolioLimit(p.Budgets.Sections[key], live.TotalValue)
	case models.BudgetAccounts:
		usage.Used = live.Account(key).Value
		usage.Limit, usage.HasLimit = portfolioLimit(p.Budgets.Accounts[key], live.TotalValue)
	case models.BudgetThemes:
		usage.Used = live.Theme(key).Value
		usage.Limit, usage.HasLimit = themeLimit(p, key, live.TotalValue)
	}

	usage.Remaining = usage.Limit - usage.Used
	usage.UsedPercent = percentOf(usage.Used, usage.Limit)
	return usage
}

// BudgetUtilization reports the usage of every budget in domain, sorted
// by key.
func (s *Selectors) BudgetUtilization(p *models.Portfolio, domain models.BudgetDomain) []BudgetUsage {
	limits := p.Budgets.Map(domain)
	keys := make([]string, 0, len(limits))
	for k := range limits {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]BudgetUsage, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.BudgetRemaining(p, domain, k))
	}
	return out
}

// portfolioLimit turns a section or account limit into an amount. A percent
// of the portfolio wins over an explicit amount, as in the target
// calculation.
func portfolioLimit(limit models.BudgetLimit, total float64) (float64, bool) {
	switch {
	case limit.Percent != nil:
		return *limit.Percent * total / 100, true
	case limit.Amount != nil:
		return *limit.Amount, true
	default:
		return 0, false
	}
}

// themeLimit turns a theme limit into an amount: its percent of the
// section's current allocation, else its own amount.
func themeLimit(p *models.Portfolio, theme string, total float64) (float64, bool) {
	limit := p.Budgets.Themes[theme]
	if limit.PercentOfSection != nil {
		section := p.Budgets.Sections[p.Lists.ThemeSections[theme]]
		sectionPct := budget.CalculateSectionCurrentPercent(section, total)
		sectionAmount := sectionPct * total / 100
		return sectionAmount * budget.CalculateThemeCurrentPercent(limit) / 100, true
	}
	if limit.Amount != nil {
		return *limit.Amount, true
	}
	return 0, false
}
