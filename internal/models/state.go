package models

import (
	apperrors "portfolio-tracker/internal/errors"
)

// AppState is the root of all portfolio data for a session.
type AppState struct {
	Portfolios        []*Portfolio      `json:"portfolios"`
	ActivePortfolioID string            `json:"activePortfolioId"`
	Filters           map[string]string `json:"filters"`
	Playground        Playground        `json:"playground"`
}

// Playground is a sandbox copy of the active portfolio.
type Playground struct {
	Enabled  bool       `json:"enabled"`
	Snapshot *Portfolio `json:"snapshot,omitempty"`
}

// ShallowCopy copies the state header and the portfolios slice.
func (s *AppState) ShallowCopy() *AppState {
	c := *s
	c.Portfolios = append([]*Portfolio(nil), s.Portfolios...)
	return &c
}

// PortfolioIndex returns the index of the portfolio with id, or -1.
func (s *AppState) PortfolioIndex(id string) int {
	for i, p := range s.Portfolios {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// FindPortfolio returns the portfolio with id, or nil.
func (s *AppState) FindPortfolio(id string) *Portfolio {
	if i := s.PortfolioIndex(id); i >= 0 {
		return s.Portfolios[i]
	}
	return nil
}

// LookupPortfolio returns the portfolio with id or ErrPortfolioNotFound.
func LookupPortfolio(s *AppState, id string) (*Portfolio, error) {
	p := s.FindPortfolio(id)
	if p == nil {
		return nil, apperrors.Wrapf(apperrors.ErrPortfolioNotFound, "id %q", id)
	}
	return p, nil
}

// FindActivePortfolio returns the active portfolio or
// ErrActivePortfolioNotFound when the state is inconsistent.
func FindActivePortfolio(s *AppState) (*Portfolio, error) {
	p := s.FindPortfolio(s.ActivePortfolioID)
	if p == nil {
		return nil, apperrors.Wrapf(apperrors.ErrActivePortfolioNotFound, "id %q", s.ActivePortfolioID)
	}
	return p, nil
}

// MustActivePortfolio returns the active portfolio and panics when it does
// not exist. A missing active portfolio means the state was built wrongly.
func MustActivePortfolio(s *AppState) *Portfolio {
	p, err := FindActivePortfolio(s)
	if err != nil {
		panic(err)
	}
	return p
}

// PortfolioNames returns the names of all portfolios except the one with
// excludeID.
func (s *AppState) PortfolioNames(excludeID string) []string {
	names := make([]string, 0, len(s.Portfolios))
	for _, p := range s.Portfolios {
		if p.ID != excludeID {
			names = append(names, p.Name)
		}
	}
	return names
}
