package cache

// Table names.
const (
	LiveTable    = "live"
	TargetTable  = "target"
	DerivedTable = "derived"
)

// Invalidator is the narrow interface the reducer signals after mutations.
type Invalidator interface {
	InvalidateLiveCalculations()
	InvalidateTargetCalculations()
	InvalidateAllCalculations()
}

// Service groups the three calculation tables. A process normally owns a
// single Service; tests construct their own.
type Service struct {
	live    *Table[any]
	target  *Table[any]
	derived *Table[any]
}

// NewService creates a service whose tables hold capacity entries each.
func NewService(capacity int) *Service {
	return &Service{
		live:    NewTable[any](LiveTable, capacity),
		target:  NewTable[any](TargetTable, capacity),
		derived: NewTable[any](DerivedTable, capacity),
	}
}

// Live returns the live-calculation table.
func (s *Service) Live() *Table[any] { return s.live }

// Target returns the target-calculation table.
func (s *Service) Target() *Table[any] { return s.target }

// Derived returns the derived-holdings table.
func (s *Service) Derived() *Table[any] { return s.derived }

// InvalidateLiveCalculations clears the live and derived tables.
func (s *Service) InvalidateLiveCalculations() {
	s.live.Clear()
	s.derived.Clear()
}

// InvalidateTargetCalculations clears the target and derived tables.
func (s *Service) InvalidateTargetCalculations() {
	s.target.Clear()
	s.derived.Clear()
}

// InvalidateAllCalculations clears every table.
func (s *Service) InvalidateAllCalculations() {
	s.live.Clear()
	s.target.Clear()
	s.derived.Clear()
}

// Stats returns statistics for all tables.
func (s *Service) Stats() []TableStats {
	return []TableStats{s.live.Stats(), s.target.Stats(), s.derived.Stats()}
}

// Lookup returns the cached value for key, computing and storing it on a
// miss.
func Lookup[V any](t *Table[any], key string, compute func() V) V {
	if cached, ok := t.Get(key); ok {
		if v, ok := cached.(V); ok {
			return v
		}
	}
	v := compute()
	t.Set(key, v)
	return v
}
