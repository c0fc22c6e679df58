package models

// QueryResult is one decoded GraphQL response from Deep Lynx. Every response
// wraps its entity lists in data.metatypes.<Type>; when any nesting level is
// missing the result simply carries no entities.
type QueryResult struct {
	Data struct {
		Metatypes map[string][]map[string]any `json:"metatypes"`
	} `json:"data"`
}

// Entities returns the entity list for the given metatype name. A missing
// envelope level degrades to an empty list, never an error — the transport
// guarantees well-formed JSON but not non-empty result sets.
func (r *QueryResult) Entities(typeName string) []map[string]any {
	if r == nil || r.Data.Metatypes == nil {
		return nil
	}
	return r.Data.Metatypes[typeName]
}

// LotRecord is one typed Lot entity ready for aggregation. Metric fields are
// nil when the source value was absent, empty, or zero-coercing; a stored
// value is always finite and non-zero.
type LotRecord struct {
	LotID string
	Etc   *float64
	B     *float64
	EuC   *float64
}

// HasAnyValue reports whether at least one metric carries a value.
func (l *LotRecord) HasAnyValue() bool {
	return l.Etc != nil || l.B != nil || l.EuC != nil
}

// RunningPair accumulates a sum and the count of values that entered it.
type RunningPair struct {
	Sum   float64
	Count int
}

// Add folds one value into the pair.
func (p *RunningPair) Add(v float64) {
	p.Sum += v
	p.Count++
}

// Average returns the arithmetic mean, or nil when no values were seen.
// Never zero-for-empty: an undefined average must stay distinguishable
// from a computed average of 0.
func (p *RunningPair) Average() *float64 {
	if p.Count == 0 {
		return nil
	}
	avg := p.Sum / float64(p.Count)
	return &avg
}

// AggregateStats holds the reduction over a batch of LotRecords plus the
// Product-side magnitude pair.
type AggregateStats struct {
	Etc       RunningPair
	B         RunningPair
	EuC       RunningPair
	Magnitude RunningPair

	TotalLots      int
	LotsWithValues int
	TotalProducts  int
}
