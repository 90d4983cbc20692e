package analytics

// GroupKey identifies one aggregation group. Secondary is empty for
// single-level grouping; two-level grouping (director x genre) fills both.
type GroupKey struct {
	Primary   string
	Secondary string
}

// Compare orders keys lexically, primary then secondary. Used as the final
// deterministic tie-break when ranking.
func (k GroupKey) Compare(other GroupKey) int {
	if k.Primary != other.Primary {
		if k.Primary < other.Primary {
			return -1
		}
		return 1
	}
	if k.Secondary != other.Secondary {
		if k.Secondary < other.Secondary {
			return -1
		}
		return 1
	}
	return 0
}

// Op is a reduction operator.
type Op int

const (
	// OpSum sums the value column across the group.
	OpSum Op = iota
	// OpMean averages the value column across the group. Groups are derived
	// from existing records only, so a mean over zero records cannot occur.
	OpMean
	// OpCount counts records in the group; the value column is ignored.
	OpCount
)

// Reducer names one reduced metric: which value to pull from a record and
// how to fold it.
type Reducer struct {
	Metric string
	Op     Op
	Value  func(Record) float64
}

// AggregatedRow is one derived, ephemeral output row: a group key plus the
// reduced metrics. Never persisted; rebuilt from catalog data per request.
type AggregatedRow struct {
	Key     GroupKey
	Metrics map[string]float64
}

type accumulator struct {
	key   GroupKey
	sums  []float64
	count int
}

// Aggregate groups records by keyFn and reduces each group with the given
// reducers. Output rows appear in first-seen input order, which keeps
// downstream tie-breaking stable. The input is never modified.
func Aggregate(rs RecordSet, keyFn func(Record) GroupKey, reducers ...Reducer) []AggregatedRow {
	index := make(map[GroupKey]int)
	groups := make([]*accumulator, 0)

	for _, rec := range rs {
		key := keyFn(rec)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, &accumulator{key: key, sums: make([]float64, len(reducers))})
		}
		acc := groups[i]
		acc.count++
		for j, red := range reducers {
			if red.Op == OpCount {
				continue
			}
			acc.sums[j] += red.Value(rec)
		}
	}

	rows := make([]AggregatedRow, len(groups))
	for i, acc := range groups {
		metrics := make(map[string]float64, len(reducers))
		for j, red := range reducers {
			switch red.Op {
			case OpSum:
				metrics[red.Metric] = acc.sums[j]
			case OpMean:
				metrics[red.Metric] = acc.sums[j] / float64(acc.count)
			case OpCount:
				metrics[red.Metric] = float64(acc.count)
			}
		}
		rows[i] = AggregatedRow{Key: acc.key, Metrics: metrics}
	}
	return rows
}

// ByPrimary groups on a single string column.
func ByPrimary(get func(Record) string) func(Record) GroupKey {
	return func(r Record) GroupKey {
		return GroupKey{Primary: get(r)}
	}
}

// ByPair groups on a two-level key tuple.
func ByPair(primary, secondary func(Record) string) func(Record) GroupKey {
	return func(r Record) GroupKey {
		return GroupKey{Primary: primary(r), Secondary: secondary(r)}
	}
}

// Common reducers used by the report pipeline.

// CountMovies counts records per group under the given metric name.
func CountMovies(metric string) Reducer {
	return Reducer{Metric: metric, Op: OpCount}
}

// MeanOf averages a value column per group.
func MeanOf(metric string, value func(Record) float64) Reducer {
	return Reducer{Metric: metric, Op: OpMean, Value: value}
}

// SumOf sums a value column per group.
func SumOf(metric string, value func(Record) float64) Reducer {
	return Reducer{Metric: metric, Op: OpSum, Value: value}
}
