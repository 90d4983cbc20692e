package analytics

import "sort"

// SortKey orders aggregated rows by one reduced metric. Rows missing the
// metric sort as zero.
type SortKey struct {
	Metric     string
	Descending bool
}

// TopK returns the first k rows of a total order over the aggregated rows:
// the sort keys in sequence, then lexical group-key order as the final
// deterministic tie-break. The same input always produces the same output,
// which report caching and tests rely on. When fewer than k groups exist all
// of them are returned; the input slice is never modified.
func TopK(rows []AggregatedRow, k int, keys ...SortKey) []AggregatedRow {
	if k <= 0 {
		return nil
	}

	sorted := make([]AggregatedRow, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		for _, key := range keys {
			av, bv := a.Metrics[key.Metric], b.Metrics[key.Metric]
			if av == bv {
				continue
			}
			if key.Descending {
				return av > bv
			}
			return av < bv
		}
		return a.Key.Compare(b.Key) < 0
	})

	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}

// SortByKey orders rows lexically by group key ascending. Used by charts
// whose axis is the key itself (release years).
func SortByKey(rows []AggregatedRow) []AggregatedRow {
	sorted := make([]AggregatedRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key.Compare(sorted[j].Key) < 0
	})
	return sorted
}
