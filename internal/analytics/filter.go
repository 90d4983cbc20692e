package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// JoinSpec declares which catalog relations the loader materializes into the
// record set. Included relations contribute one output row per joined
// combination; movies lacking an included relation drop out entirely (inner
// joins).
type JoinSpec struct {
	Genres    bool
	Directors bool
	Actors    bool
}

// Filter narrows a report to optional year, genre, and director selections.
// Values arrive pre-validated at the boundary; the zero Filter selects the
// whole catalog.
type Filter struct {
	Years     []int
	Genres    []string
	Directors []string
}

// IsZero reports whether the filter selects the whole catalog.
func (f Filter) IsZero() bool {
	return len(f.Years) == 0 && len(f.Genres) == 0 && len(f.Directors) == 0
}

// CacheKey returns a deterministic fragment identifying the filter. Reports
// differ per filter selection, so the fragment is part of every report cache
// key. Selections are sorted so equal filters in different order share one
// entry.
func (f Filter) CacheKey() string {
	years := make([]string, len(f.Years))
	for i, y := range f.Years {
		years[i] = strconv.Itoa(y)
	}
	sort.Strings(years)

	genres := append([]string(nil), f.Genres...)
	sort.Strings(genres)

	directors := append([]string(nil), f.Directors...)
	sort.Strings(directors)

	return fmt.Sprintf("y=%s|g=%s|d=%s",
		strings.Join(years, ","),
		strings.Join(genres, ","),
		strings.Join(directors, ","))
}
