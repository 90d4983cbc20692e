package analytics

import "strings"

// Record is one flat row of the joined catalog view: a single
// (movie x genre x director x actor) combination, depending on which
// relations the loader's join spec included. Relation columns that were not
// joined are left empty.
type Record struct {
	MovieID     uint
	Title       string
	Genre       string
	Director    string
	Actor       string
	Status      string
	ReleaseYear int
	Popularity  float64
	VoteAverage float64
	VoteCount   int
	Sentiment   float64
	Runtime     int
	Adult       bool

	// Delimiter-joined multi-value columns, exploded on demand.
	Countries string
	Stars     string
}

// RecordSet is the ephemeral, per-request tabular working set. It is built
// fresh for every report and discarded afterwards; nothing in this package
// mutates the catalog it was loaded from.
type RecordSet []Record

// StringField selects one delimiter-joined column of a Record so Explode can
// operate on it without stringly-typed column lookups.
type StringField struct {
	Name string
	Get  func(Record) string
	Set  func(*Record, string)
}

// Exploding fields for the catalog's multi-value columns.
var (
	FieldCountries = StringField{
		Name: "countries",
		Get:  func(r Record) string { return r.Countries },
		Set:  func(r *Record, v string) { r.Countries = v },
	}

	FieldStars = StringField{
		Name: "stars",
		Get:  func(r Record) string { return r.Stars },
		Set:  func(r *Record, v string) { r.Stars = v },
	}
)

// Explode replaces each record whose field holds N comma-joined values with
// N records holding exactly one value each; every other column is copied
// unchanged. Records with an empty or blank field produce zero output
// records: a movie without production countries simply vanishes from a
// country chart. Splitting an already-single-valued field is a no-op copy.
func Explode(rs RecordSet, field StringField) RecordSet {
	out := make(RecordSet, 0, len(rs))
	for _, rec := range rs {
		for _, part := range strings.Split(field.Get(rec), ",") {
			value := strings.TrimSpace(part)
			if value == "" {
				continue
			}
			exploded := rec
			field.Set(&exploded, value)
			out = append(out, exploded)
		}
	}
	return out
}
