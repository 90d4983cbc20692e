package domain

// Movie is the catalog movie as consumers outside the persistence layer see
// it: fully materialized, with relation names resolved.
type Movie struct {
	ID          uint
	Title       string
	Overview    string
	Status      string
	ReleaseYear int
	Popularity  float64
	VoteAverage float64
	VoteCount   int
	Adult       bool
	Sentiment   float64
	Runtime     int
	Countries   []string
	Stars       []string
	Genres      []string
	Directors   []string
	Actors      []string
}

// Genre is a catalog genre.
type Genre struct {
	ID   uint
	Name string
}

// Director is a catalog director.
type Director struct {
	ID   uint
	Name string
}

// Actor is a catalog actor.
type Actor struct {
	ID   uint
	Name string
}
