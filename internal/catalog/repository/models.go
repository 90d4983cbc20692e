package repository

import (
	"strings"

	"github.com/reelmetrics/reelmetrics/internal/catalog/domain"
)

// Movie mirrors the upstream relational dataset row for a movie. The star
// billing slots and production countries arrive denormalized in the source
// data and stay that way; the analytics normalizer explodes them on demand.
type Movie struct {
	ID                  uint   `gorm:"primaryKey"`
	Title               string `gorm:"size:200;not null;index"`
	Overview            string `gorm:"type:text"`
	Status              string `gorm:"size:50"`
	ReleaseYear         int    `gorm:"index"`
	Popularity          float64
	VoteAverage         float64
	VoteCount           int
	Adult               bool
	OverviewSentiment   float64
	CombinedKeywords    string `gorm:"type:text"`
	Runtime             int
	ProductionCountries string `gorm:"size:255"`
	Star1               string `gorm:"size:100"`
	Star2               string `gorm:"size:100"`
	Star3               string `gorm:"size:100"`
	Star4               string `gorm:"size:100"`

	Genres    []Genre    `gorm:"many2many:movie_genres;"`
	Actors    []Actor    `gorm:"many2many:movie_actors;"`
	Directors []Director `gorm:"many2many:movie_directors;"`
}

// Genre is a catalog genre.
type Genre struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;uniqueIndex;not null"`

	Movies []Movie `gorm:"many2many:movie_genres;"`
}

// Actor is a catalog actor.
type Actor struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;uniqueIndex;not null"`

	Movies []Movie `gorm:"many2many:movie_actors;"`
}

// Director is a catalog director.
type Director struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;uniqueIndex;not null"`

	Movies []Movie `gorm:"many2many:movie_directors;"`
}

// TableName customizations

func (Movie) TableName() string {
	return "movies"
}

func (Genre) TableName() string {
	return "genres"
}

func (Actor) TableName() string {
	return "actors"
}

func (Director) TableName() string {
	return "directors"
}

// Stars returns the non-empty star billing slots, comma-joined, in slot
// order.
func (m *Movie) Stars() string {
	slots := []string{m.Star1, m.Star2, m.Star3, m.Star4}
	stars := make([]string, 0, len(slots))
	for _, s := range slots {
		if strings.TrimSpace(s) != "" {
			stars = append(stars, strings.TrimSpace(s))
		}
	}
	return strings.Join(stars, ", ")
}

// ToDomain converts the persistence model into the domain view, resolving
// loaded relations to names. Relations that were not preloaded come out
// empty.
func (m *Movie) ToDomain() domain.Movie {
	movie := domain.Movie{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    m.Overview,
		Status:      m.Status,
		ReleaseYear: m.ReleaseYear,
		Popularity:  m.Popularity,
		VoteAverage: m.VoteAverage,
		VoteCount:   m.VoteCount,
		Adult:       m.Adult,
		Sentiment:   m.OverviewSentiment,
		Runtime:     m.Runtime,
		Countries:   splitList(m.ProductionCountries),
		Stars:       splitList(m.Stars()),
	}
	for _, g := range m.Genres {
		movie.Genres = append(movie.Genres, g.Name)
	}
	for _, d := range m.Directors {
		movie.Directors = append(movie.Directors, d.Name)
	}
	for _, a := range m.Actors {
		movie.Actors = append(movie.Actors, a.Name)
	}
	return movie
}

func splitList(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	return values
}
