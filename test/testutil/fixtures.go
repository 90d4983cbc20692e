package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/reelmetrics/reelmetrics/internal/catalog/repository"
	userdomain "github.com/reelmetrics/reelmetrics/internal/user/domain"
)

// MovieFixture describes a test movie in a compact literal form. Relation
// names are created on demand and reused across fixtures.
type MovieFixture struct {
	ID          uint
	Title       string
	Status      string
	ReleaseYear int
	Popularity  float64
	VoteAverage float64
	VoteCount   int
	Sentiment   float64
	Runtime     int
	Countries   string
	Stars       []string
	Genres      []string
	Directors   []string
	Actors      []string
}

// CreateTestMovie persists a movie with its relations, resolving genre,
// director, and actor names to existing rows or creating them.
func CreateTestMovie(t *testing.T, db *gorm.DB, fixture MovieFixture) *catalogrepo.Movie {
	t.Helper()

	movie := &catalogrepo.Movie{
		ID:                  fixture.ID,
		Title:               fixture.Title,
		Status:              fixture.Status,
		ReleaseYear:         fixture.ReleaseYear,
		Popularity:          fixture.Popularity,
		VoteAverage:         fixture.VoteAverage,
		VoteCount:           fixture.VoteCount,
		OverviewSentiment:   fixture.Sentiment,
		Runtime:             fixture.Runtime,
		ProductionCountries: fixture.Countries,
	}

	slots := []*string{&movie.Star1, &movie.Star2, &movie.Star3, &movie.Star4}
	for i, star := range fixture.Stars {
		if i >= len(slots) {
			break
		}
		*slots[i] = star
	}

	for _, name := range fixture.Genres {
		var genre catalogrepo.Genre
		if err := db.Where("name = ?", name).FirstOrCreate(&genre, catalogrepo.Genre{Name: name}).Error; err != nil {
			t.Fatalf("failed to create genre %q: %v", name, err)
		}
		movie.Genres = append(movie.Genres, genre)
	}
	for _, name := range fixture.Directors {
		var director catalogrepo.Director
		if err := db.Where("name = ?", name).FirstOrCreate(&director, catalogrepo.Director{Name: name}).Error; err != nil {
			t.Fatalf("failed to create director %q: %v", name, err)
		}
		movie.Directors = append(movie.Directors, director)
	}
	for _, name := range fixture.Actors {
		var actor catalogrepo.Actor
		if err := db.Where("name = ?", name).FirstOrCreate(&actor, catalogrepo.Actor{Name: name}).Error; err != nil {
			t.Fatalf("failed to create actor %q: %v", name, err)
		}
		movie.Actors = append(movie.Actors, actor)
	}

	if err := db.Create(movie).Error; err != nil {
		t.Fatalf("failed to create movie %q: %v", fixture.Title, err)
	}
	return movie
}

// CreateTestUser creates a test user with default values.
func CreateTestUser(username, email string) *userdomain.User {
	now := time.Now().UTC()
	user := &userdomain.User{
		ID:          uuid.New(),
		Username:    strings.ToLower(username),
		Email:       strings.ToLower(email),
		DisplayName: username,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_ = user.SetPassword("testpass123")
	return user
}
