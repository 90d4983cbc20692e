package repository

import (
	"context"

	"github.com/reelmetrics/reelmetrics/internal/analytics"
	"github.com/reelmetrics/reelmetrics/internal/catalog/domain"
)

// Repository provides read access to the movie catalog. The catalog is owned
// and mutated elsewhere; nothing here writes to it.
type Repository interface {
	// LoadRecords materializes the joined catalog view for the analytics
	// pipeline.
	LoadRecords(ctx context.Context, spec analytics.JoinSpec, filter analytics.Filter) (analytics.RecordSet, error)

	// GetMovieRecord returns a single movie's analytics record.
	GetMovieRecord(ctx context.Context, movieID uint) (*analytics.Record, error)

	// SearchMovies finds movies by case-insensitive title substring,
	// ordered by popularity descending.
	SearchMovies(ctx context.Context, query string, limit int) (analytics.RecordSet, error)

	// GetMovie returns a movie with its relations resolved.
	GetMovie(ctx context.Context, movieID uint) (*domain.Movie, error)

	// MoviesByGenres returns movies tagged with any of the genres, minus
	// the excluded ids, ordered by popularity descending, at most limit.
	MoviesByGenres(ctx context.Context, genres []string, excludeIDs []uint, limit int) ([]domain.Movie, error)

	// ListGenres lists all genres by name.
	ListGenres(ctx context.Context) ([]domain.Genre, error)
}
