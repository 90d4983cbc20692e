package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/reelmetrics/reelmetrics/internal/analytics"
	"github.com/reelmetrics/reelmetrics/internal/catalog/domain"
	pkgerrors "github.com/reelmetrics/reelmetrics/pkg/errors"
)

// GormRepository implements the catalog Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM catalog repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// recordRow is the scan target for the joined catalog view.
type recordRow struct {
	MovieID             uint
	Title               string
	Genre               string
	Director            string
	Actor               string
	Status              string
	ReleaseYear         int
	Popularity          float64
	VoteAverage         float64
	VoteCount           int
	Adult               bool
	OverviewSentiment   float64
	Runtime             int
	ProductionCountries string
	Star1               string
	Star2               string
	Star3               string
	Star4               string
}

const movieColumns = `movies.id AS movie_id, movies.title, movies.status, ` +
	`movies.release_year, movies.popularity, movies.vote_average, ` +
	`movies.vote_count, movies.adult, movies.overview_sentiment, ` +
	`movies.runtime, movies.production_countries, ` +
	`movies.star1, movies.star2, movies.star3, movies.star4`

// LoadRecords materializes the joined catalog view in one query: one row
// per (movie x included relation) combination, inner-joined, so movies
// lacking an included relation drop out. Rows come back in a stable order
// (movie id, then joined names) which the aggregation engine relies on for
// deterministic tie-breaking.
func (r *GormRepository) LoadRecords(
	ctx context.Context,
	spec analytics.JoinSpec,
	filter analytics.Filter,
) (analytics.RecordSet, error) {
	selects := movieColumns
	order := "movies.id"

	q := r.db.WithContext(ctx).Table("movies")

	if spec.Genres {
		selects += ", genres.name AS genre"
		order += ", genres.name"
		q = q.Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
			Joins("JOIN genres ON genres.id = movie_genres.genre_id")
	}
	if spec.Directors {
		selects += ", directors.name AS director"
		order += ", directors.name"
		q = q.Joins("JOIN movie_directors ON movie_directors.movie_id = movies.id").
			Joins("JOIN directors ON directors.id = movie_directors.director_id")
	}
	if spec.Actors {
		selects += ", actors.name AS actor"
		order += ", actors.name"
		q = q.Joins("JOIN movie_actors ON movie_actors.movie_id = movies.id").
			Joins("JOIN actors ON actors.id = movie_actors.actor_id")
	}

	q = applyFilter(q, spec, filter)

	var rows []recordRow
	if err := q.Select(selects).Order(order).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Unavailable("failed to load catalog records", err)
	}

	records := make(analytics.RecordSet, len(rows))
	for i := range rows {
		records[i] = rows[i].toRecord()
	}
	return records, nil
}

// applyFilter narrows the joined view by the optional year/genre/director
// selections. Genre and director filters reuse the join when present and
// fall back to a membership subquery otherwise, so a year chart can still be
// filtered by genre without multiplying its rows.
func applyFilter(q *gorm.DB, spec analytics.JoinSpec, filter analytics.Filter) *gorm.DB {
	if len(filter.Years) > 0 {
		q = q.Where("movies.release_year IN ?", filter.Years)
	}
	if len(filter.Genres) > 0 {
		if spec.Genres {
			q = q.Where("genres.name IN ?", filter.Genres)
		} else {
			q = q.Where(
				"movies.id IN (SELECT mg.movie_id FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id WHERE g.name IN ?)",
				filter.Genres)
		}
	}
	if len(filter.Directors) > 0 {
		if spec.Directors {
			q = q.Where("directors.name IN ?", filter.Directors)
		} else {
			q = q.Where(
				"movies.id IN (SELECT md.movie_id FROM movie_directors md JOIN directors d ON d.id = md.director_id WHERE d.name IN ?)",
				filter.Directors)
		}
	}
	return q
}

func (row *recordRow) toRecord() analytics.Record {
	stars := make([]string, 0, 4)
	for _, s := range []string{row.Star1, row.Star2, row.Star3, row.Star4} {
		if strings.TrimSpace(s) != "" {
			stars = append(stars, strings.TrimSpace(s))
		}
	}

	return analytics.Record{
		MovieID:     row.MovieID,
		Title:       row.Title,
		Genre:       row.Genre,
		Director:    row.Director,
		Actor:       row.Actor,
		Status:      row.Status,
		ReleaseYear: row.ReleaseYear,
		Popularity:  row.Popularity,
		VoteAverage: row.VoteAverage,
		VoteCount:   row.VoteCount,
		Sentiment:   row.OverviewSentiment,
		Runtime:     row.Runtime,
		Adult:       row.Adult,
		Countries:   row.ProductionCountries,
		Stars:       strings.Join(stars, ", "),
	}
}

// GetMovieRecord returns a single movie's analytics record without relation
// columns.
func (r *GormRepository) GetMovieRecord(ctx context.Context, movieID uint) (*analytics.Record, error) {
	var row recordRow
	err := r.db.WithContext(ctx).Table("movies").
		Select(movieColumns).
		Where("movies.id = ?", movieID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("movie not found")
		}
		return nil, pkgerrors.Unavailable("failed to load movie", err)
	}

	record := row.toRecord()
	return &record, nil
}

// SearchMovies finds movies by case-insensitive title substring, most
// popular first.
func (r *GormRepository) SearchMovies(ctx context.Context, query string, limit int) (analytics.RecordSet, error) {
	var rows []recordRow
	err := r.db.WithContext(ctx).Table("movies").
		Select(movieColumns).
		Where("LOWER(movies.title) LIKE ?", "%"+strings.ToLower(query)+"%").
		Order("movies.popularity DESC").
		Order("movies.title").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Unavailable("failed to search movies", err)
	}

	records := make(analytics.RecordSet, len(rows))
	for i := range rows {
		records[i] = rows[i].toRecord()
	}
	return records, nil
}

// GetMovie returns a movie with genres, directors, and actors resolved.
func (r *GormRepository) GetMovie(ctx context.Context, movieID uint) (*domain.Movie, error) {
	var movie Movie
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Preload("Directors").
		Preload("Actors").
		First(&movie, "id = ?", movieID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("movie not found")
		}
		return nil, pkgerrors.Unavailable("failed to load movie", err)
	}

	dm := movie.ToDomain()
	return &dm, nil
}

// MoviesByGenres returns movies tagged with any of the given genres,
// excluding the given ids, ordered by popularity descending.
func (r *GormRepository) MoviesByGenres(
	ctx context.Context,
	genres []string,
	excludeIDs []uint,
	limit int,
) ([]domain.Movie, error) {
	if len(genres) == 0 {
		return nil, nil
	}

	sub := r.db.Table("movie_genres").
		Select("movie_genres.movie_id").
		Joins("JOIN genres ON genres.id = movie_genres.genre_id").
		Where("genres.name IN ?", genres)

	q := r.db.WithContext(ctx).Model(&Movie{}).
		Where("movies.id IN (?)", sub)
	if len(excludeIDs) > 0 {
		q = q.Where("movies.id NOT IN ?", excludeIDs)
	}

	var movies []Movie
	err := q.Order("movies.popularity DESC").
		Order("movies.title").
		Limit(limit).
		Preload("Genres").
		Find(&movies).Error
	if err != nil {
		return nil, pkgerrors.Unavailable("failed to load movies by genre", err)
	}

	result := make([]domain.Movie, len(movies))
	for i := range movies {
		result[i] = movies[i].ToDomain()
	}
	return result, nil
}

// ListGenres lists all genres by name.
func (r *GormRepository) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	var genres []Genre
	if err := r.db.WithContext(ctx).Order("name").Find(&genres).Error; err != nil {
		return nil, pkgerrors.Unavailable("failed to list genres", err)
	}

	result := make([]domain.Genre, len(genres))
	for i, g := range genres {
		result[i] = domain.Genre{ID: g.ID, Name: g.Name}
	}
	return result, nil
}
