package recommend

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/reelmetrics/reelmetrics/internal/catalog/domain"
	"github.com/reelmetrics/reelmetrics/pkg/events"
	"github.com/reelmetrics/reelmetrics/pkg/interfaces"
)

const (
	topGenreCount = 3
	topMovieCount = 3
)

// FavoritesReader reads a user's favorites and stores computed
// recommendations.
type FavoritesReader interface {
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]domain.Movie, error)
	ReplaceRecommendations(ctx context.Context, userID uuid.UUID, movieIDs []uint) error
}

// CatalogReader queries the catalog for recommendation candidates.
type CatalogReader interface {
	MoviesByGenres(ctx context.Context, genres []string, excludeIDs []uint, limit int) ([]domain.Movie, error)
}

// GenreCount is one genre with its occurrence count across the user's
// favorites.
type GenreCount struct {
	Name  string
	Count int
}

// Result is the outcome of a personalized recommendation request.
type Result struct {
	// NeedsFavorites is true when the user has no favorites yet; the
	// caller should prompt for favorites instead of rendering a chart.
	NeedsFavorites bool

	// TopGenres are the genres driving the selection, strongest first.
	TopGenres []GenreCount

	// Movies are the recommended picks, most popular first. May be empty
	// when the catalog has nothing left after exclusions; that is a valid
	// result, not an error.
	Movies []domain.Movie
}

// Service computes personalized recommendations from a user's favorites.
type Service struct {
	favorites  FavoritesReader
	catalog    CatalogReader
	exclusions ExclusionStore
	eventBus   interfaces.EventBus
	logger     interfaces.Logger
}

// NewService creates a new recommendation service.
func NewService(
	favorites FavoritesReader,
	catalog CatalogReader,
	exclusions ExclusionStore,
	eventBus interfaces.EventBus,
	logger interfaces.Logger,
) *Service {
	return &Service{
		favorites:  favorites,
		catalog:    catalog,
		exclusions: exclusions,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Personalized derives the user's top genres from their favorites and picks
// the most popular catalog movies in those genres. The candidate pool
// excludes the user's own favorites as well as anything dismissed during
// this session. The computed picks replace the user's stored recommendation
// set.
func (s *Service) Personalized(ctx context.Context, userID uuid.UUID, sessionID string) (*Result, error) {
	favorites, err := s.favorites.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}

	topGenres := topGenresOf(favorites, topGenreCount)
	if len(topGenres) == 0 {
		return &Result{NeedsFavorites: true}, nil
	}

	excluded, err := s.exclusions.Excluded(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// Favorites are excluded from the pool: recommending what the user
	// already saved is noise.
	for _, fav := range favorites {
		excluded = append(excluded, fav.ID)
	}

	genreNames := make([]string, len(topGenres))
	for i, g := range topGenres {
		genreNames[i] = g.Name
	}

	movies, err := s.catalog.MoviesByGenres(ctx, genreNames, excluded, topMovieCount)
	if err != nil {
		return nil, err
	}

	movieIDs := make([]uint, len(movies))
	for i, m := range movies {
		movieIDs[i] = m.ID
	}
	if err := s.favorites.ReplaceRecommendations(ctx, userID, movieIDs); err != nil {
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.EventRecommendationsComputed, userID.String(), map[string]interface{}{
		"genres":    genreNames,
		"movie_ids": movieIDs,
	}))

	return &Result{TopGenres: topGenres, Movies: movies}, nil
}

// Dismiss removes a movie from the session's recommendation pool.
func (s *Service) Dismiss(ctx context.Context, sessionID string, movieID uint) error {
	return s.exclusions.Exclude(ctx, sessionID, movieID)
}

// topGenresOf counts genre occurrences across the favorites (a movie with
// three genres contributes one to each of three counters) and returns the
// strongest n, ties broken by genre name for determinism.
func topGenresOf(favorites []domain.Movie, n int) []GenreCount {
	counts := make(map[string]int)
	for _, movie := range favorites {
		for _, genre := range movie.Genres {
			counts[genre]++
		}
	}

	genres := make([]GenreCount, 0, len(counts))
	for name, count := range counts {
		genres = append(genres, GenreCount{Name: name, Count: count})
	}
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Count != genres[j].Count {
			return genres[i].Count > genres[j].Count
		}
		return genres[i].Name < genres[j].Name
	})

	if n > len(genres) {
		n = len(genres)
	}
	return genres[:n]
}
