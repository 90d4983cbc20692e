package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/reelmetrics/reelmetrics/pkg/interfaces"
)

// CatalogReader loads fully-materialized records from the catalog store. No
// implementation may trigger further lookups lazily; everything a report
// needs is in the returned set.
type CatalogReader interface {
	// LoadRecords returns one record per joined combination reachable under
	// the join spec, narrowed by the filter, in stable storage order.
	LoadRecords(ctx context.Context, spec JoinSpec, filter Filter) (RecordSet, error)

	// GetMovieRecord returns the single movie's record without relation
	// columns.
	GetMovieRecord(ctx context.Context, movieID uint) (*Record, error)

	// SearchMovies returns movies whose title contains the query,
	// case-insensitively, ordered by popularity descending.
	SearchMovies(ctx context.Context, query string, limit int) (RecordSet, error)
}

// ExternalMovie is one movie summary fetched from the third-party catalog
// API. Fields missing from the upstream payload stay at their zero value.
type ExternalMovie struct {
	Title       string
	Overview    string
	ReleaseYear int
	Popularity  float64
	VoteAverage float64
	VoteCount   int
	Adult       bool
}

// TrendSource fetches pages of popular movies from the external catalog API.
// Implementations merge whatever pages succeed; a failed page contributes
// nothing and does not abort the rest.
type TrendSource interface {
	FetchPopular(ctx context.Context, pages int) ([]ExternalMovie, error)
}

// Config tunes the report pipeline. The normalization maxima and vote
// thresholds were empirical constants in earlier incarnations of these
// dashboards; here they are deployment configuration.
type Config struct {
	// CacheTTL bounds how long catalog-wide report results are served from
	// cache. Per-user and single-movie computations are never cached.
	CacheTTL time.Duration

	// VoteCountQuantile positions the minimum-votes threshold m within the
	// ranked population's vote counts.
	VoteCountQuantile float64

	// SingleMovieMinVotes is the fixed m used when ranking no population,
	// i.e. single-movie indicator lookups.
	SingleMovieMinVotes float64

	// FallbackRating substitutes for an undefined weighted rating in
	// display output.
	FallbackRating float64

	// Score carries the combined-score normalization maxima; zero values
	// mean "derive from the population".
	Score ScoreConfig

	// TrendPages is how many external catalog pages the trending report
	// fetches.
	TrendPages int
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL:            300 * time.Second,
		VoteCountQuantile:   0.90,
		SingleMovieMinVotes: 500,
		FallbackRating:      0,
		TrendPages:          5,
	}
}

// ReportService computes the dashboard reports. Every computation is
// self-contained per request: load, normalize, aggregate, derive, rank, in
// that order, with no shared mutable state beyond the read-through cache.
type ReportService struct {
	catalog CatalogReader
	trends  TrendSource
	cache   interfaces.Cache
	logger  interfaces.Logger
	cfg     Config
}

// NewReportService creates a new report service.
func NewReportService(
	catalog CatalogReader,
	trends TrendSource,
	cache interfaces.Cache,
	logger interfaces.Logger,
	cfg Config,
) *ReportService {
	if cfg.VoteCountQuantile <= 0 || cfg.VoteCountQuantile >= 1 {
		cfg.VoteCountQuantile = 0.90
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 300 * time.Second
	}
	return &ReportService{
		catalog: catalog,
		trends:  trends,
		cache:   cache,
		logger:  logger,
		cfg:     cfg,
	}
}

// GenreDistribution reports movie count and mean popularity per genre.
// Movies without any genre are absent from the joined view and therefore
// from the chart.
func (s *ReportService) GenreDistribution(ctx context.Context, filter Filter) ([]AggregatedRow, error) {
	return s.cachedReport(ctx, "genre_distribution", filter, func() ([]AggregatedRow, error) {
		records, err := s.catalog.LoadRecords(ctx, JoinSpec{Genres: true}, filter)
		if err != nil {
			return nil, err
		}
		return Aggregate(records,
			ByPrimary(func(r Record) string { return r.Genre }),
			CountMovies("movie_count"),
			MeanOf("mean_popularity", func(r Record) float64 { return r.Popularity }),
		), nil
	})
}

// CountryDistribution reports movie count per production country, exploding
// the delimiter-joined country column first.
func (s *ReportService) CountryDistribution(ctx context.Context, filter Filter) ([]AggregatedRow, error) {
	return s.cachedReport(ctx, "country_distribution", filter, func() ([]AggregatedRow, error) {
		records, err := s.catalog.LoadRecords(ctx, JoinSpec{}, filter)
		if err != nil {
			return nil, err
		}
		exploded := Explode(records, FieldCountries)
		return Aggregate(exploded,
			ByPrimary(func(r Record) string { return r.Countries }),
			CountMovies("movie_count"),
		), nil
	})
}

// TopDirectors ranks directors by mean popularity of their movies, top 10.
func (s *ReportService) TopDirectors(ctx context.Context, filter Filter) ([]AggregatedRow, error) {
	return s.cachedReport(ctx, "top_directors", filter, func() ([]AggregatedRow, error) {
		records, err := s.catalog.LoadRecords(ctx, JoinSpec{Directors: true}, filter)
		if err != nil {
			return nil, err
		}
		rows := Aggregate(records,
			ByPrimary(func(r Record) string { return r.Director }),
			MeanOf("mean_popularity", func(r Record) float64 { return r.Popularity }),
			CountMovies("movie_count"),
		)
		return TopK(rows, reportTopN,
			SortKey{Metric: "mean_popularity", Descending: true},
			SortKey{Metric: "movie_count", Descending: true},
		), nil
	})
}

// TopActors ranks credited actors by appearance count, top 10.
func (s *ReportService) TopActors(ctx context.Context, filter Filter) ([]AggregatedRow, error) {
	return s.cachedReport(ctx, "top_actors", filter, func() ([]AggregatedRow, error) {
		records, err := s.catalog.LoadRecords(ctx, JoinSpec{Actors: true}, filter)
		if err != nil {
			return nil, err
		}
		rows := Aggregate(records,
			ByPrimary(func(r Record) string { return r.Actor }),
			CountMovies("appearances"),
			MeanOf("mean_popularity", func(r Record) float64 { return r.Popularity }),
		)
		return TopK(rows, reportTopN,
			SortKey{Metric: "appearances", Descending: true},
			SortKey{Metric: "mean_popularity", Descending: true},
		), nil
	})
}

// TopStarredActors ranks the movies' star-billing slots by mean popularity,
// top 10. The star column is a multi-value field, so it is exploded first;
// movies without star billing drop out of this chart.
func (s *ReportService) TopStarredActors(ctx context.Context, filter Filter) ([]AggregatedRow, error) {
	return s.cachedReport(ctx, "top_starred_actors", filter, func() ([]AggregatedRow, error) {
		records, err := s.catalog.LoadRecords(ctx, JoinSpec{}, filter)
		if err != nil {
			return nil, err
		}
		exploded := Explode(records, FieldStars)
		rows := Aggregate(exploded,
			ByPrimary(func(r Record) string { return r.Stars }),
			MeanOf("mean_popularity", func(r Record) float64 { return r.Popularity }),
			CountMovies("appearances"),
		)
		return TopK(rows, reportTopN,
			SortKey{Metric: "mean_popularity", Descending: true},
			SortKey{Metric: "appearances", Descending: true},
		), nil
	})
}

// YearlyTrend reports per release year: movie count, mean popularity, and
// mean vote average, ordered by year ascending. The release year column is
// nullable upstream; records without one are excluded. Keys are zero-padded
// so the lexical key order matches numeric year order.
func (s *ReportService) YearlyTrend(ctx context.Context, filter Filter) ([]AggregatedRow, error) {
	return s.cachedReport(ctx, "yearly_trend", filter, func() ([]AggregatedRow, error) {
		records, err := s.catalog.LoadRecords(ctx, JoinSpec{}, filter)
		if err != nil {
			return nil, err
		}
		withYear := make(RecordSet, 0, len(records))
		for _, rec := range records {
			if rec.ReleaseYear > 0 {
				withYear = append(withYear, rec)
			}
		}
		rows := Aggregate(withYear,
			ByPrimary(func(r Record) string { return fmt.Sprintf("%04d", r.ReleaseYear) }),
			CountMovies("movie_count"),
			MeanOf("mean_popularity", func(r Record) float64 { return r.Popularity }),
			MeanOf("mean_vote_average", func(r Record) float64 { return r.VoteAverage }),
		)
		return SortByKey(rows), nil
	})
}

// RuntimeByGenre reports mean runtime per genre. Records without a known
// runtime are excluded before aggregation so they cannot drag the mean to
// zero.
func (s *ReportService) RuntimeByGenre(ctx context.Context, filter Filter) ([]AggregatedRow, error) {
	return s.cachedReport(ctx, "runtime_by_genre", filter, func() ([]AggregatedRow, error) {
		records, err := s.catalog.LoadRecords(ctx, JoinSpec{Genres: true}, filter)
		if err != nil {
			return nil, err
		}
		withRuntime := make(RecordSet, 0, len(records))
		for _, rec := range records {
			if rec.Runtime > 0 {
				withRuntime = append(withRuntime, rec)
			}
		}
		return Aggregate(withRuntime,
			ByPrimary(func(r Record) string { return r.Genre }),
			MeanOf("mean_runtime", func(r Record) float64 { return float64(r.Runtime) }),
			CountMovies("movie_count"),
		), nil
	})
}

// MovieIndicator is the per-movie gauge payload.
type MovieIndicator struct {
	MovieID        uint
	Title          string
	WeightedRating float64
	CombinedScore  float64
	// RatingDefined is false when the weighted rating was undefined and the
	// configured fallback was substituted.
	RatingDefined bool
}

// MovieIndicator computes the single-movie gauge: the weighted rating
// against the catalog population and the combined popularity/sentiment
// score. An undefined weighted rating degrades to the configured fallback
// instead of failing the report.
func (s *ReportService) MovieIndicator(ctx context.Context, movieID uint) (*MovieIndicator, error) {
	movie, err := s.catalog.GetMovieRecord(ctx, movieID)
	if err != nil {
		return nil, err
	}

	population, err := s.catalog.LoadRecords(ctx, JoinSpec{}, Filter{})
	if err != nil {
		return nil, err
	}
	stats := StatsFromPopulation(population, s.cfg.VoteCountQuantile)

	score := s.cfg.Score
	if score.MaxPopularity <= 0 || score.MaxSentiment <= 0 {
		score = MaximaFromPopulation(population)
	}

	indicator := &MovieIndicator{
		MovieID:       movie.MovieID,
		Title:         movie.Title,
		RatingDefined: true,
	}

	wr, err := WeightedRating(movie.VoteCount, movie.VoteAverage, stats.MeanVote, s.cfg.SingleMovieMinVotes)
	if err != nil {
		s.logger.Warn("Weighted rating undefined, using fallback",
			interfaces.Int("movie_id", int(movie.MovieID)),
			interfaces.Error(err))
		wr = s.cfg.FallbackRating
		indicator.RatingDefined = false
	}

	indicator.WeightedRating = wr
	indicator.CombinedScore = CombinedScore(wr, movie.Popularity, movie.Sentiment, score)
	return indicator, nil
}

// TrendingMovie is one ranked row of the externally-enriched trending
// report.
type TrendingMovie struct {
	Title          string
	ReleaseYear    int
	Popularity     float64
	VoteAverage    float64
	VoteCount      int
	WeightedRating float64
	TrendScore     float64
}

// TrendingReport fetches popular movies from the external catalog API,
// computes the weighted rating over the fetched population and a
// recency-damped trend score per movie, and ranks by weighted rating. Pages
// that failed to fetch simply contribute nothing.
func (s *ReportService) TrendingReport(ctx context.Context) ([]TrendingMovie, error) {
	external, err := s.trends.FetchPopular(ctx, s.cfg.TrendPages)
	if err != nil {
		return nil, err
	}
	if len(external) == 0 {
		return nil, nil
	}

	var voteSum float64
	counts := make([]float64, len(external))
	for i, m := range external {
		voteSum += m.VoteAverage
		counts[i] = float64(m.VoteCount)
	}
	meanVote := voteSum / float64(len(external))
	minVotes := Quantile(counts, s.cfg.VoteCountQuantile)

	currentYear := time.Now().UTC().Year()
	trending := make([]TrendingMovie, len(external))
	for i, m := range external {
		wr, err := WeightedRating(m.VoteCount, m.VoteAverage, meanVote, minVotes)
		if err != nil {
			wr = s.cfg.FallbackRating
		}
		trending[i] = TrendingMovie{
			Title:          m.Title,
			ReleaseYear:    m.ReleaseYear,
			Popularity:     m.Popularity,
			VoteAverage:    m.VoteAverage,
			VoteCount:      m.VoteCount,
			WeightedRating: wr,
			TrendScore:     TrendScore(m.Popularity, m.ReleaseYear, currentYear),
		}
	}

	sortTrending(trending)
	return trending, nil
}

// sortTrending orders by weighted rating descending, title ascending as the
// deterministic tie-break.
func sortTrending(rows []TrendingMovie) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].WeightedRating != rows[j].WeightedRating {
			return rows[i].WeightedRating > rows[j].WeightedRating
		}
		return rows[i].Title < rows[j].Title
	})
}

// SearchMovies finds catalog titles by case-insensitive substring match.
func (s *ReportService) SearchMovies(ctx context.Context, query string, limit int) (RecordSet, error) {
	if limit <= 0 {
		limit = searchDefaultLimit
	}
	return s.catalog.SearchMovies(ctx, query, limit)
}

const (
	reportTopN         = 10
	searchDefaultLimit = 20
)

// cachedReport serves a catalog-wide report through the TTL cache. The key
// includes the filter fragment since results differ per selection.
func (s *ReportService) cachedReport(
	ctx context.Context,
	name string,
	filter Filter,
	compute func() ([]AggregatedRow, error),
) ([]AggregatedRow, error) {
	key := "report:" + name + "|" + filter.CacheKey()
	if cached, err := s.cache.Get(ctx, key); err == nil {
		if rows, ok := cached.([]AggregatedRow); ok {
			return rows, nil
		}
	}

	rows, err := compute()
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, rows, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("Failed to cache report", interfaces.String("report", name), interfaces.Error(err))
	}
	return rows, nil
}
