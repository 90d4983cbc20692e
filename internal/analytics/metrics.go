package analytics

import (
	"errors"
	"math"
	"sort"
)

// ErrUndefinedRating is returned when a weighted rating cannot be computed
// because both the vote count and the minimum-votes threshold are zero. The
// failure is scoped to the single metric; callers substitute a display
// fallback rather than failing the whole report.
var ErrUndefinedRating = errors.New("weighted rating undefined: zero votes and zero threshold")

// WeightedRating computes the Bayesian-shrinkage rating
//
//	wr = v/(v+m)*R + m/(v+m)*C
//
// where v is the movie's vote count, R its vote average, C the mean vote
// average across the population being ranked, and m the minimum-votes
// threshold derived from that same population. With v = 0 the rating
// collapses to the population prior C; with v >> m it approaches R.
func WeightedRating(voteCount int, voteAverage, populationMean, minVotes float64) (float64, error) {
	v := float64(voteCount)
	if v+minVotes == 0 {
		return 0, ErrUndefinedRating
	}
	return v/(v+minVotes)*voteAverage + minVotes/(v+minVotes)*populationMean, nil
}

// Quantile returns the q-th quantile (0..1) of values using linear
// interpolation between order statistics. An empty input yields 0.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// DistinctMovies reduces a joined record set to one record per movie,
// keeping the first occurrence. Population statistics (prior mean, vote
// threshold, normalization maxima) must be computed over movies, not over
// join-multiplied rows.
func DistinctMovies(rs RecordSet) RecordSet {
	seen := make(map[uint]struct{}, len(rs))
	out := make(RecordSet, 0, len(rs))
	for _, rec := range rs {
		if _, ok := seen[rec.MovieID]; ok {
			continue
		}
		seen[rec.MovieID] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// PopulationStats holds the population-derived inputs of the weighted
// rating: the mean vote average C and the minimum-votes threshold m. The
// threshold is a quantile of the population's vote counts, so it tracks the
// population being ranked instead of freezing a global constant.
type PopulationStats struct {
	MeanVote float64
	MinVotes float64
}

// StatsFromPopulation derives C and m from the distinct movies of a record
// set, with m at the given vote-count quantile.
func StatsFromPopulation(rs RecordSet, voteQuantile float64) PopulationStats {
	movies := DistinctMovies(rs)
	if len(movies) == 0 {
		return PopulationStats{}
	}

	var voteSum float64
	counts := make([]float64, len(movies))
	for i, rec := range movies {
		voteSum += rec.VoteAverage
		counts[i] = float64(rec.VoteCount)
	}

	return PopulationStats{
		MeanVote: voteSum / float64(len(movies)),
		MinVotes: Quantile(counts, voteQuantile),
	}
}

// ScoreConfig holds the normalization maxima of the combined score. The
// values are configuration, not logic: they come either from the deployment
// config or from the live population via MaximaFromPopulation.
type ScoreConfig struct {
	MaxPopularity float64
	MaxSentiment  float64
}

// MaximaFromPopulation derives normalization maxima from the distinct movies
// of a record set. Maxima are floored at 1 so an all-zero population cannot
// divide by zero.
func MaximaFromPopulation(rs RecordSet) ScoreConfig {
	cfg := ScoreConfig{MaxPopularity: 1, MaxSentiment: 1}
	for _, rec := range DistinctMovies(rs) {
		if rec.Popularity > cfg.MaxPopularity {
			cfg.MaxPopularity = rec.Popularity
		}
		if rec.Sentiment > cfg.MaxSentiment {
			cfg.MaxSentiment = rec.Sentiment
		}
	}
	return cfg
}

// CombinedScore averages the normalized weighted rating, popularity, and
// overview sentiment with equal weight. Each input is normalized into [0,1]:
// the weighted rating by the 0-10 rating scale, the others by the configured
// maxima. Negative sentiment clamps to 0. The result drives a single
// gauge-style indicator per movie and always lands in [0,1].
func CombinedScore(weightedRating, popularity, sentiment float64, cfg ScoreConfig) float64 {
	return (clamp01(weightedRating/10) +
		clamp01(popularity/cfg.MaxPopularity) +
		clamp01(sentiment/cfg.MaxSentiment)) / 3
}

// TrendScore damps popularity by title age: popularity divided by the number
// of calendar years since release, inclusive. A future or current-year
// release divides by 1.
func TrendScore(popularity float64, releaseYear, currentYear int) float64 {
	age := float64(currentYear-releaseYear) + 1
	if age < 1 {
		age = 1
	}
	return popularity / age
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
