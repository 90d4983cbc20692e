package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelmetrics/reelmetrics/internal/analytics"
)

func TestAggregate_SumPerGroup(t *testing.T) {
	// Arrange
	records := analytics.RecordSet{
		{Genre: "Drama", Popularity: 10},
		{Genre: "Drama", Popularity: 20},
		{Genre: "Drama", Popularity: 5},
		{Genre: "Comedy", Popularity: 7},
	}

	// Act
	rows := analytics.Aggregate(records,
		analytics.ByPrimary(func(r analytics.Record) string { return r.Genre }),
		analytics.SumOf("total_popularity", func(r analytics.Record) float64 { return r.Popularity }),
	)

	// Assert
	require.Len(t, rows, 2)
	assert.Equal(t, "Drama", rows[0].Key.Primary)
	assert.Equal(t, 35.0, rows[0].Metrics["total_popularity"])
	assert.Equal(t, "Comedy", rows[1].Key.Primary)
	assert.Equal(t, 7.0, rows[1].Metrics["total_popularity"])
}

func TestAggregate_MeanAndCount(t *testing.T) {
	// Arrange
	records := analytics.RecordSet{
		{Genre: "Drama", VoteAverage: 8},
		{Genre: "Drama", VoteAverage: 6},
		{Genre: "Comedy", VoteAverage: 7},
	}

	// Act
	rows := analytics.Aggregate(records,
		analytics.ByPrimary(func(r analytics.Record) string { return r.Genre }),
		analytics.MeanOf("mean_vote", func(r analytics.Record) float64 { return r.VoteAverage }),
		analytics.CountMovies("movie_count"),
	)

	// Assert
	require.Len(t, rows, 2)
	assert.Equal(t, 7.0, rows[0].Metrics["mean_vote"])
	assert.Equal(t, 2.0, rows[0].Metrics["movie_count"])
	assert.Equal(t, 7.0, rows[1].Metrics["mean_vote"])
	assert.Equal(t, 1.0, rows[1].Metrics["movie_count"])
}

func TestAggregate_PreservesFirstSeenOrder(t *testing.T) {
	// Arrange
	records := analytics.RecordSet{
		{Genre: "Thriller"},
		{Genre: "Action"},
		{Genre: "Thriller"},
		{Genre: "Comedy"},
		{Genre: "Action"},
	}

	// Act
	rows := analytics.Aggregate(records,
		analytics.ByPrimary(func(r analytics.Record) string { return r.Genre }),
		analytics.CountMovies("n"),
	)

	// Assert
	require.Len(t, rows, 3)
	assert.Equal(t, "Thriller", rows[0].Key.Primary)
	assert.Equal(t, "Action", rows[1].Key.Primary)
	assert.Equal(t, "Comedy", rows[2].Key.Primary)
}

func TestAggregate_TwoLevelKey(t *testing.T) {
	// Arrange
	records := analytics.RecordSet{
		{Director: "Nolan", Genre: "Thriller", Popularity: 80},
		{Director: "Nolan", Genre: "Drama", Popularity: 60},
		{Director: "Nolan", Genre: "Thriller", Popularity: 40},
	}

	// Act
	rows := analytics.Aggregate(records,
		analytics.ByPair(
			func(r analytics.Record) string { return r.Director },
			func(r analytics.Record) string { return r.Genre },
		),
		analytics.MeanOf("mean_popularity", func(r analytics.Record) float64 { return r.Popularity }),
	)

	// Assert
	require.Len(t, rows, 2)
	assert.Equal(t, analytics.GroupKey{Primary: "Nolan", Secondary: "Thriller"}, rows[0].Key)
	assert.Equal(t, 60.0, rows[0].Metrics["mean_popularity"])
	assert.Equal(t, analytics.GroupKey{Primary: "Nolan", Secondary: "Drama"}, rows[1].Key)
	assert.Equal(t, 60.0, rows[1].Metrics["mean_popularity"])
}

func TestAggregate_EmptyInput(t *testing.T) {
	// Act
	rows := analytics.Aggregate(nil,
		analytics.ByPrimary(func(r analytics.Record) string { return r.Genre }),
		analytics.CountMovies("n"),
	)

	// Assert
	assert.Empty(t, rows)
}

func TestGroupKeyCompare(t *testing.T) {
	a := analytics.GroupKey{Primary: "Action"}
	b := analytics.GroupKey{Primary: "Drama"}
	c := analytics.GroupKey{Primary: "Action", Secondary: "2020"}

	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
	assert.Zero(t, a.Compare(a))
	assert.Negative(t, a.Compare(c))
}
