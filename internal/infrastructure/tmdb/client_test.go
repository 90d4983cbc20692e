package tmdb_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelmetrics/reelmetrics/internal/infrastructure/tmdb"
	"github.com/reelmetrics/reelmetrics/pkg/logger"
)

func pageBody(page int, titles ...string) string {
	results := ""
	for i, title := range titles {
		if i > 0 {
			results += ","
		}
		results += fmt.Sprintf(
			`{"title":%q,"release_date":"2020-05-01","popularity":42.5,"vote_average":7.1,"vote_count":900,"adult":false}`,
			title)
	}
	return fmt.Sprintf(`{"page":%d,"total_pages":10,"results":[%s]}`, page, results)
}

func TestDiscoverMovies(t *testing.T) {
	// Arrange
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "false", r.URL.Query().Get("include_adult"))
		fmt.Fprint(w, pageBody(1, "Heat", "Amelie"))
	}))
	defer server.Close()

	client := tmdb.NewClient(server.URL, "test-token", 5*time.Second, logger.NewNoop())

	// Act
	movies, err := client.DiscoverMovies(context.Background(), 1)

	// Assert
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "Heat", movies[0].Title)
	assert.Equal(t, 2020, movies[0].ReleaseYear)
	assert.Equal(t, 42.5, movies[0].Popularity)
	assert.Equal(t, 900, movies[0].VoteCount)
}

func TestDiscoverMovies_ToleratesMissingFields(t *testing.T) {
	// Arrange: a result with almost everything absent must not fail the page
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page":1,"total_pages":1,"results":[{"title":"Sparse"},{}]}`)
	}))
	defer server.Close()

	client := tmdb.NewClient(server.URL, "t", 5*time.Second, logger.NewNoop())

	// Act
	movies, err := client.DiscoverMovies(context.Background(), 1)

	// Assert
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Sparse", movies[0].Title)
	assert.Zero(t, movies[0].ReleaseYear)
	assert.Zero(t, movies[1].Popularity)
}

func TestDiscoverMovies_Non200(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := tmdb.NewClient(server.URL, "bad-token", 5*time.Second, logger.NewNoop())

	// Act
	movies, err := client.DiscoverMovies(context.Background(), 1)

	// Assert
	require.Error(t, err)
	assert.Nil(t, movies)
}

func TestFetchPopular_MergesPages(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		fmt.Fprint(w, pageBody(1, "Movie "+page))
	}))
	defer server.Close()

	client := tmdb.NewClient(server.URL, "t", 5*time.Second, logger.NewNoop())

	// Act
	movies, err := client.FetchPopular(context.Background(), 3)

	// Assert
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, "Movie 1", movies[0].Title)
	assert.Equal(t, "Movie 3", movies[2].Title)
}

func TestFetchPopular_FailedPageSkipped(t *testing.T) {
	// Arrange: page 3 of 5 errors, the rest succeed
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "3" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, pageBody(1, "Movie "+page))
	}))
	defer server.Close()

	client := tmdb.NewClient(server.URL, "t", 5*time.Second, logger.NewNoop())

	// Act
	movies, err := client.FetchPopular(context.Background(), 5)

	// Assert: partial data, no error
	require.NoError(t, err)
	require.Len(t, movies, 4)
	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = m.Title
	}
	assert.Equal(t, []string{"Movie 1", "Movie 2", "Movie 4", "Movie 5"}, titles)
}

func TestFetchPopular_CancelledContext(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pageBody(1, "Movie"))
	}))
	defer server.Close()

	client := tmdb.NewClient(server.URL, "t", 5*time.Second, logger.NewNoop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := client.FetchPopular(ctx, 3)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}
