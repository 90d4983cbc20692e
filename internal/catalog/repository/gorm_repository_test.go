package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/reelmetrics/reelmetrics/internal/analytics"
	"github.com/reelmetrics/reelmetrics/internal/catalog/repository"
	"github.com/reelmetrics/reelmetrics/pkg/errors"
	"github.com/reelmetrics/reelmetrics/test/testutil"
)

type GormRepositoryTestSuite struct {
	suite.Suite

	ctx  context.Context
	repo *repository.GormRepository
}

func (suite *GormRepositoryTestSuite) SetupTest() {
	suite.ctx = context.Background()
	db := testutil.SetupSQLiteDB(suite.T())
	suite.repo = repository.NewGormRepository(db)

	testutil.CreateTestMovie(suite.T(), db, testutil.MovieFixture{
		ID: 1, Title: "Heat", ReleaseYear: 1995, Popularity: 80, VoteAverage: 8.3, VoteCount: 700,
		Runtime: 170, Countries: "USA",
		Stars:     []string{"Al Pacino", "Robert De Niro"},
		Genres:    []string{"Crime", "Drama"},
		Directors: []string{"Michael Mann"},
		Actors:    []string{"Al Pacino", "Robert De Niro", "Val Kilmer"},
	})
	testutil.CreateTestMovie(suite.T(), db, testutil.MovieFixture{
		ID: 2, Title: "Amelie", ReleaseYear: 2001, Popularity: 60, VoteAverage: 7.9, VoteCount: 500,
		Runtime: 122, Countries: "France, Germany",
		Stars:     []string{"Audrey Tautou"},
		Genres:    []string{"Comedy", "Romance"},
		Directors: []string{"Jean-Pierre Jeunet"},
		Actors:    []string{"Audrey Tautou"},
	})
	// No genres, directors, or actors attached
	testutil.CreateTestMovie(suite.T(), db, testutil.MovieFixture{
		ID: 3, Title: "Obscure Short", ReleaseYear: 2001, Popularity: 5, VoteAverage: 6.0, VoteCount: 12,
	})
}

func (suite *GormRepositoryTestSuite) TestLoadRecords_NoJoins() {
	// Act
	records, err := suite.repo.LoadRecords(suite.ctx, analytics.JoinSpec{}, analytics.Filter{})

	// Assert: one row per movie, in id order
	suite.Require().NoError(err)
	suite.Require().Len(records, 3)
	suite.Equal(uint(1), records[0].MovieID)
	suite.Equal("Heat", records[0].Title)
	suite.Equal("USA", records[0].Countries)
	suite.Equal("Al Pacino, Robert De Niro", records[0].Stars)
	suite.Equal(uint(3), records[2].MovieID)
}

func (suite *GormRepositoryTestSuite) TestLoadRecords_GenreJoinMultipliesRows() {
	// Act
	records, err := suite.repo.LoadRecords(suite.ctx, analytics.JoinSpec{Genres: true}, analytics.Filter{})

	// Assert: Heat has two genres, Amelie two; movie 3 drops out entirely
	suite.Require().NoError(err)
	suite.Require().Len(records, 4)
	suite.Equal("Crime", records[0].Genre)
	suite.Equal("Drama", records[1].Genre)
	suite.Equal("Comedy", records[2].Genre)
	suite.Equal("Romance", records[3].Genre)
	for _, rec := range records {
		suite.NotEqual(uint(3), rec.MovieID)
	}
}

func (suite *GormRepositoryTestSuite) TestLoadRecords_ActorJoin() {
	// Act
	records, err := suite.repo.LoadRecords(suite.ctx, analytics.JoinSpec{Actors: true}, analytics.Filter{})

	// Assert: actor names come back ordered within each movie
	suite.Require().NoError(err)
	suite.Require().Len(records, 4)
	suite.Equal("Al Pacino", records[0].Actor)
	suite.Equal("Robert De Niro", records[1].Actor)
	suite.Equal("Val Kilmer", records[2].Actor)
	suite.Equal("Audrey Tautou", records[3].Actor)
}

func (suite *GormRepositoryTestSuite) TestLoadRecords_YearFilter() {
	// Act
	records, err := suite.repo.LoadRecords(suite.ctx, analytics.JoinSpec{}, analytics.Filter{Years: []int{2001}})

	// Assert
	suite.Require().NoError(err)
	suite.Require().Len(records, 2)
	suite.Equal(uint(2), records[0].MovieID)
	suite.Equal(uint(3), records[1].MovieID)
}

func (suite *GormRepositoryTestSuite) TestLoadRecords_GenreFilterWithoutGenreJoin() {
	// Act: a year chart narrowed by genre must not multiply its rows
	records, err := suite.repo.LoadRecords(suite.ctx, analytics.JoinSpec{}, analytics.Filter{Genres: []string{"Crime"}})

	// Assert
	suite.Require().NoError(err)
	suite.Require().Len(records, 1)
	suite.Equal(uint(1), records[0].MovieID)
}

func (suite *GormRepositoryTestSuite) TestLoadRecords_DirectorFilterOnGenreJoin() {
	// Act
	records, err := suite.repo.LoadRecords(suite.ctx,
		analytics.JoinSpec{Genres: true},
		analytics.Filter{Directors: []string{"Jean-Pierre Jeunet"}})

	// Assert: Amelie's two genre rows only
	suite.Require().NoError(err)
	suite.Require().Len(records, 2)
	suite.Equal(uint(2), records[0].MovieID)
	suite.Equal(uint(2), records[1].MovieID)
}

func (suite *GormRepositoryTestSuite) TestGetMovieRecord() {
	// Act
	record, err := suite.repo.GetMovieRecord(suite.ctx, 1)

	// Assert
	suite.Require().NoError(err)
	suite.Equal("Heat", record.Title)
	suite.Equal(8.3, record.VoteAverage)
	suite.Empty(record.Genre)
}

func (suite *GormRepositoryTestSuite) TestGetMovieRecord_NotFound() {
	// Act
	record, err := suite.repo.GetMovieRecord(suite.ctx, 999)

	// Assert
	suite.Require().Error(err)
	suite.Nil(record)
	suite.True(errors.IsNotFound(err))
}

func (suite *GormRepositoryTestSuite) TestSearchMovies_CaseInsensitive() {
	// Act
	records, err := suite.repo.SearchMovies(suite.ctx, "HEAT", 10)

	// Assert
	suite.Require().NoError(err)
	suite.Require().Len(records, 1)
	suite.Equal("Heat", records[0].Title)
}

func (suite *GormRepositoryTestSuite) TestSearchMovies_OrderedByPopularity() {
	// Act: "e" matches all three seeded titles
	records, err := suite.repo.SearchMovies(suite.ctx, "e", 10)

	// Assert
	suite.Require().NoError(err)
	suite.Require().Len(records, 3)
	suite.Equal("Heat", records[0].Title)
	suite.Equal("Amelie", records[1].Title)
	suite.Equal("Obscure Short", records[2].Title)
}

func (suite *GormRepositoryTestSuite) TestGetMovie_ResolvesRelations() {
	// Act
	movie, err := suite.repo.GetMovie(suite.ctx, 1)

	// Assert
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"Crime", "Drama"}, movie.Genres)
	suite.ElementsMatch([]string{"Michael Mann"}, movie.Directors)
	suite.ElementsMatch([]string{"Al Pacino", "Robert De Niro", "Val Kilmer"}, movie.Actors)
	suite.Equal([]string{"Al Pacino", "Robert De Niro"}, movie.Stars)
}

func (suite *GormRepositoryTestSuite) TestMoviesByGenres() {
	// Act
	movies, err := suite.repo.MoviesByGenres(suite.ctx, []string{"Crime", "Comedy"}, nil, 10)

	// Assert: most popular first
	suite.Require().NoError(err)
	suite.Require().Len(movies, 2)
	suite.Equal("Heat", movies[0].Title)
	suite.Equal("Amelie", movies[1].Title)
}

func (suite *GormRepositoryTestSuite) TestMoviesByGenres_Excludes() {
	// Act
	movies, err := suite.repo.MoviesByGenres(suite.ctx, []string{"Crime", "Comedy"}, []uint{1}, 10)

	// Assert
	suite.Require().NoError(err)
	suite.Require().Len(movies, 1)
	suite.Equal("Amelie", movies[0].Title)
}

func (suite *GormRepositoryTestSuite) TestMoviesByGenres_EmptyGenres() {
	// Act
	movies, err := suite.repo.MoviesByGenres(suite.ctx, nil, nil, 10)

	// Assert
	suite.Require().NoError(err)
	suite.Empty(movies)
}

func (suite *GormRepositoryTestSuite) TestListGenres() {
	// Act
	genres, err := suite.repo.ListGenres(suite.ctx)

	// Assert
	suite.Require().NoError(err)
	suite.Require().Len(genres, 4)
	suite.Equal("Comedy", genres[0].Name)
	suite.Equal("Romance", genres[3].Name)
}

func TestGormRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GormRepositoryTestSuite))
}
