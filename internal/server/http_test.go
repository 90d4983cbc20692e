package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/reelmetrics/reelmetrics/internal/analytics"
	"github.com/reelmetrics/reelmetrics/internal/catalog/domain"
	"github.com/reelmetrics/reelmetrics/internal/recommend"
	"github.com/reelmetrics/reelmetrics/internal/server"
	userservice "github.com/reelmetrics/reelmetrics/internal/user/service"
	"github.com/reelmetrics/reelmetrics/pkg/errors"
	"github.com/reelmetrics/reelmetrics/pkg/events"
	"github.com/reelmetrics/reelmetrics/pkg/logger"
	"github.com/reelmetrics/reelmetrics/pkg/utils"
	"github.com/reelmetrics/reelmetrics/test/mocks"
)

type ServerTestSuite struct {
	suite.Suite

	mockCatalog *mocks.MockCatalogReader
	mockRepo    *mocks.MockUserRepository
	mockGenres  *mocks.MockGenreLister
	mux         *http.ServeMux
}

func (suite *ServerTestSuite) SetupTest() {
	suite.mockCatalog = new(mocks.MockCatalogReader)
	suite.mockRepo = new(mocks.MockUserRepository)
	suite.mockGenres = new(mocks.MockGenreLister)

	log := logger.NewNoop()
	cache := utils.NewInMemoryCache()
	eventBus := events.NewInMemoryEventBus(log)

	reports := analytics.NewReportService(
		suite.mockCatalog, new(mocks.MockTrendSource), cache, log, analytics.DefaultConfig())
	users := userservice.NewUserService(suite.mockRepo, eventBus, log)
	rec := recommend.NewService(
		suite.mockRepo, new(mocks.MockGenreCatalog),
		recommend.NewCacheExclusionStore(cache, 0), eventBus, log)

	suite.mux = http.NewServeMux()
	server.New(reports, users, rec, suite.mockGenres, log).Register(suite.mux)
}

func (suite *ServerTestSuite) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	suite.mux.ServeHTTP(rr, req)
	return rr
}

func (suite *ServerTestSuite) TestGenreReport() {
	// Arrange
	records := analytics.RecordSet{
		{MovieID: 1, Genre: "Drama", Popularity: 10},
		{MovieID: 2, Genre: "Drama", Popularity: 20},
	}
	suite.mockCatalog.On("LoadRecords",
		mock.Anything, analytics.JoinSpec{Genres: true}, analytics.Filter{}).
		Return(records, nil).Once()

	// Act
	rr := suite.do(http.MethodGet, "/api/reports/genres")

	// Assert
	suite.Equal(http.StatusOK, rr.Code)

	var rows []struct {
		Key     string             `json:"key"`
		Metrics map[string]float64 `json:"metrics"`
	}
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &rows))
	suite.Require().Len(rows, 1)
	suite.Equal("Drama", rows[0].Key)
	suite.Equal(2.0, rows[0].Metrics["movie_count"])
	suite.Equal(15.0, rows[0].Metrics["mean_popularity"])
}

func (suite *ServerTestSuite) TestGenreReport_FilterParsing() {
	// Arrange
	filter := analytics.Filter{Years: []int{2020}, Genres: []string{"Drama"}}
	suite.mockCatalog.On("LoadRecords",
		mock.Anything, analytics.JoinSpec{Genres: true}, filter).
		Return(analytics.RecordSet{}, nil).Once()

	// Act
	rr := suite.do(http.MethodGet, "/api/reports/genres?year=2020&genre=Drama")

	// Assert
	suite.Equal(http.StatusOK, rr.Code)
}

func (suite *ServerTestSuite) TestGenreReport_BadYear() {
	// Act
	rr := suite.do(http.MethodGet, "/api/reports/genres?year=abc")

	// Assert
	suite.Equal(http.StatusBadRequest, rr.Code)
}

func (suite *ServerTestSuite) TestIndicator_NotFoundMapsTo404() {
	// Arrange
	suite.mockCatalog.On("GetMovieRecord", mock.Anything, uint(999)).
		Return(nil, errors.NotFound("movie not found")).Once()

	// Act
	rr := suite.do(http.MethodGet, "/api/movies/999/indicator")

	// Assert
	suite.Equal(http.StatusNotFound, rr.Code)
}

func (suite *ServerTestSuite) TestListGenres() {
	// Arrange
	suite.mockGenres.On("ListGenres", mock.Anything).
		Return([]domain.Genre{{ID: 1, Name: "Comedy"}, {ID: 2, Name: "Drama"}}, nil).Once()

	// Act
	rr := suite.do(http.MethodGet, "/api/genres")

	// Assert
	suite.Equal(http.StatusOK, rr.Code)

	var genres []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &genres))
	suite.Require().Len(genres, 2)
	suite.Equal("Comedy", genres[0].Name)
	suite.Equal("Drama", genres[1].Name)
}

func (suite *ServerTestSuite) TestSearch_RequiresQuery() {
	// Act
	rr := suite.do(http.MethodGet, "/api/movies/search")

	// Assert
	suite.Equal(http.StatusBadRequest, rr.Code)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
