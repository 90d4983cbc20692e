package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/reelmetrics/reelmetrics/internal/analytics"
	catalogdomain "github.com/reelmetrics/reelmetrics/internal/catalog/domain"
)

// MockCatalogReader is a mock of the analytics catalog reader.
type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) LoadRecords(ctx context.Context, spec analytics.JoinSpec, filter analytics.Filter) (analytics.RecordSet, error) {
	args := m.Called(ctx, spec, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(analytics.RecordSet), args.Error(1)
}

func (m *MockCatalogReader) GetMovieRecord(ctx context.Context, movieID uint) (*analytics.Record, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Record), args.Error(1)
}

func (m *MockCatalogReader) SearchMovies(ctx context.Context, query string, limit int) (analytics.RecordSet, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(analytics.RecordSet), args.Error(1)
}

// MockTrendSource is a mock of the external trend source.
type MockTrendSource struct {
	mock.Mock
}

func (m *MockTrendSource) FetchPopular(ctx context.Context, pages int) ([]analytics.ExternalMovie, error) {
	args := m.Called(ctx, pages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.ExternalMovie), args.Error(1)
}

// MockGenreLister is a mock of the genre enumeration source.
type MockGenreLister struct {
	mock.Mock
}

func (m *MockGenreLister) ListGenres(ctx context.Context) ([]catalogdomain.Genre, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogdomain.Genre), args.Error(1)
}

// MockGenreCatalog is a mock of the recommendation candidate source.
type MockGenreCatalog struct {
	mock.Mock
}

func (m *MockGenreCatalog) MoviesByGenres(ctx context.Context, genres []string, excludeIDs []uint, limit int) ([]catalogdomain.Movie, error) {
	args := m.Called(ctx, genres, excludeIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogdomain.Movie), args.Error(1)
}
