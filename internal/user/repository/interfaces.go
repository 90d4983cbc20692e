package repository

import (
	"context"

	"github.com/google/uuid"

	catalogdomain "github.com/reelmetrics/reelmetrics/internal/catalog/domain"
	"github.com/reelmetrics/reelmetrics/internal/user/domain"
)

// Repository provides user accounts plus their favorites and recommendation
// reference sets.
type Repository interface {
	// CreateUser creates a new user.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// UserExists checks whether a username or email is taken.
	UserExists(ctx context.Context, username, email string) (bool, error)

	// UpdateUser updates a user.
	UpdateUser(ctx context.Context, user *domain.User) error

	// AddFavorite records a movie in the user's favorites set. Adding an
	// already-favorited movie is a no-op.
	AddFavorite(ctx context.Context, userID uuid.UUID, movieID uint) error

	// RemoveFavorite removes a movie from the user's favorites set.
	RemoveFavorite(ctx context.Context, userID uuid.UUID, movieID uint) error

	// ListFavorites returns the user's favorited movies with genres
	// resolved.
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]catalogdomain.Movie, error)

	// ReplaceRecommendations swaps the user's stored recommendation set.
	ReplaceRecommendations(ctx context.Context, userID uuid.UUID, movieIDs []uint) error

	// ListRecommendations returns the user's stored recommendations.
	ListRecommendations(ctx context.Context, userID uuid.UUID) ([]catalogdomain.Movie, error)
}
