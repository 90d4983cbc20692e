package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogdomain "github.com/reelmetrics/reelmetrics/internal/catalog/domain"
	catalogrepo "github.com/reelmetrics/reelmetrics/internal/catalog/repository"
	"github.com/reelmetrics/reelmetrics/internal/user/domain"
	pkgerrors "github.com/reelmetrics/reelmetrics/pkg/errors"
	"github.com/reelmetrics/reelmetrics/pkg/repository"
)

// GormRepository implements the user Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM user repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// CreateUser creates a new user.
func (r *GormRepository) CreateUser(ctx context.Context, user *domain.User) error {
	return repository.Create(ctx, r.db, user)
}

// GetUser retrieves a user by ID.
func (r *GormRepository) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return repository.FindByID[domain.User](ctx, r.db, id)
}

// GetUserByUsername retrieves a user by username.
func (r *GormRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return repository.FindOneBy[domain.User](ctx, r.db, "username = ?", strings.ToLower(username))
}

// UserExists checks whether a username or email is taken.
func (r *GormRepository) UserExists(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Unavailable("failed to check user existence", err)
	}
	return count > 0, nil
}

// UpdateUser updates a user.
func (r *GormRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	return repository.Update(ctx, r.db, user)
}

// AddFavorite records a movie in the user's favorites set. The insert is
// conflict-tolerant, so concurrent or repeated adds of the same movie are
// no-ops rather than errors.
func (r *GormRepository) AddFavorite(ctx context.Context, userID uuid.UUID, movieID uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalogrepo.Movie{}).
		Where("id = ?", movieID).
		Count(&count).Error; err != nil {
		return pkgerrors.Unavailable("failed to check movie existence", err)
	}
	if count == 0 {
		return pkgerrors.NotFound("movie not found")
	}

	fav := UserFavourite{UserID: userID, MovieID: movieID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error
	if err != nil {
		return pkgerrors.Unavailable("failed to add favorite", err)
	}
	return nil
}

// RemoveFavorite removes a movie from the user's favorites set. Removing a
// movie that is not favorited is a no-op.
func (r *GormRepository) RemoveFavorite(ctx context.Context, userID uuid.UUID, movieID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&UserFavourite{}).Error
	if err != nil {
		return pkgerrors.Unavailable("failed to remove favorite", err)
	}
	return nil
}

// ListFavorites returns the user's favorited movies with genres resolved.
func (r *GormRepository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]catalogdomain.Movie, error) {
	var movies []catalogrepo.Movie
	err := r.db.WithContext(ctx).
		Joins("JOIN user_favourites ON user_favourites.movie_id = movies.id").
		Where("user_favourites.user_id = ?", userID).
		Order("movies.title").
		Preload("Genres").
		Find(&movies).Error
	if err != nil {
		return nil, pkgerrors.Unavailable("failed to list favorites", err)
	}

	result := make([]catalogdomain.Movie, len(movies))
	for i := range movies {
		result[i] = movies[i].ToDomain()
	}
	return result, nil
}

// ReplaceRecommendations swaps the user's stored recommendation set in one
// transaction.
func (r *GormRepository) ReplaceRecommendations(ctx context.Context, userID uuid.UUID, movieIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&UserRecommendation{}).Error; err != nil {
			return err
		}
		if len(movieIDs) == 0 {
			return nil
		}
		rows := make([]UserRecommendation, len(movieIDs))
		for i, id := range movieIDs {
			rows[i] = UserRecommendation{UserID: userID, MovieID: id}
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return pkgerrors.Unavailable("failed to replace recommendations", err)
	}
	return nil
}

// ListRecommendations returns the user's stored recommendations, most
// popular first.
func (r *GormRepository) ListRecommendations(ctx context.Context, userID uuid.UUID) ([]catalogdomain.Movie, error) {
	var movies []catalogrepo.Movie
	err := r.db.WithContext(ctx).
		Joins("JOIN user_recommendations ON user_recommendations.movie_id = movies.id").
		Where("user_recommendations.user_id = ?", userID).
		Order("movies.popularity DESC").
		Preload("Genres").
		Find(&movies).Error
	if err != nil {
		return nil, pkgerrors.Unavailable("failed to list recommendations", err)
	}

	result := make([]catalogdomain.Movie, len(movies))
	for i := range movies {
		result[i] = movies[i].ToDomain()
	}
	return result, nil
}
