package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	catalogdomain "github.com/reelmetrics/reelmetrics/internal/catalog/domain"
	"github.com/reelmetrics/reelmetrics/internal/user/domain"
	"github.com/reelmetrics/reelmetrics/internal/user/repository"
	"github.com/reelmetrics/reelmetrics/pkg/errors"
	"github.com/reelmetrics/reelmetrics/pkg/events"
	"github.com/reelmetrics/reelmetrics/pkg/interfaces"
)

// UserService handles accounts and their favorites set.
type UserService struct {
	repo     repository.Repository
	eventBus interfaces.EventBus
	logger   interfaces.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	repo repository.Repository,
	eventBus interfaces.EventBus,
	logger interfaces.Logger,
) *UserService {
	return &UserService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Register creates a new user account.
func (s *UserService) Register(
	ctx context.Context,
	username, email, password, displayName string,
) (*domain.User, error) {
	// Validate input
	if username == "" || email == "" || password == "" {
		return nil, errors.BadRequest("username, email, and password are required")
	}

	// Normalize username and email
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	// Check if user exists
	exists, err := s.repo.UserExists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("username or email already exists")
	}

	user := &domain.User{
		ID:          uuid.New(),
		Username:    username,
		Email:       email,
		DisplayName: displayName,
	}

	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.EventUserRegistered, user.ID.String(), map[string]interface{}{
		"username": user.Username,
		"email":    user.Email,
	}))

	s.logger.Info("User registered",
		interfaces.String("user_id", user.ID.String()),
		interfaces.String("username", user.Username))

	return user, nil
}

// Authenticate verifies credentials and records the login time.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("invalid username or password")
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, errors.Unauthorized("invalid username or password")
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		// Login still succeeds if the timestamp update fails
		s.logger.Warn("Failed to record login time",
			interfaces.String("user_id", user.ID.String()),
			interfaces.Error(err))
	}

	return user, nil
}

// UpdateProfile updates a user's display name and email.
func (s *UserService) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	displayName, email string,
) (*domain.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if displayName != "" {
		user.DisplayName = displayName
	}
	if email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(email))
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword changes a user's password.
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(oldPassword) {
		return errors.Unauthorized("incorrect password")
	}

	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.UpdateUser(ctx, user)
}

// AddFavorite adds a movie to the user's favorites. Adding a movie that is
// already favorited is a no-op, not an error.
func (s *UserService) AddFavorite(ctx context.Context, userID uuid.UUID, movieID uint) error {
	if err := s.repo.AddFavorite(ctx, userID, movieID); err != nil {
		return err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.EventFavoriteAdded, userID.String(), map[string]interface{}{
		"movie_id": movieID,
	}))

	s.logger.Debug("Favorite added",
		interfaces.String("user_id", userID.String()),
		interfaces.Int("movie_id", int(movieID)))

	return nil
}

// RemoveFavorite removes a movie from the user's favorites.
func (s *UserService) RemoveFavorite(ctx context.Context, userID uuid.UUID, movieID uint) error {
	if err := s.repo.RemoveFavorite(ctx, userID, movieID); err != nil {
		return err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.EventFavoriteRemoved, userID.String(), map[string]interface{}{
		"movie_id": movieID,
	}))

	return nil
}

// ListFavorites returns the user's favorited movies.
func (s *UserService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]catalogdomain.Movie, error) {
	return s.repo.ListFavorites(ctx, userID)
}

// ListRecommendations returns the user's stored recommendations.
func (s *UserService) ListRecommendations(ctx context.Context, userID uuid.UUID) ([]catalogdomain.Movie, error) {
	return s.repo.ListRecommendations(ctx, userID)
}
