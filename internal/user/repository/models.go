package repository

import (
	"github.com/google/uuid"
)

// UserFavourite is the join row between a user and a favorited movie.
type UserFavourite struct {
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	MovieID uint      `gorm:"primaryKey"`
}

// UserRecommendation is the join row between a user and a computed
// recommendation. Replaced wholesale whenever recommendations are
// recomputed.
type UserRecommendation struct {
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	MovieID uint      `gorm:"primaryKey"`
}

// TableName customizations

func (UserFavourite) TableName() string {
	return "user_favourites"
}

func (UserRecommendation) TableName() string {
	return "user_recommendations"
}
