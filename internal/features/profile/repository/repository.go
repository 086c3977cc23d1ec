package repository

import (
	"context"

	"user-profile-backend/internal/features/profile/models"
)

// ProfileRepository is the storage contract for users and their optional
// profiles. Lookups return (nil, nil) when no row matches; absence is not
// an error.
type ProfileRepository interface {
	EnsureSchema(ctx context.Context) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByToken(ctx context.Context, token string) (*models.User, error)
	CreateUserIfAbsent(ctx context.Context, id string) error
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}
