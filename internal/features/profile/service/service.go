package service

import (
	"context"
	"fmt"
	"strings"

	"user-profile-backend/internal/features/profile/models"
	"user-profile-backend/internal/features/profile/repository"
)

// bearerPrefix is matched case-sensitively, single space included.
const bearerPrefix = "Bearer "

type ProfileService interface {
	EnsureSchema(ctx context.Context) error
	Resolve(ctx context.Context, devUserID, authorization string) (*models.User, error)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type profileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{
		repo: repo,
	}
}

func (s *profileService) EnsureSchema(ctx context.Context) error {
	return s.repo.EnsureSchema(ctx)
}

// Resolve maps the request's identifying headers to a user, first match
// wins:
//
//  1. A non-empty dev-mode user id is trusted as-is and provisions the user
//     on first contact. No credential is verified on this path.
//  2. An Authorization header with a Bearer prefix is looked up by exact
//     token equality.
//  3. Otherwise the request carried no credentials.
//
// A malformed Authorization header counts as no bearer supplied, not as an
// error.
func (s *profileService) Resolve(ctx context.Context, devUserID, authorization string) (*models.User, error) {
	if devUserID != "" {
		user, err := s.repo.GetUserByID(ctx, devUserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			if err := s.repo.CreateUserIfAbsent(ctx, devUserID); err != nil {
				return nil, err
			}
			user, err = s.repo.GetUserByID(ctx, devUserID)
			if err != nil {
				return nil, err
			}
			if user == nil {
				return nil, fmt.Errorf("user %q not visible after provisioning", devUserID)
			}
		}
		return user, nil
	}

	if strings.HasPrefix(authorization, bearerPrefix) {
		token := strings.TrimPrefix(authorization, bearerPrefix)
		user, err := s.repo.GetUserByToken(ctx, token)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrInvalidCredentials
		}
		return user, nil
	}

	return nil, ErrMissingCredentials
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}
