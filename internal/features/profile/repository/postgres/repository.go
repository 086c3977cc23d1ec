package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"user-profile-backend/internal/features/profile/models"
	"user-profile-backend/internal/features/profile/repository"
)

const (
	createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			token TEXT,
			email TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`

	createProfilesTable = `
		CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			profile_type TEXT,
			display_name TEXT,
			bio TEXT,
			metadata JSONB,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
)

type postgresRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &postgresRepository{db: db}
}

// EnsureSchema creates the users and profiles tables if they are missing.
// It runs both statements on a single acquired connection, released on
// every exit path, and is safe to call on every request: IF NOT EXISTS
// makes concurrent first calls converge without duplicate-object errors.
func (r *postgresRepository) EnsureSchema(ctx context.Context) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("failed to ensure users table: %w", err)
	}
	if _, err := conn.ExecContext(ctx, createProfilesTable); err != nil {
		return fmt.Errorf("failed to ensure profiles table: %w", err)
	}

	return nil
}

// GetUserByID returns the user with the given id, or nil if none exists.
func (r *postgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, token, email, created_at FROM users WHERE id = $1`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Token, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

// GetUserByToken returns the user whose token column equals the given value
// exactly, or nil if none matches.
func (r *postgresRepository) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	const query = `SELECT id, token, email, created_at FROM users WHERE token = $1`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&user.ID, &user.Token, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by token: %w", err)
	}

	return &user, nil
}

// CreateUserIfAbsent inserts a user row with a server-assigned creation
// timestamp. A concurrent insert of the same id is absorbed by ON CONFLICT
// DO NOTHING rather than surfacing as an error.
func (r *postgresRepository) CreateUserIfAbsent(ctx context.Context, id string) error {
	const query = `INSERT INTO users (id, created_at) VALUES ($1, NOW()) ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetProfile returns the profile for the given user, or nil if the user has
// none.
func (r *postgresRepository) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	const query = `
		SELECT user_id, profile_type, display_name, bio, metadata, updated_at
		FROM profiles
		WHERE user_id = $1`

	var profile models.Profile
	var metadata []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID, &profile.ProfileType, &profile.DisplayName,
		&profile.Bio, &metadata, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if metadata != nil {
		profile.Metadata = json.RawMessage(metadata)
	}

	return &profile, nil
}
