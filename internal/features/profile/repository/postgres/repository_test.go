package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*postgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return &postgresRepository{db: db}, mock, db
}

func TestEnsureSchema(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS profiles`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_Rerun(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	for i := 0; i < 2; i++ {
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS profiles`).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_Error(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).
		WillReturnError(errors.New("connection refused"))

	err := repo.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users table")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	createdAt := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "token", "email", "created_at"}).
		AddRow("u-1", "tok-1", nil, createdAt)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, token, email, created_at FROM users WHERE id = $1`)).
		WithArgs("u-1").
		WillReturnRows(rows)

	user, err := repo.GetUserByID(context.Background(), "u-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u-1", user.ID)
	require.NotNil(t, user.Token)
	assert.Equal(t, "tok-1", *user.Token)
	assert.Nil(t, user.Email)
	assert.Equal(t, createdAt, user.CreatedAt)
}

func TestGetUserByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, token, email, created_at FROM users WHERE id = $1`)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.GetUserByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestGetUserByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, token, email, created_at FROM users WHERE id = $1`)).
		WithArgs("u-1").
		WillReturnError(errors.New("db down"))

	_, err := repo.GetUserByID(context.Background(), "u-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestGetUserByToken_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, token, email, created_at FROM users WHERE token = $1`)).
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.GetUserByToken(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCreateUserIfAbsent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, created_at) VALUES ($1, NOW()) ON CONFLICT (id) DO NOTHING`)).
		WithArgs("u-new").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateUserIfAbsent(context.Background(), "u-new"))
}

func TestCreateUserIfAbsent_Conflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// A concurrent request already created the row; zero rows affected is
	// still success.
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, created_at) VALUES ($1, NOW()) ON CONFLICT (id) DO NOTHING`)).
		WithArgs("u-racy").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.CreateUserIfAbsent(context.Background(), "u-racy"))
}

func TestGetProfile_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	updatedAt := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"user_id", "profile_type", "display_name", "bio", "metadata", "updated_at"}).
		AddRow("u-1", "musician", "Jane", nil, []byte(`{"genre":"jazz"}`), updatedAt)

	mock.ExpectQuery(`SELECT user_id, profile_type, display_name, bio, metadata, updated_at`).
		WithArgs("u-1").
		WillReturnRows(rows)

	profile, err := repo.GetProfile(context.Background(), "u-1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "u-1", profile.UserID)
	require.NotNil(t, profile.ProfileType)
	assert.Equal(t, "musician", *profile.ProfileType)
	assert.Nil(t, profile.Bio)
	assert.JSONEq(t, `{"genre":"jazz"}`, string(profile.Metadata))
}

func TestGetProfile_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id, profile_type, display_name, bio, metadata, updated_at`).
		WithArgs("u-bare").
		WillReturnError(sql.ErrNoRows)

	profile, err := repo.GetProfile(context.Background(), "u-bare")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestGetProfile_NullMetadata(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"user_id", "profile_type", "display_name", "bio", "metadata", "updated_at"}).
		AddRow("u-1", nil, nil, nil, nil, time.Now())

	mock.ExpectQuery(`SELECT user_id, profile_type, display_name, bio, metadata, updated_at`).
		WithArgs("u-1").
		WillReturnRows(rows)

	profile, err := repo.GetProfile(context.Background(), "u-1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Nil(t, profile.ProfileType)
	assert.Nil(t, profile.Metadata)
}
