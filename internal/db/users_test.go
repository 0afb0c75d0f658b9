package db

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-boiler/backend/internal/model"
)

func newMockStore(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func userColumns() []string {
	return []string{"id", "email", "name", "password_hash", "role", "refresh_token_hash", "created_at", "updated_at"}
}

func TestCreateUser(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	hash := "token-hash"
	user := &model.User{
		ID:               "9c9d1fd8-1f3c-4c9f-b1b6-111111111111",
		Email:            "alice@example.com",
		Name:             "alice",
		PasswordHash:     "bcrypt-hash",
		Role:             model.RoleUser,
		RefreshTokenHash: &hash,
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.RefreshTokenHash).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err := store.CreateUser(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, now, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)

	user := &model.User{
		ID:           "9c9d1fd8-1f3c-4c9f-b1b6-111111111111",
		Email:        "alice@example.com",
		Name:         "alice",
		PasswordHash: "bcrypt-hash",
		Role:         model.RoleUser,
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.RefreshTokenHash).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := store.CreateUser(context.Background(), user)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	hash := "token-hash"

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns()).
			AddRow("9c9d1fd8-1f3c-4c9f-b1b6-111111111111", "alice@example.com", "alice", "bcrypt-hash", model.RoleUser, &hash, now, now))

	user, err := store.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	require.NotNil(t, user.RefreshTokenHash)
	assert.Equal(t, hash, *user.RefreshTokenHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmailNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	user, err := store.GetUserByEmail(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, IsNoRows(err))
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByID(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	id := "9c9d1fd8-1f3c-4c9f-b1b6-111111111111"

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(userColumns()).
			AddRow(id, "alice@example.com", "alice", "bcrypt-hash", model.RoleAdmin, (*string)(nil), now, now))

	user, err := store.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.Nil(t, user.RefreshTokenHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRefreshToken(t *testing.T) {
	store, mock := newMockStore(t)
	id := "9c9d1fd8-1f3c-4c9f-b1b6-111111111111"
	hash := "new-hash"

	mock.ExpectExec("UPDATE users").
		WithArgs(&hash, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := store.SetRefreshToken(context.Background(), id, &hash)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRefreshTokenClear(t *testing.T) {
	store, mock := newMockStore(t)
	id := "9c9d1fd8-1f3c-4c9f-b1b6-111111111111"

	mock.ExpectExec("UPDATE users").
		WithArgs((*string)(nil), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := store.SetRefreshToken(context.Background(), id, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotateRefreshToken(t *testing.T) {
	store, mock := newMockStore(t)
	id := "9c9d1fd8-1f3c-4c9f-b1b6-111111111111"

	mock.ExpectExec("UPDATE users").
		WithArgs("new-hash", id, "old-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := store.RotateRefreshToken(context.Background(), id, "old-hash", "new-hash")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotateRefreshTokenMismatch(t *testing.T) {
	store, mock := newMockStore(t)
	id := "9c9d1fd8-1f3c-4c9f-b1b6-111111111111"

	// No row matched: the stored hash was already rotated or cleared.
	mock.ExpectExec("UPDATE users").
		WithArgs("new-hash", id, "stale-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := store.RotateRefreshToken(context.Background(), id, "stale-hash", "new-hash")
	assert.ErrorIs(t, err, ErrTokenMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WillReturnRows(pgxmock.NewRows(userColumns()).
			AddRow("9c9d1fd8-1f3c-4c9f-b1b6-111111111111", "alice@example.com", "alice", "h1", model.RoleUser, (*string)(nil), now, now).
			AddRow("9c9d1fd8-1f3c-4c9f-b1b6-222222222222", "bob@example.com", "bob", "h2", model.RoleAdmin, (*string)(nil), now, now))

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice@example.com", users[0].Email)
	assert.Equal(t, model.RoleAdmin, users[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS users_email_idx").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	err := store.EnsureSchema(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
