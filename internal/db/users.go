package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/go-boiler/backend/internal/model"
)

// ErrTokenMismatch is returned by RotateRefreshToken when the stored token
// no longer equals the presented one (rotated out, logged out, or lost a
// concurrent refresh race).
var ErrTokenMismatch = errors.New("stored refresh token mismatch")

func (db *Postgres) EnsureSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			refresh_token_hash TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS users_email_idx ON users(email)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// CreateUser inserts the full credential record, refresh token hash
// included, so first issuance is a single write.
func (db *Postgres) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, role, refresh_token_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return db.Pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.RefreshTokenHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, name, password_hash, role, refresh_token_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return db.scanUser(ctx, query, email)
}

func (db *Postgres) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, email, name, password_hash, role, refresh_token_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return db.scanUser(ctx, query, id)
}

// SetRefreshToken overwrites the stored refresh token hash. A nil hash
// clears the session (logout).
func (db *Postgres) SetRefreshToken(ctx context.Context, userID string, tokenHash *string) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := db.Pool.Exec(ctx, query, tokenHash, userID)
	return err
}

// RotateRefreshToken atomically replaces the stored hash only if it still
// equals oldHash. The conditional UPDATE closes the check-then-write race
// between concurrent refresh calls: exactly one wins.
func (db *Postgres) RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $1, updated_at = NOW()
		WHERE id = $2 AND refresh_token_hash = $3
	`
	ct, err := db.Pool.Exec(ctx, query, newHash, userID, oldHash)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrTokenMismatch
	}
	return nil
}

func (db *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `
		SELECT id, email, name, password_hash, role, refresh_token_hash, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Name,
			&user.PasswordHash,
			&user.Role,
			&user.RefreshTokenHash,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (db *Postgres) scanUser(ctx context.Context, query string, args ...any) (*model.User, error) {
	var user model.User
	err := db.Pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.RefreshTokenHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
