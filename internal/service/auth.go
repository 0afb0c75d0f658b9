package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/go-boiler/backend/internal/apperror"
	"github.com/go-boiler/backend/internal/db"
	"github.com/go-boiler/backend/internal/model"
)

// UserStore is the persistence surface the auth flows need. *db.Postgres
// implements it; tests substitute an in-memory fake.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	SetRefreshToken(ctx context.Context, userID string, tokenHash *string) error
	RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

// AuthService orchestrates register, login, refresh and logout. All session
// state lives in the credential record's refresh_token_hash column; the
// service itself holds no mutable state.
type AuthService struct {
	store  UserStore
	tokens *TokenManager
	logger *slog.Logger
}

func NewAuthService(store UserStore, tokens *TokenManager, logger *slog.Logger) *AuthService {
	return &AuthService{store: store, tokens: tokens, logger: logger}
}

func (s *AuthService) Tokens() *TokenManager {
	return s.tokens
}

// Register creates the credential record and its first session in a single
// insert. A duplicate email surfaces as Conflict via the unique constraint.
func (s *AuthService) Register(ctx context.Context, req model.SignupRequest) (*model.User, model.TokenPair, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = email
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		}
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, model.TokenPair{}, apperror.Internal(fmt.Errorf("hash password: %w", err))
	}

	userID := uuid.NewString()
	pair, err := s.tokens.IssuePair(userID, model.RoleUser)
	if err != nil {
		return nil, model.TokenPair{}, apperror.Internal(fmt.Errorf("issue tokens: %w", err))
	}

	tokenHash := hashRefreshToken(pair.RefreshToken)
	user := &model.User{
		ID:               userID,
		Email:            email,
		Name:             name,
		PasswordHash:     passwordHash,
		Role:             model.RoleUser,
		RefreshTokenHash: &tokenHash,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, model.TokenPair{}, apperror.Conflict("User with this email already exists")
		}
		return nil, model.TokenPair{}, apperror.Internal(fmt.Errorf("create user: %w", err))
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	return user, pair, nil
}

// Login verifies credentials and starts a fresh session, overwriting any
// prior stored refresh token. Unknown email and wrong password return the
// same error, and both cost one bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, model.TokenPair, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if db.IsNoRows(err) {
			compareDummyPassword(req.Password)
			return nil, model.TokenPair{}, apperror.Unauthorized("Invalid credentials")
		}
		return nil, model.TokenPair{}, apperror.Internal(fmt.Errorf("find user: %w", err))
	}

	if !CheckPassword(req.Password, user.PasswordHash) {
		s.logger.InfoContext(ctx, "login rejected",
			slog.String("user_id", user.ID),
			slog.String("reason", "password mismatch"),
		)
		return nil, model.TokenPair{}, apperror.Unauthorized("Invalid credentials")
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		return nil, model.TokenPair{}, apperror.Internal(fmt.Errorf("issue tokens: %w", err))
	}

	tokenHash := hashRefreshToken(pair.RefreshToken)
	if err := s.store.SetRefreshToken(ctx, user.ID, &tokenHash); err != nil {
		return nil, model.TokenPair{}, apperror.Internal(fmt.Errorf("persist refresh token: %w", err))
	}
	user.RefreshTokenHash = &tokenHash

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))
	return user, pair, nil
}

// Refresh exchanges a still-valid refresh token for a new pair and rotates
// the stored value in one conditional update. A token that was already
// rotated out, cleared by logout, or beaten by a concurrent refresh fails.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	if refreshToken == "" {
		return model.TokenPair{}, apperror.Unauthorized("Refresh token not found in cookie")
	}

	claims, err := s.tokens.Verify(refreshToken, KindRefresh)
	if err != nil {
		s.logger.InfoContext(ctx, "refresh rejected", slog.String("reason", err.Error()))
		return model.TokenPair{}, apperror.Unauthorized("Invalid refresh token")
	}

	user, err := s.store.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if db.IsNoRows(err) {
			return model.TokenPair{}, apperror.Unauthorized("Invalid refresh token")
		}
		return model.TokenPair{}, apperror.Internal(fmt.Errorf("find user: %w", err))
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		return model.TokenPair{}, apperror.Internal(fmt.Errorf("issue tokens: %w", err))
	}

	oldHash := hashRefreshToken(refreshToken)
	newHash := hashRefreshToken(pair.RefreshToken)
	if err := s.store.RotateRefreshToken(ctx, user.ID, oldHash, newHash); err != nil {
		if err == db.ErrTokenMismatch {
			s.logger.InfoContext(ctx, "refresh rejected",
				slog.String("user_id", user.ID),
				slog.String("reason", "stored token mismatch"),
			)
			return model.TokenPair{}, apperror.Unauthorized("Invalid refresh token")
		}
		return model.TokenPair{}, apperror.Internal(fmt.Errorf("rotate refresh token: %w", err))
	}

	s.logger.InfoContext(ctx, "tokens refreshed", slog.String("user_id", user.ID))
	return pair, nil
}

// Logout clears the stored refresh token for the subject, if one is known.
// Safe to call without authentication and safe to repeat.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	if err := s.store.SetRefreshToken(ctx, userID, nil); err != nil {
		return apperror.Internal(fmt.Errorf("clear refresh token: %w", err))
	}
	s.logger.InfoContext(ctx, "user logged out", slog.String("user_id", userID))
	return nil
}

// ParseAccessToken verifies an access token and returns the principal.
// The role is trusted from the signed claims for the token's lifetime.
func (s *AuthService) ParseAccessToken(tokenStr string) (*model.AuthUser, error) {
	claims, err := s.tokens.Verify(tokenStr, KindAccess)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}
	role := claims.Role
	if role == "" {
		role = model.RoleUser
	}
	return &model.AuthUser{ID: claims.Subject, Role: role}, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperror.Unauthorized("Invalid or expired token")
		}
		return nil, apperror.Internal(fmt.Errorf("find user: %w", err))
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("list users: %w", err))
	}
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
