package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/go-boiler/backend/internal/config"
	"github.com/go-boiler/backend/internal/model"
)

// TokenKind selects which signing secret and lifetime apply.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Verification failures are kept distinct internally for diagnostics; the
// handlers collapse both onto Unauthorized.
var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// TokenClaims is the signed payload: subject id, issued-at, expires-at,
// plus the role on access tokens. Signed, not encrypted — no secret data.
type TokenClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 token pairs with an independent
// secret per kind.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}
}

func (m *TokenManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// Issue signs a token of the given kind for the subject. Role is only
// embedded in access tokens; refresh tokens carry the bare envelope.
func (m *TokenManager) Issue(subjectID, role string, kind TokenKind) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttlFor(kind))),
		},
	}
	if kind == KindAccess {
		claims.Role = role
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretFor(kind))
}

// IssuePair signs an access/refresh pair naming the same subject.
func (m *TokenManager) IssuePair(subjectID, role string) (model.TokenPair, error) {
	accessToken, err := m.Issue(subjectID, role, KindAccess)
	if err != nil {
		return model.TokenPair{}, err
	}
	refreshToken, err := m.Issue(subjectID, role, KindRefresh)
	if err != nil {
		return model.TokenPair{}, err
	}
	return model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Verify checks signature and expiry against the secret for kind. A token
// of one kind never verifies against the other kind's secret.
func (m *TokenManager) Verify(tokenStr string, kind TokenKind) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secretFor(kind), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (m *TokenManager) secretFor(kind TokenKind) []byte {
	if kind == KindRefresh {
		return m.refreshSecret
	}
	return m.accessSecret
}

func (m *TokenManager) ttlFor(kind TokenKind) time.Duration {
	if kind == KindRefresh {
		return m.refreshTTL
	}
	return m.accessTTL
}
