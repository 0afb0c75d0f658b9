package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/go-boiler/backend/internal/apperror"
	"github.com/go-boiler/backend/internal/model"
	"github.com/go-boiler/backend/internal/service"
)

const (
	authUserKey        = "auth_user"
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// Authenticate requires a valid access token, from the accessToken cookie
// or an Authorization: Bearer header.
func Authenticate(svc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractAccessToken(c)
		if token == "" {
			abortError(c, apperror.Unauthorized("Authentication token missing"))
			return
		}

		user, err := svc.ParseAccessToken(token)
		if err != nil {
			abortError(c, err)
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

// OptionalAuthenticate attaches the principal when a valid access token is
// presented but never rejects the request. Logout runs behind this so it
// stays safe to call unauthenticated.
func OptionalAuthenticate(svc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractAccessToken(c); token != "" {
			if user, err := svc.ParseAccessToken(token); err == nil {
				c.Set(authUserKey, user)
			}
		}
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. Both missing auth and a non-admin
// role answer Unauthorized.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetAuthUser(c)
		if user == nil {
			abortError(c, apperror.Unauthorized("Authentication required"))
			return
		}
		if user.Role != model.RoleAdmin {
			abortError(c, apperror.Unauthorized("Admin access required"))
			return
		}
		c.Next()
	}
}

func GetAuthUser(c *gin.Context) *model.AuthUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.AuthUser); ok {
			return user
		}
	}
	return nil
}

func extractAccessToken(c *gin.Context) string {
	if token, err := c.Cookie(accessTokenCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// RequestLogger is the access log: method, path, status, latency, client
// IP, and the subject id when the request was authenticated.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		subject := "guest"
		if user := GetAuthUser(c); user != nil {
			subject = user.ID
		}

		logger.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.ClientIP()),
			slog.String("subject", subject),
		)
	}
}

// Recovery converts panics into the error envelope instead of gin's plain
// 500 body.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			slog.Any("panic", recovered),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, apperror.Internal(nil))
		c.Abort()
	})
}
