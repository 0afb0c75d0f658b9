package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/go-boiler/backend/internal/apperror"
	"github.com/go-boiler/backend/internal/config"
	"github.com/go-boiler/backend/internal/service"
)

// NewRouter wires middleware and routes for the whole API surface.
func NewRouter(cfg config.Config, logger *slog.Logger, svc *service.AuthService) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(logger))
	r.Use(RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(RateLimit(cfg.RateLimit))

	cookies := cookieConfig(cfg, svc)
	auth := NewAuthHandler(svc, cookies)

	r.GET("/health", Health)
	r.GET("/openapi.json", OpenAPIDoc)

	api := r.Group("/api/v1")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", auth.Signup)
			authRoutes.POST("/login", auth.Login)
			authRoutes.POST("/refresh-token", auth.RefreshToken)
			authRoutes.POST("/logout", OptionalAuthenticate(svc), auth.Logout)
			authRoutes.GET("/me", Authenticate(svc), auth.Me)
		}

		admin := api.Group("/admin", Authenticate(svc), RequireAdmin())
		{
			admin.GET("/users", auth.ListUsers)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		respondError(c, apperror.NotFound("Route not found"))
	})

	return r
}

func corsConfig(cfg config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.AllowedOrigins
	corsCfg.AllowCredentials = true
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsCfg.ExposeHeaders = []string{"Content-Length"}
	corsCfg.MaxAge = 24 * time.Hour
	return corsCfg
}

func cookieConfig(cfg config.Config, svc *service.AuthService) CookieConfig {
	sameSite := http.SameSiteLaxMode
	if cfg.Production() {
		sameSite = http.SameSiteNoneMode
	}
	return CookieConfig{
		Path:          "/",
		Secure:        cfg.Production(),
		SameSite:      sameSite,
		AccessMaxAge:  int(svc.Tokens().AccessTTL().Seconds()),
		RefreshMaxAge: int(svc.Tokens().RefreshTTL().Seconds()),
	}
}
