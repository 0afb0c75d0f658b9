package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/go-boiler/backend/internal/config"
	"github.com/go-boiler/backend/internal/service"
)

func newLimitedRouter(t *testing.T, limits config.RateLimitConfig) *gin.Engine {
	t.Helper()
	cfg := testConfig()
	cfg.RateLimit = limits
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewAuthService(newMemStore(), service.NewTokenManager(cfg.Auth), logger)
	return NewRouter(cfg, logger, svc)
}

func TestRateLimitPerIP(t *testing.T) {
	r := newLimitedRouter(t, config.RateLimitConfig{GlobalPerMinute: 100, PerIPPerMinute: 3})

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many requests from this IP, please try again later.",
		decodeEnvelope(t, w)["message"])
}

func TestRateLimitGlobal(t *testing.T) {
	r := newLimitedRouter(t, config.RateLimitConfig{GlobalPerMinute: 2, PerIPPerMinute: 100})

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many requests, please try again later.",
		decodeEnvelope(t, w)["message"])
}
