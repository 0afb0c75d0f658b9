package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-boiler/backend/internal/apperror"
	"github.com/go-boiler/backend/internal/model"
	"github.com/go-boiler/backend/internal/service"
)

type AuthHandler struct {
	svc     *service.AuthService
	cookies CookieConfig
}

func NewAuthHandler(svc *service.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{svc: svc, cookies: cookies}
}

// Signup godoc
// @Summary Register a new user
// @Description Creates a credential record and starts a session. Both tokens are set as HttpOnly cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.SignupRequest true "Email, password and optional name"
// @Success 201 {object} model.Response
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.BadRequest("Invalid request body"))
		return
	}

	user, pair, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	respond(c, http.StatusCreated, "User registered successfully", model.AuthData{
		User:  user,
		Token: pair.AccessToken,
	})
}

// Login godoc
// @Summary Login
// @Description Verifies credentials and replaces any prior session.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 200 {object} model.Response
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.BadRequest("Invalid request body"))
		return
	}

	user, pair, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	respond(c, http.StatusOK, "Login successful", model.AuthData{
		User:  user,
		Token: pair.AccessToken,
	})
}

// RefreshToken godoc
// @Summary Refresh the token pair
// @Description Reads the refreshToken cookie, rotates the stored token and resets both cookies.
// @Tags auth
// @Produce json
// @Success 200 {object} model.Response
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshTokenCookie)

	pair, err := h.svc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	respond(c, http.StatusOK, "Token refreshed successfully", nil)
}

// Logout godoc
// @Summary Logout
// @Description Clears the stored session when authenticated and always clears both cookies. Idempotent.
// @Tags auth
// @Produce json
// @Success 200 {object} model.Response
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if user := GetAuthUser(c); user != nil {
		if err := h.svc.Logout(c.Request.Context(), user.ID); err != nil {
			respondError(c, err)
			return
		}
	}

	h.clearTokenCookies(c)
	respond(c, http.StatusOK, "Logged out successfully", nil)
}

// Me godoc
// @Summary Get current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Response
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		respondError(c, apperror.Unauthorized("Authentication required"))
		return
	}

	record, err := h.svc.GetUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", record)
}

// ListUsers godoc
// @Summary List all users
// @Description Admin-only listing of registered users.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Response
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/admin/users [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", model.UserListData{
		Users: users,
		Count: len(users),
	})
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, pair model.TokenPair) {
	cfg := h.cookies
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(accessTokenCookie, pair.AccessToken, cfg.AccessMaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(refreshTokenCookie, pair.RefreshToken, cfg.RefreshMaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	cfg := h.cookies
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(accessTokenCookie, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
}
