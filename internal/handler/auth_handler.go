package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/laporinapp/laporin/internal/model"
	"github.com/laporinapp/laporin/internal/service"
	"github.com/laporinapp/laporin/pkg/auth"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary Login
// @Description Authenticate with email and password, returns a JWT token and sets it as a cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Login credentials"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "invalid email or password"})
		return
	}

	// The same token is set as a cookie so the WebSocket handshake can
	// present it without custom headers.
	c.SetCookie(auth.AccessTokenCookie, resp.Token, int(h.authService.TokenLifetime().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Logout
// @Description Blacklist the current token and clear the session cookie
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SuccessResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" || token == authHeader {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "missing token"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to logout"})
		return
	}

	c.SetCookie(auth.AccessTokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, model.SuccessResponse{Message: "logged out"})
}
