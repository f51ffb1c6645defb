package handlers

import (
	"errors"
	"net/http"
	"strings"

	"auraportal/internal/common"
	"auraportal/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	CPF   string `json:"cpf" validate:"required"`
	Senha string `json:"senha" validate:"required"`
}

// Login handles member login with CPF and password
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.CPF == "" || req.Senha == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "CPF e senha são obrigatórios")
	}

	cpf, err := common.ValidateCPF(req.CPF, "cpf")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tokenResponse, err := h.authService.Authenticate(ctx, cpf, req.Senha)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "Credenciais inválidas")
		case errors.Is(err, services.ErrRateLimited):
			return echo.NewHTTPError(http.StatusTooManyRequests, "Muitas tentativas de login. Tente novamente em instantes.")
		default:
			return common.SendServerError(c, "Failed to authenticate")
		}
	}

	return c.JSON(http.StatusOK, tokenResponse)
}

// Logout revokes the presented bearer token.
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if _, ok := common.GetMemberFromContext(ctx); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Member not authenticated")
	}

	authHeader := c.Request().Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	if err := h.authService.RevokeToken(ctx, tokenString); err != nil {
		return common.SendServerError(c, "Failed to revoke token")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}
