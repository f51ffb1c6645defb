package handlers

import (
	"errors"
	"net/http"

	"auraportal/internal/common"
	"auraportal/internal/services"

	"github.com/labstack/echo/v4"
)

// Minimum length accepted for a new password.
const minPasswordLength = 4

// UserHandlers handles the authenticated member's own profile requests
type UserHandlers struct {
	authService services.AuthService
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(authService services.AuthService) *UserHandlers {
	return &UserHandlers{authService: authService}
}

// Me returns the authenticated member's record, password stripped.
func (h *UserHandlers) Me(c echo.Context) error {
	member, ok := common.GetMemberFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Member not authenticated")
	}
	return c.JSON(http.StatusOK, member)
}

// ChangePasswordRequest represents the password change payload
type ChangePasswordRequest struct {
	SenhaAtual string `json:"senhaAtual" validate:"required"`
	SenhaNova  string `json:"senhaNova" validate:"required"`
}

// ChangePassword overwrites the member's stored password hash.
func (h *UserHandlers) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()

	member, ok := common.GetMemberFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Member not authenticated")
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.SenhaAtual == "" || req.SenhaNova == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Senha atual e nova senha são obrigatórias")
	}
	if len(req.SenhaNova) < minPasswordLength {
		return echo.NewHTTPError(http.StatusBadRequest, "A nova senha deve ter pelo menos 4 caracteres")
	}

	if err := h.authService.ChangePassword(ctx, member.CPF, req.SenhaAtual, req.SenhaNova); err != nil {
		if errors.Is(err, services.ErrWrongPassword) {
			return echo.NewHTTPError(http.StatusBadRequest, "Senha atual incorreta")
		}
		return common.SendServerError(c, "Failed to change password")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Senha alterada com sucesso",
	})
}
