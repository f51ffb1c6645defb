package middleware

import (
	"net/http"
	"strings"

	"auraportal/internal/common"
	"auraportal/internal/models"
	"auraportal/internal/repositories"
	"auraportal/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware validates bearer tokens and re-reads the member record from
// the store on every request, so a record removed or demoted mid-session
// loses access at the next call.
type AuthMiddleware struct {
	authSvc    services.AuthService
	memberRepo repositories.MemberRepository
}

func NewAuthMiddleware(authSvc services.AuthService, memberRepo repositories.MemberRepository) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc, memberRepo: memberRepo}
}

func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			claims, err := m.authSvc.ValidateToken(c.Request().Context(), tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			member, err := m.memberRepo.FindByCPF(c.Request().Context(), claims.CPF)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Member lookup failed")
			}
			if member == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Member not found")
			}

			c.SetRequest(c.Request().WithContext(common.WithMember(c.Request().Context(), member)))
			return next(c)
		}
	}
}

// RequireAdmin gates admin-only routes on the Tipo column.
func (m *AuthMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			member, ok := common.GetMemberFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Member not authenticated")
			}
			if member.Tipo != models.TipoAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}
