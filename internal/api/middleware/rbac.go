package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-service/internal/core/domain"
)

type deniedResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// RequirePermission rejects requests whose principal lacks perm. It runs after
// Auth; the services repeat the check.
func RequirePermission(perm domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := domain.PrincipalFrom(c.Request().Context())
			if !ok {
				return c.JSON(http.StatusUnauthorized, deniedResponse{Message: domain.ErrUnauthenticated.Error()})
			}
			if !p.Can(perm) {
				return c.JSON(http.StatusForbidden, deniedResponse{Message: "access denied"})
			}
			return next(c)
		}
	}
}
