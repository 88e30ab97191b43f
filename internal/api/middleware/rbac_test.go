package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-service/internal/core/domain"
)

func newRBACContext(p *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/categories", nil)
	if p != nil {
		req = req.WithContext(domain.WithPrincipal(context.Background(), p))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequirePermission_Allows(t *testing.T) {
	c, rec := newRBACContext(&domain.Principal{Username: "root", Roles: []domain.Role{domain.RoleAdmin}})

	called := false
	handler := RequirePermission(domain.PermCatalogWrite)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequirePermission_Forbids(t *testing.T) {
	tests := []struct {
		name      string
		principal *domain.Principal
		want      int
	}{
		{"seller", &domain.Principal{Username: "s", Roles: []domain.Role{domain.RoleSeller}}, http.StatusForbidden},
		{"user", &domain.Principal{Username: "u", Roles: []domain.Role{domain.RoleUser}}, http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRBACContext(tt.principal)
			handler := RequirePermission(domain.PermCatalogWrite)(func(c echo.Context) error {
				t.Fatalf("should not reach next handler")
				return nil
			})

			_ = handler(c)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
