package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/service"
	"github.com/storefront/catalog-service/internal/infrastructure/config"
)

const testCookie = "catalog_session"

type stubPrincipals map[string]*domain.Principal

func (s stubPrincipals) Principal(_ context.Context, username string) (*domain.Principal, error) {
	if p, ok := s[username]; ok {
		return p, nil
	}
	return nil, domain.ErrUnauthenticated
}

var alice = &domain.Principal{ID: 1, Username: "alice", Roles: []domain.Role{domain.RoleAdmin}}

func newAuth(transport string) (echo.MiddlewareFunc, *service.TokenService) {
	tokens := service.NewTokenService("secret", "catalog-service", time.Hour)
	return Auth(AuthConfig{
		Tokens:      tokens,
		Principals:  stubPrincipals{"alice": alice},
		Transport:   transport,
		CookieName:  testCookie,
		PublicPaths: []string{"/api/auth/signin", "/api/public/*"},
		Logger:      zerolog.Nop(),
	}), tokens
}

func issue(t *testing.T, tokens *service.TokenService, p *domain.Principal) string {
	t.Helper()
	token, _, err := tokens.Issue(p)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// serve runs the middleware around a handler that records the principal it
// sees, and renders any returned error through echo's default handler.
func serve(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, *domain.Principal, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *domain.Principal
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		seen, _ = domain.PrincipalFrom(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen, called
}

func TestAuthMiddleware_ValidBearerToken(t *testing.T) {
	mw, tokens := newAuth(config.TransportHeader)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, alice))
	rec, seen, called := serve(t, mw, req)

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected handler to run, got %d", rec.Code)
	}
	if seen == nil || seen.Username != "alice" || !seen.HasRole(domain.RoleAdmin) {
		t.Fatalf("principal not attached: %+v", seen)
	}
}

func TestAuthMiddleware_ValidCookieToken(t *testing.T) {
	mw, tokens := newAuth(config.TransportCookie)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/categories", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: issue(t, tokens, alice)})
	rec, seen, _ := serve(t, mw, req)

	if rec.Code != http.StatusOK || seen == nil {
		t.Fatalf("expected authenticated request, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ConfiguredTransportWins(t *testing.T) {
	mw, tokens := newAuth(config.TransportCookie)

	// A valid cookie must win over a garbage header when cookies are configured.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	req.AddCookie(&http.Cookie{Name: testCookie, Value: issue(t, tokens, alice)})
	if rec, _, _ := serve(t, mw, req); rec.Code != http.StatusOK {
		t.Fatalf("expected cookie to take priority, got %d", rec.Code)
	}

	// The other transport is still accepted as a fallback.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, alice))
	if rec, _, _ := serve(t, mw, req); rec.Code != http.StatusOK {
		t.Fatalf("expected header fallback, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	mw, _ := newAuth(config.TransportHeader)

	tests := []struct {
		path       string
		wantCode   int
		wantCalled bool
	}{
		{"/api/public/products", http.StatusOK, true},
		{"/api/auth/signin", http.StatusOK, true},
		{"/api/auth/user", http.StatusUnauthorized, false},
		{"/api/admin/categories", http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, seen, called := serve(t, mw, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantCode || called != tt.wantCalled {
				t.Fatalf("want %d/%v, got %d/%v", tt.wantCode, tt.wantCalled, rec.Code, called)
			}
			if seen != nil {
				t.Fatalf("anonymous request must not carry a principal")
			}
		})
	}
}

func TestAuthMiddleware_InvalidTokenRejectedOnPublicPath(t *testing.T) {
	mw, _ := newAuth(config.TransportHeader)

	req := httptest.NewRequest(http.MethodGet, "/api/public/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec, _, called := serve(t, mw, req)

	if called {
		t.Fatal("handler must not run with an invalid token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ExpiredCookieIsCleared(t *testing.T) {
	mw, _ := newAuth(config.TransportCookie)
	stale := service.NewTokenService("secret", "catalog-service", time.Nanosecond)
	token := issue(t, stale, alice)
	time.Sleep(2 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/api/public/categories", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	rec, _, called := serve(t, mw, req)

	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without reaching the handler, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != testCookie || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected the session cookie to be expired, got %+v", cookies)
	}
}

func TestAuthMiddleware_UnknownSubject(t *testing.T) {
	mw, tokens := newAuth(config.TransportHeader)
	ghost := &domain.Principal{ID: 9, Username: "ghost", Roles: []domain.Role{domain.RoleUser}}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, ghost))
	if rec, _, called := serve(t, mw, req); called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a deleted user, got %d", rec.Code)
	}
}

func TestIsPublic(t *testing.T) {
	patterns := []string{"/api/auth/signin", "/api/public/*", "/health*"}
	tests := map[string]bool{
		"/api/auth/signin":        true,
		"/api/auth/signin/extra":  false,
		"/api/public/categories":  true,
		"/api/publicity":          false,
		"/health":                 true,
		"/health/ready":           true,
		"/api/admin/categories/1": false,
	}
	for path, want := range tests {
		if got := isPublic(path, patterns); got != want {
			t.Errorf("isPublic(%q): want %v, got %v", path, want, got)
		}
	}
}

func TestValidationResult(t *testing.T) {
	if got := validationResult(domain.ErrTokenExpired); got != "expired" {
		t.Errorf("unexpected label %s", got)
	}
	if got := validationResult(errors.New("boom")); got != "malformed" {
		t.Errorf("unexpected label %s", got)
	}
}
