package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/catalog-service/internal/api/handler"
	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
	"github.com/storefront/catalog-service/internal/core/service"
	"github.com/storefront/catalog-service/internal/infrastructure/config"
)

var (
	admin  = &domain.Principal{ID: 1, Username: "admin", Email: "admin@example.com", Roles: []domain.Role{domain.RoleAdmin}}
	seller = &domain.Principal{ID: 2, Username: "seller", Roles: []domain.Role{domain.RoleSeller}}
)

type routerAuth struct {
	tokens *service.TokenService
	users  map[string]*domain.Principal
}

func (a *routerAuth) SignIn(_ context.Context, username, password string) (*ports.SignInResult, error) {
	p, ok := a.users[username]
	if !ok || password != "pw" {
		return nil, domain.ErrBadCredentials
	}
	token, exp, err := a.tokens.Issue(p)
	if err != nil {
		return nil, err
	}
	return &ports.SignInResult{Principal: p, Token: token, ExpiresAt: exp}, nil
}

func (a *routerAuth) SignUp(context.Context, ports.SignUpInput) (*domain.User, error) {
	return &domain.User{}, nil
}

func (a *routerAuth) Authenticate(context.Context, string, string) (*domain.Principal, error) {
	return nil, domain.ErrBadCredentials
}

func (a *routerAuth) Principal(_ context.Context, username string) (*domain.Principal, error) {
	if p, ok := a.users[username]; ok {
		return p, nil
	}
	return nil, domain.ErrUnauthenticated
}

func (a *routerAuth) CurrentUser(ctx context.Context) (*domain.Principal, error) {
	if p, ok := domain.PrincipalFrom(ctx); ok {
		return p, nil
	}
	return nil, domain.ErrUnauthenticated
}

type routerQuery struct{ ports.CatalogQueryService }

func (routerQuery) ListCategories(context.Context, ports.PageRequest) (domain.Page[*domain.Category], error) {
	return domain.NewPage([]*domain.Category{{ID: 1, Name: "Electronics"}}, 0, 10, 1), nil
}

type routerMutations struct{ ports.CatalogMutationService }

func (routerMutations) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if _, err := domain.Authorize(ctx, domain.PermCatalogWrite); err != nil {
		return nil, err
	}
	return &domain.Category{ID: 2, Name: name}, nil
}

func TestRouter(t *testing.T) {
	cfg := &config.Config{
		Env: "development",
		Auth: config.AuthConfig{
			TokenTransport: config.TransportCookie,
			CookieName:     "catalog_session",
		},
		Images: config.ImageConfig{Dir: t.TempDir(), BaseURL: "/images"},
	}
	tokens := service.NewTokenService("secret", "catalog-service", time.Hour)
	auth := &routerAuth{tokens: tokens, users: map[string]*domain.Principal{"admin": admin, "seller": seller}}

	e := NewRouter(Deps{
		Config:    cfg,
		Logger:    zerolog.Nop(),
		Auth:      auth,
		Tokens:    tokens,
		Query:     routerQuery{},
		Mutations: routerMutations{},
		Health:    map[string]handler.PingFunc{"store": func(context.Context) error { return nil }},
	})

	bearer := func(p *domain.Principal) string {
		token, _, err := tokens.Issue(p)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		return "Bearer " + token
	}

	do := func(method, target, body, authorization string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		var r io.Reader
		if body != "" {
			r = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, target, r)
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	t.Run("probes are public", func(t *testing.T) {
		if rec := do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec := do(http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("public catalog without token", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/public/categories", "", "")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"categoryName":"Electronics"`) {
			t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("invalid token on public path", func(t *testing.T) {
		if rec := do(http.MethodGet, "/api/public/categories", "", "Bearer a.b.c"); rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("protected path without token", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/auth/user", "", "")
		var resp errorResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if rec.Code != http.StatusUnauthorized || resp.Success || resp.Message == "" {
			t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("seller cannot mutate", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/admin/categories", `{"categoryName":"Garden"}`, bearer(seller))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("admin creates category", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/admin/categories", `{"categoryName":"Garden"}`, bearer(admin))
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("validation errors render as field map", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/admin/categories", `{}`, bearer(admin))
		var fields map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &fields)
		if rec.Code != http.StatusBadRequest || fields["categoryName"] == "" {
			t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/auth/signin", `{"username":"admin","password":"nope"}`, "")
		if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), `"message":"Bad credentials"`) {
			t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("sign-in cookie authenticates later requests", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/auth/signin", `{"username":"admin","password":"pw"}`, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("sign-in failed: %d %s", rec.Code, rec.Body.String())
		}
		cookies := rec.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("expected a session cookie, got %+v", cookies)
		}

		rec = do(http.MethodGet, "/api/auth/username", "", "", cookies[0])
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"username":"admin"`) {
			t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
		}
	})
}
