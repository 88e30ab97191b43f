package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// --- auth ---

type stubAuthService struct {
	signInFn func(ctx context.Context, username, password string) (*ports.SignInResult, error)
	signUpFn func(ctx context.Context, in ports.SignUpInput) (*domain.User, error)
}

func (s *stubAuthService) SignIn(ctx context.Context, username, password string) (*ports.SignInResult, error) {
	return s.signInFn(ctx, username, password)
}

func (s *stubAuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error) {
	return s.signUpFn(ctx, in)
}

func (s *stubAuthService) Authenticate(context.Context, string, string) (*domain.Principal, error) {
	return nil, domain.ErrBadCredentials
}

func (s *stubAuthService) Principal(context.Context, string) (*domain.Principal, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubAuthService) CurrentUser(ctx context.Context) (*domain.Principal, error) {
	p, ok := domain.PrincipalFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

// --- catalog ---

type stubQuery struct {
	lastReq     ports.PageRequest
	lastID      int64
	lastKeyword string
	categories  domain.Page[*domain.Category]
	products    domain.Page[*domain.Product]
	err         error
}

func (s *stubQuery) ListCategories(_ context.Context, req ports.PageRequest) (domain.Page[*domain.Category], error) {
	s.lastReq = req
	return s.categories, s.err
}

func (s *stubQuery) ListProducts(_ context.Context, req ports.PageRequest) (domain.Page[*domain.Product], error) {
	s.lastReq = req
	return s.products, s.err
}

func (s *stubQuery) ListProductsByCategory(_ context.Context, id int64, req ports.PageRequest) (domain.Page[*domain.Product], error) {
	s.lastID, s.lastReq = id, req
	return s.products, s.err
}

func (s *stubQuery) SearchProductsByKeyword(_ context.Context, keyword string, req ports.PageRequest) (domain.Page[*domain.Product], error) {
	s.lastKeyword, s.lastReq = keyword, req
	return s.products, s.err
}

type stubMutations struct {
	lastID     int64
	lastName   string
	lastFields domain.ProductFields
	lastImage  string
	imageBytes string
	err        error
}

func (s *stubMutations) CreateCategory(_ context.Context, name string) (*domain.Category, error) {
	s.lastName = name
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Category{ID: 1, Name: name}, nil
}

func (s *stubMutations) UpdateCategory(_ context.Context, id int64, name string) (*domain.Category, error) {
	s.lastID, s.lastName = id, name
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Category{ID: id, Name: name}, nil
}

func (s *stubMutations) DeleteCategory(_ context.Context, id int64) (*domain.Category, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Category{ID: id, Name: "Deleted"}, nil
}

func (s *stubMutations) CreateProduct(_ context.Context, categoryID int64, f domain.ProductFields) (*domain.Product, error) {
	s.lastID, s.lastFields = categoryID, f
	if s.err != nil {
		return nil, s.err
	}
	p := &domain.Product{ID: 10, Name: f.Name, Description: f.Description, Image: domain.DefaultProductImage, Quantity: f.Quantity, CategoryID: categoryID}
	p.Reprice(f.Price, f.Discount)
	return p, nil
}

func (s *stubMutations) UpdateProduct(_ context.Context, id int64, f domain.ProductFields) (*domain.Product, error) {
	s.lastID, s.lastFields = id, f
	if s.err != nil {
		return nil, s.err
	}
	p := &domain.Product{ID: id, Name: f.Name}
	p.Reprice(f.Price, f.Discount)
	return p, nil
}

func (s *stubMutations) DeleteProduct(_ context.Context, id int64) (*domain.Product, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: id}, nil
}

func (s *stubMutations) ReplaceProductImage(_ context.Context, id int64, filename string, r io.Reader) (*domain.Product, error) {
	s.lastID, s.lastImage = id, filename
	data, _ := io.ReadAll(r)
	s.imageBytes = string(data)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: id, Image: "stored.png"}, nil
}

type prefixURLs string

func (p prefixURLs) URL(name string) string { return string(p) + "/" + name }
