package ports

import (
	"context"
	"io"

	"github.com/storefront/catalog-service/internal/core/domain"
)

// PageRequest is the client-facing paging input. SortBy is the raw client
// field name; the query engine resolves it against a whitelist.
type PageRequest struct {
	PageNumber int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// CatalogQueryService lists and searches the catalog.
type CatalogQueryService interface {
	ListCategories(ctx context.Context, req PageRequest) (domain.Page[*domain.Category], error)
	ListProducts(ctx context.Context, req PageRequest) (domain.Page[*domain.Product], error)
	ListProductsByCategory(ctx context.Context, categoryID int64, req PageRequest) (domain.Page[*domain.Product], error)
	SearchProductsByKeyword(ctx context.Context, keyword string, req PageRequest) (domain.Page[*domain.Product], error)
}

// CatalogMutationService changes the catalog. Every operation requires a
// principal with domain.PermCatalogWrite in ctx.
type CatalogMutationService interface {
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateProduct(ctx context.Context, categoryID int64, fields domain.ProductFields) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, fields domain.ProductFields) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) (*domain.Product, error)
	ReplaceProductImage(ctx context.Context, id int64, filename string, image io.Reader) (*domain.Product, error)
}
