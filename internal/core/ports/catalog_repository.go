package ports

import (
	"context"
	"io"

	"github.com/storefront/catalog-service/internal/core/domain"
)

// ListQuery carries the storage-level paging parameters.
type ListQuery struct {
	Sort   domain.Sort
	Offset int
	Limit  int
}

// ProductFilter narrows product listings. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID int64
	// Keyword is matched case-insensitively as a substring of the name.
	Keyword string
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
	// FindByID returns domain.ErrCategoryNotFound when absent.
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	// FindByName returns domain.ErrCategoryNotFound when absent.
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	// List returns one page of categories and the total count.
	List(ctx context.Context, q ListQuery) ([]*domain.Category, int64, error)
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	DeleteByCategory(ctx context.Context, categoryID int64) (int64, error)
	// FindByID returns domain.ErrProductNotFound when absent.
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	ExistsInCategory(ctx context.Context, categoryID int64, name string) (bool, error)
	List(ctx context.Context, f ProductFilter, q ListQuery) ([]*domain.Product, int64, error)
}

// ImageStore persists uploaded product images.
type ImageStore interface {
	// Save stores r under a generated unique name that keeps the extension
	// of originalName, and returns that name.
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
}
