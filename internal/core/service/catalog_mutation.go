package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
)

var _ ports.CatalogMutationService = (*CatalogMutationService)(nil)

// CatalogMutationService creates, updates and deletes catalog entries. Every
// operation requires domain.PermCatalogWrite on the principal in ctx.
type CatalogMutationService struct {
	categories ports.CategoryRepository
	products   ports.ProductRepository
	images     ports.ImageStore
	logger     zerolog.Logger
	now        func() time.Time
}

func NewCatalogMutationService(categories ports.CategoryRepository, products ports.ProductRepository, images ports.ImageStore, logger zerolog.Logger) *CatalogMutationService {
	return &CatalogMutationService{
		categories: categories,
		products:   products,
		images:     images,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *CatalogMutationService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if _, err := domain.Authorize(ctx, domain.PermCatalogWrite); err != nil {
		return nil, err
	}
	if err := domain.ValidateCategoryName(name); err != nil {
		return nil, err
	}
	if err := s.ensureCategoryNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	created, err := s.categories.Create(ctx, &domain.Category{Name: name})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("category_id", created.ID).Str("name", created.Name).Msg("category created")
	return created, nil
}

func (s *CatalogMutationService) UpdateCategory(ctx context.Context, id int64, name string) (*domain.Category, error) {
	if _, err := domain.Authorize(ctx, domain.PermCatalogWrite); err != nil {
		return nil, err
	}
	if err := domain.ValidateCategoryName(name); err != nil {
		return nil, err
	}

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategoryNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	category.Name = name
	return s.categories.Update(ctx, category)
}

// DeleteCategory removes the category together with all of its products and
// returns the deleted category.
func (s *CatalogMutationService) DeleteCategory(ctx context.Context, id int64) (*domain.Category, error) {
	if _, err := domain.Authorize(ctx, domain.PermCatalogWrite); err != nil {
		return nil, err
	}

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	removed, err := s.products.DeleteByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("category_id", id).Int64("products_removed", removed).Msg("category deleted")
	return category, nil
}

// CreateProduct adds a product to a category. The caller becomes the seller
// and products without an image get domain.DefaultProductImage.
func (s *CatalogMutationService) CreateProduct(ctx context.Context, categoryID int64, fields domain.ProductFields) (*domain.Product, error) {
	principal, err := domain.Authorize(ctx, domain.PermCatalogWrite)
	if err != nil {
		return nil, err
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	exists, err := s.products.ExistsInCategory(ctx, categoryID, fields.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateProduct
	}

	now := s.now()
	product := &domain.Product{
		Name:        fields.Name,
		Description: fields.Description,
		Image:       fields.Image,
		Quantity:    fields.Quantity,
		CategoryID:  categoryID,
		SellerID:    principal.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Image == "" {
		product.Image = domain.DefaultProductImage
	}
	product.Reprice(fields.Price, fields.Discount)

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int64("product_id", created.ID).
		Int64("category_id", categoryID).
		Int64("seller_id", principal.ID).
		Msg("product created")
	return created, nil
}

// UpdateProduct overwrites the client-settable fields and recomputes the
// special price. An empty image keeps the current one.
func (s *CatalogMutationService) UpdateProduct(ctx context.Context, id int64, fields domain.ProductFields) (*domain.Product, error) {
	if _, err := domain.Authorize(ctx, domain.PermCatalogWrite); err != nil {
		return nil, err
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fields.Name != product.Name {
		exists, err := s.products.ExistsInCategory(ctx, product.CategoryID, fields.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateProduct
		}
	}

	product.Name = fields.Name
	product.Description = fields.Description
	product.Quantity = fields.Quantity
	if fields.Image != "" {
		product.Image = fields.Image
	}
	product.Reprice(fields.Price, fields.Discount)
	product.UpdatedAt = s.now()

	return s.products.Update(ctx, product)
}

func (s *CatalogMutationService) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if _, err := domain.Authorize(ctx, domain.PermCatalogWrite); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return product, nil
}

// ReplaceProductImage stores the upload under a fresh unique name and points
// the product at it. The previous file is left in place.
func (s *CatalogMutationService) ReplaceProductImage(ctx context.Context, id int64, filename string, image io.Reader) (*domain.Product, error) {
	if _, err := domain.Authorize(ctx, domain.PermCatalogWrite); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stored, err := s.images.Save(ctx, filename, image)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Str("filename", filename).Msg("image upload failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrImageStorageFailed, err)
	}

	product.Image = stored
	product.UpdatedAt = s.now()
	return s.products.Update(ctx, product)
}

// ensureCategoryNameFree fails with domain.ErrDuplicateCategory when another
// category (not selfID) already uses name.
func (s *CatalogMutationService) ensureCategoryNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.categories.FindByName(ctx, name)
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return domain.ErrDuplicateCategory
	}
	return nil
}
