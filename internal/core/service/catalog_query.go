package service

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
)

const (
	defaultPageSize = 10
	defaultMaxPage  = 100
)

// Sortable fields per entity, keyed by every name a client may send.
var (
	categorySortFields = map[string]domain.SortField{
		"id":           domain.SortByID,
		"categoryid":   domain.SortByID,
		"name":         domain.SortByName,
		"categoryname": domain.SortByName,
	}

	productSortFields = map[string]domain.SortField{
		"id":            domain.SortByID,
		"productid":     domain.SortByID,
		"name":          domain.SortByName,
		"productname":   domain.SortByName,
		"price":         domain.SortByPrice,
		"discount":      domain.SortByDiscount,
		"specialprice":  domain.SortBySpecialPrice,
		"special_price": domain.SortBySpecialPrice,
		"quantity":      domain.SortByQuantity,
		"createdat":     domain.SortByCreatedAt,
		"created_at":    domain.SortByCreatedAt,
		"updatedat":     domain.SortByUpdatedAt,
		"updated_at":    domain.SortByUpdatedAt,
	}
)

var _ ports.CatalogQueryService = (*CatalogQueryService)(nil)

// CatalogQueryService pages, sorts and searches categories and products.
type CatalogQueryService struct {
	categories ports.CategoryRepository
	products   ports.ProductRepository
	logger     zerolog.Logger

	pageSize    int
	maxPageSize int
}

func NewCatalogQueryService(categories ports.CategoryRepository, products ports.ProductRepository, pageSize, maxPageSize int, logger zerolog.Logger) *CatalogQueryService {
	if maxPageSize <= 0 {
		maxPageSize = defaultMaxPage
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return &CatalogQueryService{
		categories:  categories,
		products:    products,
		logger:      logger,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
	}
}

// ListCategories returns one page of categories. An empty page is reported
// as domain.ErrNoCategories.
func (s *CatalogQueryService) ListCategories(ctx context.Context, req ports.PageRequest) (domain.Page[*domain.Category], error) {
	q, err := s.listQuery(req, categorySortFields, domain.SortByID)
	if err != nil {
		return domain.Page[*domain.Category]{}, err
	}

	items, total, err := s.categories.List(ctx, q)
	if err != nil {
		return domain.Page[*domain.Category]{}, err
	}
	if len(items) == 0 {
		return domain.Page[*domain.Category]{}, domain.ErrNoCategories
	}
	return domain.NewPage(items, req.PageNumber, q.Limit, total), nil
}

// ListProducts returns one page of products. An empty page is reported as
// domain.ErrNoProducts.
func (s *CatalogQueryService) ListProducts(ctx context.Context, req ports.PageRequest) (domain.Page[*domain.Product], error) {
	page, err := s.listProducts(ctx, ports.ProductFilter{}, req, domain.SortByID)
	if err != nil {
		return page, err
	}
	if len(page.Items) == 0 {
		return domain.Page[*domain.Product]{}, domain.ErrNoProducts
	}
	return page, nil
}

// ListProductsByCategory returns the products of one category. Unlike the
// unfiltered listing, an empty page is a valid result.
func (s *CatalogQueryService) ListProductsByCategory(ctx context.Context, categoryID int64, req ports.PageRequest) (domain.Page[*domain.Product], error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return domain.Page[*domain.Product]{}, err
	}
	return s.listProducts(ctx, ports.ProductFilter{CategoryID: categoryID}, req, domain.SortByPrice)
}

// SearchProductsByKeyword matches keyword case-insensitively against product
// names. No match is reported as domain.ErrNoMatch.
func (s *CatalogQueryService) SearchProductsByKeyword(ctx context.Context, keyword string, req ports.PageRequest) (domain.Page[*domain.Product], error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return domain.Page[*domain.Product]{}, domain.NewValidationError("keyword", "keyword must not be blank")
	}

	page, err := s.listProducts(ctx, ports.ProductFilter{Keyword: keyword}, req, domain.SortByID)
	if err != nil {
		return page, err
	}
	if len(page.Items) == 0 {
		s.logger.Debug().Str("keyword", keyword).Int("page", req.PageNumber).Msg("keyword search found nothing")
		return domain.Page[*domain.Product]{}, domain.ErrNoMatch
	}
	return page, nil
}

func (s *CatalogQueryService) listProducts(ctx context.Context, f ports.ProductFilter, req ports.PageRequest, def domain.SortField) (domain.Page[*domain.Product], error) {
	q, err := s.listQuery(req, productSortFields, def)
	if err != nil {
		return domain.Page[*domain.Product]{}, err
	}

	items, total, err := s.products.List(ctx, f, q)
	if err != nil {
		return domain.Page[*domain.Product]{}, err
	}
	return domain.NewPage(items, req.PageNumber, q.Limit, total), nil
}

// listQuery validates the paging input and resolves the sort key against
// the entity's whitelist.
func (s *CatalogQueryService) listQuery(req ports.PageRequest, fields map[string]domain.SortField, def domain.SortField) (ports.ListQuery, error) {
	v := &domain.ValidationError{}
	if req.PageNumber < 0 {
		v.Add("pageNumber", "page number must not be negative")
	}

	size := req.PageSize
	switch {
	case size == 0:
		size = s.pageSize
	case size < 0:
		v.Add("pageSize", "page size must be positive")
	case size > s.maxPageSize:
		size = s.maxPageSize
	}

	field := def
	if raw := strings.TrimSpace(req.SortBy); raw != "" {
		f, ok := fields[strings.ToLower(raw)]
		if !ok {
			v.Add("sortBy", "unsupported sort field: "+raw)
		}
		field = f
	}

	dir := domain.SortAsc
	if req.SortOrder != "" {
		dir = domain.ParseSortDirection(req.SortOrder)
	}

	if size > 0 && req.PageNumber > math.MaxInt/size {
		v.Add("pageNumber", "page number is out of range")
	}

	if err := v.OrNil(); err != nil {
		return ports.ListQuery{}, err
	}
	return ports.ListQuery{
		Sort:   domain.Sort{Field: field, Direction: dir},
		Offset: domain.Offset(req.PageNumber, size),
		Limit:  size,
	}, nil
}
