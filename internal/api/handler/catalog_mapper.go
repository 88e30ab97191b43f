package handler

import (
	"github.com/storefront/catalog-service/internal/core/domain"
)

// ImageURLs resolves a stored image name to the address clients fetch it from.
type ImageURLs interface {
	URL(name string) string
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{CategoryID: c.ID, CategoryName: c.Name}
}

func toProductFields(req productRequest) domain.ProductFields {
	return domain.ProductFields{
		Name:        req.ProductName,
		Description: req.Description,
		Image:       req.Image,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Discount:    req.Discount,
	}
}

func toProductResponse(p *domain.Product, images ImageURLs) productResponse {
	image := p.Image
	if images != nil && image != "" {
		image = images.URL(image)
	}
	return productResponse{
		ProductID:    p.ID,
		ProductName:  p.Name,
		Image:        image,
		Description:  p.Description,
		Quantity:     p.Quantity,
		Price:        p.Price,
		Discount:     p.Discount,
		SpecialPrice: p.SpecialPrice,
		CategoryID:   p.CategoryID,
		SellerID:     p.SellerID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toPageResponse[T, R any](p domain.Page[T], conv func(T) R) pageResponse[R] {
	content := make([]R, 0, len(p.Items))
	for _, item := range p.Items {
		content = append(content, conv(item))
	}
	return pageResponse[R]{
		Content:       content,
		PageNumber:    p.PageNumber,
		PageSize:      p.PageSize,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		LastPage:      p.LastPage,
	}
}
