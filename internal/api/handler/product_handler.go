package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-service/internal/api/metrics"
	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
)

// ProductHandler handles HTTP requests for product operations.
type ProductHandler struct {
	query     ports.CatalogQueryService
	mutations ports.CatalogMutationService
	images    ImageURLs
}

func NewProductHandler(query ports.CatalogQueryService, mutations ports.CatalogMutationService, images ImageURLs) *ProductHandler {
	return &ProductHandler{query: query, mutations: mutations, images: images}
}

func (h *ProductHandler) toResponse(p *domain.Product) productResponse {
	return toProductResponse(p, h.images)
}

func (h *ProductHandler) page(c echo.Context, page domain.Page[*domain.Product]) error {
	return c.JSON(http.StatusOK, toPageResponse(page, h.toResponse))
}

// List handles GET /api/public/products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        pageNumber  query     int     false  "0-based page number"
// @Param        pageSize    query     int     false  "Page size"
// @Param        sortBy      query     string  false  "Sort field (productId, productName, price, discount, specialPrice, quantity)"
// @Param        sortOrder   query     string  false  "asc or desc"
// @Success      200         {object}  productPageResponse
// @Failure      400         {object}  map[string]string
// @Router       /api/public/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	page, err := h.query.ListProducts(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return h.page(c, page)
}

// ListByCategory handles GET /api/public/categories/:categoryId/products.
//
// @Summary      List the products of a category
// @Tags         products
// @Produce      json
// @Param        categoryId  path      int     true   "Category id"
// @Param        pageNumber  query     int     false  "0-based page number"
// @Param        pageSize    query     int     false  "Page size"
// @Param        sortBy      query     string  false  "Sort field, defaults to price"
// @Param        sortOrder   query     string  false  "asc or desc"
// @Success      200         {object}  productPageResponse
// @Failure      404         {object}  map[string]string
// @Router       /api/public/categories/{categoryId}/products [get]
func (h *ProductHandler) ListByCategory(c echo.Context) error {
	id, err := pathID(c, "categoryId")
	if err != nil {
		return err
	}
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	page, err := h.query.ListProductsByCategory(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return h.page(c, page)
}

// Search handles GET /api/public/products/keyword/:keyword.
//
// @Summary      Search products by name
// @Tags         products
// @Produce      json
// @Param        keyword     path      string  true   "Case-insensitive name fragment"
// @Param        pageNumber  query     int     false  "0-based page number"
// @Param        pageSize    query     int     false  "Page size"
// @Param        sortBy      query     string  false  "Sort field"
// @Param        sortOrder   query     string  false  "asc or desc"
// @Success      200         {object}  productPageResponse
// @Failure      400         {object}  map[string]string
// @Router       /api/public/products/keyword/{keyword} [get]
func (h *ProductHandler) Search(c echo.Context) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	page, err := h.query.SearchProductsByKeyword(c.Request().Context(), c.Param("keyword"), req)
	if err != nil {
		return err
	}
	return h.page(c, page)
}

// Create handles POST /api/admin/categories/:categoryId/product.
//
// @Summary      Add a product to a category
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        categoryId  path      int             true  "Category id"
// @Param        body        body      productRequest  true  "Product"
// @Success      201         {object}  productResponse
// @Failure      400         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Router       /api/admin/categories/{categoryId}/product [post]
func (h *ProductHandler) Create(c echo.Context) error {
	categoryID, err := pathID(c, "categoryId")
	if err != nil {
		return err
	}
	var req productRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	product, err := h.mutations.CreateProduct(c.Request().Context(), categoryID, toProductFields(req))
	if err != nil {
		return err
	}
	metrics.CatalogMutationsTotal.WithLabelValues("product", "create").Inc()
	return c.JSON(http.StatusCreated, h.toResponse(product))
}

// Update handles PUT /api/admin/products/:productId.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path      int             true  "Product id"
// @Param        body       body      productRequest  true  "Product"
// @Success      200        {object}  productResponse
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/admin/products/{productId} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "productId")
	if err != nil {
		return err
	}
	var req productRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	product, err := h.mutations.UpdateProduct(c.Request().Context(), id, toProductFields(req))
	if err != nil {
		return err
	}
	metrics.CatalogMutationsTotal.WithLabelValues("product", "update").Inc()
	return c.JSON(http.StatusOK, h.toResponse(product))
}

// Delete handles DELETE /api/admin/products/:productId.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path      int  true  "Product id"
// @Success      200        {object}  productResponse
// @Failure      404        {object}  map[string]string
// @Router       /api/admin/products/{productId} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "productId")
	if err != nil {
		return err
	}

	product, err := h.mutations.DeleteProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	metrics.CatalogMutationsTotal.WithLabelValues("product", "delete").Inc()
	return c.JSON(http.StatusOK, h.toResponse(product))
}

// UpdateImage handles PUT /api/admin/products/:productId/image.
//
// @Summary      Replace a product image
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path      int   true  "Product id"
// @Param        image      formData  file  true  "Image file"
// @Success      200        {object}  productResponse
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Failure      500        {object}  map[string]string
// @Router       /api/admin/products/{productId}/image [put]
func (h *ProductHandler) UpdateImage(c echo.Context) error {
	id, err := pathID(c, "productId")
	if err != nil {
		return err
	}
	file, err := c.FormFile("image")
	if err != nil {
		return domain.NewValidationError("image", "image file is required")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	product, err := h.mutations.ReplaceProductImage(c.Request().Context(), id, file.Filename, src)
	if err != nil {
		metrics.ImageUploadsTotal.WithLabelValues("failed").Inc()
		return err
	}
	metrics.ImageUploadsTotal.WithLabelValues("stored").Inc()
	metrics.ImageUploadBytes.Observe(float64(file.Size))
	return c.JSON(http.StatusOK, h.toResponse(product))
}
