package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-service/internal/api/metrics"
	"github.com/storefront/catalog-service/internal/core/ports"
)

// CategoryHandler handles HTTP requests for category operations.
type CategoryHandler struct {
	query     ports.CatalogQueryService
	mutations ports.CatalogMutationService
}

func NewCategoryHandler(query ports.CatalogQueryService, mutations ports.CatalogMutationService) *CategoryHandler {
	return &CategoryHandler{query: query, mutations: mutations}
}

// List handles GET /api/public/categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        pageNumber  query     int     false  "0-based page number"
// @Param        pageSize    query     int     false  "Page size"
// @Param        sortBy      query     string  false  "Sort field (categoryId, categoryName)"
// @Param        sortOrder   query     string  false  "asc or desc"
// @Success      200         {object}  categoryPageResponse
// @Failure      400         {object}  map[string]string
// @Router       /api/public/categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	page, err := h.query.ListCategories(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(page, toCategoryResponse))
}

// Create handles POST /api/admin/categories.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  categoryResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/admin/categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	category, err := h.mutations.CreateCategory(c.Request().Context(), req.CategoryName)
	if err != nil {
		return err
	}
	metrics.CatalogMutationsTotal.WithLabelValues("category", "create").Inc()
	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// Update handles PUT /api/admin/categories/:categoryId.
//
// @Summary      Rename a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        categoryId  path      int              true  "Category id"
// @Param        body        body      categoryRequest  true  "Category"
// @Success      200         {object}  categoryResponse
// @Failure      400         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Router       /api/admin/categories/{categoryId} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "categoryId")
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	category, err := h.mutations.UpdateCategory(c.Request().Context(), id, req.CategoryName)
	if err != nil {
		return err
	}
	metrics.CatalogMutationsTotal.WithLabelValues("category", "update").Inc()
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// Delete handles DELETE /api/admin/categories/:categoryId. Products of the
// category are deleted with it.
//
// @Summary      Delete a category and its products
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        categoryId  path      int  true  "Category id"
// @Success      200         {object}  categoryResponse
// @Failure      404         {object}  map[string]string
// @Router       /api/admin/categories/{categoryId} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "categoryId")
	if err != nil {
		return err
	}

	category, err := h.mutations.DeleteCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	metrics.CatalogMutationsTotal.WithLabelValues("category", "delete").Inc()
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}
