package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
)

// bindJSON decodes the request body and runs the registered validator.
func bindJSON(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

// pageRequest reads pageNumber, pageSize, sortBy and sortOrder from the query
// string. Absent values are left for the query service to default.
func pageRequest(c echo.Context) (ports.PageRequest, error) {
	var req ports.PageRequest
	err := echo.QueryParamsBinder(c).
		Int("pageNumber", &req.PageNumber).
		Int("pageSize", &req.PageSize).
		String("sortBy", &req.SortBy).
		String("sortOrder", &req.SortOrder).
		BindError()
	if err != nil {
		return req, bindingError(err)
	}
	return req, nil
}

// pathID reads a required integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	var id int64
	if err := echo.PathParamsBinder(c).MustInt64(name, &id).BindError(); err != nil {
		return 0, bindingError(err)
	}
	return id, nil
}

// bindingError turns echo's binder failures into a field-scoped validation
// error.
func bindingError(err error) error {
	var be *echo.BindingError
	if errors.As(err, &be) {
		return domain.NewValidationError(be.Field, be.Field+" must be a valid number")
	}
	return err
}
