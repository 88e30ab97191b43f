package domain

import "strings"

// SortDirection orders a listing.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection treats "asc" (any case) as ascending and anything else
// as descending.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// SortField is a storage-neutral sort key.
type SortField string

const (
	SortByID           SortField = "id"
	SortByName         SortField = "name"
	SortByPrice        SortField = "price"
	SortByDiscount     SortField = "discount"
	SortBySpecialPrice SortField = "special_price"
	SortByQuantity     SortField = "quantity"
	SortByCreatedAt    SortField = "created_at"
	SortByUpdatedAt    SortField = "updated_at"
)

// Sort pairs a field with a direction.
type Sort struct {
	Field     SortField
	Direction SortDirection
}

// Page is a window over an ordered collection.
type Page[T any] struct {
	Items         []T
	PageNumber    int
	PageSize      int
	TotalElements int64
	TotalPages    int
	LastPage      bool
}

// NewPage derives the page metadata from the page number, size and total.
func NewPage[T any](items []T, pageNumber, pageSize int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page[T]{
		Items:         items,
		PageNumber:    pageNumber,
		PageSize:      pageSize,
		TotalElements: total,
		TotalPages:    totalPages,
		LastPage:      pageNumber == totalPages-1,
	}
}

// Offset returns the number of rows to skip for a 0-based page.
func Offset(pageNumber, pageSize int) int {
	return pageNumber * pageSize
}
