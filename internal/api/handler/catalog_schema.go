package handler

import "time"

// --- Request types ---

type categoryRequest struct {
	CategoryName string `json:"categoryName" validate:"required"`
}

type productRequest struct {
	ProductName string  `json:"productName" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
	Discount    float64 `json:"discount" validate:"gte=0,lte=100"`
}

// --- Response types ---

type categoryResponse struct {
	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

type productResponse struct {
	ProductID    int64     `json:"productId"`
	ProductName  string    `json:"productName"`
	Image        string    `json:"image"`
	Description  string    `json:"description"`
	Quantity     int       `json:"quantity"`
	Price        float64   `json:"price"`
	Discount     float64   `json:"discount"`
	SpecialPrice float64   `json:"specialPrice"`
	CategoryID   int64     `json:"categoryId"`
	SellerID     int64     `json:"sellerId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// pageResponse is the JSON form of domain.Page.
type pageResponse[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	LastPage      bool  `json:"lastPage"`
}

// Swagger cannot describe generic types; these aliases name the concrete
// page shapes for the annotations.
type (
	categoryPageResponse = pageResponse[categoryResponse]
	productPageResponse  = pageResponse[productResponse]
)
