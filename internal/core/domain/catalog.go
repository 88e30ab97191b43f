package domain

import (
	"time"
	"unicode/utf8"
)

// DefaultProductImage is assigned to products created without an image.
const DefaultProductImage = "default.png"

const (
	MinCategoryNameLen       = 5
	MinProductNameLen        = 3
	MinProductDescriptionLen = 20
)

// Category groups products. Names are unique across the catalog.
type Category struct {
	ID   int64  `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}

// Product is a sellable item owned by a category and a seller.
type Product struct {
	ID           int64     `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Description  string    `json:"description" bson:"description"`
	Image        string    `json:"image" bson:"image"`
	Quantity     int       `json:"quantity" bson:"quantity"`
	Price        float64   `json:"price" bson:"price"`
	Discount     float64   `json:"discount" bson:"discount"`
	SpecialPrice float64   `json:"special_price" bson:"special_price"`
	CategoryID   int64     `json:"category_id" bson:"category_id"`
	SellerID     int64     `json:"seller_id,omitempty" bson:"seller_id,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// SpecialPrice is the price after applying a percentage discount.
func SpecialPrice(price, discount float64) float64 {
	return price - (price * discount / 100)
}

// Reprice sets price and discount and recomputes the special price.
func (p *Product) Reprice(price, discount float64) {
	p.Price = price
	p.Discount = discount
	p.SpecialPrice = SpecialPrice(price, discount)
}

// ValidateCategoryName enforces the minimum category name length.
func ValidateCategoryName(name string) error {
	if utf8.RuneCountInString(name) < MinCategoryNameLen {
		return NewValidationError("categoryName", "category name must be at least 5 characters long")
	}
	return nil
}

// ProductFields are the client-settable product attributes.
type ProductFields struct {
	Name        string
	Description string
	Image       string
	Quantity    int
	Price       float64
	Discount    float64
}

// Validate checks the product invariants that do not depend on storage.
func (f ProductFields) Validate() error {
	v := &ValidationError{}
	if utf8.RuneCountInString(f.Name) < MinProductNameLen {
		v.Add("productName", "product name must contain at least 3 characters")
	}
	if utf8.RuneCountInString(f.Description) < MinProductDescriptionLen {
		v.Add("description", "product description must contain at least 20 characters")
	}
	if f.Quantity < 0 {
		v.Add("quantity", "quantity must not be negative")
	}
	if f.Price < 0 {
		v.Add("price", "price must not be negative")
	}
	if f.Discount < 0 || f.Discount > 100 {
		v.Add("discount", "discount must be between 0 and 100")
	}
	return v.OrNil()
}
