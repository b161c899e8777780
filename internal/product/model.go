package product

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catering package.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	Category    string          `json:"category"`
	Servings    int             `json:"servings"`
	Features    []string        `json:"features"`
	IsPopular   bool            `json:"is_popular"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	Q        string    `json:"q,omitempty"`
	Category string    `json:"category,omitempty"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
	Items    []Product `json:"items"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string          `json:"name"        example:"Wedding Buffet Gold"`
	Description string          `json:"description" example:"Buffet for large receptions"`
	Price       decimal.Decimal `json:"price"       example:"1200000"`
	Category    string          `json:"category"    example:"wedding"`
	Servings    int             `json:"servings"    example:"100"`
	Features    []string        `json:"features"`
	IsPopular   bool            `json:"is_popular"`
}

// Validate returns a message describing the first invalid field, or "".
func (req CreateProductRequest) Validate() string {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return "name is required"
	case !req.Price.IsPositive():
		return "price must be positive"
	case strings.TrimSpace(req.Category) == "":
		return "category is required"
	case req.Servings < 1:
		return "servings must be at least 1"
	}
	return ""
}

// UpdateProductRequest payload of partial update. Nil fields are left unchanged.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Servings    *int             `json:"servings"`
	Features    []string         `json:"features"`
	IsPopular   *bool            `json:"is_popular"`
}

// Apply merges the non-nil fields of req into p.
func (req UpdateProductRequest) Apply(p *Product) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Servings != nil {
		p.Servings = *req.Servings
	}
	if req.Features != nil {
		p.Features = req.Features
	}
	if req.IsPopular != nil {
		p.IsPopular = *req.IsPopular
	}
}
