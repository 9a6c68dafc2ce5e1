package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"categoryId,omitempty"`
	Images      []string        `json:"images"`
	Variants    []string        `json:"variants,omitempty"`
	Stock       int             `json:"stock"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// HasVariant reports whether v is one of the product's variants. An empty
// variant is accepted for products without variants.
func (p Product) HasVariant(v string) bool {
	if v == "" {
		return len(p.Variants) == 0
	}
	for _, candidate := range p.Variants {
		if candidate == v {
			return true
		}
	}
	return false
}
