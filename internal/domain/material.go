package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialCategory groups candle components by the slot they fill in a build.
type MaterialCategory string

const (
	MaterialContainer MaterialCategory = "container"
	MaterialWick      MaterialCategory = "wick"
	MaterialWax       MaterialCategory = "wax"
	MaterialAddon     MaterialCategory = "addon"
)

// Valid reports whether c is one of the known categories.
func (c MaterialCategory) Valid() bool {
	switch c {
	case MaterialContainer, MaterialWick, MaterialWax, MaterialAddon:
		return true
	}
	return false
}

// Material is a priced component usable in a custom candle build.
type Material struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	Category  MaterialCategory `json:"category"`
	ImageURL  string           `json:"imageUrl,omitempty"`
	Active    bool             `json:"active"`
	CreatedAt time.Time        `json:"createdAt"`
}
