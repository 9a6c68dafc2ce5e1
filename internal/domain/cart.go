package domain

import "github.com/shopspring/decimal"

// CartLine is one product/variant entry in a shopper's cart.
type CartLine struct {
	ProductID       string          `json:"productId"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	SelectedVariant string          `json:"selectedVariant,omitempty"`
	Selected        bool            `json:"selected"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	Note            string          `json:"note,omitempty"`
}

// SameItem reports whether two lines refer to the same product and variant.
func (l CartLine) SameItem(productID, variant string) bool {
	return l.ProductID == productID && l.SelectedVariant == variant
}

// LineTotal is price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
