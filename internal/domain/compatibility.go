package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompatibilityRule declares whether a container, wick and wax combination is
// sellable and how it adjusts the price.
type CompatibilityRule struct {
	ID            string          `json:"id"`
	ContainerID   string          `json:"containerId"`
	WickID        string          `json:"wickId"`
	WaxID         string          `json:"waxId"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
	IsCompatible  bool            `json:"isCompatible"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Matches reports whether the rule covers exactly the given triple.
func (r CompatibilityRule) Matches(containerID, wickID, waxID string) bool {
	return r.ContainerID == containerID && r.WickID == wickID && r.WaxID == waxID
}
