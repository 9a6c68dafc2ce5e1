package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderCancelled OrderStatus = "Cancelled"
	OrderCompleted OrderStatus = "Completed"
)

// OrderRecord is the shopper's snapshot of a submitted order.
type OrderRecord struct {
	OrderID       string          `json:"orderId"`
	Timestamp     time.Time       `json:"timestamp"`
	Items         []CartLine      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee"`
	GiftWrapFee   decimal.Decimal `json:"giftWrapFee"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	CouponCode    string          `json:"couponCode,omitempty"`
	Message       string          `json:"message,omitempty"`
	Name          string          `json:"name"`
	Email         string          `json:"email,omitempty"`
	Address       string          `json:"address"`
	Phone         string          `json:"phone"`
	IsGiftWrapped bool            `json:"isGiftWrapped"`
	Status        OrderStatus     `json:"status"`
}

// CheckoutInfo is the last-used contact and address, kept for prefill.
type CheckoutInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email,omitempty"`
}

// ProfileData holds shopper profile fields plus the order history.
type ProfileData struct {
	Name         string        `json:"name,omitempty"`
	Email        string        `json:"email,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	Address      string        `json:"address,omitempty"`
	OrderHistory []OrderRecord `json:"orderHistory"`
}

// FindOrder returns the index of the order with id, or -1.
func (p ProfileData) FindOrder(id string) int {
	for i, o := range p.OrderHistory {
		if o.OrderID == id {
			return i
		}
	}
	return -1
}
