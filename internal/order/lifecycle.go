package order

import (
	"errors"
	"strings"
	"time"

	"storefront/internal/domain"
)

// EditWindow is how long after submission a shopper may cancel or edit.
const EditWindow = 10 * time.Minute

var (
	ErrNotPending       = errors.New("order is no longer pending")
	ErrEditWindowClosed = errors.New("order can no longer be changed")
)

// CheckMutable reports whether rec may still be cancelled or edited at now.
func CheckMutable(rec domain.OrderRecord, now time.Time) error {
	if rec.Status != domain.OrderPending {
		return ErrNotPending
	}
	if now.Sub(rec.Timestamp) >= EditWindow {
		return ErrEditWindowClosed
	}
	return nil
}

// Terminal reports whether no further transition is possible from s.
func Terminal(s domain.OrderStatus) bool {
	return s == domain.OrderCancelled || s == domain.OrderCompleted
}

// Cancel moves rec to Cancelled. Callers check CheckMutable first.
func Cancel(rec domain.OrderRecord) domain.OrderRecord {
	rec.Status = domain.OrderCancelled
	return rec
}

// ChangeDetails replaces address and phone, keeping empty inputs unchanged.
func ChangeDetails(rec domain.OrderRecord, address, phone string) domain.OrderRecord {
	if a := strings.TrimSpace(address); a != "" {
		rec.Address = a
	}
	if p := strings.TrimSpace(phone); p != "" {
		rec.Phone = p
	}
	return rec
}
