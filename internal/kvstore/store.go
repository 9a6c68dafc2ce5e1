// Package kvstore keeps per-shopper state (cart, gift wrap flag, wishlist,
// profile with order history, last checkout info) as versioned JSON documents.
// Mutations are read-reduce-compare-and-swap so concurrent writers from two
// tabs or two API replicas never silently overwrite each other.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/domain"
)

// Keys used under a shopper namespace.
const (
	KeyCart               = "cart"
	KeyGiftWrap           = "giftWrap"
	KeyAppliedCoupon      = "appliedCoupon"
	KeyWishlist           = "wishlist"
	KeyProfile            = "profileData"
	KeyCheckoutInfo       = "userCheckoutInfo"
	KeyStockNotifications = "stockNotifications"
)

// Entry is a stored value and its version. Version 0 means the key was never
// written. A deleted key has a nil Value and keeps its version, so versions
// never repeat.
type Entry struct {
	Value   []byte
	Version int64
}

// Store is the storage adapter behind shopper state.
type Store interface {
	// Get returns the entry for key, or a zero Entry when absent.
	Get(ctx context.Context, namespace, key string) (Entry, error)
	// Set writes value unconditionally and returns the new version.
	Set(ctx context.Context, namespace, key string, value []byte) (int64, error)
	// CompareAndSwap writes value only if the stored version equals expected.
	// It returns domain.ErrVersionConflict otherwise.
	CompareAndSwap(ctx context.Context, namespace, key string, expected int64, value []byte) (int64, error)
	// Delete clears the value and advances the version.
	Delete(ctx context.Context, namespace, key string) error
	// Subscribe delivers entries written to key until cancel is called.
	Subscribe(namespace, key string) (<-chan Entry, func())
}

const maxUpdateAttempts = 5

// Update applies reducer to the current value and stores the result with
// compare-and-swap, retrying on conflicts.
func Update(ctx context.Context, s Store, namespace, key string, reducer func(current []byte) ([]byte, error)) (Entry, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		cur, err := s.Get(ctx, namespace, key)
		if err != nil {
			return Entry{}, err
		}
		next, err := reducer(cur.Value)
		if err != nil {
			return Entry{}, err
		}
		version, err := s.CompareAndSwap(ctx, namespace, key, cur.Version, next)
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return Entry{}, err
		}
		return Entry{Value: next, Version: version}, nil
	}
	return Entry{}, fmt.Errorf("update %s/%s: %w", namespace, key, domain.ErrVersionConflict)
}

// GetJSON decodes the value at key into T. Absent keys yield the zero value.
func GetJSON[T any](ctx context.Context, s Store, namespace, key string) (T, error) {
	var out T
	entry, err := s.Get(ctx, namespace, key)
	if err != nil {
		return out, err
	}
	if len(entry.Value) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(entry.Value, &out); err != nil {
		return out, fmt.Errorf("decode %s/%s: %w", namespace, key, err)
	}
	return out, nil
}

// SetJSON encodes v and writes it unconditionally.
func SetJSON[T any](ctx context.Context, s Store, namespace, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", namespace, key, err)
	}
	_, err = s.Set(ctx, namespace, key, raw)
	return err
}

// UpdateJSON is Update over decoded values.
func UpdateJSON[T any](ctx context.Context, s Store, namespace, key string, reducer func(current T) (T, error)) (T, error) {
	var result T
	_, err := Update(ctx, s, namespace, key, func(raw []byte) ([]byte, error) {
		var cur T
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &cur); err != nil {
				return nil, fmt.Errorf("decode %s/%s: %w", namespace, key, err)
			}
		}
		next, err := reducer(cur)
		if err != nil {
			return nil, err
		}
		result = next
		return json.Marshal(next)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
