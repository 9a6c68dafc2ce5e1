package token

import (
	"context"
	"time"
)

const (
	KindStaff   = "staff"
	KindShopper = "shopper"
)

// Token is an opaque bearer credential bound to a staff account id or a
// shopper namespace.
type Token struct {
	Token     string
	SubjectID string
	Kind      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, token Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
