package shopper

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	tokenrepo "storefront/internal/repository/token"
	"storefront/internal/service/session"
)

var ErrInvalidToken = errors.New("invalid token")

// Service issues anonymous shopper identities. The shopper id is the
// namespace of the shopper's cart, profile and order history.
type Service struct {
	tokens *session.Manager
	ttl    time.Duration
}

func New(tokens tokenrepo.Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 90 * 24 * time.Hour
	}
	return &Service{tokens: session.NewManager(tokens), ttl: ttl}
}

func (s *Service) Issue(ctx context.Context) (token, shopperID string, expiresAt time.Time, err error) {
	shopperID = uuid.NewString()
	token, expiresAt, err = s.tokens.Issue(ctx, shopperID, tokenrepo.KindShopper, s.ttl)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return token, shopperID, expiresAt, nil
}

func (s *Service) LookupByToken(ctx context.Context, token string) (string, error) {
	meta, err := s.tokens.Validate(ctx, token, tokenrepo.KindShopper)
	if err != nil {
		if errors.Is(err, session.ErrInvalidToken) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	return meta.SubjectID, nil
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
