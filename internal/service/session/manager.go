// Package session issues and validates opaque bearer tokens persisted in the
// tokens table.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
)

// ErrInvalidToken indicates the token is unknown, expired or of another kind.
var ErrInvalidToken = errors.New("invalid token")

type Meta struct {
	SubjectID string
	Kind      string
	ExpiresAt time.Time
}

type Manager struct {
	repo tokenrepo.Repository
	now  func() time.Time
}

func NewManager(repo tokenrepo.Repository) *Manager {
	return &Manager{repo: repo, now: time.Now}
}

// Issue stores a fresh random token for subjectID, retrying on collisions.
func (m *Manager) Issue(ctx context.Context, subjectID, kind string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := m.now().Add(ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", time.Time{}, err
		}
		err = m.repo.Create(ctx, tokenrepo.Token{
			Token:     token,
			SubjectID: subjectID,
			Kind:      kind,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, expiresAt, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", time.Time{}, err
	}
	return "", time.Time{}, errors.New("token collision")
}

// Validate returns the token metadata when it exists, is of kind and has not
// expired. Expired tokens are deleted on sight.
func (m *Manager) Validate(ctx context.Context, token, kind string) (Meta, error) {
	if token == "" {
		return Meta{}, ErrInvalidToken
	}
	t, err := m.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Meta{}, ErrInvalidToken
		}
		return Meta{}, err
	}
	if t.Kind != kind {
		return Meta{}, ErrInvalidToken
	}
	if m.now().After(t.ExpiresAt) {
		_ = m.repo.Delete(ctx, token)
		return Meta{}, ErrInvalidToken
	}
	return Meta{SubjectID: t.SubjectID, Kind: t.Kind, ExpiresAt: t.ExpiresAt}, nil
}

// Revoke deletes token. Unknown tokens are ignored.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	err := m.repo.Delete(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// Prune deletes every expired token and reports how many were removed.
func (m *Manager) Prune(ctx context.Context) (int64, error) {
	return m.repo.DeleteExpired(ctx, m.now())
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
