package shopper

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
)

type stubTokens struct {
	tokens map[string]tokenrepo.Token
}

func (s *stubTokens) Create(_ context.Context, t tokenrepo.Token) error {
	if s.tokens == nil {
		s.tokens = map[string]tokenrepo.Token{}
	}
	s.tokens[t.Token] = t
	return nil
}

func (s *stubTokens) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := s.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *stubTokens) Delete(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

func (s *stubTokens) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func TestIssueAndLookup(t *testing.T) {
	repo := &stubTokens{}
	svc := New(repo, time.Hour)

	token, shopperID, expiresAt, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" || shopperID == "" || expiresAt.IsZero() {
		t.Fatalf("expected token, id and expiry, got %q %q %v", token, shopperID, expiresAt)
	}
	if repo.tokens[token].Kind != tokenrepo.KindShopper {
		t.Fatalf("expected shopper kind, got %q", repo.tokens[token].Kind)
	}

	got, err := svc.LookupByToken(context.Background(), token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != shopperID {
		t.Fatalf("expected %s, got %s", shopperID, got)
	}
}

func TestLookupRejectsStaffToken(t *testing.T) {
	repo := &stubTokens{tokens: map[string]tokenrepo.Token{
		"staff": {Token: "staff", SubjectID: "x", Kind: tokenrepo.KindStaff, ExpiresAt: time.Now().Add(time.Hour)},
	}}
	svc := New(repo, time.Hour)
	if _, err := svc.LookupByToken(context.Background(), "staff"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
