package staff

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	staffrepo "storefront/internal/repository/staff"
	tokenrepo "storefront/internal/repository/token"
	"storefront/internal/service/session"
)

var (
	// ErrInvalidCredentials is returned when username/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrForbidden is returned when the account's role does not allow the action.
	ErrForbidden = errors.New("forbidden")
)

// Service handles back-office accounts and their bearer tokens.
type Service struct {
	repo        staffrepo.Repository
	tokens      *session.Manager
	tokenTTL    time.Duration
	passwordMin int
}

func New(repo staffrepo.Repository, tokens tokenrepo.Repository, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &Service{
		repo:        repo,
		tokens:      session.NewManager(tokens),
		tokenTTL:    tokenTTL,
		passwordMin: 8,
	}
}

// EnsureOwner creates the owner account on first start. It does nothing when
// username is empty or the account already exists.
func (s *Service) EnsureOwner(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, nil
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	if _, err := s.create(ctx, username, password, domain.RoleOwner); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateEmployee adds an employee account.
func (s *Service) CreateEmployee(ctx context.Context, username, password string) (*domain.StaffAccount, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.Invalid("username required")
	}
	return s.create(ctx, username, password, domain.RoleEmployee)
}

func (s *Service) create(ctx context.Context, username, password string, role domain.StaffRole) (*domain.StaffAccount, error) {
	password = strings.TrimSpace(password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.StaffAccount{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hashed),
		Role:         role,
	})
}

// Login validates credentials and returns a bearer token plus its expiry.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.StaffAccount, string, time.Time, error) {
	a, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Issue(ctx, a.ID, tokenrepo.KindStaff, s.tokenTTL)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return a, token, expiresAt, nil
}

// Logout revokes token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Authenticate returns the account bound to a valid staff token.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.StaffAccount, error) {
	meta, err := s.tokens.Validate(ctx, token, tokenrepo.KindStaff)
	if err != nil {
		if errors.Is(err, session.ErrInvalidToken) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	a, err := s.repo.GetByID(ctx, meta.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return a, nil
}

// Authorize reports whether a may act with role. Owners may act as employees.
func Authorize(a *domain.StaffAccount, role domain.StaffRole) error {
	if a == nil {
		return ErrInvalidToken
	}
	if a.Role == domain.RoleOwner || a.Role == role {
		return nil
	}
	return ErrForbidden
}

func (s *Service) List(ctx context.Context) ([]domain.StaffAccount, error) {
	return s.repo.List(ctx)
}

// Delete removes an employee account. Owner accounts cannot be removed.
func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Role == domain.RoleOwner {
		return domain.Invalid("owner accounts cannot be removed")
	}
	return s.repo.Delete(ctx, id)
}

// PruneTokens deletes expired staff and shopper tokens.
func (s *Service) PruneTokens(ctx context.Context) (int64, error) {
	return s.tokens.Prune(ctx)
}

func validatePassword(p string, min int) error {
	if len(p) < min {
		return domain.Invalidf("password must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return domain.Invalid("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
