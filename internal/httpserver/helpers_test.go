package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	shoppersvc "storefront/internal/service/shopper"
	staffsvc "storefront/internal/service/staff"
)

func logDiscard() *zap.Logger {
	return zap.NewNop()
}

type stubShopperService struct {
	tokens map[string]string
}

func (s *stubShopperService) Issue(_ context.Context) (string, string, time.Time, error) {
	return "shopper-token", "shopper-1", time.Now().Add(time.Hour), nil
}

func (s *stubShopperService) LookupByToken(_ context.Context, token string) (string, error) {
	id, ok := s.tokens[token]
	if !ok {
		return "", shoppersvc.ErrInvalidToken
	}
	return id, nil
}

func (s *stubShopperService) TTLSeconds() int {
	return 3600
}

type stubStaffService struct {
	StaffService
	accounts map[string]*domain.StaffAccount
	loginErr error
}

func (s *stubStaffService) Login(_ context.Context, username, _ string) (*domain.StaffAccount, string, time.Time, error) {
	if s.loginErr != nil {
		return nil, "", time.Time{}, s.loginErr
	}
	return &domain.StaffAccount{ID: "staff-1", Username: username, Role: domain.RoleEmployee}, "staff-token", time.Now().Add(time.Hour), nil
}

func (s *stubStaffService) Authenticate(_ context.Context, token string) (*domain.StaffAccount, error) {
	a, ok := s.accounts[token]
	if !ok {
		return nil, staffsvc.ErrInvalidToken
	}
	return a, nil
}

func (s *stubStaffService) List(_ context.Context) ([]domain.StaffAccount, error) {
	out := make([]domain.StaffAccount, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *a)
	}
	return out, nil
}

// testRouter builds a router with shopper token "good" (shopper-1), staff
// token "emp" (employee) and "own" (owner).
func testRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if deps.ShopperSvc == nil {
		deps.ShopperSvc = &stubShopperService{tokens: map[string]string{"good": "shopper-1"}}
	}
	if deps.StaffSvc == nil {
		deps.StaffSvc = &stubStaffService{accounts: map[string]*domain.StaffAccount{
			"emp": {ID: "e1", Username: "emp", Role: domain.RoleEmployee},
			"own": {ID: "o1", Username: "own", Role: domain.RoleOwner},
		}}
	}
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func newPreflight(path, origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, path, nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
