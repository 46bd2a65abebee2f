package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"nutristore/internal/catalog"
	"nutristore/internal/domain"
	cartrepo "nutristore/internal/repository/cart"
	anonymoussvc "nutristore/internal/service/anonymous"
	cartsvc "nutristore/internal/service/cart"
	customersvc "nutristore/internal/service/customer"
	reviewsvc "nutristore/internal/service/review"
	wishlistsvc "nutristore/internal/service/wishlist"

	"github.com/gin-gonic/gin"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubCatalogService struct {
	products   []domain.Product
	err        error
	lastFilter catalog.Filter
	lastLimit  int
}

func (s *stubCatalogService) List(_ context.Context, f catalog.Filter, limit int) ([]domain.Product, error) {
	s.lastFilter = f
	s.lastLimit = limit
	return s.products, s.err
}

func (s *stubCatalogService) Get(_ context.Context, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalogService) TopSellers(_ context.Context, limit int) ([]domain.Product, error) {
	s.lastLimit = limit
	return s.products, s.err
}

func (s *stubCatalogService) Trending(_ context.Context, limit int) ([]domain.Product, error) {
	s.lastLimit = limit
	return s.products, s.err
}

func (s *stubCatalogService) Featured(_ context.Context, limit int) ([]domain.Product, error) {
	s.lastLimit = limit
	return s.products, s.err
}

func (s *stubCatalogService) Related(_ context.Context, productID string, limit int) ([]domain.Product, error) {
	s.lastLimit = limit
	if _, err := s.Get(context.Background(), productID); err != nil {
		return nil, err
	}
	return s.products, s.err
}

func (s *stubCatalogService) Facets(_ context.Context) ([]string, []string, error) {
	return []string{"protein"}, []string{"OptiFuel"}, s.err
}

type cartCall struct {
	op        string
	productID string
	variantID string
	quantity  int
}

type stubCartService struct {
	cart  *domain.Cart
	stats cartsvc.Stats
	err   error
	calls []cartCall

	mergedAnonymousID string
	mergedCustomerID  string
}

func (s *stubCartService) record(op, productID, variantID string, quantity int) {
	s.calls = append(s.calls, cartCall{op: op, productID: productID, variantID: variantID, quantity: quantity})
}

func (s *stubCartService) Get(_ context.Context, _ cartrepo.Owner) (*domain.Cart, error) {
	s.record("get", "", "", 0)
	return s.cart, s.err
}

func (s *stubCartService) Add(_ context.Context, _ cartrepo.Owner, productID, variantID string, quantity int) (*domain.Cart, error) {
	s.record("add", productID, variantID, quantity)
	return s.cart, s.err
}

func (s *stubCartService) UpdateQuantity(_ context.Context, _ cartrepo.Owner, productID, variantID string, quantity int) (*domain.Cart, error) {
	s.record("update", productID, variantID, quantity)
	return s.cart, s.err
}

func (s *stubCartService) Remove(_ context.Context, _ cartrepo.Owner, productID, variantID string) (*domain.Cart, error) {
	s.record("remove", productID, variantID, 0)
	return s.cart, s.err
}

func (s *stubCartService) Clear(_ context.Context, _ cartrepo.Owner) (*domain.Cart, error) {
	s.record("clear", "", "", 0)
	return s.cart, s.err
}

func (s *stubCartService) Stats(_ context.Context, _ cartrepo.Owner) (cartsvc.Stats, error) {
	return s.stats, s.err
}

func (s *stubCartService) Sync(_ context.Context, _ cartrepo.Owner, lines []cartsvc.SyncLine) (*domain.Cart, error) {
	for _, line := range lines {
		s.record("sync", line.ProductID, line.VariantID, line.Quantity)
	}
	return s.cart, s.err
}

func (s *stubCartService) Merge(_ context.Context, anonymousID, customerID string) (*domain.Cart, error) {
	s.mergedAnonymousID = anonymousID
	s.mergedCustomerID = customerID
	return s.cart, s.err
}

type stubCustomerService struct {
	customer  *domain.Customer
	signupErr error
	loginErr  error
	lookupErr error
}

func (s *stubCustomerService) Signup(_ context.Context, _ customersvc.SignupInput) (*domain.Customer, error) {
	return s.customer, s.signupErr
}

func (s *stubCustomerService) Login(_ context.Context, _, _ string) (*domain.Customer, string, string, error) {
	if s.loginErr != nil {
		return nil, "", "", s.loginErr
	}
	return s.customer, "access", "refresh", nil
}

func (s *stubCustomerService) LookupByToken(_ context.Context, _ string) (*domain.Customer, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	if s.customer == nil {
		return nil, customersvc.ErrInvalidToken
	}
	return s.customer, nil
}

func (s *stubCustomerService) AccessTTLSeconds() int { return 3600 }

type stubAnonymousService struct {
	anonymousID string
	lookupErr   error
}

func (s *stubAnonymousService) Issue(_ context.Context) (string, string, string, error) {
	return "anon-access", "anon-refresh", s.anonymousID, nil
}

func (s *stubAnonymousService) LookupByToken(_ context.Context, _ string) (string, error) {
	if s.lookupErr != nil {
		return "", s.lookupErr
	}
	if s.anonymousID == "" {
		return "", anonymoussvc.ErrInvalidToken
	}
	return s.anonymousID, nil
}

func (s *stubAnonymousService) AccessTTLSeconds() int { return 3600 }

type stubReviewService struct {
	review  *domain.Review
	reviews []domain.Review
	err     error
}

func (s *stubReviewService) Create(_ context.Context, _ string, _ *domain.Customer, _ reviewsvc.CreateInput) (*domain.Review, error) {
	return s.review, s.err
}

func (s *stubReviewService) ListByProduct(_ context.Context, _ string) ([]domain.Review, error) {
	return s.reviews, s.err
}

type stubWishlistService struct {
	items     []domain.WishlistItem
	item      *domain.WishlistItem
	events    []wishlistsvc.RestockEvent
	err       error
	lastOwner string
}

func (s *stubWishlistService) List(_ context.Context, owner string) ([]domain.WishlistItem, error) {
	s.lastOwner = owner
	return s.items, s.err
}

func (s *stubWishlistService) Add(_ context.Context, owner, _ string, _ wishlistsvc.AddOptions) (*domain.WishlistItem, error) {
	s.lastOwner = owner
	return s.item, s.err
}

func (s *stubWishlistService) Remove(_ context.Context, owner, _ string) error {
	s.lastOwner = owner
	return s.err
}

func (s *stubWishlistService) RestockCheck(_ context.Context, owner string, _ cartrepo.Owner) ([]wishlistsvc.RestockEvent, error) {
	s.lastOwner = owner
	return s.events, s.err
}

type stubHistoryService struct {
	terms     []string
	lastOwner string
	lastTerm  string
	cleared   bool
}

func (s *stubHistoryService) Record(_ context.Context, owner, term string) error {
	s.lastOwner = owner
	s.lastTerm = term
	return nil
}

func (s *stubHistoryService) History(_ context.Context, owner string) ([]string, error) {
	s.lastOwner = owner
	return s.terms, nil
}

func (s *stubHistoryService) Recent(_ context.Context, owner string) ([]string, error) {
	s.lastOwner = owner
	if len(s.terms) > 5 {
		return s.terms[:5], nil
	}
	return s.terms, nil
}

func (s *stubHistoryService) Clear(_ context.Context, owner string) error {
	s.lastOwner = owner
	s.cleared = true
	return nil
}

func testDeps() Deps {
	return Deps{
		CatalogSvc:   &stubCatalogService{},
		CartSvc:      &stubCartService{cart: &domain.Cart{ID: "cart-1"}},
		ReviewSvc:    &stubReviewService{},
		CustomerSvc:  &stubCustomerService{},
		AnonymousSvc: &stubAnonymousService{},
		WishlistSvc:  &stubWishlistService{},
		HistorySvc:   &stubHistoryService{},
	}
}

func testRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func TestHealthz(t *testing.T) {
	router := testRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBuildRouter_MissingDeps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	if _, err := buildRouter(logDiscard(), nil, Deps{}); err == nil {
		t.Fatalf("expected error for empty deps")
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router := testRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCart_RequiresIdentity(t *testing.T) {
	router := testRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddleware_AnonymousToken(t *testing.T) {
	deps := testDeps()
	deps.AnonymousSvc = &stubAnonymousService{anonymousID: "anon-1"}
	router := testRouter(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer guest-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}
