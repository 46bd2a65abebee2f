package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nutristore/internal/domain"
	wishlistsvc "nutristore/internal/service/wishlist"
)

func TestWishlistAdd(t *testing.T) {
	wishlist := &stubWishlistService{
		item: &domain.WishlistItem{ID: "w1", Product: domain.Product{ID: "p1"}},
	}
	deps := testDeps()
	deps.WishlistSvc = wishlist
	deps.AnonymousSvc = &stubAnonymousService{anonymousID: "anon-1"}
	router := testRouter(t, deps)

	body := `{"productId":"p1","notifyRestock":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/wishlist", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer guest-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if wishlist.lastOwner != "anon-1" {
		t.Fatalf("expected owner anon-1, got %q", wishlist.lastOwner)
	}
}

func TestWishlist_RequiresIdentity(t *testing.T) {
	router := testRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/wishlist", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestWishlistRestockCheck(t *testing.T) {
	wishlist := &stubWishlistService{
		events: []wishlistsvc.RestockEvent{
			{Item: domain.WishlistItem{ID: "w1"}, AddedToCart: true},
		},
	}
	deps := testDeps()
	deps.WishlistSvc = wishlist
	deps.AnonymousSvc = &stubAnonymousService{anonymousID: "anon-1"}
	router := testRouter(t, deps)

	req := httptest.NewRequest(http.MethodPost, "/api/wishlist/restock-check", nil)
	req.Header.Set("Authorization", "Bearer guest-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"addedToCart":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSearchHistoryRoundTrip(t *testing.T) {
	history := &stubHistoryService{terms: []string{"whey", "bcaa"}}
	deps := testDeps()
	deps.HistorySvc = history
	deps.AnonymousSvc = &stubAnonymousService{anonymousID: "anon-1"}
	router := testRouter(t, deps)

	body := `{"query":"creatine"}`
	req := httptest.NewRequest(http.MethodPost, "/api/search-history", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer guest-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rec.Code, rec.Body.String())
	}
	if history.lastTerm != "creatine" {
		t.Fatalf("expected recorded term, got %q", history.lastTerm)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/search-history", nil)
	req.Header.Set("Authorization", "Bearer guest-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"whey"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/search-history", nil)
	req.Header.Set("Authorization", "Bearer guest-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !history.cleared {
		t.Fatalf("expected history cleared")
	}
}

func TestCreateReview_RequiresCustomer(t *testing.T) {
	deps := testDeps()
	deps.AnonymousSvc = &stubAnonymousService{anonymousID: "anon-1"}
	router := testRouter(t, deps)

	body := `{"rating":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/products/p1/reviews", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer guest-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for guest review, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCreateReview_Created(t *testing.T) {
	deps := testDeps()
	deps.ReviewSvc = &stubReviewService{
		review: &domain.Review{ID: "r1", ProductID: "p1", Rating: 5},
	}
	deps.CustomerSvc = &stubCustomerService{
		customer: &domain.Customer{ID: "cust-1", FirstName: "Ada"},
	}
	router := testRouter(t, deps)

	body := `{"rating":5,"title":"Great"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products/p1/reviews", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer customer-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"rating":5`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
