package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nutristore/internal/domain"
	cartsvc "nutristore/internal/service/cart"
)

func guestCartRouter(t *testing.T, carts *stubCartService) http.Handler {
	t.Helper()
	deps := testDeps()
	deps.CartSvc = carts
	deps.AnonymousSvc = &stubAnonymousService{anonymousID: "anon-1"}
	return testRouter(t, deps)
}

func guestRequest(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer guest-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCartAdd_DefaultsQuantity(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{ID: "cart-1"}}
	router := guestCartRouter(t, carts)

	rec := guestRequest(router, http.MethodPost, "/api/cart/add", `{"productId":"p1","variantId":"v1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if len(carts.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(carts.calls))
	}
	call := carts.calls[0]
	if call.op != "add" || call.productID != "p1" || call.variantID != "v1" || call.quantity != 1 {
		t.Fatalf("unexpected call %+v", call)
	}
}

func TestCartAdd_UnknownProduct(t *testing.T) {
	carts := &stubCartService{err: domain.ErrNotFound}
	router := guestCartRouter(t, carts)

	rec := guestRequest(router, http.MethodPost, "/api/cart/add", `{"productId":"ghost"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCartAdd_MissingProductID(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{ID: "cart-1"}}
	router := guestCartRouter(t, carts)

	rec := guestRequest(router, http.MethodPost, "/api/cart/add", `{"quantity":2}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCartUpdate(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{ID: "cart-1"}}
	router := guestCartRouter(t, carts)

	rec := guestRequest(router, http.MethodPut, "/api/cart/update", `{"productId":"p1","quantity":3}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	call := carts.calls[0]
	if call.op != "update" || call.quantity != 3 {
		t.Fatalf("unexpected call %+v", call)
	}
}

func TestCartRemove_RequiresProductID(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{ID: "cart-1"}}
	router := guestCartRouter(t, carts)

	rec := guestRequest(router, http.MethodDelete, "/api/cart/remove", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCartRemove(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{ID: "cart-1"}}
	router := guestCartRouter(t, carts)

	rec := guestRequest(router, http.MethodDelete, "/api/cart/remove?productId=p1&variantId=v2", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	call := carts.calls[0]
	if call.op != "remove" || call.productID != "p1" || call.variantID != "v2" {
		t.Fatalf("unexpected call %+v", call)
	}
}

func TestCartSync(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{ID: "cart-1"}}
	router := guestCartRouter(t, carts)

	body := `{"lines":[{"productId":"p1","quantity":2},{"productId":"p2","variantId":"v1","quantity":1}]}`
	rec := guestRequest(router, http.MethodPost, "/api/cart/sync", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if len(carts.calls) != 2 {
		t.Fatalf("expected 2 synced lines, got %d", len(carts.calls))
	}
	if carts.calls[1].productID != "p2" || carts.calls[1].variantID != "v1" {
		t.Fatalf("unexpected call %+v", carts.calls[1])
	}
}

func TestCartStats(t *testing.T) {
	carts := &stubCartService{stats: cartsvc.Stats{Count: 5, TotalCents: 129900}}
	router := guestCartRouter(t, carts)

	rec := guestRequest(router, http.MethodGet, "/api/cart/stats", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	for _, want := range []string{`"count":5`, `"totalCents":129900`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("missing %s in body: %s", want, rec.Body.String())
		}
	}
}

func TestCartClear(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{ID: "cart-1"}}
	router := guestCartRouter(t, carts)

	rec := guestRequest(router, http.MethodDelete, "/api/cart/clear", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if carts.calls[0].op != "clear" {
		t.Fatalf("unexpected call %+v", carts.calls[0])
	}
}
