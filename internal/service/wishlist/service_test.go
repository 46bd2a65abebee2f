package wishlist

import (
	"context"
	"testing"

	"nutristore/internal/domain"
	"nutristore/internal/kvstore"
	cartrepo "nutristore/internal/repository/cart"
)

type stubProductRepo struct {
	products map[string]*domain.Product
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

type recordingCart struct {
	added []string
}

func (r *recordingCart) Add(_ context.Context, _ cartrepo.Owner, productID, _ string, _ int) (*domain.Cart, error) {
	r.added = append(r.added, productID)
	return &domain.Cart{}, nil
}

func newService(products ...*domain.Product) (*Service, *recordingCart) {
	byID := make(map[string]*domain.Product)
	for _, p := range products {
		byID[p.ID] = p
	}
	carts := &recordingCart{}
	return New(kvstore.NewMemory(), &stubProductRepo{products: byID}, carts), carts
}

func TestAddListRemove(t *testing.T) {
	p := &domain.Product{ID: "p1", Name: "Whey", InStock: true}
	svc, _ := newService(p)
	ctx := context.Background()

	item, err := svc.Add(ctx, "u1", "p1", AddOptions{NotifyRestock: true})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.ID == "" || item.WasOutOfStock {
		t.Fatalf("unexpected item %+v", item)
	}

	// re-adding updates preferences without duplicating
	if _, err := svc.Add(ctx, "u1", "p1", AddOptions{AutoAddToCart: true}); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	items, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || !items[0].AutoAddToCart {
		t.Fatalf("unexpected list %+v", items)
	}

	ok, err := svc.Contains(ctx, "u1", "p1")
	if err != nil || !ok {
		t.Fatalf("expected contains, got %v %v", ok, err)
	}

	if err := svc.Remove(ctx, "u1", "p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	items, _ = svc.List(ctx, "u1")
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %+v", items)
	}
}

func TestListsAreScopedPerOwner(t *testing.T) {
	p := &domain.Product{ID: "p1", InStock: true}
	svc, _ := newService(p)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", "p1", AddOptions{}); err != nil {
		t.Fatalf("add: %v", err)
	}
	items, err := svc.List(ctx, AnonymousOwner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("anonymous list should be empty, got %+v", items)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	svc, _ := newService()
	if _, err := svc.Add(context.Background(), "u1", "ghost", AddOptions{}); err == nil {
		t.Fatalf("expected error for unknown product")
	}
}

func TestRestockCheckAutoAddsAndNotifies(t *testing.T) {
	autoProduct := &domain.Product{ID: "auto", InStock: false}
	notifyProduct := &domain.Product{ID: "notify", InStock: false}
	stillOut := &domain.Product{ID: "out", InStock: false}
	svc, carts := newService(autoProduct, notifyProduct, stillOut)
	ctx := context.Background()
	owner := "u1"
	cartOwner := cartrepo.Owner{}

	if _, err := svc.Add(ctx, owner, "auto", AddOptions{AutoAddToCart: true}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, owner, "notify", AddOptions{NotifyRestock: true}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, owner, "out", AddOptions{NotifyRestock: true}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// nothing restocked yet
	events, err := svc.RestockCheck(ctx, owner, cartOwner)
	if err != nil {
		t.Fatalf("restock check: %v", err)
	}
	if len(events) != 0 || len(carts.added) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}

	autoProduct.InStock = true
	notifyProduct.InStock = true

	events, err = svc.RestockCheck(ctx, owner, cartOwner)
	if err != nil {
		t.Fatalf("restock check: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %+v", events)
	}
	if len(carts.added) != 1 || carts.added[0] != "auto" {
		t.Fatalf("expected auto product added to cart, got %+v", carts.added)
	}

	items, _ := svc.List(ctx, owner)
	// the auto-added item leaves the list, the notify item stays marked
	// back in stock, the still-out item keeps waiting
	if len(items) != 2 {
		t.Fatalf("unexpected remaining items %+v", items)
	}
	for _, item := range items {
		switch item.Product.ID {
		case "notify":
			if item.WasOutOfStock {
				t.Fatalf("notify item should be marked restocked: %+v", item)
			}
		case "out":
			if !item.WasOutOfStock {
				t.Fatalf("still-out item should keep waiting: %+v", item)
			}
		default:
			t.Fatalf("unexpected item %+v", item)
		}
	}
}
