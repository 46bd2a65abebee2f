// Package wishlist stores per-user saved products with restock
// preferences. Items live in the key-value store as one JSON document per
// user, keyed wishlist_<userId> (or wishlist_anonymous), matching the
// storage contract the web client uses locally.
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"nutristore/internal/domain"
	"nutristore/internal/kvstore"
	cartrepo "nutristore/internal/repository/cart"

	"github.com/google/uuid"
)

// AnonymousOwner is the owner segment used for signed-out visitors.
const AnonymousOwner = "anonymous"

type Service struct {
	store    kvstore.Store
	products productRepo
	carts    cartAdder
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type cartAdder interface {
	Add(ctx context.Context, owner cartrepo.Owner, productID, variantID string, quantity int) (*domain.Cart, error)
}

func New(store kvstore.Store, products productRepo, carts cartAdder) *Service {
	return &Service{store: store, products: products, carts: carts}
}

// AddOptions carries the restock preferences chosen at save time.
type AddOptions struct {
	AutoAddToCart bool `json:"autoAddToCart"`
	NotifyRestock bool `json:"notifyRestock"`
}

// RestockEvent reports a wishlist product that came back in stock.
type RestockEvent struct {
	Item        domain.WishlistItem `json:"item"`
	AddedToCart bool                `json:"addedToCart"`
}

// List returns the owner's wishlist, newest first.
func (s *Service) List(ctx context.Context, owner string) ([]domain.WishlistItem, error) {
	return s.load(ctx, owner)
}

// Add saves a product snapshot. Adding a product already on the list
// updates its preferences instead of duplicating it.
func (s *Service) Add(ctx context.Context, owner string, productID string, opts AddOptions) (*domain.WishlistItem, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	items, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Product = *product
			items[i].AutoAddToCart = opts.AutoAddToCart
			items[i].NotifyRestock = opts.NotifyRestock
			if err := s.save(ctx, owner, items); err != nil {
				return nil, err
			}
			return &items[i], nil
		}
	}

	item := domain.WishlistItem{
		ID:            uuid.NewString(),
		Product:       *product,
		AddedAt:       time.Now().UTC(),
		AutoAddToCart: opts.AutoAddToCart,
		NotifyRestock: opts.NotifyRestock,
		WasOutOfStock: !product.InStock,
	}
	items = append([]domain.WishlistItem{item}, items...)
	if err := s.save(ctx, owner, items); err != nil {
		return nil, err
	}
	return &item, nil
}

// Remove drops the product from the list; absent products are a no-op.
func (s *Service) Remove(ctx context.Context, owner, productID string) error {
	items, err := s.load(ctx, owner)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, item := range items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	return s.save(ctx, owner, kept)
}

// Contains reports whether the product is on the owner's wishlist.
func (s *Service) Contains(ctx context.Context, owner, productID string) (bool, error) {
	items, err := s.load(ctx, owner)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.Product.ID == productID {
			return true, nil
		}
	}
	return false, nil
}

// RestockCheck refreshes saved items that were out of stock against the
// live catalog. A restocked item with the auto-add flag goes into the
// owner's cart (one unit) and comes off the wishlist; one with the notify
// flag is reported back for the caller to surface. Snapshots of items that
// remain listed are refreshed either way.
func (s *Service) RestockCheck(ctx context.Context, owner string, cartOwner cartrepo.Owner) ([]RestockEvent, error) {
	items, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	var events []RestockEvent
	kept := items[:0]
	changed := false
	for _, item := range items {
		if !item.WasOutOfStock {
			kept = append(kept, item)
			continue
		}
		live, err := s.products.GetByID(ctx, item.Product.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// product withdrawn from catalog
				changed = true
				continue
			}
			return nil, err
		}
		item.Product = *live
		if !live.InStock {
			kept = append(kept, item)
			continue
		}

		changed = true
		item.WasOutOfStock = false
		event := RestockEvent{Item: item}
		if item.AutoAddToCart {
			if _, err := s.carts.Add(ctx, cartOwner, live.ID, "", 1); err != nil {
				return nil, err
			}
			event.AddedToCart = true
		} else {
			kept = append(kept, item)
		}
		if item.NotifyRestock || event.AddedToCart {
			events = append(events, event)
		}
	}

	if changed {
		if err := s.save(ctx, owner, kept); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func storageKey(owner string) string {
	if owner == "" {
		owner = AnonymousOwner
	}
	return "wishlist_" + owner
}

func (s *Service) load(ctx context.Context, owner string) ([]domain.WishlistItem, error) {
	raw, err := s.store.Get(ctx, storageKey(owner))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var items []domain.WishlistItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// a corrupt document is discarded rather than wedging the list
		return nil, nil
	}
	return items, nil
}

func (s *Service) save(ctx context.Context, owner string, items []domain.WishlistItem) error {
	if len(items) == 0 {
		return s.store.Delete(ctx, storageKey(owner))
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, storageKey(owner), raw)
}
