package cart

import (
	"context"
	"errors"

	"nutristore/internal/domain"
	cartrepo "nutristore/internal/repository/cart"
)

const defaultCurrency = "INR"

// Service owns the cart line list for each owner and enforces the stock
// ceiling on every mutation: a stored quantity never exceeds the available
// stock for its (product, variant) pair at write time. Violating requests
// clamp instead of failing, so a stale client can still converge.
type Service struct {
	repo     cartRepo
	products productRepo
}

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetActive(ctx context.Context, owner cartrepo.Owner) (*domain.Cart, error)
	UpsertLine(ctx context.Context, cartID string, line domain.CartLine) error
	DeleteLine(ctx context.Context, cartID, productID, variantKey string) error
	ClearLines(ctx context.Context, cartID string) error
	Delete(ctx context.Context, cartID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

// SyncLine is one entry of a client-posted cart mirror.
type SyncLine struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Stats summarizes a cart for the header badge.
type Stats struct {
	Count      int   `json:"count"`
	TotalCents int64 `json:"totalCents"`
}

// Get returns the owner's active cart, creating an empty one if absent.
func (s *Service) Get(ctx context.Context, owner cartrepo.Owner) (*domain.Cart, error) {
	cart, err := s.repo.GetActive(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.repo.Create(ctx, cartrepo.CreateCartInput{Owner: owner, Currency: defaultCurrency})
}

// Add merges quantity into the (product, variant) line, clamped to the
// available stock. Adding to a sold-out product is a silent no-op: callers
// are expected to pre-check with MaxAddable and surface their own message.
func (s *Service) Add(ctx context.Context, owner cartrepo.Owner, productID, variantID string, quantity int) (*domain.Cart, error) {
	cart, err := s.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return cart, nil
	}

	product, variant, err := s.resolve(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}

	key := domain.VariantKeyFor(variantID)
	current := 0
	if line := cart.LineFor(productID, key); line != nil {
		current = line.Quantity
	}

	add := MaxAddable(product, variant, current)
	if add > quantity {
		add = quantity
	}
	if add <= 0 {
		return cart, nil
	}

	if err := s.putLine(ctx, cart.ID, product, variant, key, current+add); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cart.ID)
}

// UpdateQuantity sets a line's quantity outright, clamped to the available
// stock. A requested value of zero or below removes the line, as does a
// stock ceiling that has dropped to zero since the line was added.
func (s *Service) UpdateQuantity(ctx context.Context, owner cartrepo.Owner, productID, variantID string, quantity int) (*domain.Cart, error) {
	cart, err := s.Get(ctx, owner)
	if err != nil {
		return nil, err
	}

	key := domain.VariantKeyFor(variantID)
	if quantity <= 0 {
		if err := s.repo.DeleteLine(ctx, cart.ID, productID, key); err != nil {
			return nil, err
		}
		return s.repo.GetByID(ctx, cart.ID)
	}

	product, variant, err := s.resolve(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}

	available := AvailableStock(product, variant)
	if available == 0 {
		if err := s.repo.DeleteLine(ctx, cart.ID, productID, key); err != nil {
			return nil, err
		}
		return s.repo.GetByID(ctx, cart.ID)
	}
	if quantity > available {
		quantity = available
	}

	if err := s.putLine(ctx, cart.ID, product, variant, key, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cart.ID)
}

// Remove deletes the matching line; absent lines are a no-op.
func (s *Service) Remove(ctx context.Context, owner cartrepo.Owner, productID, variantID string) (*domain.Cart, error) {
	cart, err := s.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteLine(ctx, cart.ID, productID, domain.VariantKeyFor(variantID)); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cart.ID)
}

// Clear empties the owner's cart.
func (s *Service) Clear(ctx context.Context, owner cartrepo.Owner) (*domain.Cart, error) {
	cart, err := s.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ClearLines(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cart.ID)
}

// Stats returns the badge summary: total quantity and cart total.
func (s *Service) Stats(ctx context.Context, owner cartrepo.Owner) (Stats, error) {
	cart, err := s.Get(ctx, owner)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Count: cart.Count(), TotalCents: cart.TotalCents}, nil
}

// Sync replaces the server cart with a client-posted mirror, clamping every
// quantity to current stock. Unknown products and zero-quantity entries are
// dropped rather than rejected, so a stale mirror still syncs.
func (s *Service) Sync(ctx context.Context, owner cartrepo.Owner, lines []SyncLine) (*domain.Cart, error) {
	cart, err := s.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ClearLines(ctx, cart.ID); err != nil {
		return nil, err
	}

	for _, in := range lines {
		if in.Quantity <= 0 {
			continue
		}
		product, variant, err := s.resolve(ctx, in.ProductID, in.VariantID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		quantity := in.Quantity
		if available := AvailableStock(product, variant); quantity > available {
			quantity = available
		}
		if quantity == 0 {
			continue
		}
		if err := s.putLine(ctx, cart.ID, product, variant, domain.VariantKeyFor(in.VariantID), quantity); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, cart.ID)
}

// Merge folds the anonymous cart into the customer's cart on login, summing
// quantities per (product, variant) line and clamping each sum to stock.
// The anonymous cart is deleted afterwards.
func (s *Service) Merge(ctx context.Context, anonymousID, customerID string) (*domain.Cart, error) {
	anonCart, err := s.repo.GetActive(ctx, cartrepo.Owner{AnonymousID: &anonymousID})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.Get(ctx, cartrepo.Owner{CustomerID: &customerID})
		}
		return nil, err
	}

	owner := cartrepo.Owner{CustomerID: &customerID}
	for _, line := range anonCart.Lines {
		variantID := line.VariantKey
		if variantID == domain.DefaultVariantKey {
			variantID = ""
		}
		if _, err := s.Add(ctx, owner, line.ProductID, variantID, line.Quantity); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
	}

	if err := s.repo.Delete(ctx, anonCart.ID); err != nil {
		return nil, err
	}
	return s.Get(ctx, owner)
}

func (s *Service) resolve(ctx context.Context, productID, variantID string) (*domain.Product, *domain.Variant, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	variant := product.VariantByID(variantID)
	if variantID != "" && variant == nil {
		return nil, nil, domain.ErrNotFound
	}
	return product, variant, nil
}

func (s *Service) putLine(ctx context.Context, cartID string, product *domain.Product, variant *domain.Variant, variantKey string, quantity int) error {
	return s.repo.UpsertLine(ctx, cartID, domain.CartLine{
		ProductID:      product.ID,
		VariantKey:     variantKey,
		Quantity:       quantity,
		UnitPriceCents: product.UnitPriceCents(variant),
		Snapshot:       snapshotFromProduct(product, variant),
	})
}

func snapshotFromProduct(p *domain.Product, v *domain.Variant) map[string]interface{} {
	snap := map[string]interface{}{
		"productName": p.Name,
		"slug":        p.Slug,
		"brand":       p.Brand,
		"priceCents":  p.UnitPriceCents(v),
		"currency":    p.Currency,
	}
	if v != nil {
		snap["variantName"] = v.Name
	}
	if len(p.Images) > 0 {
		snap["image"] = p.Images[0]
	}
	return snap
}
