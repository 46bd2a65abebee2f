package cart

import (
	"context"

	"nutristore/internal/domain"
)

// Owner identifies who a cart belongs to: a signed-in customer or an
// anonymous session. Exactly one field is expected to be set.
type Owner struct {
	CustomerID  *string
	AnonymousID *string
}

type CreateCartInput struct {
	Owner    Owner
	Currency string
}

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetActive(ctx context.Context, owner Owner) (*domain.Cart, error)
	// UpsertLine inserts the line or overwrites the quantity and prices of
	// the existing (product, variant) line, then recomputes the cart total.
	UpsertLine(ctx context.Context, cartID string, line domain.CartLine) error
	DeleteLine(ctx context.Context, cartID, productID, variantKey string) error
	ClearLines(ctx context.Context, cartID string) error
	Delete(ctx context.Context, cartID string) error
}
