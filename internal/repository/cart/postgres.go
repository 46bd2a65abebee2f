package cart

import (
	"context"
	"errors"

	"nutristore/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const cartSelect = `
SELECT id::text, customer_id::text, anonymous_id, currency, total_cents, state, created_at
FROM carts
`

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (customer_id, anonymous_id, currency, total_cents, state)
VALUES ($1, $2, $3, 0, 'active')
RETURNING id::text, customer_id::text, anonymous_id, currency, total_cents, state, created_at
`
	var cart domain.Cart
	var customerID, anonymousID *string
	if err := r.pool.QueryRow(ctx, q, in.Owner.CustomerID, in.Owner.AnonymousID, in.Currency).Scan(
		&cart.ID,
		&customerID,
		&anonymousID,
		&cart.Currency,
		&cart.TotalCents,
		&cart.State,
		&cart.CreatedAt,
	); err != nil {
		return nil, err
	}
	cart.CustomerID = customerID
	cart.AnonymousID = anonymousID
	cart.Lines = []domain.CartLine{}
	return &cart, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	return r.fetchCart(ctx, cartSelect+`WHERE id = $1`, id)
}

func (r *postgresRepo) GetActive(ctx context.Context, owner Owner) (*domain.Cart, error) {
	switch {
	case owner.CustomerID != nil:
		return r.fetchCart(ctx, cartSelect+`
WHERE customer_id = $1 AND state = 'active'
ORDER BY created_at DESC
LIMIT 1
`, *owner.CustomerID)
	case owner.AnonymousID != nil:
		return r.fetchCart(ctx, cartSelect+`
WHERE anonymous_id = $1 AND state = 'active'
ORDER BY created_at DESC
LIMIT 1
`, *owner.AnonymousID)
	default:
		return nil, domain.ErrNotFound
	}
}

func (r *postgresRepo) UpsertLine(ctx context.Context, cartID string, line domain.CartLine) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	total := line.UnitPriceCents * int64(line.Quantity)
	if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, variant_key, quantity, unit_price_cents, total_cents, snapshot)
VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, '{}'::jsonb))
ON CONFLICT (cart_id, product_id, variant_key) DO UPDATE SET
    quantity = EXCLUDED.quantity,
    unit_price_cents = EXCLUDED.unit_price_cents,
    total_cents = EXCLUDED.total_cents,
    snapshot = EXCLUDED.snapshot
`, cartID, line.ProductID, line.VariantKey, line.Quantity, line.UnitPriceCents, total, line.Snapshot); err != nil {
		return err
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) DeleteLine(ctx context.Context, cartID, productID, variantKey string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// removing an absent line is a no-op, not an error
	if _, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND product_id = $2 AND variant_key = $3
`, cartID, productID, variantKey); err != nil {
		return err
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) ClearLines(ctx context.Context, cartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) Delete(ctx context.Context, cartID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	return err
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	var customerID, anonymousID *string
	err := r.pool.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&customerID,
		&anonymousID,
		&cart.Currency,
		&cart.TotalCents,
		&cart.State,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	cart.CustomerID = customerID
	cart.AnonymousID = anonymousID
	cart.Lines = []domain.CartLine{}

	const linesQuery = `
SELECT id::text, cart_id::text, product_id::text, variant_key, quantity, unit_price_cents, total_cents, snapshot, created_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.ProductID,
			&line.VariantKey,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.TotalCents,
			&line.Snapshot,
			&line.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func updateCartTotal(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET total_cents = COALESCE((
	SELECT SUM(total_cents)
	FROM cart_lines
	WHERE cart_id = $1
), 0)
WHERE id = $1
`, cartID)
	return err
}
