package product

import (
	"context"
	"errors"
	"io"
	"log"

	"nutristore/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productSelect = `
SELECT id::text, slug, name, COALESCE(description, ''), brand, category, tags,
       price_cents, original_price_cents, currency, rating, review_count,
       in_stock, stock_quantity, featured, best_seller, images, created_at
FROM products
`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, productSelect+`ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	ids := make([]string, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}

	if err := r.attachVariants(ctx, result, ids); err != nil {
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, productSelect+`WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}

	list := []domain.Product{p}
	if err := r.attachVariants(ctx, list, []string{p.ID}); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO products (slug, name, description, brand, category, tags, price_cents,
                      original_price_cents, currency, rating, review_count, in_stock,
                      stock_quantity, featured, best_seller, images)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    brand = EXCLUDED.brand,
    category = EXCLUDED.category,
    tags = EXCLUDED.tags,
    price_cents = EXCLUDED.price_cents,
    original_price_cents = EXCLUDED.original_price_cents,
    currency = EXCLUDED.currency,
    rating = EXCLUDED.rating,
    review_count = EXCLUDED.review_count,
    in_stock = EXCLUDED.in_stock,
    stock_quantity = EXCLUDED.stock_quantity,
    featured = EXCLUDED.featured,
    best_seller = EXCLUDED.best_seller,
    images = EXCLUDED.images
RETURNING id::text, created_at
`
	res := product
	err = tx.QueryRow(ctx, q,
		product.Slug,
		product.Name,
		product.Description,
		product.Brand,
		product.Category,
		product.Tags,
		product.PriceCents,
		product.OriginalPriceCents,
		product.Currency,
		product.Rating,
		product.ReviewCount,
		product.InStock,
		product.StockQuantity,
		product.Featured,
		product.BestSeller,
		product.Images,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert slug=%s error=%v", product.Slug, err)
		return nil, err
	}

	// variants are replaced wholesale on each upsert
	if _, err := tx.Exec(ctx, `DELETE FROM product_variants WHERE product_id = $1`, res.ID); err != nil {
		return nil, err
	}
	for i := range res.Variants {
		v := &res.Variants[i]
		v.ProductID = res.ID
		if err := tx.QueryRow(ctx, `
INSERT INTO product_variants (product_id, name, price_cents, in_stock, stock_quantity, position)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`, res.ID, v.Name, v.PriceCents, v.InStock, v.StockQuantity, i).Scan(&v.ID); err != nil {
			r.logger.Printf("product repo: upsert variant slug=%s name=%s error=%v", product.Slug, v.Name, err)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("product repo: upserted slug=%s id=%s variants=%d", res.Slug, res.ID, len(res.Variants))
	return &res, nil
}

func (r *postgresRepo) Facets(ctx context.Context) ([]string, []string, error) {
	rows, err := r.pool.Query(ctx, `
SELECT DISTINCT category, brand
FROM products
ORDER BY category, brand
`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	seenCat := map[string]bool{}
	seenBrand := map[string]bool{}
	var categories, brands []string
	for rows.Next() {
		var category, brand string
		if err := rows.Scan(&category, &brand); err != nil {
			return nil, nil, err
		}
		if category != "" && !seenCat[category] {
			seenCat[category] = true
			categories = append(categories, category)
		}
		if brand != "" && !seenBrand[brand] {
			seenBrand[brand] = true
			brands = append(brands, brand)
		}
	}
	return categories, brands, rows.Err()
}

func (r *postgresRepo) attachVariants(ctx context.Context, products []domain.Product, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := r.pool.Query(ctx, `
SELECT id::text, product_id::text, name, price_cents, in_stock, stock_quantity
FROM product_variants
WHERE product_id = ANY($1)
ORDER BY product_id, position
`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byProduct := make(map[string][]domain.Variant)
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.PriceCents, &v.InStock, &v.StockQuantity); err != nil {
			return err
		}
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range products {
		products[i].Variants = byProduct[products[i].ID]
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Description,
		&p.Brand,
		&p.Category,
		&p.Tags,
		&p.PriceCents,
		&p.OriginalPriceCents,
		&p.Currency,
		&p.Rating,
		&p.ReviewCount,
		&p.InStock,
		&p.StockQuantity,
		&p.Featured,
		&p.BestSeller,
		&p.Images,
		&p.CreatedAt,
	)
	return p, err
}
