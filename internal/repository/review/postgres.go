package review

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

func (r *postgresRepo) Create(ctx context.Context, review domain.Review) (*domain.Review, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	res := review
	err = tx.QueryRow(ctx, `
INSERT INTO reviews (product_id, customer_id, author, rating, title, comment)
VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''))
RETURNING id::text, created_at
`, review.ProductID, review.CustomerID, review.Author, review.Rating, review.Title, review.Comment).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("review repo: create product_id=%s error=%v", review.ProductID, err)
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
UPDATE products
SET rating = (SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE product_id = $1),
    review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = $1)
WHERE id = $1
`, review.ProductID); err != nil {
		r.logger.Printf("review repo: aggregate product_id=%s error=%v", review.ProductID, err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("review repo: created id=%s product_id=%s rating=%d", res.ID, res.ProductID, res.Rating)
	return &res, nil
}

func (r *postgresRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id::text, product_id::text, customer_id::text, COALESCE(author, ''),
       rating, COALESCE(title, ''), COALESCE(comment, ''), created_at
FROM reviews
WHERE product_id = $1
ORDER BY created_at DESC
`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.CustomerID, &rev.Author, &rev.Rating, &rev.Title, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rev)
	}
	return result, rows.Err()
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	// 23503 foreign_key_violation
	type sqlState interface{ SQLState() string }
	var state sqlState
	return errors.As(err, &state) && state.SQLState() == "23503"
}
