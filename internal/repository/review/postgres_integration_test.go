package review

import (
	"context"
	"errors"
	"os"
	"testing"

	"nutristore/internal/domain"
	"nutristore/internal/migrate"
	productrepo "nutristore/internal/repository/product"

	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("ping db: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE reviews, cart_lines, carts, tokens, customers, product_variants, products RESTART IDENTITY CASCADE`); err != nil {
		pool.Close()
		t.Fatalf("truncate tables: %v", err)
	}
	return pool
}

func TestPostgresReviewUpdatesAggregate(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	products := productrepo.NewPostgres(pool, nil)
	product, err := products.Upsert(ctx, domain.Product{
		Slug: "whey-1kg", Name: "Whey", Brand: "OptiFuel", Category: "protein",
		PriceCents: 429900, Currency: "INR", InStock: true,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}

	var customerID string
	if err := pool.QueryRow(ctx, `
INSERT INTO customers (email, password_hash) VALUES ('a@b.c', 'x') RETURNING id::text
`).Scan(&customerID); err != nil {
		t.Fatalf("insert customer: %v", err)
	}

	repo := NewPostgres(pool, nil)
	if _, err := repo.Create(ctx, domain.Review{
		ProductID: product.ID, CustomerID: customerID, Author: "Ada", Rating: 5, Title: "Great",
	}); err != nil {
		t.Fatalf("create review: %v", err)
	}
	if _, err := repo.Create(ctx, domain.Review{
		ProductID: product.ID, CustomerID: customerID, Rating: 2,
	}); err != nil {
		t.Fatalf("create second review: %v", err)
	}

	got, err := products.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.ReviewCount != 2 {
		t.Fatalf("expected review_count 2, got %d", got.ReviewCount)
	}
	if got.Rating != 3.5 {
		t.Fatalf("expected rating 3.5, got %v", got.Rating)
	}

	list, err := repo.ListByProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(list))
	}

	// unknown product maps the FK violation to not found
	if _, err := repo.Create(ctx, domain.Review{
		ProductID: "00000000-0000-0000-0000-000000000000", CustomerID: customerID, Rating: 4,
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
