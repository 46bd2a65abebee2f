package review

import (
	"context"

	"nutristore/internal/domain"
)

type Repository interface {
	// Create inserts the review and recomputes the product's rating and
	// review count in the same transaction.
	Create(ctx context.Context, review domain.Review) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
}
