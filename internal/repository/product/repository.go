package product

import (
	"context"

	"nutristore/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
	// Facets lists the distinct categories and brands present in the
	// catalog, for populating filter controls.
	Facets(ctx context.Context) (categories, brands []string, err error)
}
