package catalog

import (
	"context"

	"nutristore/internal/cache"
	"nutristore/internal/catalog"
	"nutristore/internal/domain"
)

// Service answers catalog queries. The full product list is small enough to
// hold in memory (the storefront fetches at most 100 items per page), so
// every query loads the snapshot, cached under a short TTL, and runs the
// pure filter pipeline over it.
type Service struct {
	repo  productRepo
	cache *cache.ProductCache
}

type productRepo interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Facets(ctx context.Context) (categories, brands []string, err error)
}

func New(repo productRepo, cache *cache.ProductCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List applies the filter over the catalog snapshot. limit
// caps the result; zero means no cap.
func (s *Service) List(ctx context.Context, f catalog.Filter, limit int) ([]domain.Product, error) {
	products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := catalog.FilterAndSort(products, f)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) TopSellers(ctx context.Context, limit int) ([]domain.Product, error) {
	products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.TopSellers(products, limit), nil
}

func (s *Service) Trending(ctx context.Context, limit int) ([]domain.Product, error) {
	products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Trending(products, limit), nil
}

func (s *Service) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Featured(products, limit), nil
}

// Related returns products close to the given one by category, brand, or
// tags.
func (s *Service) Related(ctx context.Context, productID string, limit int) ([]domain.Product, error) {
	source, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.RelatedTo(products, *source, limit), nil
}

// Facets lists the filterable categories and brands.
func (s *Service) Facets(ctx context.Context) (categories, brands []string, err error) {
	return s.repo.Facets(ctx)
}

// Invalidate drops the cached snapshot after catalog writes.
func (s *Service) Invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx)
}

func (s *Service) snapshot(ctx context.Context) ([]domain.Product, error) {
	if products, ok := s.cache.Get(ctx); ok {
		return products, nil
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, products)
	return products, nil
}
