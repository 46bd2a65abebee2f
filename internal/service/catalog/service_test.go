package catalog

import (
	"context"
	"testing"

	enginecatalog "nutristore/internal/catalog"
	"nutristore/internal/domain"
)

type stubProductRepo struct {
	products  []domain.Product
	listCalls int
}

func (s *stubProductRepo) List(_ context.Context) ([]domain.Product, error) {
	s.listCalls++
	return s.products, nil
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductRepo) Facets(_ context.Context) ([]string, []string, error) {
	return []string{"Protein"}, []string{"BBN"}, nil
}

func TestServiceListFiltersAndLimits(t *testing.T) {
	repo := &stubProductRepo{products: []domain.Product{
		{ID: "a", Name: "Whey One", InStock: true, PriceCents: 100},
		{ID: "b", Name: "Whey Two", InStock: true, PriceCents: 300},
		{ID: "c", Name: "Creatine", InStock: true, PriceCents: 200},
	}}
	svc := New(repo, nil)

	got, err := svc.List(context.Background(), enginecatalog.Filter{Query: "whey", SortBy: enginecatalog.SortPrice, SortOrder: "asc"}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestServiceRelatedExcludesSource(t *testing.T) {
	repo := &stubProductRepo{products: []domain.Product{
		{ID: "src", Category: "Protein", InStock: true},
		{ID: "other", Category: "Protein", InStock: true},
	}}
	svc := New(repo, nil)

	got, err := svc.Related(context.Background(), "src", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "other" {
		t.Fatalf("unexpected related %+v", got)
	}
}

func TestServiceRelatedUnknownProduct(t *testing.T) {
	svc := New(&stubProductRepo{}, nil)
	if _, err := svc.Related(context.Background(), "missing", 5); err == nil {
		t.Fatalf("expected error for unknown product")
	}
}
