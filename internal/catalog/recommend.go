package catalog

import (
	"math"
	"sort"
	"strings"

	"nutristore/internal/domain"
)

// TopSellers returns up to limit in-stock products that are either flagged
// bestsellers or rated at least 4.0, bestsellers first, then by rating, then
// by review count.
func TopSellers(products []domain.Product, limit int) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.InStock && (p.BestSeller || p.Rating >= 4.0) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BestSeller != out[j].BestSeller {
			return out[i].BestSeller
		}
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].ReviewCount > out[j].ReviewCount
	})
	return head(out, limit)
}

// Trending returns up to limit in-stock products rated at least 4.0, ranked
// by rating weighted with the log of the review count. The log dampens the
// influence of review volume, so a fresh well-rated product can surface next
// to long-established ones.
func Trending(products []domain.Product, limit int) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.InStock && p.Rating >= 4.0 {
			out = append(out, p)
		}
	}
	score := func(p domain.Product) float64 {
		return p.Rating * math.Log(float64(p.ReviewCount)+1)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return score(out[i]) > score(out[j])
	})
	return head(out, limit)
}

// RelatedTo returns up to limit in-stock products sharing a category, brand,
// or tag with source, ranked by closeness: same category weighs 3, same
// brand 2, with the rating as a small tie-breaker.
func RelatedTo(products []domain.Product, source domain.Product, limit int) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !p.InStock || p.ID == source.ID {
			continue
		}
		if sameCategory(p, source) || sameBrand(p, source) || sharesTag(p, source) {
			out = append(out, p)
		}
	}
	score := func(p domain.Product) float64 {
		s := p.Rating / 5
		if sameCategory(p, source) {
			s += 3
		}
		if sameBrand(p, source) {
			s += 2
		}
		return s
	}
	sort.SliceStable(out, func(i, j int) bool {
		return score(out[i]) > score(out[j])
	})
	return head(out, limit)
}

// Featured returns up to limit in-stock featured products by rating.
func Featured(products []domain.Product, limit int) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Featured && p.InStock {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	return head(out, limit)
}

func sameCategory(a, b domain.Product) bool {
	return a.Category != "" && strings.EqualFold(a.Category, b.Category)
}

func sameBrand(a, b domain.Product) bool {
	return a.Brand != "" && strings.EqualFold(a.Brand, b.Brand)
}

func sharesTag(a, b domain.Product) bool {
	for _, ta := range a.Tags {
		for _, tb := range b.Tags {
			if strings.EqualFold(ta, tb) {
				return true
			}
		}
	}
	return false
}

func head(products []domain.Product, limit int) []domain.Product {
	if limit > 0 && len(products) > limit {
		return products[:limit]
	}
	return products
}
