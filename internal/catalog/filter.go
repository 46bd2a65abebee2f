// Package catalog implements the product filter/search/sort pipeline shared
// by the listing endpoint, autocomplete search, and recommendation feeds.
// Every function is pure: inputs are never mutated, results are fresh slices.
package catalog

import (
	"sort"
	"strconv"
	"strings"

	"nutristore/internal/domain"
)

type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortDiscount  SortKey = "discount"
	SortSales     SortKey = "sales"
	SortPrice     SortKey = "price"
	SortRating    SortKey = "rating"
	SortName      SortKey = "name"
)

// Filter carries user-chosen constraints, typically decoded straight from
// URL query parameters. Numeric bounds are kept as raw strings: a value that
// does not parse as a non-negative number means the bound is absent, never an
// error. Each bound is checked independently.
type Filter struct {
	Query       string
	Category    string
	Brand       string
	MinPrice    string
	MaxPrice    string
	InStockOnly bool
	MinRating   string
	SortBy      SortKey
	SortOrder   string
}

// FilterAndSort narrows products to those matching every set constraint,
// then orders them by the sort key. The input slice is left untouched; the
// sort is stable, so products with equal keys keep their input order. An
// empty or unknown sort key preserves the filtered order.
func FilterAndSort(products []domain.Product, f Filter) []domain.Product {
	minCents, hasMin := parsePriceCents(f.MinPrice)
	maxCents, hasMax := parsePriceCents(f.MaxPrice)
	minRating, hasRating := parseNumber(f.MinRating)
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
			continue
		}
		if hasMin && p.PriceCents < minCents {
			continue
		}
		if hasMax && p.PriceCents > maxCents {
			continue
		}
		if f.InStockOnly && !p.InStock {
			continue
		}
		if hasRating && p.Rating < minRating {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, f.SortBy, f.SortOrder)
	return out
}

func matchesQuery(p domain.Product, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.Category), query) ||
		strings.Contains(strings.ToLower(p.Brand), query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// salesScore ranks popularity. The bestseller bonus deliberately outweighs
// any realistic review count, so every bestseller outranks every
// non-bestseller regardless of review volume.
func salesScore(p domain.Product) float64 {
	score := float64(p.ReviewCount)
	if p.BestSeller {
		score += 1000
	}
	return score
}

func sortProducts(products []domain.Product, key SortKey, order string) {
	var value func(domain.Product) float64
	switch key {
	case SortDiscount:
		value = func(p domain.Product) float64 { return p.DiscountPercent() }
	case SortSales:
		value = salesScore
	case SortPrice:
		value = func(p domain.Product) float64 { return float64(p.PriceCents) }
	case SortRating:
		value = func(p domain.Product) float64 { return p.Rating }
	case SortName:
		asc := strings.EqualFold(order, "asc")
		sort.SliceStable(products, func(i, j int) bool {
			a, b := strings.ToLower(products[i].Name), strings.ToLower(products[j].Name)
			if asc {
				return a < b
			}
			return a > b
		})
		return
	default:
		// relevance, empty, or unknown: keep filtered order
		return
	}

	asc := strings.EqualFold(order, "asc")
	sort.SliceStable(products, func(i, j int) bool {
		if asc {
			return value(products[i]) < value(products[j])
		}
		return value(products[i]) > value(products[j])
	})
}

// parsePriceCents reads a price bound expressed in major currency units and
// converts it to cents. Invalid or negative input means no bound.
func parsePriceCents(raw string) (int64, bool) {
	v, ok := parseNumber(raw)
	if !ok {
		return 0, false
	}
	return int64(v * 100), true
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
