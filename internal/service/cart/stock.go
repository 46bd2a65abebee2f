package cart

import "nutristore/internal/domain"

// binaryStockCeiling stands in for an availability count when a product or
// variant only carries a boolean in-stock flag. Large enough to never bind a
// real purchase, small enough to keep quantity inputs sane.
const binaryStockCeiling = 99

// AvailableStock resolves the purchasable quantity for a product with an
// optional variant selected. A selected variant governs its own stock: its
// explicit quantity wins, else its in-stock flag maps to the ceiling or
// zero. Without a variant the product's fields are used the same way. The
// result is never negative.
func AvailableStock(p *domain.Product, v *domain.Variant) int {
	if v != nil {
		if v.StockQuantity != nil {
			return clampNonNegative(*v.StockQuantity)
		}
		return binaryStock(v.InStock)
	}
	if p.StockQuantity != nil {
		return clampNonNegative(*p.StockQuantity)
	}
	return binaryStock(p.InStock)
}

// MaxAddable is how many more units fit under the stock ceiling given what
// is already in the cart. Callers use it to cap add/increment actions and
// disable controls; the mutation paths clamp again regardless.
func MaxAddable(p *domain.Product, v *domain.Variant, inCart int) int {
	remaining := AvailableStock(p, v) - inCart
	if remaining < 0 {
		return 0
	}
	return remaining
}

func binaryStock(inStock bool) int {
	if inStock {
		return binaryStockCeiling
	}
	return 0
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
