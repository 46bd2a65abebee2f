package domain

import "time"

type Product struct {
	ID                 string    `json:"id"`
	Slug               string    `json:"slug"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	Brand              string    `json:"brand"`
	Category           string    `json:"category"`
	Tags               []string  `json:"tags,omitempty"`
	PriceCents         int64     `json:"priceCents"`
	OriginalPriceCents int64     `json:"originalPriceCents,omitempty"`
	Currency           string    `json:"currency"`
	Rating             float64   `json:"rating"`
	ReviewCount        int       `json:"reviewCount"`
	InStock            bool      `json:"inStock"`
	StockQuantity      *int      `json:"stockQuantity,omitempty"`
	Featured           bool      `json:"featured"`
	BestSeller         bool      `json:"bestSeller"`
	Images             []string  `json:"images,omitempty"`
	Variants           []Variant `json:"variants,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Variant is a purchasable sub-option of a product (flavor, size) with its
// own price and stock. A product with variants has its stock governed
// per-variant, not by the parent's stock fields.
type Variant struct {
	ID            string `json:"id"`
	ProductID     string `json:"-"`
	Name          string `json:"name"`
	PriceCents    int64  `json:"priceCents"`
	InStock       bool   `json:"inStock"`
	StockQuantity *int   `json:"stockQuantity,omitempty"`
}

// VariantByID returns the variant with the given id, or nil. An empty id
// means no variant is selected.
func (p *Product) VariantByID(id string) *Variant {
	if id == "" {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// UnitPriceCents is the price charged for one unit of the product with the
// given variant selected: the variant's price override when set, else the
// product price.
func (p *Product) UnitPriceCents(v *Variant) int64 {
	if v != nil && v.PriceCents > 0 {
		return v.PriceCents
	}
	return p.PriceCents
}

// DiscountPercent computes the percent off implied by originalPrice. The
// original price comes from an untrusted source, so a missing or inverted
// value (original below current) yields 0 rather than a negative discount.
func (p *Product) DiscountPercent() float64 {
	if p.OriginalPriceCents <= 0 || p.OriginalPriceCents <= p.PriceCents {
		return 0
	}
	return float64(p.OriginalPriceCents-p.PriceCents) / float64(p.OriginalPriceCents) * 100
}
