package domain

import "time"

// DefaultVariantKey is stored in place of a variant id for lines added
// without a variant selection.
const DefaultVariantKey = "default"

type Cart struct {
	ID          string     `json:"id"`
	CustomerID  *string    `json:"customerId,omitempty"`
	AnonymousID *string    `json:"-"`
	Currency    string     `json:"currency"`
	TotalCents  int64      `json:"totalCents"`
	State       string     `json:"state"`
	CreatedAt   time.Time  `json:"createdAt"`
	Lines       []CartLine `json:"lineItems"`
}

// CartLine is one cart row, keyed by (productId, variantKey). The snapshot
// captures the product fields needed to render the line without refetching.
type CartLine struct {
	ID             string                 `json:"id"`
	CartID         string                 `json:"cartId"`
	ProductID      string                 `json:"productId"`
	VariantKey     string                 `json:"variantId"`
	Quantity       int                    `json:"quantity"`
	UnitPriceCents int64                  `json:"unitPriceCents"`
	TotalCents     int64                  `json:"totalCents"`
	Snapshot       map[string]interface{} `json:"snapshot,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// VariantKeyFor normalizes an optional variant id into a line key.
func VariantKeyFor(variantID string) string {
	if variantID == "" {
		return DefaultVariantKey
	}
	return variantID
}

// Count is the total quantity across lines, used for the header badge.
func (c *Cart) Count() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// Contains reports whether any line, for any variant, references the product.
func (c *Cart) Contains(productID string) bool {
	for _, line := range c.Lines {
		if line.ProductID == productID {
			return true
		}
	}
	return false
}

// LineFor returns the line matching the product and variant key, or nil.
func (c *Cart) LineFor(productID, variantKey string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].VariantKey == variantKey {
			return &c.Lines[i]
		}
	}
	return nil
}
