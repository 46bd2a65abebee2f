package domain

import "time"

// WishlistItem is a saved product with restock preferences. The product is a
// snapshot taken at add time; the restock check refreshes it against the
// live catalog.
type WishlistItem struct {
	ID            string    `json:"id"`
	Product       Product   `json:"product"`
	AddedAt       time.Time `json:"addedAt"`
	AutoAddToCart bool      `json:"autoAddToCart"`
	NotifyRestock bool      `json:"notifyRestock"`
	WasOutOfStock bool      `json:"wasOutOfStock"`
}
