package httpserver

import (
	"errors"
	"net/http"

	"nutristore/internal/domain"
	wishlistsvc "nutristore/internal/service/wishlist"

	"github.com/gin-gonic/gin"
)

type addWishlistRequest struct {
	ProductID     string `json:"productId" binding:"required"`
	AutoAddToCart bool   `json:"autoAddToCart"`
	NotifyRestock bool   `json:"notifyRestock"`
}

func listWishlistHandler(wishlist WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := wishlist.List(c.Request.Context(), identityFrom(c).key())
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		if items == nil {
			items = []domain.WishlistItem{}
		}
		c.JSON(http.StatusOK, gin.H{"count": len(items), "results": items})
	}
}

func addWishlistHandler(wishlist WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addWishlistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			jsonError(c, http.StatusBadRequest, "invalid request body")
			return
		}

		item, err := wishlist.Add(c.Request.Context(), identityFrom(c).key(), req.ProductID, wishlistsvc.AddOptions{
			AutoAddToCart: req.AutoAddToCart,
			NotifyRestock: req.NotifyRestock,
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				jsonError(c, http.StatusNotFound, "product not found")
				return
			}
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func removeWishlistHandler(wishlist WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := wishlist.Remove(c.Request.Context(), identityFrom(c).key(), c.Param("productId")); err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// restockCheckHandler refreshes out-of-stock wishlist items against the live
// catalog and reports what came back, including items auto-added to the cart.
func restockCheckHandler(wishlist WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		events, err := wishlist.RestockCheck(c.Request.Context(), id.key(), id.cartOwner())
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		if events == nil {
			events = []wishlistsvc.RestockEvent{}
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}
