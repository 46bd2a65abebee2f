package httpserver

import (
	"errors"
	"net/http"

	"nutristore/internal/domain"
	cartsvc "nutristore/internal/service/cart"

	"github.com/gin-gonic/gin"
)

type cartLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type syncCartRequest struct {
	Lines []cartsvc.SyncLine `json:"lines"`
}

func getCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Get(c.Request.Context(), identityFrom(c).cartOwner())
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func cartStatsHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := carts.Stats(c.Request.Context(), identityFrom(c).cartOwner())
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// addToCartHandler merges the requested quantity into the cart. A request
// that exceeds stock still succeeds with the clamped cart; the client reads
// the resulting line to see what actually landed.
func addToCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			jsonError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		cart, err := carts.Add(c.Request.Context(), identityFrom(c).cartOwner(), req.ProductID, req.VariantID, req.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				jsonError(c, http.StatusNotFound, "product not found")
				return
			}
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func updateCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			jsonError(c, http.StatusBadRequest, "invalid request body")
			return
		}

		cart, err := carts.UpdateQuantity(c.Request.Context(), identityFrom(c).cartOwner(), req.ProductID, req.VariantID, req.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				jsonError(c, http.StatusNotFound, "product not found")
				return
			}
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func removeFromCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID := c.Query("productId")
		if productID == "" {
			jsonError(c, http.StatusBadRequest, "productId is required")
			return
		}

		cart, err := carts.Remove(c.Request.Context(), identityFrom(c).cartOwner(), productID, c.Query("variantId"))
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func clearCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Clear(c.Request.Context(), identityFrom(c).cartOwner())
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func syncCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req syncCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			jsonError(c, http.StatusBadRequest, "invalid request body")
			return
		}

		cart, err := carts.Sync(c.Request.Context(), identityFrom(c).cartOwner(), req.Lines)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}
