package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"nutristore/internal/catalog"
	"nutristore/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	maxListLimit           = 100
	defaultFeaturedLimit   = 8
	defaultTopSellersLimit = 10
	defaultTrendingLimit   = 8
	defaultRelatedLimit    = 4
)

func listProductsHandler(catalogSvc CatalogService, history HistoryService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := catalog.Filter{
			Query:       c.Query("q"),
			Category:    c.Query("category"),
			Brand:       c.Query("brand"),
			MinPrice:    c.Query("minPrice"),
			MaxPrice:    c.Query("maxPrice"),
			InStockOnly: c.Query("inStock") == "true",
			MinRating:   c.Query("minRating"),
			SortBy:      catalog.SortKey(c.Query("sortBy")),
			SortOrder:   c.Query("sortOrder"),
		}
		limit := parseLimit(c.Query("limit"), maxListLimit)

		products, err := catalogSvc.List(c.Request.Context(), f, limit)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}

		// A non-empty search from an identified caller lands in their
		// history; failures there never affect the listing.
		if query := strings.TrimSpace(f.Query); query != "" && history != nil {
			if id := identityFrom(c); id.valid() {
				if err := history.Record(c.Request.Context(), id.key(), query); err != nil {
					logger.Printf("products: record search failed owner=%s err=%v", id.key(), err)
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{"count": len(products), "results": nonNil(products)})
	}
}

func getProductHandler(catalogSvc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := catalogSvc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				jsonError(c, http.StatusNotFound, "product not found")
				return
			}
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func presetHandler(fetch func(ctx context.Context, limit int) ([]domain.Product, error), defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseLimit(c.Query("limit"), defaultLimit)
		products, err := fetch(c.Request.Context(), limit)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(products), "results": nonNil(products)})
	}
}

func relatedHandler(catalogSvc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseLimit(c.Query("limit"), defaultRelatedLimit)
		products, err := catalogSvc.Related(c.Request.Context(), c.Param("id"), limit)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				jsonError(c, http.StatusNotFound, "product not found")
				return
			}
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(products), "results": nonNil(products)})
	}
}

func facetsHandler(catalogSvc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, brands, err := catalogSvc.Facets(c.Request.Context())
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		if categories == nil {
			categories = []string{}
		}
		if brands == nil {
			brands = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories, "brands": brands})
	}
}

func nonNil(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	return products
}

// parseLimit interprets the limit query parameter. Absent or malformed values
// fall back to the default, matching the engine's treatment of bad numeric
// filters as absent. The result never exceeds the page cap.
func parseLimit(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		n = fallback
	}
	if n > maxListLimit {
		n = maxListLimit
	}
	return n
}
