package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"nutristore/internal/domain"
	cartrepo "nutristore/internal/repository/cart"
	anonymoussvc "nutristore/internal/service/anonymous"
	customersvc "nutristore/internal/service/customer"

	"github.com/gin-gonic/gin"
)

const identityKey = "httpserver.identity"

// identity is the resolved caller: a registered customer or an anonymous
// visitor holding a guest token.
type identity struct {
	customer    *domain.Customer
	anonymousID string
}

func (id identity) valid() bool {
	return id.customer != nil || id.anonymousID != ""
}

// cartOwner maps the identity onto the cart ownership columns.
func (id identity) cartOwner() cartrepo.Owner {
	if id.customer != nil {
		customerID := id.customer.ID
		return cartrepo.Owner{CustomerID: &customerID}
	}
	anonymousID := id.anonymousID
	return cartrepo.Owner{AnonymousID: &anonymousID}
}

// key is the owner segment for key-value backed features (wishlist, search
// history).
func (id identity) key() string {
	if id.customer != nil {
		return id.customer.ID
	}
	return id.anonymousID
}

// authMiddleware resolves an optional bearer token into an identity. Requests
// without a token pass through unauthenticated; an invalid token is rejected
// outright.
func authMiddleware(customers CustomerService, anonymous AnonymousService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		customer, err := customers.LookupByToken(c.Request.Context(), token)
		if err == nil {
			c.Set(identityKey, identity{customer: customer})
			c.Next()
			return
		}
		if !errors.Is(err, customersvc.ErrInvalidToken) {
			abortError(c, http.StatusInternalServerError, "internal error")
			return
		}

		anonymousID, err := anonymous.LookupByToken(c.Request.Context(), token)
		if err == nil {
			c.Set(identityKey, identity{anonymousID: anonymousID})
			c.Next()
			return
		}
		if !errors.Is(err, anonymoussvc.ErrInvalidToken) {
			abortError(c, http.StatusInternalServerError, "internal error")
			return
		}
		abortError(c, http.StatusUnauthorized, "invalid token")
	}
}

// requireIdentity rejects requests that carry no identity at all.
func requireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identityFrom(c).valid() {
			abortError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		c.Next()
	}
}

// requireCustomer rejects anonymous and unauthenticated requests.
func requireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identityFrom(c).customer == nil {
			abortError(c, http.StatusUnauthorized, "customer account required")
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(identity); ok {
			return id
		}
	}
	return identity{}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
