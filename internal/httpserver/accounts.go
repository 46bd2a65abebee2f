package httpserver

import (
	"errors"
	"log"
	"net/http"

	"nutristore/internal/domain"
	customersvc "nutristore/internal/service/customer"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func signupHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in customersvc.SignupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			jsonError(c, http.StatusBadRequest, "invalid request body")
			return
		}

		customer, err := customers.Signup(c.Request.Context(), in)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				jsonError(c, http.StatusConflict, "account already exists")
				return
			}
			jsonError(c, http.StatusBadRequest, err.Error())
			return
		}
		c.JSON(http.StatusCreated, gin.H{"customer": customer})
	}
}

func loginHandler(customers CustomerService, carts CartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			jsonError(c, http.StatusBadRequest, "invalid request body")
			return
		}

		customer, access, refresh, err := customers.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, customersvc.ErrInvalidCredentials) {
				jsonError(c, http.StatusUnauthorized, "invalid credentials")
				return
			}
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}

		resp := gin.H{
			"customer":     customer,
			"accessToken":  access,
			"refreshToken": refresh,
			"expiresIn":    customers.AccessTTLSeconds(),
		}

		// A guest who logs in keeps their cart: the anonymous cart folds into
		// the customer cart, quantities summed and clamped to stock.
		if id := identityFrom(c); id.anonymousID != "" {
			cart, err := carts.Merge(c.Request.Context(), id.anonymousID, customer.ID)
			if err != nil {
				logger.Printf("login: cart merge failed customer=%s err=%v", customer.ID, err)
			} else {
				resp["cart"] = cart
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}

func anonymousHandler(anonymous AnonymousService) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, refresh, anonymousID, err := anonymous.Issue(c.Request.Context())
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"accessToken":  access,
			"refreshToken": refresh,
			"anonymousId":  anonymousID,
			"expiresIn":    anonymous.AccessTTLSeconds(),
		})
	}
}
