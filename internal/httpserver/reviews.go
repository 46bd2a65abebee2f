package httpserver

import (
	"errors"
	"net/http"

	"nutristore/internal/domain"
	reviewsvc "nutristore/internal/service/review"

	"github.com/gin-gonic/gin"
)

func listReviewsHandler(reviews ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := reviews.ListByProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		if list == nil {
			list = []domain.Review{}
		}
		c.JSON(http.StatusOK, gin.H{"count": len(list), "results": list})
	}
}

func createReviewHandler(reviews ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in reviewsvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			jsonError(c, http.StatusBadRequest, "invalid request body")
			return
		}

		review, err := reviews.Create(c.Request.Context(), c.Param("id"), identityFrom(c).customer, in)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				jsonError(c, http.StatusNotFound, "product not found")
				return
			}
			if errors.Is(err, reviewsvc.ErrInvalidRating) {
				jsonError(c, http.StatusBadRequest, err.Error())
				return
			}
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}
