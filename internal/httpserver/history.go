package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type recordSearchRequest struct {
	Query string `json:"query" binding:"required"`
}

func getHistoryHandler(history HistoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := identityFrom(c).key()
		full, err := history.History(c.Request.Context(), owner)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		recent, err := history.Recent(c.Request.Context(), owner)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		if full == nil {
			full = []string{}
		}
		if recent == nil {
			recent = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"history": full, "recent": recent})
	}
}

func recordHistoryHandler(history HistoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req recordSearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			jsonError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			jsonError(c, http.StatusBadRequest, "query is required")
			return
		}
		if err := history.Record(c.Request.Context(), identityFrom(c).key(), req.Query); err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func clearHistoryHandler(history HistoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := history.Clear(c.Request.Context(), identityFrom(c).key()); err != nil {
			jsonError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
