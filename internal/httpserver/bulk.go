package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type bulkRecommendRequest struct {
	Requirements string  `json:"requirements" binding:"required"`
	Quantity     int     `json:"quantity" binding:"required"`
	Budget       float64 `json:"budget"`
}

func bulkRecommendHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkRecommendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		quote, err := deps.Recommend.Recommend(c.Request.Context(), req.Requirements, req.Quantity, req.Budget)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, quote)
	}
}
