package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockfront/internal/checkout"
	"stockfront/internal/domain"
)

// respondError maps domain failures onto HTTP statuses. Collaborator
// rejections stay user-visible; nothing here is fatal.
func respondError(c *gin.Context, err error) {
	var pe *domain.PaymentError
	switch {
	case errors.As(err, &pe):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": pe.Error(), "retryable": true})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidLineItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line item"})
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable", "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
