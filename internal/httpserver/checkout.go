package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockfront/internal/backend"
	"stockfront/internal/checkout"
)

type submitRequest struct {
	Method string `json:"method"`
}

func enterCheckoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Checkout.Enter(); err != nil {
			if errors.Is(err, checkout.ErrEmptyCart) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "status": deps.Checkout.Status()})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, deps.Checkout.Status())
	}
}

func checkoutStatusHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.Checkout.Status())
	}
}

func submitCheckoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The payment method is optional; an empty body means "card".
		var req submitRequest
		_ = c.ShouldBindJSON(&req)
		err := deps.Checkout.Submit(c.Request.Context(), backend.PaymentDetails{Method: req.Method})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, deps.Checkout.Status())
	}
}

func leaveCheckoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Checkout.Leave()
		c.JSON(http.StatusOK, deps.Checkout.Status())
	}
}
