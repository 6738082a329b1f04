package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockfront/internal/domain"
	"stockfront/internal/license"
)

type addItemRequest struct {
	ImageID string `json:"imageId" binding:"required"`
	License string `json:"license" binding:"required"`
}

type cartView struct {
	Items []domain.CartLineItem `json:"items"`
	Total float64               `json:"total"`
	Count int                   `json:"count"`
}

func cartViewOf(deps Deps) cartView {
	return cartView{
		Items: deps.Cart.Items(),
		Total: license.DisplayPrice(deps.Cart.Total()),
		Count: deps.Cart.Count(),
	}
}

func getCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cartViewOf(deps))
	}
}

// addCartItemHandler resolves the image against the catalog so the frozen
// price always derives from the authoritative base price, never from whatever
// a view happened to display.
func addCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tier, err := domain.ParseLicenseTier(req.License)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		image, err := deps.Catalog.GetImage(c.Request.Context(), req.ImageID)
		if err != nil {
			respondError(c, err)
			return
		}
		item, added, err := deps.Cart.Add(*image, tier)
		if err != nil {
			respondError(c, err)
			return
		}
		status := http.StatusCreated
		if !added {
			status = http.StatusOK
		}
		c.JSON(status, gin.H{"item": item, "added": added, "cart": cartViewOf(deps)})
	}
}

func removeCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		tier, err := domain.ParseLicenseTier(c.Param("license"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := deps.Cart.Remove(c.Param("imageId"), tier); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartViewOf(deps))
	}
}

func clearCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Cart.Clear(); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartViewOf(deps))
	}
}
