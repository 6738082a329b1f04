package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stockfront/internal/backend"
	"stockfront/internal/domain"
	"stockfront/internal/license"
)

func listLicensesHandler(c *gin.Context) {
	type tierView struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Multiplier  float64 `json:"priceMultiplier"`
	}
	tiers := make([]tierView, 0, len(domain.Tiers()))
	for _, t := range domain.Tiers() {
		tiers = append(tiers, tierView{
			ID:          t.String(),
			Title:       t.Title(),
			Description: t.Description(),
			Multiplier:  license.Multiplier(t),
		})
	}
	c.JSON(http.StatusOK, gin.H{"licenses": tiers})
}

func listImagesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		filters := backend.ListFilters{
			Category:    c.Query("category"),
			Search:      c.Query("search"),
			Orientation: c.Query("orientation"),
			Limit:       limit,
		}
		images, err := deps.Catalog.ListImages(c.Request.Context(), filters)
		if err != nil {
			// Catalog views degrade to an empty state with a visible
			// notice instead of crashing.
			c.JSON(http.StatusOK, gin.H{
				"images":   []domain.Image{},
				"total":    0,
				"degraded": true,
				"notice":   "catalog is temporarily unavailable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"images": images, "total": len(images)})
	}
}

func getImageHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		image, err := deps.Catalog.GetImage(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"image":     image,
			"purchased": hasPurchased(c, deps, image.ID),
		})
	}
}

// hasPurchased is a display hint for the detail view; a purchase-history
// failure just reads as "not purchased".
func hasPurchased(c *gin.Context, deps Deps, imageID string) bool {
	identity, ok := deps.Session.Current()
	if !ok {
		return false
	}
	purchases, err := deps.Catalog.UserPurchases(c.Request.Context(), deps.Session.Token(), identity.ID)
	if err != nil {
		return false
	}
	for _, p := range purchases {
		for _, id := range p.ImageIDs {
			if id == imageID {
				return true
			}
		}
	}
	return false
}

func purchasesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := deps.Session.Current()
		purchases, err := deps.Catalog.UserPurchases(c.Request.Context(), deps.Session.Token(), identity.ID)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{
				"purchases": []domain.Purchase{},
				"degraded":  true,
				"notice":    "purchase history is temporarily unavailable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"purchases": purchases})
	}
}
