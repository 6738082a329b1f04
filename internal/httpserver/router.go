package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"stockfront/internal/backend"
	"stockfront/internal/cart"
	"stockfront/internal/checkout"
	"stockfront/internal/recommend"
	"stockfront/internal/session"
)

// Deps carries the stores, orchestrator, and collaborator clients the routes
// need. Everything is injected; the handlers own no state of their own.
type Deps struct {
	Cart      *cart.Store
	Session   *session.Store
	Checkout  *checkout.Orchestrator
	Catalog   *backend.CatalogClient
	Recommend *recommend.Service
	Admin     *backend.AdminClient
}

// buildRouter wires routes for the storefront surface.
func buildRouter(logger *log.Logger, deps Deps, allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)

	api := router.Group("/api")
	{
		api.GET("/licenses", listLicensesHandler)
		api.GET("/images", listImagesHandler(deps))
		api.GET("/images/:id", getImageHandler(deps))

		api.POST("/auth/register", registerHandler(deps))
		api.POST("/auth/login", loginHandler(deps))
		api.POST("/auth/logout", logoutHandler(deps))
		api.GET("/me", meHandler(deps))
		api.GET("/me/purchases", requireIdentity(deps), purchasesHandler(deps))

		api.GET("/cart", getCartHandler(deps))
		api.POST("/cart/items", addCartItemHandler(deps))
		api.DELETE("/cart/items/:imageId/:license", removeCartItemHandler(deps))
		api.DELETE("/cart", clearCartHandler(deps))

		api.POST("/checkout/enter", enterCheckoutHandler(deps))
		api.GET("/checkout", checkoutStatusHandler(deps))
		api.POST("/checkout/submit", submitCheckoutHandler(deps))
		api.POST("/checkout/leave", leaveCheckoutHandler(deps))

		api.POST("/bulk-recommend", bulkRecommendHandler(deps))

		admin := api.Group("/admin", requireIdentity(deps), requireAdmin(deps))
		{
			admin.POST("/images/upload", adminUploadHandler(deps))
		}
	}

	return router
}
