package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		identity, err := deps.Session.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": identity})
	}
}

func registerHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		identity, err := deps.Session.Register(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": identity})
	}
}

func logoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Session.Logout()
		c.Status(http.StatusNoContent)
	}
}

func meHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := deps.Session.Current()
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": identity})
	}
}

// requireIdentity gates routes that need a signed-in buyer.
func requireIdentity(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := deps.Session.Current(); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}
		c.Next()
	}
}

// requireAdmin is a presentation-layer gate only; the ingestion collaborator
// enforces the real authorization against the bearer credential.
func requireAdmin(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := deps.Session.Current()
		if !ok || !identity.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}
