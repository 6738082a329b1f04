package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// adminUploadHandler forwards a single image to the ingestion collaborator.
// Bulk archives go through the ingest CLI, not this route.
func adminUploadHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer file.Close()

		if err := deps.Admin.UploadImage(c.Request.Context(), deps.Session.Token(), header.Filename, file); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"filename": header.Filename})
	}
}
