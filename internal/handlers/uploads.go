package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/parkshare/parkshare-backend/internal/services"
)

// UploadListingPhoto accepts a photo upload and returns the durable URL the
// owner can attach to a listing.
func UploadListingPhoto() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("photo")
		if err != nil {
			c.JSON(400, gin.H{"error": "Photo file required"})
			return
		}

		// 5MB cap, images only
		if file.Size > 5<<20 {
			c.JSON(400, gin.H{"error": "Photo must be smaller than 5MB"})
			return
		}
		contentType := file.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			c.JSON(400, gin.H{"error": "File must be an image"})
			return
		}

		url, err := services.UploadImage(file, "listings")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload photo"})
			return
		}

		c.JSON(201, gin.H{"url": url})
	}
}
