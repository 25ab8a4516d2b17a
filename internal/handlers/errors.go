package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/parkshare/parkshare-backend/internal/core"
)

// abortWithCoreError translates an engine error kind into an HTTP response.
// The engine carries no user-facing text; messages here are the boundary's.
func abortWithCoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrNotAuthorized):
		c.JSON(403, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrInvalidState):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrDuplicateRequest), errors.Is(err, core.ErrAlreadyMember):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrNotAvailable):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrInThePast):
		c.JSON(400, gin.H{"error": err.Error()})
	default:
		c.JSON(500, gin.H{"error": "Internal server error"})
	}
}
