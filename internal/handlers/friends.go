package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/parkshare/parkshare-backend/internal/core"
	"github.com/parkshare/parkshare-backend/internal/models"
	"gorm.io/gorm"
)

// ProposeFriendship sends a friend request.
func ProposeFriendship(graph *core.RelationshipGraph) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			ReceiverID uint `json:"receiverId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		friendship, err := graph.ProposeFriendship(c.Request.Context(), userId, input.ReceiverID)
		if err != nil {
			abortWithCoreError(c, err)
			return
		}

		c.JSON(201, friendship)
	}
}

// GetFriendRequests lists pending requests received by the caller.
func GetFriendRequests(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var requests []models.Friendship
		if err := db.Where("receiver_id = ? AND status = ?", userId, models.FriendshipPending).
			Preload("Sender").
			Find(&requests).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch friend requests"})
			return
		}

		response := make([]gin.H, 0, len(requests))
		for _, r := range requests {
			response = append(response, gin.H{
				"id":     r.ID,
				"status": r.Status,
				"sender": gin.H{
					"id":    r.Sender.ID,
					"name":  r.Sender.Name,
					"email": r.Sender.Email,
				},
			})
		}

		c.JSON(200, response)
	}
}

// RespondFriendship accepts or rejects a pending request.
func RespondFriendship(graph *core.RelationshipGraph) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		edgeId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid request id"})
			return
		}

		var input struct {
			Decision string `json:"decision" binding:"required,oneof=accept reject"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		friendship, err := graph.RespondFriendship(c.Request.Context(), uint(edgeId), userId, core.Decision(input.Decision))
		if err != nil {
			abortWithCoreError(c, err)
			return
		}

		c.JSON(200, friendship)
	}
}

// GetFriends lists the caller's accepted friends, merged from both edge
// directions.
func GetFriends(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var friendships []models.Friendship
		if err := db.Where("status = ?", models.FriendshipAccepted).
			Where("sender_id = ? OR receiver_id = ?", userId, userId).
			Preload("Sender").
			Preload("Receiver").
			Find(&friendships).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch friends"})
			return
		}

		friends := make([]gin.H, 0, len(friendships))
		for _, f := range friendships {
			friend := f.Receiver
			if f.ReceiverID == userId {
				friend = f.Sender
			}
			friends = append(friends, gin.H{
				"id":    friend.ID,
				"name":  friend.Name,
				"email": friend.Email,
			})
		}

		c.JSON(200, friends)
	}
}

// RemoveFriendship unfriends a user. Idempotent.
func RemoveFriendship(graph *core.RelationshipGraph) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		friendId, err := strconv.ParseUint(c.Param("userId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid user id"})
			return
		}

		if err := graph.RemoveFriendship(c.Request.Context(), userId, uint(friendId)); err != nil {
			abortWithCoreError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Friendship removed"})
	}
}
