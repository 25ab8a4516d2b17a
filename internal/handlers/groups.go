package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/parkshare/parkshare-backend/internal/core"
	"github.com/parkshare/parkshare-backend/internal/models"
	"gorm.io/gorm"
)

// CreateGroup creates a lucky group with the caller as its first accepted
// member.
func CreateGroup(graph *core.RelationshipGraph) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		group, err := graph.CreateGroup(c.Request.Context(), userId, input.Name)
		if err != nil {
			abortWithCoreError(c, err)
			return
		}

		c.JSON(201, group)
	}
}

// GetGroups lists groups the caller created or is a member of, with member
// details. One query: memberships of the caller's groups, preloaded, then
// folded per group.
func GetGroups(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		myGroupIDs := db.Model(&models.GroupMembership{}).
			Select("group_id").
			Where("user_id = ?", userId)

		var memberships []models.GroupMembership
		if err := db.Where("group_id IN (?)", myGroupIDs).
			Preload("Group").
			Preload("User").
			Order("group_id").
			Find(&memberships).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch groups"})
			return
		}

		c.JSON(200, groupViews(memberships))
	}
}

// groupViews folds a flat membership list into one entry per group with its
// member details.
func groupViews(memberships []models.GroupMembership) []gin.H {
	index := map[uint]int{}
	views := make([]gin.H, 0, len(memberships))
	for _, m := range memberships {
		i, ok := index[m.GroupID]
		if !ok {
			i = len(views)
			index[m.GroupID] = i
			views = append(views, gin.H{
				"id":        m.Group.ID,
				"name":      m.Group.Name,
				"createdBy": m.Group.CreatedBy,
				"createdAt": m.Group.CreatedAt,
				"members":   []gin.H{},
			})
		}
		members := views[i]["members"].([]gin.H)
		views[i]["members"] = append(members, gin.H{
			"id":     m.ID,
			"status": m.Status,
			"user": gin.H{
				"id":    m.User.ID,
				"name":  m.User.Name,
				"email": m.User.Email,
			},
		})
	}
	return views
}

// InviteToGroup invites a user into a group. Creator only.
func InviteToGroup(graph *core.RelationshipGraph) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		groupId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid group id"})
			return
		}

		var input struct {
			UserID uint `json:"userId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		membership, err := graph.InviteToGroup(c.Request.Context(), uint(groupId), userId, input.UserID)
		if err != nil {
			abortWithCoreError(c, err)
			return
		}

		c.JSON(201, membership)
	}
}

// GetGroupInvites lists the caller's pending group invitations.
func GetGroupInvites(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var memberships []models.GroupMembership
		if err := db.Where("user_id = ? AND status = ?", userId, models.MembershipPending).
			Preload("Group").
			Find(&memberships).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch invites"})
			return
		}

		response := make([]gin.H, 0, len(memberships))
		for _, m := range memberships {
			response = append(response, gin.H{
				"id":     m.ID,
				"status": m.Status,
				"group": gin.H{
					"id":   m.Group.ID,
					"name": m.Group.Name,
				},
			})
		}

		c.JSON(200, response)
	}
}

// RespondGroupInvite accepts or rejects a pending invitation.
func RespondGroupInvite(graph *core.RelationshipGraph) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		membershipId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid invite id"})
			return
		}

		var input struct {
			Decision string `json:"decision" binding:"required,oneof=accept reject"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		membership, err := graph.RespondGroupInvite(c.Request.Context(), uint(membershipId), userId, core.Decision(input.Decision))
		if err != nil {
			abortWithCoreError(c, err)
			return
		}

		c.JSON(200, membership)
	}
}

// RemoveGroupMember removes a member from a group. Creator only.
func RemoveGroupMember(graph *core.RelationshipGraph) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		groupId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid group id"})
			return
		}
		memberId, err := strconv.ParseUint(c.Param("userId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid user id"})
			return
		}

		if err := graph.RemoveMember(c.Request.Context(), uint(groupId), userId, uint(memberId)); err != nil {
			abortWithCoreError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Member removed"})
	}
}

// LeaveGroup removes the caller's own membership.
func LeaveGroup(graph *core.RelationshipGraph) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		groupId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid group id"})
			return
		}

		if err := graph.LeaveGroup(c.Request.Context(), uint(groupId), userId); err != nil {
			abortWithCoreError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Left group"})
	}
}
