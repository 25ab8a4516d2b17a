package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/parkshare/parkshare-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func membershipFixture(id, groupID, userID uint, status models.MembershipStatus) models.GroupMembership {
	return models.GroupMembership{
		Model:   gorm.Model{ID: id},
		GroupID: groupID,
		Group: models.LuckyGroup{
			Model:     gorm.Model{ID: groupID},
			Name:      "Downtown crew",
			CreatedBy: 1,
		},
		UserID: userID,
		User: models.User{
			Model: gorm.Model{ID: userID},
			Name:  "Member",
			Email: "member@example.com",
		},
		Status: status,
	}
}

func TestGroupViews(t *testing.T) {
	memberships := []models.GroupMembership{
		membershipFixture(1, 10, 1, models.MembershipAccepted),
		membershipFixture(2, 10, 2, models.MembershipPending),
		membershipFixture(3, 20, 1, models.MembershipAccepted),
	}

	views := groupViews(memberships)
	require.Len(t, views, 2)

	first := views[0]
	assert.Equal(t, uint(10), first["id"])
	assert.Equal(t, "Downtown crew", first["name"])
	assert.Equal(t, uint(1), first["createdBy"])

	members := first["members"].([]gin.H)
	require.Len(t, members, 2)
	assert.Equal(t, uint(1), members[0]["id"])
	assert.Equal(t, models.MembershipAccepted, members[0]["status"])
	assert.Equal(t, models.MembershipPending, members[1]["status"])

	second := views[1]
	assert.Equal(t, uint(20), second["id"])
	require.Len(t, second["members"].([]gin.H), 1)
}

func TestGroupViews_Empty(t *testing.T) {
	assert.Empty(t, groupViews(nil))
}
