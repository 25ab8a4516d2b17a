package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/parkshare/parkshare-backend/internal/models"
	"gorm.io/gorm"
)

// GetProfile returns the authenticated user's profile
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		c.JSON(200, gin.H{
			"id":          user.ID,
			"email":       user.Email,
			"name":        user.Name,
			"phoneNumber": user.PhoneNumber,
			"userType":    user.UserType,
		})
	}
}

// UpdateProfile updates name and phone number. Email and role are fixed
// after signup.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		if input.Name != "" {
			user.Name = input.Name
		}
		if input.Phone != "" {
			user.PhoneNumber = input.Phone
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		c.JSON(200, gin.H{
			"id":          user.ID,
			"email":       user.Email,
			"name":        user.Name,
			"phoneNumber": user.PhoneNumber,
			"userType":    user.UserType,
		})
	}
}

// SearchUsers finds users by name or email for the friend-search page.
func SearchUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			c.JSON(400, gin.H{"error": "Search query required"})
			return
		}

		var users []models.User
		pattern := "%" + strings.ToLower(query) + "%"
		if err := db.Where("id <> ?", userId).
			Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern).
			Limit(20).
			Find(&users).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to search users"})
			return
		}

		results := make([]gin.H, 0, len(users))
		for _, u := range users {
			results = append(results, gin.H{
				"id":    u.ID,
				"name":  u.Name,
				"email": u.Email,
			})
		}

		c.JSON(200, results)
	}
}
