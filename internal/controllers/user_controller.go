package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Manrrolo/carpool-backend/internal/config"
	"github.com/Manrrolo/carpool-backend/internal/models"
)

// GetProfile returns a user together with the reviews about them and their
// average rating.
func GetProfile(c *gin.Context) {
	userID := c.Param("userId")

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	var reviews []models.Review
	if err := config.DB.Where("user_id = ?", user.ID).Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	average, err := averageRatingForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":           prepareUserResponse(user),
		"reviews":        reviews,
		"average_rating": average,
	})
}

type updateRoleInput struct {
	Role          string  `json:"role" binding:"required"`
	LicenseNumber *string `json:"license_number"`
}

// UpdateUserRole changes a user's role; admin only. Upgrading a passenger to
// driver records their license number.
func UpdateUserRole(c *gin.Context) {
	userID := c.Param("userId")

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	var input updateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	switch input.Role {
	case "passenger", "driver", "admin":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid role"})
		return
	}

	user.Role = input.Role
	if input.LicenseNumber != nil {
		user.LicenseNumber = *input.LicenseNumber
	}

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role was updated successfully.", "user": prepareUserResponse(user)})
}

// ListUsers returns every user; admin only.
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	profiles := make([]gin.H, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, prepareUserResponse(user))
	}
	c.JSON(http.StatusOK, gin.H{"data": profiles})
}
