package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Manrrolo/carpool-backend/internal/config"
	"github.com/Manrrolo/carpool-backend/internal/models"
)

// createReviewInput covers both forms: user_id names the reviewed person
// directly; group_id addresses them by position in the trip roster.
type createReviewInput struct {
	TripID  uint   `json:"trip_id"`
	UserID  *uint  `json:"user_id"`
	GroupID *int   `json:"group_id"`
	Rating  *int   `json:"rating"`
	Comment string `json:"comment"`
}

type updateReviewInput struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// CreateReview records a rating about a trip participant. The caller is the
// author; UserID on the stored row is the reviewed person.
func CreateReview(c *gin.Context) {
	reviewerID := uint(c.MustGet("user_id").(float64))

	var input createReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if input.TripID == 0 || input.Rating == nil || input.Comment == "" ||
		(input.UserID == nil && input.GroupID == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing data to create review."})
		return
	}
	if *input.Rating < 1 || *input.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Rating must be between 1 and 5."})
		return
	}

	var trip models.Trip
	if err := config.DB.First(&trip, input.TripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Trip Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	var reviewedID uint
	if input.UserID != nil {
		reviewedID = *input.UserID
	} else {
		resolved, err := participantByGroupIndex(input.TripID, *input.GroupID)
		if err != nil {
			if errors.Is(err, errInvalidGroupIndex) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid groupId"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			}
			return
		}
		reviewedID = resolved
	}

	review := models.Review{
		ReviewerID: reviewerID,
		UserID:     reviewedID,
		TripID:     input.TripID,
		Rating:     *input.Rating,
		Comment:    input.Comment,
		ReviewDate: time.Now(),
	}
	if err := config.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, review)
}

// GetReviewsByUser lists the reviews about a user.
func GetReviewsByUser(c *gin.Context) {
	userID := c.Param("userId")
	var reviews []models.Review
	if err := config.DB.Where("user_id = ?", userID).Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GetReviewsByTrip lists the reviews attached to a trip.
func GetReviewsByTrip(c *gin.Context) {
	tripID := c.Param("tripId")
	var reviews []models.Review
	if err := config.DB.Where("trip_id = ?", tripID).Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GetReview retrieves a review by ID.
func GetReview(c *gin.Context) {
	id := c.Param("reviewId")
	var review models.Review
	if err := config.DB.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Review Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, review)
}

// UpdateReview edits a review; author only.
func UpdateReview(c *gin.Context) {
	callerID := uint(c.MustGet("user_id").(float64))
	id := c.Param("reviewId")

	var review models.Review
	if err := config.DB.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Review Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	if review.ReviewerID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to update this review."})
		return
	}

	var input updateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Rating must be between 1 and 5."})
			return
		}
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		review.Comment = *input.Comment
	}

	if err := config.DB.Save(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review was updated successfully."})
}

// DeleteReview removes a review; author only.
func DeleteReview(c *gin.Context) {
	callerID := uint(c.MustGet("user_id").(float64))
	id := c.Param("reviewId")

	var review models.Review
	if err := config.DB.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Review Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	if review.ReviewerID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to delete this review."})
		return
	}

	if err := config.DB.Delete(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review was deleted successfully!"})
}

// averageRatingForUser is the mean rating of the reviews about a user, nil
// when they have none.
func averageRatingForUser(userID uint) (*float64, error) {
	var avg sql.NullFloat64
	err := config.DB.Model(&models.Review{}).
		Where("user_id = ?", userID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
