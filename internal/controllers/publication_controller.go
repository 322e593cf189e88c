package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Manrrolo/carpool-backend/internal/config"
	"github.com/Manrrolo/carpool-backend/internal/models"
)

type createPublicationInput struct {
	Origin         string    `json:"origin" binding:"required"`
	Destination    string    `json:"destination" binding:"required"`
	AvailableSeats int       `json:"available_seats" binding:"required"`
	Cost           int       `json:"cost"`
	DepartureDate  time.Time `json:"departure_date"`
}

// updatePublicationInput uses pointers so absent fields are left untouched.
type updatePublicationInput struct {
	Origin         *string    `json:"origin"`
	Destination    *string    `json:"destination"`
	AvailableSeats *int       `json:"available_seats"`
	Cost           *int       `json:"cost"`
	Status         *bool      `json:"status"`
	DepartureDate  *time.Time `json:"departure_date"`
}

type publicationFilterInput struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"` // "2006-01-02"
	EndDate     string `json:"end_date"`
}

// ListPublications returns every publication.
func ListPublications(c *gin.Context) {
	var publications []models.Publication
	if err := config.DB.Find(&publications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, publications)
}

// GetPublication retrieves a publication by ID.
func GetPublication(c *gin.Context) {
	id := c.Param("id")
	var publication models.Publication
	if err := config.DB.First(&publication, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Publication Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, publication)
}

// GetPublicationsByDriver lists the publications owned by a driver.
func GetPublicationsByDriver(c *gin.Context) {
	driverID := c.Param("driverId")
	var publications []models.Publication
	if err := config.DB.Where("driver_id = ?", driverID).Find(&publications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, publications)
}

// FilterPublications searches by origin/destination substring (case-insensitive)
// and an optional departure date range at day granularity.
func FilterPublications(c *gin.Context) {
	var filter publicationFilterInput
	if err := c.ShouldBindJSON(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	query := config.DB.Model(&models.Publication{})
	if filter.Origin != "" {
		query = query.Where("LOWER(origin) LIKE ?", "%"+strings.ToLower(filter.Origin)+"%")
	}
	if filter.Destination != "" {
		query = query.Where("LOWER(destination) LIKE ?", "%"+strings.ToLower(filter.Destination)+"%")
	}
	if filter.StartDate != "" {
		start, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid start_date, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("departure_date >= ?", start)
	}
	if filter.EndDate != "" {
		end, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid end_date, expected YYYY-MM-DD"})
			return
		}
		// inclusive of the whole end day
		query = query.Where("departure_date < ?", end.AddDate(0, 0, 1))
	}

	var publications []models.Publication
	if err := query.Find(&publications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, publications)
}

// CreatePublication registers a new ride offer for the authenticated driver and
// spawns the driver's own pending trip in the same transaction.
func CreatePublication(c *gin.Context) {
	driverID := uint(c.MustGet("user_id").(float64))

	var input createPublicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	publication := models.Publication{
		DriverID:       driverID,
		Origin:         input.Origin,
		Destination:    input.Destination,
		AvailableSeats: input.AvailableSeats,
		Cost:           input.Cost,
		Status:         true,
		DepartureDate:  input.DepartureDate,
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not start transaction"})
		return
	}

	if err := tx.Create(&publication).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	trip, err := spawnTripForParticipant(tx, publication.ID, driverID)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"publication": publication, "trip": trip})
}

// UpdatePublication applies a partial update; only the owning driver may call it.
func UpdatePublication(c *gin.Context) {
	driverID := uint(c.MustGet("user_id").(float64))
	id := c.Param("id")

	var publication models.Publication
	if err := config.DB.First(&publication, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Publication Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	if publication.DriverID != driverID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to update this publication."})
		return
	}

	var input updatePublicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if input.Origin != nil {
		publication.Origin = *input.Origin
	}
	if input.Destination != nil {
		publication.Destination = *input.Destination
	}
	if input.AvailableSeats != nil {
		publication.AvailableSeats = *input.AvailableSeats
	}
	if input.Cost != nil {
		publication.Cost = *input.Cost
	}
	if input.Status != nil {
		publication.Status = *input.Status
	}
	if input.DepartureDate != nil {
		publication.DepartureDate = *input.DepartureDate
	}
	// seat exhaustion always closes the publication
	if publication.AvailableSeats <= 0 {
		publication.Status = false
	}

	if err := config.DB.Save(&publication).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Publication was updated successfully.", "publication": publication})
}

// CancelPublication closes the publication and rejects every request on it in
// one transaction. Already spawned trips are left as they are.
func CancelPublication(c *gin.Context) {
	driverID := uint(c.MustGet("user_id").(float64))
	id := c.Param("id")

	var publication models.Publication
	if err := config.DB.First(&publication, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Publication Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	if publication.DriverID != driverID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to cancel this publication."})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not start transaction"})
		return
	}

	if err := tx.Model(&publication).Update("status", false).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if err := tx.Model(&models.Request{}).
		Where("publication_id = ?", publication.ID).
		Update("status", models.RequestStatusRejected).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Publication was cancelled successfully."})
}

// DeletePublication removes a publication; only the owning driver may call it.
func DeletePublication(c *gin.Context) {
	driverID := uint(c.MustGet("user_id").(float64))
	id := c.Param("id")

	var publication models.Publication
	if err := config.DB.First(&publication, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Publication Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	if publication.DriverID != driverID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to delete this publication."})
		return
	}

	if err := config.DB.Delete(&publication).Error; err != nil {
		logrus.WithError(err).Error("failed to delete publication")
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Publication was deleted successfully!"})
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
