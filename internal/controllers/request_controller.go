package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Manrrolo/carpool-backend/internal/config"
	"github.com/Manrrolo/carpool-backend/internal/models"
)

type createRequestInput struct {
	PublicationID   uint       `json:"publication_id" binding:"required"`
	ReservationDate *time.Time `json:"reservation_date"`
}

type updateRequestStatusInput struct {
	Status models.RequestStatus `json:"status" binding:"required"`
}

// CreateRequest files a pending seat request for the authenticated passenger.
func CreateRequest(c *gin.Context) {
	passengerID := uint(c.MustGet("user_id").(float64))

	var input createRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var publication models.Publication
	if err := config.DB.First(&publication, input.PublicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Publication Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	if publication.AvailableSeats <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No available seats."})
		return
	}
	if !publication.Status {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Publication is closed."})
		return
	}

	// One request per (publication, passenger), whatever its status.
	var existing models.Request
	err := config.DB.
		Where("publication_id = ? AND passenger_id = ?", publication.ID, passengerID).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Already requested."})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	request := models.Request{
		PublicationID: publication.ID,
		PassengerID:   passengerID,
		Status:        models.RequestStatusPending,
	}
	if input.ReservationDate != nil {
		request.ReservationDate = *input.ReservationDate
	} else {
		request.ReservationDate = time.Now()
	}

	if err := config.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, request)
}

// GetRequest retrieves a request by ID.
func GetRequest(c *gin.Context) {
	id := c.Param("requestId")
	var request models.Request
	if err := config.DB.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Request Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, request)
}

// GetRequestsForPassenger lists the caller's own requests.
func GetRequestsForPassenger(c *gin.Context) {
	passengerID := uint(c.MustGet("user_id").(float64))

	var requests []models.Request
	if err := config.DB.Where("passenger_id = ?", passengerID).Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetRequestsForDriver lists every request across all of the caller's publications.
func GetRequestsForDriver(c *gin.Context) {
	driverID := uint(c.MustGet("user_id").(float64))

	var requests []models.Request
	if err := config.DB.
		Joins("Publication").
		Where("\"Publication\".driver_id = ?", driverID).
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetRequestsForPublication lists the requests on one publication with a
// passenger summary per request; only the owning driver may call it.
func GetRequestsForPublication(c *gin.Context) {
	driverID := uint(c.MustGet("user_id").(float64))
	publicationID := c.Param("publicationId")

	var publication models.Publication
	if err := config.DB.First(&publication, publicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Publication Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	if publication.DriverID != driverID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to view requests of this publication."})
		return
	}

	var requests []models.Request
	if err := config.DB.Preload("Passenger").
		Where("publication_id = ?", publication.ID).
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	summaries := make([]gin.H, 0, len(requests))
	for _, request := range requests {
		summaries = append(summaries, gin.H{
			"ID":               request.ID,
			"status":           request.Status,
			"reservation_date": request.ReservationDate,
			"passenger": gin.H{
				"ID":         request.Passenger.ID,
				"first_name": request.Passenger.FirstName,
				"last_name":  request.Passenger.LastName,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"requests":        summaries,
		"available_seats": publication.AvailableSeats,
	})
}

// UpdateRequestStatus lets the publication's driver accept or reject a request.
// Acceptance decrements the seat count with a conditional update, closes the
// publication when the last seat goes, and spawns the passenger's trip, all in
// one transaction so concurrent accepts cannot oversell.
func UpdateRequestStatus(c *gin.Context) {
	driverID := uint(c.MustGet("user_id").(float64))
	requestID := c.Param("requestId")

	var body updateRequestStatusInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var request models.Request
	if err := config.DB.Preload("Publication").First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Request Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	if request.Publication.DriverID != driverID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to update the status of this request."})
		return
	}

	// Accepted and rejected are terminal states.
	if request.Status != models.RequestStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Request already processed."})
		return
	}

	switch body.Status {
	case models.RequestStatusAccepted:
		tx := config.DB.Begin()
		if tx.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not start transaction"})
			return
		}

		// Conditional decrement: the seats > 0 guard serializes concurrent
		// accepts on the last seat.
		result := tx.Model(&models.Publication{}).
			Where("id = ? AND available_seats > 0", request.PublicationID).
			UpdateColumn("available_seats", gorm.Expr("available_seats - 1"))
		if result.Error != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"message": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"message": "No available seats."})
			return
		}

		if err := tx.Model(&models.Publication{}).
			Where("id = ? AND available_seats = 0", request.PublicationID).
			Update("status", false).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}

		// Conditional update closes the race with a concurrent accept of
		// the same request.
		statusResult := tx.Model(&models.Request{}).
			Where("id = ? AND status = ?", request.ID, models.RequestStatusPending).
			Update("status", models.RequestStatusAccepted)
		if statusResult.Error != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"message": statusResult.Error.Error()})
			return
		}
		if statusResult.RowsAffected == 0 {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"message": "Request already processed."})
			return
		}

		if _, err := spawnTripForParticipant(tx, request.PublicationID, request.PassengerID); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Request status was updated successfully."})

	case models.RequestStatusRejected:
		if err := config.DB.Model(&request).Update("status", models.RequestStatusRejected).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Request status was updated successfully."})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid status"})
	}
}
