package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Manrrolo/carpool-backend/internal/config"
	"github.com/Manrrolo/carpool-backend/internal/models"
)

var errInvalidGroupIndex = errors.New("invalid group index")

// spawnTripForParticipant creates the pending trip row for one participant of
// a publication. Publication creation (driver) and request acceptance
// (passenger) both go through here, inside their own transactions, so the side
// effect lives in exactly one place.
func spawnTripForParticipant(tx *gorm.DB, publicationID, userID uint) (models.Trip, error) {
	trip := models.Trip{
		PublicationID: publicationID,
		UserID:        userID,
		Status:        models.TripStatusPending,
	}
	if err := tx.Create(&trip).Error; err != nil {
		return models.Trip{}, err
	}
	return trip, nil
}

// CreateTrip is the defensive direct-create path. The publication's driver may
// always create their trip; a passenger needs an accepted request. Either way
// a user gets at most one trip per publication.
func CreateTrip(c *gin.Context) {
	userID := uint(c.MustGet("user_id").(float64))

	var input struct {
		PublicationID uint `json:"publication_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var existing models.Trip
	err := config.DB.
		Where("user_id = ? AND publication_id = ?", userID, input.PublicationID).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can only have one trip for publication!"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
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

	if publication.DriverID != userID {
		var request models.Request
		err := config.DB.
			Where("publication_id = ? AND passenger_id = ? AND status = ?",
				input.PublicationID, userID, models.RequestStatusAccepted).
			First(&request).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not accepted on this trip!"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
	}

	trip, err := spawnTripForParticipant(config.DB, input.PublicationID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// StartTrip moves the caller's trip to "in progress" and stamps the departure
// time. A user can have only one trip in progress at a time, system-wide; the
// check runs in the same transaction as the status write.
func StartTrip(c *gin.Context) {
	userID := uint(c.MustGet("user_id").(float64))
	tripID := c.Param("tripId")

	var trip models.Trip
	if err := config.DB.First(&trip, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Trip Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	if trip.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to update the status of this trip."})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not start transaction"})
		return
	}

	var inProgress int64
	if err := tx.Model(&models.Trip{}).
		Where("user_id = ? AND status = ?", userID, models.TripStatusInProgress).
		Count(&inProgress).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if inProgress > 0 {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"message": "Cannot make two trips at the same time."})
		return
	}

	// Guarding on the pending status keeps the lifecycle linear and makes a
	// double start lose the race.
	now := time.Now()
	result := tx.Model(&models.Trip{}).
		Where("id = ? AND status = ?", trip.ID, models.TripStatusPending).
		Updates(map[string]interface{}{
			"status":              models.TripStatusInProgress,
			"departure_date_time": now,
		})
	if result.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"message": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"message": "Trip has already been started."})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip started successfully."})
}

// CompleteTrip moves the caller's in-progress trip to "completed" and stamps
// the arrival time.
func CompleteTrip(c *gin.Context) {
	userID := uint(c.MustGet("user_id").(float64))
	tripID := c.Param("tripId")

	var trip models.Trip
	if err := config.DB.First(&trip, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Trip Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	if trip.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to update the status of this trip."})
		return
	}
	if trip.Status != models.TripStatusInProgress {
		c.JSON(http.StatusForbidden, gin.H{"message": "You cannot complete a trip that has not been started."})
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.Trip{}).
		Where("id = ? AND status = ?", trip.ID, models.TripStatusInProgress).
		Updates(map[string]interface{}{
			"status":            models.TripStatusCompleted,
			"arrival_date_time": now,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusForbidden, gin.H{"message": "You cannot complete a trip that has not been started."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip was completed successfully."})
}

// GetTrip retrieves a trip by ID.
func GetTrip(c *gin.Context) {
	id := c.Param("tripId")
	var trip models.Trip
	if err := config.DB.First(&trip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Trip Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, trip)
}

// GetTripInfo assembles route, status, driver and co-participants for a trip.
// Only the driver and participants who made it to "in progress" may look.
func GetTripInfo(c *gin.Context) {
	callerID := uint(c.MustGet("user_id").(float64))
	tripID := c.Param("tripId")

	var trip models.Trip
	if err := config.DB.Preload("Publication").First(&trip, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Trip Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	publication := trip.Publication

	var passengerTrips []models.Trip
	if err := config.DB.Preload("User").
		Where("publication_id = ? AND user_id <> ? AND status IN ?",
			publication.ID, publication.DriverID,
			[]models.TripStatus{models.TripStatusInProgress, models.TripStatusCompleted}).
		Find(&passengerTrips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	authorized := callerID == publication.DriverID || callerID == trip.UserID
	for _, pt := range passengerTrips {
		if pt.UserID == callerID {
			authorized = true
		}
	}
	if !authorized {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to view this trip."})
		return
	}

	var driver models.User
	if err := config.DB.First(&driver, publication.DriverID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	passengers := make([]gin.H, 0, len(passengerTrips))
	for _, pt := range passengerTrips {
		passengers = append(passengers, gin.H{
			"first_name": pt.User.FirstName,
			"last_name":  pt.User.LastName,
			"status":     pt.Status,
			"is_caller":  pt.UserID == callerID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"origin":              publication.Origin,
		"destination":         publication.Destination,
		"departure_date_time": trip.DepartureDateTime,
		"status_trip":         trip.Status,
		"driver": gin.H{
			"first_name": driver.FirstName,
			"last_name":  driver.LastName,
			"is_caller":  driver.ID == callerID,
		},
		"passengers": passengers,
	})
}

// GetTripsForDriver lists the caller's own trips on publications they drive.
func GetTripsForDriver(c *gin.Context) {
	driverID := uint(c.MustGet("user_id").(float64))

	var trips []models.Trip
	if err := config.DB.
		Joins("Publication").
		Where("trips.user_id = ? AND \"Publication\".driver_id = ?", driverID, driverID).
		Find(&trips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GetTripsForPassenger lists the caller's trips on publications driven by
// someone else.
func GetTripsForPassenger(c *gin.Context) {
	passengerID := uint(c.MustGet("user_id").(float64))

	var trips []models.Trip
	if err := config.DB.
		Joins("Publication").
		Where("trips.user_id = ? AND \"Publication\".driver_id <> ?", passengerID, passengerID).
		Find(&trips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GetTripsForPublication lists every trip on a publication, driver only.
func GetTripsForPublication(c *gin.Context) {
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
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to view trips of this publication!."})
		return
	}

	var trips []models.Trip
	if err := config.DB.Where("publication_id = ?", publication.ID).Find(&trips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GetDriverTripOfPublication returns the driver's own trip row for a
// publication they drive.
func GetDriverTripOfPublication(c *gin.Context) {
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
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to view this trip!."})
		return
	}

	var trip models.Trip
	if err := config.DB.
		Where("publication_id = ? AND user_id = ?", publication.ID, driverID).
		First(&trip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Trip Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, trip)
}

// GetInProgressTripForUser returns the caller's in-progress trip id, or an
// empty list when there is none.
func GetInProgressTripForUser(c *gin.Context) {
	userID := uint(c.MustGet("user_id").(float64))

	var trip models.Trip
	err := config.DB.
		Where("user_id = ? AND status = ?", userID, models.TripStatusInProgress).
		First(&trip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": trip.ID})
}

// GetCompletedTripsForUser lists the caller's completed trips joined with the
// publication route and the participant's name.
func GetCompletedTripsForUser(c *gin.Context) {
	userID := uint(c.MustGet("user_id").(float64))

	var trips []models.Trip
	if err := config.DB.Preload("Publication").Preload("User").
		Where("user_id = ? AND status = ?", userID, models.TripStatusCompleted).
		Find(&trips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	infos := make([]gin.H, 0, len(trips))
	for _, trip := range trips {
		infos = append(infos, gin.H{
			"trip_id":             trip.ID,
			"origin":              trip.Publication.Origin,
			"destination":         trip.Publication.Destination,
			"departure_date_time": trip.Publication.DepartureDate,
			"status_trip":         trip.Status,
			"user": gin.H{
				"first_name": trip.User.FirstName,
				"last_name":  trip.User.LastName,
			},
		})
	}
	c.JSON(http.StatusOK, infos)
}

// participantByGroupIndex resolves the user at position groupIndex in a trip's
// roster: the driver first, then each passenger whose trip reached
// "in progress" or "completed", in retrieval order. This lets clients address
// "the 2nd person in this trip" without knowing raw user ids.
func participantByGroupIndex(tripID uint, groupIndex int) (uint, error) {
	var trip models.Trip
	if err := config.DB.Preload("Publication").First(&trip, tripID).Error; err != nil {
		return 0, err
	}

	var passengerTrips []models.Trip
	if err := config.DB.
		Where("publication_id = ? AND user_id <> ? AND status IN ?",
			trip.PublicationID, trip.Publication.DriverID,
			[]models.TripStatus{models.TripStatusInProgress, models.TripStatusCompleted}).
		Find(&passengerTrips).Error; err != nil {
		return 0, err
	}

	roster := make([]uint, 0, len(passengerTrips)+1)
	roster = append(roster, trip.Publication.DriverID)
	for _, pt := range passengerTrips {
		roster = append(roster, pt.UserID)
	}

	if groupIndex < 0 || groupIndex >= len(roster) {
		return 0, errInvalidGroupIndex
	}
	return roster[groupIndex], nil
}

// GetUserProfileByGroupIndex returns the profile, reviews and average rating of
// the participant at a group index of a trip.
func GetUserProfileByGroupIndex(c *gin.Context) {
	tripID, ok := parseIDParam(c, "tripId")
	if !ok {
		return
	}
	groupIndex, err := strconv.Atoi(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid groupId"})
		return
	}

	userID, err := participantByGroupIndex(tripID, groupIndex)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Trip Not found."})
		} else if errors.Is(err, errInvalidGroupIndex) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid groupId"})
		} else {
			logrus.WithError(err).Error("failed to resolve trip participant")
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User Not found."})
		return
	}

	var reviews []models.Review
	if err := config.DB.Where("user_id = ?", userID).Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	average, err := averageRatingForUser(userID)
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
