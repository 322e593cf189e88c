package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Manrrolo/carpool-backend/internal/config"
	"github.com/Manrrolo/carpool-backend/internal/models"
)

type createVehicleInput struct {
	Brand        string `json:"brand" binding:"required"`
	VehicleModel string `json:"model" binding:"required"`
	LicensePlate string `json:"license_plate" binding:"required"`
}

type updateVehicleInput struct {
	Brand        *string `json:"brand"`
	VehicleModel *string `json:"model"`
	LicensePlate *string `json:"license_plate"`
}

// CreateVehicle registers a vehicle for the authenticated driver.
func CreateVehicle(c *gin.Context) {
	userID := uint(c.MustGet("user_id").(float64))

	var input createVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing data to create Vehicle."})
		return
	}

	vehicle := models.Vehicle{
		UserID:       userID,
		Brand:        input.Brand,
		VehicleModel: input.VehicleModel,
		LicensePlate: input.LicensePlate,
	}
	if err := config.DB.Create(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

// GetVehiclesForDriver lists the caller's vehicles.
func GetVehiclesForDriver(c *gin.Context) {
	userID := uint(c.MustGet("user_id").(float64))

	var vehicles []models.Vehicle
	if err := config.DB.Where("user_id = ?", userID).Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// GetVehicle retrieves a vehicle by ID.
func GetVehicle(c *gin.Context) {
	id := c.Param("vehicleId")
	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Vehicle Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// UpdateVehicle edits a vehicle; owning driver only.
func UpdateVehicle(c *gin.Context) {
	userID := uint(c.MustGet("user_id").(float64))
	id := c.Param("vehicleId")

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Vehicle Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	if vehicle.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to update this vehicle."})
		return
	}

	var input updateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if input.Brand != nil {
		vehicle.Brand = *input.Brand
	}
	if input.VehicleModel != nil {
		vehicle.VehicleModel = *input.VehicleModel
	}
	if input.LicensePlate != nil {
		vehicle.LicensePlate = *input.LicensePlate
	}

	if err := config.DB.Save(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle was updated successfully.", "vehicle": vehicle})
}

// DeleteVehicle removes a vehicle; owning driver only.
func DeleteVehicle(c *gin.Context) {
	userID := uint(c.MustGet("user_id").(float64))
	id := c.Param("vehicleId")

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Vehicle Not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}
	if vehicle.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to delete this vehicle."})
		return
	}

	if err := config.DB.Delete(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle was deleted successfully!"})
}
