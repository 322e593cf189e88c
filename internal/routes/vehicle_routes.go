package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Manrrolo/carpool-backend/internal/controllers"
	"github.com/Manrrolo/carpool-backend/internal/middleware"
)

func VehicleRoutes(r *gin.Engine) {
	driver := r.Group("/vehicles")
	driver.Use(middleware.RequireAuthWithRole("driver"))
	{
		driver.GET("", controllers.GetVehiclesForDriver)
		driver.POST("", controllers.CreateVehicle)
		driver.PATCH("/:vehicleId", controllers.UpdateVehicle)
		driver.DELETE("/:vehicleId", controllers.DeleteVehicle)
	}

	// public lookup, no auth required
	r.GET("/vehicles/:vehicleId", controllers.GetVehicle)
}
