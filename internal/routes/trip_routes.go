package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Manrrolo/carpool-backend/internal/controllers"
	"github.com/Manrrolo/carpool-backend/internal/middleware"
)

func TripRoutes(r *gin.Engine) {
	trips := r.Group("/trips")
	trips.Use(middleware.RequireAuth())
	{
		trips.POST("", controllers.CreateTrip)
		trips.PUT("/start/:tripId", controllers.StartTrip)
		trips.PUT("/complete/:tripId", controllers.CompleteTrip)

		trips.GET("/passenger", controllers.GetTripsForPassenger)
		trips.GET("/inprogress", controllers.GetInProgressTripForUser)
		trips.GET("/completed", controllers.GetCompletedTripsForUser)
		trips.GET("/:tripId", controllers.GetTrip)
		trips.GET("/:tripId/info", controllers.GetTripInfo)
		trips.GET("/:tripId/group/:groupId", controllers.GetUserProfileByGroupIndex)
	}

	driver := r.Group("/trips")
	driver.Use(middleware.RequireAuthWithRole("driver"))
	{
		driver.GET("/driver", controllers.GetTripsForDriver)
		driver.GET("/publication/:publicationId", controllers.GetTripsForPublication)
		driver.GET("/publication/:publicationId/driver", controllers.GetDriverTripOfPublication)
	}
}
