package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Manrrolo/carpool-backend/internal/controllers"
	"github.com/Manrrolo/carpool-backend/internal/middleware"
)

func RequestRoutes(r *gin.Engine) {
	requests := r.Group("/requests")
	requests.Use(middleware.RequireAuth())
	{
		requests.POST("", controllers.CreateRequest)
		requests.GET("/passenger", controllers.GetRequestsForPassenger)
		requests.GET("/:requestId", controllers.GetRequest)
	}

	driver := r.Group("/requests")
	driver.Use(middleware.RequireAuthWithRole("driver"))
	{
		driver.GET("/driver", controllers.GetRequestsForDriver)
		driver.GET("/publication/:publicationId", controllers.GetRequestsForPublication)
		driver.PUT("/status/:requestId", controllers.UpdateRequestStatus)
	}
}
