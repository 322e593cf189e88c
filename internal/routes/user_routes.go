package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Manrrolo/carpool-backend/internal/controllers"
	"github.com/Manrrolo/carpool-backend/internal/middleware"
)

func UserRoutes(r *gin.Engine) {
	users := r.Group("/users")
	users.Use(middleware.RequireAuth())
	{
		users.GET("/profile/:userId", controllers.GetProfile)
		users.GET("/:driverId/publications", controllers.GetPublicationsByDriver)
	}
}
