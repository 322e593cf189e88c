package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Manrrolo/carpool-backend/internal/controllers"
	"github.com/Manrrolo/carpool-backend/internal/middleware"
)

func ReviewRoutes(r *gin.Engine) {
	reviews := r.Group("/reviews")
	reviews.Use(middleware.RequireAuth())
	{
		reviews.POST("", controllers.CreateReview)
		reviews.GET("/user/:userId", controllers.GetReviewsByUser)
		reviews.GET("/trip/:tripId", controllers.GetReviewsByTrip)
		reviews.GET("/:reviewId", controllers.GetReview)
		reviews.PATCH("/:reviewId", controllers.UpdateReview)
		reviews.DELETE("/:reviewId", controllers.DeleteReview)
	}
}
