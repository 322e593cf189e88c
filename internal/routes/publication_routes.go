package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Manrrolo/carpool-backend/internal/controllers"
	"github.com/Manrrolo/carpool-backend/internal/middleware"
)

func PublicationRoutes(r *gin.Engine) {
	publications := r.Group("/publications")
	publications.Use(middleware.RequireAuth())
	{
		publications.GET("", controllers.ListPublications)
		publications.GET("/:id", controllers.GetPublication)
		publications.GET("/driver/:driverId", controllers.GetPublicationsByDriver)
		publications.POST("/filtered", controllers.FilterPublications)
	}

	// Driver-only mutations are exposed as top-level verb routes
	// so the public API stays compatible with existing clients.
	driver := middleware.RequireAuthWithRole("driver")
	r.POST("/createPublication", driver, controllers.CreatePublication)
	r.PATCH("/updatePublication/:id", driver, controllers.UpdatePublication)
	r.PATCH("/cancelPublication/:id", driver, controllers.CancelPublication)
	r.DELETE("/deletePublication/:id", driver, controllers.DeletePublication)
}
