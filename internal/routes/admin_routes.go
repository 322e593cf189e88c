package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Manrrolo/carpool-backend/internal/controllers"
	"github.com/Manrrolo/carpool-backend/internal/middleware"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.GET("/users", controllers.ListUsers)
		admin.PATCH("/users/:userId/role", controllers.UpdateUserRole)
		admin.GET("/publications", controllers.ListPublications)
	}
}
