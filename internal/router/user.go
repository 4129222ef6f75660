package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(r.jwtMw.RequireAuth())
	{
		users.GET("", r.userHandler.GetAll)
		users.GET("/:id", r.userHandler.GetByID)
		users.DELETE("/:id", r.jwtMw.RequireAdmin(), r.userHandler.Delete)
	}
}
