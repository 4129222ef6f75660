package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/token", r.authHandler.Login)
		auth.POST("/refresh", r.authHandler.Refresh)
		auth.POST("/refresh-token/rotate", r.authHandler.RotateRefreshToken)

		protected := auth.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.GET("/me", r.authHandler.Me)
			protected.POST("/logout", r.authHandler.Logout)
		}
	}
}
