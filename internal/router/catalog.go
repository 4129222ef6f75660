package router

import "github.com/gin-gonic/gin"

func (r *Router) productRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", r.productHandler.GetAll)
		products.GET("/:id", r.productHandler.GetByID)

		admin := products.Group("")
		admin.Use(r.jwtMw.RequireAuth(), r.jwtMw.RequireAdmin())
		{
			admin.POST("", r.productHandler.Create)
			admin.PUT("/:id", r.productHandler.Update)
			admin.PATCH("/:id", r.productHandler.Update)
			admin.DELETE("/:id", r.productHandler.Delete)
		}
	}
}

func (r *Router) ratingRoutes(rg *gin.RouterGroup) {
	rating := rg.Group("/rating")
	{
		rating.GET("", r.ratingHandler.GetAll)
		rating.GET("/:id", r.ratingHandler.GetByID)

		protected := rating.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.POST("", r.ratingHandler.Upsert)
			protected.DELETE("/:id", r.ratingHandler.Deactivate)
		}
	}
}

func (r *Router) feedbackRoutes(rg *gin.RouterGroup) {
	feedback := rg.Group("/feedback")
	{
		feedback.GET("", r.feedbackHandler.GetByProduct)

		protected := feedback.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.POST("", r.feedbackHandler.Create)
			protected.DELETE("/:id", r.feedbackHandler.Delete)
		}
	}
}

func (r *Router) reviewRoutes(rg *gin.RouterGroup) {
	reviews := rg.Group("/product_review")
	{
		reviews.GET("", r.reviewHandler.GetAll)
		reviews.GET("/:id", r.reviewHandler.GetByID)
	}
}
