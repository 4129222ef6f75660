package router

import (
	"time"

	"github.com/Payphone-Digital/review-platform/config"
	"github.com/Payphone-Digital/review-platform/internal/handler"
	"github.com/Payphone-Digital/review-platform/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler     *handler.AuthHandler
	userHandler     *handler.UserHandler
	productHandler  *handler.ProductHandler
	ratingHandler   *handler.RatingHandler
	feedbackHandler *handler.FeedbackHandler
	reviewHandler   *handler.ReviewHandler
	healthHandler   *handler.HealthHandler
	cacheHandler    *handler.CacheHandler

	jwtMw  *middleware.JWTMiddleware
	Config *config.Config
}

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Product  *handler.ProductHandler
	Rating   *handler.RatingHandler
	Feedback *handler.FeedbackHandler
	Review   *handler.ReviewHandler
	Health   *handler.HealthHandler
	Cache    *handler.CacheHandler
}

func NewRouter(h Handlers, jwtMw *middleware.JWTMiddleware, config *config.Config) *Router {
	return &Router{
		authHandler:     h.Auth,
		userHandler:     h.User,
		productHandler:  h.Product,
		ratingHandler:   h.Rating,
		feedbackHandler: h.Feedback,
		reviewHandler:   h.Review,
		healthHandler:   h.Health,
		cacheHandler:    h.Cache,

		jwtMw:  jwtMw,
		Config: config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityLoggingMiddleware())
	router.Use(middleware.CORS(r.Config.App.CORSOrigins))
	router.Use(middleware.ContextMiddleware(r.Config.App.Timeout))
	router.Use(middleware.RequestTimeoutMiddleware())

	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/health", r.healthHandler.HealthCheck)

			if r.Config.RateLimit.Request > 0 {
				v1.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))
			}

			r.authRoutes(v1)
			r.userRoutes(v1)
			r.productRoutes(v1)
			r.ratingRoutes(v1)
			r.feedbackRoutes(v1)
			r.reviewRoutes(v1)
			r.cacheRoutes(v1)
		}
	}

	return router
}

// cacheRoutes defines cache management routes
func (r *Router) cacheRoutes(rg *gin.RouterGroup) {
	cache := rg.Group("/cache")
	cache.Use(r.jwtMw.RequireAuth(), r.jwtMw.RequireAdmin())
	{
		cache.DELETE("/reviews", r.cacheHandler.ClearReviews)
	}
}
