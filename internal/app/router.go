package app

import (
	"simpledrill_backend/docs"
	"simpledrill_backend/internal/config"
	"simpledrill_backend/internal/middleware"
	"simpledrill_backend/internal/model"
	"simpledrill_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes.
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// Routes for logged-in visitors.
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, s.auth))
	{
		authGroup.POST("/logout", c.auth.Logout)
		authGroup.GET("/profile", c.auth.GetProfile)

		authGroup.GET("/test/summary", c.test.GetProgressSummary)
		authGroup.GET("/test/step", c.test.GetCurrentStep)
		authGroup.POST("/test/answer", c.test.SubmitAnswer)

		authGroup.POST("/drill/topic", c.drill.SelectTopic)
		authGroup.GET("/drill/challenge", c.drill.GetChallenge)
		authGroup.POST("/drill/next", c.drill.NextChallenge)
		authGroup.POST("/drill/answer", c.drill.SubmitAnswer)
		authGroup.GET("/drill/countdown", c.drill.GetCountdown)
	}

	// Staff routes.
	staffGroup := router.Group("/api")
	staffGroup.Use(middleware.AuthMiddleware(cfg, s.auth), middleware.RoleMiddleware(model.Staff))
	{
		staffGroup.POST("/invites", c.invite.AddInvite)
		staffGroup.GET("/invites", c.invite.ListInvites)
		staffGroup.POST("/admin/fixtures", c.content.ImportFixture)
	}
}
