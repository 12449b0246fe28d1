package api

import (
	"net/http"

	assignmentDelivery "jobradar-backend/internal/assignment/delivery"
	authDelivery "jobradar-backend/internal/auth/delivery"
	authUsecase "jobradar-backend/internal/auth/usecase"
	catalogDelivery "jobradar-backend/internal/catalog/delivery"
	messageDelivery "jobradar-backend/internal/message/delivery"
	reportDelivery "jobradar-backend/internal/report/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	authUc authUsecase.AuthUsecase,
	authHandler *authDelivery.AuthHandler,
	catalogHandler *catalogDelivery.CatalogHandler,
	assignmentHandler *assignmentDelivery.AssignmentHandler,
	messageHandler *messageDelivery.MessageHandler,
	reportHandler *reportDelivery.ReportHandler,
) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(authDelivery.AuthMiddleware(authUc))
		{
			fcm.POST("/register", authHandler.RegisterDeviceToken)
			fcm.DELETE("/:token", authHandler.UnregisterDeviceToken)
		}

		// Group catalog routes (protected)
		groups := api.Group("/groups")
		groups.Use(authDelivery.AuthMiddleware(authUc))
		{
			groups.GET("", catalogHandler.ListGroups)
			groups.POST("", catalogHandler.AddGroups)
			groups.GET("/:id/messages", messageHandler.ListByGroup)
			groups.GET("/:id/stats", messageHandler.GroupStats)
		}

		// Assignment routes (protected)
		assignments := api.Group("/assignments")
		assignments.Use(authDelivery.AuthMiddleware(authUc))
		{
			assignments.GET("/history", assignmentHandler.GetHistory)
			assignments.GET("/snapshot/:date", assignmentHandler.GetSnapshot)
			assignments.GET("/:identity", assignmentHandler.GetAssignments)
		}

		// Report and statistics routes (protected)
		reports := api.Group("/reports")
		reports.Use(authDelivery.AuthMiddleware(authUc))
		{
			reports.GET("/latest", reportHandler.LatestReport)
			reports.GET("/ranking.csv", reportHandler.ExportRankingCSV)
			reports.GET("/:date", reportHandler.ReportByDate)
		}

		api.POST("/runs", authDelivery.AuthMiddleware(authUc), reportHandler.TriggerRun)

		stats := api.Group("/stats")
		stats.Use(authDelivery.AuthMiddleware(authUc))
		{
			stats.GET("", reportHandler.Stats)
			stats.POST("/recount", reportHandler.Recount)
		}

		// Search routes (protected)
		search := api.Group("/search")
		search.Use(authDelivery.AuthMiddleware(authUc))
		{
			search.GET("", messageHandler.FuzzySearch)
			search.POST("/semantic", messageHandler.SemanticSearch)
		}
	}
}
