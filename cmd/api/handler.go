package api

import (
	assignmentDelivery "jobradar-backend/internal/assignment/delivery"
	assignmentRepo "jobradar-backend/internal/assignment/repository"
	authDelivery "jobradar-backend/internal/auth/delivery"
	authRepo "jobradar-backend/internal/auth/repository"
	authUsecasePkg "jobradar-backend/internal/auth/usecase"
	catalogDelivery "jobradar-backend/internal/catalog/delivery"
	catalogUsecasePkg "jobradar-backend/internal/catalog/usecase"
	ingestScheduler "jobradar-backend/internal/ingest/scheduler"
	messageDelivery "jobradar-backend/internal/message/delivery"
	messageRepoPkg "jobradar-backend/internal/message/repository"
	messageUsecasePkg "jobradar-backend/internal/message/usecase"
	reportDelivery "jobradar-backend/internal/report/delivery"
	reportUsecasePkg "jobradar-backend/internal/report/usecase"
	statsUsecasePkg "jobradar-backend/internal/stats/usecase"
	"jobradar-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler owns the HTTP surface: it builds the per-feature handlers and
// serves them through gin
type Handler struct {
	authUsecase       authUsecasePkg.AuthUsecase
	authHandler       *authDelivery.AuthHandler
	catalogHandler    *catalogDelivery.CatalogHandler
	assignmentHandler *assignmentDelivery.AssignmentHandler
	messageHandler    *messageDelivery.MessageHandler
	reportHandler     *reportDelivery.ReportHandler
}

func NewHandler(
	cfg *config.Config,
	authUc authUsecasePkg.AuthUsecase,
	tokenRepo authRepo.DeviceTokenRepository,
	catalog catalogUsecasePkg.Catalog,
	assignments assignmentRepo.AssignmentRepository,
	messages messageRepoPkg.MessageRepository,
	searchUc messageUsecasePkg.SearchUsecase,
	reports *reportUsecasePkg.Store,
	aggregator statsUsecasePkg.Aggregator,
	runScheduler *ingestScheduler.DailyRunScheduler,
	log *zap.SugaredLogger,
) *Handler {
	return &Handler{
		authUsecase:       authUc,
		authHandler:       authDelivery.NewAuthHandler(authUc, tokenRepo),
		catalogHandler:    catalogDelivery.NewCatalogHandler(catalog),
		assignmentHandler: assignmentDelivery.NewAssignmentHandler(assignments),
		messageHandler:    messageDelivery.NewMessageHandler(searchUc, messages),
		reportHandler:     reportDelivery.NewReportHandler(reports, aggregator, runScheduler, int64(cfg.MinJobMessages), log),
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.authHandler, h.catalogHandler, h.assignmentHandler, h.messageHandler, h.reportHandler)

	return r.Run(addr)
}
