package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"

	api "jobradar-backend/cmd/api"
	assignmentdomain "jobradar-backend/internal/assignment/domain"
	assignmentRepo "jobradar-backend/internal/assignment/repository"
	assignmentUsecase "jobradar-backend/internal/assignment/usecase"
	authdomain "jobradar-backend/internal/auth/domain"
	authRepo "jobradar-backend/internal/auth/repository"
	authUsecase "jobradar-backend/internal/auth/usecase"
	catalogdomain "jobradar-backend/internal/catalog/domain"
	catalogRepo "jobradar-backend/internal/catalog/repository"
	catalogUsecase "jobradar-backend/internal/catalog/usecase"
	"jobradar-backend/internal/classifier"
	ingestScheduler "jobradar-backend/internal/ingest/scheduler"
	ingestUsecase "jobradar-backend/internal/ingest/usecase"
	messagedomain "jobradar-backend/internal/message/domain"
	messageRepo "jobradar-backend/internal/message/repository"
	messageUsecase "jobradar-backend/internal/message/usecase"
	"jobradar-backend/internal/notification"
	reportUsecase "jobradar-backend/internal/report/usecase"
	statsUsecase "jobradar-backend/internal/stats/usecase"
	"jobradar-backend/pkg/chroma"
	"jobradar-backend/pkg/config"
	"jobradar-backend/pkg/database"
	"jobradar-backend/pkg/fcm"
	"jobradar-backend/pkg/logger"
	"jobradar-backend/pkg/telegram"
)

// telegramSource adapts the Telegram service to the ingest MessageSource
// contract
type telegramSource struct {
	svc *telegram.Service
}

func (s *telegramSource) FetchRecent(ctx context.Context, identity string, group *catalogdomain.Group, limit int) ([]ingestUsecase.RawMessage, error) {
	chat := telegram.ChatUsernameFromLink(group.Link)
	messages, err := s.svc.Recent(chat, limit)
	if err != nil {
		if errors.Is(err, telegram.ErrForbidden) {
			return nil, ingestUsecase.ErrAccessDenied
		}
		return nil, ingestUsecase.ErrSourceUnavailable
	}

	raw := make([]ingestUsecase.RawMessage, 0, len(messages))
	for _, m := range messages {
		raw = append(raw, ingestUsecase.RawMessage{
			ID:        group.ID + ":" + strconv.Itoa(m.ID),
			Sender:    m.Sender,
			Text:      m.Text,
			Timestamp: m.Time,
		})
	}
	return raw, nil
}

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatalw("failed to connect to database", "error", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&catalogdomain.Group{},
		&assignmentdomain.Assignment{},
		&assignmentdomain.HistoryEntry{},
		&messagedomain.Message{},
		&messagedomain.JobScore{},
		&messagedomain.GroupStats{},
		&authdomain.DeviceToken{},
	); err != nil {
		zlog.Fatalw("failed to migrate database", "error", err)
	}

	// Initialize repositories (dependency injection)
	groupRepository := catalogRepo.NewGormGroupRepository(db)
	assignmentRepository, err := assignmentRepo.NewGormAssignmentRepository(db)
	if err != nil {
		zlog.Fatalw("failed to initialize assignment store", "error", err)
	}
	messageRepository := messageRepo.NewGormMessageRepository(db)
	deviceTokenRepository := authRepo.NewDeviceTokenRepository(db)

	// Initialize catalog and load the seed file on first boot
	catalog := catalogUsecase.NewCatalogUsecase(groupRepository, cfg.GroupsFile, zlog)
	if err := catalog.EnsureSeeded(context.Background()); err != nil {
		zlog.Fatalw("failed to seed group catalog", "error", err)
	}

	// Core pipeline pieces
	cls := classifier.New(classifier.DefaultLexicon(), cfg.ClassifierNormalization)
	aggregator := statsUsecase.NewAggregator(messageRepository, zlog)
	allocScheduler := assignmentUsecase.NewScheduler(catalog, assignmentRepository, cfg.Accounts, cfg.DailyJoinLimit, cfg.AssignmentMode, zlog)

	// Telegram message source
	var source ingestUsecase.MessageSource
	if cfg.TelegramBotToken != "" {
		tgService, err := telegram.NewService(cfg.TelegramBotToken, 0)
		if err != nil {
			zlog.Fatalw("failed to initialize telegram service", "error", err)
		}
		tgService.Start()
		source = &telegramSource{svc: tgService}
	} else {
		zlog.Warn("TELEGRAM_BOT_TOKEN not set, message ingestion disabled")
		source = noSource{}
	}

	// Chroma vector store (optional, semantic search and embeddings)
	var embedder ingestUsecase.Embedder
	var vectorSvc messageUsecase.VectorSearchService
	if cfg.ChromaAPIKey != "" {
		chromaClient, err := chroma.NewClient(chroma.Options{
			APIKey:       cfg.ChromaAPIKey,
			Tenant:       cfg.ChromaTenant,
			Database:     cfg.ChromaDatabase,
			GeminiAPIKey: cfg.GeminiAPIKey,
		})
		if err != nil {
			zlog.Warnw("failed to initialize chroma client, semantic search disabled", "error", err)
		} else {
			vectorSvc = chromaClient
			embedWorker := messageUsecase.NewEmbedWorkerService(chromaClient, 3, zlog)
			embedWorker.Start()
			defer embedWorker.Stop()
			embedder = embedWorker
		}
	} else {
		zlog.Info("CHROMA_API_KEY not set, semantic search disabled")
	}

	runner := ingestUsecase.NewRunner(allocScheduler, source, cls, aggregator, assignmentRepository, embedder, cfg.MessagesPerGroup, cfg.MinJobMessages, zlog)
	reports := reportUsecase.NewStore(0)

	// FCM push notifications (optional)
	var notifier ingestScheduler.Notifier
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(cfg.FirebaseCredentials, zlog)
		if err != nil {
			zlog.Warnw("failed to initialize FCM client, push notifications disabled", "error", err)
		} else {
			notifier = notification.NewReportNotifier(fcmClient, deviceTokenRepository, zlog)
		}
	}

	// Pub/Sub group discovery feed (optional)
	if cfg.GoogleProjectID != "" {
		subscriber, err := notification.NewDiscoverySubscriber(cfg.GoogleProjectID, cfg.DiscoverySubscription, cfg.FirebaseCredentials, catalog, zlog)
		if err != nil {
			zlog.Warnw("failed to initialize discovery subscriber", "error", err)
		} else {
			go subscriber.Start(context.Background())
		}
	}

	// Daily run loop
	runScheduler := ingestScheduler.NewDailyRunScheduler(runner, reports, notifier, cfg.RunInterval, zlog)
	runScheduler.Start(context.Background())
	defer runScheduler.Stop()

	// Initialize use cases and the HTTP surface
	authUc := authUsecase.NewAuthUsecase(cfg)
	searchUc := messageUsecase.NewSearchUsecase(messageRepository, vectorSvc)
	handler := api.NewHandler(cfg, authUc, deviceTokenRepository, catalog, assignmentRepository, messageRepository, searchUc, reports, aggregator, runScheduler, zlog)

	zlog.Infow("server starting", "port", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		zlog.Fatalw("failed to start server", "error", err)
	}
}

// noSource stands in when no platform credentials are configured; every
// fetch reports the source as unavailable
type noSource struct{}

func (noSource) FetchRecent(ctx context.Context, identity string, group *catalogdomain.Group, limit int) ([]ingestUsecase.RawMessage, error) {
	return nil, ingestUsecase.ErrSourceUnavailable
}
