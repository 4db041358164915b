package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/boardstack/backend/internal/config"
	"github.com/boardstack/backend/internal/database"
	"github.com/boardstack/backend/internal/handlers"
	"github.com/boardstack/backend/internal/middleware"
	"github.com/boardstack/backend/internal/services"
	"github.com/boardstack/backend/internal/storage"
	"github.com/boardstack/backend/pkg/logger"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func main() {
	logger.Init()
	cfg := config.Load()

	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	bigEvents, err := cfg.Notify.CompileBigEventsPattern()
	if err != nil {
		logger.Error("bigevents_pattern_invalid", err, map[string]interface{}{
			"pattern": cfg.Notify.BigEventsPattern,
		})
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DB)
	if err != nil {
		logger.Error("database_connect_failed", err, nil)
		os.Exit(1)
	}

	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		logger.Error("minio_connect_failed", err, nil)
		os.Exit(1)
	}
	if err := minioClient.EnsureBucket(context.Background()); err != nil {
		logger.Error("minio_bucket_failed", err, map[string]interface{}{
			"bucket": cfg.MinIO.Bucket,
		})
		os.Exit(1)
	}

	activities := services.NewActivityService(db)
	activities.Subscribe(services.NewRuleSubscriber(services.LoggingRuleEngine{}))
	activities.Subscribe(services.NewFanoutEngine(
		db,
		activities,
		services.NewPersistentNotificationSink(db),
		services.NewWebhookDispatcher(cfg.Webhook.Timeout),
		bigEvents,
		cfg.Server.BaseURL,
	))
	notifications := services.NewNotificationService(db)

	app := fiber.New(fiber.Config{
		AppName:   "boardstack",
		BodyLimit: 60 << 20,
	})
	app.Use(recover.New())
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	registerRoutes(app, db, minioClient, activities, notifications)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("server_shutting_down", nil)
		_ = app.Shutdown()
	}()

	logger.Info("server_starting", map[string]interface{}{
		"port":     cfg.Server.Port,
		"base_url": cfg.Server.BaseURL,
	})
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.Error("server_stopped", err, nil)
		os.Exit(1)
	}
}

func registerRoutes(app *fiber.App, db *gorm.DB, store *storage.MinIOClient, activities *services.ActivityService, notifications *services.NotificationService) {
	authMW := middleware.NewAuthMiddleware(db)

	authHandler := handlers.NewAuthHandler(db)
	userHandler := handlers.NewUserHandler(db)
	boardHandler := handlers.NewBoardHandler(db, activities)
	listHandler := handlers.NewListHandler(db, activities)
	swimlaneHandler := handlers.NewSwimlaneHandler(db, activities)
	cardHandler := handlers.NewCardHandler(db, activities)
	commentHandler := handlers.NewCommentHandler(db, activities)
	attachmentHandler := handlers.NewAttachmentHandler(db, store, activities)
	checklistHandler := handlers.NewChecklistHandler(db, activities)
	customFieldHandler := handlers.NewCustomFieldHandler(db)
	activityHandler := handlers.NewActivityHandler(db, activities)
	notificationHandler := handlers.NewNotificationHandler(notifications)
	integrationHandler := handlers.NewIntegrationHandler(db)

	app.Get("/health", func(c *fiber.Ctx) error {
		return utils.Success(c, fiber.StatusOK, fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", authMW.RequireAuth, authHandler.Me)

	protected := api.Group("", authMW.RequireAuth)

	protected.Get("/users/search", userHandler.Search)

	protected.Post("/boards", boardHandler.Create)
	protected.Get("/boards", boardHandler.List)
	protected.Get("/boards/:boardID", boardHandler.Get)
	protected.Put("/boards/:boardID", boardHandler.Update)
	protected.Post("/boards/:boardID/members", boardHandler.AddMember)
	protected.Delete("/boards/:boardID/members/:userID", boardHandler.RemoveMember)
	protected.Put("/boards/:boardID/watch", boardHandler.SetWatchLevel)
	protected.Post("/boards/:boardID/labels", boardHandler.CreateLabel)

	protected.Post("/boards/:boardID/lists", listHandler.Create)
	protected.Get("/boards/:boardID/lists", listHandler.ListForBoard)
	protected.Post("/boards/:boardID/lists/:listID/archive", listHandler.Archive)
	protected.Put("/boards/:boardID/lists/:listID/watch", listHandler.Watch)

	protected.Post("/boards/:boardID/swimlanes", swimlaneHandler.Create)
	protected.Get("/boards/:boardID/swimlanes", swimlaneHandler.ListForBoard)
	protected.Put("/boards/:boardID/swimlanes/:swimlaneID/watch", swimlaneHandler.Watch)

	protected.Post("/boards/:boardID/cards", cardHandler.Create)
	protected.Get("/boards/:boardID/cards", cardHandler.ListForBoard)

	protected.Post("/boards/:boardID/custom-fields", customFieldHandler.Create)
	protected.Get("/boards/:boardID/custom-fields", customFieldHandler.ListForBoard)
	protected.Delete("/boards/:boardID/custom-fields/:fieldID", customFieldHandler.Delete)

	protected.Get("/boards/:boardID/activities", activityHandler.ListForBoard)
	protected.Get("/boards/:boardID/integrations", integrationHandler.ListForBoard)

	protected.Get("/cards/:cardID", cardHandler.Get)
	protected.Put("/cards/:cardID", cardHandler.Update)
	protected.Post("/cards/:cardID/move", cardHandler.Move)
	protected.Post("/cards/:cardID/move-board", cardHandler.MoveToBoard)
	protected.Post("/cards/:cardID/archive", cardHandler.Archive)
	protected.Post("/cards/:cardID/restore", cardHandler.Restore)
	protected.Put("/cards/:cardID/watch", cardHandler.Watch)
	protected.Post("/cards/:cardID/members", cardHandler.AddMember)
	protected.Delete("/cards/:cardID/members/:userID", cardHandler.RemoveMember)
	protected.Post("/cards/:cardID/assignees", cardHandler.AddAssignee)
	protected.Delete("/cards/:cardID/assignees/:userID", cardHandler.RemoveAssignee)
	protected.Post("/cards/:cardID/labels", cardHandler.AddLabel)
	protected.Delete("/cards/:cardID/labels/:labelID", cardHandler.RemoveLabel)
	protected.Put("/cards/:cardID/custom-fields/:fieldID", cardHandler.SetCustomField)
	protected.Delete("/cards/:cardID/custom-fields/:fieldID", cardHandler.UnsetCustomField)

	protected.Post("/cards/:cardID/comments", commentHandler.Create)
	protected.Get("/cards/:cardID/comments", commentHandler.ListForCard)
	protected.Delete("/cards/:cardID/comments/:commentID", commentHandler.Delete)

	protected.Post("/cards/:cardID/attachments", attachmentHandler.Upload)
	protected.Get("/cards/:cardID/attachments", attachmentHandler.ListForCard)
	protected.Get("/cards/:cardID/attachments/:attachmentID/download", attachmentHandler.Download)
	protected.Delete("/cards/:cardID/attachments/:attachmentID", attachmentHandler.Delete)

	protected.Post("/cards/:cardID/checklists", checklistHandler.Create)
	protected.Get("/cards/:cardID/checklists", checklistHandler.ListForCard)
	protected.Post("/cards/:cardID/checklists/:checklistID/items", checklistHandler.AddItem)
	protected.Put("/cards/:cardID/checklist-items/:itemID", checklistHandler.ToggleItem)

	protected.Get("/cards/:cardID/activities", activityHandler.ListForCard)

	protected.Get("/notifications", notificationHandler.List)
	protected.Get("/notifications/unread-count", notificationHandler.UnreadCount)
	protected.Put("/notifications/read-all", notificationHandler.MarkAllRead)
	protected.Put("/notifications/:notificationID/read", notificationHandler.MarkRead)

	protected.Post("/integrations", integrationHandler.Create)
	protected.Get("/integrations/global", middleware.AdminOnly, integrationHandler.ListGlobal)
	protected.Put("/integrations/:integrationID", integrationHandler.Update)
	protected.Delete("/integrations/:integrationID", integrationHandler.Delete)
}
