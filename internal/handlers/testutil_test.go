package handlers

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/boardstack/backend/internal/database"
	"github.com/boardstack/backend/internal/middleware"
	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/internal/services"
	"github.com/boardstack/backend/pkg/logger"
	"github.com/boardstack/backend/pkg/utils"
	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

type recordedWebhook struct {
	integration models.Integration
	description string
	params      map[string]interface{}
}

type stubWebhookSender struct {
	calls []recordedWebhook
}

func (s *stubWebhookSender) Dispatch(_ context.Context, integration models.Integration, description string, params map[string]interface{}) {
	s.calls = append(s.calls, recordedWebhook{
		integration: integration,
		description: description,
		params:      params,
	})
}

type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	webhooks *stubWebhookSender
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		gosqlite.MustRegisterScalarFunction("NOW", 0, func(ctx *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			return time.Now().UTC(), nil
		})
		logger.Init()
		utils.ConfigureJWT("test-secret", 24)
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	webhooks := &stubWebhookSender{}
	activityService := services.NewActivityService(db)
	activityService.Subscribe(services.NewRuleSubscriber(services.LoggingRuleEngine{}))
	activityService.Subscribe(services.NewFanoutEngine(
		db,
		activityService,
		services.NewPersistentNotificationSink(db),
		webhooks,
		regexp.MustCompile("due"),
		"http://localhost:8080",
	))
	notificationService := services.NewNotificationService(db)

	authHandler := NewAuthHandler(db)
	userHandler := NewUserHandler(db)
	boardHandler := NewBoardHandler(db, activityService)
	listHandler := NewListHandler(db, activityService)
	swimlaneHandler := NewSwimlaneHandler(db, activityService)
	cardHandler := NewCardHandler(db, activityService)
	commentHandler := NewCommentHandler(db, activityService)
	checklistHandler := NewChecklistHandler(db, activityService)
	customFieldHandler := NewCustomFieldHandler(db)
	activityHandler := NewActivityHandler(db, activityService)
	notificationHandler := NewNotificationHandler(notificationService)
	integrationHandler := NewIntegrationHandler(db)
	authMW := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 60 << 20})
	app.Use(recover.New())
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

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

	return &testEnv{app: app, db: db, webhooks: webhooks}
}

func createTestUser(t *testing.T, db *gorm.DB, username string, admin bool) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsAdmin:      admin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}

	return user, token
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertEnvelopeError(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if success, _ := body["success"].(bool); success {
		t.Fatalf("expected success=false, got %+v", body)
	}
	if got, _ := body["error"].(string); got != expected {
		t.Fatalf("expected error %q, got %q", expected, got)
	}
}

func dataMap(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %+v", body)
	}
	return data
}
