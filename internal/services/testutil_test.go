package services

import (
	"context"
	"database/sql/driver"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/boardstack/backend/internal/database"
	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/pkg/logger"
	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var testSetupOnce sync.Once

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testSetupOnce.Do(func() {
		// sqlite has no NOW(); production runs on postgres
		gosqlite.MustRegisterScalarFunction("NOW", 0, func(ctx *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			return time.Now().UTC(), nil
		})
		logger.Init()
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
	return db
}

type delivery struct {
	userID      uuid.UUID
	title       string
	description string
	params      map[string]interface{}
}

type recordingSink struct {
	deliveries []delivery
}

func (s *recordingSink) Deliver(_ context.Context, user *models.User, _ *models.Activity, title, description string, params map[string]interface{}) {
	s.deliveries = append(s.deliveries, delivery{
		userID:      user.ID,
		title:       title,
		description: description,
		params:      params,
	})
}

func (s *recordingSink) deliveredTo(userID uuid.UUID) bool {
	for _, d := range s.deliveries {
		if d.userID == userID {
			return true
		}
	}
	return false
}

type webhookCall struct {
	integrationID uuid.UUID
	description   string
	params        map[string]interface{}
}

type recordingWebhooks struct {
	calls []webhookCall
}

func (w *recordingWebhooks) Dispatch(_ context.Context, integration models.Integration, description string, params map[string]interface{}) {
	w.calls = append(w.calls, webhookCall{
		integrationID: integration.ID,
		description:   description,
		params:        params,
	})
}

type fanoutEnv struct {
	db       *gorm.DB
	store    *ActivityService
	sink     *recordingSink
	webhooks *recordingWebhooks
	engine   *FanoutEngine
}

func setupFanoutEnv(t *testing.T, pattern string) *fanoutEnv {
	t.Helper()

	db := setupTestDB(t)
	store := NewActivityService(db)
	sink := &recordingSink{}
	webhooks := &recordingWebhooks{}
	engine := NewFanoutEngine(db, store, sink, webhooks, regexp.MustCompile(pattern), "http://localhost:8080")
	store.Subscribe(engine)

	return &fanoutEnv{db: db, store: store, sink: sink, webhooks: webhooks, engine: engine}
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user %s: %v", username, err)
	}
	return user
}

func createBoard(t *testing.T, db *gorm.DB, owner *models.User, title string) *models.Board {
	t.Helper()
	board := &models.Board{
		Title:       title,
		Color:       "belize",
		CreatedByID: owner.ID,
	}
	if err := db.Create(board).Error; err != nil {
		t.Fatalf("failed creating board: %v", err)
	}
	addBoardMember(t, db, board, owner, true)
	return board
}

func addBoardMember(t *testing.T, db *gorm.DB, board *models.Board, user *models.User, admin bool) {
	t.Helper()
	member := &models.BoardMember{
		BoardID:  board.ID,
		UserID:   user.ID,
		IsAdmin:  admin,
		IsActive: true,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed adding board member: %v", err)
	}
}

func addBoardWatcher(t *testing.T, db *gorm.DB, board *models.Board, user *models.User, level models.WatchLevel) {
	t.Helper()
	watcher := &models.BoardWatcher{
		BoardID: board.ID,
		UserID:  user.ID,
		Level:   level,
	}
	if err := db.Create(watcher).Error; err != nil {
		t.Fatalf("failed adding board watcher: %v", err)
	}
}

func createListRow(t *testing.T, db *gorm.DB, board *models.Board, title string) *models.List {
	t.Helper()
	list := &models.List{BoardID: board.ID, Title: title}
	if err := db.Create(list).Error; err != nil {
		t.Fatalf("failed creating list: %v", err)
	}
	return list
}

func createSwimlaneRow(t *testing.T, db *gorm.DB, board *models.Board, title string) *models.Swimlane {
	t.Helper()
	swimlane := &models.Swimlane{BoardID: board.ID, Title: title}
	if err := db.Create(swimlane).Error; err != nil {
		t.Fatalf("failed creating swimlane: %v", err)
	}
	return swimlane
}

func createCardRow(t *testing.T, db *gorm.DB, board *models.Board, list *models.List, swimlane *models.Swimlane, owner *models.User, title string) *models.Card {
	t.Helper()
	card := &models.Card{
		BoardID:    board.ID,
		ListID:     list.ID,
		SwimlaneID: swimlane.ID,
		Title:      title,
		OwnerID:    owner.ID,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed creating card: %v", err)
	}
	return card
}
