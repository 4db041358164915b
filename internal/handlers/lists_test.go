package handlers

import (
	"net/http"
	"testing"

	"github.com/boardstack/backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

func TestArchiveListEmitsActivityAndHidesList(t *testing.T) {
	env := setupTestEnv(t)
	_, token := createTestUser(t, env.db, "alice", false)
	fx := setupBoardFixture(t, env, token)

	resp := performJSONRequest(t, env.app, http.MethodPost,
		"/api/boards/"+fx.boardID.String()+"/lists/"+fx.listID.String()+"/archive", nil, authHeaders(token))
	assertStatus(t, resp, fiber.StatusOK)

	activity := lastActivityOfType(t, env, fx.boardID, models.ActivityArchivedList)
	if activity.ListName != "Doing" {
		t.Errorf("list title not snapshotted, got %q", activity.ListName)
	}

	resp = performJSONRequest(t, env.app, http.MethodGet,
		"/api/boards/"+fx.boardID.String()+"/lists", nil, authHeaders(token))
	assertStatus(t, resp, fiber.StatusOK)
	lists, _ := decodeJSONMap(t, resp)["data"].([]any)
	if len(lists) != 0 {
		t.Errorf("archived lists must not appear in the listing, got %d", len(lists))
	}
}

func TestListWatchTogglesWatcherArray(t *testing.T) {
	env := setupTestEnv(t)
	owner, token := createTestUser(t, env.db, "alice", false)
	fx := setupBoardFixture(t, env, token)

	resp := performJSONRequest(t, env.app, http.MethodPut,
		"/api/boards/"+fx.boardID.String()+"/lists/"+fx.listID.String()+"/watch", map[string]any{
			"watch": true,
		}, authHeaders(token))
	assertStatus(t, resp, fiber.StatusOK)

	var list models.List
	env.db.First(&list, "id = ?", fx.listID)
	if len(list.Watchers) != 1 || list.Watchers[0] != owner.ID {
		t.Errorf("expected caller on the list watcher array, got %v", list.Watchers)
	}

	// watching twice stays a single entry
	resp = performJSONRequest(t, env.app, http.MethodPut,
		"/api/boards/"+fx.boardID.String()+"/lists/"+fx.listID.String()+"/watch", map[string]any{
			"watch": true,
		}, authHeaders(token))
	assertStatus(t, resp, fiber.StatusOK)
	env.db.First(&list, "id = ?", fx.listID)
	if len(list.Watchers) != 1 {
		t.Errorf("watcher array must be deduplicated, got %v", list.Watchers)
	}

	resp = performJSONRequest(t, env.app, http.MethodPut,
		"/api/boards/"+fx.boardID.String()+"/lists/"+fx.listID.String()+"/watch", map[string]any{
			"watch": false,
		}, authHeaders(token))
	assertStatus(t, resp, fiber.StatusOK)
	env.db.First(&list, "id = ?", fx.listID)
	if len(list.Watchers) != 0 {
		t.Errorf("expected empty watcher array, got %v", list.Watchers)
	}
}

func TestSwimlaneWatchScopedToBoard(t *testing.T) {
	env := setupTestEnv(t)
	_, token := createTestUser(t, env.db, "alice", false)
	fx := setupBoardFixture(t, env, token)
	other := setupBoardFixture(t, env, token)

	// a swimlane id from another board is not found under this board
	resp := performJSONRequest(t, env.app, http.MethodPut,
		"/api/boards/"+fx.boardID.String()+"/swimlanes/"+other.swimlaneID.String()+"/watch", map[string]any{
			"watch": true,
		}, authHeaders(token))
	assertStatus(t, resp, fiber.StatusNotFound)

	resp = performJSONRequest(t, env.app, http.MethodPut,
		"/api/boards/"+fx.boardID.String()+"/swimlanes/"+fx.swimlaneID.String()+"/watch", map[string]any{
			"watch": true,
		}, authHeaders(token))
	assertStatus(t, resp, fiber.StatusOK)
}
