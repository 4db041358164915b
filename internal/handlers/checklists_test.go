package handlers

import (
	"net/http"
	"testing"

	"github.com/boardstack/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func TestChecklistLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	_, token := createTestUser(t, env.db, "alice", false)
	fx := setupBoardFixture(t, env, token)
	cardID := createCardViaAPI(t, env, token, fx, "Ship it")

	resp := performJSONRequest(t, env.app, http.MethodPost, "/api/cards/"+cardID.String()+"/checklists", map[string]any{
		"title": "Launch steps",
	}, authHeaders(token))
	assertStatus(t, resp, fiber.StatusCreated)
	checklistID := dataMap(t, decodeJSONMap(t, resp))["id"].(string)

	activity := lastActivityOfType(t, env, fx.boardID, models.ActivityAddChecklist)
	if activity.ChecklistName != "Launch steps" {
		t.Errorf("checklist title not snapshotted, got %q", activity.ChecklistName)
	}

	resp = performJSONRequest(t, env.app, http.MethodPost,
		"/api/cards/"+cardID.String()+"/checklists/"+checklistID+"/items", map[string]any{
			"title": "flip the switch",
		}, authHeaders(token))
	assertStatus(t, resp, fiber.StatusCreated)
	itemID := dataMap(t, decodeJSONMap(t, resp))["id"].(string)

	activity = lastActivityOfType(t, env, fx.boardID, models.ActivityAddChecklistItem)
	if activity.ChecklistItemName != "flip the switch" {
		t.Errorf("item title not snapshotted, got %q", activity.ChecklistItemName)
	}
	if activity.ChecklistID == nil {
		t.Error("item activity must reference its checklist")
	}

	resp = performJSONRequest(t, env.app, http.MethodPut,
		"/api/cards/"+cardID.String()+"/checklist-items/"+itemID, map[string]any{
			"isFinished": true,
		}, authHeaders(token))
	assertStatus(t, resp, fiber.StatusOK)

	var item models.ChecklistItem
	if err := env.db.First(&item, "id = ?", itemID).Error; err != nil {
		t.Fatalf("item lookup failed: %v", err)
	}
	if !item.IsFinished {
		t.Error("item must be finished")
	}

	resp = performJSONRequest(t, env.app, http.MethodGet, "/api/cards/"+cardID.String()+"/checklists", nil, authHeaders(token))
	assertStatus(t, resp, fiber.StatusOK)
	checklists, _ := decodeJSONMap(t, resp)["data"].([]any)
	if len(checklists) != 1 {
		t.Fatalf("expected one checklist, got %d", len(checklists))
	}
	first, _ := checklists[0].(map[string]any)
	items, _ := first["items"].([]any)
	if len(items) != 1 {
		t.Errorf("expected checklist items preloaded, got %v", first["items"])
	}
}

func TestChecklistItemOnWrongCardNotFound(t *testing.T) {
	env := setupTestEnv(t)
	_, token := createTestUser(t, env.db, "alice", false)
	fx := setupBoardFixture(t, env, token)
	cardID := createCardViaAPI(t, env, token, fx, "Ship it")

	resp := performJSONRequest(t, env.app, http.MethodPost,
		"/api/cards/"+cardID.String()+"/checklists/"+uuid.NewString()+"/items", map[string]any{
			"title": "orphan",
		}, authHeaders(token))
	assertStatus(t, resp, fiber.StatusNotFound)
}
