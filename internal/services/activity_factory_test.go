package services

import (
	"testing"
	"time"

	"github.com/boardstack/backend/internal/models"
	"github.com/google/uuid"
)

func TestMoveCardBoardActivityRecordsPreviousLocation(t *testing.T) {
	actor := &models.User{Username: "alice"}
	actor.ID = uuid.New()
	board := &models.Board{Title: "Target"}
	board.ID = uuid.New()
	oldBoard := &models.Board{Title: "Origin"}
	oldBoard.ID = uuid.New()
	card := &models.Card{Title: "Migrant"}
	card.ID = uuid.New()
	oldSwimlane := &models.Swimlane{Title: "Old lane"}
	oldSwimlane.ID = uuid.New()
	oldList := &models.List{Title: "Old list"}
	oldList.ID = uuid.New()

	activity := NewMoveCardBoardActivity(actor, board, oldBoard, card, nil, oldSwimlane, oldList)

	if activity.ActivityType != models.ActivityMoveCardBoard {
		t.Errorf("unexpected type %q", activity.ActivityType)
	}
	if activity.BoardID != board.ID || activity.BoardName != "Target" {
		t.Error("board slot must point at the destination board")
	}
	if activity.OldBoardID == nil || *activity.OldBoardID != oldBoard.ID || activity.OldBoardName != "Origin" {
		t.Error("old board slot must snapshot the origin board")
	}
	if activity.OldListID == nil || activity.OldListName != "Old list" {
		t.Error("old list slot must be snapshotted")
	}
	if activity.ListID != nil {
		t.Error("a cross-board move records no destination list")
	}
	if activity.OldSwimlaneID == nil || activity.OldSwimlaneName != "Old lane" {
		t.Error("old swimlane slot must be snapshotted")
	}
}

func TestDueReminderAlwaysDescribesDueAt(t *testing.T) {
	actor := &models.User{Username: "alice"}
	actor.ID = uuid.New()
	board := &models.Board{Title: "Roadmap"}
	board.ID = uuid.New()
	card := &models.Card{Title: "Deadline"}
	card.ID = uuid.New()
	due := time.Now().Add(time.Hour)

	for _, activityType := range []models.ActivityType{
		models.ActivityDueNow,
		models.ActivityAlmostDue,
		models.ActivityPastDue,
	} {
		activity := NewDueReminderActivity(activityType, actor, board, card, nil, &due, nil)
		if activity.TimeKey != "dueAt" {
			t.Errorf("%s: expected time field dueAt, got %q", activityType, activity.TimeKey)
		}
		if activity.TimeValue == nil || !activity.TimeValue.Equal(due) {
			t.Errorf("%s: time value not carried", activityType)
		}
	}
}

func TestDateChangedActivityTypeDerivesFromField(t *testing.T) {
	actor := &models.User{Username: "alice"}
	actor.ID = uuid.New()
	board := &models.Board{Title: "Roadmap"}
	board.ID = uuid.New()
	card := &models.Card{Title: "Deadline"}
	card.ID = uuid.New()
	value := time.Now()
	old := value.Add(-time.Hour)

	for _, field := range []string{"dueAt", "startAt", "endAt", "receivedAt"} {
		activity := NewCardDateChangedActivity(field, actor, board, card, nil, &value, &old)
		want := models.ActivityType("a-" + field)
		if activity.ActivityType != want {
			t.Errorf("expected type %q, got %q", want, activity.ActivityType)
		}
		if activity.TimeKey != field {
			t.Errorf("expected time field %q, got %q", field, activity.TimeKey)
		}
		if activity.TimeOldValue == nil || !activity.TimeOldValue.Equal(old) {
			t.Error("old value must be snapshotted")
		}
	}
}

func TestBuilderIgnoresNilEntitiesAndOverwritesSlots(t *testing.T) {
	actor := &models.User{Username: "alice"}
	actor.ID = uuid.New()
	board := &models.Board{Title: "Roadmap"}
	board.ID = uuid.New()
	first := &models.List{Title: "First"}
	first.ID = uuid.New()
	second := &models.List{Title: "Second"}
	second.ID = uuid.New()

	activity := NewActivityBuilder(models.ActivityCreateList, actor, board).
		SetList(first).
		SetList(nil).
		SetList(second).
		SetCard(nil).
		SetMember(nil).
		Build()

	if activity.ListID == nil || *activity.ListID != second.ID || activity.ListName != "Second" {
		t.Error("later setter calls must overwrite the slot")
	}
	if activity.CardID != nil || activity.MemberID != nil {
		t.Error("nil entities must leave their slots empty")
	}
	if activity.Username != "alice" || activity.BoardName != "Roadmap" {
		t.Error("actor and board snapshots missing")
	}
}

func TestSnapshotAccessorsRoundTrip(t *testing.T) {
	actor := &models.User{Username: "alice"}
	actor.ID = uuid.New()
	board := &models.Board{Title: "Roadmap"}
	board.ID = uuid.New()
	card := &models.Card{Title: "Ship it"}
	card.ID = uuid.New()
	label := &models.BoardLabel{Name: "bug", Color: "crimson"}
	label.ID = uuid.New()
	field := &models.CustomField{Name: "Points"}
	field.ID = uuid.New()

	activity := NewActivityBuilder(models.ActivitySetCustomField, actor, board).
		SetCard(card).
		SetLabel(label).
		SetCustomField(field, "13").
		Build()

	if snap := activity.CardSnapshot(); snap == nil || snap.ID != card.ID || snap.Title != "Ship it" {
		t.Error("card snapshot mismatch")
	}
	if snap := activity.LabelSnapshot(); snap == nil || snap.Name != "bug" || snap.Color != "crimson" {
		t.Error("label snapshot mismatch")
	}
	if snap := activity.CustomFieldSnapshot(); snap == nil || snap.Value != "13" {
		t.Error("custom field snapshot mismatch")
	}
	if activity.OldBoardSnapshot() != nil || activity.TimeSnapshot() != nil {
		t.Error("untouched slots must snapshot to nil")
	}

	activity.TimeKey = "dueAt"
	if snap := activity.TimeSnapshot(); snap == nil || snap.Field != "dueAt" {
		t.Error("time snapshot mismatch")
	}
}
