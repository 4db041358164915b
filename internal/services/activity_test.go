package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/google/uuid"
)

type countingSubscriber struct {
	name  string
	calls int
	panic bool
}

func (s *countingSubscriber) Name() string { return s.name }

func (s *countingSubscriber) OnActivity(context.Context, *models.Activity) {
	s.calls++
	if s.panic {
		panic("subscriber exploded")
	}
}

func TestRecordRejectsIncompleteActivity(t *testing.T) {
	db := setupTestDB(t)
	store := NewActivityService(db)
	sub := &countingSubscriber{name: "counter"}
	store.Subscribe(sub)

	actor := createUser(t, db, "alice")
	board := createBoard(t, db, actor, "Roadmap")

	cases := []models.Activity{
		{UserID: actor.ID, BoardID: board.ID},
		{ActivityType: models.ActivityCreateCard, BoardID: board.ID},
		{ActivityType: models.ActivityCreateCard, UserID: actor.ID},
	}
	for _, activity := range cases {
		err := store.Record(context.Background(), &activity)
		if !errors.Is(err, models.ErrIncompleteActivity) {
			t.Errorf("expected ErrIncompleteActivity, got %v", err)
		}
	}
	if sub.calls != 0 {
		t.Errorf("subscribers must not run for rejected records, got %d calls", sub.calls)
	}

	var count int64
	db.Model(&models.Activity{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no rows persisted, got %d", count)
	}
}

func TestRecordStampsMatchingTimestamps(t *testing.T) {
	db := setupTestDB(t)
	store := NewActivityService(db)

	actor := createUser(t, db, "alice")
	board := createBoard(t, db, actor, "Roadmap")

	activity := NewCreateBoardActivity(actor, board)
	if err := store.Record(context.Background(), &activity); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if activity.ID == uuid.Nil {
		t.Error("expected an id to be assigned")
	}
	if activity.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be stamped")
	}
	if !activity.ModifiedAt.Equal(activity.CreatedAt) {
		t.Errorf("fresh record must have modifiedAt == createdAt, got %v and %v",
			activity.ModifiedAt, activity.CreatedAt)
	}
}

func TestUpdateBumpsModifiedAtOnly(t *testing.T) {
	db := setupTestDB(t)
	store := NewActivityService(db)

	actor := createUser(t, db, "alice")
	board := createBoard(t, db, actor, "Roadmap")

	activity := NewCreateBoardActivity(actor, board)
	if err := store.Record(context.Background(), &activity); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	created := activity.CreatedAt

	time.Sleep(5 * time.Millisecond)
	if err := db.Model(&activity).Update("board_name", "Renamed").Error; err != nil {
		t.Fatalf("update failed: %v", err)
	}

	var reloaded models.Activity
	if err := db.First(&reloaded, "id = ?", activity.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reloaded.CreatedAt.Equal(created) {
		t.Errorf("createdAt must never change, got %v want %v", reloaded.CreatedAt, created)
	}
	if !reloaded.ModifiedAt.After(created) {
		t.Errorf("modifiedAt must move forward on update, got %v", reloaded.ModifiedAt)
	}
}

func TestSubscriberPanicDoesNotStopOthers(t *testing.T) {
	db := setupTestDB(t)
	store := NewActivityService(db)
	bad := &countingSubscriber{name: "bad", panic: true}
	good := &countingSubscriber{name: "good"}
	store.Subscribe(bad)
	store.Subscribe(good)

	actor := createUser(t, db, "alice")
	board := createBoard(t, db, actor, "Roadmap")

	activity := NewCreateBoardActivity(actor, board)
	if err := store.Record(context.Background(), &activity); err != nil {
		t.Fatalf("record must succeed despite subscriber panic, got %v", err)
	}
	if bad.calls != 1 || good.calls != 1 {
		t.Errorf("expected both subscribers to run once, got %d and %d", bad.calls, good.calls)
	}
}

func TestAccessorsReturnNilForUnsetAndDeleted(t *testing.T) {
	db := setupTestDB(t)
	store := NewActivityService(db)
	ctx := context.Background()

	actor := createUser(t, db, "alice")
	board := createBoard(t, db, actor, "Roadmap")
	list := createListRow(t, db, board, "Doing")
	swimlane := createSwimlaneRow(t, db, board, "Default")
	card := createCardRow(t, db, board, list, swimlane, actor, "Ship it")

	activity := NewCreateCardActivity(actor, board, card, swimlane, list)
	if err := store.Record(ctx, &activity); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if got := store.Card(ctx, &activity); got == nil || got.ID != card.ID {
		t.Error("expected card accessor to resolve the live card")
	}
	if store.Comment(ctx, &activity) != nil {
		t.Error("unset comment slot must resolve to nil")
	}
	if store.OldBoard(ctx, &activity) != nil {
		t.Error("unset old board slot must resolve to nil")
	}
	if store.Member(ctx, &activity) != nil {
		t.Error("unset member slot must resolve to nil")
	}

	if err := db.Delete(card).Error; err != nil {
		t.Fatalf("failed deleting card: %v", err)
	}
	if store.Card(ctx, &activity) != nil {
		t.Error("deleted referent must resolve to nil, not error")
	}
	// the denormalized title outlives the card
	if activity.CardTitle != "Ship it" {
		t.Errorf("snapshot title lost, got %q", activity.CardTitle)
	}
}

func TestBoardAndCardFeedsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	store := NewActivityService(db)
	ctx := context.Background()

	actor := createUser(t, db, "alice")
	board := createBoard(t, db, actor, "Roadmap")
	list := createListRow(t, db, board, "Doing")
	swimlane := createSwimlaneRow(t, db, board, "Default")
	card := createCardRow(t, db, board, list, swimlane, actor, "Ship it")

	base := time.Now().Add(-time.Hour).UTC()
	types := []models.ActivityType{
		models.ActivityCreateCard,
		models.ActivityArchivedCard,
		models.ActivityRestoredCard,
	}
	for i, activityType := range types {
		activity := NewActivityBuilder(activityType, actor, board).SetCard(card).Build()
		activity.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.Record(ctx, &activity); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}
	stray := NewCreateListActivity(actor, board, list)
	if err := store.Record(ctx, &stray); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	page := utils.PaginationParams{Page: 1, Limit: 2, Offset: 0}
	feed, total, err := store.ListBoardActivities(ctx, board.ID, page)
	if err != nil {
		t.Fatalf("board feed failed: %v", err)
	}
	if total != 4 {
		t.Errorf("expected 4 board activities, got %d", total)
	}
	if len(feed) != 2 {
		t.Fatalf("expected page of 2, got %d", len(feed))
	}
	if feed[0].CreatedAt.Before(feed[1].CreatedAt) {
		t.Error("board feed must be newest first")
	}

	cardFeed, cardTotal, err := store.ListCardActivities(ctx, card.ID, utils.PaginationParams{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("card feed failed: %v", err)
	}
	if cardTotal != 3 {
		t.Errorf("expected 3 card activities, got %d", cardTotal)
	}
	for _, a := range cardFeed {
		if a.CardID == nil || *a.CardID != card.ID {
			t.Error("card feed leaked an unrelated activity")
		}
	}
}
