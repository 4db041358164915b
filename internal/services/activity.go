package services

import (
	"context"

	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/pkg/logger"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivitySubscriber reacts to a freshly persisted activity. Subscriber
// failures never propagate to the caller that recorded the activity.
type ActivitySubscriber interface {
	Name() string
	OnActivity(ctx context.Context, activity *models.Activity)
}

// ActivityService persists activity records and drives the post-insert
// subscriber chain (rule engine, then notification fan-out).
type ActivityService struct {
	db          *gorm.DB
	subscribers []ActivitySubscriber
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Subscribe appends a subscriber. Registration order is dispatch order.
func (s *ActivityService) Subscribe(sub ActivitySubscriber) {
	s.subscribers = append(s.subscribers, sub)
}

// Record inserts the activity and, only if the insert succeeded, runs
// every subscriber. A subscriber panic is recovered and logged so one
// misbehaving consumer cannot take down the others or the request.
func (s *ActivityService) Record(ctx context.Context, activity *models.Activity) error {
	if err := s.db.WithContext(ctx).Create(activity).Error; err != nil {
		logger.Error("activity_record_failed", err, map[string]interface{}{
			"activity_type": activity.ActivityType,
			"board_id":      activity.BoardID,
		})
		return err
	}

	for _, sub := range s.subscribers {
		s.dispatch(ctx, sub, activity)
	}
	return nil
}

func (s *ActivityService) dispatch(ctx context.Context, sub ActivitySubscriber, activity *models.Activity) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("activity_subscriber_panic", nil, map[string]interface{}{
				"subscriber":  sub.Name(),
				"activity_id": activity.ID,
				"panic":       r,
			})
		}
	}()
	sub.OnActivity(ctx, activity)
}

// ListBoardActivities returns the board feed, newest first.
func (s *ActivityService) ListBoardActivities(ctx context.Context, boardID uuid.UUID, p utils.PaginationParams) ([]models.Activity, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Activity{}).Where("board_id = ?", boardID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []models.Activity
	err := utils.ApplyPagination(query.Order("created_at DESC"), p).Find(&activities).Error
	return activities, total, err
}

// ListCardActivities returns the card feed, newest first.
func (s *ActivityService) ListCardActivities(ctx context.Context, cardID uuid.UUID, p utils.PaginationParams) ([]models.Activity, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Activity{}).Where("card_id = ?", cardID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []models.Activity
	err := utils.ApplyPagination(query.Order("created_at DESC"), p).Find(&activities).Error
	return activities, total, err
}

// Entity accessors. Each resolves the matching id column and returns
// nil for an unset id or a referent that no longer exists; deletions
// elsewhere must never break feed rendering or fan-out.

func (s *ActivityService) Board(ctx context.Context, a *models.Activity) *models.Board {
	if a.BoardID == uuid.Nil {
		return nil
	}
	var board models.Board
	err := s.db.WithContext(ctx).
		Preload("Members.User").
		Preload("Watchers").
		First(&board, "id = ?", a.BoardID).Error
	if err != nil {
		return nil
	}
	return &board
}

func (s *ActivityService) OldBoard(ctx context.Context, a *models.Activity) *models.Board {
	if a.OldBoardID == nil {
		return nil
	}
	var board models.Board
	err := s.db.WithContext(ctx).
		Preload("Watchers").
		First(&board, "id = ?", *a.OldBoardID).Error
	if err != nil {
		return nil
	}
	return &board
}

func (s *ActivityService) Actor(ctx context.Context, a *models.Activity) *models.User {
	if a.UserID == uuid.Nil {
		return nil
	}
	return s.UserByID(ctx, a.UserID)
}

func (s *ActivityService) Member(ctx context.Context, a *models.Activity) *models.User {
	return resolveUser(s, ctx, a.MemberID)
}

func (s *ActivityService) Assignee(ctx context.Context, a *models.Activity) *models.User {
	return resolveUser(s, ctx, a.AssigneeID)
}

func (s *ActivityService) List(ctx context.Context, a *models.Activity) *models.List {
	return resolve[models.List](s, ctx, a.ListID)
}

func (s *ActivityService) OldList(ctx context.Context, a *models.Activity) *models.List {
	return resolve[models.List](s, ctx, a.OldListID)
}

func (s *ActivityService) Swimlane(ctx context.Context, a *models.Activity) *models.Swimlane {
	return resolve[models.Swimlane](s, ctx, a.SwimlaneID)
}

func (s *ActivityService) OldSwimlane(ctx context.Context, a *models.Activity) *models.Swimlane {
	return resolve[models.Swimlane](s, ctx, a.OldSwimlaneID)
}

func (s *ActivityService) Card(ctx context.Context, a *models.Activity) *models.Card {
	return resolve[models.Card](s, ctx, a.CardID)
}

func (s *ActivityService) Comment(ctx context.Context, a *models.Activity) *models.CardComment {
	return resolve[models.CardComment](s, ctx, a.CommentID)
}

func (s *ActivityService) Attachment(ctx context.Context, a *models.Activity) *models.Attachment {
	return resolve[models.Attachment](s, ctx, a.AttachmentID)
}

func (s *ActivityService) Checklist(ctx context.Context, a *models.Activity) *models.Checklist {
	return resolve[models.Checklist](s, ctx, a.ChecklistID)
}

func (s *ActivityService) ChecklistItem(ctx context.Context, a *models.Activity) *models.ChecklistItem {
	return resolve[models.ChecklistItem](s, ctx, a.ChecklistItemID)
}

func (s *ActivityService) CustomField(ctx context.Context, a *models.Activity) *models.CustomField {
	return resolve[models.CustomField](s, ctx, a.CustomFieldID)
}

func (s *ActivityService) Subtask(ctx context.Context, a *models.Activity) *models.Card {
	return resolve[models.Card](s, ctx, a.SubtaskID)
}

func (s *ActivityService) UserByID(ctx context.Context, id uuid.UUID) *models.User {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil
	}
	return &user
}

func resolveUser(s *ActivityService, ctx context.Context, id *uuid.UUID) *models.User {
	if id == nil {
		return nil
	}
	return s.UserByID(ctx, *id)
}

func resolve[T any](s *ActivityService, ctx context.Context, id *uuid.UUID) *T {
	if id == nil {
		return nil
	}
	var out T
	if err := s.db.WithContext(ctx).First(&out, "id = ?", *id).Error; err != nil {
		return nil
	}
	return &out
}
