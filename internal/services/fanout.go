package services

import (
	"context"
	"regexp"

	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification title keys. The client i18n layer maps these to message
// templates; selection tightens as more context is available on the
// record.
const (
	TitleGenericActivity = "generic-activity-notify"
	TitleWithBoardTitle  = "withBoardTitle"
	TitleWithCardTitle   = "withCardTitle"
	TitleAtUserComment   = "atUserComment"
	TitleWithDue         = "withDue"
	TitleNewDue          = "newDue"
)

// mentionPattern finds @username and @"two words" tokens in comment
// text. \B keeps email addresses from matching.
var mentionPattern = regexp.MustCompile(`(?i)\B@(?:"([\w.\s]*)"|([\w.]+))`)

// NotificationSink receives one user's copy of a fan-out result.
type NotificationSink interface {
	Deliver(ctx context.Context, user *models.User, activity *models.Activity, title, description string, params map[string]interface{})
}

// WebhookSender pushes a fan-out result to one outgoing integration.
type WebhookSender interface {
	Dispatch(ctx context.Context, integration models.Integration, description string, params map[string]interface{})
}

// FanoutEngine turns a persisted activity into notifications and
// webhook calls. It is a post-insert subscriber: by the time it runs
// the record is durable, and nothing it does can fail the mutation
// that produced the activity.
type FanoutEngine struct {
	db         *gorm.DB
	activities *ActivityService
	sink       NotificationSink
	webhooks   WebhookSender
	bigEvents  *regexp.Regexp
	baseURL    string
}

func NewFanoutEngine(db *gorm.DB, activities *ActivityService, sink NotificationSink, webhooks WebhookSender, bigEvents *regexp.Regexp, baseURL string) *FanoutEngine {
	return &FanoutEngine{
		db:         db,
		activities: activities,
		sink:       sink,
		webhooks:   webhooks,
		bigEvents:  bigEvents,
		baseURL:    baseURL,
	}
}

func (f *FanoutEngine) Name() string {
	return "notification-fanout"
}

// OnActivity walks the record's slots in a fixed order, accumulating
// the interested-user sets and the params payload. participants are
// users involved in the event itself; watchers are users who asked to
// hear about it. Both end up notified, the actor never does.
func (f *FanoutEngine) OnActivity(ctx context.Context, activity *models.Activity) {
	title := TitleGenericActivity
	description := "act-" + string(activity.ActivityType)
	params := map[string]interface{}{
		"activityId": activity.ID,
	}
	var participants []uuid.UUID
	var watchers []uuid.UUID

	board := f.activities.Board(ctx, activity)

	actorName := ""
	if actor := f.activities.Actor(ctx, activity); actor != nil {
		actorName = actor.GetDisplayName()
		params["user"] = actorName
		params["userEmails"] = actor.Emails()
		params["userId"] = activity.UserID
	}

	if board != nil {
		params["board"] = board.Title
		title = TitleWithBoardTitle
		params["url"] = board.AbsoluteURL(f.baseURL)
		params["boardId"] = activity.BoardID
	}

	if oldBoard := f.activities.OldBoard(ctx, activity); oldBoard != nil {
		watchers = appendUnique(watchers, oldBoard.WatchersAtLevel(models.WatchLevelWatching)...)
		params["oldBoard"] = oldBoard.Title
		params["oldBoardId"] = *activity.OldBoardID
	}

	if activity.MemberID != nil {
		participants = appendUnique(participants, *activity.MemberID)
		if member := f.activities.Member(ctx, activity); member != nil {
			params["member"] = member.GetDisplayName()
		}
	}

	if list := f.activities.List(ctx, activity); list != nil {
		watchers = appendUnique(watchers, list.Watchers...)
		params["list"] = list.Title
		params["listId"] = *activity.ListID
	}

	if oldList := f.activities.OldList(ctx, activity); oldList != nil {
		watchers = appendUnique(watchers, oldList.Watchers...)
		params["oldList"] = oldList.Title
		params["oldListId"] = *activity.OldListID
	}

	if oldSwimlane := f.activities.OldSwimlane(ctx, activity); oldSwimlane != nil {
		watchers = appendUnique(watchers, oldSwimlane.Watchers...)
		params["oldSwimlane"] = oldSwimlane.Title
		params["oldSwimlaneId"] = *activity.OldSwimlaneID
	}

	if card := f.activities.Card(ctx, activity); card != nil {
		participants = appendUnique(participants, card.OwnerID)
		participants = appendUnique(participants, card.Members...)
		watchers = appendUnique(watchers, card.Watchers...)
		params["card"] = card.Title
		title = TitleWithCardTitle
		params["url"] = card.AbsoluteURL(f.baseURL)
		params["cardId"] = *activity.CardID
	}

	if swimlane := f.activities.Swimlane(ctx, activity); swimlane != nil {
		params["swimlane"] = swimlane.Title
		params["swimlaneId"] = *activity.SwimlaneID
	}

	if comment := f.activities.Comment(ctx, activity); comment != nil {
		params["comment"] = comment.Text
		if board != nil {
			title = f.scanMentions(board, comment.Text, actorName, title, params, &watchers)
		}
		params["commentId"] = comment.ID
	}

	if attachment := f.activities.Attachment(ctx, activity); attachment != nil {
		params["attachment"] = attachment.OriginalName
		params["attachmentId"] = attachment.ID
	}

	if checklist := f.activities.Checklist(ctx, activity); checklist != nil {
		params["checklist"] = checklist.Title
	}

	if checklistItem := f.activities.ChecklistItem(ctx, activity); checklistItem != nil {
		params["checklistItem"] = checklistItem.Title
	}

	if customField := f.activities.CustomField(ctx, activity); customField != nil {
		params["customField"] = customField.Name
		params["customFieldValue"] = activity.CustomFieldValue
	}

	// Due reminders and due-date edits get their own titles. A record
	// with no previous value is a brand new due date.
	if (activity.TimeKey == "" || activity.TimeKey == "dueAt") && activity.TimeValue != nil {
		if activity.TimeOldValue != nil {
			title = TitleWithDue
		} else {
			title = TitleNewDue
		}
	}
	if activity.TimeValue != nil {
		params["timeValue"] = *activity.TimeValue
	}
	if activity.TimeOldValue != nil {
		params["timeOldValue"] = *activity.TimeOldValue
	}

	if board != nil {
		if f.bigEvents != nil && f.bigEvents.MatchString(string(activity.ActivityType)) {
			for _, member := range board.ActiveMembers() {
				watchers = appendUnique(watchers, member.UserID)
			}
		}

		watchers = appendUnique(watchers, board.WatchersAtLevel(models.WatchLevelWatching)...)
		watchers = appendUnique(watchers, intersectIDs(participants, board.WatchersAtLevel(models.WatchLevelTracking))...)
	}

	for _, userID := range watchers {
		if userID == activity.UserID {
			continue
		}
		user := f.activities.UserByID(ctx, userID)
		if user == nil {
			continue
		}
		f.sink.Deliver(ctx, user, activity, title, description, params)
	}

	integrations := f.matchingIntegrations(ctx, activity.BoardID, description)
	if len(integrations) > 0 {
		params["watchers"] = watchers
		for _, integration := range integrations {
			f.webhooks.Dispatch(ctx, integration, description, params)
		}
	}
}

// scanMentions resolves @mentions in a comment against the board's
// membership. Every resolved mention unions its user into watchers;
// the params slots hold whichever mention matched last. A user
// mentioning themselves is skipped.
func (f *FanoutEngine) scanMentions(board *models.Board, comment, actorName, title string, params map[string]interface{}, watchers *[]uuid.UUID) string {
	for _, match := range mentionPattern.FindAllStringSubmatch(comment, -1) {
		username := match[1]
		if username == "" {
			username = match[2]
		}
		if username == actorName {
			continue
		}
		member := findMemberByUsername(board, username)
		if member == nil {
			continue
		}
		params["atUsername"] = username
		params["atEmails"] = member.User.Emails()
		title = TitleAtUserComment
		*watchers = appendUnique(*watchers, member.UserID)
	}
	return title
}

func findMemberByUsername(board *models.Board, username string) *models.BoardMember {
	for i := range board.Members {
		if board.Members[i].User.Username == username {
			return &board.Members[i]
		}
	}
	return nil
}

// matchingIntegrations returns the enabled integrations scoped to this
// board or registered globally whose activity filter covers the
// description.
func (f *FanoutEngine) matchingIntegrations(ctx context.Context, boardID uuid.UUID, description string) []models.Integration {
	var candidates []models.Integration
	err := f.db.WithContext(ctx).
		Where("enabled = ?", true).
		Where("board_id = ? OR board_id IS NULL", boardID).
		Find(&candidates).Error
	if err != nil {
		logger.Error("integration_lookup_failed", err, map[string]interface{}{
			"board_id": boardID,
		})
		return nil
	}

	matched := make([]models.Integration, 0, len(candidates))
	for _, integration := range candidates {
		if integration.SubscribesTo(description) {
			matched = append(matched, integration)
		}
	}
	return matched
}

func appendUnique(ids []uuid.UUID, more ...uuid.UUID) []uuid.UUID {
	for _, id := range more {
		exists := false
		for _, have := range ids {
			if have == id {
				exists = true
				break
			}
		}
		if !exists {
			ids = append(ids, id)
		}
	}
	return ids
}

func intersectIDs(a, b []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(a))
	for _, id := range a {
		for _, other := range b {
			if id == other {
				out = append(out, id)
				break
			}
		}
	}
	return out
}
