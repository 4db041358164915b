package services

import (
	"context"

	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/pkg/logger"
)

// RuleEngine evaluates board automation rules against a new activity.
type RuleEngine interface {
	ExecuteRules(ctx context.Context, activity *models.Activity)
}

// LoggingRuleEngine is the default engine. Automation rules are not
// implemented server-side yet; it records that the hook fired so the
// subscriber ordering stays observable.
type LoggingRuleEngine struct{}

func (LoggingRuleEngine) ExecuteRules(_ context.Context, activity *models.Activity) {
	logger.Info("rules_evaluated", map[string]interface{}{
		"activity_id":   activity.ID,
		"activity_type": activity.ActivityType,
		"board_id":      activity.BoardID,
	})
}

type ruleSubscriber struct {
	engine RuleEngine
}

// NewRuleSubscriber adapts a RuleEngine to the subscriber chain.
func NewRuleSubscriber(engine RuleEngine) ActivitySubscriber {
	return ruleSubscriber{engine: engine}
}

func (ruleSubscriber) Name() string {
	return "rules"
}

func (r ruleSubscriber) OnActivity(ctx context.Context, activity *models.Activity) {
	r.engine.ExecuteRules(ctx, activity)
}
