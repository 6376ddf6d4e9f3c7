package plans

import (
	"context"
	"fmt"
	"strings"
	"time"

	core "github.com/neetprep/service_layer/internal/app/core/service"
	"github.com/neetprep/service_layer/internal/app/domain/plan"
	"github.com/neetprep/service_layer/internal/app/metrics"
	"github.com/neetprep/service_layer/internal/app/storage"
	"github.com/neetprep/service_layer/internal/config"
	"github.com/neetprep/service_layer/pkg/logger"
)

// Service enforces subscription plan limits.
type Service struct {
	sessions storage.SessionStore
	consts   config.Constants
	now      func() time.Time
	log      *logger.Logger
}

// New constructs a plan service.
func New(sessions storage.SessionStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("plans")
	}
	return &Service{
		sessions: sessions,
		consts:   config.App(),
		now:      time.Now,
		log:      log,
	}
}

// DefaultPlan is the plan assumed when a caller names none.
func (s *Service) DefaultPlan() string {
	return s.consts.PlanCodes.Free
}

// Limits returns the limits of the plan with the given code.
func (s *Service) Limits(code string) (plan.Limits, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	switch code {
	case "":
		return plan.Limits{}, core.RequiredError("plan")
	case s.consts.PlanCodes.Free:
		return plan.Limits{
			Code:        code,
			DailyTests:  s.consts.SubscriptionLimits.FreePlanDailyTests,
			TopicsLimit: s.consts.SubscriptionLimits.FreemiumTopicsLimit,
		}, nil
	case s.consts.PlanCodes.Premium:
		return plan.Limits{Code: code}, nil
	default:
		return plan.Limits{}, core.NewNotFoundError("plan", code)
	}
}

// Quota reports how many tests userID may still start today (UTC) on the
// given plan. Remaining is -1 for unlimited plans.
func (s *Service) Quota(ctx context.Context, userID, planCode string) (plan.Quota, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return plan.Quota{}, core.RequiredError("user_id")
	}
	limits, err := s.Limits(planCode)
	if err != nil {
		return plan.Quota{}, err
	}

	quota := plan.Quota{
		UserID:    userID,
		Plan:      limits.Code,
		Allowed:   true,
		Remaining: -1,
		Limit:     limits.DailyTests,
		Since:     startOfDay(s.now()),
	}
	if limits.Unlimited() {
		metrics.RecordQuotaCheck(limits.Code, true)
		return quota, nil
	}

	used, err := s.sessions.CountSessionsSince(ctx, userID, quota.Since)
	if err != nil {
		return plan.Quota{}, fmt.Errorf("count sessions: %w", err)
	}
	quota.Used = used
	quota.Remaining = limits.DailyTests - used
	if quota.Remaining < 0 {
		quota.Remaining = 0
	}
	quota.Allowed = quota.Remaining > 0

	metrics.RecordQuotaCheck(limits.Code, quota.Allowed)
	s.log.WithField("user_id", userID).
		WithField("plan", limits.Code).
		WithField("used", used).
		Debug("quota checked")
	return quota, nil
}

// AllowTopic reports whether userID may practise topicID. Topics already
// practised are always allowed; new ones count against the plan's topic limit.
func (s *Service) AllowTopic(ctx context.Context, userID, planCode string, topicID int64) (bool, error) {
	limits, err := s.Limits(planCode)
	if err != nil {
		return false, err
	}
	if limits.TopicsLimit == 0 {
		return true, nil
	}

	practised, err := s.sessions.TopicsPracticed(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("list practised topics: %w", err)
	}
	for _, id := range practised {
		if id == topicID {
			return true, nil
		}
	}
	return len(practised) < limits.TopicsLimit, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
