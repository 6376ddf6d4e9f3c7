package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	core "github.com/neetprep/service_layer/internal/app/core/service"
	"github.com/neetprep/service_layer/internal/app/domain/plan"
	"github.com/neetprep/service_layer/internal/app/domain/session"
	"github.com/neetprep/service_layer/internal/app/metrics"
	"github.com/neetprep/service_layer/internal/app/storage"
	"github.com/neetprep/service_layer/pkg/logger"
)

const sessionQuestionsTable = "session_questions"

// Cache memoises resolved join ids.
type Cache interface {
	Get(ctx context.Context, sessionID, questionID int64) (int64, bool, error)
	Set(ctx context.Context, sessionID, questionID, id int64) error
}

// QuotaChecker decides whether a user may start another session.
type QuotaChecker interface {
	Quota(ctx context.Context, userID, planCode string) (plan.Quota, error)
	AllowTopic(ctx context.Context, userID, planCode string, topicID int64) (bool, error)
}

// Service resolves session-question pairs and starts practice sessions.
type Service struct {
	db       storage.Querier
	sessions storage.SessionStore
	cache    Cache
	quota    QuotaChecker
	log      *logger.Logger
}

// New constructs a session service. db is used for lookups, sessions for writes.
func New(db storage.Querier, sessions storage.SessionStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("sessions")
	}
	return &Service{db: db, sessions: sessions, log: log}
}

// WithCache attaches a lookup cache.
func (s *Service) WithCache(cache Cache) *Service {
	s.cache = cache
	return s
}

// WithQuota attaches the plan quota checker consulted by Start.
func (s *Service) WithQuota(quota QuotaChecker) *Service {
	s.quota = quota
	return s
}

// Lookup resolves params to the id of the session_questions row. Invalid
// params and missing rows are reported as *session.LookupError; a missing
// row is never reported as a zero id.
func (s *Service) Lookup(ctx context.Context, params session.LookupParams) (session.LookupResponse, error) {
	start := time.Now()
	if verr := params.Validate(); verr != nil {
		metrics.RecordLookup(metrics.OutcomeInvalid, time.Since(start))
		return session.LookupResponse{}, verr
	}

	log := s.log.WithField("session_id", params.SessionID).WithField("question_id", params.QuestionID)

	if s.cache != nil {
		id, ok, err := s.cache.Get(ctx, params.SessionID, params.QuestionID)
		if err != nil {
			log.WithError(err).Warn("lookup cache read failed")
		} else if ok {
			metrics.RecordLookup(metrics.OutcomeCached, time.Since(start))
			return session.LookupResponse{SessionQuestionID: id}, nil
		}
	}

	rows, err := s.db.Select("id").
		From(sessionQuestionsTable).
		Where(storage.Eq{"session_id": params.SessionID, "question_id": params.QuestionID}).
		Limit(ctx, 1)
	if err != nil {
		metrics.RecordLookup(metrics.OutcomeError, time.Since(start))
		log.WithError(err).Error("session question query failed")
		return session.LookupResponse{}, fmt.Errorf("query session question: %w", err)
	}
	if len(rows) == 0 {
		metrics.RecordLookup(metrics.OutcomeNotFound, time.Since(start))
		log.Debug("session question not found")
		return session.LookupResponse{}, session.NotFound()
	}

	id, err := rows[0].Int64("id")
	if err != nil {
		metrics.RecordLookup(metrics.OutcomeError, time.Since(start))
		return session.LookupResponse{}, fmt.Errorf("decode session question: %w", err)
	}
	if id <= 0 {
		metrics.RecordLookup(metrics.OutcomeError, time.Since(start))
		return session.LookupResponse{}, fmt.Errorf("decode session question: invalid id %d", id)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, params.SessionID, params.QuestionID, id); err != nil {
			log.WithError(err).Warn("lookup cache write failed")
		}
	}

	metrics.RecordLookup(metrics.OutcomeFound, time.Since(start))
	return session.LookupResponse{SessionQuestionID: id}, nil
}

// StartRequest describes a new practice session.
type StartRequest struct {
	UserID      string  `json:"user_id"`
	Plan        string  `json:"plan"`
	SubjectID   int64   `json:"subject_id"`
	TopicID     *int64  `json:"topic_id,omitempty"`
	QuestionIDs []int64 `json:"question_ids"`
}

// Started is a created session with its join rows.
type Started struct {
	Session   session.Session    `json:"session"`
	Questions []session.Question `json:"questions"`
}

// ErrQuotaExceeded is returned by Start when the user's plan forbids another session.
var ErrQuotaExceeded = fmt.Errorf("daily test limit reached: %w", core.ErrRateLimited)

// ErrTopicLocked is returned by Start when the plan's topic limit is exhausted.
var ErrTopicLocked = fmt.Errorf("topic not available on plan: %w", core.ErrRateLimited)

// Start creates a session and links its questions in order.
func (s *Service) Start(ctx context.Context, req StartRequest) (Started, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return Started{}, core.RequiredError("user_id")
	}
	if req.SubjectID <= 0 {
		return Started{}, core.NewValidationError("subject_id", "must be a positive integer")
	}
	if len(req.QuestionIDs) == 0 {
		return Started{}, core.RequiredError("question_ids")
	}
	seen := make(map[int64]struct{}, len(req.QuestionIDs))
	for _, id := range req.QuestionIDs {
		if id <= 0 {
			return Started{}, core.NewValidationError("question_ids", "must contain positive integers")
		}
		if _, dup := seen[id]; dup {
			return Started{}, core.NewValidationError("question_ids", fmt.Sprintf("duplicate question %d", id))
		}
		seen[id] = struct{}{}
	}

	ns := storage.NewSession{
		Session: session.Session{
			UserID:    req.UserID,
			SubjectID: req.SubjectID,
			TopicID:   req.TopicID,
		},
		QuestionIDs: req.QuestionIDs,
	}

	if s.quota != nil {
		q, err := s.quota.Quota(ctx, req.UserID, req.Plan)
		if err != nil {
			return Started{}, err
		}
		if !q.Allowed {
			return Started{}, ErrQuotaExceeded
		}
		if req.TopicID != nil {
			ok, err := s.quota.AllowTopic(ctx, req.UserID, req.Plan, *req.TopicID)
			if err != nil {
				return Started{}, err
			}
			if !ok {
				return Started{}, ErrTopicLocked
			}
		}
		// The store re-counts under a per-user lock, so concurrent starts
		// cannot both take the last slot.
		ns.DailyLimit = q.Limit
		ns.Since = q.Since
	}

	sess, links, err := s.sessions.StartSession(ctx, ns)
	if errors.Is(err, storage.ErrDailyLimitReached) {
		return Started{}, ErrQuotaExceeded
	}
	if err != nil {
		return Started{}, fmt.Errorf("start session: %w", err)
	}
	out := Started{Session: sess, Questions: links}

	s.log.WithField("session_id", sess.ID).
		WithField("user_id", req.UserID).
		WithField("questions", len(out.Questions)).
		Info("practice session started")
	return out, nil
}
