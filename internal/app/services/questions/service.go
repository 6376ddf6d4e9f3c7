package questions

import (
	"context"

	core "github.com/neetprep/service_layer/internal/app/core/service"
	"github.com/neetprep/service_layer/internal/app/domain/question"
	"github.com/neetprep/service_layer/internal/app/storage"
	"github.com/neetprep/service_layer/pkg/logger"
)

// Service serves the question bank.
type Service struct {
	store storage.QuestionStore
	log   *logger.Logger
}

// New constructs a question service.
func New(store storage.QuestionStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("questions")
	}
	return &Service{store: store, log: log}
}

// Get returns the question with the given id.
func (s *Service) Get(ctx context.Context, id int64) (question.Question, error) {
	if id <= 0 {
		return question.Question{}, core.NewValidationError("id", "must be a positive integer")
	}
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		if !core.IsNotFound(err) {
			s.log.WithError(err).WithField("question_id", id).Error("load question")
		}
		return question.Question{}, core.WrapServiceError("questions", "Get", err)
	}
	return q, nil
}
