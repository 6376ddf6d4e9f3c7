// Package storage defines persistence interfaces and the select-chain
// abstraction shared by the postgres and in-memory stores.
package storage

import (
	"context"
	"fmt"
	"time"

	core "github.com/neetprep/service_layer/internal/app/core/service"
	"github.com/neetprep/service_layer/internal/app/domain/question"
	"github.com/neetprep/service_layer/internal/app/domain/session"
)

// ErrDailyLimitReached is returned by StartSession when the user already has
// NewSession.DailyLimit sessions since NewSession.Since.
var ErrDailyLimitReached = fmt.Errorf("daily session limit reached: %w", core.ErrRateLimited)

// QuestionStore reads the question bank.
type QuestionStore interface {
	GetQuestion(ctx context.Context, id int64) (question.Question, error)
}

// NewSession is a practice session persisted together with its questions.
// Questions are linked in order with positions starting at 1.
type NewSession struct {
	Session     session.Session
	QuestionIDs []int64

	// DailyLimit caps the user's sessions created at or after Since. The
	// count is taken inside the same unit of work as the insert. Zero
	// disables the check.
	DailyLimit int
	Since      time.Time
}

// SessionStore persists practice sessions and their questions.
type SessionStore interface {
	// StartSession writes the session and all of its links, or nothing.
	StartSession(ctx context.Context, ns NewSession) (session.Session, []session.Question, error)
	CountSessionsSince(ctx context.Context, userID string, since time.Time) (int, error)
	TopicsPracticed(ctx context.Context, userID string) ([]int64, error)
}
