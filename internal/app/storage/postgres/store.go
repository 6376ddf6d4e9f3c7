package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	core "github.com/neetprep/service_layer/internal/app/core/service"
	"github.com/neetprep/service_layer/internal/app/domain/question"
	"github.com/neetprep/service_layer/internal/app/domain/session"
	"github.com/neetprep/service_layer/internal/app/storage"
)

// SQLSTATE codes mapped onto service errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var _ storage.QuestionStore = (*Store)(nil)
var _ storage.SessionStore = (*Store)(nil)
var _ storage.Querier = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// --- QuestionStore ----------------------------------------------------------

type questionRow struct {
	ID          int64          `db:"id"`
	SubjectID   int64          `db:"subject_id"`
	TopicID     int64          `db:"topic_id"`
	Body        string         `db:"body"`
	Options     pq.StringArray `db:"options"`
	Answer      int            `db:"answer"`
	Explanation sql.NullString `db:"explanation"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (s *Store) GetQuestion(ctx context.Context, id int64) (question.Question, error) {
	var row questionRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, subject_id, topic_id, body, options, answer, explanation, created_at
		FROM questions
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return question.Question{}, core.NewNotFoundError("question", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return question.Question{}, err
	}

	return question.Question{
		ID:          row.ID,
		SubjectID:   row.SubjectID,
		TopicID:     row.TopicID,
		Body:        row.Body,
		Options:     []string(row.Options),
		Answer:      row.Answer,
		Explanation: row.Explanation.String,
		CreatedAt:   row.CreatedAt,
	}, nil
}

// --- SessionStore -----------------------------------------------------------

// Foreign keys named in the schema migrations.
const (
	fkSessionSubject = "practice_sessions_subject_id_fkey"
	fkSessionTopic   = "practice_sessions_topic_id_fkey"
	fkLinkSession    = "session_questions_session_id_fkey"
	fkLinkQuestion   = "session_questions_question_id_fkey"
)

// StartSession inserts the session and its links in one transaction. With a
// daily limit set, a transaction-scoped advisory lock on the user serialises
// concurrent starts and the count is re-taken under it.
func (s *Store) StartSession(ctx context.Context, ns storage.NewSession) (session.Session, []session.Question, error) {
	sess := ns.Session
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return session.Session{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if ns.DailyLimit > 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, sess.UserID); err != nil {
			return session.Session{}, nil, err
		}
		var used int
		if err := tx.GetContext(ctx, &used, countSessionsSQL, sess.UserID, ns.Since); err != nil {
			return session.Session{}, nil, err
		}
		if used >= ns.DailyLimit {
			return session.Session{}, nil, storage.ErrDailyLimitReached
		}
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO practice_sessions (user_id, subject_id, topic_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, sess.UserID, sess.SubjectID, sess.TopicID, sess.CreatedAt).Scan(&sess.ID)
	if err != nil {
		return session.Session{}, nil, mapWriteError(err, sess, 0)
	}

	links := make([]session.Question, 0, len(ns.QuestionIDs))
	for i, qid := range ns.QuestionIDs {
		sq := session.Question{SessionID: sess.ID, QuestionID: qid, Position: i + 1}
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO session_questions (session_id, question_id, position)
			VALUES ($1, $2, $3)
			RETURNING id
		`, sq.SessionID, sq.QuestionID, sq.Position).Scan(&sq.ID)
		if err != nil {
			return session.Session{}, nil, mapWriteError(err, sess, qid)
		}
		links = append(links, sq)
	}

	if err := tx.Commit(); err != nil {
		return session.Session{}, nil, err
	}
	return sess, links, nil
}

// mapWriteError turns constraint violations into service errors.
func mapWriteError(err error, sess session.Session, questionID int64) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch string(pqErr.Code) {
	case uniqueViolation:
		return core.NewConflictError("session question", "question already linked to session")
	case foreignKeyViolation:
		switch pqErr.Constraint {
		case fkSessionSubject:
			return core.NewNotFoundError("subject", strconv.FormatInt(sess.SubjectID, 10))
		case fkSessionTopic:
			topic := ""
			if sess.TopicID != nil {
				topic = strconv.FormatInt(*sess.TopicID, 10)
			}
			return core.NewNotFoundError("topic", topic)
		case fkLinkSession:
			return core.NewNotFoundError("session", strconv.FormatInt(sess.ID, 10))
		case fkLinkQuestion:
			return core.NewNotFoundError("question", strconv.FormatInt(questionID, 10))
		}
	}
	return err
}

const countSessionsSQL = `
		SELECT COUNT(*)
		FROM practice_sessions
		WHERE user_id = $1 AND created_at >= $2
	`

func (s *Store) CountSessionsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, countSessionsSQL, userID, since)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) TopicsPracticed(ctx context.Context, userID string) ([]int64, error) {
	var topics []int64
	err := s.db.SelectContext(ctx, &topics, `
		SELECT DISTINCT topic_id
		FROM practice_sessions
		WHERE user_id = $1 AND topic_id IS NOT NULL
		ORDER BY topic_id
	`, userID)
	if err != nil {
		return nil, err
	}
	return topics, nil
}
