package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"time"

	core "github.com/neetprep/service_layer/internal/app/core/service"
	"github.com/neetprep/service_layer/internal/app/domain/question"
	"github.com/neetprep/service_layer/internal/app/domain/session"
	"github.com/neetprep/service_layer/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local development.
type Store struct {
	mu               sync.RWMutex
	checkQuestions   bool
	nextID           int64
	questions        map[int64]question.Question
	sessions         map[int64]session.Session
	sessionQuestions map[int64]session.Question
}

var _ storage.QuestionStore = (*Store)(nil)
var _ storage.SessionStore = (*Store)(nil)
var _ storage.Querier = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:           1,
		questions:        make(map[int64]question.Question),
		sessions:         make(map[int64]session.Session),
		sessionQuestions: make(map[int64]session.Question),
	}
}

// EnforceQuestionRefs makes StartSession reject question ids that were not
// seeded with PutQuestion, as the postgres foreign key does.
func (s *Store) EnforceQuestionRefs() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkQuestions = true
	return s
}

func (s *Store) allocateIDLocked() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// --- QuestionStore ----------------------------------------------------------

// PutQuestion seeds a question. A zero ID is assigned.
func (s *Store) PutQuestion(q question.Question) question.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == 0 {
		q.ID = s.allocateIDLocked()
	} else if q.ID >= s.nextID {
		s.nextID = q.ID + 1
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	q.Options = append([]string(nil), q.Options...)
	s.questions[q.ID] = q
	return q
}

func (s *Store) GetQuestion(_ context.Context, id int64) (question.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return question.Question{}, core.NewNotFoundError("question", strconv.FormatInt(id, 10))
	}
	q.Options = append([]string(nil), q.Options...)
	return q, nil
}

// --- SessionStore -----------------------------------------------------------

// StartSession validates everything before writing, so a rejected request
// leaves no session behind.
func (s *Store) StartSession(_ context.Context, ns storage.NewSession) (session.Session, []session.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := ns.Session
	if ns.DailyLimit > 0 && s.countSessionsLocked(sess.UserID, ns.Since) >= ns.DailyLimit {
		return session.Session{}, nil, storage.ErrDailyLimitReached
	}
	seen := make(map[int64]struct{}, len(ns.QuestionIDs))
	for _, qid := range ns.QuestionIDs {
		if _, dup := seen[qid]; dup {
			return session.Session{}, nil, core.NewConflictError("session question", "question already linked to session")
		}
		seen[qid] = struct{}{}
		if _, ok := s.questions[qid]; s.checkQuestions && !ok {
			return session.Session{}, nil, core.NewNotFoundError("question", strconv.FormatInt(qid, 10))
		}
	}

	sess.ID = s.allocateIDLocked()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	s.sessions[sess.ID] = sess

	links := make([]session.Question, 0, len(ns.QuestionIDs))
	for i, qid := range ns.QuestionIDs {
		sq := session.Question{ID: s.allocateIDLocked(), SessionID: sess.ID, QuestionID: qid, Position: i + 1}
		s.sessionQuestions[sq.ID] = sq
		links = append(links, sq)
	}
	return sess, links, nil
}

// CreateSession seeds a session row. A zero ID is assigned.
func (s *Store) CreateSession(_ context.Context, sess session.Session) (session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.ID == 0 {
		sess.ID = s.allocateIDLocked()
	} else if sess.ID >= s.nextID {
		s.nextID = sess.ID + 1
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

// AddSessionQuestion seeds a single join row. A zero ID is assigned.
func (s *Store) AddSessionQuestion(_ context.Context, sq session.Question) (session.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sessionQuestions {
		if existing.SessionID == sq.SessionID && existing.QuestionID == sq.QuestionID {
			return session.Question{}, core.NewConflictError("session question", "question already linked to session")
		}
	}
	if sq.ID == 0 {
		sq.ID = s.allocateIDLocked()
	} else if sq.ID >= s.nextID {
		s.nextID = sq.ID + 1
	}
	s.sessionQuestions[sq.ID] = sq
	return sq, nil
}

func (s *Store) CountSessionsSince(_ context.Context, userID string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countSessionsLocked(userID, since), nil
}

func (s *Store) countSessionsLocked(userID string, since time.Time) int {
	count := 0
	for _, sess := range s.sessions {
		if sess.UserID == userID && !sess.CreatedAt.Before(since) {
			count++
		}
	}
	return count
}

func (s *Store) TopicsPracticed(_ context.Context, userID string) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[int64]struct{})
	var topics []int64
	for _, sess := range s.sessions {
		if sess.UserID != userID || sess.TopicID == nil {
			continue
		}
		if _, ok := seen[*sess.TopicID]; ok {
			continue
		}
		seen[*sess.TopicID] = struct{}{}
		topics = append(topics, *sess.TopicID)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i] < topics[j] })
	return topics, nil
}

// --- Querier ----------------------------------------------------------------

// Select starts a select chain over the store's tables.
func (s *Store) Select(columns ...string) storage.FromStage {
	return &selectQuery{store: s, columns: columns}
}

type selectQuery struct {
	store   *Store
	columns []string
	table   string
	pred    storage.Eq
}

func (q *selectQuery) From(table string) storage.WhereStage {
	q.table = table
	return q
}

func (q *selectQuery) Where(pred storage.Eq) storage.LimitStage {
	q.pred = pred
	return q
}

func (q *selectQuery) Limit(_ context.Context, n int) ([]storage.Row, error) {
	if n <= 0 {
		return nil, fmt.Errorf("select: limit must be positive, got %d", n)
	}
	rows, err := q.store.tableRows(q.table)
	if err != nil {
		return nil, err
	}

	var result []storage.Row
	for _, row := range rows {
		if !matches(row, q.pred) {
			continue
		}
		result = append(result, project(row, q.columns))
		if len(result) == n {
			break
		}
	}
	return result, nil
}

func (s *Store) tableRows(table string) ([]storage.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []storage.Row
	switch table {
	case "session_questions":
		for _, sq := range s.sessionQuestions {
			rows = append(rows, storage.Row{
				"id":          sq.ID,
				"session_id":  sq.SessionID,
				"question_id": sq.QuestionID,
				"position":    int64(sq.Position),
			})
		}
	case "practice_sessions":
		for _, sess := range s.sessions {
			rows = append(rows, storage.Row{
				"id":         sess.ID,
				"user_id":    sess.UserID,
				"subject_id": sess.SubjectID,
				"created_at": sess.CreatedAt,
			})
		}
	case "questions":
		for _, q := range s.questions {
			rows = append(rows, storage.Row{
				"id":         q.ID,
				"subject_id": q.SubjectID,
				"topic_id":   q.TopicID,
				"body":       q.Body,
				"answer":     int64(q.Answer),
			})
		}
	default:
		return nil, fmt.Errorf("select: unknown table %q", table)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i]["id"].(int64) < rows[j]["id"].(int64)
	})
	return rows, nil
}

func matches(row storage.Row, pred storage.Eq) bool {
	for col, want := range pred {
		got, ok := row[col]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func project(row storage.Row, columns []string) storage.Row {
	if len(columns) == 0 {
		out := make(storage.Row, len(row))
		for k, v := range row {
			out[k] = v
		}
		return out
	}
	out := make(storage.Row, len(columns))
	for _, col := range columns {
		if v, ok := row[col]; ok {
			out[col] = v
		}
	}
	return out
}

func valuesEqual(a, b any) bool {
	ai, aok := asInt64(a)
	bi, bok := asInt64(b)
	if aok && bok {
		return ai == bi
	}
	return reflect.DeepEqual(a, b)
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	}
	return 0, false
}
