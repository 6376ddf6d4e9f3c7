// Package session holds the practice-session domain types and the
// session-question lookup contract.
package session

import "time"

// Session is a practice test taken by a user.
type Session struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	SubjectID int64     `json:"subject_id"`
	TopicID   *int64    `json:"topic_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Question is the join record linking a session to one of its questions.
type Question struct {
	ID         int64 `json:"id"`
	SessionID  int64 `json:"session_id"`
	QuestionID int64 `json:"question_id"`
	Position   int   `json:"position"`
}

// LookupParams identifies one question within one session.
type LookupParams struct {
	SessionID  int64 `json:"session_id"`
	QuestionID int64 `json:"question_id"`
}

// LookupResponse carries the resolved join id and nothing else.
type LookupResponse struct {
	SessionQuestionID int64 `json:"session_question_id"`
}
