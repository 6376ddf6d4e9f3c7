// Package question holds the question bank domain types.
package question

import "time"

// Question is a single multiple-choice item in the bank.
type Question struct {
	ID          int64     `json:"id"`
	SubjectID   int64     `json:"subject_id"`
	TopicID     int64     `json:"topic_id"`
	Body        string    `json:"body"`
	Options     []string  `json:"options"`
	Answer      int       `json:"answer"`
	Explanation string    `json:"explanation,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
