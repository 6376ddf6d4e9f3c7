// Package plan describes subscription plans and their usage limits.
package plan

import "time"

// Limits caps plan usage. Zero means unlimited.
type Limits struct {
	Code        string `json:"code"`
	DailyTests  int    `json:"daily_tests"`
	TopicsLimit int    `json:"topics_limit"`
}

// Unlimited reports whether the plan has no daily test cap.
func (l Limits) Unlimited() bool {
	return l.DailyTests == 0
}

// Quota is a user's remaining allowance for today. Limit is the plan's daily
// cap (0 for unlimited) counted from Since.
type Quota struct {
	UserID    string    `json:"user_id"`
	Plan      string    `json:"plan"`
	Allowed   bool      `json:"allowed"`
	Used      int       `json:"used"`
	Remaining int       `json:"remaining"`
	Limit     int       `json:"limit"`
	Since     time.Time `json:"since"`
}
