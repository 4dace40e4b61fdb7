package journal

import "time"

// Outcome is how a completion attempt ended.
type Outcome string

const (
	OutcomeDone         Outcome = "done"
	OutcomeRejected     Outcome = "rejected"     // grocy answered 400
	OutcomeServerError  Outcome = "server_error" // grocy answered 500
	OutcomeUnrecognized Outcome = "unrecognized"
	OutcomeNetwork      Outcome = "network"
	OutcomeError        Outcome = "error"
)

type Completion struct {
	ID        int64
	ChoreID   int64
	ChoreName string
	UserID    int64
	UserName  string
	TrackedAt time.Time
	Outcome   Outcome
	Message   string
	CreatedAt time.Time
}

// Succeeded reports whether grocy accepted the completion.
func (c Completion) Succeeded() bool { return c.Outcome == OutcomeDone }

type Setting struct {
	Key   string
	Value string
}

// Filter narrows ListCompletions. Zero values match everything.
type Filter struct {
	UserID  *int64
	Outcome Outcome
	From    *time.Time
	To      *time.Time
	Limit   int
}

// DailySummary is the number of successful completions per user per day.
type DailySummary struct {
	Date     string
	UserID   int64
	UserName string
	Count    int
}
