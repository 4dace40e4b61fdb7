package grocy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DueTimeLayout is the format grocy uses for next_estimated_execution_time.
const DueTimeLayout = "2006-01-02 15:04:05"

// TrackedTimeLayout is the format grocy expects for tracked_time.
const TrackedTimeLayout = "2006-01-02T15:04:05"

type User struct {
	ID          int
	DisplayName string
}

// Chore is the subset of a grocy chore row choredeck needs. The due time is
// kept raw so a bad value only invalidates that one row.
type Chore struct {
	ID                         int
	Name                       string
	AssignedUserID             int
	NextEstimatedExecutionTime string
}

type userJSON struct {
	ID          flexInt `json:"id"`
	DisplayName string  `json:"display_name"`
}

type choreJSON struct {
	ID                         flexInt `json:"id"`
	ChoreName                  string  `json:"chore_name"`
	NextExecutionAssignedTo    flexInt `json:"next_execution_assigned_to_user_id"`
	NextEstimatedExecutionTime *string `json:"next_estimated_execution_time"`
}

type executeRequest struct {
	TrackedTime string `json:"tracked_time"`
	DoneBy      int    `json:"done_by"`
	Skipped     string `json:"skipped"`
}

type errorResponse struct {
	ErrorMessage string `json:"error_message"`
}

// flexInt decodes integers that grocy may send as numbers, numeric strings or
// null (null and "" become 0).
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("integer field: %w", err)
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("integer field: %w", err)
	}
	*f = flexInt(n)
	return nil
}

// ParseDueTime parses a grocy due timestamp strictly in loc.
func ParseDueTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DueTimeLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse due time %q: %w", s, err)
	}
	return t, nil
}

// FormatTrackedTime renders t in its own location the way grocy expects.
func FormatTrackedTime(t time.Time) string {
	return t.Format(TrackedTimeLayout)
}
