package chores

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sadopc/choredeck/internal/grocy"
	"github.com/sadopc/choredeck/internal/journal"
)

// ItemError is a single chore dropped from a load because its due time did
// not parse.
type ItemError struct {
	ChoreID int
	Name    string
	Err     error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("chore %d (%s): %v", e.ChoreID, e.Name, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// RefreshError means a completion went through but the reload that follows
// it failed, so the list on screen is stale.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("chore completed, refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// UserMessage turns an error from the store into the notice shown on screen.
// Server-supplied messages are passed through verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		nerr    *grocy.NetworkError
		rerr    *grocy.RemoteError
		uerr    *grocy.UnrecognizedResponseError
		refresh *RefreshError
	)
	switch {
	case errors.Is(err, ErrNoUserSelected):
		return "Pick a user!"
	case errors.Is(err, ErrInvalidUser):
		return "Pick a valid user"
	case errors.Is(err, ErrUnknownChore):
		return "That chore is no longer in the list, refresh with r"
	case errors.As(err, &refresh):
		return "Chore completed, but refreshing failed: " + UserMessage(refresh.Err)
	case errors.As(err, &rerr):
		return "Error: " + rerr.Message
	case errors.As(err, &uerr):
		return fmt.Sprintf("Unclear what occurred, response: %d", uerr.Status)
	case errors.As(err, &nerr):
		if nerr.Timeout() {
			return "grocy did not answer in time"
		}
		return "Could not reach grocy"
	}

	var ierr *ItemError
	if errors.As(err, &ierr) {
		n := countItemErrors(err)
		if n == 1 {
			return fmt.Sprintf("Skipped chore %q: bad due time", ierr.Name)
		}
		return fmt.Sprintf("Skipped %d chores with bad due times", n)
	}
	return err.Error()
}

func countItemErrors(err error) int {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		n := 0
		for _, e := range joined.Unwrap() {
			n += countItemErrors(e)
		}
		return n
	}
	var ierr *ItemError
	if errors.As(err, &ierr) {
		return 1
	}
	return 0
}

// classify maps a completion result to its journal outcome.
func classify(err error) (journal.Outcome, string) {
	if err == nil {
		return journal.OutcomeDone, ""
	}
	var (
		nerr *grocy.NetworkError
		rerr *grocy.RemoteError
		uerr *grocy.UnrecognizedResponseError
	)
	switch {
	case errors.As(err, &rerr):
		if rerr.Status == http.StatusBadRequest {
			return journal.OutcomeRejected, rerr.Message
		}
		return journal.OutcomeServerError, rerr.Message
	case errors.As(err, &uerr):
		return journal.OutcomeUnrecognized, http.StatusText(uerr.Status)
	case errors.As(err, &nerr):
		return journal.OutcomeNetwork, nerr.Err.Error()
	}
	return journal.OutcomeError, err.Error()
}
