package grocy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	c := NewClient(Config{Host: server.URL + "/", APIKey: "test-key", Timeout: 2 * time.Second}, zaptest.NewLogger(t))
	return c, server
}

// ============================================================
// Fetching
// ============================================================

func TestFetchUsers(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/users" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("GROCY-API-KEY"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		w.Write([]byte(`[
			{"id": 1, "username": "anna", "display_name": "Anna"},
			{"id": "2", "username": "ben", "display_name": "Ben"}
		]`))
	})

	users, err := c.FetchUsers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []User{{ID: 1, DisplayName: "Anna"}, {ID: 2, DisplayName: "Ben"}}
	if diff := cmp.Diff(want, users); diff != "" {
		t.Fatalf("users mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchChores(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chores" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("order"); got != "next_estimated_execution_time" {
			t.Errorf("order = %q", got)
		}
		w.Write([]byte(`[
			{"id": 4, "chore_name": "Vacuum", "next_execution_assigned_to_user_id": 2,
			 "next_estimated_execution_time": "2024-01-10 08:00:00", "track_date_only": 0},
			{"id": "7", "chore_name": "Water plants", "next_execution_assigned_to_user_id": null,
			 "next_estimated_execution_time": null}
		]`))
	})

	chores, err := c.FetchChores(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []Chore{
		{ID: 4, Name: "Vacuum", AssignedUserID: 2, NextEstimatedExecutionTime: "2024-01-10 08:00:00"},
		{ID: 7, Name: "Water plants"},
	}
	if diff := cmp.Diff(want, chores); diff != "" {
		t.Fatalf("chores mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchNon2xxIsRemoteError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error_message": "Invalid API key"}`))
	})

	_, err := c.FetchChores(context.Background())
	var rerr *RemoteError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RemoteError, got %T %v", err, err)
	}
	if rerr.Status != http.StatusUnauthorized || rerr.Message != "Invalid API key" {
		t.Fatalf("unexpected remote error: %+v", rerr)
	}
}

func TestFetchNon2xxWithoutMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.FetchUsers(context.Background())
	var rerr *RemoteError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RemoteError, got %v", err)
	}
	if rerr.Message != "Bad Gateway" {
		t.Fatalf("message = %q, want status text", rerr.Message)
	}
	if !rerr.ServerSide() {
		t.Fatal("502 should be server side")
	}
}

func TestFetchMalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	})

	_, err := c.FetchChores(context.Background())
	if err == nil {
		t.Fatal("expected decode error")
	}
	var rerr *RemoteError
	if errors.As(err, &rerr) {
		t.Fatal("decode failure should not be a remote error")
	}
}

func TestFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := NewClient(Config{Host: url, APIKey: "k", Timeout: time.Second}, zaptest.NewLogger(t))
	_, err := c.FetchUsers(context.Background())
	var nerr *NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected *NetworkError, got %T %v", err, err)
	}
	if nerr.Op != "fetch users" {
		t.Fatalf("op = %q", nerr.Op)
	}
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c := NewClient(Config{Host: server.URL, APIKey: "k", Timeout: 50 * time.Millisecond}, zaptest.NewLogger(t))
	_, err := c.FetchChores(context.Background())
	var nerr *NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected *NetworkError, got %v", err)
	}
	if !nerr.Timeout() {
		t.Fatalf("expected timeout, got %v", nerr.Err)
	}
}

// ============================================================
// Completing
// ============================================================

func TestCompleteChoreSuccess(t *testing.T) {
	var got executeRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chores/4/execute" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if r.Header.Get("GROCY-API-KEY") != "test-key" {
			t.Error("missing api key")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"id": 99}`))
	})

	at := time.Date(2024, 1, 10, 9, 30, 15, 0, time.UTC)
	if err := c.CompleteChore(context.Background(), 4, 2, at); err != nil {
		t.Fatal(err)
	}
	want := executeRequest{TrackedTime: "2024-01-10T09:30:15", DoneBy: 2, Skipped: "false"}
	if got != want {
		t.Fatalf("body = %+v, want %+v", got, want)
	}
}

func TestCompleteChoreErrorStatuses(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"error_message": "Chore does not exist"}`))
		})

		err := c.CompleteChore(context.Background(), 1, 1, time.Now())
		var rerr *RemoteError
		if !errors.As(err, &rerr) {
			t.Fatalf("status %d: expected *RemoteError, got %v", status, err)
		}
		if rerr.Status != status || rerr.Message != "Chore does not exist" {
			t.Fatalf("status %d: unexpected error %+v", status, rerr)
		}
	}
}

func TestCompleteChoreOtherStatusIsUnrecognized(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusUnauthorized, http.StatusBadGateway} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		err := c.CompleteChore(context.Background(), 1, 1, time.Now())
		var uerr *UnrecognizedResponseError
		if !errors.As(err, &uerr) {
			t.Fatalf("status %d: expected *UnrecognizedResponseError, got %v", status, err)
		}
		if uerr.Status != status {
			t.Fatalf("status = %d, want %d", uerr.Status, status)
		}
	}
}

func TestCompleteChoreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error_message": "database locked"}`))
	})

	c.CompleteChore(context.Background(), 1, 1, time.Now())
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected exactly 1 request, got %d", n)
	}
}

// ============================================================
// Parsing helpers
// ============================================================

func TestParseDueTime(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)
	got, err := ParseDueTime("2024-01-12 00:00:00", loc)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 1, 12, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseDueTimeStrict(t *testing.T) {
	for _, s := range []string{"", "2024-01-12", "2024-01-12T00:00:00", "2024-13-01 00:00:00", "12/01/2024 00:00:00"} {
		if _, err := ParseDueTime(s, time.UTC); err == nil {
			t.Errorf("ParseDueTime(%q) should fail", s)
		}
	}
}

func TestFlexIntRejectsGarbage(t *testing.T) {
	var v struct {
		ID flexInt `json:"id"`
	}
	err := json.Unmarshal([]byte(`{"id": "abc"}`), &v)
	if err == nil || !strings.Contains(err.Error(), "integer field") {
		t.Fatalf("expected integer field error, got %v", err)
	}
}
