package journal

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// record is a test helper that inserts a completion attempt.
func record(t *testing.T, s *Store, choreID, userID int64, user string, at time.Time, outcome Outcome) *Completion {
	t.Helper()
	c, err := s.RecordCompletion(Completion{
		ChoreID:   choreID,
		ChoreName: "Chore",
		UserID:    userID,
		UserName:  user,
		TrackedAt: at,
		Outcome:   outcome,
	})
	if err != nil {
		t.Fatalf("record completion: %v", err)
	}
	return c
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/choredeck.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	record(t, s, 1, 1, "Anna", time.Now(), OutcomeDone)
	s.Close()

	// Reopen: data survives and migrations do not run again.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	list, _ := s2.ListCompletions(Filter{})
	if len(list) != 1 {
		t.Fatalf("expected 1 completion after reopen, got %d", len(list))
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Completions
// ============================================================

func TestRecordAndGetCompletion(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

	c, err := s.RecordCompletion(Completion{
		ChoreID:   4,
		ChoreName: "Vacuum",
		UserID:    2,
		UserName:  "Ben",
		TrackedAt: at,
		Outcome:   OutcomeRejected,
		Message:   "Chore does not exist",
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if c.ChoreName != "Vacuum" || c.UserName != "Ben" || c.Outcome != OutcomeRejected {
		t.Fatalf("unexpected completion: %+v", c)
	}
	if !c.TrackedAt.Equal(at) {
		t.Fatalf("tracked at = %v, want %v", c.TrackedAt, at)
	}
	if c.Message != "Chore does not exist" {
		t.Fatalf("message = %q", c.Message)
	}
	if c.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}
	if c.Succeeded() {
		t.Fatal("rejected completion should not count as succeeded")
	}
}

func TestGetCompletionNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetCompletion(999); err == nil {
		t.Fatal("expected error for missing completion")
	}
}

func TestListCompletionsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	record(t, s, 1, 1, "Anna", base, OutcomeDone)
	record(t, s, 2, 1, "Anna", base.Add(2*time.Hour), OutcomeDone)
	record(t, s, 3, 2, "Ben", base.Add(time.Hour), OutcomeNetwork)

	list, err := s.ListCompletions(Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3, got %d", len(list))
	}
	if list[0].ChoreID != 2 || list[1].ChoreID != 3 || list[2].ChoreID != 1 {
		t.Fatalf("wrong order: %d %d %d", list[0].ChoreID, list[1].ChoreID, list[2].ChoreID)
	}
}

func TestListCompletionsEmpty(t *testing.T) {
	s := newTestStore(t)
	list, err := s.ListCompletions(Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if list != nil {
		t.Fatalf("expected nil slice, got %d items", len(list))
	}
}

func TestListCompletionsFilters(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	record(t, s, 1, 1, "Anna", base, OutcomeDone)
	record(t, s, 2, 2, "Ben", base.Add(time.Hour), OutcomeDone)
	record(t, s, 3, 2, "Ben", base.Add(48*time.Hour), OutcomeServerError)

	ben := int64(2)
	list, _ := s.ListCompletions(Filter{UserID: &ben})
	if len(list) != 2 {
		t.Fatalf("user filter: expected 2, got %d", len(list))
	}

	list, _ = s.ListCompletions(Filter{Outcome: OutcomeDone})
	if len(list) != 2 {
		t.Fatalf("outcome filter: expected 2, got %d", len(list))
	}

	from := base.Add(30 * time.Minute)
	to := base.Add(24 * time.Hour)
	list, _ = s.ListCompletions(Filter{From: &from, To: &to})
	if len(list) != 1 || list[0].ChoreID != 2 {
		t.Fatalf("range filter: got %+v", list)
	}

	list, _ = s.ListCompletions(Filter{Limit: 1})
	if len(list) != 1 || list[0].ChoreID != 3 {
		t.Fatalf("limit: got %+v", list)
	}
}

func TestDailySummary(t *testing.T) {
	s := newTestStore(t)
	day1 := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	record(t, s, 1, 1, "Anna", day1, OutcomeDone)
	record(t, s, 2, 1, "Anna", day1.Add(time.Hour), OutcomeDone)
	record(t, s, 3, 2, "Ben", day1.Add(2*time.Hour), OutcomeDone)
	record(t, s, 4, 2, "Ben", day1.Add(3*time.Hour), OutcomeRejected)
	record(t, s, 5, 2, "Ben", day2, OutcomeDone)

	from := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	sums, err := s.DailySummary(from, from.AddDate(0, 0, 7))
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 3 {
		t.Fatalf("expected 3 summary rows, got %d: %+v", len(sums), sums)
	}
	if sums[0].Date != "2024-01-10" || sums[0].UserName != "Anna" || sums[0].Count != 2 {
		t.Fatalf("row 0 = %+v", sums[0])
	}
	if sums[1].UserName != "Ben" || sums[1].Count != 1 {
		t.Fatalf("failed attempts must not count: %+v", sums[1])
	}
	if sums[2].Date != "2024-01-11" {
		t.Fatalf("row 2 = %+v", sums[2])
	}
}

func TestTodayCount(t *testing.T) {
	s := newTestStore(t)
	record(t, s, 1, 1, "Anna", time.Now(), OutcomeDone)
	record(t, s, 2, 1, "Anna", time.Now(), OutcomeNetwork)
	record(t, s, 3, 1, "Anna", time.Now().Add(-72*time.Hour), OutcomeDone)

	n, err := s.TodayCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 today, got %d", n)
	}
}

// ============================================================
// Settings
// ============================================================

func TestDefaultSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 2 {
		t.Fatalf("expected 2 default settings, got %d", len(settings))
	}
	if v, _ := s.GetSetting(SettingExportFormat); v != "csv" {
		t.Fatalf("export_format = %q, want csv", v)
	}
	if s.GetBool(SettingFutureExpanded, true) {
		t.Fatal("future_expanded should default to false")
	}
}

func TestSetSetting(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting(SettingFutureExpanded, "true"); err != nil {
		t.Fatal(err)
	}
	if !s.GetBool(SettingFutureExpanded, false) {
		t.Fatal("future_expanded should be true")
	}
	s.SetSetting("custom", "x")
	v, err := s.GetSetting("custom")
	if err != nil || v != "x" {
		t.Fatalf("custom = %q, %v", v, err)
	}
}

func TestGetSettingMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("nope"); err == nil {
		t.Fatal("expected error for missing setting")
	}
	if !s.GetBool("nope", true) {
		t.Fatal("GetBool should fall back")
	}
	s.SetSetting("garbled", "maybe")
	if s.GetBool("garbled", false) {
		t.Fatal("GetBool should fall back on unparsable values")
	}
}
