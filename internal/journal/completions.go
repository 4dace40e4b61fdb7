package journal

import (
	"fmt"
	"time"
)

func (s *Store) RecordCompletion(c Completion) (*Completion, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	if c.TrackedAt.IsZero() {
		c.TrackedAt = time.Now()
	}
	res, err := s.db.Exec(
		`INSERT INTO completions (chore_id, chore_name, user_id, user_name, tracked_at, outcome, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ChoreID, c.ChoreName, c.UserID, c.UserName,
		c.TrackedAt.UTC().Format(time.RFC3339), string(c.Outcome), c.Message, now,
	)
	if err != nil {
		return nil, fmt.Errorf("record completion: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetCompletion(id)
}

func (s *Store) GetCompletion(id int64) (*Completion, error) {
	c := &Completion{}
	var trackedAt, createdAt, outcome string
	err := s.db.QueryRow(
		`SELECT id, chore_id, chore_name, user_id, user_name, tracked_at, outcome, message, created_at
		 FROM completions WHERE id = ?`, id,
	).Scan(&c.ID, &c.ChoreID, &c.ChoreName, &c.UserID, &c.UserName, &trackedAt, &outcome, &c.Message, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get completion %d: %w", id, err)
	}
	c.Outcome = Outcome(outcome)
	c.TrackedAt, _ = time.Parse(time.RFC3339, trackedAt)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return c, nil
}

// ListCompletions returns matching attempts, newest first.
func (s *Store) ListCompletions(f Filter) ([]Completion, error) {
	query := `SELECT id, chore_id, chore_name, user_id, user_name, tracked_at, outcome, message, created_at
	          FROM completions WHERE 1=1`
	var args []any

	if f.UserID != nil {
		query += ` AND user_id = ?`
		args = append(args, *f.UserID)
	}
	if f.Outcome != "" {
		query += ` AND outcome = ?`
		args = append(args, string(f.Outcome))
	}
	if f.From != nil {
		query += ` AND tracked_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND tracked_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY tracked_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var out []Completion
	for rows.Next() {
		var c Completion
		var trackedAt, createdAt, outcome string
		if err := rows.Scan(&c.ID, &c.ChoreID, &c.ChoreName, &c.UserID, &c.UserName, &trackedAt, &outcome, &c.Message, &createdAt); err != nil {
			return nil, err
		}
		c.Outcome = Outcome(outcome)
		c.TrackedAt, _ = time.Parse(time.RFC3339, trackedAt)
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// DailySummary counts successful completions per UTC day and user in [from, to).
func (s *Store) DailySummary(from, to time.Time) ([]DailySummary, error) {
	rows, err := s.db.Query(`
		SELECT date(tracked_at) AS day, user_id, MAX(user_name), COUNT(*)
		FROM completions
		WHERE outcome = ?
		  AND tracked_at >= ? AND tracked_at < ?
		GROUP BY day, user_id
		ORDER BY day, user_id`,
		string(OutcomeDone), from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	defer rows.Close()

	var summaries []DailySummary
	for rows.Next() {
		var ds DailySummary
		if err := rows.Scan(&ds.Date, &ds.UserID, &ds.UserName, &ds.Count); err != nil {
			return nil, err
		}
		summaries = append(summaries, ds)
	}
	return summaries, rows.Err()
}

// TodayCount returns how many chores were completed successfully today (UTC).
func (s *Store) TodayCount() (int, error) {
	today := time.Now().UTC().Format("2006-01-02")
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM completions
		WHERE date(tracked_at) = ? AND outcome = ?`, today, string(OutcomeDone),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("today count: %w", err)
	}
	return n, nil
}
