package chores

import (
	"fmt"
	"time"
)

// Bucket is the due-date urgency a chore is grouped under. It is derived from
// the current instant on every render and never stored.
type Bucket int

const (
	Overdue Bucket = iota
	Within24h
	Within48h
	WithinWeek
	Future
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{Overdue, Within24h, Within48h, WithinWeek, Future}

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var bucketNames = map[Bucket]string{
	Overdue:    "PAST DUE",
	Within24h:  "< 24 hours",
	Within48h:  "< 48 hours",
	WithinWeek: "< 1 week",
	Future:     "Future chores",
}

func (b Bucket) String() string {
	if name, ok := bucketNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Bucket(%d)", int(b))
}

// BucketOf classifies a chore due at due relative to now. A chore sitting
// exactly on the 24h or 48h boundary belongs to the later bucket; the one week
// edge itself is still within the week.
func BucketOf(due, now time.Time) Bucket {
	d := due.Sub(now)
	switch {
	case d < 0:
		return Overdue
	case d < day:
		return Within24h
	case d < 2*day:
		return Within48h
	case d <= week:
		return WithinWeek
	default:
		return Future
	}
}

// Remaining renders the time left until due, truncated toward zero: whole
// hours under a day, whole days otherwise.
func Remaining(due, now time.Time) string {
	d := due.Sub(now)
	if d < day {
		return fmt.Sprintf("%dh", int64(d/time.Hour))
	}
	return fmt.Sprintf("%dd", int64(d/day))
}

// Entry is a record with its derived bucket and remaining-time label.
type Entry struct {
	Record
	Bucket Bucket
	Label  string // empty for overdue chores
}

// Section is one bucket's worth of entries, in store order.
type Section struct {
	Bucket  Bucket
	Entries []Entry
}

// Group buckets items against now. Every bucket gets a section, even when it
// is empty, so callers can render fixed headings.
func Group(items []Record, now time.Time) []Section {
	sections := make([]Section, len(Buckets))
	for i, b := range Buckets {
		sections[i].Bucket = b
	}
	for _, r := range items {
		b := BucketOf(r.NextDueAt, now)
		e := Entry{Record: r, Bucket: b}
		if b != Overdue {
			e.Label = Remaining(r.NextDueAt, now)
		}
		sections[b].Entries = append(sections[b].Entries, e)
	}
	return sections
}
