// Package chores holds the in-memory chore list, the acting user, and the
// rules for grouping chores by due date and completing them.
package chores

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sadopc/choredeck/internal/grocy"
	"github.com/sadopc/choredeck/internal/journal"
	"go.uber.org/zap"
)

var (
	// ErrNoUserSelected is returned by Complete before any network call when
	// nobody has been picked as the acting user.
	ErrNoUserSelected = errors.New("no user selected")
	// ErrInvalidUser is returned by SelectUser for ids <= 0.
	ErrInvalidUser = errors.New("invalid user id")
	// ErrUnknownChore is returned by Complete for ids not in the current list.
	ErrUnknownChore = errors.New("unknown chore")
)

// Record is a chore as the store keeps it. Records are rebuilt wholesale on
// every load.
type Record struct {
	ID             int
	Name           string
	AssignedUserID int
	NextDueAt      time.Time
}

// Remote is the part of the grocy API the store depends on.
type Remote interface {
	FetchUsers(ctx context.Context) ([]grocy.User, error)
	FetchChores(ctx context.Context) ([]grocy.Chore, error)
	CompleteChore(ctx context.Context, choreID, userID int, completedAt time.Time) error
}

// Journal receives one row per completion attempt.
type Journal interface {
	RecordCompletion(c journal.Completion) (*journal.Completion, error)
}

type EventKind int

const (
	EventItemsReplaced EventKind = iota
	EventUserSelected
)

// Event describes a mutation. Items is a snapshot shared by every listener
// and must not be modified.
type Event struct {
	Kind         EventKind
	Items        []Record
	SelectedUser int
}

// Listener is called synchronously after every mutation, outside the store's
// lock, in subscription order.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Store owns the chore list, the user directory and the selected user. All
// three sit behind one mutex so redraws never see a half-applied mutation.
type Store struct {
	remote  Remote
	journal Journal
	log     *zap.Logger
	now     func() time.Time
	loc     *time.Location

	mu        sync.Mutex
	items     []Record
	selected  int
	dir       Directory
	listeners []subscription
	nextSub   int
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the zone grocy timestamps are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

func WithJournal(j Journal) Option {
	return func(s *Store) { s.journal = j }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

func New(remote Remote, opts ...Option) *Store {
	s := &Store{
		remote: remote,
		now:    time.Now,
		loc:    time.Local,
		log:    zap.L(),
		dir:    NewDirectory(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("chores")
	return s
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.listeners = append(s.listeners, subscription{id: id, fn: l})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// LoadUsers fetches the grocy users into the store's directory.
func (s *Store) LoadUsers(ctx context.Context) (Directory, error) {
	users, err := s.remote.FetchUsers(ctx)
	if err != nil {
		return Directory{}, fmt.Errorf("load users: %w", err)
	}
	dir := NewDirectory(users)
	s.mu.Lock()
	s.dir = dir
	s.mu.Unlock()
	s.log.Info("users loaded", zap.Int("count", dir.Len()))
	return dir, nil
}

// Load replaces the chore list with a fresh fetch. If the fetch fails the
// current list is kept. Chores whose due time cannot be parsed are left out
// and reported as *ItemError values joined into the returned error; the rest
// still replace the list.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.remote.FetchChores(ctx)
	if err != nil {
		s.log.Warn("load chores failed, keeping current list", zap.Error(err))
		return fmt.Errorf("load chores: %w", err)
	}

	items := make([]Record, 0, len(raw))
	var itemErrs []error
	for _, c := range raw {
		due, err := grocy.ParseDueTime(c.NextEstimatedExecutionTime, s.loc)
		if err != nil {
			s.log.Warn("skipping chore with bad due time",
				zap.Int("chore_id", c.ID),
				zap.String("raw", c.NextEstimatedExecutionTime),
			)
			itemErrs = append(itemErrs, &ItemError{ChoreID: c.ID, Name: c.Name, Err: err})
			continue
		}
		items = append(items, Record{
			ID:             c.ID,
			Name:           c.Name,
			AssignedUserID: c.AssignedUserID,
			NextDueAt:      due,
		})
	}

	s.mu.Lock()
	s.items = items
	ev := s.eventLocked(EventItemsReplaced)
	ls := s.listenersLocked()
	s.mu.Unlock()

	s.log.Info("chores loaded", zap.Int("count", len(items)), zap.Int("skipped", len(itemErrs)))
	notify(ls, ev)
	return errors.Join(itemErrs...)
}

// SelectUser sets the acting user. Ids <= 0 are rejected without a change.
func (s *Store) SelectUser(id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidUser, id)
	}
	s.mu.Lock()
	s.selected = id
	ev := s.eventLocked(EventUserSelected)
	ls := s.listenersLocked()
	s.mu.Unlock()

	s.log.Info("user selected", zap.Int("user_id", id))
	notify(ls, ev)
	return nil
}

// Complete marks choreID done as the selected user and, on success, reloads
// the whole list from grocy. The completed chore is never removed locally.
// On failure the list is left as it was.
func (s *Store) Complete(ctx context.Context, choreID int) error {
	s.mu.Lock()
	user := s.selected
	userName, _ := s.dir.Name(user)
	rec, found := findRecord(s.items, choreID)
	s.mu.Unlock()

	if user <= 0 {
		return ErrNoUserSelected
	}
	if !found {
		return fmt.Errorf("%w: %d", ErrUnknownChore, choreID)
	}

	at := s.now().In(s.loc)
	err := s.remote.CompleteChore(ctx, choreID, user, at)
	s.record(rec, user, userName, at, err)
	if err != nil {
		s.log.Warn("complete chore failed", zap.Int("chore_id", choreID), zap.Error(err))
		return fmt.Errorf("complete %q: %w", rec.Name, err)
	}
	s.log.Info("chore completed", zap.Int("chore_id", choreID), zap.Int("user_id", user))

	if err := s.Load(ctx); err != nil {
		var ierr *ItemError
		if errors.As(err, &ierr) {
			return err
		}
		return &RefreshError{Err: err}
	}
	return nil
}

func (s *Store) Items() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecords(s.items)
}

func (s *Store) SelectedUser() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Store) Directory() Directory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir
}

// Sections groups the current list against now.
func (s *Store) Sections(now time.Time) []Section {
	return Group(s.Items(), now)
}

func (s *Store) record(rec Record, user int, userName string, at time.Time, err error) {
	if s.journal == nil {
		return
	}
	outcome, msg := classify(err)
	_, jerr := s.journal.RecordCompletion(journal.Completion{
		ChoreID:   int64(rec.ID),
		ChoreName: rec.Name,
		UserID:    int64(user),
		UserName:  userName,
		TrackedAt: at,
		Outcome:   outcome,
		Message:   msg,
	})
	if jerr != nil {
		s.log.Warn("journal write failed", zap.Error(jerr))
	}
}

func (s *Store) eventLocked(kind EventKind) Event {
	return Event{Kind: kind, Items: cloneRecords(s.items), SelectedUser: s.selected}
}

func (s *Store) listenersLocked() []Listener {
	ls := make([]Listener, len(s.listeners))
	for i, sub := range s.listeners {
		ls[i] = sub.fn
	}
	return ls
}

func notify(ls []Listener, ev Event) {
	for _, l := range ls {
		l(ev)
	}
}

func findRecord(items []Record, id int) (Record, bool) {
	for _, r := range items {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

func cloneRecords(items []Record) []Record {
	if items == nil {
		return nil
	}
	out := make([]Record, len(items))
	copy(out, items)
	return out
}
