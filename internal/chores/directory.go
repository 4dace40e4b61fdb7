package chores

import (
	"sort"

	"github.com/sadopc/choredeck/internal/grocy"
)

// Directory maps user ids to display names and back. It is built once from
// the grocy user list and never mutated.
type Directory struct {
	names map[int]string
	ids   map[string]int
	users []grocy.User
}

// NewDirectory indexes users. When two users share a display name the
// reverse lookup keeps the lower id.
func NewDirectory(users []grocy.User) Directory {
	d := Directory{
		names: make(map[int]string, len(users)),
		ids:   make(map[string]int, len(users)),
		users: make([]grocy.User, len(users)),
	}
	copy(d.users, users)
	sort.Slice(d.users, func(i, j int) bool { return d.users[i].ID < d.users[j].ID })
	for _, u := range d.users {
		d.names[u.ID] = u.DisplayName
		if _, dup := d.ids[u.DisplayName]; !dup {
			d.ids[u.DisplayName] = u.ID
		}
	}
	return d
}

// Name returns the display name for id.
func (d Directory) Name(id int) (string, bool) {
	n, ok := d.names[id]
	return n, ok
}

// ID returns the user id for a display name.
func (d Directory) ID(name string) (int, bool) {
	id, ok := d.ids[name]
	return id, ok
}

// Users returns the users ordered by id.
func (d Directory) Users() []grocy.User {
	out := make([]grocy.User, len(d.users))
	copy(out, d.users)
	return out
}

func (d Directory) Len() int { return len(d.users) }
