// Package viewer tracks tables that have been handed to a viewer.
//
// Every opened table gets an id, a sequence number and a display offset so
// successive viewers cascade instead of stacking exactly on top of each other.
// Entries are removed when the viewer closes.
package viewer

import (
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/tsimport/internal/table"
	"github.com/google/uuid"
)

// OffsetStep is the display offset added per opened viewer.
const OffsetStep = 20

// Entry describes one open viewer.
type Entry struct {
	ID       uuid.UUID    `json:"id"`
	Seq      int          `json:"seq"`
	Offset   int          `json:"offset"`
	OpenedAt time.Time    `json:"openedAt"`
	Table    *table.Table `json:"-"`
}

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	seq     int
	entries map[uuid.UUID]Entry

	// onChange is called with the open count after every Open and Close.
	onChange func(open int)
}

// NewRegistry creates an empty registry. onChange may be nil; it is called
// with the registry locked and must not call back into it.
func NewRegistry(onChange func(open int)) *Registry {
	return &Registry{
		entries:  make(map[uuid.UUID]Entry),
		onChange: onChange,
	}
}

// Open registers t and returns its entry. Sequence numbers start at 1 and are
// never reused, so offsets keep growing across closes.
func (r *Registry) Open(t *table.Table) Entry {
	r.mu.Lock()
	r.seq++
	e := Entry{
		ID:       uuid.New(),
		Seq:      r.seq,
		Offset:   r.seq * OffsetStep,
		OpenedAt: time.Now(),
		Table:    t,
	}
	r.entries[e.ID] = e
	r.notify(len(r.entries))
	r.mu.Unlock()

	return e
}

// Close removes the entry with id. It reports whether the entry existed.
func (r *Registry) Close(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
		r.notify(len(r.entries))
	}
	return ok
}

// Get returns the entry with id.
func (r *Registry) Get(id uuid.UUID) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// List returns all open entries ordered by sequence number.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// Len returns the number of open entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// notify runs with r.mu held so counts arrive in the order they changed.
func (r *Registry) notify(n int) {
	if r.onChange != nil {
		r.onChange(n)
	}
}
