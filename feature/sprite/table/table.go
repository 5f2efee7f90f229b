package table

import (
	"slices"
	"strings"
	"sync"

	"sprite-index/feature/sprite/models"
)

// Table is the frozen suffix table. All methods are read-only, so it can be
// shared by concurrent readers once built.
type Table struct {
	order      []string
	entries    map[string]models.Entry
	defaults   map[int]int
	evolutions map[int][]int
	byIdentity map[models.Identity]string
}

func newTable(order []string, entries map[string]models.Entry, defaults map[int]int, evolutions map[int][]int) *Table {
	t := &Table{
		order:      order,
		entries:    entries,
		defaults:   defaults,
		evolutions: evolutions,
		byIdentity: make(map[models.Identity]string),
	}
	for _, key := range order {
		for _, target := range entries[key].Targets {
			if _, ok := t.byIdentity[target.Identity]; !ok {
				t.byIdentity[target.Identity] = key
			}
		}
	}
	return t
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.order) }

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string {
	return append([]string(nil), t.order...)
}

// Entry returns a copy of the entry stored under key.
func (t *Table) Entry(key string) (models.Entry, bool) {
	e, ok := t.entries[key]
	if !ok {
		return models.Entry{}, false
	}
	return e.Clone(), true
}

// Entries returns copies of all entries in insertion order.
func (t *Table) Entries() []models.Entry {
	out := make([]models.Entry, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.entries[key].Clone())
	}
	return out
}

// Lookup finds the first key, in insertion order, that prefixes name. It
// returns the owning key and the unmatched remainder. Validation guarantees
// at most one key can match.
func (t *Table) Lookup(name string) (key, rest string, ok bool) {
	for _, k := range t.order {
		if strings.HasPrefix(name, k) {
			return k, name[len(k):], true
		}
	}
	return "", "", false
}

// KeyFor returns the first key rendering the given (modifier-free) identity.
func (t *Table) KeyFor(id models.Identity) (string, bool) {
	key, ok := t.byIdentity[id.Base()]
	return key, ok
}

// DefaultForm returns the form id registered as the creature's default.
func (t *Table) DefaultForm(creatureID int) (int, bool) {
	form, ok := t.defaults[creatureID]
	return form, ok
}

// HasEvolution reports whether the creature has the temporary evolution.
func (t *Table) HasEvolution(creatureID, evolution int) bool {
	return slices.Contains(t.evolutions[creatureID], evolution)
}

// Hits records which entries were observed during a matching pass. The
// table itself is never mutated after Build; hits live beside it.
type Hits struct {
	mu   sync.RWMutex
	keys map[string]struct{}
}

// NewHits creates an empty hit set.
func NewHits() *Hits {
	return &Hits{keys: make(map[string]struct{})}
}

// Mark records an observation of key.
func (h *Hits) Mark(key string) {
	h.mu.Lock()
	h.keys[key] = struct{}{}
	h.mu.Unlock()
}

// Has reports whether key was observed.
func (h *Hits) Has(key string) bool {
	if h == nil {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.keys[key]
	return ok
}

// WithHits returns the entries with their hit flag filled from hits.
func (t *Table) WithHits(hits *Hits) []models.Entry {
	out := t.Entries()
	for i := range out {
		out[i].Hit = hits.Has(out[i].Key)
	}
	return out
}
