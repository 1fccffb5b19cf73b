package prefs

import (
	"fmt"
	"sort"
)

// Ledger stages preference edits until they are flushed to a store.
//
// A key only enters the ledger when its proposed value differs from the
// store's current value. Staging a value equal to the store is a no-op and
// leaves any earlier staged edit for that key in place.
//
// A Ledger is owned by a single goroutine and is not safe for concurrent use.
type Ledger struct {
	store   Reader
	changes map[string]Change
}

// NewLedger returns an empty ledger comparing against store.
func NewLedger(store Reader) *Ledger {
	return &Ledger{
		store:   store,
		changes: make(map[string]Change),
	}
}

// Stage records value for key unless it equals the store's current value.
// It reports whether the ledger was written.
func (l *Ledger) Stage(key, value string) bool {
	if l.store.Get(key) == value {
		return false
	}
	l.changes[key] = Change{Key: key, Value: value}
	return true
}

// Unstage records a removal of key from the store. Nothing is recorded when
// neither the store nor the ledger holds a value for key.
func (l *Ledger) Unstage(key string) {
	if _, staged := l.changes[key]; !staged && !l.store.Has(key) {
		return
	}
	if !l.store.Has(key) {
		delete(l.changes, key)
		return
	}
	l.changes[key] = Change{Key: key, Unset: true}
}

// Contains reports whether key has a staged change.
func (l *Ledger) Contains(key string) bool {
	_, ok := l.changes[key]
	return ok
}

// ContainsAny reports whether any of keys has a staged change.
func (l *Ledger) ContainsAny(keys ...string) bool {
	for _, k := range keys {
		if l.Contains(k) {
			return true
		}
	}
	return false
}

// Value returns the staged change for key.
func (l *Ledger) Value(key string) (Change, bool) {
	c, ok := l.changes[key]
	return c, ok
}

// Keys returns the staged keys in sorted order.
func (l *Ledger) Keys() []string {
	keys := make([]string, 0, len(l.changes))
	for k := range l.changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of staged changes.
func (l *Ledger) Len() int {
	return len(l.changes)
}

// Clear discards every staged change.
func (l *Ledger) Clear() {
	l.changes = make(map[string]Change)
}

// Flush writes every staged change to w in one call and clears the ledger.
// An empty ledger writes nothing. On error the ledger is left intact.
func (l *Ledger) Flush(w Writer) error {
	if len(l.changes) == 0 {
		return nil
	}
	batch := make([]Change, 0, len(l.changes))
	for _, k := range l.Keys() {
		batch = append(batch, l.changes[k])
	}
	if err := w.PutAll(batch); err != nil {
		return fmt.Errorf("flushing %d preference changes: %w", len(batch), err)
	}
	l.Clear()
	return nil
}
