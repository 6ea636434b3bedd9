// Package linktable holds the key to URL mapping produced by one imagelinks run.
package linktable

import (
	"fmt"
	"sort"
)

// CollisionMode controls what Put does when a key is already taken by a
// different file.
type CollisionMode string

const (
	// LastWins overwrites the earlier entry without reporting anything.
	LastWins CollisionMode = "last-wins"
	// ErrorOnCollision rejects the second file with a *CollisionError.
	ErrorOnCollision CollisionMode = "error"
)

// ParseCollisionMode converts a configuration value into a CollisionMode.
// The empty string selects LastWins.
func ParseCollisionMode(s string) (CollisionMode, error) {
	switch CollisionMode(s) {
	case "", LastWins:
		return LastWins, nil
	case ErrorOnCollision:
		return ErrorOnCollision, nil
	}
	return "", fmt.Errorf("unknown collision mode %q (want %q or %q)", s, LastWins, ErrorOnCollision)
}

// CollisionError reports two filenames that normalize to the same key.
type CollisionError struct {
	Key      string
	Existing string // Filename already holding the key
	Incoming string // Filename that tried to claim it
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("key collision: %q and %q both normalize to %q", e.Existing, e.Incoming, e.Key)
}

// Table maps keys to URLs and remembers which filename produced each key.
type Table struct {
	mode    CollisionMode
	links   map[string]string
	sources map[string]string
}

// New creates an empty table with the given collision mode.
func New(mode CollisionMode) *Table {
	if mode == "" {
		mode = LastWins
	}
	return &Table{
		mode:    mode,
		links:   make(map[string]string),
		sources: make(map[string]string),
	}
}

// Put records url under key for filename.
// Re-adding the same filename replaces its entry in either mode.
func (t *Table) Put(key, url, filename string) error {
	if existing, ok := t.sources[key]; ok && existing != filename && t.mode == ErrorOnCollision {
		return &CollisionError{
			Key:      key,
			Existing: existing,
			Incoming: filename,
		}
	}
	t.links[key] = url
	t.sources[key] = filename
	return nil
}

// Source returns the filename that produced key.
func (t *Table) Source(key string) (string, bool) {
	name, ok := t.sources[key]
	return name, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.links)
}

// Keys returns all keys in sorted order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.links))
	for k := range t.links {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the key to URL mapping.
func (t *Table) Entries() map[string]string {
	result := make(map[string]string, len(t.links))
	for k, v := range t.links {
		result[k] = v
	}
	return result
}
