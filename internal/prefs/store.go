// Package prefs holds the preference store, the pending-change ledger and
// the editor model behind the preferences dialog.
//
// The store file is flat key-value YAML where dotted keys (e.g.
// "sam.sampling_window") are literal strings, not nested paths.
package prefs

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Reader is the read side of a preference store.
type Reader interface {
	// Get returns the explicit value for key, else its default, else "".
	Get(key string) string
	// Has reports whether key has an explicit value.
	Has(key string) bool
}

// Writer applies a batch of changes in one write.
type Writer interface {
	PutAll(changes []Change) error
}

// Preferences is a readable and writable preference store.
type Preferences interface {
	Reader
	Writer
}

// Change is one staged edit. Unset removes the key from the store.
type Change struct {
	Key   string
	Value string
	Unset bool
}

// Store implements Preferences on a YAML file.
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string]string
}

// Open creates a Store that reads from and writes to path. A missing file
// yields an empty store; the file is created on the first write.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: make(map[string]string),
	}

	if err := s.readFromDisk(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the explicit value for key, else its default, else "".
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.data[key]; ok {
		return v
	}
	return defaults[key]
}

// GetOr returns the explicit value for key, or def when there is none.
func (s *Store) GetOr(key, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.data[key]; ok {
		return v
	}
	return def
}

// Has reports whether key has an explicit value.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok
}

// GetAsBool reads key as a boolean.
func (s *Store) GetAsBool(key string) bool {
	return AsBool(s, key)
}

// GetAsInt reads key as an integer.
func (s *Store) GetAsInt(key string) int {
	return AsInt(s, key)
}

// GetAsFloat reads key as a float.
func (s *Store) GetAsFloat(key string) float64 {
	return AsFloat(s, key)
}

// GetAsColor reads key as a colour.
func (s *Store) GetAsColor(key string) color.Color {
	return AsColor(s, key)
}

// All returns a copy of the explicit key-value pairs.
func (s *Store) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// Keys returns the explicit keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Put writes key=value and persists to disk.
func (s *Store) Put(key, value string) error {
	return s.PutAll([]Change{{Key: key, Value: value}})
}

// Remove deletes key and persists to disk.
func (s *Store) Remove(key string) error {
	return s.PutAll([]Change{{Key: key, Unset: true}})
}

// PutAll applies changes under a single file lock and writes the result
// once. An empty batch does not touch the disk.
func (s *Store) PutAll(changes []Change) error {
	if len(changes) == 0 {
		return nil
	}
	return s.withLock(func() {
		for _, c := range changes {
			if c.Unset {
				delete(s.data, c.Key)
			} else {
				s.data[c.Key] = c.Value
			}
		}
	})
}

// ClearProxySettings removes every proxy key.
func (s *Store) ClearProxySettings() error {
	changes := make([]Change, 0, len(proxyKeys))
	for _, k := range proxyKeys {
		changes = append(changes, Change{Key: k, Unset: true})
	}
	return s.PutAll(changes)
}

// withLock acquires an exclusive lock on the store's lock file, re-reads
// the file (picking up writes from other processes), calls fn to mutate
// s.data, then atomically writes s.data back to disk.
func (s *Store) withLock(fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}

	f, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("opening preferences lock: %w", err)
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		return fmt.Errorf("acquiring preferences lock: %w", err)
	}
	defer unlockFile(f)

	if err := s.readLocked(); err != nil {
		return err
	}

	fn()

	raw, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	return atomicWrite(s.path, raw)
}

func (s *Store) readFromDisk() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *Store) readLocked() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]string)
			return nil
		}
		return fmt.Errorf("reading preferences file: %w", err)
	}

	fresh := make(map[string]string)
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &fresh); err != nil {
			return fmt.Errorf("parsing preferences file: %w", err)
		}
		if fresh == nil {
			fresh = make(map[string]string)
		}
	}
	s.data = fresh
	return nil
}

// atomicWrite writes data to path via a temporary file and rename.
func atomicWrite(path string, data []byte) error {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return fmt.Errorf("generating random suffix: %w", err)
	}
	tmp := path + ".tmp." + hex.EncodeToString(randBytes)

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing preferences file: %w", err)
	}
	return nil
}

// AsBool reads key as a boolean. Unparseable values fall back to the key's
// default, then false.
func AsBool(r Reader, key string) bool {
	if v, err := strconv.ParseBool(strings.TrimSpace(r.Get(key))); err == nil {
		return v
	}
	v, _ := strconv.ParseBool(defaults[key])
	return v
}

// AsInt reads key as an integer with the same fallback rules as AsBool.
func AsInt(r Reader, key string) int {
	if v, err := strconv.Atoi(strings.TrimSpace(r.Get(key))); err == nil {
		return v
	}
	v, _ := strconv.Atoi(defaults[key])
	return v
}

// AsFloat reads key as a float with the same fallback rules as AsBool.
func AsFloat(r Reader, key string) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(r.Get(key)), 64); err == nil {
		return v
	}
	v, _ := strconv.ParseFloat(defaults[key], 64)
	return v
}

// AsColor reads key as a colour with the same fallback rules as AsBool.
// Returns nil when neither the value nor the default parse.
func AsColor(r Reader, key string) color.Color {
	if c := ParseColor(r.Get(key)); c != nil {
		return c
	}
	return ParseColor(defaults[key])
}

// Compile-time check that Store implements Preferences.
var _ Preferences = (*Store)(nil)
