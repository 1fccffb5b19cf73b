// Package oauthstore keeps the Google OAuth token and, when the user allows
// it, persists it between runs.
package oauthstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned by TokenSource when no token has been set.
var ErrNoToken = errors.New("no oauth token")

// Store holds the current token in memory and mirrors it to a file while
// saving is enabled.
type Store struct {
	path string

	mu    sync.Mutex
	save  bool
	token *oauth2.Token
}

// New opens the store at path. With save set, a previously saved token is
// loaded; a missing file is not an error.
func New(path string, save bool) (*Store, error) {
	s := &Store{path: path, save: save}
	if !save {
		return s, nil
	}
	tok, err := readToken(path)
	if err != nil {
		return nil, err
	}
	s.token = tok
	return s, nil
}

// Token returns the current token, or nil.
func (s *Store) Token() *oauth2.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// TokenSource returns a source yielding the current token.
func (s *Store) TokenSource() (oauth2.TokenSource, error) {
	tok := s.Token()
	if tok == nil {
		return nil, ErrNoToken
	}
	return oauth2.StaticTokenSource(tok), nil
}

// SetToken replaces the current token and saves it if saving is enabled.
func (s *Store) SetToken(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = tok
	if !s.save {
		return nil
	}
	if tok == nil {
		return s.removeLocked()
	}
	return writeToken(s.path, tok)
}

// Saving reports whether the token is persisted.
func (s *Store) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save
}

// UpdateSaveOption turns persistence on or off. Turning it on writes the
// current token; turning it off deletes the saved copy.
func (s *Store) UpdateSaveOption(save bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save = save
	if !save {
		return s.removeLocked()
	}
	if s.token == nil {
		return nil
	}
	return writeToken(s.path, s.token)
}

func (s *Store) removeLocked() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing saved token: %w", err)
	}
	return nil
}

func readToken(path string) (*oauth2.Token, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading saved token: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("parsing saved token: %w", err)
	}
	return &tok, nil
}

func writeToken(path string, tok *oauth2.Token) error {
	raw, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	// CreateTemp picks a unique name and opens it 0600
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(raw); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing token: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing token: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}
