package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mordilloSan/go-logger/logger"
)

const appDirName = "rosterbee"

// Store owns the main Configuration Document on disk. One authoritative
// instance is constructed at startup and handed to everything that reads
// or writes settings; there are no package-level globals.
//
// The store provides no mutual exclusion beyond the atomic replace on
// save: two overlapping saves are not merged, the last successful write
// wins. That is accepted behavior, not a bug.
type Store struct {
	dir      string
	location locationManager
}

// NewStore creates a store rooted at the platform config directory
// (e.g. ~/.config/rosterbee on Linux).
func NewStore() (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolving user config directory: %w", err)
	}
	return NewStoreAt(filepath.Join(base, appDirName))
}

// NewStoreAt creates a store rooted at an explicit directory.
func NewStoreAt(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}
	return &Store{dir: dir, location: locationManager{dir: dir}}, nil
}

// Dir returns the config directory the store is rooted at.
func (s *Store) Dir() string { return s.dir }

// Locate returns the current settings location, computing and persisting
// the platform default on first use.
func (s *Store) Locate() (string, error) {
	return s.location.current()
}

// Exists reports whether a document is present at the current location.
func (s *Store) Exists() (bool, error) {
	path, err := s.Locate()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Load reads the document at the current location. An absent file yields
// the all-defaults document without error. An unparseable file also yields
// defaults; the parse failure is logged as a diagnostic, never a startup
// abort. A parseable file with missing fields gets each missing field
// filled with its default: the merge is per field, not all-or-nothing.
func (s *Store) Load() (Document, error) {
	path, err := s.Locate()
	if err != nil {
		return Defaults(), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return Defaults(), fmt.Errorf("reading settings: %w", err)
	}
	doc := Defaults()
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warnf("settings file %s is unreadable, falling back to defaults: %v", path, err)
		return Defaults(), nil
	}
	return doc, nil
}

// Save serializes the full document and atomically replaces the file at
// the current location. A concurrent reader never observes a partial file.
func (s *Store) Save(doc Document) error {
	path, err := s.Locate()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return writeFileAtomic(path, data)
}

// Reset persists the all-defaults document at the current location and
// returns it.
func (s *Store) Reset() (Document, error) {
	doc := Defaults()
	if err := s.Save(doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// ResetLocation recomputes the platform default location and returns it.
// Content at the old location is left untouched.
func (s *Store) ResetLocation() (string, error) {
	return s.location.reset()
}

// writeFileAtomic writes data to a temporary file in the destination
// directory and renames it over the target.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func splitAssignments(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
