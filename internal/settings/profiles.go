package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	profilesDirName   = "profiles"
	activeProfileFile = "active"
)

// ProfileStore keeps named snapshots of the Configuration Document, each
// persisted as its own JSON file, plus an active-profile pointer. Loading
// a profile replaces the caller's in-memory document wholesale; there is
// no field-level mixing between profiles.
type ProfileStore struct {
	dir string
}

// NewProfileStore creates a profile store inside the given config
// directory (conventionally Store.Dir()).
func NewProfileStore(configDir string) *ProfileStore {
	return &ProfileStore{dir: filepath.Join(configDir, profilesDirName)}
}

func (p *ProfileStore) profilePath(name string) string {
	return filepath.Join(p.dir, name+".json")
}

func (p *ProfileStore) activePath() string {
	return filepath.Join(p.dir, activeProfileFile)
}

// validName rejects names that are empty after trimming or that cannot
// serve as a file name. Names are case-sensitive and stored untrimmed.
func validName(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// List returns all profile names, sorted for a stable order.
func (p *ProfileStore) List() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading profiles directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Active returns the active profile name, or "" when none is set. The
// pointer is guaranteed to resolve to an existing profile: a stale pointer
// (profile file removed out of band) reads as empty.
func (p *ProfileStore) Active() (string, error) {
	data, err := os.ReadFile(p.activePath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading active profile: %w", err)
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", nil
	}
	if _, err := os.Stat(p.profilePath(name)); err != nil {
		return "", nil
	}
	return name, nil
}

func (p *ProfileStore) setActive(name string) error {
	if name == "" {
		err := os.Remove(p.activePath())
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clearing active profile: %w", err)
		}
		return nil
	}
	return writeFileAtomic(p.activePath(), []byte(name+"\n"))
}

// Load reads the named profile and marks it active. The returned document
// is the complete replacement for the caller's in-memory document.
func (p *ProfileStore) Load(name string) (Document, error) {
	doc := Defaults()
	if !validName(name) {
		return doc, fmt.Errorf("profile %q: %w", name, ErrNotFound)
	}
	data, err := os.ReadFile(p.profilePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return doc, fmt.Errorf("profile %q: %w", name, ErrNotFound)
		}
		return doc, fmt.Errorf("reading profile %q: %w", name, err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Defaults(), &ParseError{Path: p.profilePath(name), Err: err}
	}
	if err := p.setActive(name); err != nil {
		return Defaults(), err
	}
	return doc, nil
}

// Save inserts or overwrites the named profile. The active pointer is not
// changed, even when overwriting the active profile.
func (p *ProfileStore) Save(name string, doc Document) error {
	if !validName(name) {
		return fmt.Errorf("profile %q: %w", name, ErrInvalidName)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile %q: %w", name, err)
	}
	return writeFileAtomic(p.profilePath(name), data)
}

// Delete removes the named profile. Deleting the active profile clears the
// active pointer so it never dangles.
func (p *ProfileStore) Delete(name string) error {
	if !validName(name) {
		return fmt.Errorf("profile %q: %w", name, ErrNotFound)
	}
	if err := os.Remove(p.profilePath(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("profile %q: %w", name, ErrNotFound)
		}
		return fmt.Errorf("deleting profile %q: %w", name, err)
	}
	// The profile file is already gone, so read the raw pointer rather
	// than Active(), which only reports pointers that still resolve.
	data, err := os.ReadFile(p.activePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading active profile: %w", err)
	}
	if strings.TrimSpace(string(data)) == name {
		return p.setActive("")
	}
	return nil
}
