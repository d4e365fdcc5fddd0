package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	settingsFileName = "settings.json"
	locationFileName = "location"
)

// locationManager tracks where the main document lives. The location is a
// single path stored in a pointer file inside the config directory, so the
// document itself can live anywhere the user points it at. Profiles are a
// separate persistence mechanism and never touch the pointer.
type locationManager struct {
	dir string
}

func (m locationManager) pointerPath() string {
	return filepath.Join(m.dir, locationFileName)
}

func (m locationManager) defaultPath() string {
	return filepath.Join(m.dir, settingsFileName)
}

// current returns the active settings path, computing and persisting the
// platform default on first use.
func (m locationManager) current() (string, error) {
	data, err := os.ReadFile(m.pointerPath())
	if err == nil {
		path := strings.TrimSpace(string(data))
		if path != "" {
			return path, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("reading settings location: %w", err)
	}
	path := m.defaultPath()
	if err := m.set(path); err != nil {
		return "", err
	}
	return path, nil
}

func (m locationManager) set(path string) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(m.pointerPath(), []byte(path+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing settings location: %w", err)
	}
	return nil
}

// reset points the location back at the platform default. Content at the
// old location is left untouched.
func (m locationManager) reset() (string, error) {
	path := m.defaultPath()
	if err := m.set(path); err != nil {
		return "", err
	}
	return path, nil
}
