package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Metadata records what last ran against the profile directory. It is
// advisory only; the browser owns everything else in the directory.
type Metadata struct {
	Browser     string    `json:"browser"`
	Headless    bool      `json:"headless"`
	LaunchCount int64     `json:"launch_count"`
	FirstLaunch time.Time `json:"first_launch"`
	LastLaunch  time.Time `json:"last_launch"`
	LastClose   time.Time `json:"last_close,omitempty"`
}

// Store persists one metadata file alongside the browser profile.
type Store struct {
	Root string
}

func (s Store) EnsureDir() error {
	return os.MkdirAll(s.Root, 0o755)
}

func (s Store) path() string {
	return filepath.Join(s.Root, "browserd.json")
}

func (s Store) Load() (Metadata, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		return Metadata{}, err
	}
	var m Metadata
	if err := json.Unmarshal(b, &m); err != nil {
		return Metadata{}, err
	}
	return m, nil
}

func (s Store) save(m Metadata) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), b, 0o644)
}

// RecordLaunch updates the metadata for a fresh browser launch. A missing
// or corrupt file starts over rather than erroring.
func (s Store) RecordLaunch(browser string, headless bool) (Metadata, error) {
	m, err := s.Load()
	if err != nil {
		m = Metadata{FirstLaunch: time.Now().UTC()}
	}
	m.Browser = browser
	m.Headless = headless
	m.LaunchCount++
	m.LastLaunch = time.Now().UTC()
	return m, s.save(m)
}

// RecordClose stamps the close time of the current session.
func (s Store) RecordClose() error {
	m, err := s.Load()
	if err != nil {
		return nil
	}
	m.LastClose = time.Now().UTC()
	return s.save(m)
}
