package browser

import (
	"log/slog"
	"sync"

	"github.com/flocard/browserd/internal/profile"
)

// ManagerOptions configures the single shared session.
type ManagerOptions struct {
	Headless     bool
	ProfileDir   string
	DownloadsDir string
	// DefaultKind is used when a request names no engine. Zero value means
	// the package default.
	DefaultKind Kind
}

// Manager owns the one browser session shared by every request. All
// acquisition and release goes through its mutex; handlers never touch
// the session concurrently.
type Manager struct {
	mu      sync.Mutex
	engine  Engine
	opts    ManagerOptions
	meta    profile.Store
	logger  *slog.Logger
	session Session
	page    Page
	kind    Kind
}

func NewManager(engine Engine, opts ManagerOptions) *Manager {
	if opts.DefaultKind == "" {
		opts.DefaultKind = DefaultKind
	}
	return &Manager{
		engine: engine,
		opts:   opts,
		meta:   profile.Store{Root: opts.ProfileDir},
		logger: slog.Default().With("component", "browser.manager"),
	}
}

// Acquire returns the shared page, launching or relaunching the browser as
// needed. An empty requested engine reuses whatever is running; a named
// engine that differs from the running one tears the session down and
// relaunches with the same profile directory.
func (m *Manager) Acquire(requested string) (Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	explicit := requested != ""
	want := m.opts.DefaultKind
	if explicit {
		want = ParseKind(requested)
	}

	if m.session != nil {
		stale := m.page == nil || m.page.Closed()
		switching := explicit && want != m.kind
		if !stale && !switching {
			return m.page, nil
		}
		if switching {
			m.logger.Info("switching engine", "from", m.kind, "to", want)
		} else {
			m.logger.Warn("session is stale, relaunching", "engine", m.kind)
		}
		m.closeLocked()
	}

	return m.launchLocked(want)
}

func (m *Manager) launchLocked(kind Kind) (Page, error) {
	m.logger.Info("launching browser", "engine", kind, "headless", m.opts.Headless)
	session, err := m.engine.Start(StartOptions{
		Kind:         kind,
		Headless:     m.opts.Headless,
		ProfileDir:   m.opts.ProfileDir,
		DownloadsDir: m.opts.DownloadsDir,
	})
	if err != nil {
		return nil, &LaunchError{Kind: kind, Err: err}
	}
	m.session = session
	m.page = session.Page()
	m.kind = kind
	if _, err := m.meta.RecordLaunch(kind.String(), m.opts.Headless); err != nil {
		m.logger.Warn("failed to record profile metadata", "error", err)
	}
	return m.page, nil
}

func (m *Manager) closeLocked() {
	if m.session == nil {
		return
	}
	if err := m.session.Close(); err != nil {
		m.logger.Warn("error closing session", "engine", m.kind, "error", err)
	}
	_ = m.meta.RecordClose()
	m.session = nil
	m.page = nil
	m.kind = ""
}

// Release closes the session if one is running. It reports whether a
// session was live; calling it with nothing running is not an error.
func (m *Manager) Release() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return false, nil
	}
	m.logger.Info("closing browser", "engine", m.kind)
	m.closeLocked()
	return true, nil
}

// Current reports the running engine, or false when no session is live.
func (m *Manager) Current() (Kind, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return "", false
	}
	return m.kind, true
}
