package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, engine Engine) *Manager {
	t.Helper()
	return NewManager(engine, ManagerOptions{
		Headless:     true,
		ProfileDir:   t.TempDir(),
		DownloadsDir: t.TempDir(),
	})
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"":         Chromium,
		"chromium": Chromium,
		"Chromium": Chromium,
		"chrome":   Chromium,
		"firefox":  Firefox,
		"FIREFOX":  Firefox,
		"webkit":   WebKit,
		" webkit ": WebKit,
		"safari":   Chromium,
		"edge":     Chromium,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseKind(input), "input %q", input)
	}
}

func TestAcquireLaunchesOnceAndReuses(t *testing.T) {
	engine := &FakeEngine{}
	m := newTestManager(t, engine)

	first, err := m.Acquire("")
	require.NoError(t, err)
	second, err := m.Acquire("")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, []Kind{Chromium}, engine.StartCalls)
}

func TestAcquireExplicitSameEngineReuses(t *testing.T) {
	engine := &FakeEngine{}
	m := newTestManager(t, engine)

	_, err := m.Acquire("firefox")
	require.NoError(t, err)
	_, err = m.Acquire("Firefox")
	require.NoError(t, err)

	assert.Equal(t, []Kind{Firefox}, engine.StartCalls)
	assert.Equal(t, 1, engine.Live())
}

func TestAcquireEngineSwitchRelaunches(t *testing.T) {
	engine := &FakeEngine{}
	m := newTestManager(t, engine)

	_, err := m.Acquire("chromium")
	require.NoError(t, err)
	_, err = m.Acquire("webkit")
	require.NoError(t, err)

	assert.Equal(t, []Kind{Chromium, WebKit}, engine.StartCalls)
	require.Len(t, engine.Sessions, 2)
	assert.True(t, engine.Sessions[0].Closed, "old session must be closed before relaunch")
	assert.False(t, engine.Sessions[1].Closed)

	kind, running := m.Current()
	require.True(t, running)
	assert.Equal(t, WebKit, kind)
}

func TestAcquireWithoutEngineKeepsRunningSession(t *testing.T) {
	engine := &FakeEngine{}
	m := newTestManager(t, engine)

	_, err := m.Acquire("firefox")
	require.NoError(t, err)
	_, err = m.Acquire("")
	require.NoError(t, err)

	assert.Equal(t, []Kind{Firefox}, engine.StartCalls)
}

func TestAcquireRelaunchesStaleSession(t *testing.T) {
	engine := &FakeEngine{}
	m := newTestManager(t, engine)

	_, err := m.Acquire("")
	require.NoError(t, err)
	engine.Sessions[0].page.IsClosed = true

	page, err := m.Acquire("")
	require.NoError(t, err)

	assert.False(t, page.Closed())
	assert.Equal(t, []Kind{Chromium, Chromium}, engine.StartCalls)
	assert.Equal(t, 1, engine.Live())
}

func TestAcquireLaunchFailureLeavesNoSession(t *testing.T) {
	boom := errors.New("no executable")
	engine := &FakeEngine{StartErr: boom}
	m := newTestManager(t, engine)

	_, err := m.Acquire("")
	var launchErr *LaunchError
	require.ErrorAs(t, err, &launchErr)
	assert.Equal(t, Chromium, launchErr.Kind)
	assert.ErrorIs(t, err, boom)

	_, running := m.Current()
	assert.False(t, running)

	// A later attempt starts clean.
	engine.StartErr = nil
	_, err = m.Acquire("")
	require.NoError(t, err)
}

func TestReleaseIsIdempotent(t *testing.T) {
	engine := &FakeEngine{}
	m := newTestManager(t, engine)

	closed, err := m.Release()
	require.NoError(t, err)
	assert.False(t, closed)

	_, err = m.Acquire("")
	require.NoError(t, err)

	closed, err = m.Release()
	require.NoError(t, err)
	assert.True(t, closed)

	closed, err = m.Release()
	require.NoError(t, err)
	assert.False(t, closed)
	assert.Equal(t, 0, engine.Live())
}
