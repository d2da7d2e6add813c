package browser

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T, engine *FakeEngine) *Executor {
	t.Helper()
	m := NewManager(engine, ManagerOptions{
		Headless:     true,
		ProfileDir:   t.TempDir(),
		DownloadsDir: t.TempDir(),
	})
	return NewExecutor(m, ExecutorOptions{DownloadsDir: t.TempDir()})
}

func TestNavigateDefaults(t *testing.T) {
	engine := &FakeEngine{NextPage: &FakePage{TitleValue: "Example", StatusValue: 200}}
	exec := newTestExecutor(t, engine)

	result, err := exec.Navigate(NavigateRequest{URL: "https://example.com"})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", result.URL)
	assert.Equal(t, "Example", result.Title)
	assert.Equal(t, 200, result.Status)
	assert.Equal(t, "load", result.WaitUntil)
	assert.Equal(t, float64(DefaultNavigationTimeoutMs), result.TimeoutMs)
}

func TestNavigatePassesOptionsThrough(t *testing.T) {
	page := &FakePage{StatusValue: 204}
	engine := &FakeEngine{NextPage: page}
	exec := newTestExecutor(t, engine)

	result, err := exec.Navigate(NavigateRequest{
		URL:             "https://example.com/app",
		WaitUntil:       "networkidle",
		TimeoutMs:       5000,
		ExtraHeaders:    map[string]string{"Authorization": "Bearer x"},
		WaitForSelector: "#main",
		WaitForText:     "welcome",
	})
	require.NoError(t, err)

	assert.Equal(t, "networkidle", result.WaitUntil)
	assert.Equal(t, float64(5000), result.TimeoutMs)
	assert.Equal(t, "networkidle", page.LastGoto.WaitUntil)
	assert.Equal(t, "Bearer x", page.LastGoto.ExtraHeaders["Authorization"])
	assert.Equal(t, "#main", page.LastGoto.WaitForSelector)
	assert.Equal(t, "welcome", page.LastGoto.WaitForText)
}

func TestNavigateRejectsBadInput(t *testing.T) {
	exec := newTestExecutor(t, &FakeEngine{})

	var invalid *InvalidInputError
	_, err := exec.Navigate(NavigateRequest{})
	require.ErrorAs(t, err, &invalid)

	_, err = exec.Navigate(NavigateRequest{URL: "https://example.com", WaitUntil: "eventually"})
	require.ErrorAs(t, err, &invalid)
}

func TestNavigateWrapsGotoFailure(t *testing.T) {
	boom := errors.New("net::ERR_NAME_NOT_RESOLVED")
	engine := &FakeEngine{NextPage: &FakePage{GotoErr: boom}}
	exec := newTestExecutor(t, engine)

	_, err := exec.Navigate(NavigateRequest{URL: "https://nope.invalid"})
	var navErr *NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.Equal(t, "https://nope.invalid", navErr.URL)
	assert.ErrorIs(t, err, boom)
}

func TestClickRequiresExactlyOneTarget(t *testing.T) {
	exec := newTestExecutor(t, &FakeEngine{})

	var invalid *InvalidInputError
	_, err := exec.Click("", "")
	require.ErrorAs(t, err, &invalid)

	_, err = exec.Click("#btn", "Submit")
	require.ErrorAs(t, err, &invalid)
}

func TestClickBySelector(t *testing.T) {
	page := &FakePage{SelectorCounts: map[string]int{"#btn": 2}}
	engine := &FakeEngine{NextPage: page}
	exec := newTestExecutor(t, engine)

	msg, err := exec.Click("#btn", "")
	require.NoError(t, err)
	assert.Contains(t, msg, "#btn")
	assert.Equal(t, []string{"#btn"}, page.Clicks)
}

func TestClickSelectorNotFound(t *testing.T) {
	engine := &FakeEngine{NextPage: &FakePage{}}
	exec := newTestExecutor(t, engine)

	_, err := exec.Click("#missing", "")
	var notFound *ElementNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "#missing", notFound.Selector)
}

func TestClickByTextPicksFirstInDocumentOrder(t *testing.T) {
	page := &FakePage{Texts: []string{"Sign up", "Log in", "Log in with SSO"}}
	engine := &FakeEngine{NextPage: page}
	exec := newTestExecutor(t, engine)

	msg, err := exec.Click("", "log in")
	require.NoError(t, err)
	assert.Contains(t, msg, "Clicked")
	assert.Equal(t, []string{"Log in"}, page.TextClicks)
}

func TestClickByTextNoMatchIsNotAnError(t *testing.T) {
	engine := &FakeEngine{NextPage: &FakePage{Texts: []string{"Home"}}}
	exec := newTestExecutor(t, engine)

	msg, err := exec.Click("", "checkout")
	require.NoError(t, err)
	assert.Contains(t, msg, "No clickable element found")
}

func TestFillChecksExistenceFirst(t *testing.T) {
	page := &FakePage{}
	engine := &FakeEngine{NextPage: page}
	exec := newTestExecutor(t, engine)

	_, err := exec.Fill("input[name=q]", "golang")
	var notFound *ElementNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, page.Fills, "fill must not run against a missing element")
}

func TestFill(t *testing.T) {
	page := &FakePage{SelectorCounts: map[string]int{"input[name=q]": 1}}
	engine := &FakeEngine{NextPage: page}
	exec := newTestExecutor(t, engine)

	msg, err := exec.Fill("input[name=q]", "golang")
	require.NoError(t, err)
	assert.Contains(t, msg, "input[name=q]")
	assert.Equal(t, "golang", page.Fills["input[name=q]"])
}

func TestScreenshotWritesFile(t *testing.T) {
	engine := &FakeEngine{}
	exec := newTestExecutor(t, engine)

	path, err := exec.Screenshot("")
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "returned path must exist")
	assert.Contains(t, path, "screenshot-")
}

func TestScreenshotFailureIsExecutionError(t *testing.T) {
	engine := &FakeEngine{NextPage: &FakePage{ActionErr: errors.New("target closed")}}
	exec := newTestExecutor(t, engine)

	_, err := exec.Screenshot("#chart")
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
}

func TestEval(t *testing.T) {
	engine := &FakeEngine{NextPage: &FakePage{EvalValue: float64(42)}}
	exec := newTestExecutor(t, engine)

	value, err := exec.Eval("6 * 7")
	require.NoError(t, err)
	assert.Equal(t, float64(42), value)

	_, err = exec.Eval("")
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
}

func TestEvalFailureIsExecutionError(t *testing.T) {
	engine := &FakeEngine{NextPage: &FakePage{EvalErr: errors.New("ReferenceError: x is not defined")}}
	exec := newTestExecutor(t, engine)

	_, err := exec.Eval("x")
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
}

func TestCloseMessages(t *testing.T) {
	engine := &FakeEngine{}
	exec := newTestExecutor(t, engine)

	msg, err := exec.Close()
	require.NoError(t, err)
	assert.Equal(t, "No browser running", msg)

	_, err = exec.Open("")
	require.NoError(t, err)

	msg, err = exec.Close()
	require.NoError(t, err)
	assert.Equal(t, "Browser closed", msg)

	msg, err = exec.Close()
	require.NoError(t, err)
	assert.Equal(t, "No browser running", msg)
}

func TestEndToEndFlow(t *testing.T) {
	page := &FakePage{
		TitleValue:     "Login",
		StatusValue:    200,
		SelectorCounts: map[string]int{"input[name=user]": 1, "button[type=submit]": 1},
	}
	engine := &FakeEngine{NextPage: page}
	exec := newTestExecutor(t, engine)

	_, err := exec.Navigate(NavigateRequest{URL: "https://example.com/login"})
	require.NoError(t, err)

	_, err = exec.Fill("input[name=user]", "alice")
	require.NoError(t, err)

	_, err = exec.Click("button[type=submit]", "")
	require.NoError(t, err)

	path, err := exec.Screenshot("")
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	require.NoError(t, statErr)

	msg, err := exec.Close()
	require.NoError(t, err)
	assert.Equal(t, "Browser closed", msg)

	assert.Equal(t, 1, len(engine.Sessions))
	assert.Equal(t, 0, engine.Live(), "no session may outlive close")
}
