package browser

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultNavigationTimeoutMs is applied when a navigation request carries
// no timeout of its own.
const DefaultNavigationTimeoutMs = 30_000

// ExecutorOptions configures action behavior outside the browser itself.
type ExecutorOptions struct {
	// DownloadsDir receives screenshots. Must exist or be creatable.
	DownloadsDir string
	// NavigationTimeoutMs overrides the default timeout for navigations
	// that don't specify one. Zero means the package default.
	NavigationTimeoutMs float64
}

// Executor runs page actions against the shared session. All validation
// and typed-error translation happens here; transports only map errors
// to status codes.
type Executor struct {
	manager *Manager
	opts    ExecutorOptions
	logger  *slog.Logger
}

func NewExecutor(manager *Manager, opts ExecutorOptions) *Executor {
	if opts.NavigationTimeoutMs <= 0 {
		opts.NavigationTimeoutMs = DefaultNavigationTimeoutMs
	}
	return &Executor{
		manager: manager,
		opts:    opts,
		logger:  slog.Default().With("component", "browser.executor"),
	}
}

// Manager exposes the underlying session manager for introspection.
func (e *Executor) Manager() *Manager {
	return e.manager
}

// Open ensures a session is running, optionally with a specific engine.
func (e *Executor) Open(browser string) (Kind, error) {
	if _, err := e.manager.Acquire(browser); err != nil {
		return "", err
	}
	kind, _ := e.manager.Current()
	return kind, nil
}

// NavigateRequest carries every knob of a navigation.
type NavigateRequest struct {
	URL             string
	Browser         string
	WaitUntil       string
	TimeoutMs       float64
	ExtraHeaders    map[string]string
	WaitForSelector string
	WaitForText     string
}

// NavigateResult reports what the page looked like once the wait
// condition was satisfied.
type NavigateResult struct {
	URL       string
	Title     string
	Status    int
	WaitUntil string
	TimeoutMs float64
}

func (e *Executor) Navigate(req NavigateRequest) (NavigateResult, error) {
	if req.URL == "" {
		return NavigateResult{}, &InvalidInputError{Reason: "url is required"}
	}
	waitUntil := req.WaitUntil
	switch waitUntil {
	case "":
		waitUntil = "load"
	case "load", "domcontentloaded", "networkidle":
	default:
		return NavigateResult{}, &InvalidInputError{
			Reason: fmt.Sprintf("invalid wait_until %q: must be load, domcontentloaded, or networkidle", req.WaitUntil),
		}
	}
	timeout := req.TimeoutMs
	if timeout <= 0 {
		timeout = e.opts.NavigationTimeoutMs
	}

	page, err := e.manager.Acquire(req.Browser)
	if err != nil {
		return NavigateResult{}, err
	}

	e.logger.Info("navigating", "url", req.URL, "wait_until", waitUntil, "timeout_ms", timeout)
	result, err := page.Goto(req.URL, GotoOptions{
		WaitUntil:       waitUntil,
		TimeoutMs:       timeout,
		ExtraHeaders:    req.ExtraHeaders,
		WaitForSelector: req.WaitForSelector,
		WaitForText:     req.WaitForText,
	})
	if err != nil {
		return NavigateResult{}, &NavigationError{URL: req.URL, Err: err}
	}
	return NavigateResult{
		URL:       result.URL,
		Title:     result.Title,
		Status:    result.Status,
		WaitUntil: waitUntil,
		TimeoutMs: timeout,
	}, nil
}

// Search navigates to a web search for the query and reports the page title.
func (e *Executor) Search(query string) (string, error) {
	result, err := e.Navigate(NavigateRequest{
		URL: "https://duckduckgo.com/?q=" + url.QueryEscape(query),
	})
	if err != nil {
		return "", err
	}
	return result.Title, nil
}

// Click clicks by CSS selector or by visible text. Exactly one of the two
// must be given. A selector matching nothing is ElementNotFound; text
// matching nothing is reported back as an unclicked outcome, not an error.
func (e *Executor) Click(selector, text string) (string, error) {
	if selector == "" && text == "" {
		return "", &InvalidInputError{Reason: "either selector or text must be provided"}
	}
	if selector != "" && text != "" {
		return "", &InvalidInputError{Reason: "provide selector or text, not both"}
	}

	page, err := e.manager.Acquire("")
	if err != nil {
		return "", err
	}

	if selector != "" {
		n, err := page.Count(selector)
		if err != nil {
			return "", &ExecutionError{Op: "click", Err: err}
		}
		if n == 0 {
			return "", &ElementNotFoundError{Selector: selector}
		}
		if err := page.ClickFirst(selector); err != nil {
			return "", &ExecutionError{Op: "click", Err: err}
		}
		return fmt.Sprintf("Clicked element matching selector: %s", selector), nil
	}

	clicked, err := page.ClickText(text)
	if err != nil {
		return "", &ExecutionError{Op: "click", Err: err}
	}
	if !clicked {
		return fmt.Sprintf("No clickable element found with text: %s", text), nil
	}
	return fmt.Sprintf("Clicked element with text: %s", text), nil
}

// Fill sets the first element matching the selector to the value.
func (e *Executor) Fill(selector, value string) (string, error) {
	if selector == "" {
		return "", &InvalidInputError{Reason: "selector is required"}
	}

	page, err := e.manager.Acquire("")
	if err != nil {
		return "", err
	}

	n, err := page.Count(selector)
	if err != nil {
		return "", &ExecutionError{Op: "fill", Err: err}
	}
	if n == 0 {
		return "", &ElementNotFoundError{Selector: selector}
	}
	if err := page.Fill(selector, value); err != nil {
		return "", &ExecutionError{Op: "fill", Err: err}
	}
	return fmt.Sprintf("Filled element matching selector: %s", selector), nil
}

// Screenshot captures the page, or just the element matching selector, to
// a fresh file under the downloads directory and returns its path.
func (e *Executor) Screenshot(selector string) (string, error) {
	page, err := e.manager.Acquire("")
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.opts.DownloadsDir, 0o755); err != nil {
		return "", &ExecutionError{Op: "screenshot", Err: err}
	}
	name := fmt.Sprintf("screenshot-%s.png", uuid.New().String()[:8])
	path := filepath.Join(e.opts.DownloadsDir, name)

	if err := page.Screenshot(path, selector); err != nil {
		return "", &ExecutionError{Op: "screenshot", Err: err}
	}
	e.logger.Info("screenshot saved", "path", path, "selector", selector)
	return path, nil
}

// Eval runs a script in the page and returns whatever it produced.
func (e *Executor) Eval(script string) (any, error) {
	if script == "" {
		return nil, &InvalidInputError{Reason: "script is required"}
	}

	page, err := e.manager.Acquire("")
	if err != nil {
		return nil, err
	}

	value, err := page.Eval(script)
	if err != nil {
		return nil, &ExecutionError{Op: "eval", Err: err}
	}
	return value, nil
}

// Close shuts the browser down. Closing an already-closed browser is a
// no-op; the message distinguishes the two cases.
func (e *Executor) Close() (string, error) {
	closed, err := e.manager.Release()
	if err != nil {
		return "", err
	}
	if !closed {
		return "No browser running", nil
	}
	return "Browser closed", nil
}
