package browser

// StartOptions configures a session launch.
type StartOptions struct {
	Kind         Kind
	Headless     bool
	ProfileDir   string
	DownloadsDir string
}

// Engine launches browser sessions. The Playwright engine backs the real
// service; the fake engine backs tests.
type Engine interface {
	Start(opts StartOptions) (Session, error)
}

// Session is one live browser process with its active page.
type Session interface {
	Page() Page
	Close() error
}

// GotoOptions configures a navigation.
type GotoOptions struct {
	// WaitUntil is one of "load", "domcontentloaded", "networkidle".
	WaitUntil string
	TimeoutMs float64
	// ExtraHeaders are applied to the page before navigating.
	ExtraHeaders map[string]string
	// WaitForSelector, if set, blocks after navigation until the selector
	// appears, within the same timeout.
	WaitForSelector string
	// WaitForText, if set, blocks after navigation until the page body
	// contains the text, within the same timeout.
	WaitForText string
}

// GotoResult reports the outcome of a navigation.
type GotoResult struct {
	URL    string
	Title  string
	Status int
}

// Page is the active browsable surface within a session.
type Page interface {
	Goto(url string, opts GotoOptions) (GotoResult, error)

	// Count returns how many elements match the selector.
	Count(selector string) (int, error)

	// ClickFirst clicks the first element matching the selector.
	ClickFirst(selector string) error

	// ClickText clicks the first interactive element, in document order,
	// whose visible text contains the given text (case-insensitive).
	// It reports whether any element matched.
	ClickText(text string) (bool, error)

	// Fill sets the first matching input to the literal value.
	Fill(selector, value string) error

	// Screenshot captures the element matching selector, or the full page
	// when selector is empty, and writes it to path.
	Screenshot(path string, selector string) error

	// Eval runs the script in the page context and returns its value as-is.
	Eval(script string) (any, error)

	URL() string
	Title() (string, error)

	// Closed reports whether the page handle is detached or its process
	// has gone away.
	Closed() bool
}
