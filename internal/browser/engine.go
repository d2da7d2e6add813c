package browser

import "strings"

// Kind identifies a browser engine family.
type Kind string

const (
	Chromium Kind = "chromium"
	Firefox  Kind = "firefox"
	WebKit   Kind = "webkit"
)

// DefaultKind is used when a request names no engine or an unknown one.
const DefaultKind = Chromium

func (k Kind) String() string {
	return string(k)
}

// ParseKind maps a requested engine name to a Kind. Matching is
// case-insensitive; missing, empty, or unrecognized names normalize to
// the default rather than erroring.
func ParseKind(name string) Kind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "firefox":
		return Firefox
	case "webkit":
		return WebKit
	case "chromium", "chrome":
		return Chromium
	default:
		return DefaultKind
	}
}
