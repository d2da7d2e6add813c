package browser

import "fmt"

// InvalidInputError reports a malformed or missing request field.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Reason
}

// ElementNotFoundError reports a selector that resolved to zero elements.
type ElementNotFoundError struct {
	Selector string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("no element found matching selector %q", e.Selector)
}

// LaunchError reports an engine process that could not start.
type LaunchError struct {
	Kind Kind
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Kind, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// NavigationError reports a navigation that timed out or failed.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// ExecutionError reports any other engine failure during an action.
type ExecutionError struct {
	Op  string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
