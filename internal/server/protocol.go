package server

// Wire types for the JSON endpoints. The same shapes are used by the CLI
// client in this package.

type OpenRequest struct {
	Browser string `json:"browser,omitempty"`
}

type NavigateRequest struct {
	URL             string            `json:"url"`
	Browser         string            `json:"browser,omitempty"`
	Timeout         float64           `json:"timeout,omitempty"`
	WaitUntil       string            `json:"wait_until,omitempty"`
	ExtraHTTPHeaders map[string]string `json:"extra_http_headers,omitempty"`
	WaitForSelector string            `json:"wait_for_selector,omitempty"`
	WaitForText     string            `json:"wait_for_text,omitempty"`
}

type NavigateResponse struct {
	Status         string  `json:"status"`
	URL            string  `json:"url"`
	Title          string  `json:"title"`
	ResponseStatus int     `json:"response_status"`
	WaitUntil      string  `json:"wait_until"`
	TimeoutUsed    float64 `json:"timeout_used"`
}

type ClickRequest struct {
	Selector string `json:"selector,omitempty"`
	Text     string `json:"text,omitempty"`
}

type FillRequest struct {
	Selector string `json:"selector"`
	Value    string `json:"value"`
}

type ScreenshotRequest struct {
	Selector string `json:"selector,omitempty"`
}

type ScreenshotResponse struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

type EvalRequest struct {
	Script string `json:"script"`
}

type EvalResponse struct {
	Status string `json:"status"`
	Result any    `json:"result"`
}

// MessageResponse is the generic success envelope.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StatusResponse describes the running service on GET /.
type StatusResponse struct {
	Message string `json:"message"`
	Browser string `json:"browser,omitempty"`
}

// ErrorResponse is the error envelope for 4xx/5xx bodies.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
