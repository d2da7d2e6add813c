// Package mcp exposes the browser actions as MCP tools over streamable HTTP.
package mcp

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/flocard/browserd/internal/browser"
)

// NewHandler returns an http.Handler serving the MCP protocol. The handler
// is stateless; every tool call goes through the shared executor, so MCP
// clients and plain HTTP clients drive the same browser session.
func NewHandler(exec *browser.Executor, version string) http.Handler {
	server := newServer(exec, version)
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		&mcp.StreamableHTTPOptions{Stateless: true},
	)
}

func newServer(exec *browser.Executor, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "browserd",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "navigate",
		Description: "Navigate the shared browser to a URL and wait for the page to load. Optionally pick the browser engine, a timeout, a load state, extra HTTP headers, and a selector or text to wait for.",
	}, navigateHandler(exec))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "click",
		Description: "Click an element on the current page, located by CSS selector or by visible text. Exactly one of the two must be given.",
	}, clickHandler(exec))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fill",
		Description: "Fill the first input matching a CSS selector with a value.",
	}, fillHandler(exec))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "screenshot",
		Description: "Capture the current page, or just the element matching a CSS selector, and return the path of the saved PNG.",
	}, screenshotHandler(exec))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "eval",
		Description: "Evaluate a JavaScript expression in the current page and return its result.",
	}, evalHandler(exec))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "close_browser",
		Description: "Close the shared browser session. Safe to call when nothing is running.",
	}, closeHandler(exec))

	return server
}

type NavigateInput struct {
	URL             string            `json:"url" jsonschema:"required,URL to navigate to"`
	Browser         string            `json:"browser,omitempty" jsonschema:"Browser engine: chromium, firefox, or webkit"`
	Timeout         float64           `json:"timeout,omitempty" jsonschema:"Navigation timeout in milliseconds"`
	WaitUntil       string            `json:"wait_until,omitempty" jsonschema:"Load state to wait for: load, domcontentloaded, or networkidle"`
	ExtraHTTPHeaders map[string]string `json:"extra_http_headers,omitempty" jsonschema:"Extra HTTP headers applied before navigating"`
	WaitForSelector string            `json:"wait_for_selector,omitempty" jsonschema:"CSS selector to wait for after load"`
	WaitForText     string            `json:"wait_for_text,omitempty" jsonschema:"Text that must appear on the page after load"`
}

type NavigateOutput struct {
	URL            string  `json:"url"`
	Title          string  `json:"title"`
	ResponseStatus int     `json:"response_status"`
	WaitUntil      string  `json:"wait_until"`
	TimeoutUsed    float64 `json:"timeout_used"`
}

func navigateHandler(exec *browser.Executor) func(context.Context, *mcp.CallToolRequest, NavigateInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input NavigateInput) (*mcp.CallToolResult, any, error) {
		result, err := exec.Navigate(browser.NavigateRequest{
			URL:             input.URL,
			Browser:         input.Browser,
			WaitUntil:       input.WaitUntil,
			TimeoutMs:       input.Timeout,
			ExtraHeaders:    input.ExtraHTTPHeaders,
			WaitForSelector: input.WaitForSelector,
			WaitForText:     input.WaitForText,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, NavigateOutput{
			URL:            result.URL,
			Title:          result.Title,
			ResponseStatus: result.Status,
			WaitUntil:      result.WaitUntil,
			TimeoutUsed:    result.TimeoutMs,
		}, nil
	}
}

type ClickInput struct {
	Selector string `json:"selector,omitempty" jsonschema:"CSS selector of the element to click"`
	Text     string `json:"text,omitempty" jsonschema:"Visible text of the element to click"`
}

type MessageOutput struct {
	Message string `json:"message"`
}

func clickHandler(exec *browser.Executor) func(context.Context, *mcp.CallToolRequest, ClickInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ClickInput) (*mcp.CallToolResult, any, error) {
		msg, err := exec.Click(input.Selector, input.Text)
		if err != nil {
			return nil, nil, err
		}
		return nil, MessageOutput{Message: msg}, nil
	}
}

type FillInput struct {
	Selector string `json:"selector" jsonschema:"required,CSS selector of the input to fill"`
	Value    string `json:"value" jsonschema:"required,Value to type into the input"`
}

func fillHandler(exec *browser.Executor) func(context.Context, *mcp.CallToolRequest, FillInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input FillInput) (*mcp.CallToolResult, any, error) {
		msg, err := exec.Fill(input.Selector, input.Value)
		if err != nil {
			return nil, nil, err
		}
		return nil, MessageOutput{Message: msg}, nil
	}
}

type ScreenshotInput struct {
	Selector string `json:"selector,omitempty" jsonschema:"CSS selector of the element to capture; omit for the full page"`
}

type ScreenshotOutput struct {
	Path string `json:"path"`
}

func screenshotHandler(exec *browser.Executor) func(context.Context, *mcp.CallToolRequest, ScreenshotInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ScreenshotInput) (*mcp.CallToolResult, any, error) {
		path, err := exec.Screenshot(input.Selector)
		if err != nil {
			return nil, nil, err
		}
		return nil, ScreenshotOutput{Path: path}, nil
	}
}

type EvalInput struct {
	Script string `json:"script" jsonschema:"required,JavaScript expression to evaluate in the page"`
}

type EvalOutput struct {
	Result any `json:"result"`
}

func evalHandler(exec *browser.Executor) func(context.Context, *mcp.CallToolRequest, EvalInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EvalInput) (*mcp.CallToolResult, any, error) {
		result, err := exec.Eval(input.Script)
		if err != nil {
			return nil, nil, err
		}
		return nil, EvalOutput{Result: result}, nil
	}
}

type CloseInput struct{}

func closeHandler(exec *browser.Executor) func(context.Context, *mcp.CallToolRequest, CloseInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CloseInput) (*mcp.CallToolResult, any, error) {
		msg, err := exec.Close()
		if err != nil {
			return nil, nil, err
		}
		return nil, MessageOutput{Message: msg}, nil
	}
}
