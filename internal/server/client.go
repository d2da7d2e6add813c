package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to a running browserd server over HTTP. The CLI action
// commands use it.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Navigations can legitimately take as long as their own timeout,
		// so the transport timeout stays generous.
		http: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (c *Client) do(method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Detail != "" {
			return errors.New(errResp.Detail)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

func (c *Client) Status() (StatusResponse, error) {
	var result StatusResponse
	return result, c.do(http.MethodGet, "/", nil, &result)
}

func (c *Client) Open(browserName string) (MessageResponse, error) {
	var result MessageResponse
	return result, c.do(http.MethodPost, "/navigate", OpenRequest{Browser: browserName}, &result)
}

func (c *Client) Goto(req NavigateRequest) (NavigateResponse, error) {
	var result NavigateResponse
	return result, c.do(http.MethodPost, "/navigate_to_url", req, &result)
}

func (c *Client) Click(selector, text string) (MessageResponse, error) {
	var result MessageResponse
	return result, c.do(http.MethodPost, "/click", ClickRequest{Selector: selector, Text: text}, &result)
}

func (c *Client) Fill(selector, value string) (MessageResponse, error) {
	var result MessageResponse
	return result, c.do(http.MethodPost, "/fill", FillRequest{Selector: selector, Value: value}, &result)
}

func (c *Client) Screenshot(selector string) (ScreenshotResponse, error) {
	var result ScreenshotResponse
	return result, c.do(http.MethodPost, "/screenshot", ScreenshotRequest{Selector: selector}, &result)
}

func (c *Client) Eval(script string) (EvalResponse, error) {
	var result EvalResponse
	return result, c.do(http.MethodPost, "/eval", EvalRequest{Script: script}, &result)
}

func (c *Client) CloseBrowser() (MessageResponse, error) {
	var result MessageResponse
	return result, c.do(http.MethodPost, "/close", nil, &result)
}

func (c *Client) Fetch(query string) (MessageResponse, error) {
	var result MessageResponse
	return result, c.do(http.MethodGet, "/fetch/"+query, nil, &result)
}
