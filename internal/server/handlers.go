package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flocard/browserd/internal/browser"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{Message: "Browser automation service is running"}
	if kind, running := s.exec.Manager().Current(); running {
		resp.Browser = kind.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	title, err := s.exec.Search(query)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Status: "success", Message: title})
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if !s.decode(w, r, &req) {
		return
	}
	kind, err := s.exec.Open(req.Browser)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Status:  "success",
		Message: "Browser is running: " + kind.String(),
	})
}

func (s *Server) handleNavigateToURL(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.exec.Navigate(browser.NavigateRequest{
		URL:             req.URL,
		Browser:         req.Browser,
		WaitUntil:       req.WaitUntil,
		TimeoutMs:       req.Timeout,
		ExtraHeaders:    req.ExtraHTTPHeaders,
		WaitForSelector: req.WaitForSelector,
		WaitForText:     req.WaitForText,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NavigateResponse{
		Status:         "success",
		URL:            result.URL,
		Title:          result.Title,
		ResponseStatus: result.Status,
		WaitUntil:      result.WaitUntil,
		TimeoutUsed:    result.TimeoutMs,
	})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if !s.decode(w, r, &req) {
		return
	}
	msg, err := s.exec.Click(req.Selector, req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Status: "success", Message: msg})
}

func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	var req FillRequest
	if !s.decode(w, r, &req) {
		return
	}
	msg, err := s.exec.Fill(req.Selector, req.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Status: "success", Message: msg})
}

func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	var req ScreenshotRequest
	if !s.decode(w, r, &req) {
		return
	}
	path, err := s.exec.Screenshot(req.Selector)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ScreenshotResponse{Status: "success", Path: path})
}

func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	var req EvalRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.exec.Eval(req.Script)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EvalResponse{Status: "success", Result: result})
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	msg, err := s.exec.Close()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Status: "success", Message: msg})
}

// decode reads a JSON body into v. An empty body is treated as an empty
// object so endpoints with all-optional fields accept bare POSTs.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var (
		invalid  *browser.InvalidInputError
		notFound *browser.ElementNotFoundError
	)
	switch {
	case errors.As(err, &invalid), errors.As(err, &notFound):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, ErrorResponse{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
