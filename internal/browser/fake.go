package browser

import (
	"errors"
	"os"
	"strings"
)

// FakeEngine is an in-memory Engine for tests.
type FakeEngine struct {
	// StartErr, when set, fails every Start call.
	StartErr error

	// StartCalls records the engine kind of each Start, in order.
	StartCalls []Kind

	// Sessions holds every session handed out, in order.
	Sessions []*FakeSession

	// NextPage seeds the page of the next session. When nil, Start builds
	// an empty page.
	NextPage *FakePage
}

func (e *FakeEngine) Start(opts StartOptions) (Session, error) {
	e.StartCalls = append(e.StartCalls, opts.Kind)
	if e.StartErr != nil {
		return nil, e.StartErr
	}
	page := e.NextPage
	e.NextPage = nil
	if page == nil {
		page = &FakePage{}
	}
	s := &FakeSession{Kind: opts.Kind, page: page}
	e.Sessions = append(e.Sessions, s)
	return s, nil
}

// Live returns how many handed-out sessions are still open.
func (e *FakeEngine) Live() int {
	n := 0
	for _, s := range e.Sessions {
		if !s.Closed {
			n++
		}
	}
	return n
}

type FakeSession struct {
	Kind   Kind
	Closed bool
	page   *FakePage
}

func (s *FakeSession) Page() Page {
	return s.page
}

func (s *FakeSession) Close() error {
	s.Closed = true
	s.page.IsClosed = true
	return nil
}

// FakePage scripts page behavior and records every action against it.
type FakePage struct {
	URLValue   string
	TitleValue string
	// StatusValue is the HTTP status reported for navigations.
	StatusValue int

	// SelectorCounts scripts Count results per selector. Selectors absent
	// from the map count zero.
	SelectorCounts map[string]int

	// Texts lists the visible labels of clickable elements in document
	// order, for ClickText matching.
	Texts []string

	GotoErr   error
	ActionErr error
	EvalValue any
	EvalErr   error

	Gotos      []string
	LastGoto   GotoOptions
	Clicks     []string
	TextClicks []string
	Fills      map[string]string
	Shots      []string
	Evals      []string

	IsClosed bool
}

var errPageClosed = errors.New("page is closed")

func (p *FakePage) Goto(url string, opts GotoOptions) (GotoResult, error) {
	if p.IsClosed {
		return GotoResult{}, errPageClosed
	}
	p.Gotos = append(p.Gotos, url)
	p.LastGoto = opts
	if p.GotoErr != nil {
		return GotoResult{}, p.GotoErr
	}
	p.URLValue = url
	return GotoResult{URL: url, Title: p.TitleValue, Status: p.StatusValue}, nil
}

func (p *FakePage) Count(selector string) (int, error) {
	if p.IsClosed {
		return 0, errPageClosed
	}
	return p.SelectorCounts[selector], nil
}

func (p *FakePage) ClickFirst(selector string) error {
	if p.IsClosed {
		return errPageClosed
	}
	if p.ActionErr != nil {
		return p.ActionErr
	}
	p.Clicks = append(p.Clicks, selector)
	return nil
}

func (p *FakePage) ClickText(text string) (bool, error) {
	if p.IsClosed {
		return false, errPageClosed
	}
	if p.ActionErr != nil {
		return false, p.ActionErr
	}
	want := strings.ToLower(text)
	for _, label := range p.Texts {
		if strings.Contains(strings.ToLower(label), want) {
			p.TextClicks = append(p.TextClicks, label)
			return true, nil
		}
	}
	return false, nil
}

func (p *FakePage) Fill(selector, value string) error {
	if p.IsClosed {
		return errPageClosed
	}
	if p.ActionErr != nil {
		return p.ActionErr
	}
	if p.Fills == nil {
		p.Fills = make(map[string]string)
	}
	p.Fills[selector] = value
	return nil
}

func (p *FakePage) Screenshot(path string, selector string) error {
	if p.IsClosed {
		return errPageClosed
	}
	if p.ActionErr != nil {
		return p.ActionErr
	}
	if err := os.WriteFile(path, []byte("\x89PNG\r\n"), 0o644); err != nil {
		return err
	}
	p.Shots = append(p.Shots, path)
	return nil
}

func (p *FakePage) Eval(script string) (any, error) {
	if p.IsClosed {
		return nil, errPageClosed
	}
	p.Evals = append(p.Evals, script)
	if p.EvalErr != nil {
		return nil, p.EvalErr
	}
	return p.EvalValue, nil
}

func (p *FakePage) URL() string {
	return p.URLValue
}

func (p *FakePage) Title() (string, error) {
	if p.IsClosed {
		return "", errPageClosed
	}
	return p.TitleValue, nil
}

func (p *FakePage) Closed() bool {
	return p.IsClosed
}
