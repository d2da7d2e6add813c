package browser

import (
	"fmt"
	"os"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// clickByTextScript clicks the first interactive element whose visible text
// contains the needle. The needle is passed as a bound argument rather than
// interpolated into the script, so arbitrary user text cannot break out of
// the expression.
const clickByTextScript = `(needle) => {
  const nodes = document.querySelectorAll('a, button, [role=button], input[type="submit"], input[type="button"]');
  const want = String(needle).toLowerCase();
  for (const el of nodes) {
    const label = (el.innerText || el.textContent || el.value || '').toLowerCase();
    if (label.includes(want)) {
      el.click();
      return true;
    }
  }
  return false;
}`

const textVisibleScript = `(needle) => {
  const body = document.body;
  if (!body) return false;
  return (body.innerText || '').toLowerCase().includes(String(needle).toLowerCase());
}`

var (
	pwOnce     sync.Once
	pwInstance *playwright.Playwright
	pwErr      error
)

// runPlaywright returns the singleton Playwright driver. The driver process
// outlives individual sessions so engine switches don't restart it.
func runPlaywright() (*playwright.Playwright, error) {
	pwOnce.Do(func() {
		pw, err := playwright.Run()
		if err != nil {
			pwErr = fmt.Errorf("failed to start playwright: %w", err)
			return
		}
		pwInstance = pw
	})
	return pwInstance, pwErr
}

// PlaywrightEngine launches real browsers through playwright-go.
type PlaywrightEngine struct{}

func (PlaywrightEngine) Start(opts StartOptions) (Session, error) {
	pw, err := runPlaywright()
	if err != nil {
		return nil, err
	}

	var bt playwright.BrowserType
	switch opts.Kind {
	case Firefox:
		bt = pw.Firefox
	case WebKit:
		bt = pw.WebKit
	default:
		bt = pw.Chromium
	}

	if err := os.MkdirAll(opts.ProfileDir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	if err := os.MkdirAll(opts.DownloadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create downloads dir: %w", err)
	}

	// A persistent context keeps cookies and local storage on disk, so the
	// profile survives process restarts and engine switches.
	ctx, err := bt.LaunchPersistentContext(opts.ProfileDir, playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless:        playwright.Bool(opts.Headless),
		AcceptDownloads: playwright.Bool(true),
		DownloadsPath:   playwright.String(opts.DownloadsDir),
	})
	if err != nil {
		return nil, err
	}

	var page playwright.Page
	if pages := ctx.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = ctx.NewPage()
		if err != nil {
			_ = ctx.Close()
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}

	return &playwrightSession{ctx: ctx, page: &playwrightPage{page: page}}, nil
}

type playwrightSession struct {
	ctx  playwright.BrowserContext
	page *playwrightPage
}

func (s *playwrightSession) Page() Page {
	return s.page
}

func (s *playwrightSession) Close() error {
	return s.ctx.Close()
}

type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) Goto(url string, opts GotoOptions) (GotoResult, error) {
	if len(opts.ExtraHeaders) > 0 {
		if err := p.page.SetExtraHTTPHeaders(opts.ExtraHeaders); err != nil {
			return GotoResult{}, err
		}
	}

	waitUntil := playwright.WaitUntilStateLoad
	switch opts.WaitUntil {
	case "domcontentloaded":
		waitUntil = playwright.WaitUntilStateDomcontentloaded
	case "networkidle":
		waitUntil = playwright.WaitUntilStateNetworkidle
	}

	gotoOpts := playwright.PageGotoOptions{WaitUntil: waitUntil}
	if opts.TimeoutMs > 0 {
		gotoOpts.Timeout = playwright.Float(opts.TimeoutMs)
	}

	resp, err := p.page.Goto(url, gotoOpts)
	if err != nil {
		return GotoResult{}, err
	}

	if opts.WaitForSelector != "" {
		waitOpts := playwright.PageWaitForSelectorOptions{}
		if opts.TimeoutMs > 0 {
			waitOpts.Timeout = playwright.Float(opts.TimeoutMs)
		}
		if _, err := p.page.WaitForSelector(opts.WaitForSelector, waitOpts); err != nil {
			return GotoResult{}, err
		}
	}

	if opts.WaitForText != "" {
		waitOpts := playwright.PageWaitForFunctionOptions{}
		if opts.TimeoutMs > 0 {
			waitOpts.Timeout = playwright.Float(opts.TimeoutMs)
		}
		if _, err := p.page.WaitForFunction(textVisibleScript, opts.WaitForText, waitOpts); err != nil {
			return GotoResult{}, err
		}
	}

	result := GotoResult{URL: p.page.URL()}
	if title, err := p.page.Title(); err == nil {
		result.Title = title
	}
	if resp != nil {
		result.Status = resp.Status()
	}
	return result, nil
}

func (p *playwrightPage) Count(selector string) (int, error) {
	return p.page.Locator(selector).Count()
}

func (p *playwrightPage) ClickFirst(selector string) error {
	return p.page.Locator(selector).First().Click()
}

func (p *playwrightPage) ClickText(text string) (bool, error) {
	value, err := p.page.Evaluate(clickByTextScript, text)
	if err != nil {
		return false, err
	}
	matched, _ := value.(bool)
	return matched, nil
}

func (p *playwrightPage) Fill(selector, value string) error {
	return p.page.Locator(selector).First().Fill(value)
}

func (p *playwrightPage) Screenshot(path string, selector string) error {
	if selector != "" {
		_, err := p.page.Locator(selector).First().Screenshot(playwright.LocatorScreenshotOptions{
			Path: playwright.String(path),
		})
		return err
	}
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (p *playwrightPage) Eval(script string) (any, error) {
	return p.page.Evaluate(script)
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Title() (string, error) {
	return p.page.Title()
}

func (p *playwrightPage) Closed() bool {
	return p.page.IsClosed()
}
