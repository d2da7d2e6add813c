package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/flocard/browserd/internal/browser"
	"github.com/flocard/browserd/internal/config"
	"github.com/flocard/browserd/internal/mcp"
	"github.com/flocard/browserd/internal/profile"
	"github.com/flocard/browserd/internal/server"
)

type GlobalFlags struct {
	Port         int
	ProfileDir   string
	DownloadsDir string
	Headful      bool
	JSON         bool
	Quiet        bool
	Verbose      bool
	Browser      string
	Server       string
	Selector     string
	Text         string
	Timeout      float64
	WaitUntil    string
}

type App struct {
	Out io.Writer
	Err io.Writer
}

const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

func (a App) loadConfig(flags GlobalFlags) (config.Config, error) {
	return config.Load(config.Overrides{
		Port:         flags.Port,
		ProfileDir:   flags.ProfileDir,
		DownloadsDir: flags.DownloadsDir,
		Headful:      flags.Headful,
	})
}

func (a App) setupLogging(flags GlobalFlags) {
	level := slog.LevelInfo
	if flags.Verbose {
		level = slog.LevelDebug
	}
	if flags.Quiet {
		level = slog.LevelWarn
	}
	handler := slog.NewTextHandler(a.Err, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func (a App) runServe(flags GlobalFlags) int {
	cfg, err := a.loadConfig(flags)
	if err != nil {
		fmt.Fprintln(a.Err, err)
		return exitFailure
	}
	a.setupLogging(flags)

	manager := browser.NewManager(browser.PlaywrightEngine{}, browser.ManagerOptions{
		Headless:     cfg.Headless,
		ProfileDir:   cfg.ProfileDir,
		DownloadsDir: cfg.DownloadsDir,
		DefaultKind:  browser.ParseKind(cfg.DefaultBrowser),
	})
	exec := browser.NewExecutor(manager, browser.ExecutorOptions{
		DownloadsDir:        cfg.DownloadsDir,
		NavigationTimeoutMs: cfg.NavTimeoutMs,
	})
	srv := server.New(cfg.Addr(), exec, mcp.NewHandler(exec, Version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		fmt.Fprintln(a.Err, err)
		return exitFailure
	}
	return exitSuccess
}

func (a App) runInstall(flags GlobalFlags) int {
	opts := &playwright.RunOptions{}
	if flags.Browser != "" {
		opts.Browsers = []string{browser.ParseKind(flags.Browser).String()}
	}
	if err := playwright.Install(opts); err != nil {
		fmt.Fprintln(a.Err, err)
		return exitFailure
	}
	if !flags.Quiet {
		fmt.Fprintln(a.Out, "Playwright installed")
	}
	return exitSuccess
}

func (a App) runDoctor(flags GlobalFlags) int {
	cfg, err := a.loadConfig(flags)
	if err != nil {
		fmt.Fprintln(a.Err, err)
		return exitFailure
	}

	type result struct {
		ProfileDir           string            `json:"profile_dir"`
		ProfileDirWritable   bool              `json:"profile_dir_writable"`
		DownloadsDir         string            `json:"downloads_dir"`
		DownloadsDirWritable bool              `json:"downloads_dir_writable"`
		PlaywrightOK         bool              `json:"playwright_ok"`
		LastLaunch           *profile.Metadata `json:"last_launch,omitempty"`
	}
	res := result{ProfileDir: cfg.ProfileDir, DownloadsDir: cfg.DownloadsDir}
	if err := os.MkdirAll(cfg.ProfileDir, 0o755); err == nil {
		res.ProfileDirWritable = true
	}
	if err := os.MkdirAll(cfg.DownloadsDir, 0o755); err == nil {
		res.DownloadsDirWritable = true
	}
	if pw, err := playwright.Run(); err == nil {
		res.PlaywrightOK = true
		pw.Stop()
	}
	if meta, err := (profile.Store{Root: cfg.ProfileDir}).Load(); err == nil {
		res.LastLaunch = &meta
	}

	if flags.JSON {
		b, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(a.Out, string(b))
		return exitSuccess
	}
	fmt.Fprintf(a.Out, "profile_dir=%s writable=%t\n", res.ProfileDir, res.ProfileDirWritable)
	fmt.Fprintf(a.Out, "downloads_dir=%s writable=%t\n", res.DownloadsDir, res.DownloadsDirWritable)
	fmt.Fprintf(a.Out, "playwright_ok=%t\n", res.PlaywrightOK)
	if res.LastLaunch != nil {
		fmt.Fprintf(a.Out, "last_launch browser=%s at=%s launches=%d\n",
			res.LastLaunch.Browser, res.LastLaunch.LastLaunch.Format(time.RFC3339), res.LastLaunch.LaunchCount)
	}
	return exitSuccess
}

func (a App) client(flags GlobalFlags) *server.Client {
	base := flags.Server
	if base == "" {
		port := 8000
		if flags.Port != 0 {
			port = flags.Port
		} else if v := os.Getenv("PORT"); v != "" {
			if p, err := strconv.Atoi(v); err == nil {
				port = p
			}
		}
		base = fmt.Sprintf("http://127.0.0.1:%d", port)
	}
	return server.NewClient(base)
}

func (a App) runStatus(flags GlobalFlags) int {
	status, err := a.client(flags).Status()
	if err != nil {
		fmt.Fprintln(a.Err, err)
		return exitFailure
	}
	if flags.JSON {
		b, _ := json.MarshalIndent(status, "", "  ")
		fmt.Fprintln(a.Out, string(b))
		return exitSuccess
	}
	fmt.Fprintln(a.Out, status.Message)
	if status.Browser != "" {
		fmt.Fprintf(a.Out, "browser=%s\n", status.Browser)
	}
	return exitSuccess
}

func (a App) runOpen(flags GlobalFlags) int {
	msg, err := a.client(flags).Open(flags.Browser)
	if err != nil {
		fmt.Fprintln(a.Err, err)
		return exitFailure
	}
	if !flags.Quiet {
		fmt.Fprintln(a.Out, msg.Message)
	}
	return exitSuccess
}

func (a App) runGoto(flags GlobalFlags, url string) int {
	resp, err := a.client(flags).Goto(server.NavigateRequest{
		URL:       url,
		Browser:   flags.Browser,
		Timeout:   flags.Timeout,
		WaitUntil: flags.WaitUntil,
	})
	if err != nil {
		fmt.Fprintln(a.Err, err)
		return exitFailure
	}
	if flags.JSON {
		b, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(a.Out, string(b))
		return exitSuccess
	}
	fmt.Fprintf(a.Out, "%s (%d) %s\n", resp.URL, resp.ResponseStatus, resp.Title)
	return exitSuccess
}

func (a App) runClick(flags GlobalFlags, args []string) int {
	selector := flags.Selector
	text := flags.Text
	if selector == "" && text == "" && len(args) > 0 {
		selector = args[0]
	}
	msg, err := a.client(flags).Click(selector, text)
	if err != nil {
		fmt.Fprintln(a.Err, err)
		return exitFailure
	}
	if !flags.Quiet {
		fmt.Fprintln(a.Out, msg.Message)
	}
	return exitSuccess
}

func (a App) runFill(flags GlobalFlags, selector, value string) int {
	msg, err := a.client(flags).Fill(selector, value)
	if err != nil {
		fmt.Fprintln(a.Err, err)
		return exitFailure
	}
	if !flags.Quiet {
		fmt.Fprintln(a.Out, msg.Message)
	}
	return exitSuccess
}

func (a App) runShot(flags GlobalFlags) int {
	resp, err := a.client(flags).Screenshot(flags.Selector)
	if err != nil {
		fmt.Fprintln(a.Err, err)
		return exitFailure
	}
	fmt.Fprintln(a.Out, resp.Path)
	return exitSuccess
}

func (a App) runEval(flags GlobalFlags, script string) int {
	resp, err := a.client(flags).Eval(script)
	if err != nil {
		fmt.Fprintln(a.Err, err)
		return exitFailure
	}
	b, _ := json.Marshal(resp.Result)
	fmt.Fprintln(a.Out, string(b))
	return exitSuccess
}

func (a App) runClose(flags GlobalFlags) int {
	msg, err := a.client(flags).CloseBrowser()
	if err != nil {
		fmt.Fprintln(a.Err, err)
		return exitFailure
	}
	if !flags.Quiet {
		fmt.Fprintln(a.Out, msg.Message)
	}
	return exitSuccess
}

func (a App) runFetch(flags GlobalFlags, query string) int {
	msg, err := a.client(flags).Fetch(query)
	if err != nil {
		fmt.Fprintln(a.Err, err)
		return exitFailure
	}
	fmt.Fprintln(a.Out, msg.Message)
	return exitSuccess
}
