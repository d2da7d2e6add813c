package app

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit %d", e.code)
}

var Version = "dev"

func Execute(args []string, out io.Writer, errOut io.Writer) int {
	_ = godotenv.Load()

	app := App{Out: out, Err: errOut}
	flags := GlobalFlags{}
	var showVersion bool

	root := &cobra.Command{
		Use:           "browserd",
		Short:         "Shared browser automation over HTTP and MCP",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().BoolVarP(&showVersion, "version", "V", false, "version")
	root.PersistentFlags().IntVarP(&flags.Port, "port", "p", 0, "server port")
	root.PersistentFlags().StringVarP(&flags.ProfileDir, "profile-dir", "D", "", "browser profile directory")
	root.PersistentFlags().StringVar(&flags.DownloadsDir, "downloads-dir", "", "downloads and screenshots directory")
	root.PersistentFlags().BoolVar(&flags.Headful, "headful", false, "run the browser with a visible window")
	root.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "json output")
	root.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "quiet output")
	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVarP(&flags.Browser, "browser", "b", "", "browser engine: chromium, firefox, webkit")
	root.PersistentFlags().StringVar(&flags.Server, "server", "", "base URL of a running server")
	root.PersistentFlags().StringVarP(&flags.Selector, "selector", "S", "", "CSS selector")
	root.PersistentFlags().StringVar(&flags.Text, "text", "", "visible element text")
	root.PersistentFlags().Float64VarP(&flags.Timeout, "timeout", "t", 0, "navigation timeout in milliseconds")
	root.PersistentFlags().StringVar(&flags.WaitUntil, "wait-until", "", "load state: load, domcontentloaded, networkidle")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if showVersion {
			fmt.Fprintln(out, Version)
			return exitError{code: exitSuccess}
		}
		return nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return exitOrNil(app.runServe(flags))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Install Playwright driver and browsers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return exitOrNil(app.runInstall(flags))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check install and environment health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return exitOrNil(app.runDoctor(flags))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show server status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return exitOrNil(app.runStatus(flags))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "open",
		Short: "Ensure a browser is running",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return exitOrNil(app.runOpen(flags))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "goto <url>",
		Short: "Navigate to a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitOrNil(app.runGoto(flags, args[0]))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "click [selector]",
		Short: "Click an element by selector or --text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitOrNil(app.runClick(flags, args))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "fill <selector> <value>",
		Short: "Fill an input",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitOrNil(app.runFill(flags, args[0], strings.Join(args[1:], " ")))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "shot",
		Short: "Take a screenshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return exitOrNil(app.runShot(flags))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "eval <script>",
		Short: "Evaluate JavaScript in the page",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitOrNil(app.runEval(flags, strings.Join(args, " ")))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "close",
		Short: "Close the browser",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return exitOrNil(app.runClose(flags))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "fetch <query>",
		Short: "Search the web and print the result page title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitOrNil(app.runFetch(flags, args[0]))
		},
	})

	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintln(errOut, err)
		return exitUsage
	}
	return exitSuccess
}

func exitOrNil(code int) error {
	if code == exitSuccess {
		return nil
	}
	return exitError{code: code}
}
