// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"seqvault/internal/cli"
	"seqvault/internal/config"
	"seqvault/internal/version"
)

// Exit codes: 0 success, 2 usage or config error, 3 runtime failure,
// 130 canceled.

// terminated is the sentinel kingpin's Terminate hook throws for --help
// and --version, which print and stop without an error.
type terminated struct{ code int }

// RunContext parses argv and executes the selected command. It never
// calls os.Exit; the caller maps the returned code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) (code int) {
	if len(argv) == 0 {
		argv = []string{"--help"}
	}

	cfg, err := config.Load(cli.ConfigPath(argv))
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	c := cli.New(cfg)
	c.App.UsageWriter(stdout)
	c.App.ErrorWriter(stderr)
	c.App.Terminate(func(status int) { panic(terminated{code: status}) })
	defer func() {
		if r := recover(); r != nil {
			t, ok := r.(terminated)
			if !ok {
				panic(r)
			}
			code = t.code
		}
	}()

	cmd, err := c.App.Parse(argv)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	if err := c.Validate(cmd); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	logger, err := newLogger(stderr, c, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	ctx := parent
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, c.Timeout)
		defer cancel()
	}

	switch cmd {
	case cli.CmdVersion:
		fmt.Fprintf(stdout, "seqvault version %s\n", version.Version)
		return 0
	case cli.CmdEncode:
		err = runEncode(ctx, c, logger, stderr)
	case cli.CmdDecode:
		err = runDecode(ctx, c, logger, stdout, stderr)
	case cli.CmdInspect:
		err = runInspect(c, stdout)
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case errors.Is(err, context.DeadlineExceeded):
		logger.Error("timed out", "timeout", c.Timeout)
		return 3
	default:
		logger.Error(err.Error())
		return 3
	}
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func newLogger(w io.Writer, c *cli.CLI, cfg config.File) (*log.Logger, error) {
	level := log.InfoLevel
	if cfg.LogLevel != "" {
		l, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("config log-level: %w", err)
		}
		level = l
	}
	if c.Verbose {
		level = log.DebugLevel
	}
	if c.Quiet {
		level = log.ErrorLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Prefix:          "seqvault",
	})
	logger.SetLevel(level)
	return logger, nil
}
