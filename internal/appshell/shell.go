// internal/appshell/shell.go
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Main wires OS signals into a cancelable context and runs the app.
// SIGINT/SIGTERM cancel the context; a run that ends because of the
// signal exits 130 even if it reported success.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	argv := os.Args[1:]
	if len(argv) == 0 {
		argv = []string{"--help"}
	}

	code := run(ctx, argv, os.Stdout, os.Stderr)
	if ctx.Err() != nil && code == 0 {
		code = 130
	}

	stop()
	os.Exit(code)
}
