// Package appshell is the process wrapper shared by the binaries: signal
// handling and exit-code normalization around an app.RunContext-style func.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// RunFunc is the signature of app.RunContext.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main runs run with os.Args and exits with its code. SIGINT and SIGTERM
// cancel the context.
func Main(run RunFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Exec(ctx, run, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Exec calls run and reports 130 when ctx was cancelled even if run
// returned 0.
func Exec(ctx context.Context, run RunFunc, argv []string, stdout, stderr io.Writer) int {
	code := run(ctx, argv, stdout, stderr)
	if ctx.Err() != nil && code == 0 {
		code = 130
	}
	return code
}
