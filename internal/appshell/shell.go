// Package appshell wires a RunContext-style entry point to the process:
// signals, argv and the exit status.
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

const exitInterrupted = 130

// Main runs run with SIGINT/SIGTERM cancelling its context and exits with
// its code. After the first signal the default handlers are restored, so a
// second interrupt kills the process at once.
func Main(run RunFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	code := Exec(ctx, run, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Exec calls run and normalizes the result: no arguments prints help, and a
// run that was interrupted but reported success exits 130.
func Exec(ctx context.Context, run RunFunc, argv []string, stdout, stderr io.Writer) int {
	if len(argv) == 0 {
		argv = []string{"--help"}
	}
	code := run(ctx, argv, stdout, stderr)
	if ctx.Err() != nil && code == 0 {
		code = exitInterrupted
	}
	return code
}
