// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mutalign/internal/appcore"
	"mutalign/internal/config"
	"mutalign/internal/input"
	"mutalign/internal/logging"
	"mutalign/internal/version"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitMismatch = 1 // verify found differences
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

var errVerifyFailed = errors.New("verification failed")

// usageError marks errors caused by the command line itself.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usage(err error) error {
	if err == nil {
		return nil
	}
	return usageError{err}
}

func noArgs(cmd *cobra.Command, args []string) error { return usage(cobra.NoArgs(cmd, args)) }

// RunContext executes the mutalign command line and returns the exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(argv)
	return exitCode(root.ExecuteContext(ctx), stderr)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.Is(err, errVerifyFailed):
		return ExitMismatch
	}
	_, _ = fmt.Fprintln(stderr, "error:", err)
	var ue usageError
	if errors.As(err, &ue) || errors.Is(err, config.ErrInvalid) ||
		errors.Is(err, appcore.ErrInput) || errors.Is(err, input.ErrMalformed) {
		_, _ = fmt.Fprintln(stderr, "run 'mutalign --help' for usage")
		return ExitUsage
	}
	return ExitRuntime
}

// NewRootCmd builds the command tree writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "mutalign",
		Short: "mutalign: best single-gap alignment of queries against a reference",
		Long: `mutalign finds, for every query, the reference offset and the gap position
whose aligned similarity score is maximal. Scores come from four weights
(match, conservative, semi-conservative, mismatch) over fixed amino-acid
groups. The search is split across ranks (in-process or over TCP), fanned
out per gap position, and reduced per row.`,
		Version:       version.Version,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("mutalign version {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usage(err) })

	root.AddCommand(
		newRunCmd(stdout, stderr),
		newCoordinateCmd(stdout, stderr),
		newWorkerCmd(stdout, stderr),
		newVerifyCmd(stdout, stderr),
		newVersionCmd(stdout),
	)
	return root
}

func newLogger(cfg config.Config, stderr io.Writer) (*zap.SugaredLogger, func(), error) {
	l, err := logging.New(stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, usage(err)
	}
	return l.Sugar(), func() { _ = l.Sync() }, nil
}
