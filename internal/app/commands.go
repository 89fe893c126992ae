// internal/app/commands.go
package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mutalign/internal/appcore"
	"mutalign/internal/cli"
	"mutalign/internal/cluster"
	"mutalign/internal/config"
	"mutalign/internal/version"
)

type prepared struct {
	cfg   config.Config
	env   appcore.Env
	job   appcore.Job
	close func()
}

// prepare resolves flags, then builds the logger and loads the problem.
func prepare(cmd *cobra.Command, o *cli.Options, stdout, stderr io.Writer) (*prepared, error) {
	cfg, err := o.Resolve(cmd.Flags())
	if err != nil {
		return nil, err
	}
	log, sync, err := newLogger(cfg, stderr)
	if err != nil {
		return nil, err
	}
	log.Debugw("configuration", "effective", cli.Describe(cfg))
	p, ids, err := appcore.LoadProblem(cfg)
	if err != nil {
		sync()
		return nil, err
	}
	return &prepared{
		cfg:   cfg,
		env:   appcore.Env{Stdout: stdout, Stderr: stderr, Log: log},
		job:   appcore.Job{Problem: p, IDs: ids},
		close: sync,
	}, nil
}

func newRunCmd(stdout, stderr io.Writer) *cobra.Command {
	o := cli.NewOptions()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Search every query with in-process workers",
		Example: `  mutalign run -i input.txt
  mutalign run -i input.txt -w 4 -f jsonl -o results.jsonl
  mutalign run --reference ref.fa --queries q.fa --weights 1,0.5,0.25,1 --pretty`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pr, err := prepare(cmd, o, stdout, stderr)
			if err != nil {
				return err
			}
			defer pr.close()
			pr.job.RunID = uuid.New()
			pr.job.Writes = true
			pr.job.Transport = appcore.Local(pr.cfg.Workers)
			_, err = appcore.Run(cmd.Context(), pr.env, pr.cfg, pr.job)
			return err
		},
	}
	fs := cmd.Flags()
	o.RegisterInput(fs)
	o.RegisterEngine(fs)
	o.RegisterWorkers(fs)
	o.RegisterOutput(fs)
	o.RegisterObservability(fs)
	return cmd
}

func newCoordinateCmd(stdout, stderr io.Writer) *cobra.Command {
	o := cli.NewOptions()
	cmd := &cobra.Command{
		Use:   "coordinate",
		Short: "Run rank 0 of a TCP cluster and write the results",
		Long: `coordinate listens for size-1 workers, then searches its own share of every
query, folds the workers' local bests and writes the output. Every worker
must be started with the same input and --size.`,
		Example: `  mutalign coordinate -i input.txt --listen :7070 --size 3
  mutalign worker -i input.txt --coordinator host:7070 --rank 1 --size 3`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pr, err := prepare(cmd, o, stdout, stderr)
			if err != nil {
				return err
			}
			defer pr.close()
			if err := pr.cfg.ValidateCluster(false); err != nil {
				return err
			}
			log := pr.env.Log

			l, err := cluster.Listen(pr.cfg.Cluster.Listen, pr.cfg.Cluster.Size)
			if err != nil {
				return err
			}
			l.Joined = func(rank int, remote net.Addr) {
				log.Infow("worker joined", "rank", rank, "remote", remote.String())
			}
			log.Infow("waiting for workers", "addr", l.Addr().String(), "workers", pr.cfg.Cluster.Size-1, "run", l.RunID().String())

			actx, cancel := withTimeout(cmd.Context(), pr.cfg.Cluster.DialTimeout)
			comm, err := l.Accept(actx)
			cancel()
			if err != nil {
				return fmt.Errorf("waiting for workers: %w", err)
			}
			defer comm.Close()

			pr.job.RunID = l.RunID()
			pr.job.Writes = true
			pr.job.Transport = appcore.Over(comm)
			_, err = appcore.Run(cmd.Context(), pr.env, pr.cfg, pr.job)
			return err
		},
	}
	fs := cmd.Flags()
	o.RegisterInput(fs)
	o.RegisterEngine(fs)
	o.RegisterOutput(fs)
	o.RegisterObservability(fs)
	o.RegisterCoordinator(fs)
	return cmd
}

func newWorkerCmd(stdout, stderr io.Writer) *cobra.Command {
	o := cli.NewOptions()
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run one worker rank of a TCP cluster",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pr, err := prepare(cmd, o, stdout, stderr)
			if err != nil {
				return err
			}
			defer pr.close()
			if err := pr.cfg.ValidateCluster(true); err != nil {
				return err
			}
			cl := pr.cfg.Cluster

			dctx, cancel := withTimeout(cmd.Context(), cl.DialTimeout)
			comm, err := cluster.Dial(dctx, cl.Coordinator, cl.Rank, cl.Size)
			cancel()
			if err != nil {
				return err
			}
			defer comm.Close()
			pr.env.Log.Infow("joined", "coordinator", cl.Coordinator, "rank", cl.Rank, "size", cl.Size)

			pr.job.RunID = cluster.RunIDOf(comm)
			pr.job.Transport = appcore.Over(comm)
			_, err = appcore.Run(cmd.Context(), pr.env, pr.cfg, pr.job)
			return err
		},
	}
	fs := cmd.Flags()
	o.RegisterInput(fs)
	o.RegisterEngine(fs)
	o.RegisterObservability(fs)
	o.RegisterWorker(fs)
	return cmd
}

func newVerifyCmd(stdout, stderr io.Writer) *cobra.Command {
	o := cli.NewOptions()
	var tol float64
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare a parallel run with the sequential search",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pr, err := prepare(cmd, o, stdout, stderr)
			if err != nil {
				return err
			}
			defer pr.close()
			if tol < 0 {
				return usage(fmt.Errorf("--tolerance must be >= 0"))
			}
			rep, err := appcore.Verify(cmd.Context(), pr.cfg, pr.job.Problem, tol)
			if err != nil {
				return err
			}
			if err := rep.WriteText(stdout); err != nil {
				return err
			}
			if !rep.Passed() {
				return errVerifyFailed
			}
			return nil
		},
	}
	fs := cmd.Flags()
	o.RegisterInput(fs)
	o.RegisterEngine(fs)
	o.RegisterWorkers(fs)
	o.RegisterObservability(fs)
	fs.Float64Var(&tol, "tolerance", 1e-9, "allowed absolute score difference")
	return cmd
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  noArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintf(stdout, "mutalign version %s\n", version.Version)
			return err
		},
	}
}

// withTimeout treats d <= 0 as no deadline.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
