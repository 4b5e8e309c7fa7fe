// Package watch implements the headless watch command: it runs scraper
// cycles without the HTTP control surface.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/uniwatch/uniwatch/cmd/common"
	"github.com/uniwatch/uniwatch/internal/runner"
)

const signalChannelBufferSize = 1

// Command returns the watch command.
func Command() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "watch [scraper...]",
		Short: "Run scrapers without the HTTP control surface",
		Long: `Run the configured scrapers until interrupted. With scraper names
given as arguments, only those scrapers run. With --once each named
scraper (or every scraper) runs a single manual cycle and the command
exits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, once)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "run one cycle per scraper and exit")

	return cmd
}

func run(names []string, once bool) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	r, err := common.BuildRunner(deps)
	if err != nil {
		return fmt.Errorf("failed to build runner: %w", err)
	}

	if len(names) == 0 {
		names = r.Names()
	}
	for _, name := range names {
		if _, ok := r.Get(name); !ok {
			return fmt.Errorf("unknown scraper: %s", name)
		}
	}

	if once {
		return runOnce(deps, r, names)
	}
	return runForever(deps, r, names)
}

// runOnce triggers one manual cycle per scraper, sequentially.
func runOnce(deps *common.CommandDeps, r *runner.Runner, names []string) error {
	ctx := context.Background()
	for _, name := range names {
		posts, err := r.RunOnce(ctx, name)
		if err != nil {
			deps.Logger.Error("cycle failed", "scraper", name, "error", err)
			continue
		}
		deps.Logger.Info("cycle complete", "scraper", name, "new_posts", len(posts))
	}
	return nil
}

// runForever runs the named scraper loops until interrupted.
func runForever(deps *common.CommandDeps, r *runner.Runner, names []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.StartNames(ctx, names)

	sigChan := make(chan os.Signal, signalChannelBufferSize)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	deps.Logger.Info("Shutting down", "signal", sig.String())
	cancel()
	r.Wait()

	deps.Logger.Info("Shutdown complete")
	return nil
}
