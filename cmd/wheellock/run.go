package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/wheellock/cas"
	"github.com/timewinder-dev/wheellock/model"
)

var (
	workersFlag   int
	checkFlag     bool
	detailsFlag   bool
	cacheSizeFlag int
)

var runCmd = &cobra.Command{
	Use:   "run SPECFILE|GLOB...",
	Short: "Run every query in the given spec files as one batch",
	Args:  cobra.MinimumNArgs(1),
	Run:   runCommand,
}

func init() {
	runCmd.Flags().IntVar(&workersFlag, "workers", 0, "Number of worker goroutines (0 for one per CPU)")
	runCmd.Flags().BoolVar(&checkFlag, "check", false, "Exit non-zero when an answer differs from the spec's expect value")
	runCmd.Flags().BoolVar(&detailsFlag, "details", false, "Show one shortest path for every reachable query")
	runCmd.Flags().IntVar(&cacheSizeFlag, "cache-size", 10000, "Path trace cache entries used with --details")
}

// expandArgs resolves doublestar globs; plain paths pass through unchanged.
func expandArgs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			// Let the open fail with a proper error.
			out = append(out, arg)
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}

func runCommand(cmd *cobra.Command, args []string) {
	files, err := expandArgs(args)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't expand spec arguments")
	}

	var queries []model.Query
	for _, f := range files {
		spec, err := model.LoadSpecFromFile(f)
		if err != nil {
			log.Fatal().Err(err).Str("file", f).Msg("Couldn't load specfile")
		}
		q, err := spec.BuildQuery()
		if err != nil {
			log.Fatal().Err(err).Str("file", f).Msg("Couldn't build query from specfile")
		}
		queries = append(queries, q)
	}

	opts := []model.Option{model.WithReporter(&model.ColorReporter{Writer: os.Stderr})}
	if detailsFlag {
		opts = append(opts, model.WithTrace(cas.NewStateCache(cas.NewMemoryCAS(), cacheSizeFlag)))
	}
	exec, err := model.NewExecutor(opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't build executor")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintln(os.Stderr, color.Cyan.Sprintf("Running %d queries...", len(queries)))
	engine := model.NewMultiThread(exec, workersFlag)
	outcomes, stats, err := engine.RunBatch(ctx, queries)
	if err != nil {
		log.Error().Err(err).Msg("Batch did not finish")
	}

	fmt.Fprint(os.Stderr, model.FormatBatch(outcomes, stats))

	failed := stats.Failed > 0 || err != nil
	if checkFlag {
		for i := range outcomes {
			if outcomes[i].Mismatch() {
				failed = true
			}
		}
	}
	if failed {
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, color.Green.Sprint("✓ All queries answered"))
}
