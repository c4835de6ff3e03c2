package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/wheellock/cas"
	"github.com/timewinder-dev/wheellock/model"
)

var (
	deadendFlags []string
	startFlag    string
	deadWhenFlag string
	pathFlag     bool
	statsFlag    bool
	maxDepthFlag int
)

var solveCmd = &cobra.Command{
	Use:   "solve TARGET",
	Short: "Print the fewest moves to TARGET, or -1 if it can't be reached",
	Args:  cobra.ExactArgs(1),
	RunE:  solveCommand,
}

func init() {
	solveCmd.Flags().StringSliceVarP(&deadendFlags, "deadend", "d", nil, "Dead combination (repeatable, or comma separated)")
	solveCmd.Flags().StringVar(&startFlag, "start", "0000", "Starting combination")
	solveCmd.Flags().StringVar(&deadWhenFlag, "dead-when", "", "Starlark expression over w (wheel tuple) and s (string) marking more dead combinations")
	solveCmd.Flags().BoolVar(&pathFlag, "path", false, "Print the combinations along one shortest path")
	solveCmd.Flags().BoolVar(&statsFlag, "stats", false, "Print search statistics to stderr")
	solveCmd.Flags().IntVar(&maxDepthFlag, "max-depth", 0, "Give up after this many moves (0 for no limit)")
}

func solveCommand(cmd *cobra.Command, args []string) error {
	spec := &model.Spec{
		Name:     "solve",
		Start:    startFlag,
		Target:   args[0],
		Deadends: deadendFlags,
		DeadWhen: deadWhenFlag,
	}
	// Bad input is a usage error, reported before any search runs.
	q, err := spec.BuildQuery()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	opts := []model.Option{model.WithMaxDepth(maxDepthFlag)}
	if pathFlag {
		opts = append(opts, model.WithTrace(cas.NewMemoryCAS()))
	}
	if statsFlag {
		opts = append(opts, model.WithReporter(&model.ColorReporter{Writer: os.Stderr}))
	}
	result, err := model.Run(context.Background(), q, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Error during search")
	}
	log.Debug().Str("run", result.RunID).Int("answer", result.Answer()).Msg("Solved")

	printAnswer(cmd.OutOrStdout(), result)
	if statsFlag {
		fmt.Fprint(os.Stderr, model.FormatStatistics(result.Statistics))
	}
	return nil
}

func printAnswer(w io.Writer, result *model.Result) {
	fmt.Fprintln(w, result.Answer())
	if len(result.Path) > 0 {
		fmt.Fprintln(w, model.FormatPath(result.Path))
	}
}
