package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/internal/flock"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/internal/runner"
)

var (
	configFile string
	ticks      int
	mode       string
	agents     int
	seed       uint64
	workers    int
	useGrid    bool
	plot       bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flock",
		Short: "nearest-neighbor flocking simulation",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "parameters file (json)")
	runCmd.Flags().IntVar(&ticks, "ticks", 1000, "number of ticks to simulate")
	runCmd.Flags().StringVar(&mode, "mode", "scalar", "execution mode: scalar or batched")
	runCmd.Flags().IntVar(&agents, "agents", 0, "override population size")
	runCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = random)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "override per-tick worker count")
	runCmd.Flags().BoolVar(&useGrid, "grid", false, "use the spatial index for neighbor queries (scalar mode)")
	runCmd.Flags().BoolVar(&plot, "plot", true, "print mean neighbor distance graph after the run")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "development logging")

	validateCmd := &cobra.Command{
		Use:   "validate [config]",
		Short: "validate a parameters file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flock.LoadParams(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s is valid: %+v\n", args[0], p)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, validateCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	params, err := loadParams()
	if err != nil {
		return err
	}

	var m flock.Mode
	switch mode {
	case "scalar":
		m = flock.ModeScalar
	case "batched":
		m = flock.ModeBatched
	default:
		return fmt.Errorf("unknown mode %q (want scalar or batched)", mode)
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	var opts []runner.Option
	if useGrid {
		opts = append(opts, runner.WithGrid())
	}
	r, err := runner.New(params, m, log, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.Run(ctx, ticks); err != nil {
		return err
	}

	if plot && len(r.History()) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(r.History(),
			asciigraph.Height(12),
			asciigraph.Caption(fmt.Sprintf("mean nearest-neighbor distance over %d ticks (run %s)", ticks, r.RunID())),
		))
	}
	return nil
}

func loadParams() (flock.Params, error) {
	params := flock.DefaultParams()
	if configFile != "" {
		var err error
		params, err = flock.LoadParams(configFile)
		if err != nil {
			return params, err
		}
	}
	if agents > 0 {
		params.NumAgents = agents
	}
	if seed != 0 {
		params.Seed = seed
	}
	if workers > 0 {
		params.Workers = workers
	}
	return params, params.Validate()
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
