package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/downhill/internal/automation"
	"github.com/san-kum/downhill/internal/experiment"
	"github.com/san-kum/downhill/internal/optim"
	"github.com/san-kum/downhill/internal/sim"
	"github.com/san-kum/downhill/internal/storage"
)

func newScenarioCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			opts := automation.Options{Logger: logger}
			if save {
				opts.Store = storage.New(dataDir)
				if err := opts.Store.Init(); err != nil {
					return err
				}
			}

			results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), opts)
			for _, r := range results {
				fmt.Println(summary(r.Name, r.Result))
				if r.RunID != "" {
					fmt.Printf("run id: %s\n", r.RunID)
				}
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&save, "save", true, "store steps marked save")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var flags raceFlags
	cmd := &cobra.Command{
		Use:   "compare [stepper...]",
		Short: "race the same course with different integrators",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			registry := experiment.NewRegistry()

			fmt.Printf("comparing steppers on %s (dt=%.4f, duration=%.1fs)\n\n", cfg.Course, cfg.Dt, cfg.Duration)
			w := newTable()
			fmt.Fprintln(w, "STEPPER\tPHASE\tFINISH\tMAX SPEED\tSUB-STEPS\tRETRIES\tFLOORED\tTIME")

			for _, name := range args {
				member := *cfg
				member.Stepper = name
				exp, err := experiment.New(&member, registry)
				if err != nil {
					fmt.Fprintf(w, "%s\terror: %v\n", name, err)
					continue
				}

				start := time.Now()
				result, err := exp.Run(ctx)
				elapsed := time.Since(start)
				if err != nil {
					fmt.Fprintf(w, "%s\terror: %v\n", name, err)
					continue
				}

				fmt.Fprintf(w, "%s\t%s\t%.3f\t%.3f\t%d\t%d\t%d\t%.1fms\n",
					name, result.Phase, result.FinishTime, result.Metrics["max_speed"],
					result.Stats.SubSteps, result.Stats.Retries, result.Stats.Floored,
					float64(elapsed.Microseconds())/1000)
			}
			return w.Flush()
		},
	}
	flags.register(cmd)
	return cmd
}

func newSweepCmd() *cobra.Command {
	var (
		flags    raceFlags
		param    string
		lo, hi   float64
		steps    int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one controller parameter",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("controller") && cfg.Controller == "none" {
				cfg.Controller = "pid"
			}
			ctx, cancel := signalContext()
			defer cancel()

			sweep := &automation.ParameterSweep{Base: cfg, ParamName: param, ParamMin: lo, ParamMax: hi, NumSteps: steps}
			results, err := automation.RunSweep(ctx, sweep, experiment.NewRegistry())
			if err != nil {
				return err
			}

			w := newTable()
			fmt.Fprintf(w, "%s\tFINISHED\tTIME\tMAX SPEED\tHERRING\tCOLLISIONS\n", param)
			for _, r := range results {
				fmt.Fprintf(w, "%.4f\t%v\t%.2f\t%.2f\t%d\t%d\n",
					r.ParamValue, r.Finished, r.FinishTime, r.MaxSpeed, r.Collected, r.Collisions)
			}
			return w.Flush()
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&param, "param", "kp", "controller parameter")
	cmd.Flags().Float64Var(&lo, "min", 0, "first value")
	cmd.Flags().Float64Var(&hi, "max", 0.5, "last value")
	cmd.Flags().IntVar(&steps, "steps", 5, "number of values")
	return cmd
}

func newTuneCmd() *cobra.Command {
	var (
		flags     raceFlags
		grid      []string
		objective string
	)
	cmd := &cobra.Command{
		Use:     "tune",
		Short:   "grid search controller parameters",
		Example: "  downhill tune --controller pid --grid kp=0:0.4:5 --grid kd=0:0.1:3",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("controller") && cfg.Controller == "none" {
				cfg.Controller = "pid"
			}

			names, ranges, err := parseGrid(grid)
			if err != nil {
				return err
			}
			search, err := optim.NewGridSearch(names, ranges)
			if err != nil {
				return err
			}
			score := optim.FinishTime
			if objective != "finish_time" {
				score = optim.Metric(objective)
			}

			ctx, cancel := signalContext()
			defer cancel()
			registry := experiment.NewRegistry()
			build := func(params map[string]float64) (*sim.Simulator, error) {
				member := *cfg
				exp, err := experiment.New(&member, registry)
				if err != nil {
					return nil, err
				}
				if err := exp.SetParams(params); err != nil {
					return nil, err
				}
				logger.Debug("tune candidate", "params", params)
				return exp.Simulator(), nil
			}

			start := time.Now()
			best, runs, err := search.Search(ctx, build, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration}, score)
			if err != nil {
				return err
			}

			fmt.Println(titleStyle.Render(fmt.Sprintf("best of %d races on %s", runs, cfg.Course)))
			for _, name := range names {
				fmt.Println(row(name, fmt.Sprintf("%.4f", best.Params[name])))
			}
			fmt.Println(row(objective, fmt.Sprintf("%.4f", best.Score)))
			fmt.Println(row("elapsed", time.Since(start).Round(time.Millisecond)))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringArrayVar(&grid, "grid", []string{"kp=0:0.3:4"}, "parameter range name=lo:hi:n, repeatable")
	cmd.Flags().StringVar(&objective, "objective", "finish_time", "finish_time or a metric name to minimize")
	return cmd
}

// parseGrid reads name=lo:hi:n ranges.
func parseGrid(args []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, rng, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, nil, fmt.Errorf("grid %q: want name=lo:hi:n", arg)
		}
		var lo, hi float64
		var n int
		if _, err := fmt.Sscanf(rng, "%g:%g:%d", &lo, &hi, &n); err != nil {
			return nil, nil, fmt.Errorf("grid %q: %w", arg, err)
		}
		if n < 1 {
			return nil, nil, fmt.Errorf("grid %q: need at least one value", arg)
		}
		names = append(names, name)
		ranges = append(ranges, optim.Linspace(lo, hi, n))
	}
	return names, ranges, nil
}
