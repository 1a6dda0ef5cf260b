package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/downhill/internal/automation"
	"github.com/san-kum/downhill/internal/config"
	"github.com/san-kum/downhill/internal/experiment"
	"github.com/san-kum/downhill/internal/report"
	"github.com/san-kum/downhill/internal/storage"
)

// raceFlags are the flags shared by every command that builds a race.
type raceFlags struct {
	configFile string
	preset     string
	course     string
	courseDir  string
	generator  string
	stepper    string
	controller string
	script     string
	dt         float64
	duration   float64
	seed       int64
	obstacles  int
	columns    int
	rows       int
	kp, ki, kd float64
	target     float64
	paddle     bool
}

func (f *raceFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fl.StringVar(&f.preset, "preset", "", "use preset configuration")
	fl.StringVar(&f.course, "course", config.DefaultCourse, "course layout")
	fl.StringVar(&f.courseDir, "course-dir", "", "load the course from a directory")
	fl.StringVar(&f.generator, "generator", "slope", "heightfield generator")
	fl.StringVar(&f.stepper, "stepper", "adaptive", "integrator")
	fl.StringVar(&f.controller, "controller", "none", "controller")
	fl.StringVar(&f.script, "script", "", "input schedule for the script controller")
	fl.Float64Var(&f.dt, "dt", config.DefaultDt, "frame time")
	fl.Float64Var(&f.duration, "time", config.DefaultDuration, "maximum race duration")
	fl.Int64Var(&f.seed, "seed", 0, "course generation seed")
	fl.IntVar(&f.obstacles, "obstacles", 0, "obstacles scattered on generated courses")
	fl.IntVar(&f.columns, "columns", config.DefaultColumns, "generated grid columns")
	fl.IntVar(&f.rows, "rows", config.DefaultRows, "generated grid rows")
	fl.Float64Var(&f.kp, "kp", config.DefaultKp, "pid kp")
	fl.Float64Var(&f.ki, "ki", config.DefaultKi, "pid ki")
	fl.Float64Var(&f.kd, "kd", config.DefaultKd, "pid kd")
	fl.Float64Var(&f.target, "target", 0, "pid lane offset from the center line")
	fl.BoolVar(&f.paddle, "paddle", false, "pid paddles below cruise speed")
}

// resolve layers defaults, preset, config file and explicitly set flags.
func (f *raceFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if f.preset != "" {
		cfg = config.GetPreset(f.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
	}
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("course") {
		cfg.Course = f.course
	}
	if changed("course-dir") {
		cfg.CourseDir = f.courseDir
	}
	if changed("generator") {
		cfg.Generator = f.generator
	}
	if changed("stepper") {
		cfg.Stepper = f.stepper
	}
	if changed("controller") {
		cfg.Controller = f.controller
	}
	if changed("script") {
		cfg.ControllerParams.Script = f.script
		if !changed("controller") {
			cfg.Controller = "script"
		}
	}
	if changed("dt") {
		cfg.Dt = f.dt
	}
	if changed("time") {
		cfg.Duration = f.duration
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("obstacles") {
		cfg.Obstacles = f.obstacles
	}
	if changed("columns") {
		cfg.Grid.Columns = f.columns
	}
	if changed("rows") {
		cfg.Grid.Rows = f.rows
	}
	if changed("kp") {
		cfg.ControllerParams.Kp = f.kp
	}
	if changed("ki") {
		cfg.ControllerParams.Ki = f.ki
	}
	if changed("kd") {
		cfg.ControllerParams.Kd = f.kd
	}
	if changed("target") {
		cfg.ControllerParams.Target = f.target
	}
	if changed("paddle") {
		cfg.ControllerParams.Paddle = f.paddle
	}

	return cfg, cfg.Validate()
}

// signalContext cancels on interrupt so a long race stops between frames.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func newRunCmd() *cobra.Command {
	var (
		flags  raceFlags
		noSave bool
		runs   int
		saveTo string
		svgMap string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "race a course",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			registry := experiment.NewRegistry()
			if runs > 1 {
				return runSeeds(ctx, cfg, registry, runs)
			}

			exp, err := experiment.New(cfg, registry)
			if err != nil {
				return err
			}
			exp.SetLogger(logger)

			logger.Info("racing", "course", exp.Course().Config.Name, "stepper", cfg.Stepper, "controller", cfg.Controller)
			start := time.Now()
			result, err := exp.Run(ctx)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Println(summary(exp.Course().Config.Name, result))
			fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))

			if svgMap != "" {
				svg := report.CourseSVG(exp.Course(), result.Frames, 4)
				if err := os.WriteFile(svgMap, []byte(svg), 0644); err != nil {
					return err
				}
				fmt.Printf("course map written to %s\n", svgMap)
			}
			if saveTo != "" {
				if err := storage.ExportJSONFile(saveTo, exp.Metadata(), result); err != nil {
					return err
				}
				fmt.Printf("exported to %s\n", saveTo)
			}
			if noSave {
				return nil
			}

			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
			runID, err := st.Save(exp.Metadata(), result)
			if err != nil {
				return err
			}
			fmt.Printf("run id: %s\n", runID)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().IntVar(&runs, "runs", 1, "race consecutive seeds in parallel")
	cmd.Flags().StringVar(&saveTo, "json", "", "also export the run as JSON to this file")
	cmd.Flags().StringVar(&svgMap, "svg", "", "write a top-down course map with the race line")
	return cmd
}

func runSeeds(ctx context.Context, cfg *config.Config, registry *experiment.Registry, n int) error {
	start := time.Now()
	results, err := automation.RunSeeds(ctx, cfg, registry, n)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "SEED\tFINISHED\tTIME\tHERRING\tCOLLISIONS")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%v\t%.2f\t%d\t%d\n", r.Seed, r.Finished, r.FinishTime, r.Collected, r.Collisions)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	finished, unfinished, mean := automation.SeedStats(results)
	fmt.Println()
	fmt.Println(row("finished", fmt.Sprintf("%d of %d", finished, finished+unfinished)))
	fmt.Println(row("mean time", fmt.Sprintf("%.2fs", mean)))
	fmt.Println(row("elapsed", time.Since(start).Round(time.Millisecond)))
	return nil
}
