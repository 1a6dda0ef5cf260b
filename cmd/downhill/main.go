package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool
	logger  *slog.Logger
)

// main registers the commands and exits with status 1 when the command
// fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "downhill",
		Short:         "terrain-following slide simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".downhill", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log race events")

	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportCmd(),
		newDeleteCmd(),
		newCoursesCmd(),
		newPresetsCmd(),
		newQueryCmd(),
		newGenerateCmd(),
		newScenarioCmd(),
		newCompareCmd(),
		newSweepCmd(),
		newTuneCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString(errorStyle.Render("error: "+err.Error()) + "\n")
		os.Exit(1)
	}
}
