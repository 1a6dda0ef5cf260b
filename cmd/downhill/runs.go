package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/downhill/internal/report"
	"github.com/san-kum/downhill/internal/sim"
	"github.com/san-kum/downhill/internal/storage"
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := newTable()
			fmt.Fprintln(w, "ID\tCOURSE\tTIME\tPHASE\tFINISH\tSTEPPER\tCTRL")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%s\t%s\n",
					run.ID,
					run.Course,
					run.Timestamp.Local().Format("2006-01-02 15:04:05"),
					run.Phase,
					run.FinishTime,
					run.Stepper,
					run.Controller,
				)
			}
			return w.Flush()
		},
	}
}

func newPlotCmd() *cobra.Command {
	var (
		series  string
		pngPath string
		width   int
	)
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			frames, err := st.LoadFrames(args[0])
			if err != nil {
				return err
			}
			if len(frames) == 0 {
				return fmt.Errorf("no data to plot")
			}

			all := make([]report.Series, 0)
			for _, name := range strings.Split(series, ",") {
				s, err := report.Extract(strings.TrimSpace(name), frames)
				if err != nil {
					return err
				}
				all = append(all, s)
			}

			if pngPath != "" {
				if err := report.SavePNG(pngPath, meta.Course, all...); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", pngPath)
				return nil
			}

			fmt.Println(titleStyle.Render(fmt.Sprintf("%s on %s", meta.ID, meta.Course)))
			fmt.Printf("samples: %d\n\n", len(frames))
			for _, s := range all {
				fmt.Println(report.ASCII(s, width, 10))
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&series, "series", "speed,height", "comma separated series: "+strings.Join(report.SeriesNames(), ", "))
	cmd.Flags().StringVar(&pngPath, "png", "", "write a PNG chart instead of terminal graphs")
	cmd.Flags().IntVar(&width, "width", 80, "terminal graph width")
	return cmd
}

func newExportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}

			switch format {
			case "meta":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(meta)
			case "csv", "json":
			default:
				return fmt.Errorf("unknown format %q (meta, json, csv)", format)
			}

			frames, err := st.LoadFrames(args[0])
			if err != nil {
				return err
			}
			if format == "csv" {
				return storage.WriteFrames(os.Stdout, frames)
			}
			data := storage.NewExportData(*meta, &sim.Result{Frames: frames})
			data.RunMetadata = *meta
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "meta, json or csv")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [run_id...]",
		Short: "delete stored runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			for _, id := range args {
				if err := st.Delete(id); err != nil {
					return err
				}
				fmt.Printf("deleted %s\n", id)
			}
			return nil
		},
	}
}
