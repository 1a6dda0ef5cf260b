package main

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/san-kum/downhill/internal/collision"
	"github.com/san-kum/downhill/internal/config"
	"github.com/san-kum/downhill/internal/course"
)

func newCoursesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "list built-in course layouts and generators",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := newTable()
			fmt.Fprintln(w, "COURSE\tSIZE\tPLAY\tANGLE\tOUTRO")
			for _, name := range config.ListCourses() {
				c, _ := config.GetCourse(name)
				fmt.Fprintf(w, "%s\t%gx%g\t%gx%g\t%g°\t%v\n",
					name, c.Width, c.Length, c.PlayWidth, c.PlayLength, c.Angle, c.ShowOutro)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\ngenerators: %v\n", course.ListGenerators())
			fmt.Printf("obstacles:  %v\n", collision.KindNames())
			return nil
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available run presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := newTable()
			fmt.Fprintln(w, "PRESET\tCOURSE\tGENERATOR\tSTEPPER\tCONTROLLER\tOBSTACLES")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
					name, p.Course, p.Generator, p.Stepper, p.Controller, p.Obstacles)
			}
			return w.Flush()
		},
	}
}

func newQueryCmd() *cobra.Command {
	var flags raceFlags
	cmd := &cobra.Command{
		Use:   "query [x] [z]",
		Short: "sample the terrain of a course at a world position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("x: %w", err)
			}
			z, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("z: %w", err)
			}

			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			c, err := course.Load(cfg)
			if err != nil {
				return err
			}

			s := c.Grid.Sample(x, z)
			fmt.Println(titleStyle.Render(fmt.Sprintf("%s at (%g, %g)", c.Config.Name, x, z)))
			fmt.Println(row("height", fmt.Sprintf("%.4f m", s.Height)))
			fmt.Println(row("normal", fmt.Sprintf("(%.4f, %.4f, %.4f)", s.Normal[0], s.Normal[1], s.Normal[2])))
			fmt.Println(row("terrain", s.Terrain.Kind()))
			fmt.Println(row("friction", fmt.Sprintf("%.4f", s.Friction)))
			fmt.Println(row("depth", fmt.Sprintf("%.4f m", s.Depth)))
			fmt.Println(row("track marks", s.TrackMarks))
			p := mgl64.Vec3{x, s.Height, z}
			if hit := c.Field.FindColliding(p, p); hit != nil {
				fmt.Println(row("obstacle", hit.Kind.Name))
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var flags raceFlags
	cmd := &cobra.Command{
		Use:   "generate [dir]",
		Short: "write a generated course as a course directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			layout, ok := config.GetCourse(cfg.Course)
			if !ok {
				return fmt.Errorf("unknown course %q", cfg.Course)
			}

			hf, err := course.Generate(cfg.Generator, layout, cfg.Grid.Columns, cfg.Grid.Rows, cfg.Seed)
			if err != nil {
				return err
			}
			records := course.Scatter(layout, hf.Width, hf.Height, cfg.Obstacles, cfg.Seed)
			if err := course.SaveDir(args[0], layout, hf, records); err != nil {
				return err
			}

			logger.Debug("course written", "dir", args[0], "cols", hf.Width, "rows", hf.Height, "items", len(records))
			fmt.Printf("wrote %s (%dx%d, %d items); race it with --course-dir %s\n",
				args[0], hf.Width, hf.Height, len(records), args[0])
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
