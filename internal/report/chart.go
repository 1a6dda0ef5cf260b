package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ASCII renders the series for a terminal of the given width.
func ASCII(s Series, width, height int) string {
	if len(s.Value) == 0 {
		return ""
	}
	return asciigraph.Plot(s.Value,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(s.Label()+" vs time"),
	)
}

func newPlot(title string, series ...Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.Add(plotter.NewGrid())

	for i, s := range series {
		if len(s.Times) != len(s.Value) || len(s.Times) == 0 {
			return nil, fmt.Errorf("series %s: no data", s.Name)
		}
		pts := make(plotter.XYs, len(s.Times))
		for j := range s.Times {
			pts[j].X = s.Times[j]
			pts[j].Y = s.Value[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Name, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		if len(series) > 1 {
			p.Legend.Add(s.Name, line)
		}
	}
	if len(series) == 1 {
		p.Y.Label.Text = series[0].Label()
	}
	return p, nil
}

// WritePNG draws the series on one chart and writes it as PNG.
func WritePNG(w io.Writer, title string, widthIn, heightIn float64, series ...Series) error {
	if len(series) == 0 {
		return fmt.Errorf("nothing to plot")
	}
	p, err := newPlot(title, series...)
	if err != nil {
		return err
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	bw := bufio.NewWriter(w)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

func SavePNG(path, title string, series ...Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	if err := WritePNG(f, title, 8, 4.5, series...); err != nil {
		return err
	}
	return f.Close()
}
