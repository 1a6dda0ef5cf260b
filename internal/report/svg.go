package report

import (
	"fmt"
	"strings"

	"github.com/san-kum/downhill/internal/collision"
	"github.com/san-kum/downhill/internal/course"
	"github.com/san-kum/downhill/internal/sim"
)

var obstacleColors = map[string]string{
	collision.Tree.Name:       "#1b7a3a",
	collision.TreeBarren.Name: "#6b4f2a",
	collision.Shrub.Name:      "#4caf50",
	collision.Herring.Name:    "#ffb300",
	collision.Flag.Name:       "#e53935",
	collision.Start.Name:      "#00bcd4",
	collision.Finish.Name:     "#00bcd4",
}

// CourseSVG draws a top-down map of the course with the path of the
// recorded frames. scale is pixels per meter; downhill points down the
// page.
func CourseSVG(c *course.Course, frames []sim.Frame, scale float64) string {
	cfg := c.Config
	width := cfg.Width * scale
	height := cfg.Length * scale
	px := func(x float64) float64 { return x * scale }
	py := func(z float64) float64 { return -z * scale }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#8a8a8a"/>
`, width, height, width, height)

	// play area and finish line
	left := cfg.BoundaryWidth()
	fmt.Fprintf(&sb, `<rect x="%.1f" y="0" width="%.1f" height="%.1f" fill="#f4f8fb"/>
`, px(left), px(cfg.PlayWidth), height)
	fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#e53935" stroke-width="2"/>
`, px(left), py(-cfg.PlayLength), px(left+cfg.PlayWidth), py(-cfg.PlayLength))

	for _, o := range c.Field.Obstacles() {
		color, ok := obstacleColors[o.Kind.Name]
		if !ok {
			color = "#000000"
		}
		r := max(o.CollisionRadius, o.Diameter/4) * scale
		opacity := 1.0
		if o.Collected {
			opacity = 0.3
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.1f"><title>%s</title></circle>
`, px(o.Position[0]), py(o.Position[2]), r, color, opacity, o.Kind.Name)
	}

	if len(frames) >= 2 {
		sb.WriteString(`<path fill="none" stroke="#1e3a8a" stroke-width="1.5" d="M`)
		for i, f := range frames {
			if i > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", px(f.State.Position[0]), py(f.State.Position[2]))
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
