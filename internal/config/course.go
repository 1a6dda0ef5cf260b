package config

import (
	"fmt"
	"math"

	"github.com/san-kum/downhill/internal/dynamo"
)

// Course holds the world dimensions of a course. Lengths are meters, the
// angle is the mean slope in degrees and Scale maps a full elevation pixel
// range to meters.
type Course struct {
	Name        string  `yaml:"name"`
	Width       float64 `yaml:"width"`
	Length      float64 `yaml:"length"`
	PlayWidth   float64 `yaml:"play_width"`
	PlayLength  float64 `yaml:"play_length"`
	StartX      float64 `yaml:"start_x"`
	StartY      float64 `yaml:"start_y"`
	Angle       float64 `yaml:"angle"`
	Scale       float64 `yaml:"scale"`
	FinishBrake float64 `yaml:"finish_brake"`
	ShowOutro   bool    `yaml:"show_outro"`
}

func (c Course) Validate() error {
	switch {
	case !(c.Width > 0) || !(c.Length > 0):
		return fmt.Errorf("%w: size %gx%g", dynamo.ErrInvalidCourse, c.Width, c.Length)
	case c.PlayWidth <= 0 || c.PlayWidth > c.Width:
		return fmt.Errorf("%w: play width %g outside (0, %g]", dynamo.ErrInvalidCourse, c.PlayWidth, c.Width)
	case c.PlayLength <= 0 || c.PlayLength > c.Length:
		return fmt.Errorf("%w: play length %g outside (0, %g]", dynamo.ErrInvalidCourse, c.PlayLength, c.Length)
	case c.Angle < 0 || c.Angle >= 90:
		return fmt.Errorf("%w: angle %g", dynamo.ErrInvalidCourse, c.Angle)
	case c.Scale < 0 || c.FinishBrake < 0:
		return fmt.Errorf("%w: negative scale or finish brake", dynamo.ErrInvalidCourse)
	}
	return nil
}

// BoundaryWidth is the margin on each side between the course edge and
// the playable area.
func (c Course) BoundaryWidth() float64 {
	return (c.Width - c.PlayWidth) / 2
}

// Drop is the height lost per meter of length.
func (c Course) Drop() float64 {
	return math.Tan(c.Angle * math.Pi / 180)
}
