package config

import "sort"

// Courses lists the built-in course layouts by name.
var Courses = map[string]Course{
	"bunny-hill":           {Width: 90, Length: 520, PlayWidth: 85, PlayLength: 470, StartX: 45, StartY: -3.5, Angle: 25, Scale: 7, FinishBrake: 15, ShowOutro: true},
	"frozen-river":         {Width: 100, Length: 800, PlayWidth: 60, PlayLength: 785, StartX: 50, StartY: -3.5, Angle: 32, Scale: 18, FinishBrake: 25},
	"challenge-one":        {Width: 100, Length: 1500, PlayWidth: 95, PlayLength: 1485, StartX: 50, StartY: -3, Angle: 28, Scale: 20, FinishBrake: 25, ShowOutro: true},
	"chinese-wall":         {Width: 100, Length: 1500, PlayWidth: 95, PlayLength: 1485, StartX: 50, StartY: -3, Angle: 30, Scale: 12, FinishBrake: 25, ShowOutro: true},
	"downhill-fear":        {Width: 60, Length: 1800, PlayWidth: 60, PlayLength: 1800, StartX: 30, StartY: -3.5, Angle: 24, Scale: 7, FinishBrake: 25},
	"explore-mountains":    {Width: 100, Length: 2000, PlayWidth: 95, PlayLength: 1980, StartX: 50, StartY: -3, Angle: 25, Scale: 12, FinishBrake: 25, ShowOutro: true},
	"frozen-lakes":         {Width: 100, Length: 2000, PlayWidth: 95, PlayLength: 1980, StartX: 50, StartY: -3, Angle: 25, Scale: 12, FinishBrake: 25, ShowOutro: true},
	"hippo-run":            {Width: 30, Length: 3500, PlayWidth: 30, PlayLength: 3495, StartX: 16, StartY: -3.5, Angle: 25, Scale: 13.5, FinishBrake: 25},
	"holy-grail":           {Width: 100, Length: 1500, PlayWidth: 95, PlayLength: 1485, StartX: 50, StartY: -3, Angle: 25, Scale: 22, FinishBrake: 25, ShowOutro: true},
	"in-search-of-vodka":   {Width: 60, Length: 2500, PlayWidth: 60, PlayLength: 2500, StartX: 30, StartY: -3.5, Angle: 25, Scale: 10, FinishBrake: 25},
	"milos-castle":         {Width: 54, Length: 800, PlayWidth: 54, PlayLength: 800, StartX: 20, StartY: -5, Angle: 23, Scale: 15, FinishBrake: 25},
	"path-of-daggers":      {Width: 54, Length: 800, PlayWidth: 48, PlayLength: 795, StartX: 45, StartY: -3, Angle: 23, Scale: 12, FinishBrake: 25},
	"penguins-cant-fly":    {Width: 60, Length: 2500, PlayWidth: 60, PlayLength: 2500, StartX: 30, StartY: -3.5, Angle: 30, Scale: 10, FinishBrake: 25, ShowOutro: true},
	"quiet-river":          {Width: 50, Length: 2000, PlayWidth: 49, PlayLength: 2000, StartX: 20, StartY: -3, Angle: 25, Scale: 12, FinishBrake: 25},
	"secret-valleys":       {Width: 100, Length: 2000, PlayWidth: 95, PlayLength: 1980, StartX: 50, StartY: -3, Angle: 25, Scale: 12, FinishBrake: 25, ShowOutro: true},
	"this-means-something": {Width: 54, Length: 800, PlayWidth: 52, PlayLength: 800, StartX: 30, StartY: -3, Angle: 23, Scale: 36, FinishBrake: 25},
	"tux-at-home":          {Width: 100, Length: 2000, PlayWidth: 95, PlayLength: 1980, StartX: 50, StartY: -3, Angle: 25, Scale: 15, FinishBrake: 25, ShowOutro: true},
	"twisty-slope":         {Width: 90, Length: 520, PlayWidth: 55, PlayLength: 470, StartX: 45, StartY: -3.5, Angle: 25, Scale: 7, FinishBrake: 15, ShowOutro: true},
	"wild-mountains":       {Width: 100, Length: 2000, PlayWidth: 95, PlayLength: 1980, StartX: 50, StartY: -3, Angle: 28, Scale: 15, FinishBrake: 15, ShowOutro: true},
	"bumpy-ride":           {Width: 60, Length: 604, PlayWidth: 30, PlayLength: 550, StartX: 30, StartY: -3.1, Angle: 30, Scale: 8, FinishBrake: 15, ShowOutro: true},
}

// GetCourse returns the named course layout with its Name filled in.
func GetCourse(name string) (Course, bool) {
	c, ok := Courses[name]
	if !ok {
		return Course{}, false
	}
	c.Name = name
	return c, true
}

func ListCourses() []string {
	names := make([]string, 0, len(Courses))
	for name := range Courses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Presets are ready-made runs.
var Presets = map[string]*Config{
	"cruise": {
		Course: "bunny-hill", Generator: "slope", Stepper: "adaptive", Controller: "none",
		Grid: GridConfig{Columns: 48, Rows: 256}, Dt: DefaultDt, Duration: 90,
	},
	"lane-keeping": {
		Course: "twisty-slope", Generator: "moguls", Stepper: "adaptive", Controller: "pid",
		Grid: GridConfig{Columns: 48, Rows: 256}, Dt: DefaultDt, Duration: 90, Obstacles: 40,
		ControllerParams: ControllerConfig{Kp: DefaultKp, Kd: DefaultKd},
	},
	"sprint": {
		Course: "frozen-river", Generator: "slope", Stepper: "adaptive", Controller: "pid",
		Grid: GridConfig{Columns: 48, Rows: 384}, Dt: DefaultDt, Duration: 120,
		ControllerParams: ControllerConfig{Kp: DefaultKp, Kd: DefaultKd, Paddle: true},
	},
	"slalom": {
		Course: "bumpy-ride", Generator: "moguls", Stepper: "adaptive", Controller: "pid",
		Grid: GridConfig{Columns: 48, Rows: 256}, Dt: DefaultDt, Duration: 90, Obstacles: 120, Seed: 7,
		ControllerParams: ControllerConfig{Kp: 0.12, Kd: 0.04},
	},
	"euler-baseline": {
		Course: "bunny-hill", Generator: "slope", Stepper: "euler", Controller: "none",
		Grid: GridConfig{Columns: 48, Rows: 256}, Dt: DefaultDt, Duration: 90,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
