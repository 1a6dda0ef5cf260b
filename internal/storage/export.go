package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/downhill/internal/sim"
)

// ExportFrame is the JSON form of a recorded frame.
type ExportFrame struct {
	Time      float64    `json:"t"`
	Phase     string     `json:"phase"`
	Position  [3]float64 `json:"position"`
	Velocity  [3]float64 `json:"velocity"`
	Speed     float64    `json:"speed"`
	Airborne  bool       `json:"airborne"`
	Terrain   string     `json:"terrain"`
	Turn      float64    `json:"turn"`
	Braking   bool       `json:"braking"`
	Paddling  bool       `json:"paddling"`
	Collected int        `json:"collected"`
}

type ExportData struct {
	RunMetadata
	Frames []ExportFrame `json:"frames"`
}

func NewExportData(meta RunMetadata, result *sim.Result) ExportData {
	data := ExportData{
		RunMetadata: Describe(meta, result),
		Frames:      make([]ExportFrame, len(result.Frames)),
	}
	for i, f := range result.Frames {
		data.Frames[i] = ExportFrame{
			Time:      f.Time,
			Phase:     f.Phase.String(),
			Position:  f.State.Position,
			Velocity:  f.State.Velocity,
			Speed:     f.State.Speed(),
			Airborne:  f.State.Airborne,
			Terrain:   f.Terrain.String(),
			Turn:      f.Control.TurnFactor,
			Braking:   f.Control.Braking,
			Paddling:  f.Control.Paddling,
			Collected: f.Collected,
		}
	}
	return data
}

func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, result))
}

func ExportJSONFile(path string, meta RunMetadata, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := ExportJSON(file, meta, result); err != nil {
		return err
	}
	return file.Close()
}
