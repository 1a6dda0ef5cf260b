package course

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/downhill/internal/collision"
	"github.com/san-kum/downhill/internal/config"
	"github.com/san-kum/downhill/internal/dynamo"
	"github.com/san-kum/downhill/internal/terrain"
)

// ManifestFile names the course description inside a course directory.
const ManifestFile = "course.yaml"

// Manifest is the course.yaml of a course directory. Image and item paths
// are relative to the directory.
type Manifest struct {
	config.Course `yaml:",inline"`
	Elevation     string `yaml:"elevation"`
	Terrain       string `yaml:"terrain"`
	Items         string `yaml:"items,omitempty"`
}

func (m *Manifest) applyDefaults() {
	if m.Elevation == "" {
		m.Elevation = "elevation.png"
	}
	if m.Terrain == "" {
		m.Terrain = "terrain.png"
	}
}

// itemsFile is the obstacle list. JSON files decode as YAML.
type itemsFile struct {
	Items []collision.Record `yaml:"items"`
}

// LoadDir reads a course directory: the manifest, a grayscale elevation
// image and a terrain color image of the same size (png, bmp or tiff),
// and an optional item list.
func LoadDir(dir string) (*Course, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", ManifestFile, err)
	}
	m.applyDefaults()
	if m.Name == "" {
		m.Name = filepath.Base(dir)
	}

	hf, err := readHeightfield(filepath.Join(dir, m.Elevation), filepath.Join(dir, m.Terrain))
	if err != nil {
		return nil, err
	}

	var items itemsFile
	if m.Items != "" {
		data, err := os.ReadFile(filepath.Join(dir, m.Items))
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%s: %w", m.Items, err)
		}
	}

	return New(m.Course, hf, items.Items)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func readHeightfield(elevationPath, terrainPath string) (terrain.Heightfield, error) {
	elevation, err := decodeImage(elevationPath)
	if err != nil {
		return terrain.Heightfield{}, err
	}
	colors, err := decodeImage(terrainPath)
	if err != nil {
		return terrain.Heightfield{}, err
	}

	eb, cb := elevation.Bounds(), colors.Bounds()
	if eb.Dx() != cb.Dx() || eb.Dy() != cb.Dy() {
		return terrain.Heightfield{}, fmt.Errorf("%w: elevation %dx%d, terrain %dx%d",
			dynamo.ErrInvalidHeightfield, eb.Dx(), eb.Dy(), cb.Dx(), cb.Dy())
	}

	hf := newHeightfield(eb.Dx(), eb.Dy())
	for y := 0; y < hf.Height; y++ {
		for x := 0; x < hf.Width; x++ {
			r, gr, b, _ := colors.At(cb.Min.X+x, cb.Min.Y+y).RGBA()
			hf.Elevation[x+y*hf.Width] = channelMean(elevation.At(eb.Min.X+x, eb.Min.Y+y))
			hf.Color[x+y*hf.Width] = int(r>>8)<<16 | int(gr>>8)<<8 | int(b>>8)
		}
	}
	return hf, nil
}

// channelMean is the rounded average of the 8-bit red, green and blue
// channels.
func channelMean(c color.Color) int {
	r, g, b, _ := c.RGBA()
	return int(math.Round(float64(r>>8+g>>8+b>>8) / 3))
}

// SaveDir writes a course directory readable by LoadDir.
func SaveDir(dir string, layout config.Course, hf terrain.Heightfield, records []collision.Record) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	m := Manifest{Course: layout, Elevation: "elevation.png", Terrain: "terrain.png", Items: "items.yaml"}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		return err
	}

	elevation := image.NewGray(image.Rect(0, 0, hf.Width, hf.Height))
	colors := image.NewRGBA(image.Rect(0, 0, hf.Width, hf.Height))
	for y := 0; y < hf.Height; y++ {
		for x := 0; x < hf.Width; x++ {
			i := x + y*hf.Width
			elevation.SetGray(x, y, color.Gray{Y: uint8(hf.Elevation[i])})
			c := hf.Color[i]
			colors.SetRGBA(x, y, color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xff})
		}
	}
	if err := writePNG(filepath.Join(dir, m.Elevation), elevation); err != nil {
		return err
	}
	if err := writePNG(filepath.Join(dir, m.Terrain), colors); err != nil {
		return err
	}

	data, err = yaml.Marshal(itemsFile{Items: records})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, m.Items), data, 0o644)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
