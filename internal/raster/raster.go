// Package raster loads and validates 2-D suitability grids. A grid holds one
// score per pixel in [0,100] and covers a fixed geographic footprint around a
// query coordinate; the footprint itself is tracked by the caller.
package raster

import (
	"encoding/csv"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	_ "image/jpeg"
	_ "image/png"
)

// ErrInvalidGrid reports a malformed raster: zero dimensions, ragged rows,
// or non-numeric cells.
var ErrInvalidGrid = eris.New("raster: invalid grid")

// Grid is a row-major 2-D array of suitability scores in [0,100].
type Grid struct {
	Width  int
	Height int
	Values []float64
}

// New allocates a zeroed grid with the given dimensions.
func New(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// At returns the score at (row, col). Bounds are not checked.
func (g *Grid) At(row, col int) float64 {
	return g.Values[row*g.Width+col]
}

// Set writes the score at (row, col). Bounds are not checked.
func (g *Grid) Set(row, col int, v float64) {
	g.Values[row*g.Width+col] = v
}

// Validate checks the grid shape. A nil grid is valid (meaning "no raster");
// a non-nil grid must have positive dimensions and a matching value count.
func (g *Grid) Validate() error {
	if g == nil {
		return nil
	}
	if g.Width <= 0 || g.Height <= 0 {
		return eris.Wrapf(ErrInvalidGrid, "dimensions %dx%d", g.Width, g.Height)
	}
	if len(g.Values) != g.Width*g.Height {
		return eris.Wrapf(ErrInvalidGrid, "have %d values, want %d", len(g.Values), g.Width*g.Height)
	}
	return nil
}

// Stats summarizes a grid for inspection and threshold diagnostics.
type Stats struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	Above50 int     `json:"above_50"`
	Above30 int     `json:"above_30"`
}

// Summarize computes grid statistics, including pixel counts above the
// primary (50) and relaxed (30) selection thresholds.
func (g *Grid) Summarize() Stats {
	s := Stats{Width: g.Width, Height: g.Height, Min: math.Inf(1), Max: math.Inf(-1)}
	if len(g.Values) == 0 {
		s.Min, s.Max = 0, 0
		return s
	}

	var sum float64
	for _, v := range g.Values {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		if v > 50 {
			s.Above50++
		}
		if v > 30 {
			s.Above30++
		}
	}
	s.Mean = sum / float64(len(g.Values))
	return s
}

// Load reads a grid from a file, dispatching on extension: .csv for numeric
// grids, .png/.jpg/.jpeg for grayscale suitability images.
func Load(path string) (*Grid, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return LoadCSV(path)
	case ".png", ".jpg", ".jpeg":
		return LoadImage(path)
	default:
		return nil, eris.Errorf("raster: unsupported file type %q", ext)
	}
}

// LoadCSV reads a numeric CSV grid: one row per raster row, every row the
// same width. Ragged or non-numeric input returns ErrInvalidGrid.
func LoadCSV(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "raster: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(f)
}

// ReadCSV parses a numeric CSV grid from a reader.
func ReadCSV(r io.Reader) (*Grid, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged input is rejected below, not by the reader
	reader.TrimLeadingSpace = true

	var (
		values []float64
		width  int
		height int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "raster: read CSV")
		}
		if len(record) == 0 {
			continue
		}

		if width == 0 {
			width = len(record)
		} else if len(record) != width {
			return nil, eris.Wrapf(ErrInvalidGrid, "row %d has %d cells, want %d", height, len(record), width)
		}

		for _, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, eris.Wrapf(ErrInvalidGrid, "row %d: non-numeric cell %q", height, cell)
			}
			values = append(values, v)
		}
		height++
	}

	g := &Grid{Width: width, Height: height, Values: values}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadImage reads a grayscale suitability image. Per-pixel luminance is
// scaled from 8-bit to the [0,100] score range.
func LoadImage(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "raster: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, eris.Wrapf(err, "raster: decode %s", path)
	}
	return FromImage(img)
}

// FromImage converts a decoded image to a grid of [0,100] scores.
func FromImage(img image.Image) (*Grid, error) {
	bounds := img.Bounds()
	g := New(bounds.Dx(), bounds.Dy())
	if err := g.Validate(); err != nil {
		return nil, err
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, gr, b, _ := img.At(x, y).RGBA()
			// Rec. 601 luma on 16-bit channel values, scaled to 0-100.
			luma := 0.299*float64(r) + 0.587*float64(gr) + 0.114*float64(b)
			g.Set(y-bounds.Min.Y, x-bounds.Min.X, luma/65535.0*100.0)
		}
	}
	return g, nil
}
