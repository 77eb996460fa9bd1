// Package chart draws the flattened leaves of each entry as a bar chart of
// access counts, one tile per entry, on a log scale.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"path"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/field-access-analysis/internal/typetree"
	apperrors "github.com/field-access-analysis/pkg/errors"
)

// Image formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Tile size used when Options leaves the image size unset.
const (
	tileWidthCM  = 10.0
	tileHeightCM = 7.0
)

// logFloor is where the log axis starts. Zero counts sit on it.
const logFloor = 0.5

// Options holds configuration for a Renderer.
type Options struct {
	// Columns is the number of tiles per row.
	Columns int
	// WidthCM and HeightCM size the whole image. Zero sizes each tile at
	// 10x7 cm.
	WidthCM  float64
	HeightCM float64
	DPI      int
	// Labels puts a "name : type" label under each bar.
	Labels bool
	// Format is FormatPNG or FormatSVG.
	Format string
}

// DefaultOptions returns the default renderer options.
func DefaultOptions() *Options {
	return &Options{
		Columns: 4,
		DPI:     96,
		Format:  FormatPNG,
	}
}

// FormatFor picks the image format from an output key's extension,
// ignoring a trailing compression extension.
func FormatFor(key string) string {
	key = strings.ToLower(key)
	for _, ext := range []string{".gz", ".gzip", ".zst", ".zstd"} {
		key = strings.TrimSuffix(key, ext)
	}
	if path.Ext(key) == ".svg" {
		return FormatSVG
	}
	return FormatPNG
}

// Renderer lays entries out on a grid of bar charts.
type Renderer struct {
	opts *Options
}

// New creates a Renderer.
func New(opts *Options) *Renderer {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Columns < 1 {
		opts.Columns = 1
	}
	if opts.DPI < 1 {
		opts.DPI = 96
	}
	return &Renderer{opts: opts}
}

// Grid returns the rows and columns needed for n tiles.
func (r *Renderer) Grid(n int) (rows, cols int) {
	cols = r.opts.Columns
	rows = (n + cols - 1) / cols
	if rows == 0 {
		rows = 1
	}
	return rows, cols
}

// Plots returns one plot per grid cell. Cells past the last entry hold
// an empty plot with its axes hidden.
func (r *Renderer) Plots(entries []*typetree.Entry) ([][]*plot.Plot, error) {
	rows, cols := r.Grid(len(entries))
	plots := make([][]*plot.Plot, rows)
	for j := range plots {
		plots[j] = make([]*plot.Plot, cols)
		for i := range plots[j] {
			k := j*cols + i
			if k >= len(entries) {
				p := plot.New()
				p.HideAxes()
				plots[j][i] = p
				continue
			}
			p, err := r.entryPlot(entries[k])
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", k, err)
			}
			plots[j][i] = p
		}
	}
	return plots, nil
}

func (r *Renderer) entryPlot(e *typetree.Entry) (*plot.Plot, error) {
	flat := typetree.Flatten(e.Tree.Root)

	values := make(plotter.Values, len(flat))
	labels := make([]string, len(flat))
	maxValue := 0.0
	for i, n := range flat {
		values[i] = float64(n.Access)
		labels[i] = n.Name + " : " + n.TypeName
		maxValue = math.Max(maxValue, values[i])
	}

	bars, err := plotter.NewBarChart(values, vg.Points(8))
	if err != nil {
		return nil, err
	}
	bars.Color = color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	bars.LineStyle.Width = 0

	p := plot.New()
	root := e.Tree.Root
	p.Title.Text = fmt.Sprintf("%s (%s)", root.FullTypeName, typetree.FormatCount(root.Access))
	p.Title.TextStyle.Font.Size = vg.Points(9)
	p.Add(bars)

	p.Y.Scale = clampedLogScale{floor: logFloor}
	p.Y.Tick.Marker = powerTicks{}
	p.Y.Tick.Label.Font.Size = vg.Points(7)
	p.Y.Min = logFloor
	p.Y.Max = math.Max(maxValue, 10)

	if r.opts.Labels {
		p.NominalX(labels...)
		p.X.Tick.Label.Rotation = -math.Pi / 2
		p.X.Tick.Label.XAlign = draw.XLeft
		p.X.Tick.Label.YAlign = draw.YCenter
		p.X.Tick.Label.Font.Size = vg.Points(6)
	} else {
		p.X.Tick.Marker = plot.ConstantTicks{}
	}
	return p, nil
}

// size returns the image size for a grid.
func (r *Renderer) size(rows, cols int) (vg.Length, vg.Length) {
	w, h := r.opts.WidthCM, r.opts.HeightCM
	if w <= 0 {
		w = tileWidthCM * float64(cols)
	}
	if h <= 0 {
		h = tileHeightCM * float64(rows)
	}
	return vg.Length(w) * vg.Centimeter, vg.Length(h) * vg.Centimeter
}

// Write renders entries and writes the encoded image to w.
func (r *Renderer) Write(entries []*typetree.Entry, w io.Writer) error {
	plots, err := r.Plots(entries)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeRenderError, "failed to build charts", err)
	}
	rows, cols := len(plots), len(plots[0])
	width, height := r.size(rows, cols)

	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(2),
		PadBottom: vg.Points(2),
		PadLeft:   vg.Points(2),
		PadRight:  vg.Points(2),
	}

	switch r.opts.Format {
	case FormatSVG:
		c := vgsvg.New(width, height)
		drawGrid(plots, tiles, draw.New(c))
		_, err = c.WriteTo(w)
	default:
		c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(r.opts.DPI), vgimg.UseBackgroundColor(color.White))
		drawGrid(plots, tiles, draw.New(c))
		_, err = vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeRenderError, "failed to encode chart", err)
	}
	return nil
}

func drawGrid(plots [][]*plot.Plot, tiles draw.Tiles, dc draw.Canvas) {
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}
}

// clampedLogScale is a log scale that maps everything at or below floor
// to the bottom of the axis, so zero counts stay drawable.
type clampedLogScale struct {
	floor float64
}

// Normalize implements plot.Normalizer.
func (s clampedLogScale) Normalize(min, max, x float64) float64 {
	min = math.Max(min, s.floor)
	max = math.Max(max, s.floor)
	x = math.Max(x, s.floor)
	if max <= min {
		return 0
	}
	lmin := math.Log(min)
	return (math.Log(x) - lmin) / (math.Log(max) - lmin)
}

// powerTicks marks each power of ten in range, labeled like flamegraph
// counts.
type powerTicks struct{}

// Ticks implements plot.Ticker.
func (powerTicks) Ticks(min, max float64) []plot.Tick {
	ticks := make([]plot.Tick, 0)
	if math.IsInf(max, 0) || math.IsNaN(max) {
		return ticks
	}
	for v := 1.0; v <= max; v *= 10 {
		if v >= min {
			ticks = append(ticks, plot.Tick{Value: v, Label: typetree.FormatCount(int64(v))})
		}
	}
	return ticks
}
