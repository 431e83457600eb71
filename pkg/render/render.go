// Package render draws reports as PNG charts
package render

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
)

var ErrNoData = errors.New("report has no data to render")

type (
	Option   func(r *Renderer)
	Renderer struct {
		width, height vg.Length
		channels      []model.GapChannel
	}
)

func WithSize(width, height vg.Length) Option {
	return func(r *Renderer) {
		r.width, r.height = width, height
	}
}

// WithChannels selects the gap channels to draw (default: the primary channel).
// Channels not present in the report are skipped.
func WithChannels(chs ...model.GapChannel) Option {
	return func(r *Renderer) {
		r.channels = chs
	}
}

func New(opts ...Option) *Renderer {
	ret := &Renderer{width: 14 * vg.Inch, height: 8 * vg.Inch}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Render writes a PNG with the speed of both laps on top and the
// gap channels below. Segment boundaries are marked in the gap panel.
func (r *Renderer) Render(w io.Writer, rep *model.Report) error {
	grid := rep.TelemetryChannels.Distance
	if len(grid) == 0 {
		return ErrNoData
	}
	pSpeed, err := r.speedPlot(rep)
	if err != nil {
		return err
	}
	pGap, err := r.gapPlot(rep)
	if err != nil {
		return err
	}

	img := vgimg.New(r.width, r.height)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: vg.Millimeter, PadX: vg.Millimeter}
	canvases := plot.Align([][]*plot.Plot{{pSpeed}, {pGap}}, tiles, dc)
	pSpeed.Draw(canvases[0][0])
	pGap.Draw(canvases[1][0])

	png := vgimg.PngCanvas{Canvas: img}
	_, err = png.WriteTo(w)
	return err
}

// RenderFile writes the PNG to path
func (r *Renderer) RenderFile(path string, rep *model.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return r.Render(f, rep)
}

func (r *Renderer) speedPlot(rep *model.Report) (*plot.Plot, error) {
	p := plot.New()
	info := rep.ComparisonInfo
	p.Title.Text = fmt.Sprintf("%s vs %s", info.A, info.B)
	p.X.Label.Text = "Distance (m)"
	p.Y.Label.Text = "Speed (km/h)"
	tc := rep.TelemetryChannels
	err := plotutil.AddLines(p,
		"A", xys(tc.Distance, tc.A[model.ChannelSpeed]),
		"B", xys(tc.Distance, tc.B[model.ChannelSpeed]))
	if err != nil {
		return nil, err
	}
	p.Legend.Top = true
	return p, nil
}

func (r *Renderer) gapPlot(rep *model.Report) (*plot.Plot, error) {
	p := plot.New()
	g := rep.GapResult
	p.Title.Text = fmt.Sprintf("Gap (%s)", g.Reference)
	p.X.Label.Text = "Distance (m)"
	p.Add(plotter.NewGrid())

	chs := r.channels
	if len(chs) == 0 {
		chs = []model.GapChannel{g.Primary}
	}
	drawn := 0
	for _, ch := range chs {
		vals, ok := g.Channels[ch]
		if !ok {
			continue
		}
		line, err := plotter.NewLine(xys(rep.TelemetryChannels.Distance, vals))
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(drawn)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(string(ch), line)
		drawn++
	}
	if drawn == 0 {
		return nil, fmt.Errorf("%w: none of %v available", ErrNoData, chs)
	}
	for _, s := range rep.SegmentSummaries {
		if s.StartDistance == nil {
			continue
		}
		mark, err := plotter.NewLine(plotter.XYs{
			{X: *s.StartDistance, Y: g.Stats[g.Primary].Min},
			{X: *s.StartDistance, Y: g.Stats[g.Primary].Max},
		})
		if err != nil {
			return nil, err
		}
		mark.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(mark)
	}
	p.Legend.Top = true
	return p, nil
}

func xys(xs, ys []float64) plotter.XYs {
	ret := make(plotter.XYs, min(len(xs), len(ys)))
	for i := range ret {
		ret[i].X = xs[i]
		ret[i].Y = ys[i]
	}
	return ret
}
