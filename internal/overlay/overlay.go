// Package overlay keeps the most recent trajectory and draws it over the table outline.
package overlay

import (
	"context"
	"image/color"
	"io"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/playmatatu/cueassist/internal/geometry"
	"github.com/playmatatu/cueassist/internal/physics"
)

var (
	feltColor   = color.RGBA{R: 34, G: 110, B: 58, A: 255}
	cushion     = color.RGBA{R: 90, G: 60, B: 30, A: 255}
	strikerLine = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	targetLine  = color.RGBA{R: 230, G: 60, B: 50, A: 255}
	eventColor  = color.RGBA{R: 255, G: 210, B: 0, A: 255}
)

// LatestStore remembers the last rendered trajectory.
type LatestStore struct {
	mu   sync.RWMutex
	last physics.Trajectory
	ok   bool
}

func NewLatestStore() *LatestStore {
	return &LatestStore{}
}

func (s *LatestStore) Render(_ context.Context, t physics.Trajectory) error {
	s.mu.Lock()
	s.last, s.ok = t, true
	s.mu.Unlock()
	return nil
}

func (s *LatestStore) Latest() (physics.Trajectory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.ok
}

// Plot builds the overlay in image coordinates (y grows downwards).
func Plot(t physics.Trajectory) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "trajectory"
	if t.Reason != "" {
		p.Title.Text = t.Reason
	}
	p.HideAxes()
	p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}

	drawn := false
	if len(t.Table) >= 3 {
		poly, err := plotter.NewPolygon(polygonXYs(t.Table))
		if err != nil {
			return nil, err
		}
		poly.Color = feltColor
		poly.LineStyle.Color = cushion
		poly.LineStyle.Width = vg.Points(3)
		p.Add(poly)
		drawn = true
	}

	for _, role := range []physics.Role{physics.RoleStriker, physics.RoleTarget} {
		xys := pathXYs(t.Segments, role)
		if len(xys) < 2 {
			continue
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		line.Color = strikerLine
		if role == physics.RoleTarget {
			line.Color = targetLine
		}
		line.Width = vg.Points(2)
		p.Add(line)
		drawn = true
	}

	if len(t.Events) > 0 {
		pts := make(plotter.XYs, 0, len(t.Events))
		for _, e := range t.Events {
			pts = append(pts, plotter.XY{X: e.Point.X, Y: e.Point.Y})
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Color = eventColor
		scatter.GlyphStyle.Radius = vg.Points(3)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
	}

	if !drawn {
		p.X.Min, p.X.Max = 0, 1
		p.Y.Min, p.Y.Max = 0, 1
	}
	return p, nil
}

// WritePNG renders t as a PNG of the given size.
func WritePNG(w io.Writer, t physics.Trajectory, width, height vg.Length) error {
	p, err := Plot(t)
	if err != nil {
		return err
	}
	canvas := vgimg.New(width, height)
	p.Draw(draw.New(canvas))
	_, err = vgimg.PngCanvas{Canvas: canvas}.WriteTo(w)
	return err
}

func polygonXYs(poly geometry.Polygon) plotter.XYs {
	xys := make(plotter.XYs, len(poly))
	for i, v := range poly {
		xys[i] = plotter.XY{X: v.X, Y: v.Y}
	}
	return xys
}

// pathXYs joins one ball's contiguous legs into a polyline.
func pathXYs(segments []physics.Segment, role physics.Role) plotter.XYs {
	var xys plotter.XYs
	for _, s := range segments {
		if s.Role != role {
			continue
		}
		if len(xys) == 0 {
			xys = append(xys, plotter.XY{X: s.Start.X, Y: s.Start.Y})
		}
		xys = append(xys, plotter.XY{X: s.End.X, Y: s.End.Y})
	}
	return xys
}
