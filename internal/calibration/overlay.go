package calibration

import (
	"context"
	"errors"
	"image"
	"image/color"

	"github.com/julianstephens/logsheet/internal/canvas"
	"github.com/julianstephens/logsheet/internal/render"
)

var (
	colorCaptured = canvas.MustParseHexColor("#2e7d32")
	colorCurrent  = canvas.MustParseHexColor("#ef6c00")
	colorPending  = canvas.MustParseHexColor("#9e9e9e")
	colorGuide    = canvas.MustParseHexColor("#2e7d32b0")
	colorPanel    = canvas.MustParseHexColor("#ffffffe0")
	colorText     = canvas.MustParseHexColor("#212121")
)

const (
	markerRadius = 5.0
	legendX      = 10
	legendY      = 50
	legendLine   = 16
)

// StatusColor is the legend color for a point status.
func StatusColor(st PointStatus) color.RGBA {
	switch st {
	case StatusCaptured:
		return colorCaptured
	case StatusCurrent:
		return colorCurrent
	default:
		return colorPending
	}
}

// DrawOverlay draws calibration feedback for s onto dst: guides at the grid
// edges, row guides once both edges are known, click markers and a legend.
// dst must start at the origin.
func DrawOverlay(dst *image.RGBA, s *Session) {
	c := canvas.Wrap(dst)
	b := c.Bounds()
	points := s.Points()

	for _, i := range []int{idxGridStart, idxGridEnd} {
		if points[i].Status == StatusCaptured {
			x := float64(points[i].Value)
			c.Line(x, 0, x, float64(b.Dy()), 1, colorGuide)
		}
	}

	if left, right, ok := s.GridEdges(); ok {
		for _, p := range points[idxRowsFirst:] {
			if p.Status != StatusCaptured {
				continue
			}
			y := float64(p.Value)
			c.Line(float64(left), y, float64(right), y, 1, colorGuide)
			c.Text(right+6, p.Value+4, p.Label, canvas.FaceRegular, colorCaptured)
		}
	}

	for _, p := range points {
		if p.Status == StatusCaptured {
			c.Dot(float64(p.Click.X), float64(p.Click.Y), markerRadius, colorCaptured)
		}
	}

	drawLegend(c, points)
}

func drawLegend(c *canvas.Canvas, points []PointState) {
	width := 0
	for _, p := range points {
		width = max(width, canvas.TextWidth(canvas.FaceRegular, p.Label))
	}
	panel := image.Rect(legendX, legendY, legendX+width+40, legendY+len(points)*legendLine+8)
	c.FillRect(panel, colorPanel)
	c.StrokeRect(panel, 1, colorPending)

	for i, p := range points {
		y := legendY + 4 + i*legendLine
		swatch := image.Rect(legendX+8, y+3, legendX+18, y+13)
		c.FillRect(swatch, StatusColor(p.Status))
		c.Text(legendX+26, y+12, p.Label, canvas.FaceRegular, colorText)
	}
}

// RenderOverlay draws the overlay on a copy of the template, or on a blank
// sheet if the template failed to load.
func RenderOverlay(ctx context.Context, asset *render.Asset, s *Session) (*image.RGBA, error) {
	var c *canvas.Canvas
	img, err := asset.Wait(ctx)
	switch {
	case err == nil:
		c = canvas.FromImage(img)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	default:
		c = render.BlankSheet(s.ImageSize())
	}

	DrawOverlay(c.Image(), s)
	return c.Image(), nil
}
