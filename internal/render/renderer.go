// Package render draws a day's duty status line and remarks onto a log
// sheet template.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/julianstephens/logsheet/internal/canvas"
	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/logger"
	"github.com/julianstephens/logsheet/internal/mapper"
	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/timeline"
)

// pointerPad keeps the dashed pointer clear of the dot and the remark text.
const pointerPad = 3.0

var (
	white     = color.RGBA{255, 255, 255, 255}
	diagColor = color.RGBA{198, 40, 40, 255}
)

type Renderer struct {
	style Style
}

func New(style Style) *Renderer {
	return &Renderer{style: style}
}

func (r *Renderer) Style() Style {
	return r.style
}

// RenderDay draws day d of the trip onto a copy of the template. If the
// template failed to load, a blank sheet sized from cfg is used instead and
// marked as such; only ctx cancellation aborts the render.
func (r *Renderer) RenderDay(ctx context.Context, asset *Asset, cfg models.CalibrationConfig, intervals []models.StatusInterval, day int) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if day < 0 {
		day = 0
	}

	c, err := r.sheet(ctx, asset, cfg)
	if err != nil {
		return nil, err
	}

	segments := timeline.DaySegments(intervals, day)
	r.DrawDay(c.Image(), cfg, segments, day)

	logger.Debug("rendered day", "day", day+1, "segments", len(segments))
	return c.Image(), nil
}

// RenderTrip renders every day the intervals span and hands each sheet to
// emit as soon as it is drawn. Rendering stops at the first error.
func (r *Renderer) RenderTrip(ctx context.Context, asset *Asset, cfg models.CalibrationConfig, intervals []models.StatusInterval, emit func(day int, img *image.RGBA) error) error {
	days := models.NumDays(intervals)
	for d := 0; d < days; d++ {
		img, err := r.RenderDay(ctx, asset, cfg, intervals, d)
		if err != nil {
			return fmt.Errorf("failed to render day %d: %w", d+1, err)
		}
		if err := emit(d, img); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) sheet(ctx context.Context, asset *Asset, cfg models.CalibrationConfig) (*canvas.Canvas, error) {
	if asset == nil {
		asset = FailedAsset(errors.New("no template configured"))
	}

	img, err := asset.Wait(ctx)
	if err == nil {
		return canvas.FromImage(img), nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	return BlankSheet(cfg.ImageSize), nil
}

// BlankSheet is the fallback canvas used when the template is unavailable.
func BlankSheet(size models.ImageSize) *canvas.Canvas {
	if size.Empty() {
		size = models.ImageSize{Width: constants.DefaultImageWidth, Height: constants.DefaultImageHeight}
	}
	c := canvas.New(size.Width, size.Height, white)
	c.Text(constants.DayLabelX, size.Height-constants.DayLabelX, "template unavailable", canvas.FaceRegular, diagColor)
	return c
}

// DrawDay draws the day label, the status line, remarks and (optionally) row
// totals for one day's gap-filled segments. dst must start at the origin.
func (r *Renderer) DrawDay(dst *image.RGBA, cfg models.CalibrationConfig, segments []models.DaySegment, day int) {
	c := canvas.Wrap(dst)
	m := mapper.New(cfg)

	c.Text(constants.DayLabelX, constants.DayLabelY, fmt.Sprintf("Day %d", day+1), canvas.FaceBold, r.style.LabelColor)

	if len(segments) == 0 {
		return
	}

	r.drawStatusLine(c, m, segments)
	r.drawRemarks(c, m, LayoutRemarks(m, segments, day))
	if r.style.ShowTotals {
		r.drawTotals(c, m, timeline.Totals(segments))
	}
}

// drawStatusLine draws the step chart: a vertical jump where the row
// changes, then a horizontal run across the segment.
func (r *Renderer) drawStatusLine(c *canvas.Canvas, m mapper.Mapper, segments []models.DaySegment) {
	penY := m.StatusToY(segments[0].Status)
	for _, seg := range segments {
		x0, x1 := m.TimeToX(seg.Start), m.TimeToX(seg.End)
		y := m.StatusToY(seg.Status)
		if y != penY {
			c.Line(x0, penY, x0, y, r.style.LineWidth, r.style.LineColor)
			penY = y
		}
		c.Line(x0, y, x1, y, r.style.LineWidth, r.style.LineColor)
	}
}

func (r *Renderer) drawRemarks(c *canvas.Canvas, m mapper.Mapper, remarks []Remark) {
	for _, rm := range remarks {
		baseline := m.RemarksY() + rm.Offset

		from, to := rm.Y+r.style.DotRadius+pointerPad, baseline-pointerPad
		if baseline < rm.Y {
			from, to = rm.Y-r.style.DotRadius-pointerPad, baseline+pointerPad
		}
		if (to-from)*(baseline-rm.Y) > 0 {
			c.DashedLine(rm.X, from, rm.X, to, r.style.PointerWidth, r.style.DashLength, r.style.DashGap, r.style.PointerColor)
		}

		c.Dot(rm.X, rm.Y, r.style.DotRadius, r.style.DotColor)
		c.RotatedText(rm.X, baseline, rm.Text, canvas.FaceRegular, r.style.RemarkAngle, r.style.RemarkColor)
	}
}

func (r *Renderer) drawTotals(c *canvas.Canvas, m mapper.Mapper, totals map[models.DutyStatus]float64) {
	_, right := m.GridBounds()
	x := int(right) + 10
	for _, status := range models.DutyStatuses {
		y := int(m.StatusToY(status)) + canvas.FaceRegular.Metrics().Ascent.Ceil()/2
		c.Text(x, y, fmt.Sprintf("%5.2f", totals[status]), canvas.FaceRegular, r.style.TotalsColor)
	}
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG writes img to path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DayFileName is the output name for day d (zero based).
func DayFileName(day int) string {
	return fmt.Sprintf("day-%02d.png", day+1)
}
