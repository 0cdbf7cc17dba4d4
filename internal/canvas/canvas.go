// Package canvas draws antialiased primitives and text onto an RGBA image.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Canvas wraps an RGBA image whose bounds start at the origin.
type Canvas struct {
	img *image.RGBA
}

// New returns a canvas of the given size filled with bg.
func New(width, height int, bg color.Color) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return &Canvas{img: img}
}

// FromImage copies src into a fresh canvas so the source is never drawn on.
func FromImage(src image.Image) *Canvas {
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	return &Canvas{img: img}
}

// Wrap draws directly onto img. The image must start at the origin.
func Wrap(img *image.RGBA) *Canvas {
	return &Canvas{img: img}
}

func (c *Canvas) Image() *image.RGBA {
	return c.img
}

func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// FillRect paints r with col, clipped to the canvas.
func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

// StrokeRect outlines r with lines of the given width.
func (c *Canvas) StrokeRect(r image.Rectangle, width float64, col color.Color) {
	x0, y0 := float64(r.Min.X), float64(r.Min.Y)
	x1, y1 := float64(r.Max.X), float64(r.Max.Y)
	c.Line(x0, y0, x1, y0, width, col)
	c.Line(x1, y0, x1, y1, width, col)
	c.Line(x1, y1, x0, y1, width, col)
	c.Line(x0, y1, x0, y0, width, col)
}

// Line strokes a straight segment with square ends.
func (c *Canvas) Line(x0, y0, x1, y1, width float64, col color.Color) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	half := width / 2
	if length == 0 {
		c.polygon(col, []point{
			{x0 - half, y0 - half}, {x0 + half, y0 - half},
			{x0 + half, y0 + half}, {x0 - half, y0 + half},
		})
		return
	}

	// unit direction and normal, extended by half a width at both ends
	ux, uy := dx/length*half, dy/length*half
	nx, ny := -uy, ux
	c.polygon(col, []point{
		{x0 - ux + nx, y0 - uy + ny},
		{x1 + ux + nx, y1 + uy + ny},
		{x1 + ux - nx, y1 + uy - ny},
		{x0 - ux - nx, y0 - uy - ny},
	})
}

// DashedLine strokes a segment as alternating dash and gap runs, starting
// with a dash at (x0, y0).
func (c *Canvas) DashedLine(x0, y0, x1, y1, width, dash, gap float64, col color.Color) {
	length := math.Hypot(x1-x0, y1-y0)
	if length == 0 || dash <= 0 {
		return
	}
	if gap < 0 {
		gap = 0
	}
	ux, uy := (x1-x0)/length, (y1-y0)/length

	for pos := 0.0; pos < length; pos += dash + gap {
		end := math.Min(pos+dash, length)
		c.Line(x0+ux*pos, y0+uy*pos, x0+ux*end, y0+uy*end, width, col)
	}
}

// Dot fills a circle centred on (cx, cy).
func (c *Canvas) Dot(cx, cy, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	const k = 0.5522847498 // cubic Bezier circle constant
	c.fill(col, cx-r, cy-r, cx+r, cy+r, func(z *vector.Rasterizer, ox, oy float64) {
		x, y := float32(cx-ox), float32(cy-oy)
		rr, kr := float32(r), float32(r*k)
		z.MoveTo(x+rr, y)
		z.CubeTo(x+rr, y+kr, x+kr, y+rr, x, y+rr)
		z.CubeTo(x-kr, y+rr, x-rr, y+kr, x-rr, y)
		z.CubeTo(x-rr, y-kr, x-kr, y-rr, x, y-rr)
		z.CubeTo(x+kr, y-rr, x+rr, y-kr, x+rr, y)
		z.ClosePath()
	})
}

type point struct{ x, y float64 }

func (c *Canvas) polygon(col color.Color, pts []point) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}
	c.fill(col, minX, minY, maxX, maxY, func(z *vector.Rasterizer, ox, oy float64) {
		z.MoveTo(float32(pts[0].x-ox), float32(pts[0].y-oy))
		for _, p := range pts[1:] {
			z.LineTo(float32(p.x-ox), float32(p.y-oy))
		}
		z.ClosePath()
	})
}

// fill rasterizes a path into a scratch mask covering only its bounding box
// and composites col through it. The path callback receives the mask origin
// and must translate its coordinates by it.
func (c *Canvas) fill(col color.Color, minX, minY, maxX, maxY float64, path func(z *vector.Rasterizer, ox, oy float64)) {
	box := image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	).Intersect(c.img.Bounds())
	if box.Empty() {
		return
	}

	z := vector.NewRasterizer(box.Dx(), box.Dy())
	z.DrawOp = draw.Over
	path(z, float64(box.Min.X), float64(box.Min.Y))
	z.Draw(c.img, box, image.NewUniform(col), image.Point{})
}
