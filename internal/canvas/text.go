package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

var (
	// FaceRegular is used for remarks, legends and totals.
	FaceRegular font.Face = basicfont.Face7x13
	// FaceBold is used for headings such as the day label.
	FaceBold font.Face = inconsolata.Bold8x16
)

// Text draws s with its baseline starting at (x, y).
func (c *Canvas) Text(x, y int, s string, face font.Face, col color.Color) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// TextWidth returns the advance of s in whole pixels.
func TextWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// RotatedText draws s with its baseline starting at (x, y), rotated clockwise
// by deg degrees around that point.
func (c *Canvas) RotatedText(x, y float64, s string, face font.Face, deg float64, col color.Color) {
	if s == "" {
		return
	}
	if deg == 0 {
		c.Text(int(math.Round(x)), int(math.Round(y)), s, face, col)
		return
	}

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	height := ascent + metrics.Descent.Ceil()
	width := TextWidth(face, s)
	if width <= 0 || height <= 0 {
		return
	}

	src := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(s)

	// map the source baseline origin (0, ascent) onto (x, y)
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	asc := float64(ascent)
	m := f64.Aff3{
		cos, -sin, x + sin*asc,
		sin, cos, y - cos*asc,
	}
	xdraw.ApproxBiLinear.Transform(c.img, m, src, src.Bounds(), draw.Over, nil)
}
