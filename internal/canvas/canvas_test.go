package canvas

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func isInk(c color.RGBA) bool {
	return c.R < 128 && c.G < 128 && c.B < 128
}

func TestNewFillsBackground(t *testing.T) {
	c := New(10, 5, white)
	if c.Bounds() != image.Rect(0, 0, 10, 5) {
		t.Fatalf("unexpected bounds %v", c.Bounds())
	}
	if got := c.Image().RGBAAt(9, 4); got != white {
		t.Errorf("corner pixel = %v, want white", got)
	}
}

func TestFromImageCopies(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 15, 15))
	src.SetRGBA(5, 5, black)

	c := FromImage(src)
	if c.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("expected origin-based bounds, got %v", c.Bounds())
	}
	if got := c.Image().RGBAAt(0, 0); got != black {
		t.Errorf("copied pixel = %v, want black", got)
	}

	c.FillRect(c.Bounds(), white)
	if src.RGBAAt(5, 5) != black {
		t.Error("drawing on the canvas modified the source image")
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		name   string
		x0, y0 float64
		x1, y1 float64
		inside image.Point
		away   image.Point
	}{
		{"horizontal", 10, 20, 80, 20, image.Pt(40, 20), image.Pt(40, 30)},
		{"vertical", 50, 5, 50, 90, image.Pt(50, 60), image.Pt(60, 60)},
		{"diagonal", 10, 10, 90, 90, image.Pt(50, 50), image.Pt(80, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(100, 100, white)
			c.Line(tt.x0, tt.y0, tt.x1, tt.y1, 2, black)

			if got := c.Image().RGBAAt(tt.inside.X, tt.inside.Y); !isInk(got) {
				t.Errorf("pixel %v on the line = %v, want ink", tt.inside, got)
			}
			if got := c.Image().RGBAAt(tt.away.X, tt.away.Y); got != white {
				t.Errorf("pixel %v off the line = %v, want white", tt.away, got)
			}
		})
	}
}

func TestLineClipsToCanvas(t *testing.T) {
	c := New(20, 20, white)
	c.Line(-50, 10, 70, 10, 2, black)
	c.Line(200, 200, 300, 300, 2, black)

	if got := c.Image().RGBAAt(10, 10); !isInk(got) {
		t.Errorf("expected clipped line to be drawn, got %v", got)
	}
}

func TestDashedLine(t *testing.T) {
	c := New(100, 20, white)
	c.DashedLine(0, 10, 100, 10, 2, 4, 4, black)

	if got := c.Image().RGBAAt(2, 10); !isInk(got) {
		t.Errorf("expected dash at x=2, got %v", got)
	}
	if got := c.Image().RGBAAt(6, 10); got != white {
		t.Errorf("expected gap at x=6, got %v", got)
	}
}

func TestDot(t *testing.T) {
	c := New(40, 40, white)
	c.Dot(20, 20, 5, black)

	if got := c.Image().RGBAAt(20, 20); !isInk(got) {
		t.Errorf("centre = %v, want ink", got)
	}
	if got := c.Image().RGBAAt(20, 30); got != white {
		t.Errorf("outside radius = %v, want white", got)
	}
}

func TestText(t *testing.T) {
	c := New(200, 40, white)
	c.Text(5, 20, "Day 1", FaceBold, black)

	if !hasInk(c.Image(), image.Rect(5, 0, 5+TextWidth(FaceBold, "Day 1"), 25)) {
		t.Error("expected text pixels near the baseline")
	}
}

func TestRotatedText(t *testing.T) {
	c := New(200, 200, white)
	c.RotatedText(20, 20, "Fuel stop", FaceRegular, 90, black)

	// rotated a quarter turn clockwise, the text runs downward from the anchor
	if !hasInk(c.Image(), image.Rect(0, 20, 30, 90)) {
		t.Error("expected ink below the anchor")
	}
	if hasInk(c.Image(), image.Rect(40, 0, 200, 200)) {
		t.Error("unexpected ink to the right of the rotated text")
	}
}

func TestDrawingIsDeterministic(t *testing.T) {
	draw := func() []byte {
		c := New(120, 120, white)
		c.Line(5, 5, 110, 60, 2.5, black)
		c.DashedLine(60, 0, 60, 120, 1, 3, 3, black)
		c.Dot(30, 90, 4, black)
		c.RotatedText(40, 40, "Pre-trip Inspection", FaceRegular, 45, black)
		return c.Image().Pix
	}

	if !bytes.Equal(draw(), draw()) {
		t.Error("identical draw calls produced different pixels")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.RGBA
		wantErr bool
	}{
		{"#000000", color.RGBA{0, 0, 0, 255}, false},
		{"1565c0", color.RGBA{0x15, 0x65, 0xc0, 255}, false},
		{"#fff", color.RGBA{255, 255, 255, 255}, false},
		{"#ff000080", color.RGBA{128, 0, 0, 128}, false},
		{"#12345", color.RGBA{}, true},
		{"#gggggg", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func hasInk(img *image.RGBA, r image.Rectangle) bool {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y) != white {
				return true
			}
		}
	}
	return false
}
