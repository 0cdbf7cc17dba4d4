package render

import (
	"image/color"

	"github.com/julianstephens/logsheet/internal/canvas"
)

// Style holds the drawing parameters for a log sheet.
type Style struct {
	LineColor    color.RGBA
	LineWidth    float64
	DotColor     color.RGBA
	DotRadius    float64
	PointerColor color.RGBA
	PointerWidth float64
	DashLength   float64
	DashGap      float64
	RemarkColor  color.RGBA
	// RemarkAngle rotates remark text clockwise from horizontal, in degrees.
	RemarkAngle float64
	LabelColor  color.RGBA
	ShowTotals  bool
	TotalsColor color.RGBA
}

func DefaultStyle() Style {
	return Style{
		LineColor:    canvas.MustParseHexColor("#1565c0"),
		LineWidth:    3,
		DotColor:     canvas.MustParseHexColor("#c62828"),
		DotRadius:    4,
		PointerColor: canvas.MustParseHexColor("#616161"),
		PointerWidth: 1,
		DashLength:   4,
		DashGap:      3,
		RemarkColor:  canvas.MustParseHexColor("#212121"),
		RemarkAngle:  45,
		LabelColor:   canvas.MustParseHexColor("#000000"),
		ShowTotals:   true,
		TotalsColor:  canvas.MustParseHexColor("#1565c0"),
	}
}
