package render

import (
	"math"

	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/mapper"
	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/timeline"
)

// Remark is one annotation placed on a day's sheet.
type Remark struct {
	// X, Y is the anchor on the status line.
	X, Y float64
	// Offset is added to the remarks baseline to keep close labels apart.
	Offset float64
	Text   string
}

// PlaceRemarks staggers remark baselines. Anchors are taken in order; each
// gets an offset one stagger step below the deepest earlier anchor within
// the collision window, or zero when none is that close.
func PlaceRemarks(xs []float64) []float64 {
	offsets := make([]float64, len(xs))
	for i, x := range xs {
		offset := 0.0
		for j := 0; j < i; j++ {
			if math.Abs(x-xs[j]) < constants.RemarkCollisionPx {
				offset = math.Max(offset, offsets[j]+constants.RemarkStaggerPx)
			}
		}
		offsets[i] = offset
	}
	return offsets
}

// TruncateRemark shortens text longer than RemarkMaxLen runes.
func TruncateRemark(text string) string {
	runes := []rune(text)
	if len(runes) <= constants.RemarkMaxLen {
		return text
	}
	return string(runes[:constants.RemarkKeepLen]) + constants.RemarkEllipsis
}

// LayoutRemarks picks the segments that get a remark on day d and places them.
// Gap fillers, empty remarks and segments continued from an earlier day are skipped.
func LayoutRemarks(m mapper.Mapper, segments []models.DaySegment, day int) []Remark {
	var remarks []Remark
	for _, seg := range segments {
		if seg.IsGap || seg.Remark == "" {
			continue
		}
		if !timeline.InDay(seg.OriginalStart, day) {
			continue
		}
		remarks = append(remarks, Remark{
			X:    m.TimeToX(seg.Start),
			Y:    m.StatusToY(seg.Status),
			Text: TruncateRemark(seg.Remark),
		})
	}

	xs := make([]float64, len(remarks))
	for i, r := range remarks {
		xs[i] = r.X
	}
	for i, offset := range PlaceRemarks(xs) {
		remarks[i].Offset = offset
	}
	return remarks
}
