// Package timeline projects a trip-wide duty timeline onto single log sheet
// days and turns each day into a gapless partition of [0,24).
package timeline

import (
	"sort"

	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/models"
)

// ProjectDay clips intervals to day d's window and returns the overlapping
// pieces in day-relative hours, ordered by start. Ties keep input order.
// Malformed intervals and pieces that vanish after clipping are dropped.
func ProjectDay(intervals []models.StatusInterval, day int) []models.DaySegment {
	if day < 0 {
		day = 0
	}
	dayStart := float64(day) * constants.HoursPerDay
	dayEnd := dayStart + constants.HoursPerDay

	segments := make([]models.DaySegment, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.Valid() {
			continue
		}
		if iv.End <= dayStart || iv.Start >= dayEnd {
			continue
		}

		start := clamp(iv.Start-dayStart, 0, constants.HoursPerDay)
		end := clamp(iv.End-dayStart, 0, constants.HoursPerDay)
		if end <= start {
			continue
		}

		segments = append(segments, models.DaySegment{
			Start:         start,
			End:           end,
			Status:        iv.Status,
			Remark:        iv.Remark,
			OriginalStart: iv.Start,
		})
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})

	return segments
}

// FillGaps inserts OFF_DUTY filler segments so the result covers [0,24)
// exactly. Input must be sorted by start, as ProjectDay returns it.
//
// Uncovered stretches up to GapEpsilon are absorbed by snapping the next
// segment's start to the previous end, and overlapping segments are trimmed
// to begin where their predecessor ended, so the output stays contiguous.
func FillGaps(segments []models.DaySegment) []models.DaySegment {
	out := make([]models.DaySegment, 0, len(segments)*2+1)
	lastEnd := 0.0

	for _, seg := range segments {
		if seg.Start > lastEnd+constants.GapEpsilon {
			out = append(out, gap(lastEnd, seg.Start))
		} else {
			seg.Start = lastEnd
		}
		if seg.End <= seg.Start {
			continue
		}
		out = append(out, seg)
		lastEnd = seg.End
	}

	if lastEnd < constants.HoursPerDay {
		out = append(out, gap(lastEnd, constants.HoursPerDay))
	}

	return out
}

// DaySegments is ProjectDay followed by FillGaps.
func DaySegments(intervals []models.StatusInterval, day int) []models.DaySegment {
	return FillGaps(ProjectDay(intervals, day))
}

// InDay reports whether an absolute hour falls inside day d's window.
func InDay(hour float64, day int) bool {
	dayStart := float64(day) * constants.HoursPerDay
	return hour >= dayStart && hour < dayStart+constants.HoursPerDay
}

func gap(start, end float64) models.DaySegment {
	return models.DaySegment{
		Start:  start,
		End:    end,
		Status: models.StatusOffDuty,
		IsGap:  true,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
