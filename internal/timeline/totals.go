package timeline

import (
	"github.com/julianstephens/logsheet/internal/models"
)

// Totals sums hours per duty status over one day's segments. Segments with an
// unknown status count toward OFF_DUTY, matching how they are drawn.
func Totals(segments []models.DaySegment) map[models.DutyStatus]float64 {
	totals := make(map[models.DutyStatus]float64, len(models.DutyStatuses))
	for _, status := range models.DutyStatuses {
		totals[status] = 0
	}
	for _, seg := range segments {
		status := seg.Status
		if !status.Known() {
			status = models.StatusOffDuty
		}
		totals[status] += seg.Duration()
	}
	return totals
}

// Summary aggregates a whole trip.
type Summary struct {
	Days        int
	DriveHours  float64
	OnDutyHours float64
	RestHours   float64
	PerDay      []map[models.DutyStatus]float64
}

// Summarize computes trip totals from the raw intervals and per-day totals
// from the gap-filled sheets.
func Summarize(intervals []models.StatusInterval) Summary {
	sum := Summary{Days: models.NumDays(intervals)}

	for _, iv := range intervals {
		if !iv.Valid() {
			continue
		}
		switch iv.Status {
		case models.StatusDriving:
			sum.DriveHours += iv.Duration()
		case models.StatusOnDuty:
			sum.OnDutyHours += iv.Duration()
		case models.StatusOffDuty, models.StatusSleeper:
			sum.RestHours += iv.Duration()
		}
	}

	sum.PerDay = make([]map[models.DutyStatus]float64, sum.Days)
	for d := 0; d < sum.Days; d++ {
		sum.PerDay[d] = Totals(DaySegments(intervals, d))
	}

	return sum
}
