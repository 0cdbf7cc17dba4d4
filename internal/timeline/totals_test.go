package timeline

import (
	"math"
	"testing"

	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/models"
)

func TestTotals(t *testing.T) {
	segments := DaySegments([]models.StatusInterval{
		iv(6, 6.25, models.StatusOnDuty, "Pre-trip Inspection"),
		iv(6.25, 14.25, models.StatusDriving, "Driving"),
		iv(14.25, 14.75, models.StatusOffDuty, "30-min Break"),
		iv(14.75, 17.75, models.StatusDriving, "Driving"),
		iv(17.75, 27.75, models.StatusSleeper, "10-hr Sleeper Berth"),
	}, 0)

	totals := Totals(segments)

	want := map[models.DutyStatus]float64{
		models.StatusOffDuty: 6.5,
		models.StatusSleeper: 6.25,
		models.StatusDriving: 11,
		models.StatusOnDuty:  0.25,
	}
	sum := 0.0
	for status, hours := range want {
		if math.Abs(totals[status]-hours) > 1e-9 {
			t.Errorf("%s: got %v, want %v", status, totals[status], hours)
		}
		sum += totals[status]
	}
	if math.Abs(sum-24) > 1e-9 {
		t.Errorf("totals sum to %v, want 24", sum)
	}
}

func TestTotalsUnknownStatusCountsAsOffDuty(t *testing.T) {
	totals := Totals([]models.DaySegment{{Start: 0, End: 24, Status: "YARD_MOVE"}})
	if totals[models.StatusOffDuty] != 24 {
		t.Errorf("expected 24 off-duty hours, got %v", totals[models.StatusOffDuty])
	}
}

func TestSummarize(t *testing.T) {
	intervals := []models.StatusInterval{
		iv(6, 7, models.StatusOnDuty, "Loading at Pickup"),
		iv(7, 18, models.StatusDriving, "Driving"),
		iv(18, 28, models.StatusSleeper, "10-hr Sleeper Berth"),
		iv(28, 30, models.StatusDriving, "Driving"),
		iv(30, 29, models.StatusDriving, "bad"),
	}

	sum := Summarize(intervals)

	if sum.Days != 2 {
		t.Errorf("Days = %d, want 2", sum.Days)
	}
	if sum.DriveHours != 13 {
		t.Errorf("DriveHours = %v, want 13", sum.DriveHours)
	}
	if sum.OnDutyHours != 1 {
		t.Errorf("OnDutyHours = %v, want 1", sum.OnDutyHours)
	}
	if sum.RestHours != 10 {
		t.Errorf("RestHours = %v, want 10", sum.RestHours)
	}
	if len(sum.PerDay) != 2 {
		t.Fatalf("expected 2 per-day totals, got %d", len(sum.PerDay))
	}
	if got := sum.PerDay[1][models.StatusSleeper]; got != 4 {
		t.Errorf("day 2 sleeper hours = %v, want 4", got)
	}
}

func TestSummarizeHugeTrip(t *testing.T) {
	sum := Summarize([]models.StatusInterval{iv(0, 1e20, models.StatusDriving, "")})

	if sum.Days != constants.MaxDays {
		t.Fatalf("Days = %d, want %d", sum.Days, constants.MaxDays)
	}
	if len(sum.PerDay) != constants.MaxDays {
		t.Fatalf("expected %d per-day totals, got %d", constants.MaxDays, len(sum.PerDay))
	}
	if got := sum.PerDay[constants.MaxDays-1][models.StatusDriving]; got != 24 {
		t.Errorf("last day driving hours = %v, want 24", got)
	}
}
