package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/models"
)

// ConflictType represents the kind of problem found in a trip's intervals
type ConflictType string

const (
	ConflictMalformedInterval ConflictType = "malformed_interval"
	ConflictNegativeStart     ConflictType = "negative_start"
	ConflictUnknownStatus     ConflictType = "unknown_status"
	ConflictOutOfOrder        ConflictType = "out_of_order"
	ConflictOverlap           ConflictType = "overlapping_intervals"
	ConflictGap               ConflictType = "gap"
	ConflictTooLong           ConflictType = "trip_too_long"
)

// Conflict is one finding. Indexes refer to positions in the input slice.
type Conflict struct {
	Type        ConflictType
	Description string
	Indexes     []int
	Day         int // zero-based day the problem starts on, -1 if not applicable
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns how many conflicts of type t were found.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks a trip's intervals for the problems the renderer silently
// drops or repairs. Gaps are only reported when ReportGaps is set; the
// renderer fills them as off duty.
type Validator struct {
	ReportGaps bool
}

func New() *Validator {
	return &Validator{}
}

// ValidateIntervals reports malformed, unknown-status, out-of-order and
// overlapping intervals.
func (v *Validator) ValidateIntervals(intervals []models.StatusInterval) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	prev := -1
	for i, iv := range intervals {
		if !iv.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMalformedInterval,
				Description: fmt.Sprintf("Interval %d (%s) ends at %s, not after its start %s", i, iv.Status, formatHour(iv.End), formatHour(iv.Start)),
				Indexes:     []int{i},
				Day:         dayOf(iv.Start),
			})
			continue
		}
		if iv.Start < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNegativeStart,
				Description: fmt.Sprintf("Interval %d (%s) starts before the trip at %s", i, iv.Status, formatHour(iv.Start)),
				Indexes:     []int{i},
				Day:         0,
			})
		}
		if iv.End > constants.MaxTripHours {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictTooLong,
				Description: fmt.Sprintf("Interval %d ends at %s, past the %d-day limit; later hours are not rendered", i, formatHour(iv.End), constants.MaxDays),
				Indexes:     []int{i},
				Day:         dayOf(iv.Start),
			})
		}
		if !iv.Status.Known() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownStatus,
				Description: fmt.Sprintf("Interval %d has unknown status %q, drawn as %s", i, iv.Status, models.StatusOffDuty),
				Indexes:     []int{i},
				Day:         dayOf(iv.Start),
			})
		}

		if prev >= 0 {
			p := intervals[prev]
			switch {
			case iv.Start < p.Start:
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictOutOfOrder,
					Description: fmt.Sprintf("Interval %d starts at %s, before interval %d at %s", i, formatHour(iv.Start), prev, formatHour(p.Start)),
					Indexes:     []int{prev, i},
					Day:         dayOf(iv.Start),
				})
			case iv.Start < p.End-constants.GapEpsilon:
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictOverlap,
					Description: fmt.Sprintf("Interval %d (%s %s-%s) overlaps interval %d (%s %s-%s)", i, iv.Status, formatHour(iv.Start), formatHour(iv.End), prev, p.Status, formatHour(p.Start), formatHour(p.End)),
					Indexes:     []int{prev, i},
					Day:         dayOf(iv.Start),
				})
			case v.ReportGaps && iv.Start > p.End+constants.GapEpsilon:
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictGap,
					Description: fmt.Sprintf("No status between %s and %s (filled as off duty)", formatHour(p.End), formatHour(iv.Start)),
					Indexes:     []int{prev, i},
					Day:         dayOf(p.End),
				})
			}
		}
		prev = i
	}

	return result
}

func dayOf(hour float64) int {
	switch {
	case hour < 0 || math.IsNaN(hour):
		return 0
	case hour >= constants.MaxTripHours:
		return constants.MaxDays - 1
	}
	return int(hour / constants.HoursPerDay)
}

// formatHour renders an absolute hour as "day N HH:MM".
func formatHour(hour float64) string {
	if hour < 0 || hour > constants.MaxTripHours || math.IsNaN(hour) {
		return fmt.Sprintf("%.2fh", hour)
	}
	day := dayOf(hour)
	within := hour - float64(day)*constants.HoursPerDay
	minutes := int(math.Round(within * 60))
	return fmt.Sprintf("day %d %02d:%02d", day+1, minutes/60, minutes%60)
}
