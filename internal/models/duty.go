package models

import (
	"strings"
)

type DutyStatus string

const (
	StatusOffDuty DutyStatus = "OFF_DUTY"
	StatusSleeper DutyStatus = "SLEEPER"
	StatusDriving DutyStatus = "DRIVING"
	StatusOnDuty  DutyStatus = "ON_DUTY"
)

// DutyStatuses lists the four statuses in log sheet row order, top to bottom.
var DutyStatuses = []DutyStatus{StatusOffDuty, StatusSleeper, StatusDriving, StatusOnDuty}

// Known reports whether s is one of the four duty statuses.
func (s DutyStatus) Known() bool {
	switch s {
	case StatusOffDuty, StatusSleeper, StatusDriving, StatusOnDuty:
		return true
	}
	return false
}

// Label returns the short row label printed on paper logs.
func (s DutyStatus) Label() string {
	switch s {
	case StatusOffDuty:
		return "Off Duty"
	case StatusSleeper:
		return "Sleeper Berth"
	case StatusDriving:
		return "Driving"
	case StatusOnDuty:
		return "On Duty"
	default:
		return string(s)
	}
}

// ParseDutyStatus normalizes loose spellings such as "off duty" or "on-duty".
// Unrecognized input is returned upper-cased and will not be Known.
func ParseDutyStatus(s string) DutyStatus {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch norm {
	case "OFF", "OFFDUTY":
		return StatusOffDuty
	case "SB", "SLEEPER_BERTH":
		return StatusSleeper
	case "D", "DRIVE":
		return StatusDriving
	case "ON", "ONDUTY":
		return StatusOnDuty
	}
	return DutyStatus(norm)
}

// StatusInterval is one entry of a trip-wide duty timeline. Start and End are
// absolute hours from the start of day 0 and may exceed 24.
type StatusInterval struct {
	Status   DutyStatus `json:"status"`
	Start    float64    `json:"start"`
	End      float64    `json:"end"`
	Location string     `json:"location,omitempty"`
	Remark   string     `json:"remarks,omitempty"`
}

// Valid reports whether the interval has a positive duration.
func (i StatusInterval) Valid() bool {
	return i.End > i.Start
}

func (i StatusInterval) Duration() float64 {
	return i.End - i.Start
}

// DaySegment is a slice of one day's [0,24) grid. Gap segments are synthetic
// OFF_DUTY fillers and never carry a remark.
type DaySegment struct {
	Start         float64    `json:"start"`
	End           float64    `json:"end"`
	Status        DutyStatus `json:"status"`
	Remark        string     `json:"remark,omitempty"`
	IsGap         bool       `json:"is_gap"`
	OriginalStart float64    `json:"original_start"` // absolute start of the source interval
}

func (s DaySegment) Duration() float64 {
	return s.End - s.Start
}
