package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/julianstephens/logsheet/internal/constants"
)

// Stop is a planned stop as reported by the trip planner.
type Stop struct {
	Coords   string  `json:"coords"`
	Type     string  `json:"type"`
	Remark   string  `json:"remark"`
	Time     float64 `json:"time"`
	Duration float64 `json:"duration"`
}

// TripSummary mirrors the planner's summary block. Fields the planner omits stay zero.
type TripSummary struct {
	TotalMiles      float64 `json:"total_miles"`
	TotalDriveTime  float64 `json:"total_drive_time"`
	TotalRestTime   float64 `json:"total_rest_time"`
	TotalOnDutyTime float64 `json:"total_on_duty_time"`
	TotalTripTime   float64 `json:"total_trip_time"`
	NumStops        int     `json:"num_stops"`
	NumDays         int     `json:"num_days"`
}

// Trip is the planner's response. Only Logs is required for rendering.
type Trip struct {
	Logs    []StatusInterval `json:"logs"`
	Stops   []Stop           `json:"stops,omitempty"`
	Summary TripSummary      `json:"summary"`
}

// ParseTrip accepts either the full planner response object or a bare JSON
// array of intervals. Statuses are normalized with ParseDutyStatus.
func ParseTrip(data []byte) (Trip, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Trip{}, fmt.Errorf("trip data is empty")
	}

	var trip Trip
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &trip.Logs); err != nil {
			return Trip{}, fmt.Errorf("failed to parse interval list: %w", err)
		}
	} else {
		if err := json.Unmarshal(trimmed, &trip); err != nil {
			return Trip{}, fmt.Errorf("failed to parse trip: %w", err)
		}
	}

	for i := range trip.Logs {
		trip.Logs[i].Status = ParseDutyStatus(string(trip.Logs[i].Status))
	}
	if err := checkLength(trip.Logs); err != nil {
		return Trip{}, err
	}
	if trip.Summary.NumDays == 0 {
		trip.Summary.NumDays = NumDays(trip.Logs)
	}
	return trip, nil
}

// LoadTrip reads and parses a trip file.
func LoadTrip(path string) (Trip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trip{}, fmt.Errorf("failed to read trip: %w", err)
	}
	return ParseTrip(data)
}

// NumDays returns how many 24-hour sheets the intervals span, between one
// and constants.MaxDays. Intervals running past MaxTripHours are cut off at
// the last sheet.
func NumDays(intervals []StatusInterval) int {
	last := 0.0
	for _, iv := range intervals {
		if iv.Valid() && iv.End > last {
			last = iv.End
		}
	}
	days := math.Ceil(last / constants.HoursPerDay)
	switch {
	case math.IsNaN(days) || days < 1:
		return 1
	case days > constants.MaxDays:
		return constants.MaxDays
	}
	return int(days)
}

// ErrTripTooLong is returned for trips that run past constants.MaxTripHours.
var ErrTripTooLong = fmt.Errorf("trip is longer than %d days", constants.MaxDays)

// checkLength rejects intervals that end beyond the last renderable sheet.
func checkLength(intervals []StatusInterval) error {
	for i, iv := range intervals {
		if iv.Valid() && iv.End > constants.MaxTripHours {
			return fmt.Errorf("%w: interval %d ends at hour %g", ErrTripTooLong, i, iv.End)
		}
	}
	return nil
}
