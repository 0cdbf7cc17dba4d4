// Package mapper converts log sheet coordinates (hour of day, duty status)
// into template pixels using a calibration.
package mapper

import (
	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/models"
)

type Mapper struct {
	cfg models.CalibrationConfig
}

// New returns a Mapper over a private copy of cfg.
func New(cfg models.CalibrationConfig) Mapper {
	return Mapper{cfg: cfg.Clone()}
}

// TimeToX maps an hour of the day to a pixel column. Hours outside [0,24]
// are clamped, so the result always lies between GridStartX and GridEndX.
func (m Mapper) TimeToX(hour float64) float64 {
	if hour < 0 {
		hour = 0
	}
	if hour > constants.HoursPerDay {
		hour = constants.HoursPerDay
	}
	span := float64(m.cfg.GridEndX - m.cfg.GridStartX)
	return float64(m.cfg.GridStartX) + hour/constants.HoursPerDay*span
}

// StatusToY maps a duty status to its row. Unknown statuses use the OFF_DUTY row.
func (m Mapper) StatusToY(status models.DutyStatus) float64 {
	if y, ok := m.cfg.RowY[status]; ok {
		return float64(y)
	}
	return float64(m.cfg.RowY[models.StatusOffDuty])
}

// RemarksY is the baseline of the remarks band.
func (m Mapper) RemarksY() float64 {
	return float64(m.cfg.RemarksY)
}

// GridBounds returns the pixel columns of hour 0 and hour 24.
func (m Mapper) GridBounds() (float64, float64) {
	return float64(m.cfg.GridStartX), float64(m.cfg.GridEndX)
}
