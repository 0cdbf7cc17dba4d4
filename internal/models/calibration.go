package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/logsheet/internal/constants"
)

type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the size has no usable area.
func (s ImageSize) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// CalibrationConfig maps log sheet geometry to template pixels. A config is
// never edited in place; a new calibration replaces it wholesale.
type CalibrationConfig struct {
	GridStartX int                `json:"gridStartX"`
	GridEndX   int                `json:"gridEndX"`
	RowY       map[DutyStatus]int `json:"rowY"`
	RemarksY   int                `json:"remarksY"`
	ImageSize  ImageSize          `json:"imageSize"`
}

var (
	ErrInvalidGrid = errors.New("gridEndX must be greater than gridStartX")
)

// Validate checks the structural invariants of a calibration.
func (c CalibrationConfig) Validate() error {
	if c.GridEndX <= c.GridStartX {
		return fmt.Errorf("%w (got %d..%d)", ErrInvalidGrid, c.GridStartX, c.GridEndX)
	}
	for _, status := range DutyStatuses {
		if _, ok := c.RowY[status]; !ok {
			return fmt.Errorf("missing row for %s", status)
		}
	}
	if c.ImageSize.Width < 0 || c.ImageSize.Height < 0 {
		return fmt.Errorf("invalid image size %dx%d", c.ImageSize.Width, c.ImageSize.Height)
	}
	return nil
}

// Clone returns a deep copy so callers can hand configs across boundaries
// without sharing the row map.
func (c CalibrationConfig) Clone() CalibrationConfig {
	out := c
	out.RowY = make(map[DutyStatus]int, len(c.RowY))
	for k, v := range c.RowY {
		out.RowY[k] = v
	}
	return out
}

// DefaultCalibration is the geometry used whenever no valid calibration is stored.
// It matches the stock FMCSA daily log template shipped with the planner.
func DefaultCalibration() CalibrationConfig {
	return CalibrationConfig{
		GridStartX: 105,
		GridEndX:   1095,
		RowY: map[DutyStatus]int{
			StatusOffDuty: 330,
			StatusSleeper: 362,
			StatusDriving: 394,
			StatusOnDuty:  426,
		},
		RemarksY: 500,
		ImageSize: ImageSize{
			Width:  constants.DefaultImageWidth,
			Height: constants.DefaultImageHeight,
		},
	}
}

// CalibrationRecord is one saved calibration in the store's history.
type CalibrationRecord struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Config    CalibrationConfig `json:"config"`
}
