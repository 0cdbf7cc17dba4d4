package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/logsheet/internal/calibration"
	"github.com/julianstephens/logsheet/internal/models"
)

// CalibrationFormModel holds the form's text inputs, one per reference point
// in capture order.
type CalibrationFormModel struct {
	Values [7]string
}

// FormFromConfig pre-fills the form with cfg.
func FormFromConfig(cfg models.CalibrationConfig) *CalibrationFormModel {
	fm := &CalibrationFormModel{}
	for i, p := range calibration.SessionFromConfig(cfg).Points() {
		fm.Values[i] = strconv.Itoa(p.Value)
	}
	return fm
}

func validatePixel(s string) error {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number of pixels")
	}
	if i < 0 {
		return fmt.Errorf("pixel coordinates cannot be negative")
	}
	return nil
}

// NewCalibrationForm builds a huh form editing fm in place.
func NewCalibrationForm(fm *CalibrationFormModel) *huh.Form {
	grid := make([]huh.Field, 0, 2)
	rows := make([]huh.Field, 0, 5)
	for i, def := range calibration.PointDefs {
		axis := "y"
		if def.Axis == calibration.AxisX {
			axis = "x"
		}
		field := huh.NewInput().
			Title(fmt.Sprintf("%s (%s)", def.Label, axis)).
			Description(def.Prompt).
			Value(&fm.Values[i]).
			Validate(validatePixel)
		if def.Axis == calibration.AxisX {
			grid = append(grid, field)
		} else {
			rows = append(rows, field)
		}
	}

	return huh.NewForm(
		huh.NewGroup(grid...).Title("Grid edges"),
		huh.NewGroup(rows...).Title("Rows and remarks"),
	)
}

// Config replays the values through a calibration session, so the form gets
// the same edge normalization and checks as clicking.
func (fm *CalibrationFormModel) Config(size models.ImageSize) (models.CalibrationConfig, error) {
	s := calibration.NewSession(size)
	for i, def := range calibration.PointDefs {
		v, err := strconv.Atoi(strings.TrimSpace(fm.Values[i]))
		if err != nil {
			return models.CalibrationConfig{}, fmt.Errorf("%s: %w", def.Label, err)
		}
		if def.Axis == calibration.AxisX {
			s.Capture(v, 0)
		} else {
			s.Capture(0, v)
		}
	}
	return s.Config()
}
