// Package calibration captures the seven reference points that tie a log
// sheet template's pixels to the grid, and draws feedback for them.
package calibration

import (
	"errors"
	"fmt"
	"image"

	"github.com/julianstephens/logsheet/internal/models"
)

var (
	ErrIncomplete  = errors.New("calibration is incomplete")
	ErrInvalidGrid = models.ErrInvalidGrid
)

// Axis says which coordinate of a click a point records.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// PointDef describes one reference point.
type PointDef struct {
	Key    string
	Label  string
	Prompt string
	Axis   Axis
	// Status is set for the four row points.
	Status models.DutyStatus
}

// PointDefs lists the reference points in capture order.
var PointDefs = []PointDef{
	{Key: "gridStartX", Label: "Grid left edge", Prompt: "Click the left edge of the grid (midnight)", Axis: AxisX},
	{Key: "gridEndX", Label: "Grid right edge", Prompt: "Click the right edge of the grid (next midnight)", Axis: AxisX},
	{Key: "offDutyY", Label: "Off Duty row", Prompt: "Click the center of the Off Duty row", Axis: AxisY, Status: models.StatusOffDuty},
	{Key: "sleeperY", Label: "Sleeper Berth row", Prompt: "Click the center of the Sleeper Berth row", Axis: AxisY, Status: models.StatusSleeper},
	{Key: "drivingY", Label: "Driving row", Prompt: "Click the center of the Driving row", Axis: AxisY, Status: models.StatusDriving},
	{Key: "onDutyY", Label: "On Duty row", Prompt: "Click the center of the On Duty row", Axis: AxisY, Status: models.StatusOnDuty},
	{Key: "remarksY", Label: "Remarks baseline", Prompt: "Click where remark text should start", Axis: AxisY},
}

const (
	idxGridStart = 0
	idxGridEnd   = 1
	idxRowsFirst = 2
	idxRemarks   = 6
)

// PointStatus is a point's progress as shown to the user.
type PointStatus string

const (
	StatusCaptured PointStatus = "captured"
	StatusCurrent  PointStatus = "current"
	StatusPending  PointStatus = "pending"
)

// PointState is a snapshot of one point.
type PointState struct {
	PointDef
	Status PointStatus
	// Value is the recorded coordinate; Click is where the user clicked.
	Value int
	Click image.Point
}

// State is either AwaitingPoint(Index) or Complete.
type State struct {
	Index    int
	Complete bool
}

func (s State) String() string {
	if s.Complete {
		return "complete"
	}
	return fmt.Sprintf("awaiting point %d (%s)", s.Index, PointDefs[s.Index].Key)
}

// Session walks the user through the reference points in order. It is not
// safe for concurrent use.
type Session struct {
	clicks [7]image.Point
	cursor int
	size   models.ImageSize
}

// NewSession starts a session for a template of the given size.
func NewSession(size models.ImageSize) *Session {
	return &Session{size: size}
}

// SessionFromConfig returns a completed session reproducing cfg, so an
// existing calibration can be drawn as an overlay.
func SessionFromConfig(cfg models.CalibrationConfig) *Session {
	s := NewSession(cfg.ImageSize)
	mid := (cfg.GridStartX + cfg.GridEndX) / 2
	s.Capture(cfg.GridStartX, cfg.RowY[models.StatusOffDuty])
	s.Capture(cfg.GridEndX, cfg.RowY[models.StatusOffDuty])
	for _, def := range PointDefs[idxRowsFirst:idxRemarks] {
		s.Capture(mid, cfg.RowY[def.Status])
	}
	s.Capture(cfg.GridStartX, cfg.RemarksY)
	return s
}

func (s *Session) State() State {
	if s.cursor >= len(PointDefs) {
		return State{Index: len(PointDefs), Complete: true}
	}
	return State{Index: s.cursor}
}

func (s *Session) Complete() bool {
	return s.cursor >= len(PointDefs)
}

// Current returns the point awaiting capture, or false when complete.
func (s *Session) Current() (PointDef, bool) {
	if s.Complete() {
		return PointDef{}, false
	}
	return PointDefs[s.cursor], true
}

func (s *Session) ImageSize() models.ImageSize {
	return s.size
}

// SetImageSize records the template size once it is known.
func (s *Session) SetImageSize(size models.ImageSize) {
	s.size = size
}

// Capture records a click for the current point and advances. It reports
// false, changing nothing, when the session is already complete.
func (s *Session) Capture(x, y int) bool {
	if s.Complete() {
		return false
	}
	s.clicks[s.cursor] = image.Pt(x, y)
	s.cursor++
	return true
}

// Undo steps back to the previously captured point.
func (s *Session) Undo() bool {
	if s.cursor == 0 {
		return false
	}
	s.cursor--
	s.clicks[s.cursor] = image.Point{}
	return true
}

// Reset discards every captured point.
func (s *Session) Reset() {
	s.clicks = [7]image.Point{}
	s.cursor = 0
}

// Points reports every point in capture order.
func (s *Session) Points() []PointState {
	out := make([]PointState, len(PointDefs))
	for i, def := range PointDefs {
		st := PointState{PointDef: def, Status: StatusPending}
		switch {
		case i < s.cursor:
			st.Status = StatusCaptured
			st.Click = s.clicks[i]
			st.Value = s.value(i)
		case i == s.cursor:
			st.Status = StatusCurrent
		}
		out[i] = st
	}
	return out
}

func (s *Session) value(i int) int {
	if PointDefs[i].Axis == AxisX {
		return s.clicks[i].X
	}
	return s.clicks[i].Y
}

// GridEdges returns the normalized grid edges once both are captured.
func (s *Session) GridEdges() (left, right int, ok bool) {
	if s.cursor <= idxGridEnd {
		return 0, 0, false
	}
	a, b := s.value(idxGridStart), s.value(idxGridEnd)
	return min(a, b), max(a, b), true
}

// Config derives the calibration. Edges captured right to left are swapped.
func (s *Session) Config() (models.CalibrationConfig, error) {
	if !s.Complete() {
		return models.CalibrationConfig{}, fmt.Errorf("%w: %d of %d points captured", ErrIncomplete, s.cursor, len(PointDefs))
	}

	left, right, _ := s.GridEdges()
	if left == right {
		return models.CalibrationConfig{}, fmt.Errorf("%w: both edges at x=%d", ErrInvalidGrid, left)
	}

	cfg := models.CalibrationConfig{
		GridStartX: left,
		GridEndX:   right,
		RowY:       make(map[models.DutyStatus]int, len(models.DutyStatuses)),
		RemarksY:   s.value(idxRemarks),
		ImageSize:  s.size,
	}
	for i := idxRowsFirst; i < idxRemarks; i++ {
		cfg.RowY[PointDefs[i].Status] = s.value(i)
	}

	if err := cfg.Validate(); err != nil {
		return models.CalibrationConfig{}, err
	}
	return cfg, nil
}
