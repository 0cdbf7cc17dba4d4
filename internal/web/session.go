package web

import (
	"github.com/julianstephens/logsheet/internal/calibration"
	"github.com/julianstephens/logsheet/internal/logger"
	"github.com/julianstephens/logsheet/internal/models"
)

// PointJSON is one reference point as the page sees it.
type PointJSON struct {
	Key    string                  `json:"key"`
	Label  string                  `json:"label"`
	Status calibration.PointStatus `json:"status"`
	Value  int                     `json:"value"`
}

// StateJSON is the session snapshot pushed to the page.
type StateJSON struct {
	State    string                    `json:"state"`
	Complete bool                      `json:"complete"`
	Prompt   string                    `json:"prompt,omitempty"`
	Points   []PointJSON               `json:"points"`
	Config   *models.CalibrationConfig `json:"config,omitempty"`
}

func (s *Server) state() StateJSON {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Server) stateLocked() StateJSON {
	st := StateJSON{
		State:    s.session.State().String(),
		Complete: s.session.Complete(),
	}
	if def, ok := s.session.Current(); ok {
		st.Prompt = def.Prompt
	}
	for _, p := range s.session.Points() {
		st.Points = append(st.Points, PointJSON{Key: p.Key, Label: p.Label, Status: p.Status, Value: p.Value})
	}
	if cfg, err := s.session.Config(); err == nil {
		st.Config = &cfg
	}
	return st
}

func (s *Server) click(x, y int) StateJSON {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Capture(x, y) {
		logger.Debug("calibration point captured", "state", s.session.State().String(), "x", x, "y", y)
	}
	return s.stateLocked()
}

func (s *Server) undo() StateJSON {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Undo()
	return s.stateLocked()
}

func (s *Server) reset() StateJSON {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Reset()
	return s.stateLocked()
}

// save stores the session's configuration. Incomplete sessions are refused.
func (s *Server) save() (models.CalibrationConfig, error) {
	s.mu.Lock()
	cfg, err := s.session.Config()
	s.mu.Unlock()
	if err != nil {
		return models.CalibrationConfig{}, err
	}

	if err := s.store.SaveCalibration(cfg); err != nil {
		logger.Error("failed to save calibration", "error", err)
		return models.CalibrationConfig{}, err
	}
	logger.Info("calibration saved", "gridStartX", cfg.GridStartX, "gridEndX", cfg.GridEndX)

	select {
	case s.saved <- cfg.Clone():
	default:
	}
	return cfg, nil
}
