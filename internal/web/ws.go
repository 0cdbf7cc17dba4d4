package web

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/julianstephens/logsheet/internal/logger"
)

// WSMessage is sent by the page.
type WSMessage struct {
	Action string `json:"action"` // click, undo, reset, save, state
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
}

// WSResponse is sent to the page.
type WSResponse struct {
	Type    string     `json:"type"` // state, saved, error
	State   *StateJSON `json:"state,omitempty"`
	Message string     `json:"message,omitempty"`
}

func (s *Server) acquireClient() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client {
		return false
	}
	s.client = true
	return true
}

func (s *Server) releaseClient() {
	s.mu.Lock()
	s.client = false
	s.mu.Unlock()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.acquireClient() {
		http.Error(w, ErrClientConnected.Error(), http.StatusConflict)
		return
	}
	defer s.releaseClient()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade error", "error", err)
		return
	}
	defer conn.Close()

	st := s.state()
	if err := conn.WriteJSON(WSResponse{Type: "state", State: &st}); err != nil {
		return
	}

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket read error", "error", err)
			}
			return
		}

		resp := s.dispatch(msg)
		if err := conn.WriteJSON(resp); err != nil {
			logger.Debug("websocket write error", "error", err)
			return
		}
	}
}

func (s *Server) dispatch(msg WSMessage) WSResponse {
	var st StateJSON
	switch msg.Action {
	case "click":
		st = s.click(msg.X, msg.Y)
	case "undo":
		st = s.undo()
	case "reset":
		st = s.reset()
	case "state":
		st = s.state()
	case "save":
		if _, err := s.save(); err != nil {
			return WSResponse{Type: "error", Message: err.Error()}
		}
		st = s.state()
		return WSResponse{Type: "saved", State: &st}
	default:
		return WSResponse{Type: "error", Message: "unknown action: " + msg.Action}
	}
	return WSResponse{Type: "state", State: &st}
}
