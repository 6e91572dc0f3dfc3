package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/commercemesh/commercemesh/core"
	"github.com/commercemesh/commercemesh/orchestrator"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWS processes chat messages over a websocket, relaying every engine
// event in emission order and closing each turn with a "done" summary. Write
// failures are tolerated per the sink contract; the turn always completes.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	s.logger.Info("websocket client connected", "remote", conn.RemoteAddr().String())

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		if req.CustomerID == "" {
			req.CustomerID = "C-1001"
		}
		if req.ConversationID == "" {
			req.ConversationID = uuid.NewString()
		}

		sink := func(ev core.Event) error {
			return conn.WriteJSON(map[string]any{
				"type": ev.Type,
				"data": ev.Data,
			})
		}

		result, err := s.engine.ProcessTurn(r.Context(), orchestrator.TurnRequest{
			ConversationID: req.ConversationID,
			CustomerID:     req.CustomerID,
			Message:        req.Message,
			Image:          req.Image,
			Sink:           sink,
		})
		if err != nil {
			s.logger.Error("turn processing failed", "error", err)
			continue
		}

		done := map[string]any{
			"type": "done",
			"data": map[string]any{
				"conversation_id":  result.ConversationID,
				"response":         result.Response,
				"agent":            result.Agent,
				"model":            result.Backend.Model,
				"slice":            result.Backend.Slice,
				"classification":   result.Classification,
				"total_latency_ms": result.TotalLatency.Milliseconds(),
			},
		}
		if err := conn.WriteJSON(done); err != nil {
			s.logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}
