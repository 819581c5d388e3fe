package intermediary

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	intermediaryService "github.com/PetarSt98/SmartAllies/internal/service/intermediary"
)

// WebSocketHandler serves a live chat socket over the same turn pipeline as
// the REST message endpoint. One frame in, one frame out; the socket closes
// once the session ends.
type WebSocketHandler struct {
	svc      *intermediaryService.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the live chat socket handler.
func NewWebSocketHandler(svc *intermediaryService.Service) *WebSocketHandler {
	return &WebSocketHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes registers the live chat socket route.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundFrame struct {
	Message string `json:"message"`
}

type outgoingFrame struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if _, ok := h.svc.GetSession(sessionID); !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] live chat opened for session=%s", sessionID)

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error for session=%s: %v", sessionID, err)
			}
			return
		}
		if frame.Message == "" {
			h.writeFrame(conn, outgoingFrame{Type: "error", Error: "message is required"})
			continue
		}

		result, err := h.svc.SendMessage(r.Context(), sessionID, frame.Message)
		if err != nil {
			h.writeFrame(conn, outgoingFrame{Type: "error", Error: err.Error()})
			continue
		}

		h.writeFrame(conn, outgoingFrame{Type: "chat", Data: result})

		if result.SessionEnded {
			deadline := time.Now().Add(time.Second)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"), deadline)
			log.Printf("[ws] live chat closed for session=%s, ticket=%s", sessionID, result.TicketID)
			return
		}
	}
}

func (h *WebSocketHandler) writeFrame(conn *websocket.Conn, frame outgoingFrame) {
	frame.Timestamp = time.Now().UnixMilli()
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("[ws] write failed: %v", err)
	}
}
