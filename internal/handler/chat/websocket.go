package chat

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	chatservice "github.com/zerocost/scheduler-backend/internal/service/chat"
)

// WebSocketHandler serves live chat over a single socket. Each inbound
// frame runs one full turn through the same processor as POST /chat.
type WebSocketHandler struct {
	chatSvc  *chatservice.Service
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(chatSvc *chatservice.Service) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes wires the websocket endpoint onto the API router.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/ws", h.handleWebSocket)
}

type wsInbound struct {
	Message      string `json:"message"`
	SessionID    string `json:"sessionId"`
	UserTimezone string `json:"userTimezone"`
}

type wsOutbound struct {
	Response  string `json:"response,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Session identity sticks to the connection once established.
	connSessionID := ""
	log.Printf("[ws] connection opened from %s", r.RemoteAddr)

	for {
		var inbound wsInbound
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}

		if inbound.Message == "" {
			h.writeJSON(conn, wsOutbound{Error: "Message is required"})
			continue
		}

		sessionID := inbound.SessionID
		if sessionID == "" {
			if connSessionID == "" {
				connSessionID = uuid.NewString()
			}
			sessionID = connSessionID
		}
		timezone := inbound.UserTimezone
		if timezone == "" {
			timezone = defaultTimezone
		}

		result, err := h.chatSvc.HandleTurn(r.Context(), sessionID, timezone, inbound.Message)
		if err != nil {
			log.Printf("[ws] turn failed session=%s: %v", sessionID, err)
			h.writeJSON(conn, wsOutbound{Error: "Inference failed", SessionID: sessionID})
			continue
		}

		h.writeJSON(conn, wsOutbound{Response: result.Reply, SessionID: result.SessionID})
	}
}

func (h *WebSocketHandler) writeJSON(conn *websocket.Conn, payload wsOutbound) {
	if err := conn.WriteJSON(payload); err != nil {
		log.Printf("[ws] write failed: %v", err)
	}
}
