package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	chatservice "github.com/zerocost/scheduler-backend/internal/service/chat"
	"github.com/zerocost/scheduler-backend/internal/service/scheduler"
	"github.com/zerocost/scheduler-backend/pkg/utils"
)

const (
	defaultSessionID = "default"
	defaultTimezone  = "UTC"
)

// Handler exposes the chat turn endpoint. The scheduler dispatcher is
// optional; when absent, replies pass through verbatim.
type Handler struct {
	chatSvc    *chatservice.Service
	dispatcher *scheduler.Dispatcher
}

func New(chatSvc *chatservice.Service, dispatcher *scheduler.Dispatcher) *Handler {
	return &Handler{chatSvc: chatSvc, dispatcher: dispatcher}
}

// RegisterRoutes wires chat routes onto the API router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/session", h.handleCreateSession)
}

type chatRequest struct {
	Message      string `json:"message"`
	SessionID    string `json:"sessionId"`
	UserTimezone string `json:"userTimezone"`
}

type chatResponse struct {
	Response  string             `json:"response"`
	SessionID string             `json:"sessionId"`
	Action    *scheduler.Outcome `json:"action,omitempty"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "Message is required")
		return
	}

	sessionID := payload.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}
	timezone := payload.UserTimezone
	if timezone == "" {
		timezone = defaultTimezone
	}

	result, err := h.chatSvc.HandleTurn(r.Context(), sessionID, timezone, payload.Message)
	switch {
	case errors.Is(err, chatservice.ErrInvalidInput):
		utils.RespondError(w, http.StatusBadRequest, "Message is required")
		return
	case errors.Is(err, chatservice.ErrUpstreamUnavailable):
		utils.RespondError(w, http.StatusInternalServerError, "Session store unavailable")
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "Inference failed")
		return
	}

	response := chatResponse{Response: result.Reply, SessionID: result.SessionID}
	if h.dispatcher != nil {
		response.Action = h.dispatcher.Dispatch(r.Context(), result.Reply)
	}

	utils.RespondJSON(w, http.StatusOK, response)
}

type sessionResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// handleCreateSession mints a session identifier for clients that do not
// want to invent their own. No store write happens here; sessions come
// into being on the first turn.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusCreated, sessionResponse{
		SessionID: uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	})
}
