package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/zerocost/scheduler-backend/internal/handler/chat"
	middlewarePkg "github.com/zerocost/scheduler-backend/internal/middleware"
	chatService "github.com/zerocost/scheduler-backend/internal/service/chat"
	"github.com/zerocost/scheduler-backend/internal/service/scheduler"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, dispatcher *scheduler.Dispatcher) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Zero-Cost AI Scheduler Backend – Running!"))
	})

	h := chatHandler.New(chatSvc, dispatcher)
	ws := chatHandler.NewWebSocketHandler(chatSvc)

	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)
		ws.RegisterRoutes(api)
	})

	return r
}
