package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	adminHandler "github.com/Oinktech2024/Techie-AI/internal/handler/admin"
	chatHandler "github.com/Oinktech2024/Techie-AI/internal/handler/chat"
	personaHandler "github.com/Oinktech2024/Techie-AI/internal/handler/persona"
	middlewarePkg "github.com/Oinktech2024/Techie-AI/internal/middleware"
	personaModel "github.com/Oinktech2024/Techie-AI/internal/model/persona"
	adminService "github.com/Oinktech2024/Techie-AI/internal/service/admin"
	chatService "github.com/Oinktech2024/Techie-AI/internal/service/chat"
	"github.com/Oinktech2024/Techie-AI/internal/service/gateway"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(gw *gateway.Service, personas personaModel.Registry, sessions *chatService.Store, gate *adminService.Gate) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		chatHandler.New(gw).RegisterRoutes(api)
		personaHandler.New(personas).RegisterRoutes(api)
		adminHandler.New(gate, personas, sessions).RegisterRoutes(api)
	})

	return r
}
