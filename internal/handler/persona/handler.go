package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Oinktech2024/Techie-AI/internal/model/persona"
	"github.com/Oinktech2024/Techie-AI/pkg/utils"
)

// Handler persona服務的HTTP處理器
type Handler struct {
	personas persona.Registry
}

// New 創建persona處理器
func New(personas persona.Registry) *Handler {
	return &Handler{personas: personas}
}

// RegisterRoutes 註冊persona相關的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
}

// handleListPersonas 列出所有persona
func (h *Handler) handleListPersonas(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.personas.List())
}
