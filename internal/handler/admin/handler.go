package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Oinktech2024/Techie-AI/internal/model/persona"
	adminservice "github.com/Oinktech2024/Techie-AI/internal/service/admin"
	chatservice "github.com/Oinktech2024/Techie-AI/internal/service/chat"
	"github.com/Oinktech2024/Techie-AI/pkg/utils"
)

// Handler 管理介面的HTTP處理器：登入/登出、persona維護與會話巡查。
type Handler struct {
	gate     *adminservice.Gate
	personas persona.Registry
	sessions *chatservice.Store
}

// New 創建管理處理器
func New(gate *adminservice.Gate, personas persona.Registry, sessions *chatservice.Store) *Handler {
	return &Handler{gate: gate, personas: personas, sessions: sessions}
}

// RegisterRoutes 註冊管理相關的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(ar chi.Router) {
		ar.Post("/login", h.handleLogin)
		ar.Post("/logout", h.handleLogout)

		ar.Group(func(pr chi.Router) {
			pr.Use(h.RequireAdmin)
			pr.Post("/personas", h.handleCreatePersona)
			pr.Put("/personas/{personaID}", h.handleUpdatePersona)
			pr.Get("/sessions", h.handleListSessions)
			pr.Delete("/sessions/{sessionID}", h.handleDeleteSession)
		})
	})
}

// RequireAdmin 僅放行持有已授權權杖的請求
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.gate.Authorized(tokenFromRequest(r)) {
			utils.RespondError(w, http.StatusForbidden, "admin authorization required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tokenFromRequest(r *http.Request) string {
	if token := r.Header.Get("X-Admin-Token"); token != "" {
		return token
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return token
	}
	return ""
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.gate.Login(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, adminservice.ErrInvalidCredentials) {
			utils.RespondError(w, http.StatusUnauthorized, "帳號或密碼錯誤")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleLogout 撤銷請求所附的權杖，對未知權杖也視為成功
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.gate.Logout(tokenFromRequest(r))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleCreatePersona(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Description) == "" {
		utils.RespondError(w, http.StatusBadRequest, "description is required")
		return
	}

	item, err := h.personas.Create(payload.Description)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create persona")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleUpdatePersona(w http.ResponseWriter, r *http.Request) {
	personaID := chi.URLParam(r, "personaID")

	var payload struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Description) == "" {
		utils.RespondError(w, http.StatusBadRequest, "description is required")
		return
	}

	if err := h.personas.Update(personaID, payload.Description); err != nil {
		if errors.Is(err, persona.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "persona not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to update persona")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.sessions.List())
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	deleted := h.sessions.Delete(sessionID)
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}
