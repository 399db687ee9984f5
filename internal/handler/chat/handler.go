package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Oinktech2024/Techie-AI/internal/model/persona"
	"github.com/Oinktech2024/Techie-AI/internal/service/ai"
	"github.com/Oinktech2024/Techie-AI/internal/service/gateway"
	"github.com/Oinktech2024/Techie-AI/pkg/utils"
)

// msgInvalidInput 是輸入驗證失敗時回傳給使用者的訊息。
const msgInvalidInput = "請輸入有效的問題。"

// Handler 聊天閘道的HTTP處理器
type Handler struct {
	gateway *gateway.Service
}

// New 創建聊天處理器
func New(gw *gateway.Service) *Handler {
	return &Handler{gateway: gw}
}

// RegisterRoutes 註冊聊天相關的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/ws", h.handleWebSocket)
}

type turnRequest struct {
	SessionID string `json:"sessionId"`
	PersonaID string `json:"personaId"`
	Text      string `json:"text"`
}

// handleChat 處理一輪對話
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload turnRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if payload.SessionID == "" {
		// 舊版客戶端透過標頭傳遞會話識別碼
		payload.SessionID = r.Header.Get("X-Session-ID")
	}

	result, err := h.gateway.HandleTurn(r.Context(), payload.SessionID, payload.PersonaID, payload.Text)
	switch {
	case err == nil:
		utils.RespondJSON(w, http.StatusOK, result)
	case errors.Is(err, gateway.ErrEmptyText):
		utils.RespondError(w, http.StatusBadRequest, msgInvalidInput)
	case errors.Is(err, persona.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "persona not found")
	case errors.Is(err, ai.ErrUpstreamUnavailable), errors.Is(err, ai.ErrMalformedReply):
		// 回傳固定的降級訊息，細節只寫入日誌
		utils.RespondJSON(w, http.StatusOK, result)
	default:
		log.Printf("[chat] unexpected error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
