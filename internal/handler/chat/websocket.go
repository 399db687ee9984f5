package chat

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Oinktech2024/Techie-AI/internal/model/persona"
	"github.com/Oinktech2024/Techie-AI/internal/service/ai"
	"github.com/Oinktech2024/Techie-AI/internal/service/gateway"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type wsReply struct {
	Reply     string `json:"reply,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// handleWebSocket 透過WebSocket承載多輪對話，沿用與REST相同的閘道路徑。
// 連線建立後，回覆中的sessionId會在後續訊框缺省時沿用。
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// 連線層面的會話識別碼，跨訊框保持
	sessionID := r.URL.Query().Get("sessionId")

	for {
		var payload turnRequest
		if err := conn.ReadJSON(&payload); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}

		if payload.SessionID == "" {
			payload.SessionID = sessionID
		}

		result, err := h.gateway.HandleTurn(r.Context(), payload.SessionID, payload.PersonaID, payload.Text)
		out := wsReply{Reply: result.Reply, SessionID: result.SessionID}
		switch {
		case err == nil:
		case errors.Is(err, gateway.ErrEmptyText):
			out = wsReply{Error: msgInvalidInput}
		case errors.Is(err, persona.ErrNotFound):
			out = wsReply{Error: "persona not found"}
		case errors.Is(err, ai.ErrUpstreamUnavailable), errors.Is(err, ai.ErrMalformedReply):
			// 降級訊息已放入result.Reply
		default:
			log.Printf("[ws] unexpected error: %v", err)
			out = wsReply{Error: "internal error"}
		}

		if out.SessionID != "" {
			sessionID = out.SessionID
		}

		if err := conn.WriteJSON(out); err != nil {
			log.Printf("[ws] write error: %v", err)
			return
		}
	}
}
