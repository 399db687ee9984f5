package gateway

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/Oinktech2024/Techie-AI/internal/model/persona"
	"github.com/Oinktech2024/Techie-AI/internal/service/ai"
	chatservice "github.com/Oinktech2024/Techie-AI/internal/service/chat"
)

// ErrEmptyText rejects turns with no usable content. The web layer
// validates too; the core rejects defensively.
var ErrEmptyText = errors.New("text is empty")

// Service routes one inbound turn through session storage, persona
// resolution and the upstream completion client.
type Service struct {
	store    *chatservice.Store
	personas persona.Registry
	client   ai.Client

	// defaultPersonaID pins a single implicit persona. When set, the
	// caller's selector is ignored entirely.
	defaultPersonaID string
}

// NewService wires the gateway core.
func NewService(store *chatservice.Store, personas persona.Registry, client ai.Client, defaultPersonaID string) *Service {
	return &Service{
		store:            store,
		personas:         personas,
		client:           client,
		defaultPersonaID: defaultPersonaID,
	}
}

// TurnResult carries the reply and the (possibly freshly generated)
// session identifier back to the caller.
type TurnResult struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
}

// HandleTurn processes one user turn. The user turn is recorded before
// the upstream call and is never rolled back: on an upstream failure
// the returned result carries the fixed fallback text alongside the
// taxonomy error, and the history keeps only the user turn.
//
// No session lock is held while the upstream call is in flight, so a
// concurrent snapshot may observe the user turn without its reply yet.
func (s *Service) HandleTurn(ctx context.Context, sessionID, personaID, text string) (TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return TurnResult{}, ErrEmptyText
	}

	if sessionID == "" {
		sessionID = chatservice.NewSessionID()
	}
	s.store.GetOrCreate(sessionID)

	prompt, err := s.resolvePrompt(personaID)
	if err != nil {
		return TurnResult{}, err
	}

	history, _ := s.store.Snapshot(sessionID)
	s.store.AppendUser(sessionID, text)

	reply, err := s.client.Complete(ctx, prompt, history, text)
	if err != nil {
		if fallback, ok := ai.Fallback(err); ok {
			log.Printf("[gateway] upstream failure for session=%s: %v", sessionID, err)
			return TurnResult{Reply: fallback, SessionID: sessionID}, err
		}
		return TurnResult{}, err
	}

	s.store.AppendAssistant(sessionID, reply)
	return TurnResult{Reply: reply, SessionID: sessionID}, nil
}

func (s *Service) resolvePrompt(personaID string) (string, error) {
	if s.defaultPersonaID != "" {
		personaID = s.defaultPersonaID
	}
	return s.personas.Resolve(personaID)
}
