package gateway_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	model "github.com/Oinktech2024/Techie-AI/internal/model/chat"
	"github.com/Oinktech2024/Techie-AI/internal/model/persona"
	"github.com/Oinktech2024/Techie-AI/internal/service/ai"
	chatservice "github.com/Oinktech2024/Techie-AI/internal/service/chat"
	"github.com/Oinktech2024/Techie-AI/internal/service/gateway"
)

// fakeClient scripts upstream behavior for gateway tests.
type fakeClient struct {
	mu         sync.Mutex
	reply      string
	err        error
	gotSystem  string
	gotHistory []model.Turn
	gotUser    string

	// when set, Complete signals started and blocks until release closes.
	started chan struct{}
	release chan struct{}
}

func (f *fakeClient) Complete(_ context.Context, systemPrompt string, history []model.Turn, userText string) (string, error) {
	f.mu.Lock()
	f.gotSystem = systemPrompt
	f.gotHistory = append([]model.Turn(nil), history...)
	f.gotUser = userText
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
		<-f.release
	}
	return f.reply, f.err
}

func newGateway(t *testing.T, client ai.Client, defaultPersona string) (*gateway.Service, *chatservice.Store) {
	t.Helper()
	registry, err := persona.NewMemoryRegistry([]persona.Persona{
		{ID: "liya", Description: "You are Liya..."},
	})
	if err != nil {
		t.Fatalf("registry err: %v", err)
	}
	store := chatservice.NewStore(0)
	return gateway.NewService(store, registry, client, defaultPersona), store
}

func TestHandleTurnSuccess(t *testing.T) {
	client := &fakeClient{reply: "Greetings, traveler."}
	gw, store := newGateway(t, client, "")

	result, err := gw.HandleTurn(context.Background(), "s1", "liya", "hello")
	if err != nil {
		t.Fatalf("HandleTurn err: %v", err)
	}
	if result.Reply != "Greetings, traveler." || result.SessionID != "s1" {
		t.Fatalf("unexpected result: %+v", result)
	}

	if client.gotSystem != "You are Liya..." {
		t.Fatalf("persona prompt not forwarded: %q", client.gotSystem)
	}
	if client.gotUser != "hello" {
		t.Fatalf("user text not forwarded: %q", client.gotUser)
	}

	turns, _ := store.Snapshot("s1")
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != model.RoleUser || turns[0].Content != "hello" {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Role != model.RoleAssistant || turns[1].Content != "Greetings, traveler." {
		t.Fatalf("unexpected second turn: %+v", turns[1])
	}
}

func TestHandleTurnGeneratesSessionID(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	gw, store := newGateway(t, client, "")

	result, err := gw.HandleTurn(context.Background(), "", "liya", "hello")
	if err != nil {
		t.Fatalf("HandleTurn err: %v", err)
	}
	if result.SessionID == "" {
		t.Fatal("no session id generated")
	}
	if _, ok := store.Snapshot(result.SessionID); !ok {
		t.Fatal("generated session not stored")
	}
}

func TestHandleTurnTransportFailure(t *testing.T) {
	client := &fakeClient{err: ai.ErrUpstreamUnavailable}
	gw, store := newGateway(t, client, "")

	result, err := gw.HandleTurn(context.Background(), "s1", "liya", "hello")
	if !errors.Is(err, ai.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if result.Reply != ai.FallbackUnavailable {
		t.Fatalf("expected transport fallback, got %q", result.Reply)
	}
	if result.SessionID != "s1" {
		t.Fatalf("session id lost on failure: %q", result.SessionID)
	}

	// the user turn stays recorded; nothing else is appended
	turns, _ := store.Snapshot("s1")
	if len(turns) != 1 || turns[0].Role != model.RoleUser || turns[0].Content != "hello" {
		t.Fatalf("unexpected history after failure: %+v", turns)
	}
}

func TestHandleTurnMalformedReply(t *testing.T) {
	client := &fakeClient{err: ai.ErrMalformedReply}
	gw, store := newGateway(t, client, "")

	result, err := gw.HandleTurn(context.Background(), "s1", "liya", "hello")
	if !errors.Is(err, ai.ErrMalformedReply) {
		t.Fatalf("expected ErrMalformedReply, got %v", err)
	}
	if result.Reply != ai.FallbackMalformed {
		t.Fatalf("expected malformed fallback, got %q", result.Reply)
	}

	turns, _ := store.Snapshot("s1")
	if len(turns) != 1 {
		t.Fatalf("expected only the user turn, got %d turns", len(turns))
	}
}

func TestHandleTurnEmptyText(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	gw, store := newGateway(t, client, "")

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := gw.HandleTurn(context.Background(), "s1", "liya", text); !errors.Is(err, gateway.ErrEmptyText) {
			t.Fatalf("text %q: expected ErrEmptyText, got %v", text, err)
		}
	}

	if _, ok := store.Snapshot("s1"); ok {
		t.Fatal("rejected turn created a session")
	}
}

func TestHandleTurnUnknownPersona(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	gw, store := newGateway(t, client, "")

	_, err := gw.HandleTurn(context.Background(), "s1", "missing", "hello")
	if !errors.Is(err, persona.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// an unset selector without a default persona also fails
	_, err = gw.HandleTurn(context.Background(), "s1", "", "hello")
	if !errors.Is(err, persona.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty selector, got %v", err)
	}

	turns, _ := store.Snapshot("s1")
	if len(turns) != 0 {
		t.Fatalf("persona failure recorded turns: %+v", turns)
	}
}

func TestHandleTurnDefaultPersonaIgnoresSelector(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	gw, _ := newGateway(t, client, "liya")

	for _, selector := range []string{"", "liya", "someone-else"} {
		if _, err := gw.HandleTurn(context.Background(), "s1", selector, "hello"); err != nil {
			t.Fatalf("selector %q: HandleTurn err: %v", selector, err)
		}
		if client.gotSystem != "You are Liya..." {
			t.Fatalf("selector %q: expected pinned persona prompt, got %q", selector, client.gotSystem)
		}
	}
}

func TestHandleTurnHistoryExcludesNewUserTurn(t *testing.T) {
	client := &fakeClient{reply: "first reply"}
	gw, _ := newGateway(t, client, "")

	if _, err := gw.HandleTurn(context.Background(), "s1", "liya", "first"); err != nil {
		t.Fatalf("first turn err: %v", err)
	}
	if len(client.gotHistory) != 0 {
		t.Fatalf("first turn should see empty history, got %d", len(client.gotHistory))
	}

	client.reply = "second reply"
	if _, err := gw.HandleTurn(context.Background(), "s1", "liya", "second"); err != nil {
		t.Fatalf("second turn err: %v", err)
	}
	if len(client.gotHistory) != 2 {
		t.Fatalf("second turn should see the first pair, got %d", len(client.gotHistory))
	}
	if client.gotHistory[1].Content != "first reply" {
		t.Fatalf("unexpected history tail: %+v", client.gotHistory[1])
	}
}

func TestDanglingUserTurnVisibleWhileUpstreamInFlight(t *testing.T) {
	client := &fakeClient{
		reply:   "late reply",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	gw, store := newGateway(t, client, "")

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := gw.HandleTurn(context.Background(), "s1", "liya", "hello"); err != nil {
			t.Errorf("HandleTurn err: %v", err)
		}
	}()

	select {
	case <-client.started:
	case <-time.After(time.Second):
		t.Fatal("upstream call never started")
	}

	// no session lock is held during the upstream call, so the user
	// turn is observable without its reply
	turns, ok := store.Snapshot("s1")
	if !ok || len(turns) != 1 || turns[0].Role != model.RoleUser {
		t.Fatalf("unexpected mid-flight snapshot: ok=%v turns=%+v", ok, turns)
	}

	close(client.release)
	<-done

	turns, _ = store.Snapshot("s1")
	if len(turns) != 2 || turns[1].Role != model.RoleAssistant {
		t.Fatalf("unexpected final history: %+v", turns)
	}
}
