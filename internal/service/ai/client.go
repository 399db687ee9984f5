package ai

import (
	"context"
	"errors"

	"github.com/Oinktech2024/Techie-AI/internal/model/chat"
)

var (
	// ErrUpstreamUnavailable covers network, connection, timeout and
	// non-2xx failures when calling the completion service.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrMalformedReply covers responses that parse but lack the
	// expected completion content.
	ErrMalformedReply = errors.New("malformed upstream reply")
)

// User-visible fallback texts. Failure details are logged, never
// surfaced to the caller.
const (
	FallbackUnavailable = "抱歉，目前無法連接到伺服器，請稍後再試。"
	FallbackMalformed   = "抱歉，系統回應異常，請再試一次或聯繫管理員。"
)

// Fallback maps a taxonomy error to its user-visible text.
func Fallback(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrUpstreamUnavailable):
		return FallbackUnavailable, true
	case errors.Is(err, ErrMalformedReply):
		return FallbackMalformed, true
	default:
		return "", false
	}
}

// Client turns an assembled conversation into one completion request.
// Implementations never retry; a failed call is terminal for the turn.
type Client interface {
	Complete(ctx context.Context, systemPrompt string, history []chat.Turn, userText string) (string, error)
}
