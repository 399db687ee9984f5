package chat

import "time"

// Session captures one caller's ongoing conversation. The persona is
// resolved per turn, not stored here, so later persona edits never
// rewrite wording already sent.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionSnapshot is a consistent point-in-time view of a session and
// its turns, used for administrative listing.
type SessionSnapshot struct {
	SessionID string `json:"sessionId"`
	Turns     []Turn `json:"turns"`
}
