package chat

import "time"

// Roles a turn can carry. System turns are never stored in a session
// history; they are synthesized from the persona registry per request.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Turn is one message of a conversation, tagged with its speaker role.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
