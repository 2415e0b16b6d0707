package chat

// Role identifies the speaker of a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of a conversation. Immutable once stored; system
// turns are synthesized per request and never persisted.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is the ordered transcript of a session, oldest turn first.
// Insertion order is the only ordering guarantee.
type History []Turn
