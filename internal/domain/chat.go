package domain

import "time"

// ChatRole identifies the author of a conversation turn.
type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatTurn is one turn of a conversation. History is owned by the
// caller; the server keeps no session state between requests.
type ChatTurn struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// IsValidChatRole reports whether r is a role a caller may supply in
// history. System turns are assembled server-side only.
func IsValidChatRole(r ChatRole) bool {
	return r == ChatRoleUser || r == ChatRoleAssistant
}

// RetrievedItem is one entry of the ephemeral retrieval context
// produced per query: a work item row with its similarity score
// (1 - cosine distance, higher is more similar).
type RetrievedItem struct {
	ID          int64
	Title       string
	Description string
	Score       float32
}

// ChatLog records one completed chat turn for later evaluation.
type ChatLog struct {
	ID         string
	Question   string
	Answer     string
	ItemIDs    []int64
	DurationMs int64
	CreatedAt  time.Time
}
