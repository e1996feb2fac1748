package models

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat and language endpoints.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// LastUserMessage returns the most recent user-authored message.
func (r ChatRequest) LastUserMessage() (ChatMessage, bool) {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i], true
		}
	}
	return ChatMessage{}, false
}
