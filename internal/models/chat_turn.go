package models

// Role identifies who produced a chat turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one message of the commit conversation
type ChatTurn struct {
	Role Role `json:"role"`
	// Content is render-ready text
	Content string `json:"content"`
	// Raw is the text before rendering, used as context for later questions
	Raw string `json:"-"`
}
