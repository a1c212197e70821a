package ai

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one message in a completion request.
type ChatMessage struct {
	Role    Role
	Content string
}

// CompletionRequest describes a single completion call.
// Zero MaxTokens leaves the limit to the provider.
type CompletionRequest struct {
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// System is shorthand for a system-role message.
func System(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// User is shorthand for a user-role message.
func User(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// Assistant is shorthand for an assistant-role message.
func Assistant(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}
