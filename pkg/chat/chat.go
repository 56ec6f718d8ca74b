package chat

// Roles follow the chat-completion wire format shared by the Anthropic
// and Ollama APIs.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single chat message sent to or received from the LLM.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Response is the text returned by an LLM completion call.
type Response struct {
	Text string `json:"text"`
}
