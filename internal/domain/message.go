package domain

// Chat roles. History is append-only and ordered; the caller owns mutation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn in a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string
	Messages    []ChatMessage
	Tools       []ToolDefinition
	Temperature float64
}

type ChatResponse struct {
	Message   ChatMessage
	ToolCalls []ToolInvocation // structured calls, when the model supports them
	Model     string
	LatencyMs int64
}

func (r *ChatResponse) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}
