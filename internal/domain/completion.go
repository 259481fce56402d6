package domain

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type Message struct {
	Role    MessageRole
	Content string
}

type Image struct {
	MediaType  string
	Base64Data string
}

type CompletionRequest struct {
	Provider    Provider
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
	// Images are attached to the last user message by backends that accept vision input.
	Images []Image
}

type Completion struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}
