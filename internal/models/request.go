package models

// ChatMessage is one turn in the request payload
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the JSON body posted to the completions endpoint
type CompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// NewCompletionRequest builds a stateless request: the system instruction
// followed by the single user turn. Earlier turns are never included.
func NewCompletionRequest(model, systemPrompt, userMessage string, maxTokens int, temperature float64) CompletionRequest {
	return CompletionRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userMessage},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}
