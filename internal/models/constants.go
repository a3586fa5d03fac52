// Package models contains data types and constants for the completion API.
package models

// Endpoints for the Groq OpenAI-compatible API
const (
	EndpointBase        = "https://api.groq.com/openai/v1"
	EndpointCompletions = EndpointBase + "/chat/completions"
)

// Request defaults
const (
	DefaultModel       = "llama-3.1-8b-instant"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7

	// DefaultSystemPrompt is sent as the only system turn of every request.
	DefaultSystemPrompt = "You are a helpful AI assistant. Provide concise, accurate, and friendly responses. Keep your answers informative but not too lengthy."
)

// CredentialKey is the fixed name the API key is stored under.
const CredentialKey = "groq-api-key"

// Chat roles on the wire
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultHeaders returns the headers sent with every completion request.
// Authorization is added separately since it depends on the credential.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "groqchat/0.1",
	}
}

// AvailableModels lists the chat models offered in the config menu
func AvailableModels() []string {
	return []string{
		DefaultModel,
		"llama-3.3-70b-versatile",
		"openai/gpt-oss-20b",
		"openai/gpt-oss-120b",
	}
}
