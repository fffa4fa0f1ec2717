// Package models contains data types and constants for the Athena prompt endpoint.
package models

// DefaultBaseURL is the Athena prompt service the widget talks to when nothing overrides it.
const DefaultBaseURL = "http://13.51.86.244:8000"

// Endpoint paths relative to the base URL
const (
	EndpointPrompt = "/prompt"
	EndpointHealth = "/"
)

// PromptParam is the query parameter carrying the user's text
const PromptParam = "prompt"

// Display strings shown in the conversation log
const (
	BotName          = "Athena"
	TypingIndicator  = BotName + " is typing..."
	ReplyPrefix      = BotName + ": "
	NoResponseText   = "Sorry, no response from server."
	FetchErrorPrefix = "Error fetching response: "
)

// DefaultHeaders returns the headers sent with every prompt request.
// The request body is empty; the content type is declared anyway.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
	}
}
