package models

// FileContext is an extracted document passed alongside a chat prompt so the
// assistant can analyze it
type FileContext struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// TokenUsage is the provider-reported token accounting for one completion
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletion is a successful assistant reply
type ChatCompletion struct {
	Message string      `json:"message"`
	Usage   *TokenUsage `json:"usage,omitempty"`
}

// TokenBalance is the remaining provider credit
type TokenBalance struct {
	AvailableTokens int64 `json:"available_tokens"`
}

type ChatMessageRequest struct {
	ConversationID string `json:"conversation_id" form:"conversation_id" binding:"required,uuid"`
	Text           string `json:"text" form:"text"`
}

type CreateConversationRequest struct {
	Title string `json:"title"`
}

type UpdateTitleRequest struct {
	Title string `json:"title"`
}
