package internal

// AnalyzeCodePayload is the body accepted by /analyze_code.
// Temp and TopP are left untyped because browsers send them either as
// JSON numbers or as numeric strings.
type AnalyzeCodePayload struct {
	Code    any `json:"code"`
	AIModel any `json:"aiModel"`
	Temp    any `json:"temp"`
	TopP    any `json:"top_p"`
}

// AnalysisRequest is a validated code analysis request
type AnalysisRequest struct {
	Code        string
	Model       string
	Temperature float64
	TopP        float64
}

// AnalysisResult carries the feedback relayed to the browser
type AnalysisResult struct {
	Suggestions string `json:"suggestions"`
}

// TokenizeRequest represents the request for token counting
type TokenizeRequest struct {
	Message string `json:"message"`
}

// TokenizeResponse represents the response with the token count
type TokenizeResponse struct {
	TokenCount int `json:"tokenCount"`
}

// HealthResponse represents the response from the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

// Role is the author of a chat message
type Role string

// Roles used when building a completion request
const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// ChatMessage represents a message in the chat conversation
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is an OpenAI-compatible chat completion request
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
}

// ChatCompletionResponse is an OpenAI-compatible chat completion response
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   ChatUsage    `json:"usage"`
}

// ChatChoice represents a single completion choice
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatUsage represents token usage reported by the API
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatErrorResponse is the error body returned by the API
type ChatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}
