// (c) Copyright ZeroEval Inc. 2026

package gateway

/*
	CHAT COMPLETIONS API - INPUT
*/

// ChatCompletionRequest represents the /v1/chat/completions request format
type ChatCompletionRequest struct {
	Model               string          `json:"model"`
	Messages            []ChatMessage   `json:"messages"`
	Temperature         *float64        `json:"temperature,omitempty"`
	TopP                *float64        `json:"top_p,omitempty"`
	MaxTokens           *int            `json:"max_tokens,omitempty"`            // Legacy, still accepted
	MaxCompletionTokens *int            `json:"max_completion_tokens,omitempty"` // Preferred
	FrequencyPenalty    *float64        `json:"frequency_penalty,omitempty"`
	PresencePenalty     *float64        `json:"presence_penalty,omitempty"`
	Stop                interface{}     `json:"stop,omitempty"` // string or []string
	Stream              *bool           `json:"stream,omitempty"`
	StreamOptions       *StreamOptions  `json:"stream_options,omitempty"`
	Seed                *int            `json:"seed,omitempty"`
	User                string          `json:"user,omitempty"`
	ResponseFormat      *ResponseFormat `json:"response_format,omitempty"`

	// Tool calling
	Tools      []ChatTool  `json:"tools,omitempty"`
	ToolChoice interface{} `json:"tool_choice,omitempty"` // "auto", "none", "required", or object
}

// ChatMessage is a single conversation turn
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// StreamOptions controls the behavior of streaming responses
type StreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// ResponseFormat requests a particular output format, e.g. {"type": "json_object"}
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatTool describes a tool the model may call
type ChatTool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction describes a callable function exposed as a tool
type ToolFunction struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  interface{} `json:"parameters,omitempty"`
}

/*
	CHAT COMPLETIONS API - OUTPUT
*/

// ChatCompletionResponse represents the /v1/chat/completions response format.
// The ID identifies the completion and can be used to attach signals to it.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice is a single completion alternative
type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ToolCall is a model-initiated function invocation
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction carries the name and serialized arguments of a tool call
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Usage reports token consumption for a completion
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

/*
	CHAT COMPLETIONS API - STREAMING
*/

// ChatCompletionChunk is a single SSE event of a streaming completion
type ChatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
	Usage   *Usage        `json:"usage,omitempty"`
}

// ChunkChoice is a single choice delta within a streaming chunk
type ChunkChoice struct {
	Index        int        `json:"index"`
	Delta        ChunkDelta `json:"delta"`
	FinishReason string     `json:"finish_reason,omitempty"`
}

// ChunkDelta carries the incremental part of the message
type ChunkDelta struct {
	Role      string     `json:"role,omitempty"`
	Content   string     `json:"content,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

/*
	MODELS API
*/

// Model describes a model available through the gateway
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
}

// ModelList is the /v1/models and /proxy/models response format
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}
