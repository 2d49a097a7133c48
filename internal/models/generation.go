package models

// GenerationRequest is a single prompt sent to an LLM provider
type GenerationRequest struct {
	Prompt      string
	RequestID   string
	JSON        bool     // ask the provider for a JSON response body
	Temperature *float32 // nil keeps the provider default
}

// GenerationResponse is what a provider returns for a prompt
type GenerationResponse struct {
	Content   string             `json:"content"`
	RequestID string             `json:"request_id"`
	Metadata  GenerationMetadata `json:"metadata"`
}

// additional information about the generation
type GenerationMetadata struct {
	ProcessingTime int    `json:"processing_time_ms"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
}
