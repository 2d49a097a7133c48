package agents

import (
	"context"
	"testing"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/prompts"
)

type mockProvider struct {
	content  string
	err      error
	requests []*models.GenerationRequest
}

func (m *mockProvider) GenerateContent(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &models.GenerationResponse{
		Content:   m.content,
		RequestID: req.RequestID,
		Metadata:  models.GenerationMetadata{Provider: "mock"},
	}, nil
}

func (m *mockProvider) GetProviderName() string { return "mock" }

func (m *mockProvider) lastPrompt(t *testing.T) string {
	t.Helper()
	if len(m.requests) == 0 {
		t.Fatalf("provider was not called")
	}
	return m.requests[len(m.requests)-1].Prompt
}

func newPrompts(t *testing.T) *prompts.PromptManager {
	t.Helper()
	pm, err := prompts.NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager error: %v", err)
	}
	return pm
}
