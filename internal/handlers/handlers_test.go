package handlers

import (
	"context"
	"text/template"

	"peerprep/interview/internal/history"
	"peerprep/interview/internal/models"
)

type mockProvider struct {
	generateContentFn func(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error)
	getProviderNameFn func() string
}

func (m *mockProvider) GenerateContent(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error) {
	if m.generateContentFn == nil {
		return &models.GenerationResponse{}, nil
	}
	return m.generateContentFn(ctx, req)
}

func (m *mockProvider) GetProviderName() string {
	if m.getProviderNameFn == nil {
		return "mock"
	}
	return m.getProviderNameFn()
}

type mockPromptManager struct {
	buildPromptFn  func(mode, variant string, data interface{}) (string, error)
	getTemplatesFn func() map[string]map[string]*template.Template
}

func (m *mockPromptManager) BuildPrompt(mode, variant string, data interface{}) (string, error) {
	if m.buildPromptFn == nil {
		return "mock prompt", nil
	}
	return m.buildPromptFn(mode, variant, data)
}

func (m *mockPromptManager) GetTemplates() map[string]map[string]*template.Template {
	if m.getTemplatesFn == nil {
		return map[string]map[string]*template.Template{
			"evaluate": {
				"chat": template.Must(template.New("test").Parse("test")),
			},
		}
	}
	return m.getTemplatesFn()
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

type mockHistory struct {
	records []models.InterviewRecord
	byID    map[string]*models.InterviewRecord
	stats   map[string]interface{}
	err     error

	lastCandidate string
	lastLimit     int
}

func (m *mockHistory) List(_ context.Context, candidate string, limit int) ([]models.InterviewRecord, error) {
	m.lastCandidate = candidate
	m.lastLimit = limit
	return m.records, m.err
}

func (m *mockHistory) Get(_ context.Context, sessionID string) (*models.InterviewRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.byID[sessionID]
	if !ok {
		return nil, history.ErrNotFound
	}
	return rec, nil
}

func (m *mockHistory) Stats(context.Context) (map[string]interface{}, error) {
	return m.stats, m.err
}
