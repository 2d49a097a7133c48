package llm

import (
	"context"
	"errors"
	"testing"

	"peerprep/interview/internal/models"
)

type testProvider struct{}

func (testProvider) GenerateContent(context.Context, *models.GenerationRequest) (*models.GenerationResponse, error) {
	return &models.GenerationResponse{Content: "ok"}, nil
}
func (testProvider) GetProviderName() string { return "test" }

func TestProviderErrorError(t *testing.T) {
	err := &ProviderError{Provider: "gemini", Message: "failed"}
	if err.Error() != "gemini error: failed" {
		t.Fatalf("unexpected error message: %s", err.Error())
	}

	cause := errors.New("detail")
	wrapped := &ProviderError{Provider: "gemini", Message: "failed", Err: cause}
	if got := wrapped.Error(); got != "gemini error: failed (detail)" {
		t.Fatalf("unexpected wrapped error message: %s", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("expected provider error to unwrap to its cause")
	}
}

func TestRegisterAndNewProvider(t *testing.T) {
	RegisterProvider("test_provider", func() (Provider, error) {
		return testProvider{}, nil
	})
	defer func() {
		mu.Lock()
		delete(providers, "test_provider")
		mu.Unlock()
	}()

	provider, err := NewProvider("test_provider")
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}
	if name := provider.GetProviderName(); name != "test" {
		t.Fatalf("expected provider name test, got %s", name)
	}

	found := false
	for _, name := range Providers() {
		if name == "test_provider" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected registered provider to be listed")
	}

	if _, err := NewProvider("missing"); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}
