package prompts

import (
	"strings"
	"testing"
)

func TestPromptManagerBuildPrompt(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager error: %v", err)
	}

	data := map[string]interface{}{
		"Role":          "Backend Engineer",
		"Area":          "Technical",
		"Difficulty":    "medium",
		"Question":      "What is a goroutine?",
		"Answer":        "A lightweight thread",
		"AllowFollowUp": false,
	}
	prompt, err := pm.BuildPrompt("evaluate", "voice", data)
	if err != nil {
		t.Fatalf("BuildPrompt error: %v", err)
	}

	if !containsAll(prompt, []string{"Backend Engineer", "What is a goroutine?", "A lightweight thread", "read aloud", "already asked"}) {
		t.Fatalf("prompt did not contain expected values: %s", prompt)
	}

	if _, err := pm.BuildPrompt("unknown", "chat", data); err == nil {
		t.Fatalf("expected error for unknown mode")
	}

	if _, err := pm.BuildPrompt("evaluate", "missing", data); err == nil {
		t.Fatalf("expected error for missing variant")
	}
}

func TestPromptManagerFollowUpAllowedOmitsRestriction(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager error: %v", err)
	}
	prompt, err := pm.BuildPrompt("evaluate", "chat", map[string]interface{}{
		"Role": "SRE", "Area": "Behavioral", "Difficulty": "easy",
		"Question": "q", "Answer": "a", "AllowFollowUp": true,
	})
	if err != nil {
		t.Fatalf("BuildPrompt error: %v", err)
	}
	if strings.Contains(prompt, "already asked") {
		t.Fatalf("did not expect follow-up restriction: %s", prompt)
	}
}

func TestPromptManagerMissingField(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager error: %v", err)
	}
	if _, err := pm.BuildPrompt("followup", "default", map[string]interface{}{"Role": "SRE"}); err == nil {
		t.Fatal("expected error when template data is incomplete")
	}
}

func TestPromptManagerLoadsAllTemplates(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager error: %v", err)
	}
	templates := pm.GetTemplates()
	expected := map[string][]string{
		"evaluate":  {"chat", "voice"},
		"questions": {"general", "resume"},
		"followup":  {"default"},
		"report":    {"default"},
	}
	for mode, variants := range expected {
		for _, v := range variants {
			if templates[mode][v] == nil {
				t.Fatalf("expected template %s/%s to be loaded", mode, v)
			}
		}
	}
}

func containsAll(haystack string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
