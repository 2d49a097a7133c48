package handlers

import (
	"context"
	"net/http"
	"time"

	"peerprep/interview/internal/config"
	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/prompts"
	"peerprep/interview/internal/utils"
)

const storePingTimeout = 2 * time.Second

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"`  // "ready" | "not_ready"
	Service string                    `json:"service"` // Service name
	Checks  map[string]ReadinessCheck `json:"checks"`  // Individual check results
}

// Pinger is implemented by session stores that can report connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	provider      llm.Provider
	promptManager prompts.PromptProvider
	config        *config.Config
	store         Pinger
}

func NewHealthHandler(provider llm.Provider, promptManager prompts.PromptProvider, cfg *config.Config, store Pinger) *HealthHandler {
	return &HealthHandler{
		provider:      provider,
		promptManager: promptManager,
		config:        cfg,
		store:         store,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "interview",
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	record := func(name string, failure string) {
		if failure != "" {
			checks[name] = ReadinessCheck{Status: "failed", Message: failure}
			allChecksPass = false
			return
		}
		checks[name] = ReadinessCheck{Status: "ok"}
	}

	if handler.provider == nil {
		record("provider", "AI provider not initialized")
	} else {
		record("provider", "")
	}

	switch {
	case handler.promptManager == nil:
		record("prompt_manager", "Prompt manager not initialized")
	case len(handler.promptManager.GetTemplates()) == 0:
		record("prompt_manager", "No prompt templates loaded")
	default:
		record("prompt_manager", "")
	}

	if handler.config == nil {
		record("configuration", "Configuration not loaded")
	} else {
		record("configuration", "")
	}

	if handler.store == nil {
		record("session_store", "Session store not initialized")
	} else {
		ctx, cancel := context.WithTimeout(request.Context(), storePingTimeout)
		err := handler.store.Ping(ctx)
		cancel()
		if err != nil {
			record("session_store", "Session store unreachable: "+err.Error())
		} else {
			record("session_store", "")
		}
	}

	response := ReadinessResponse{
		Service: "interview",
		Checks:  checks,
	}

	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}
