// Package agents implements the interview capabilities (answer evaluation,
// question generation and report writing) on top of an LLM provider.
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/prompts"
	"peerprep/interview/internal/schemas"
	"peerprep/interview/internal/utils"
)

// agent holds what every capability needs to talk to the model
type agent struct {
	provider llm.Provider
	prompts  prompts.PromptProvider
	logger   *zap.Logger
}

func newAgent(provider llm.Provider, pm prompts.PromptProvider, logger *zap.Logger) agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return agent{provider: provider, prompts: pm, logger: logger}
}

func (a agent) generate(ctx context.Context, mode, variant string, data interface{}, asJSON bool) (*models.GenerationResponse, error) {
	prompt, err := a.prompts.BuildPrompt(mode, variant, data)
	if err != nil {
		return nil, fmt.Errorf("build %s prompt: %w", mode, err)
	}

	requestID := uuid.NewString()
	resp, err := a.provider.GenerateContent(ctx, &models.GenerationRequest{
		Prompt:    prompt,
		RequestID: requestID,
		JSON:      asJSON,
	})
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Model call completed",
		zap.String("request_id", requestID),
		zap.String("mode", mode),
		zap.String("variant", variant),
		zap.String("provider", a.provider.GetProviderName()),
		zap.Int("processing_time_ms", resp.Metadata.ProcessingTime))
	return resp, nil
}

// generateJSON renders a prompt, validates the model's JSON against schema and decodes it into out
func (a agent) generateJSON(ctx context.Context, mode, variant string, data interface{}, schema string, out interface{}) error {
	resp, err := a.generate(ctx, mode, variant, data, true)
	if err != nil {
		return err
	}

	payload := []byte(utils.ExtractJSONObject(resp.Content))
	if err := schemas.Validate(schema, payload); err != nil {
		a.logger.Warn("Model returned invalid JSON",
			zap.String("mode", mode),
			zap.String("content", utils.TruncateForLog(resp.Content)),
			zap.Error(err))
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s response: %w", mode, err)
	}
	return nil
}

func roundClamp(v float64, lo, hi int) int {
	n := int(math.Round(v))
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
