package agents

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/prompts"
	"peerprep/interview/internal/schemas"
)

// Evaluator scores answers with the model
type Evaluator struct {
	agent
}

func NewEvaluator(provider llm.Provider, pm prompts.PromptProvider, logger *zap.Logger) *Evaluator {
	return &Evaluator{agent: newAgent(provider, pm, logger)}
}

type evaluationPrompt struct {
	Role          string
	Area          string
	Difficulty    string
	Question      string
	Answer        string
	AllowFollowUp bool
}

type rawEvaluation struct {
	Score          float64 `json:"score"`
	Feedback       string  `json:"feedback"`
	Filler         string  `json:"filler"`
	ShouldFollowUp bool    `json:"should_follow_up"`
}

// Evaluate returns interview.FallbackEvaluation together with the error on any failure
func (e *Evaluator) Evaluate(ctx context.Context, req interview.EvaluationRequest) (interview.Evaluation, error) {
	variant := "chat"
	if req.Channel == interview.ChannelVoice {
		variant = "voice"
	}

	var raw rawEvaluation
	err := e.generateJSON(ctx, "evaluate", variant, evaluationPrompt{
		Role:          req.Role,
		Area:          req.Area,
		Difficulty:    string(req.Tier),
		Question:      req.Question,
		Answer:        req.Answer,
		AllowFollowUp: req.AllowFollowUp,
	}, schemas.Evaluation, &raw)
	if err != nil {
		return interview.FallbackEvaluation(), err
	}

	ev := interview.Evaluation{
		Score:         roundClamp(raw.Score, 0, 100),
		Feedback:      strings.TrimSpace(raw.Feedback),
		Filler:        strings.TrimSpace(raw.Filler),
		NeedsFollowUp: raw.ShouldFollowUp && req.AllowFollowUp,
	}
	if ev.Filler == "" {
		ev.Filler = "Okay."
	}
	return ev, nil
}
