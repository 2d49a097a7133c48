package agents

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/prompts"
	"peerprep/interview/internal/schemas"
	"peerprep/interview/internal/utils"
)

const maxResumeContext = 2000

var ErrNoUsableQuestions = errors.New("model returned no usable questions")

// QuestionGenerator builds the starting pool and follow-ups with the model
type QuestionGenerator struct {
	agent
}

func NewQuestionGenerator(provider llm.Provider, pm prompts.PromptProvider, logger *zap.Logger) *QuestionGenerator {
	return &QuestionGenerator{agent: newAgent(provider, pm, logger)}
}

type questionsPrompt struct {
	Name            string
	Role            string
	Resume          string
	Count           int
	ResumeCount     int
	TechnicalCount  int
	BehavioralCount int
}

type rawQuestions struct {
	Questions []struct {
		Text       string `json:"text"`
		Area       string `json:"area"`
		Difficulty string `json:"difficulty"`
	} `json:"questions"`
}

type followUpPrompt struct {
	Role     string
	Question string
	Answer   string
}

// GeneratePool asks for req.Count questions. Missing difficulties become
// medium and unknown ones are dropped.
func (g *QuestionGenerator) GeneratePool(ctx context.Context, req interview.PoolRequest) ([]interview.Question, error) {
	rest := req.Count - req.ResumeCount
	data := questionsPrompt{
		Name:            req.Candidate.Name,
		Role:            req.Candidate.Role,
		Count:           req.Count,
		ResumeCount:     req.ResumeCount,
		TechnicalCount:  rest / 2,
		BehavioralCount: rest - rest/2,
	}
	variant := "general"
	if req.ResumeCount > 0 && req.Candidate.Resume != "" {
		variant = "resume"
		data.Resume = truncateRunes(req.Candidate.Resume, maxResumeContext)
	}

	var raw rawQuestions
	if err := g.generateJSON(ctx, "questions", variant, data, schemas.Questions, &raw); err != nil {
		return nil, err
	}

	out := make([]interview.Question, 0, len(raw.Questions))
	dropped := 0
	for _, q := range raw.Questions {
		text := strings.TrimSpace(q.Text)
		tier, ok := interview.ParseTier(q.Difficulty)
		if text == "" || !ok {
			dropped++
			continue
		}
		area := strings.TrimSpace(q.Area)
		if area == "" {
			area = "General"
		}
		out = append(out, interview.Question{Text: text, Area: area, Tier: tier})
	}
	if dropped > 0 {
		g.logger.Debug("Dropped generated questions", zap.Int("dropped", dropped), zap.Int("kept", len(out)))
	}
	if len(out) == 0 {
		return nil, ErrNoUsableQuestions
	}
	return out, nil
}

// FollowUp writes one probing question about the previous exchange
func (g *QuestionGenerator) FollowUp(ctx context.Context, prev interview.Exchange, role string) (string, error) {
	resp, err := g.generate(ctx, "followup", "default", followUpPrompt{
		Role:     role,
		Question: prev.Question,
		Answer:   prev.Answer,
	}, false)
	if err != nil {
		return "", err
	}

	text := strings.Trim(utils.StripFences(resp.Content), "\"' \n\t")
	if text == "" {
		return "", errors.New("model returned an empty follow-up")
	}
	return text, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
