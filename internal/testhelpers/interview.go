package testhelpers

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap"

	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/store"
)

// Epoch is the start time used by FixedClock
var Epoch = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// StubEvaluator gives every answer the same score
type StubEvaluator struct {
	Score    int
	FollowUp bool
	Err      error
}

func (e *StubEvaluator) Evaluate(_ context.Context, req interview.EvaluationRequest) (interview.Evaluation, error) {
	if e.Err != nil {
		return interview.FallbackEvaluation(), e.Err
	}
	return interview.Evaluation{
		Score:         e.Score,
		Feedback:      "Solid answer.",
		Filler:        "Got it.",
		NeedsFollowUp: e.FollowUp && req.AllowFollowUp,
	}, nil
}

// StubSource serves Pool (DefaultPool when nil) and a fixed follow-up
type StubSource struct {
	Pool []interview.Question
	Err  error
}

func (s *StubSource) GeneratePool(context.Context, interview.PoolRequest) ([]interview.Question, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Pool == nil {
		return DefaultPool(), nil
	}
	return s.Pool, nil
}

func (s *StubSource) FollowUp(context.Context, interview.Exchange, string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return "Can you give a concrete example?", nil
}

type StubReporter struct {
	Err error
}

func (r *StubReporter) WriteReport(context.Context, interview.ReportRequest) (*interview.ReportDetails, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return &interview.ReportDetails{
		Summary:             "Good interview.",
		CommunicationRating: 7,
		TechnicalRating:     6,
		CultureFitRating:    8,
		Strengths:           []string{"Clear communication"},
		AreasForImprovement: []string{"More depth"},
	}, nil
}

// DefaultPool has two questions per tier
func DefaultPool() []interview.Question {
	return []interview.Question{
		{Text: "Explain a hash map.", Area: "Technical", Tier: interview.TierEasy},
		{Text: "Describe a time you helped a teammate.", Area: "Behavioral", Tier: interview.TierEasy},
		{Text: "Design a rate limiter.", Area: "Technical", Tier: interview.TierMedium},
		{Text: "Tell me about a disagreement at work.", Area: "Behavioral", Tier: interview.TierMedium},
		{Text: "Design a distributed queue.", Area: "Technical", Tier: interview.TierHard},
		{Text: "Describe leading a failing project.", Area: "Behavioral", Tier: interview.TierHard},
	}
}

// NewController builds a deterministic controller over stubs. Extra options
// are applied last.
func NewController(st interview.Store, opts ...interview.Option) *interview.Controller {
	base := []interview.Option{
		interview.WithRand(rand.New(rand.NewSource(1))),
		interview.WithClock(func() time.Time { return Epoch }),
	}
	return interview.NewController(st, &StubEvaluator{Score: 60}, &StubSource{}, &StubReporter{}, zap.NewNop(), append(base, opts...)...)
}

// EndedSession runs a turn-count interview with one turn per answer and
// returns the ended session
func EndedSession(t *testing.T, name string, answers ...string) *interview.Session {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore(0)
	ctrl := NewController(st)

	started, err := ctrl.Start(ctx, interview.StartInput{
		Candidate: interview.Candidate{Name: name, Role: "Backend Engineer"},
		Pacing:    interview.Pacing{Mode: interview.ModeTurns, Limit: len(answers)},
	})
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if _, err := ctrl.SubmitAnswer(ctx, started.SessionID, interview.AnswerInput{Answer: "I build APIs."}); err != nil {
		t.Fatalf("intro submission error: %v", err)
	}
	for _, a := range answers {
		if _, err := ctrl.SubmitAnswer(ctx, started.SessionID, interview.AnswerInput{Answer: a}); err != nil {
			t.Fatalf("SubmitAnswer error: %v", err)
		}
	}

	s, err := st.Get(ctx, started.SessionID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !s.IsEnded() {
		t.Fatalf("expected session to have ended")
	}
	return s
}
