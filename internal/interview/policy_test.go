package interview

import (
	"testing"
	"time"
)

func introduced(s *Session) *Session {
	now := s.StartedAt()
	if _, err := s.pose(PendingQuestion{Text: IntroQuestion, Phase: PhaseIntro, Tier: TierEasy, AskedAt: now}); err != nil {
		panic(err)
	}
	if _, err := s.resolve("hi", Outcome{}); err != nil {
		panic(err)
	}
	return s
}

func TestPolicyStartsWithIntro(t *testing.T) {
	s := newTestSession(Pacing{Mode: ModeTurns, Limit: 2})
	d := NewPolicy(DefaultClosingWindow).Next(s, s.StartedAt())
	if d.Phase != PhaseIntro {
		t.Fatalf("expected intro, got %s", d.Phase)
	}
}

func TestPolicyPrefersCurrentTierThenFallbackOrder(t *testing.T) {
	p := NewPolicy(DefaultClosingWindow)
	s := introduced(newTestSession(Pacing{Mode: ModeTurns, Limit: 5}))

	if d := p.Next(s, s.StartedAt()); d.Phase != PhaseMain || d.Tier != TierEasy {
		t.Fatalf("expected main at easy, got %+v", d)
	}

	s.pools[TierEasy] = nil
	if d := p.Next(s, s.StartedAt()); d.Tier != TierMedium {
		t.Fatalf("expected medium fallback, got %s", d.Tier)
	}

	s.pools[TierMedium] = nil
	if d := p.Next(s, s.StartedAt()); d.Tier != TierHard {
		t.Fatalf("expected hard fallback, got %s", d.Tier)
	}

	s.tier = TierHard
	s.pools[TierHard] = nil
	s.pools[TierEasy] = []Question{{Text: "q", Tier: TierEasy}}
	if d := p.Next(s, s.StartedAt()); d.Tier != TierEasy {
		t.Fatalf("expected easy as last fallback, got %s", d.Tier)
	}
}

func TestPolicyDepletion(t *testing.T) {
	s := introduced(newTestSession(Pacing{Mode: ModeTurns, Limit: 10}))
	for _, tier := range Tiers {
		s.pools[tier] = nil
	}
	d := NewPolicy(DefaultClosingWindow).Next(s, s.StartedAt())
	if !d.Done() || d.Reason != EndPoolDepleted {
		t.Fatalf("expected depletion end, got %+v", d)
	}
}

func TestPolicyTurnLimitWaitsForFollowUpDetour(t *testing.T) {
	p := NewPolicy(DefaultClosingWindow)
	s := introduced(newTestSession(Pacing{Mode: ModeTurns, Limit: 1}))
	now := s.StartedAt()

	if _, err := s.askMain(TierEasy, fixedPick, now); err != nil {
		t.Fatal(err)
	}
	if _, err := s.resolve("vague", Outcome{Scored: true, Score: 50, NeedsFollowUp: true}); err != nil {
		t.Fatal(err)
	}
	if d := p.Next(s, now); d.Phase != PhaseFollowUp || d.Tier != TierEasy {
		t.Fatalf("expected follow-up at easy, got %+v", d)
	}

	if _, err := s.pose(PendingQuestion{Text: "Example?", Phase: PhaseFollowUp, Tier: TierEasy}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.resolve("here", Outcome{Scored: true, Score: 50}); err != nil {
		t.Fatal(err)
	}
	if d := p.Next(s, now); d.Phase != PhaseConfirmation {
		t.Fatalf("expected confirmation after follow-up, got %+v", d)
	}

	if _, err := s.pose(PendingQuestion{Text: ConfirmationQuestion, Phase: PhaseConfirmation, Tier: TierEasy}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.resolve("yes", Outcome{}); err != nil {
		t.Fatal(err)
	}
	if d := p.Next(s, now); !d.Done() || d.Reason != EndTurnLimit {
		t.Fatalf("expected turn limit end, got %+v", d)
	}
}

func TestPolicyTimeChecksOverrideFollowUp(t *testing.T) {
	p := NewPolicy(DefaultClosingWindow)
	s := introduced(newTestSession(Pacing{Mode: ModeTime, Limit: 10}))
	start := s.StartedAt()

	if _, err := s.askMain(TierEasy, fixedPick, start); err != nil {
		t.Fatal(err)
	}
	if _, err := s.resolve("vague", Outcome{Scored: true, Score: 50, NeedsFollowUp: true}); err != nil {
		t.Fatal(err)
	}

	if d := p.Next(s, start.Add(5*time.Minute)); d.Phase != PhaseFollowUp {
		t.Fatalf("expected follow-up with plenty of time, got %+v", d)
	}
	if d := p.Next(s, start.Add(9*time.Minute+30*time.Second)); !d.Done() || d.Reason != EndClosingWindow {
		t.Fatalf("expected closing window end, got %+v", d)
	}
	if d := p.Next(s, start.Add(10*time.Minute)); !d.Done() || d.Reason != EndTimeUp {
		t.Fatalf("expected time up, got %+v", d)
	}
}

func TestPolicyClosingWindowDisabled(t *testing.T) {
	s := introduced(newTestSession(Pacing{Mode: ModeTime, Limit: 10}))
	d := Policy{}.Next(s, s.StartedAt().Add(9*time.Minute+59*time.Second))
	if d.Phase != PhaseMain {
		t.Fatalf("expected main question without a closing window, got %+v", d)
	}
}

func TestNewPolicyRejectsBadFraction(t *testing.T) {
	if p := NewPolicy(1.5); p.ClosingWindow != DefaultClosingWindow {
		t.Fatalf("expected default closing window, got %v", p.ClosingWindow)
	}
	if p := NewPolicy(0.2); p.ClosingWindow != 0.2 {
		t.Fatalf("expected 0.2, got %v", p.ClosingWindow)
	}
}
