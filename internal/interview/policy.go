package interview

import "time"

// DefaultClosingWindow is the share of a time budget reserved for the closing statement
const DefaultClosingWindow = 0.10

// Decision is what the policy wants to happen next
type Decision struct {
	Phase  Phase
	Tier   Tier
	Reason EndReason
}

func (d Decision) Done() bool { return d.Phase == PhaseDone }

// Policy decides the next phase from a session snapshot. It never mutates the session.
type Policy struct {
	// ClosingWindow ends time-bounded sessions once less than this fraction of
	// the budget remains. Zero disables the window.
	ClosingWindow float64
}

// NewPolicy clamps the closing window into [0, 1)
func NewPolicy(closingWindow float64) Policy {
	if closingWindow < 0 || closingWindow >= 1 {
		closingWindow = DefaultClosingWindow
	}
	return Policy{ClosingWindow: closingWindow}
}

// Next returns the next phase for s at time now.
//
// The time checks come before the follow-up detour so the closing window
// overrides owed follow-ups and confirmations. The turn limit comes after
// it so an owed follow-up and its confirmation finish first.
func (p Policy) Next(s *Session, now time.Time) Decision {
	if s.ended {
		return Decision{Phase: PhaseDone, Reason: s.endReason}
	}
	if !s.introDone {
		return Decision{Phase: PhaseIntro, Tier: TierEasy}
	}

	if s.pacing.Mode == ModeTime {
		remaining := s.RemainingTime(now)
		if remaining <= 0 {
			return Decision{Phase: PhaseDone, Reason: EndTimeUp}
		}
		window := time.Duration(float64(s.pacing.Budget()) * p.ClosingWindow)
		if remaining < window {
			return Decision{Phase: PhaseDone, Reason: EndClosingWindow}
		}
	}

	if s.lastPhase == PhaseFollowUp {
		return Decision{Phase: PhaseConfirmation, Tier: s.tier}
	}
	if s.followUpOwed && s.previous != nil {
		return Decision{Phase: PhaseFollowUp, Tier: s.previous.Tier}
	}

	if s.pacing.Mode == ModeTurns && s.turnsAsked >= s.pacing.Limit {
		return Decision{Phase: PhaseDone, Reason: EndTurnLimit}
	}

	tier, ok := s.nextTier()
	if !ok {
		return Decision{Phase: PhaseDone, Reason: EndPoolDepleted}
	}
	return Decision{Phase: PhaseMain, Tier: tier}
}
