package interview

import "fmt"

const (
	IntroQuestion        = "Tell me about yourself."
	ConfirmationQuestion = "Thank you for that clarification. Should we move to the next question?"
	FallbackFollowUp     = "Could you walk me through a specific example of that?"

	introFiller        = "Thank you for the introduction."
	confirmationFiller = "Great, let's continue."
	skipFeedback       = "Skipped."
	skipFiller         = "Okay, moving on."

	timeUpMessage        = "Thank you for your time today. This concludes our interview. Goodbye!"
	closingWindowMessage = "We're out of time. Thank you so much for your responses today. This concludes the interview."
	completeClosing      = "That concludes our interview. Thank you."
	completeMessage      = "Interview Complete."
	alreadyEndedMessage  = "The interview has already concluded. Thank you."
)

// FallbackPool is used when the question source fails or returns nothing usable
func FallbackPool() []Question {
	return []Question{{Text: "What are your strengths?", Area: "Behavioral", Tier: TierEasy}}
}

func greeting(s *Session) string {
	c := s.candidate
	if s.pacing.Mode == ModeTime {
		return fmt.Sprintf("Hello %s, thank you for joining me. This is a %d-minute timed interview for the %s position. We'll begin now.", c.Name, s.pacing.Limit, c.Role)
	}
	g := fmt.Sprintf("Hello %s.", c.Name)
	if c.Resume != "" {
		g += " I've reviewed your resume."
	}
	return g + " Let's start."
}

// closingFor returns the filler and message shown when a session ends with reason r
func closingFor(r EndReason, filler string) (string, string) {
	switch r {
	case EndTimeUp:
		return filler, timeUpMessage
	case EndClosingWindow:
		return filler, closingWindowMessage
	}
	if filler == "" {
		return completeClosing, completeMessage
	}
	return filler + " " + completeClosing, completeMessage
}
