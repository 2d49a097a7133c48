package jobs

import "peerprep/interview/internal/interview"

func startInput(name string) interview.StartInput {
	return interview.StartInput{
		Candidate: interview.Candidate{Name: name, Role: "SRE"},
		Pacing:    interview.Pacing{Mode: interview.ModeTurns, Limit: 3},
	}
}
