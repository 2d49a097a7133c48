package interview

import (
	"context"
	"strings"
	"time"
)

const (
	insufficientSummary = "Insufficient responses provided."
	failedSummary       = "Error analyzing interview transcript."
	noResponseFeedback  = "No response provided."
	maxRating           = 10
)

// TurnAnalysis is the per-question breakdown of a report
type TurnAnalysis struct {
	Question               string `json:"question"`
	Feedback               string `json:"feedback"`
	RelevanceScore         int    `json:"relevance_score"`
	ClarityScore           int    `json:"clarity_score"`
	TechnicalAccuracyScore int    `json:"technical_accuracy_score"`
	OverallScore           int    `json:"overall_score"`
	NoResponse             bool   `json:"no_response"`
}

// ReportDetails is the narrative part of a report. Ratings are 0-10.
type ReportDetails struct {
	Summary             string         `json:"summary"`
	CommunicationRating int            `json:"communication_rating"`
	TechnicalRating     int            `json:"technical_rating"`
	CultureFitRating    int            `json:"culture_fit_rating"`
	Strengths           []string       `json:"strengths"`
	AreasForImprovement []string       `json:"areas_for_improvement"`
	TranscriptAnalysis  []TurnAnalysis `json:"transcript_analysis"`
}

// Report is built once from the full transcript when the interview ends
// and kept on the ended session
type Report struct {
	SessionID    string        `json:"session_id"`
	Candidate    string        `json:"candidate"`
	Role         string        `json:"role"`
	Details      ReportDetails `json:"details"`
	Transcript   []TurnRecord  `json:"transcript"`
	Scores       []int         `json:"scores"`
	AverageScore float64       `json:"average_score"`
	TurnsByTier  map[Tier]int  `json:"turns_by_tier"`
	Answered     int           `json:"answered"`
	Degraded     bool          `json:"degraded"`
	EndReason    EndReason     `json:"end_reason,omitempty"`
	GeneratedAt  time.Time     `json:"generated_at"`
}

// BuildReport assembles the report for s. The returned report is never nil;
// a non-nil error means the reporter failed and a degraded report was used.
func BuildReport(ctx context.Context, reporter Reporter, s *Session, now time.Time) (*Report, error) {
	transcript := s.Transcript()
	rep := &Report{
		SessionID:    s.id,
		Candidate:    s.candidate.Name,
		Role:         s.candidate.Role,
		Transcript:   transcript,
		Scores:       s.Scores(),
		AverageScore: s.AverageScore(),
		TurnsByTier:  make(map[Tier]int, len(Tiers)),
		EndReason:    s.endReason,
		GeneratedAt:  now,
	}
	for _, t := range transcript {
		rep.TurnsByTier[t.Difficulty]++
		if !t.NoResponse() {
			rep.Answered++
		}
	}

	if rep.Answered == 0 {
		rep.Degraded = true
		rep.Details = degradedDetails(insufficientSummary, []string{"N/A"}, []string{"Interview was not completed"}, transcript)
		return rep, nil
	}

	details, err := reporter.WriteReport(ctx, ReportRequest{
		Candidate:    s.candidate,
		Introduction: s.introduction,
		Transcript:   transcript,
	})
	if err != nil || details == nil {
		rep.Degraded = true
		rep.Details = degradedDetails(failedSummary, []string{"Analysis failed"}, []string{"Please try again"}, transcript)
		return rep, err
	}

	d := *details
	d.CommunicationRating = clampRating(d.CommunicationRating)
	d.TechnicalRating = clampRating(d.TechnicalRating)
	d.CultureFitRating = clampRating(d.CultureFitRating)
	d.TranscriptAnalysis = alignAnalysis(d.TranscriptAnalysis, transcript)
	if d.Strengths == nil {
		d.Strengths = []string{}
	}
	if d.AreasForImprovement == nil {
		d.AreasForImprovement = []string{}
	}
	rep.Details = d
	return rep, nil
}

func degradedDetails(summary string, strengths, improvements []string, transcript []TurnRecord) ReportDetails {
	return ReportDetails{
		Summary:             summary,
		Strengths:           strengths,
		AreasForImprovement: improvements,
		TranscriptAnalysis:  alignAnalysis(nil, transcript),
	}
}

// alignAnalysis produces exactly one analysis entry per transcript turn.
// Writer entries are claimed by exact question text first. A turn left
// unmatched may then take the entry at its own position, unless that entry
// names another turn's question. Entries that match no turn are discarded.
// Turns without a real answer are always flagged and zeroed whatever the
// writer said.
func alignAnalysis(written []TurnAnalysis, transcript []TurnRecord) []TurnAnalysis {
	keys := make([]string, len(transcript))
	for i, turn := range transcript {
		keys[i] = normalizeQuestion(turn.Question)
	}

	used := make([]bool, len(written))
	matched := make([]int, len(transcript))
	for i := range transcript {
		matched[i] = -1
		for j, w := range written {
			if !used[j] && normalizeQuestion(w.Question) == keys[i] {
				matched[i] = j
				used[j] = true
				break
			}
		}
	}

	for i := range transcript {
		if matched[i] >= 0 || i >= len(written) || used[i] {
			continue
		}
		if namesOtherTurn(normalizeQuestion(written[i].Question), keys, i) {
			continue
		}
		matched[i] = i
		used[i] = true
	}

	out := make([]TurnAnalysis, 0, len(transcript))
	for i, turn := range transcript {
		var a TurnAnalysis
		if matched[i] >= 0 {
			a = written[matched[i]]
		} else {
			a = TurnAnalysis{Feedback: turn.Feedback, OverallScore: turn.Score / 10}
		}
		a.Question = turn.Question
		a.RelevanceScore = clampRating(a.RelevanceScore)
		a.ClarityScore = clampRating(a.ClarityScore)
		a.TechnicalAccuracyScore = clampRating(a.TechnicalAccuracyScore)
		a.OverallScore = clampRating(a.OverallScore)

		if turn.NoResponse() {
			a = TurnAnalysis{Question: turn.Question, Feedback: noResponseFeedback, NoResponse: true}
		}
		out = append(out, a)
	}
	return out
}

func namesOtherTurn(key string, keys []string, self int) bool {
	for k, other := range keys {
		if k != self && other == key {
			return true
		}
	}
	return false
}

func normalizeQuestion(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

func clampRating(r int) int {
	if r < 0 {
		return 0
	}
	if r > maxRating {
		return maxRating
	}
	return r
}
