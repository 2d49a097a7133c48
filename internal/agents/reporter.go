package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/prompts"
	"peerprep/interview/internal/schemas"
)

const silenceLabel = "[No Response / Silence]"

// ReportWriter writes the narrative part of the final report
type ReportWriter struct {
	agent
}

func NewReportWriter(provider llm.Provider, pm prompts.PromptProvider, logger *zap.Logger) *ReportWriter {
	return &ReportWriter{agent: newAgent(provider, pm, logger)}
}

type reportPrompt struct {
	Name         string
	Role         string
	Introduction string
	Transcript   string
}

type rawReport struct {
	Summary             string   `json:"summary"`
	CommunicationRating float64  `json:"communication_rating"`
	TechnicalRating     float64  `json:"technical_rating"`
	CultureFitRating    float64  `json:"culture_fit_rating"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	TranscriptAnalysis  []struct {
		Question               string  `json:"question"`
		Feedback               string  `json:"feedback"`
		RelevanceScore         float64 `json:"relevance_score"`
		ClarityScore           float64 `json:"clarity_score"`
		TechnicalAccuracyScore float64 `json:"technical_accuracy_score"`
		OverallScore           float64 `json:"overall_score"`
	} `json:"transcript_analysis"`
}

func (w *ReportWriter) WriteReport(ctx context.Context, req interview.ReportRequest) (*interview.ReportDetails, error) {
	var raw rawReport
	err := w.generateJSON(ctx, "report", "default", reportPrompt{
		Name:         req.Candidate.Name,
		Role:         req.Candidate.Role,
		Introduction: req.Introduction,
		Transcript:   FormatTranscript(req.Transcript),
	}, schemas.Report, &raw)
	if err != nil {
		return nil, err
	}

	d := &interview.ReportDetails{
		Summary:             strings.TrimSpace(raw.Summary),
		CommunicationRating: roundClamp(raw.CommunicationRating, 0, 10),
		TechnicalRating:     roundClamp(raw.TechnicalRating, 0, 10),
		CultureFitRating:    roundClamp(raw.CultureFitRating, 0, 10),
		Strengths:           raw.Strengths,
		AreasForImprovement: raw.AreasForImprovement,
	}
	for _, a := range raw.TranscriptAnalysis {
		d.TranscriptAnalysis = append(d.TranscriptAnalysis, interview.TurnAnalysis{
			Question:               a.Question,
			Feedback:               a.Feedback,
			RelevanceScore:         roundClamp(a.RelevanceScore, 0, 10),
			ClarityScore:           roundClamp(a.ClarityScore, 0, 10),
			TechnicalAccuracyScore: roundClamp(a.TechnicalAccuracyScore, 0, 10),
			OverallScore:           roundClamp(a.OverallScore, 0, 10),
		})
	}
	return d, nil
}

// FormatTranscript renders turns as the plain-text transcript the report prompt expects
func FormatTranscript(turns []interview.TurnRecord) string {
	var sb strings.Builder
	for i, t := range turns {
		answer := strings.TrimSpace(t.Answer)
		if t.NoResponse() {
			answer = silenceLabel
		}
		kind := t.Area
		if t.FollowUp {
			kind = interview.AreaFollowUp
		}
		fmt.Fprintf(&sb, "%d. [%s, %s] Interviewer: %s\n", i+1, kind, t.Difficulty, t.Question)
		fmt.Fprintf(&sb, "   Candidate: %s\n", answer)
	}
	return strings.TrimRight(sb.String(), "\n")
}
