package interview

import "context"

// EvaluationRequest is one answer to be scored
type EvaluationRequest struct {
	Question      string
	Answer        string
	Area          string
	Tier          Tier
	Role          string
	Channel       Channel
	AllowFollowUp bool
}

// Evaluation is the scored result of one answer
type Evaluation struct {
	Score         int
	Feedback      string
	Filler        string
	NeedsFollowUp bool
}

// FallbackEvaluation is used whenever the evaluator fails
func FallbackEvaluation() Evaluation {
	return Evaluation{Score: 0, Feedback: "Evaluation Error", Filler: "Okay."}
}

// Evaluator scores an answer. Implementations should return FallbackEvaluation
// alongside any error.
type Evaluator interface {
	Evaluate(ctx context.Context, req EvaluationRequest) (Evaluation, error)
}

// PoolRequest asks a question source for a starting pool
type PoolRequest struct {
	Candidate   Candidate
	Count       int
	ResumeCount int
}

// QuestionSource supplies the starting pool and contextual follow-ups
type QuestionSource interface {
	GeneratePool(ctx context.Context, req PoolRequest) ([]Question, error)
	FollowUp(ctx context.Context, prev Exchange, role string) (string, error)
}

// ReportRequest is everything a report writer may look at
type ReportRequest struct {
	Candidate    Candidate
	Introduction string
	Transcript   []TurnRecord
}

// Reporter turns a transcript into narrative report details
type Reporter interface {
	WriteReport(ctx context.Context, req ReportRequest) (*ReportDetails, error)
}

// Store persists sessions by id with read-your-writes consistency.
// Get returns ErrSessionNotFound for unknown or expired ids.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Locker serialises submissions per session. TryLock never waits: it returns
// ErrSubmissionInProgress when the session is already locked.
type Locker interface {
	TryLock(ctx context.Context, id string) (unlock func(), err error)
}

// Archiver keeps ended sessions after the store forgets them
type Archiver interface {
	Archive(ctx context.Context, s *Session) error
}

// Observer receives lifecycle events, typically for metrics
type Observer interface {
	SessionStarted(mode PacingMode)
	TurnRecorded(phase Phase, tier Tier, score int)
	SessionEnded(reason EndReason)
	FallbackUsed(capability string)
}

type nopObserver struct{}

func (nopObserver) SessionStarted(PacingMode)     {}
func (nopObserver) TurnRecorded(Phase, Tier, int) {}
func (nopObserver) SessionEnded(EndReason)        {}
func (nopObserver) FallbackUsed(string)           {}
