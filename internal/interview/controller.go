package interview

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resumeQuestionCount = 4

// Controller runs interviews turn by turn. Sessions are loaded from the
// store, mutated on a private copy and saved back only when the turn completes.
type Controller struct {
	store     Store
	locker    Locker
	evaluator Evaluator
	source    QuestionSource
	reporter  Reporter
	archiver  Archiver
	observer  Observer
	policy    Policy
	bounds    Bounds
	now       func() time.Time
	newID     func() string
	logger    *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithRand(r *rand.Rand) Option {
	return func(c *Controller) { c.rng = r }
}

func WithLocker(l Locker) Option {
	return func(c *Controller) { c.locker = l }
}

func WithArchiver(a Archiver) Option {
	return func(c *Controller) { c.archiver = a }
}

func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

func WithPolicy(p Policy) Option {
	return func(c *Controller) { c.policy = p }
}

func WithBounds(b Bounds) Option {
	return func(c *Controller) { c.bounds = b }
}

func WithIDGenerator(gen func() string) Option {
	return func(c *Controller) { c.newID = gen }
}

func NewController(store Store, evaluator Evaluator, source QuestionSource, reporter Reporter, logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		locker:    NewLocalLocker(),
		evaluator: evaluator,
		source:    source,
		reporter:  reporter,
		observer:  nopObserver{},
		policy:    NewPolicy(DefaultClosingWindow),
		bounds:    DefaultBounds,
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

type StartInput struct {
	Candidate Candidate
	Pacing    Pacing
	Channel   Channel
}

type StartResult struct {
	SessionID string
	Message   string
	Question  PendingQuestion
	Pacing    Pacing
}

// AnswerInput is one submission. Seq is optional: zero skips the pending-question check.
type AnswerInput struct {
	Answer  string
	Silence bool
	Seq     int
}

type TurnResult struct {
	SessionID        string
	Ended            bool
	EndReason        EndReason
	Filler           string
	Message          string
	Question         *PendingQuestion
	RemainingSeconds *int
	Report           *Report
}

// Start creates a session, poses the introduction and saves it
func (c *Controller) Start(ctx context.Context, in StartInput) (*StartResult, error) {
	if err := in.Pacing.Validate(c.bounds); err != nil {
		return nil, err
	}
	cand := Candidate{
		Name:   strings.TrimSpace(in.Candidate.Name),
		Role:   strings.TrimSpace(in.Candidate.Role),
		Resume: strings.TrimSpace(in.Candidate.Resume),
	}

	req := PoolRequest{Candidate: cand, Count: in.Pacing.PoolSize()}
	if cand.Resume != "" {
		req.ResumeCount = min(resumeQuestionCount, req.Count)
	}
	pool, err := c.source.GeneratePool(ctx, req)
	if err != nil {
		c.logger.Warn("Question pool generation failed, using fallback pool", zap.Error(err))
		c.observer.FallbackUsed("question_pool")
		pool = FallbackPool()
	}

	now := c.now()
	s := NewSession(c.newID(), cand, in.Pacing, in.Channel, pool, now)
	if s.AllDepleted() {
		c.logger.Warn("Question pool had no usable questions, using fallback pool", zap.Int("generated", len(pool)))
		c.observer.FallbackUsed("question_pool")
		s = NewSession(s.id, cand, in.Pacing, in.Channel, FallbackPool(), now)
	}

	q, d, err := c.advance(ctx, s, now)
	if err != nil {
		return nil, err
	}
	if d.Phase != PhaseIntro {
		return nil, fmt.Errorf("new session opened with phase %s", d.Phase)
	}

	if err := c.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	c.observer.SessionStarted(in.Pacing.Mode)
	c.logger.Info("Interview started",
		zap.String("session_id", s.id),
		zap.String("mode", string(in.Pacing.Mode)),
		zap.Int("limit", in.Pacing.Limit),
		zap.Int("pool_size", len(pool)))

	return &StartResult{
		SessionID: s.id,
		Message:   greeting(s) + " " + q.Text,
		Question:  q,
		Pacing:    s.pacing,
	}, nil
}

// SubmitAnswer answers the pending question and returns the next one, or the
// closing message and report when the session ends. Concurrent submissions
// for the same session are rejected with ErrSubmissionInProgress.
func (c *Controller) SubmitAnswer(ctx context.Context, id string, in AnswerInput) (*TurnResult, error) {
	unlock, err := c.locker.TryLock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	s, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.IsEnded() {
		return &TurnResult{SessionID: id, Ended: true, EndReason: s.endReason, Message: alreadyEndedMessage, Report: s.report}, nil
	}

	pending, ok := s.Pending()
	if !ok {
		return nil, ErrNoPendingQuestion
	}
	if in.Seq != 0 && in.Seq != pending.Seq {
		return nil, fmt.Errorf("%w: pending question is %d, got %d", ErrOutOfOrder, pending.Seq, in.Seq)
	}

	answer := strings.TrimSpace(in.Answer)
	if in.Silence {
		answer = ""
	}

	if s.pacing.Mode == ModeTime && s.RemainingTime(c.now()) <= 0 {
		return c.finish(ctx, s, EndTimeUp, "", c.now())
	}

	outcome, filler := c.assess(ctx, s, pending, answer)
	if _, err := s.resolve(answer, outcome); err != nil {
		return nil, err
	}
	if outcome.Scored {
		c.observer.TurnRecorded(pending.Phase, pending.Tier, clampScore(outcome.Score))
	}

	now := c.now()
	next, d, err := c.advance(ctx, s, now)
	if err != nil {
		return nil, err
	}
	if d.Done() {
		return c.finish(ctx, s, d.Reason, filler, now)
	}

	if err := c.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	c.logger.Debug("Turn processed",
		zap.String("session_id", id),
		zap.String("answered_phase", string(pending.Phase)),
		zap.String("phase", string(next.Phase)),
		zap.String("tier", string(s.tier)),
		zap.Int("score", outcome.Score))

	return &TurnResult{
		SessionID:        id,
		Filler:           filler,
		Message:          next.Text,
		Question:         &next,
		RemainingSeconds: remainingSeconds(s, now),
	}, nil
}

// Status returns a read-only view of a session
func (c *Controller) Status(ctx context.Context, id string) (*Status, error) {
	s, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	st := s.Snapshot(c.now())
	return &st, nil
}

// Report returns the final report of an ended session, or builds a partial
// one from the transcript recorded so far
func (c *Controller) Report(ctx context.Context, id string) (*Report, error) {
	s, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep := s.FinalReport(); rep != nil {
		return rep, nil
	}
	rep, rerr := BuildReport(ctx, c.reporter, s, c.now())
	if rerr != nil {
		c.logger.Warn("Report generation failed, returning degraded report", zap.String("session_id", id), zap.Error(rerr))
		c.observer.FallbackUsed("report")
	}
	return rep, nil
}

// End expires a session immediately
func (c *Controller) End(ctx context.Context, id string) error {
	if _, err := c.store.Get(ctx, id); err != nil {
		return err
	}
	return c.store.Delete(ctx, id)
}

// assess scores an answer. Intro and confirmation answers are not scored and
// blank or skipped answers never reach the evaluator.
func (c *Controller) assess(ctx context.Context, s *Session, p PendingQuestion, answer string) (Outcome, string) {
	switch p.Phase {
	case PhaseIntro:
		// kept as context for the report; it never moves the tier or counts as a turn
		return Outcome{}, introFiller
	case PhaseConfirmation:
		return Outcome{}, confirmationFiller
	}
	if IsNoResponse(answer) {
		return Outcome{Scored: true, Score: 0, Feedback: skipFeedback}, skipFiller
	}

	ev, err := c.evaluator.Evaluate(ctx, EvaluationRequest{
		Question:      p.Text,
		Answer:        answer,
		Area:          p.Area,
		Tier:          p.Tier,
		Role:          s.candidate.Role,
		Channel:       s.channel,
		AllowFollowUp: p.Phase == PhaseMain,
	})
	if err != nil {
		c.logger.Warn("Answer evaluation failed, using fallback", zap.String("session_id", s.id), zap.Error(err))
		c.observer.FallbackUsed("evaluation")
		ev = FallbackEvaluation()
	}
	return Outcome{
		Scored:        true,
		Score:         clampScore(ev.Score),
		Feedback:      ev.Feedback,
		NeedsFollowUp: ev.NeedsFollowUp && p.Phase == PhaseMain,
	}, ev.Filler
}

// advance asks the policy what comes next and poses it. A done decision is
// returned without touching the session.
func (c *Controller) advance(ctx context.Context, s *Session, now time.Time) (PendingQuestion, Decision, error) {
	d := c.policy.Next(s, now)

	var (
		q   PendingQuestion
		err error
	)
	switch d.Phase {
	case PhaseDone:
		return PendingQuestion{}, d, nil
	case PhaseIntro:
		q, err = s.pose(PendingQuestion{Text: IntroQuestion, Area: AreaIntroduction, Tier: TierEasy, Phase: PhaseIntro, AskedAt: now})
	case PhaseMain:
		q, err = s.askMain(d.Tier, c.pick, now)
	case PhaseFollowUp:
		text := c.followUpText(ctx, s)
		q, err = s.pose(PendingQuestion{Text: text, Area: AreaFollowUp, Tier: d.Tier, Phase: PhaseFollowUp, AskedAt: now})
	case PhaseConfirmation:
		q, err = s.pose(PendingQuestion{Text: ConfirmationQuestion, Area: AreaConfirmation, Tier: d.Tier, Phase: PhaseConfirmation, AskedAt: now})
	default:
		err = fmt.Errorf("unknown phase %q", d.Phase)
	}
	return q, d, err
}

func (c *Controller) followUpText(ctx context.Context, s *Session) string {
	prev, _ := s.Previous()
	text, err := c.source.FollowUp(ctx, prev, s.candidate.Role)
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		if err == nil {
			err = errors.New("empty follow-up question")
		}
		c.logger.Warn("Follow-up generation failed, using fallback", zap.String("session_id", s.id), zap.Error(err))
		c.observer.FallbackUsed("follow_up")
		return FallbackFollowUp
	}
	return text
}

// finish ends the session, builds the report, archives and saves it
func (c *Controller) finish(ctx context.Context, s *Session, reason EndReason, filler string, now time.Time) (*TurnResult, error) {
	s.end(reason, now)

	rep, rerr := BuildReport(ctx, c.reporter, s, now)
	if rerr != nil {
		c.logger.Warn("Report generation failed, returning degraded report", zap.String("session_id", s.id), zap.Error(rerr))
		c.observer.FallbackUsed("report")
	}
	s.report = rep

	if c.archiver != nil {
		if err := c.archiver.Archive(ctx, s); err != nil {
			c.logger.Error("Failed to archive interview", zap.String("session_id", s.id), zap.Error(err))
		}
	}
	if err := c.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	c.observer.SessionEnded(reason)
	c.logger.Info("Interview ended",
		zap.String("session_id", s.id),
		zap.String("reason", string(reason)),
		zap.Int("turns_asked", s.turnsAsked),
		zap.Int("recorded", len(s.transcript)))

	filler, message := closingFor(reason, filler)
	return &TurnResult{
		SessionID:        s.id,
		Ended:            true,
		EndReason:        reason,
		Filler:           filler,
		Message:          message,
		RemainingSeconds: remainingSeconds(s, now),
		Report:           rep,
	}, nil
}

func (c *Controller) pick(n int) int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.rng.Intn(n)
}

func remainingSeconds(s *Session, now time.Time) *int {
	if s.pacing.Mode != ModeTime {
		return nil
	}
	secs := int(s.RemainingTime(now) / time.Second)
	return &secs
}
