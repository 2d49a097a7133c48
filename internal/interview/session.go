package interview

import (
	"encoding/json"
	"time"
)

// Phase of the question put to the candidate
type Phase string

const (
	PhaseIntro        Phase = "intro"
	PhaseMain         Phase = "main"
	PhaseFollowUp     Phase = "follow_up"
	PhaseConfirmation Phase = "confirmation"
	PhaseDone         Phase = "done"
)

// Areas used for questions that do not come from the pool
const (
	AreaIntroduction = "Introduction"
	AreaFollowUp     = "Follow-up"
	AreaConfirmation = "Confirmation"
)

// Channel is how the candidate talks to the interviewer. It only changes phrasing.
type Channel string

const (
	ChannelChat  Channel = "chat"
	ChannelVoice Channel = "voice"
)

// EndReason records why a session finished
type EndReason string

const (
	EndTimeUp        EndReason = "time_up"
	EndClosingWindow EndReason = "closing_window"
	EndTurnLimit     EndReason = "turn_limit"
	EndPoolDepleted  EndReason = "pool_depleted"
)

type Candidate struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Resume string `json:"resume,omitempty"`
}

type Question struct {
	Text string `json:"text"`
	Area string `json:"area"`
	Tier Tier   `json:"difficulty"`
}

// PendingQuestion is the question currently awaiting an answer
type PendingQuestion struct {
	Seq     int       `json:"seq"`
	Text    string    `json:"text"`
	Area    string    `json:"area"`
	Tier    Tier      `json:"difficulty"`
	Phase   Phase     `json:"phase"`
	AskedAt time.Time `json:"asked_at"`
}

// Exchange is the last answered main or follow-up question
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Area     string `json:"area"`
	Tier     Tier   `json:"difficulty"`
}

// TurnRecord is one scored answer in the transcript
type TurnRecord struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Score      int    `json:"score"`
	Feedback   string `json:"feedback"`
	Difficulty Tier   `json:"difficulty"`
	Area       string `json:"area"`
	FollowUp   bool   `json:"follow_up,omitempty"`
}

// NoResponse reports whether the candidate skipped or stayed silent
func (t TurnRecord) NoResponse() bool {
	return IsNoResponse(t.Answer)
}

// Outcome is what the controller learned from an answer
type Outcome struct {
	Scored        bool
	Score         int
	Feedback      string
	NeedsFollowUp bool
}

// Session holds the whole interview state. Mutation goes through the guarded
// methods below so the bookkeeping invariants hold between calls.
type Session struct {
	id        string
	candidate Candidate
	pacing    Pacing
	channel   Channel
	startedAt time.Time
	endedAt   time.Time

	pools      map[Tier][]Question
	tier       Tier
	turnsAsked int
	seq        int

	pending      *PendingQuestion
	lastPhase    Phase
	previous     *Exchange
	followUpOwed bool
	introDone    bool
	introduction string

	transcript []TurnRecord
	scores     []int

	ended     bool
	endReason EndReason
	report    *Report // set once when the interview ends
}

// NewSession buckets the pool by tier and starts the target tier at easy.
// Questions with an unknown tier are dropped.
func NewSession(id string, candidate Candidate, pacing Pacing, channel Channel, pool []Question, startedAt time.Time) *Session {
	if channel == "" {
		channel = ChannelChat
	}
	s := &Session{
		id:        id,
		candidate: candidate,
		pacing:    pacing,
		channel:   channel,
		startedAt: startedAt,
		pools:     make(map[Tier][]Question, len(Tiers)),
		tier:      TierEasy,
	}
	for _, q := range pool {
		if !q.Tier.Valid() || q.Text == "" {
			continue
		}
		s.pools[q.Tier] = append(s.pools[q.Tier], q)
	}
	return s
}

func (s *Session) ID() string             { return s.id }
func (s *Session) Candidate() Candidate   { return s.candidate }
func (s *Session) Pacing() Pacing         { return s.pacing }
func (s *Session) Channel() Channel       { return s.channel }
func (s *Session) StartedAt() time.Time   { return s.startedAt }
func (s *Session) EndedAt() time.Time     { return s.endedAt }
func (s *Session) Tier() Tier             { return s.tier }
func (s *Session) TurnsAsked() int        { return s.turnsAsked }
func (s *Session) IsEnded() bool          { return s.ended }
func (s *Session) EndReason() EndReason   { return s.endReason }
func (s *Session) FinalReport() *Report   { return s.report }
func (s *Session) Introduction() string   { return s.introduction }
func (s *Session) FollowUpOwed() bool     { return s.followUpOwed }
func (s *Session) LastPhase() Phase       { return s.lastPhase }
func (s *Session) Seq() int               { return s.seq }
func (s *Session) IntroDone() bool        { return s.introDone }
func (s *Session) PoolSize(t Tier) int    { return len(s.pools[t]) }
func (s *Session) IsDepleted(t Tier) bool { return len(s.pools[t]) == 0 }

// Pending returns the question awaiting an answer, if any
func (s *Session) Pending() (PendingQuestion, bool) {
	if s.pending == nil {
		return PendingQuestion{}, false
	}
	return *s.pending, true
}

// Previous returns the last answered main or follow-up exchange
func (s *Session) Previous() (Exchange, bool) {
	if s.previous == nil {
		return Exchange{}, false
	}
	return *s.previous, true
}

// Transcript returns a copy of the scored turns in order
func (s *Session) Transcript() []TurnRecord {
	out := make([]TurnRecord, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Scores returns a copy of the recorded scores in order
func (s *Session) Scores() []int {
	out := make([]int, len(s.scores))
	copy(out, s.scores)
	return out
}

// Elapsed is the wall-clock time since the session started
func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.ended && !s.endedAt.IsZero() {
		now = s.endedAt
	}
	d := now.Sub(s.startedAt)
	if d < 0 {
		return 0
	}
	return d
}

// RemainingTime is the unused part of the time budget, never negative.
// Turn-bounded sessions always report zero.
func (s *Session) RemainingTime(now time.Time) time.Duration {
	if s.pacing.Mode != ModeTime {
		return 0
	}
	r := s.pacing.Budget() - s.Elapsed(now)
	if r < 0 {
		return 0
	}
	return r
}

// AllDepleted reports whether every pool is empty
func (s *Session) AllDepleted() bool {
	for _, t := range Tiers {
		if len(s.pools[t]) > 0 {
			return false
		}
	}
	return true
}

// nextTier picks the target tier if it still has questions, otherwise the
// first non-empty tier in fallback order
func (s *Session) nextTier() (Tier, bool) {
	if len(s.pools[s.tier]) > 0 {
		return s.tier, true
	}
	for _, t := range fallbackOrder {
		if len(s.pools[t]) > 0 {
			return t, true
		}
	}
	return "", false
}

// AverageScore is the mean of recorded scores, zero when none
func (s *Session) AverageScore() float64 {
	if len(s.scores) == 0 {
		return 0
	}
	total := 0
	for _, sc := range s.scores {
		total += sc
	}
	return float64(total) / float64(len(s.scores))
}

func (s *Session) pose(p PendingQuestion) (PendingQuestion, error) {
	if s.ended {
		return PendingQuestion{}, ErrSessionEnded
	}
	if s.pending != nil {
		return PendingQuestion{}, ErrQuestionPending
	}
	s.seq++
	p.Seq = s.seq
	s.pending = &p
	switch p.Phase {
	case PhaseIntro:
		s.introDone = true
	case PhaseFollowUp:
		s.followUpOwed = false
	}
	return p, nil
}

// askMain removes a random question from tier t and poses it. The tier
// becomes the new target tier and the turn counter advances.
func (s *Session) askMain(t Tier, pick func(n int) int, at time.Time) (PendingQuestion, error) {
	if s.ended {
		return PendingQuestion{}, ErrSessionEnded
	}
	if s.pending != nil {
		return PendingQuestion{}, ErrQuestionPending
	}
	pool := s.pools[t]
	if len(pool) == 0 {
		return PendingQuestion{}, ErrNoPendingQuestion
	}
	i := pick(len(pool))
	q := pool[i]
	pool[i] = pool[len(pool)-1]
	s.pools[t] = pool[:len(pool)-1]

	s.tier = t
	s.turnsAsked++
	return s.pose(PendingQuestion{Text: q.Text, Area: q.Area, Tier: q.Tier, Phase: PhaseMain, AskedAt: at})
}

// resolve closes the pending question with the given answer and outcome
func (s *Session) resolve(answer string, o Outcome) (PendingQuestion, error) {
	if s.pending == nil {
		return PendingQuestion{}, ErrNoPendingQuestion
	}
	p := *s.pending

	if p.Phase == PhaseIntro {
		s.introduction = answer
	}
	if o.Scored {
		score := clampScore(o.Score)
		s.transcript = append(s.transcript, TurnRecord{
			Question:   p.Text,
			Answer:     answer,
			Score:      score,
			Feedback:   o.Feedback,
			Difficulty: p.Tier,
			Area:       p.Area,
			FollowUp:   p.Phase == PhaseFollowUp,
		})
		s.scores = append(s.scores, score)
		s.tier = Retune(s.tier, score)
	}
	if p.Phase == PhaseMain || p.Phase == PhaseFollowUp {
		s.previous = &Exchange{Question: p.Text, Answer: answer, Area: p.Area, Tier: p.Tier}
	}
	s.followUpOwed = o.Scored && o.NeedsFollowUp && p.Phase == PhaseMain
	s.lastPhase = p.Phase
	s.pending = nil
	return p, nil
}

func (s *Session) end(reason EndReason, at time.Time) {
	if s.ended {
		return
	}
	s.ended = true
	s.endReason = reason
	s.endedAt = at
	s.pending = nil
	s.followUpOwed = false
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Clone returns a deep copy that shares no mutable state with s
func (s *Session) Clone() *Session {
	c := *s
	c.pools = make(map[Tier][]Question, len(s.pools))
	for t, qs := range s.pools {
		c.pools[t] = append([]Question(nil), qs...)
	}
	if s.pending != nil {
		p := *s.pending
		c.pending = &p
	}
	if s.previous != nil {
		e := *s.previous
		c.previous = &e
	}
	c.transcript = append([]TurnRecord(nil), s.transcript...)
	c.scores = append([]int(nil), s.scores...)
	if s.report != nil {
		r := *s.report
		c.report = &r
	}
	return &c
}

type sessionState struct {
	ID           string              `json:"id"`
	Candidate    Candidate           `json:"candidate"`
	Pacing       Pacing              `json:"pacing"`
	Channel      Channel             `json:"channel"`
	StartedAt    time.Time           `json:"started_at"`
	EndedAt      time.Time           `json:"ended_at"`
	Pools        map[Tier][]Question `json:"pools"`
	Tier         Tier                `json:"tier"`
	TurnsAsked   int                 `json:"turns_asked"`
	Seq          int                 `json:"seq"`
	Pending      *PendingQuestion    `json:"pending,omitempty"`
	LastPhase    Phase               `json:"last_phase,omitempty"`
	Previous     *Exchange           `json:"previous,omitempty"`
	FollowUpOwed bool                `json:"follow_up_owed"`
	IntroDone    bool                `json:"intro_done"`
	Introduction string              `json:"introduction,omitempty"`
	Transcript   []TurnRecord        `json:"transcript"`
	Scores       []int               `json:"scores"`
	Ended        bool                `json:"ended"`
	EndReason    EndReason           `json:"end_reason,omitempty"`
	Report       *Report             `json:"report,omitempty"`
}

func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionState{
		ID:           s.id,
		Candidate:    s.candidate,
		Pacing:       s.pacing,
		Channel:      s.channel,
		StartedAt:    s.startedAt,
		EndedAt:      s.endedAt,
		Pools:        s.pools,
		Tier:         s.tier,
		TurnsAsked:   s.turnsAsked,
		Seq:          s.seq,
		Pending:      s.pending,
		LastPhase:    s.lastPhase,
		Previous:     s.previous,
		FollowUpOwed: s.followUpOwed,
		IntroDone:    s.introDone,
		Introduction: s.introduction,
		Transcript:   s.transcript,
		Scores:       s.scores,
		Ended:        s.ended,
		EndReason:    s.endReason,
		Report:       s.report,
	})
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var st sessionState
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	if st.Pools == nil {
		st.Pools = make(map[Tier][]Question, len(Tiers))
	}
	*s = Session{
		id:           st.ID,
		candidate:    st.Candidate,
		pacing:       st.Pacing,
		channel:      st.Channel,
		startedAt:    st.StartedAt,
		endedAt:      st.EndedAt,
		pools:        st.Pools,
		tier:         st.Tier,
		turnsAsked:   st.TurnsAsked,
		seq:          st.Seq,
		pending:      st.Pending,
		lastPhase:    st.LastPhase,
		previous:     st.Previous,
		followUpOwed: st.FollowUpOwed,
		introDone:    st.IntroDone,
		introduction: st.Introduction,
		transcript:   st.Transcript,
		scores:       st.Scores,
		ended:        st.Ended,
		endReason:    st.EndReason,
		report:       st.Report,
	}
	return nil
}

// Status is a read-only view of a session for clients
type Status struct {
	SessionID        string           `json:"session_id"`
	Candidate        Candidate        `json:"candidate"`
	Pacing           Pacing           `json:"pacing"`
	Channel          Channel          `json:"channel"`
	StartedAt        time.Time        `json:"started_at"`
	Phase            Phase            `json:"phase"`
	Pending          *PendingQuestion `json:"pending,omitempty"`
	Tier             Tier             `json:"current_difficulty"`
	TurnsAsked       int              `json:"turns_asked"`
	Answered         int              `json:"answered"`
	RemainingSeconds *int             `json:"remaining_seconds,omitempty"`
	PoolRemaining    map[Tier]int     `json:"pool_remaining"`
	Ended            bool             `json:"ended"`
	EndReason        EndReason        `json:"end_reason,omitempty"`
}

// Snapshot builds a Status as of now
func (s *Session) Snapshot(now time.Time) Status {
	st := Status{
		SessionID:     s.id,
		Candidate:     Candidate{Name: s.candidate.Name, Role: s.candidate.Role},
		Pacing:        s.pacing,
		Channel:       s.channel,
		StartedAt:     s.startedAt,
		Phase:         PhaseDone,
		Tier:          s.tier,
		TurnsAsked:    s.turnsAsked,
		Answered:      len(s.transcript),
		PoolRemaining: make(map[Tier]int, len(Tiers)),
		Ended:         s.ended,
		EndReason:     s.endReason,
	}
	if s.pending != nil {
		p := *s.pending
		st.Pending = &p
		st.Phase = p.Phase
	}
	if s.pacing.Mode == ModeTime {
		secs := int(s.RemainingTime(now) / time.Second)
		st.RemainingSeconds = &secs
	}
	for _, t := range Tiers {
		st.PoolRemaining[t] = len(s.pools[t])
	}
	return st
}
