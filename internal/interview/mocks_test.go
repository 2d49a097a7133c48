package interview

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type stubEvaluator struct {
	mu         sync.Mutex
	evaluateFn func(ctx context.Context, req EvaluationRequest) (Evaluation, error)
	calls      []EvaluationRequest
}

func (m *stubEvaluator) Evaluate(ctx context.Context, req EvaluationRequest) (Evaluation, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.evaluateFn == nil {
		return Evaluation{Score: 60, Feedback: "Solid answer.", Filler: "Got it."}, nil
	}
	return m.evaluateFn(ctx, req)
}

func (m *stubEvaluator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type stubSource struct {
	generatePoolFn func(ctx context.Context, req PoolRequest) ([]Question, error)
	followUpFn     func(ctx context.Context, prev Exchange, role string) (string, error)
	poolRequests   []PoolRequest
}

func (m *stubSource) GeneratePool(ctx context.Context, req PoolRequest) ([]Question, error) {
	m.poolRequests = append(m.poolRequests, req)
	if m.generatePoolFn == nil {
		return onePerTier(), nil
	}
	return m.generatePoolFn(ctx, req)
}

func (m *stubSource) FollowUp(ctx context.Context, prev Exchange, role string) (string, error) {
	if m.followUpFn == nil {
		return "Can you give a concrete example?", nil
	}
	return m.followUpFn(ctx, prev, role)
}

type stubReporter struct {
	writeReportFn func(ctx context.Context, req ReportRequest) (*ReportDetails, error)
	calls         int
}

func (m *stubReporter) WriteReport(ctx context.Context, req ReportRequest) (*ReportDetails, error) {
	m.calls++
	if m.writeReportFn == nil {
		return &ReportDetails{Summary: "Good interview.", CommunicationRating: 7, TechnicalRating: 6, CultureFitRating: 8}, nil
	}
	return m.writeReportFn(ctx, req)
}

type stubArchiver struct {
	archived []string
}

func (m *stubArchiver) Archive(_ context.Context, s *Session) error {
	m.archived = append(m.archived, s.ID())
	return nil
}

// memStore keeps serialized sessions so every Get returns an independent copy
type memStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	saves int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *memStore) Save(_ context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[s.ID()] = raw
	m.saves++
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type countingObserver struct {
	mu        sync.Mutex
	started   int
	recorded  int
	ended     []EndReason
	fallbacks []string
}

func (o *countingObserver) SessionStarted(PacingMode) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
}

func (o *countingObserver) TurnRecorded(Phase, Tier, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.recorded++
}

func (o *countingObserver) SessionEnded(r EndReason) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ended = append(o.ended, r)
}

func (o *countingObserver) FallbackUsed(capability string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks = append(o.fallbacks, capability)
}

func onePerTier() []Question {
	return []Question{
		{Text: "Explain a hash map.", Area: "Technical", Tier: TierEasy},
		{Text: "Design a rate limiter.", Area: "Technical", Tier: TierMedium},
		{Text: "Design a distributed queue.", Area: "Technical", Tier: TierHard},
	}
}
