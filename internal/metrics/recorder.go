package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"peerprep/interview/internal/interview"
)

var (
	sessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "peerprep",
		Subsystem: "interview",
		Name:      "sessions_started_total",
		Help:      "Interviews started, by pacing mode",
	}, []string{"mode"})

	sessionsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "peerprep",
		Subsystem: "interview",
		Name:      "sessions_ended_total",
		Help:      "Interviews ended, by reason",
	}, []string{"reason"})

	turnsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "peerprep",
		Subsystem: "interview",
		Name:      "turns_recorded_total",
		Help:      "Scored turns, by phase and difficulty",
	}, []string{"phase", "difficulty"})

	answerScores = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "peerprep",
		Subsystem: "interview",
		Name:      "answer_score",
		Help:      "Distribution of answer scores",
		Buckets:   prometheus.LinearBuckets(10, 10, 10),
	}, []string{"difficulty"})

	fallbacksUsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "peerprep",
		Subsystem: "interview",
		Name:      "fallbacks_total",
		Help:      "Times a capability failed and a fallback was used",
	}, []string{"capability"})
)

// Recorder reports controller events to Prometheus
type Recorder struct{}

var _ interview.Observer = Recorder{}

func (Recorder) SessionStarted(mode interview.PacingMode) {
	sessionsStarted.WithLabelValues(string(mode)).Inc()
}

func (Recorder) TurnRecorded(phase interview.Phase, tier interview.Tier, score int) {
	turnsRecorded.WithLabelValues(string(phase), string(tier)).Inc()
	answerScores.WithLabelValues(string(tier)).Observe(float64(score))
}

func (Recorder) SessionEnded(reason interview.EndReason) {
	sessionsEnded.WithLabelValues(string(reason)).Inc()
}

func (Recorder) FallbackUsed(capability string) {
	fallbacksUsed.WithLabelValues(capability).Inc()
}
