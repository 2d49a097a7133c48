package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"peerprep/interview/internal/interview"
)

func TestMiddlewareLabelsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware("interview-test"))
	r.Get("/api/v1/interviews/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"a", "b"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/interviews/"+id, nil))
		if rr.Code != http.StatusTeapot {
			t.Fatalf("unexpected status %d", rr.Code)
		}
	}

	got := testutil.ToFloat64(httpRequests.WithLabelValues("interview-test", "GET", "/api/v1/interviews/{id}", "418"))
	if got != 2 {
		t.Fatalf("expected 2 requests under the route pattern, got %v", got)
	}
	if v := testutil.ToFloat64(httpInFlight.WithLabelValues("interview-test")); v != 0 {
		t.Fatalf("expected no in-flight requests, got %v", v)
	}
}

func TestMiddlewareUnmatchedRoute(t *testing.T) {
	h := Middleware("interview-plain")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/anything", nil))

	got := testutil.ToFloat64(httpRequests.WithLabelValues("interview-plain", "POST", "unmatched", "200"))
	if got != 1 {
		t.Fatalf("expected unmatched label, got %v", got)
	}
}

func TestRecorderCountsEvents(t *testing.T) {
	rec := Recorder{}
	before := testutil.ToFloat64(fallbacksUsed.WithLabelValues("evaluation"))

	rec.SessionStarted(interview.ModeTime)
	rec.TurnRecorded(interview.PhaseMain, interview.TierHard, 85)
	rec.SessionEnded(interview.EndClosingWindow)
	rec.FallbackUsed("evaluation")

	if testutil.ToFloat64(sessionsStarted.WithLabelValues("time")) < 1 {
		t.Fatalf("expected started counter to move")
	}
	if testutil.ToFloat64(turnsRecorded.WithLabelValues("main", "hard")) < 1 {
		t.Fatalf("expected turn counter to move")
	}
	if testutil.ToFloat64(sessionsEnded.WithLabelValues("closing_window")) < 1 {
		t.Fatalf("expected ended counter to move")
	}
	if got := testutil.ToFloat64(fallbacksUsed.WithLabelValues("evaluation")); got != before+1 {
		t.Fatalf("expected fallback counter to increase by one, got %v -> %v", before, got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	Recorder{}.SessionStarted(interview.ModeTurns)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "peerprep_interview_sessions_started_total") {
		t.Fatalf("metrics output missing interview counters")
	}
}
