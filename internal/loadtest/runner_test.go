package loadtest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"login-api/config"
	"login-api/internal/handler"
	"login-api/internal/repository"
	"login-api/internal/server"
	"login-api/internal/services"
	"login-api/pkg/logger"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	repo := repository.NewMemoryUserRepository()
	tokens := services.NewTokenService()
	srv := server.New(&config.Config{AppMode: server.TestMode}, logger.NewNop(), nil)
	srv.SetupRoutes(&server.Handlers{
		Auth:   handler.NewAuthHandler(services.NewUserService(repo), tokens, nil, logger.NewNop()),
		User:   handler.NewUserHandler(nil),
		Health: handler.NewHealthHandler(time.Now()),
	}, tokens)

	ts := httptest.NewServer(srv.Engine())
	t.Cleanup(ts.Close)
	return ts
}

func quickScenario(baseURL string, flow Flow) *Scenario {
	s := DefaultScenario()
	s.BaseURL = baseURL
	s.Flow = flow
	s.Stages = []Stage{
		{Duration: 150 * time.Millisecond, Target: 2},
		{Duration: 150 * time.Millisecond, Target: 0},
	}
	s.ThinkTime = 0
	s.MaxResponseTime = 5 * time.Second
	s.Thresholds.TokenValidationsMin = 0
	s.Thresholds.HTTPReqDurationP95Ms = 0
	s.Thresholds.LoginDurationP95Ms = 0
	s.Thresholds.RegisterDurationP95Ms = 0
	return s
}

func TestRunAgainstAPI(t *testing.T) {
	ts := newAPI(t)
	s := quickScenario(ts.URL, FlowFull)

	summary, err := NewRunner(s, WithTick(10*time.Millisecond)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if n := summary.Metrics[MetricIterations]["count"]; n < 1 {
		t.Fatalf("iterations = %g", n)
	}
	if rate := summary.Metrics[MetricChecks]["rate"]; rate != 1 {
		for _, c := range summary.Checks {
			if c.Fails > 0 {
				t.Logf("failing check %+v", c)
			}
		}
		t.Fatalf("checks rate = %g", rate)
	}
	if n := summary.Metrics[MetricAuthFailures]["count"]; n != 0 {
		t.Errorf("auth_failures = %g", n)
	}
	if summary.Metrics[MetricTokenValidations]["count"] < 2 {
		t.Errorf("token_validations = %g", summary.Metrics[MetricTokenValidations]["count"])
	}
	if summary.Metrics[MetricVUs]["max"] != 2 {
		t.Errorf("vus max = %g", summary.Metrics[MetricVUs]["max"])
	}
	if summary.Metrics[MetricHTTPReqFailed]["rate"] != 0 {
		t.Errorf("http_req_failed = %v", summary.Metrics[MetricHTTPReqFailed])
	}
	if !summary.Passed() {
		t.Errorf("thresholds failed: %+v", summary.Thresholds)
	}
	if summary.RunID == "" || summary.State.TestRunDurationMs < 300 {
		t.Errorf("run id %q, duration %gms", summary.RunID, summary.State.TestRunDurationMs)
	}

	names := map[string]bool{}
	for _, c := range summary.Checks {
		names[c.Name] = true
	}
	for _, want := range []string{
		"User Registration - Status is 201",
		"Login has valid token",
		"Protected route - Status is 200",
		"Duplicate register - Status is 400",
		"Wrong login - Status is 401",
	} {
		if !names[want] {
			t.Errorf("missing check %q", want)
		}
	}

	out := filepath.Join(t.TempDir(), "out", "summary.json")
	if err := summary.WriteFile(out); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestRunRegisterOnlyFlow(t *testing.T) {
	ts := newAPI(t)
	s := quickScenario(ts.URL, FlowRegister)

	summary, err := NewRunner(s, WithTick(10*time.Millisecond), WithHTTPClient(ts.Client())).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Metrics[MetricLoginDuration]["count"] != 0 {
		t.Errorf("register-only flow logged in: %v", summary.Metrics[MetricLoginDuration])
	}
	if summary.Metrics[MetricRegisterDuration]["count"] < 1 {
		t.Errorf("register_duration = %v", summary.Metrics[MetricRegisterDuration])
	}
}

func TestRunFailsThresholdsOnServerErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"erro interno"}`))
	}))
	t.Cleanup(ts.Close)

	s := quickScenario(ts.URL, FlowRegister)
	summary, err := NewRunner(s, WithTick(10*time.Millisecond)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Passed() {
		t.Fatalf("expected failed thresholds, got %+v", summary.Thresholds)
	}
	if summary.Metrics[MetricAuthFailures]["count"] < 1 {
		t.Errorf("auth_failures = %v", summary.Metrics[MetricAuthFailures])
	}
	if summary.Metrics[MetricHTTPReqFailed]["rate"] != 1 {
		t.Errorf("http_req_failed = %v", summary.Metrics[MetricHTTPReqFailed])
	}
}

func TestRunCancelled(t *testing.T) {
	ts := newAPI(t)
	s := quickScenario(ts.URL, FlowFull)
	s.Stages = []Stage{{Duration: time.Minute, Target: 1}}
	s.ThinkTime = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	summary, err := NewRunner(s, WithTick(10*time.Millisecond)).Run(ctx)
	if err == nil {
		t.Fatal("expected the context error")
	}
	if summary == nil {
		t.Fatal("expected a partial summary")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("run did not stop promptly: %s", elapsed)
	}
}

func TestRateLimitedRun(t *testing.T) {
	ts := newAPI(t)
	s := quickScenario(ts.URL, FlowRegister)
	s.Stages = []Stage{{Duration: 300 * time.Millisecond, Target: 3}}
	s.MaxRPS = 20

	summary, err := NewRunner(s, WithTick(10*time.Millisecond)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// A burst of 20 plus 20/s over 0.3s, and one trailing request per VU
	// that was already waiting on the limiter when the run ended.
	if n := summary.Metrics[MetricHTTPReqs]["count"]; n > 40 {
		t.Fatalf("http_reqs = %g, limiter not applied", n)
	}
}
