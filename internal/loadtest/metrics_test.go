package loadtest

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestTrendValues(t *testing.T) {
	var tr Trend
	if v := tr.Values(); v["count"] != 0 || v["p(95)"] != 0 {
		t.Fatalf("empty trend = %v", v)
	}

	for i := 1; i <= 100; i++ {
		tr.AddValue(float64(i))
	}
	v := tr.Values()
	want := map[string]float64{"count": 100, "avg": 50.5, "min": 1, "max": 100, "med": 50.5, "p(90)": 90.1, "p(95)": 95.05}
	for k, w := range want {
		if v[k] != w {
			t.Errorf("%s = %g, want %g", k, v[k], w)
		}
	}

	var single Trend
	single.Add(1500 * time.Microsecond)
	if v := single.Values(); v["p(95)"] != 1.5 || v["min"] != 1.5 {
		t.Fatalf("single sample = %v", v)
	}
}

func TestRate(t *testing.T) {
	var r Rate
	if r.Value() != 1 {
		t.Fatalf("empty rate = %g", r.Value())
	}
	r.Add(true)
	r.Add(true)
	r.Add(true)
	r.Add(false)
	if r.Value() != 0.75 {
		t.Fatalf("rate = %g", r.Value())
	}
}

func TestCheckSet(t *testing.T) {
	cs := NewCheckSet()
	ok := &Response{Status: http.StatusCreated, Body: []byte(`{"message":"x"}`), Duration: time.Millisecond}
	slow := &Response{Status: http.StatusCreated, Body: []byte(`not json`), Duration: time.Second}

	checks := func() map[string]func(*Response) bool {
		return merge(ResponseChecks("Register", http.StatusCreated, 500*time.Millisecond),
			map[string]func(*Response) bool{"Register has message": HasField("message")})
	}
	if !cs.Check(ok, checks()) {
		t.Fatal("expected all checks to pass")
	}
	if cs.Check(slow, checks()) {
		t.Fatal("expected the slow non-JSON response to fail")
	}

	results := cs.Results()
	if len(results) != 4 {
		t.Fatalf("results = %+v", results)
	}
	byName := map[string]CheckResult{}
	for _, r := range results {
		byName[r.Name] = r
	}
	if r := byName["Register - Status is 201"]; r.Passes != 2 || r.Fails != 0 || r.Rate != 100 {
		t.Errorf("status check = %+v", r)
	}
	if r := byName["Register - Response time < 500ms"]; r.Passes != 1 || r.Fails != 1 || r.Rate != 50 {
		t.Errorf("duration check = %+v", r)
	}
	if r := byName["Register - Has valid JSON"]; r.Fails != 1 {
		t.Errorf("json check = %+v", r)
	}
	if got := cs.Rate().Value(); got != 5.0/8.0 {
		t.Errorf("overall rate = %g", got)
	}
}

func TestEvaluateThresholds(t *testing.T) {
	metrics := map[string]map[string]float64{
		MetricHTTPReqDuration:  {"p(95)": 12},
		MetricChecks:           {"rate": 0.9},
		MetricLoginDuration:    {"p(95)": 3},
		MetricRegisterDuration: {"p(95)": 1500},
		MetricAuthFailures:     {"count": 0},
		MetricTokenValidations: {"count": 80},
	}
	results := EvaluateThresholds(DefaultThresholds(), metrics)
	if len(results) != 6 {
		t.Fatalf("results = %+v", results)
	}
	pass := map[string]bool{}
	for _, r := range results {
		pass[r.Metric] = r.Pass
	}
	want := map[string]bool{
		MetricHTTPReqDuration:  true,
		MetricChecks:           false,
		MetricLoginDuration:    true,
		MetricRegisterDuration: false,
		MetricAuthFailures:     true,
		MetricTokenValidations: true,
	}
	for m, w := range want {
		if pass[m] != w {
			t.Errorf("%s pass = %v, want %v", m, pass[m], w)
		}
	}

	disabled := EvaluateThresholds(Thresholds{ChecksRate: 0.5}, metrics)
	if len(disabled) != 1 || !disabled[0].Pass {
		t.Fatalf("only the checks threshold should be evaluated: %+v", disabled)
	}
}

func TestPrintThresholds(t *testing.T) {
	s := &Summary{
		Metrics: map[string]map[string]float64{MetricChecks: {"rate": 0.5, "passes": 1, "fails": 1}},
		Thresholds: []ThresholdResult{
			{Metric: MetricChecks, Expression: "rate>0.95", Value: 0.5, Pass: false},
		},
	}
	var sb strings.Builder
	if err := s.PrintThresholds(&sb); err != nil {
		t.Fatalf("PrintThresholds: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"METRIC", "rate>0.95", "FAIL", "checks: 50.00% (1 passed, 1 failed)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
	if s.Passed() {
		t.Error("summary with a failed threshold reported as passed")
	}
}
