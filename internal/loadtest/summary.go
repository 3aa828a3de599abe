package loadtest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"
)

// Summary is the end-of-run report. The metrics map uses the flat layout of
// k6's summary export, so report tooling reads either interchangeably.
type Summary struct {
	RunID      string                        `json:"run_id"`
	Scenario   string                        `json:"scenario"`
	BaseURL    string                        `json:"base_url"`
	StartedAt  time.Time                     `json:"started_at"`
	Metrics    map[string]map[string]float64 `json:"metrics"`
	Checks     []CheckResult                 `json:"checks"`
	Thresholds []ThresholdResult             `json:"thresholds"`
	State      State                         `json:"state"`
}

type State struct {
	TestRunDurationMs float64 `json:"testRunDurationMs"`
}

// ThresholdResult is one evaluated acceptance criterion.
type ThresholdResult struct {
	Metric     string  `json:"metric"`
	Expression string  `json:"expression"`
	Value      float64 `json:"value"`
	Pass       bool    `json:"pass"`
}

// BuildSummary snapshots rec after a run that lasted elapsed.
func BuildSummary(s *Scenario, rec *Recorder, elapsed time.Duration) *Summary {
	secs := elapsed.Seconds()
	perSecond := func(n int64) float64 {
		if secs <= 0 {
			return 0
		}
		return round2(float64(n) / secs)
	}
	counter := func(c *Counter) map[string]float64 {
		n := c.Count()
		return map[string]float64{"count": float64(n), "rate": perSecond(n)}
	}

	checkPasses, checkFails := rec.Checks.Rate().Counts()
	failedPasses, failedFails := rec.HTTPReqFailed.Counts()
	vusLast, vusMax := rec.VUs.Values()

	metrics := map[string]map[string]float64{
		MetricHTTPReqs:         counter(&rec.HTTPReqs),
		MetricHTTPReqDuration:  rec.HTTPReqDuration.Values(),
		MetricIterations:       counter(&rec.Iterations),
		MetricRegisterDuration: rec.RegisterDuration.Values(),
		MetricLoginDuration:    rec.LoginDuration.Values(),
		MetricAuthFailures:     counter(&rec.AuthFailures),
		MetricTokenValidations: counter(&rec.TokenValidations),
		MetricVUs:              {"value": float64(vusLast), "max": float64(vusMax)},
		MetricChecks: {
			"passes": float64(checkPasses),
			"fails":  float64(checkFails),
			"rate":   rec.Checks.Rate().Value(),
		},
		// A "pass" of http_req_failed is a failed request, as in k6.
		MetricHTTPReqFailed: {
			"passes": float64(failedPasses),
			"fails":  float64(failedFails),
			"rate":   failedRate(failedPasses, failedFails),
		},
	}

	summary := &Summary{
		Scenario: s.Name,
		BaseURL:  s.BaseURL,
		Metrics:  metrics,
		Checks:   rec.Checks.Results(),
		State:    State{TestRunDurationMs: float64(elapsed.Milliseconds())},
	}
	summary.Thresholds = EvaluateThresholds(s.Thresholds, metrics)
	return summary
}

func failedRate(failed, ok int64) float64 {
	if failed+ok == 0 {
		return 0
	}
	return round2(float64(failed) / float64(failed+ok))
}

// EvaluateThresholds checks each non-zero threshold against metrics.
func EvaluateThresholds(t Thresholds, metrics map[string]map[string]float64) []ThresholdResult {
	var out []ThresholdResult
	below := func(metric, stat string, limit float64) {
		if limit <= 0 {
			return
		}
		v := metrics[metric][stat]
		out = append(out, ThresholdResult{
			Metric:     metric,
			Expression: fmt.Sprintf("%s<%g", stat, limit),
			Value:      v,
			Pass:       v < limit,
		})
	}
	above := func(metric, stat string, limit float64) {
		if limit <= 0 {
			return
		}
		v := metrics[metric][stat]
		out = append(out, ThresholdResult{
			Metric:     metric,
			Expression: fmt.Sprintf("%s>%g", stat, limit),
			Value:      v,
			Pass:       v > limit,
		})
	}

	below(MetricHTTPReqDuration, "p(95)", t.HTTPReqDurationP95Ms)
	above(MetricChecks, "rate", t.ChecksRate)
	below(MetricLoginDuration, "p(95)", t.LoginDurationP95Ms)
	below(MetricRegisterDuration, "p(95)", t.RegisterDurationP95Ms)
	below(MetricAuthFailures, "count", float64(t.AuthFailuresMax))
	above(MetricTokenValidations, "count", float64(t.TokenValidationsMin))
	return out
}

// Passed reports whether every threshold held.
func (s *Summary) Passed() bool {
	for _, t := range s.Thresholds {
		if !t.Pass {
			return false
		}
	}
	return true
}

func (s *Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteFile writes the summary as indented JSON, creating parent directories.
func (s *Summary) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PrintThresholds writes a table of threshold outcomes followed by the check
// totals.
func (s *Summary) PrintThresholds(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tTHRESHOLD\tVALUE\tRESULT")
	for _, t := range s.Thresholds {
		result := "PASS"
		if !t.Pass {
			result = "FAIL"
		}
		fmt.Fprintf(tw, "%s\t%s\t%g\t%s\n", t.Metric, t.Expression, t.Value, result)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	checks := s.Metrics[MetricChecks]
	_, err := fmt.Fprintf(w, "\nchecks: %.2f%% (%d passed, %d failed)\n",
		checks["rate"]*100, int64(checks["passes"]), int64(checks["fails"]))
	return err
}
