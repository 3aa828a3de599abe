// Package report turns load-test results into a standalone pt-BR HTML report.
//
// Results can come from a processed summary, a raw runner (or k6) summary
// export, or captured console output. When none is available the report is
// rendered from built-in example data.
package report

import "fmt"

// Source tells where the report data came from.
type Source string

const (
	SourceProcessed Source = "processed-summary"
	SourceRaw       Source = "raw-summary"
	SourceConsole   Source = "console-output"
	SourceExample   Source = "example"
)

type Data struct {
	Source            Source
	BaseURL           string
	Duration          string
	VUs               int
	Iterations        int
	HTTPReqs          int
	Checks            CheckTotals
	Thresholds        []Threshold
	Trends            Trends
	ChecksDetail      []Check
	AvgResponseMs     float64
	P95ResponseMs     float64
	RequestsPerSecond float64
	MaxResponseTimeMs float64
	SuccessTarget     float64
}

type CheckTotals struct {
	Passes int
	Fails  int
	// Rate is a percentage.
	Rate float64
}

type Threshold struct {
	Name      string
	Criterion string
	Value     float64
	Pass      bool
}

type TimingTrend struct {
	Avg float64
	Min float64
	Max float64
	P95 float64
}

type CountTrend struct {
	Count int
	Rate  float64
}

type Trends struct {
	Login            TimingTrend
	Register         TimingTrend
	AuthFailures     CountTrend
	TokenValidations CountTrend
}

type Check struct {
	Name   string
	Passes int
	Fails  int
	Rate   float64
}

// Passed reports whether the overall check rate met the success target.
func (d *Data) Passed() bool {
	return d.Checks.Rate >= d.SuccessTarget
}

// thresholdSet builds the six acceptance criteria in display order.
func thresholdSet(authFailures, checksRate, httpP95, loginP95, registerP95, tokenValidations float64) []Threshold {
	return []Threshold{
		{Name: "auth_failures", Criterion: "<50", Value: authFailures, Pass: authFailures < 50},
		{Name: "checks", Criterion: ">95%", Value: checksRate, Pass: checksRate >= 95},
		{Name: "http_req_duration", Criterion: "<1000ms", Value: httpP95, Pass: httpP95 < 1000},
		{Name: "login_duration", Criterion: "<1200ms", Value: loginP95, Pass: loginP95 < 1200},
		{Name: "register_duration", Criterion: "<1000ms", Value: registerP95, Pass: registerP95 < 1000},
		{Name: "token_validations", Criterion: ">50", Value: tokenValidations, Pass: tokenValidations > 50},
	}
}

// defaultChecks is the per-check table used when a source has no per-check
// breakdown: every scenario check with n passes.
func defaultChecks(n int) []Check {
	names := []string{
		"User Registration - Status is 201",
		"Login status is 200",
		"Login has valid token",
		"Protected route accessible with token",
		"Wrong login status is 401",
		"Duplicate register status is 400",
	}
	out := make([]Check, len(names))
	for i, name := range names {
		out[i] = Check{Name: name, Passes: n, Rate: 100}
	}
	return out
}

// Example is the data rendered when no results are found.
func Example() *Data {
	return &Data{
		Source:     SourceExample,
		BaseURL:    "http://localhost:3000",
		Duration:   "32.1s",
		VUs:        5,
		Iterations: 40,
		HTTPReqs:   240,
		Checks:     CheckTotals{Passes: 720, Fails: 0, Rate: 100},
		Thresholds: thresholdSet(0, 100, 2.22, 1.23, 2.82, 80),
		Trends: Trends{
			Login:            TimingTrend{Avg: 0.79, Min: 0.50, Max: 1.58, P95: 1.23},
			Register:         TimingTrend{Avg: 1.85, Min: 0.51, Max: 4.86, P95: 2.82},
			AuthFailures:     CountTrend{},
			TokenValidations: CountTrend{Count: 80, Rate: 2.49},
		},
		ChecksDetail:      defaultChecks(40),
		AvgResponseMs:     1.36,
		P95ResponseMs:     2.81,
		RequestsPerSecond: 6.24,
		MaxResponseTimeMs: 1000,
		SuccessTarget:     95,
	}
}

func formatSeconds(ms float64) string {
	return fmt.Sprintf("%gs", roundTo(ms/1000, 1))
}
