package loadtest

import (
	"math"
	"sort"
	"sync"
	"time"
)

// Metric names used in summaries, matching the names k6 reports.
const (
	MetricHTTPReqs         = "http_reqs"
	MetricHTTPReqDuration  = "http_req_duration"
	MetricHTTPReqFailed    = "http_req_failed"
	MetricIterations       = "iterations"
	MetricVUs              = "vus"
	MetricChecks           = "checks"
	MetricRegisterDuration = "register_duration"
	MetricLoginDuration    = "login_duration"
	MetricAuthFailures     = "auth_failures"
	MetricTokenValidations = "token_validations"
)

// Trend collects duration samples in milliseconds.
type Trend struct {
	mu      sync.Mutex
	samples []float64
}

func (t *Trend) Add(d time.Duration) {
	t.AddValue(float64(d) / float64(time.Millisecond))
}

func (t *Trend) AddValue(ms float64) {
	t.mu.Lock()
	t.samples = append(t.samples, ms)
	t.mu.Unlock()
}

// Values returns count, avg, min, med, max, p(90) and p(95). An empty trend
// reports zeros.
func (t *Trend) Values() map[string]float64 {
	t.mu.Lock()
	sorted := append([]float64(nil), t.samples...)
	t.mu.Unlock()
	sort.Float64s(sorted)

	out := map[string]float64{
		"count": float64(len(sorted)),
		"avg":   0, "min": 0, "med": 0, "max": 0, "p(90)": 0, "p(95)": 0,
	}
	if len(sorted) == 0 {
		return out
	}
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	out["avg"] = round2(sum / float64(len(sorted)))
	out["min"] = round2(sorted[0])
	out["max"] = round2(sorted[len(sorted)-1])
	out["med"] = round2(percentile(sorted, 50))
	out["p(90)"] = round2(percentile(sorted, 90))
	out["p(95)"] = round2(percentile(sorted, 95))
	return out
}

// percentile interpolates linearly between closest ranks. sorted must be
// ascending and non-empty.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}

// Counter is a monotonically increasing count.
type Counter struct {
	mu sync.Mutex
	n  int64
}

func (c *Counter) Inc() { c.Add(1) }

func (c *Counter) Add(n int64) {
	c.mu.Lock()
	c.n += n
	c.mu.Unlock()
}

func (c *Counter) Count() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Rate tracks the share of true observations.
type Rate struct {
	mu     sync.Mutex
	passes int64
	fails  int64
}

func (r *Rate) Add(ok bool) {
	r.mu.Lock()
	if ok {
		r.passes++
	} else {
		r.fails++
	}
	r.mu.Unlock()
}

func (r *Rate) Counts() (passes, fails int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passes, r.fails
}

// Value is passes/(passes+fails), or 1 when nothing was observed.
func (r *Rate) Value() float64 {
	passes, fails := r.Counts()
	if passes+fails == 0 {
		return 1
	}
	return float64(passes) / float64(passes+fails)
}

// Gauge remembers the last and highest value set.
type Gauge struct {
	mu   sync.Mutex
	last int64
	max  int64
}

func (g *Gauge) Set(v int64) {
	g.mu.Lock()
	g.last = v
	if v > g.max {
		g.max = v
	}
	g.mu.Unlock()
}

func (g *Gauge) Values() (last, max int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last, g.max
}

// Recorder is the set of metrics a run fills in.
type Recorder struct {
	HTTPReqs         Counter
	HTTPReqDuration  Trend
	HTTPReqFailed    Rate
	Iterations       Counter
	VUs              Gauge
	Checks           *CheckSet
	RegisterDuration Trend
	LoginDuration    Trend
	AuthFailures     Counter
	TokenValidations Counter
}

func NewRecorder() *Recorder {
	return &Recorder{Checks: NewCheckSet()}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
