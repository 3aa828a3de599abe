package loadtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Response is what a check sees of an HTTP exchange.
type Response struct {
	Status   int
	Body     []byte
	Header   http.Header
	Duration time.Duration
	Err      error
}

// JSON decodes the body into a generic object. It returns nil when the body
// is not a JSON object.
func (r *Response) JSON() map[string]interface{} {
	var out map[string]interface{}
	if err := json.Unmarshal(r.Body, &out); err != nil {
		return nil
	}
	return out
}

// Has reports whether the JSON body carries field.
func (r *Response) Has(field string) bool {
	body := r.JSON()
	if body == nil {
		return false
	}
	_, ok := body[field]
	return ok
}

// CheckResult is the tally for one named check.
type CheckResult struct {
	Name   string  `json:"name"`
	Passes int64   `json:"passes"`
	Fails  int64   `json:"fails"`
	Rate   float64 `json:"rate"`
}

// CheckSet counts passes and fails per check name.
type CheckSet struct {
	mu      sync.Mutex
	results map[string]*CheckResult
	order   []string
	all     Rate
}

func NewCheckSet() *CheckSet {
	return &CheckSet{results: make(map[string]*CheckResult)}
}

// Record stores one outcome and returns ok.
func (s *CheckSet) Record(name string, ok bool) bool {
	s.mu.Lock()
	res, found := s.results[name]
	if !found {
		res = &CheckResult{Name: name}
		s.results[name] = res
		s.order = append(s.order, name)
	}
	if ok {
		res.Passes++
	} else {
		res.Fails++
	}
	s.mu.Unlock()
	s.all.Add(ok)
	return ok
}

// Check evaluates every assertion against r and records each under its name.
// It returns true only if all assertions hold.
func (s *CheckSet) Check(r *Response, assertions map[string]func(*Response) bool) bool {
	names := make([]string, 0, len(assertions))
	for name := range assertions {
		names = append(names, name)
	}
	sort.Strings(names)

	all := true
	for _, name := range names {
		if !s.Record(name, assertions[name](r)) {
			all = false
		}
	}
	return all
}

// Results lists checks in first-seen order with their success rate in percent.
func (s *CheckSet) Results() []CheckResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CheckResult, 0, len(s.order))
	for _, name := range s.order {
		res := *s.results[name]
		if total := res.Passes + res.Fails; total > 0 {
			res.Rate = round2(float64(res.Passes) / float64(total) * 100)
		}
		out = append(out, res)
	}
	return out
}

func (s *CheckSet) Rate() *Rate { return &s.all }

// ResponseChecks are the assertions every API response gets: the expected
// status, a duration under maxDuration and a JSON body.
func ResponseChecks(description string, expectedStatus int, maxDuration time.Duration) map[string]func(*Response) bool {
	return map[string]func(*Response) bool{
		fmt.Sprintf("%s - Status is %d", description, expectedStatus): func(r *Response) bool {
			return r.Err == nil && r.Status == expectedStatus
		},
		fmt.Sprintf("%s - Response time < %dms", description, maxDuration.Milliseconds()): func(r *Response) bool {
			return r.Err == nil && r.Duration < maxDuration
		},
		fmt.Sprintf("%s - Has valid JSON", description): func(r *Response) bool {
			return r.JSON() != nil
		},
	}
}

// HasField asserts the JSON body carries field.
func HasField(field string) func(*Response) bool {
	return func(r *Response) bool { return r.Has(field) }
}

// merge adds extra assertions to base and returns base.
func merge(base map[string]func(*Response) bool, extra map[string]func(*Response) bool) map[string]func(*Response) bool {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
