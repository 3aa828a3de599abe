// Package loadtest drives ramping virtual users against the login API and
// aggregates k6-style metrics, checks and thresholds for each run.
package loadtest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Flow selects what each iteration exercises.
type Flow string

const (
	// FlowFull registers, logs in, reads the profile and probes both error paths.
	FlowFull Flow = "full"
	// FlowRegister only registers a fresh user.
	FlowRegister Flow = "register"
)

// Stage ramps the number of active virtual users linearly to Target over Duration.
type Stage struct {
	Duration time.Duration `yaml:"duration"`
	Target   int           `yaml:"target"`
}

type Thresholds struct {
	HTTPReqDurationP95Ms  float64 `yaml:"http_req_duration_p95_ms"`
	ChecksRate            float64 `yaml:"checks_rate"`
	LoginDurationP95Ms    float64 `yaml:"login_duration_p95_ms"`
	RegisterDurationP95Ms float64 `yaml:"register_duration_p95_ms"`
	AuthFailuresMax       int     `yaml:"auth_failures_max"`
	TokenValidationsMin   int     `yaml:"token_validations_min"`
}

type Scenario struct {
	Name            string        `yaml:"name"`
	BaseURL         string        `yaml:"base_url"`
	Flow            Flow          `yaml:"flow"`
	Stages          []Stage       `yaml:"stages"`
	ThinkTime       time.Duration `yaml:"think_time"`
	MaxRPS          float64       `yaml:"max_rps"`
	MaxResponseTime time.Duration `yaml:"max_response_time"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	FakeUsers       bool          `yaml:"fake_users"`
	Thresholds      Thresholds    `yaml:"thresholds"`
}

const DefaultBaseURL = "http://localhost:3000"

func DefaultThresholds() Thresholds {
	return Thresholds{
		HTTPReqDurationP95Ms:  1000,
		ChecksRate:            0.95,
		LoginDurationP95Ms:    1200,
		RegisterDurationP95Ms: 1000,
		AuthFailuresMax:       50,
		TokenValidationsMin:   50,
	}
}

// DefaultScenario ramps to 10 users, then to 50, then back down.
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:    "api-performance",
		BaseURL: DefaultBaseURL,
		Flow:    FlowFull,
		Stages: []Stage{
			{Duration: 30 * time.Second, Target: 10},
			{Duration: time.Minute, Target: 50},
			{Duration: 30 * time.Second, Target: 0},
		},
		ThinkTime:       time.Second,
		MaxResponseTime: 500 * time.Millisecond,
		RequestTimeout:  10 * time.Second,
		Thresholds:      DefaultThresholds(),
	}
}

// SmokeScenario is a short register-only run with at most 5 users.
func SmokeScenario() *Scenario {
	s := DefaultScenario()
	s.Name = "simple-test"
	s.Flow = FlowRegister
	s.Stages = []Stage{
		{Duration: 10 * time.Second, Target: 5},
		{Duration: 10 * time.Second, Target: 0},
	}
	// Register-only runs never validate tokens or authenticate.
	s.Thresholds.TokenValidationsMin = 0
	s.Thresholds.LoginDurationP95Ms = 0
	return s
}

// LoadScenario reads a YAML scenario. Fields left out of the file keep the
// values of DefaultScenario.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	s := DefaultScenario()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scenario) Validate() error {
	if s.BaseURL == "" {
		return errors.New("scenario: base_url is required")
	}
	if len(s.Stages) == 0 {
		return errors.New("scenario: at least one stage is required")
	}
	for i, st := range s.Stages {
		if st.Duration <= 0 {
			return fmt.Errorf("scenario: stage %d: duration must be positive", i)
		}
		if st.Target < 0 {
			return fmt.Errorf("scenario: stage %d: target must not be negative", i)
		}
	}
	switch s.Flow {
	case FlowFull, FlowRegister:
	case "":
		s.Flow = FlowFull
	default:
		return fmt.Errorf("scenario: unknown flow %q", s.Flow)
	}
	if s.MaxRPS < 0 {
		return errors.New("scenario: max_rps must not be negative")
	}
	if s.MaxResponseTime <= 0 {
		s.MaxResponseTime = 500 * time.Millisecond
	}
	if s.RequestTimeout <= 0 {
		s.RequestTimeout = 10 * time.Second
	}
	return nil
}

// TotalDuration is the sum of all stage durations.
func (s *Scenario) TotalDuration() time.Duration {
	var total time.Duration
	for _, st := range s.Stages {
		total += st.Duration
	}
	return total
}

// MaxVUs is the highest stage target.
func (s *Scenario) MaxVUs() int {
	max := 0
	for _, st := range s.Stages {
		if st.Target > max {
			max = st.Target
		}
	}
	return max
}

// TargetAt returns the number of virtual users that should be active at
// elapsed, interpolating linearly from the previous stage's target (zero
// before the first stage).
func (s *Scenario) TargetAt(elapsed time.Duration) int {
	from := 0
	for _, st := range s.Stages {
		if elapsed < st.Duration {
			frac := float64(elapsed) / float64(st.Duration)
			return from + int(math.Round(float64(st.Target-from)*frac))
		}
		elapsed -= st.Duration
		from = st.Target
	}
	return from
}
