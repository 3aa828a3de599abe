package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"login-api/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultTick = 100 * time.Millisecond

// Runner executes a Scenario. A Runner is single use.
type Runner struct {
	scenario *Scenario
	client   *http.Client
	limiter  *rate.Limiter
	logger   *logger.Logger
	rec      *Recorder
	tick     time.Duration
	now      func() time.Time
	runID    string
}

type Option func(*Runner)

func WithHTTPClient(c *http.Client) Option {
	return func(r *Runner) { r.client = c }
}

func WithLogger(l *logger.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithTick sets how often the number of active virtual users is adjusted.
func WithTick(d time.Duration) Option {
	return func(r *Runner) { r.tick = d }
}

func NewRunner(s *Scenario, opts ...Option) *Runner {
	r := &Runner{
		scenario: s,
		rec:      NewRecorder(),
		tick:     defaultTick,
		now:      time.Now,
		runID:    uuid.NewString(),
		logger:   logger.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: s.RequestTimeout}
	}
	if s.MaxRPS > 0 {
		burst := int(s.MaxRPS)
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(s.MaxRPS), burst)
	}
	return r
}

// Recorder exposes the live metrics of the run.
func (r *Runner) Recorder() *Recorder { return r.rec }

// Run ramps virtual users through every stage and returns the summary. When
// ctx is cancelled early the partial summary is returned together with
// ctx.Err().
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	s := r.scenario
	total := s.TotalDuration()
	start := r.now()
	log := r.logger.Logger.With(zap.String("run_id", r.runID), zap.String("scenario", s.Name))
	log.Info("load test started",
		zap.String("base_url", s.BaseURL),
		zap.Duration("duration", total),
		zap.Int("max_vus", s.MaxVUs()),
	)

	var (
		wg     sync.WaitGroup
		active []chan struct{}
	)
	scale := func(target int) {
		for len(active) < target {
			stop := make(chan struct{})
			active = append(active, stop)
			id := len(active)
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.runVU(ctx, id, stop)
			}()
		}
		for len(active) > target {
			last := len(active) - 1
			close(active[last])
			active = active[:last]
		}
		r.rec.VUs.Set(int64(len(active)))
	}

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	var runErr error
loop:
	for {
		elapsed := r.now().Sub(start)
		if elapsed >= total {
			break
		}
		scale(s.TargetAt(elapsed))
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break loop
		case <-ticker.C:
		}
	}
	scale(0)
	wg.Wait()

	summary := BuildSummary(s, r.rec, r.now().Sub(start))
	summary.RunID = r.runID
	summary.StartedAt = start.UTC()

	log.Info("load test finished",
		zap.Float64("iterations", summary.Metrics[MetricIterations]["count"]),
		zap.Float64("http_reqs", summary.Metrics[MetricHTTPReqs]["count"]),
		zap.Bool("thresholds_passed", summary.Passed()),
	)
	return summary, runErr
}

func (r *Runner) runVU(ctx context.Context, id int, stop <-chan struct{}) {
	rnd := rand.New(rand.NewPCG(uint64(r.now().UnixNano()), uint64(id)))
	for iter := int64(0); ; iter++ {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		default:
		}
		if r.iteration(ctx, stop, rnd, id, iter) {
			r.rec.Iterations.Inc()
		}
	}
}

// iteration runs one pass of the scenario flow. It returns false when it was
// interrupted before finishing.
func (r *Runner) iteration(ctx context.Context, stop <-chan struct{}, rnd *rand.Rand, vu int, iter int64) bool {
	s := r.scenario
	checks := r.rec.Checks
	login, senha := UniqueLogin(rnd, vu, iter), "senha123"
	if s.FakeUsers {
		u := GenerateFakeUser(rnd)
		login = u.Login + "_" + strconv.Itoa(vu) + "_" + strconv.FormatInt(iter, 10)
		senha = u.Senha
	}
	creds := map[string]string{"login": login, "senha": senha}

	res, ok := r.do(ctx, http.MethodPost, "/register", creds, "", http.StatusCreated)
	if !ok {
		return false
	}
	r.rec.RegisterDuration.Add(res.Duration)
	if res.Status != http.StatusCreated {
		r.rec.AuthFailures.Inc()
	}
	checks.Check(res, merge(ResponseChecks("User Registration", http.StatusCreated, s.MaxResponseTime),
		map[string]func(*Response) bool{"Register response has message": HasField("message")}))
	if token := ExtractToken(res.Body); ValidateToken(token, r.now()) {
		r.rec.TokenValidations.Inc()
	}
	if !r.think(ctx, stop) {
		return false
	}
	if s.Flow == FlowRegister {
		return true
	}

	res, ok = r.do(ctx, http.MethodPost, "/login", creds, "", http.StatusOK)
	if !ok {
		return false
	}
	r.rec.LoginDuration.Add(res.Duration)
	if res.Status != http.StatusOK {
		r.rec.AuthFailures.Inc()
	}
	token := ExtractToken(res.Body)
	validToken := ValidateToken(token, r.now())
	if validToken {
		r.rec.TokenValidations.Inc()
	}
	checks.Check(res, merge(ResponseChecks("Login", http.StatusOK, s.MaxResponseTime),
		map[string]func(*Response) bool{
			"Login response has user": HasField("user"),
			"Login has valid token":   func(*Response) bool { return validToken },
		}))
	if !r.think(ctx, stop) {
		return false
	}

	res, ok = r.do(ctx, http.MethodGet, "/profile", nil, token, http.StatusOK)
	if !ok {
		return false
	}
	checks.Check(res, merge(ResponseChecks("Protected route", http.StatusOK, s.MaxResponseTime),
		map[string]func(*Response) bool{"Protected route returns user": HasField("user")}))
	if !r.think(ctx, stop) {
		return false
	}

	res, ok = r.do(ctx, http.MethodPost, "/register", creds, "", http.StatusBadRequest)
	if !ok {
		return false
	}
	checks.Check(res, merge(ResponseChecks("Duplicate register", http.StatusBadRequest, s.MaxResponseTime),
		map[string]func(*Response) bool{"Duplicate register has error message": HasField("error")}))
	if !r.think(ctx, stop) {
		return false
	}

	wrong := map[string]string{"login": login, "senha": "senhaErrada"}
	res, ok = r.do(ctx, http.MethodPost, "/login", wrong, "", http.StatusUnauthorized)
	if !ok {
		return false
	}
	checks.Check(res, merge(ResponseChecks("Wrong login", http.StatusUnauthorized, s.MaxResponseTime),
		map[string]func(*Response) bool{"Wrong login has error message": HasField("error")}))
	return true
}

// think pauses between steps. It returns false if the VU was stopped meanwhile.
func (r *Runner) think(ctx context.Context, stop <-chan struct{}) bool {
	if r.scenario.ThinkTime <= 0 {
		select {
		case <-stop:
			return false
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}
	t := time.NewTimer(r.scenario.ThinkTime)
	defer t.Stop()
	select {
	case <-stop:
		return false
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// do sends one request and records the HTTP metrics. ok is false when the
// run was cancelled before a response arrived; nothing is recorded then.
func (r *Runner) do(ctx context.Context, method, path string, body interface{}, token string, expected int) (*Response, bool) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, false
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Response{Err: err}, true
		}
		reader = bytes.NewReader(payload)
	}

	url := strings.TrimRight(r.scenario.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &Response{Err: err}, true
	}
	for k, v := range AuthHeaders(token) {
		req.Header.Set(k, v)
	}

	start := r.now()
	resp, err := r.client.Do(req)
	var res Response
	if err == nil {
		res.Body, err = io.ReadAll(resp.Body)
		resp.Body.Close()
		res.Status = resp.StatusCode
		res.Header = resp.Header
	}
	res.Duration = r.now().Sub(start)
	res.Err = err

	if err != nil && ctx.Err() != nil {
		return nil, false
	}
	if err != nil {
		r.logger.Logger.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
	}

	r.rec.HTTPReqs.Inc()
	r.rec.HTTPReqDuration.Add(res.Duration)
	r.rec.HTTPReqFailed.Add(err != nil || res.Status != expected)
	return &res, true
}
