package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"login-api/internal/loadtest"

	"github.com/urfave/cli/v2"
)

// ExitThresholdsFailed is the exit code when a run breaks a threshold.
const ExitThresholdsFailed = 99

// RunCommand runs the full scenario.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the load test scenario against the API",
		Flags: runFlags("performance/summary.json"),
		Action: func(c *cli.Context) error {
			return runScenario(c, loadtest.DefaultScenario())
		},
	}
}

// SmokeCommand runs a short register-only scenario.
func SmokeCommand() *cli.Command {
	return &cli.Command{
		Name:  "smoke",
		Usage: "Run a short register-only smoke test",
		Flags: runFlags("performance/smoke-summary.json"),
		Action: func(c *cli.Context) error {
			return runScenario(c, loadtest.SmokeScenario())
		},
	}
}

func runFlags(defaultOut string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "scenario",
			Aliases: []string{"f"},
			Usage:   "YAML scenario file; built-in defaults apply to omitted fields",
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "API base URL (overrides the scenario)",
			EnvVars: []string{"BASE_URL"},
		},
		&cli.Float64Flag{
			Name:  "max-rps",
			Usage: "Cap on requests per second across all virtual users (0 = unlimited)",
		},
		&cli.BoolFlag{
			Name:  "fake-users",
			Usage: "Register generated Brazilian users instead of random logins",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "Where to write the JSON summary",
			Value:   defaultOut,
		},
	}
}

func runScenario(c *cli.Context, s *loadtest.Scenario) error {
	if path := c.String("scenario"); path != "" {
		loaded, err := loadtest.LoadScenario(path)
		if err != nil {
			return err
		}
		s = loaded
	}
	if u := c.String("base-url"); u != "" {
		s.BaseURL = u
	}
	if c.IsSet("max-rps") {
		s.MaxRPS = c.Float64("max-rps")
	}
	if c.Bool("fake-users") {
		s.FakeUsers = true
	}
	if err := s.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := loadtest.NewRunner(s, loadtest.WithLogger(GetLogger(c)))
	summary, err := runner.Run(ctx)
	interrupted := errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		return err
	}

	if out := c.String("out"); out != "" {
		if err := summary.WriteFile(out); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		fmt.Fprintf(os.Stdout, "summary written to %s\n\n", out)
	}
	if err := summary.PrintThresholds(os.Stdout); err != nil {
		return err
	}

	if interrupted {
		return cli.Exit("run interrupted", 1)
	}
	if !summary.Passed() {
		return cli.Exit("one or more thresholds failed", ExitThresholdsFailed)
	}
	return nil
}
