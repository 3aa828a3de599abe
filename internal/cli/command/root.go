// Package command provides the perf command-line tool: load tests against
// the login API and HTML reports over their results.
package command

import (
	"fmt"
	"os"

	"login-api/pkg/logger"

	"github.com/urfave/cli/v2"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

const loggerKey = "logger"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "perf",
		Usage:   "load testing and reporting for the login API",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RunCommand(),
			SmokeCommand(),
			ReportCommand(),
		},
		Before: func(c *cli.Context) error {
			l := logger.New(c.String("log-mode"))
			logger.SetGlobalLogger(l)
			c.App.Metadata[loggerKey] = l
			return nil
		},
		After: func(c *cli.Context) error {
			if l := GetLogger(c); l != nil {
				l.Sync()
			}
			return nil
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-mode",
			Usage:   "Log encoding: development or production",
			EnvVars: []string{"LOG_MODE"},
			Value:   logger.DevelopmentMode,
		},
	}
}

// GetLogger retrieves the logger set up in Before.
func GetLogger(c *cli.Context) *logger.Logger {
	if l, ok := c.App.Metadata[loggerKey].(*logger.Logger); ok {
		return l
	}
	return logger.GetGlobalLogger()
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
