package command

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"login-api/internal/report"
	"login-api/internal/storage"

	"github.com/urfave/cli/v2"
)

// ReportCommand renders the HTML report and optionally publishes it to S3.
func ReportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Generate the HTML report from test results",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "processed",
				Usage: "Processed summary JSON, tried first",
				Value: "performance/k6-summary.json",
			},
			&cli.StringFlag{
				Name:  "raw",
				Usage: "Raw run summary JSON (perf run --out or k6 --summary-export)",
				Value: "performance/summary.json",
			},
			&cli.StringFlag{
				Name:  "console",
				Usage: "Captured console output, used when no summary is found",
				Value: "performance/k6-console-output.txt",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Where to write the HTML report",
				Value:   "performance/relatorio-teste.html",
			},
			&cli.StringFlag{
				Name:    "s3-bucket",
				Usage:   "Publish the report to this bucket",
				EnvVars: []string{"REPORT_S3_BUCKET"},
			},
			&cli.StringFlag{
				Name:    "s3-region",
				EnvVars: []string{"AWS_REGION"},
				Value:   "us-east-1",
			},
			&cli.StringFlag{
				Name:    "s3-endpoint",
				Usage:   "Endpoint of an S3-compatible store",
				EnvVars: []string{"REPORT_S3_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    "s3-public-base",
				Usage:   "Public base URL of the bucket; presigned links are printed otherwise",
				EnvVars: []string{"REPORT_S3_PUBLIC_BASE"},
			},
			&cli.StringFlag{
				Name:  "s3-acl",
				Usage: "Canned ACL: private or public-read",
			},
		},
		Action: generateReport,
	}
}

func generateReport(c *cli.Context) error {
	data := report.Load(report.Sources{
		ProcessedSummary: c.String("processed"),
		RawSummary:       c.String("raw"),
		ConsoleOutput:    c.String("console"),
	}, GetLogger(c))

	now := time.Now()
	html, err := report.RenderBytes(data, now)
	if err != nil {
		return err
	}

	out := c.String("out")
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(out, html, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(os.Stdout, "📊 Relatório HTML gerado: %s\n", out)

	bucket := c.String("s3-bucket")
	if bucket == "" {
		return nil
	}
	store, err := storage.NewClient(c.Context, storage.S3Config{
		Region:     c.String("s3-region"),
		Bucket:     bucket,
		Endpoint:   c.String("s3-endpoint"),
		PublicBase: c.String("s3-public-base"),
		ACL:        c.String("s3-acl"),
		PresignTTL: 7 * 24 * time.Hour,
	})
	if err != nil {
		return err
	}
	key, url, err := report.Publish(c.Context, store, html, now)
	if err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	fmt.Fprintf(os.Stdout, "report published to s3://%s/%s\n%s\n", bucket, key, url)
	return nil
}
