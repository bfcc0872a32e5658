package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikogura/referral-mailer/pkg/config"
	"github.com/nikogura/referral-mailer/pkg/outreach"
	"github.com/nikogura/referral-mailer/pkg/posting"
	"github.com/nikogura/referral-mailer/pkg/renderer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var mailOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var mailConcurrency int

//nolint:gochecknoglobals // Cobra boilerplate
var mailLinks int

//nolint:gochecknoglobals // Cobra boilerplate
var mailCmd = &cobra.Command{
	Use:   "mail <careers-page-url-or-file>",
	Short: "Draft a referral email for every job posting on a careers page",
	Long: `Extract every job posting from a careers page, match portfolio links to
each posting's skills, and draft one referral email per posting.

Emails are printed to stdout, or written one file per posting with --output-dir.

Example:
  referral-mailer mail https://example.com/careers
  referral-mailer mail careers.html --output-dir ./emails --concurrency 4`,
	Args: cobra.ExactArgs(1),
	RunE: runMail,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(mailCmd)
	mailCmd.Flags().StringVar(&mailOutputDir, "output-dir", "", "Write one file per email here (default from config, stdout when unset)")
	mailCmd.Flags().IntVar(&mailConcurrency, "concurrency", 0, "Emails drafted in parallel (default from config)")
	mailCmd.Flags().IntVar(&mailLinks, "links", 0, "Portfolio links per email (default from config)")
}

func runMail(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Minute)
	defer cancel()

	var cfg config.Config
	cfg, err = loadConfig()
	if err != nil {
		return err
	}
	applyMailFlags(&cfg)

	var jobs posting.Set
	jobs, err = extractJobs(ctx, cfg, args[0])
	if err != nil {
		return err
	}

	if len(jobs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No job postings found.")
		return err
	}

	p, store, err := openPortfolio(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	chain, err := newChain(ctx, cfg)
	if err != nil {
		return err
	}

	runner := outreach.NewRunner(chain, p, outreach.Options{
		Concurrency:       cfg.Defaults.Concurrency,
		RequestsPerSecond: cfg.Defaults.RequestsPerSecond,
		LinksPerMail:      cfg.Defaults.LinksPerMail,
		Signature:         chain.Sender().Name,
	}, logger)

	s := newSpinner(fmt.Sprintf("Drafting %d referral emails...", len(jobs)))
	s.start()
	results, err := runner.Run(ctx, jobs)
	s.stopSpinner()
	if err != nil {
		return err
	}

	if cfg.Defaults.OutputDir != "" {
		err = writeMessages(cfg.Defaults.OutputDir, results)
		return err
	}

	printMessages(cmd, results)
	return err
}

func applyMailFlags(cfg *config.Config) {
	if mailOutputDir != "" {
		cfg.Defaults.OutputDir = mailOutputDir
	}
	if mailConcurrency > 0 {
		cfg.Defaults.Concurrency = mailConcurrency
	}
	if mailLinks > 0 {
		cfg.Defaults.LinksPerMail = mailLinks
	}
}

// writeMessages writes one file per email plus results.json. Files already
// written are removed again when a later write fails.
func writeMessages(outDir string, results []outreach.Result) (err error) {
	written := make([]string, 0, len(results)+1)
	defer func() {
		if err != nil && len(written) > 0 {
			cleanupErr := renderer.Cleanup(written...)
			if cleanupErr != nil {
				logger.Warn("Failed to remove partial output", zap.Error(cleanupErr))
			}
		}
	}()

	for _, res := range results {
		path := filepath.Join(outDir, renderer.BuildFilename(res.Job.Role, res.Index))
		err = renderer.WriteMessage(res.Message, path)
		if err != nil {
			return err
		}
		written = append(written, path)

		logger.Info("Email written",
			zap.String("role", displayRole(res.Job.Role)),
			zap.String("path", path),
			zap.Int("score", res.Report.Score),
		)
	}

	resultsPath := filepath.Join(outDir, "results.json")
	err = renderer.WriteJSON(results, resultsPath)
	return err
}

func printMessages(cmd *cobra.Command, results []outreach.Result) {
	out := cmd.OutOrStdout()
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		heading := fmt.Sprintf("=== %s ===", displayRole(res.Job.Role))
		fmt.Fprintln(out, heading)
		fmt.Fprintln(out, res.Message)
		fmt.Fprintln(out, strings.Repeat("=", len(heading)))
	}
}
