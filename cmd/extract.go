package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikogura/referral-mailer/pkg/config"
	"github.com/nikogura/referral-mailer/pkg/posting"
	"github.com/nikogura/referral-mailer/pkg/renderer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var extractOutput string

//nolint:gochecknoglobals // Cobra boilerplate
var extractCmd = &cobra.Command{
	Use:   "extract <careers-page-url-or-file>",
	Short: "Extract job postings from a careers page as JSON",
	Long: `Extract every job posting from a careers page and print it as JSON.

The page can be provided as:
- A file path (e.g., careers.html, careers.txt)
- A URL (e.g., https://example.com/careers)

Example:
  referral-mailer extract https://example.com/careers
  referral-mailer extract careers.html --output jobs.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Write JSON to this file instead of stdout")
}

func runExtract(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	var cfg config.Config
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	var jobs posting.Set
	jobs, err = extractJobs(ctx, cfg, args[0])
	if err != nil {
		return err
	}

	if extractOutput != "" {
		err = renderer.WriteJSON(jobs, extractOutput)
		if err != nil {
			return err
		}
		logger.Info("Job postings written", zap.String("path", extractOutput), zap.Int("count", len(jobs)))
		return err
	}

	var data []byte
	data, err = json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal job postings")
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// extractJobs fetches the page and runs the extraction stage.
func extractJobs(ctx context.Context, cfg config.Config, input string) (jobs posting.Set, err error) {
	var text string
	text, err = fetchSource(ctx, input)
	if err != nil {
		return jobs, err
	}

	chain, err := newChain(ctx, cfg)
	if err != nil {
		return jobs, err
	}

	s := newSpinner("Extracting job postings...")
	s.start()
	jobs, err = chain.ExtractJobs(ctx, text)
	s.stopSpinner()
	if err != nil {
		return jobs, err
	}

	if jobs == nil {
		jobs = posting.Set{}
	}

	logger.Info("Job postings extracted", zap.Int("count", len(jobs)))
	return jobs, err
}
