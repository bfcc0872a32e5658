package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikogura/referral-mailer/pkg/config"
	"github.com/nikogura/referral-mailer/pkg/portfolio"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var portfolioCSV string

//nolint:gochecknoglobals // Cobra boilerplate
var portfolioLinks int

//nolint:gochecknoglobals // Cobra boilerplate
var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Manage the portfolio of tech stacks and links",
}

//nolint:gochecknoglobals // Cobra boilerplate
var portfolioLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import the portfolio CSV into the local store",
	Long: `Import the portfolio CSV (Techstack, Links columns) into the local SQLite
store. The import only happens when the store is empty.

Example:
  referral-mailer portfolio load --csv my_portfolio.csv`,
	Args: cobra.NoArgs,
	RunE: runPortfolioLoad,
}

//nolint:gochecknoglobals // Cobra boilerplate
var portfolioQueryCmd = &cobra.Command{
	Use:   "query <skill>...",
	Short: "Show the portfolio links that best match a set of skills",
	Long: `Show the portfolio links that best match a set of skills.

Example:
  referral-mailer portfolio query Go Kubernetes PostgreSQL --links 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPortfolioQuery,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(portfolioCmd)
	portfolioCmd.AddCommand(portfolioLoadCmd)
	portfolioCmd.AddCommand(portfolioQueryCmd)
	portfolioCmd.PersistentFlags().StringVar(&portfolioCSV, "csv", "", "Portfolio CSV (default from config)")
	portfolioQueryCmd.Flags().IntVar(&portfolioLinks, "links", portfolio.DefaultLinks, "Number of links to return")
}

func loadPortfolioConfig() (cfg config.Config, err error) {
	cfg, err = loadConfig()
	if err != nil {
		return cfg, err
	}
	if portfolioCSV != "" {
		cfg.Portfolio.CSV = portfolioCSV
	}
	return cfg, err
}

func runPortfolioLoad(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()

	var cfg config.Config
	cfg, err = loadPortfolioConfig()
	if err != nil {
		return err
	}

	_, store, err := openPortfolio(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	count, err := store.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Portfolio store %s holds %d entries\n", cfg.Portfolio.DB, count)
	return err
}

func runPortfolioQuery(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()

	var cfg config.Config
	cfg, err = loadPortfolioConfig()
	if err != nil {
		return err
	}

	links, err := queryPortfolio(ctx, cfg, args, portfolioLinks)
	if err != nil {
		return err
	}

	if len(links) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No portfolio links found.")
		return err
	}

	for _, link := range links {
		fmt.Fprintln(cmd.OutOrStdout(), link)
	}
	return err
}

func queryPortfolio(ctx context.Context, cfg config.Config, skills []string, n int) (links []string, err error) {
	p, store, err := openPortfolio(ctx, cfg)
	if err != nil {
		return links, err
	}
	defer func() { _ = store.Close() }()

	links, err = p.QueryLinks(ctx, skills, n)
	if err != nil {
		err = errors.Wrapf(err, "failed to query portfolio for %s", strings.Join(skills, ", "))
		return links, err
	}

	logger.Debug("Portfolio queried", zap.Strings("skills", skills), zap.Int("links", len(links)))
	return links, err
}
