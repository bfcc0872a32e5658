package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nikogura/referral-mailer/pkg/config"
	"github.com/nikogura/referral-mailer/pkg/jd"
	"github.com/nikogura/referral-mailer/pkg/llm"
	"github.com/nikogura/referral-mailer/pkg/portfolio"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func loadConfig() (cfg config.Config, err error) {
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		return cfg, err
	}

	logger.Debug("Config loaded",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.String("key_source", cfg.APIKeySource),
	)

	return cfg, err
}

// newChain builds the prompt chain for the configured provider.
func newChain(ctx context.Context, cfg config.Config) (chain *llm.Chain, err error) {
	err = cfg.RequireAPIKey()
	if err != nil {
		return chain, err
	}

	var generator llm.Generator
	generator, err = llm.NewGenerator(ctx, cfg.Provider, cfg.APIKey, llm.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return chain, err
	}

	sender := llm.Sender{
		Name:    cfg.Sender.Name,
		Title:   cfg.Sender.Title,
		Company: cfg.Sender.Company,
	}

	opts := []llm.ChainOption{llm.WithSender(sender), llm.WithLogger(logger)}
	if len(cfg.ReasoningTags) > 0 {
		opts = append(opts, llm.WithReasoningTags(cfg.ReasoningTags...))
	}

	chain = llm.NewChain(generator, opts...)
	return chain, err
}

// openPortfolio opens the portfolio store and seeds it from the CSV when empty.
func openPortfolio(ctx context.Context, cfg config.Config) (p *portfolio.Portfolio, store *portfolio.Store, err error) {
	err = os.MkdirAll(filepath.Dir(cfg.Portfolio.DB), 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create portfolio directory for %s", cfg.Portfolio.DB)
		return p, store, err
	}

	store, err = portfolio.OpenStore(ctx, cfg.Portfolio.DB)
	if err != nil {
		return p, store, err
	}

	p = portfolio.New(store, cfg.Portfolio.CSV, logger)

	_, err = p.Load(ctx)
	if err != nil {
		_ = store.Close()
		err = errors.Wrap(err, "failed to load portfolio")
		return p, store, err
	}

	return p, store, err
}

// fetchSource loads page text, falling back to stdin when the page cannot be
// fetched (JavaScript-rendered careers pages, for instance).
func fetchSource(ctx context.Context, input string) (text string, err error) {
	logger.Debug("Loading page", zap.String("input", input))

	text, err = jd.FetchWithContext(ctx, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nWarning: %v\n", err)
		fmt.Fprintln(os.Stderr, "Paste the page text below, then press Ctrl+D (Unix/Mac) or Ctrl+Z then Enter (Windows):")

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}

		if scanner.Err() != nil {
			err = errors.Wrap(scanner.Err(), "failed to read page text from stdin")
			return text, err
		}

		text = strings.TrimSpace(strings.Join(lines, "\n"))
		if text == "" {
			err = errors.New("no page text provided")
			return text, err
		}
		err = nil
	}

	text = jd.CleanText(text)
	logger.Debug("Page loaded", zap.Int("chars", len(text)))

	return text, err
}

// displayRole title-cases a role for headings.
func displayRole(role string) (display string) {
	if strings.TrimSpace(role) == "" {
		display = "Untitled Role"
		return display
	}
	display = cases.Title(language.English).String(role)
	return display
}

// spinner provides a simple text-based progress indicator on stderr.
type spinner struct {
	message string
	stop    chan bool
	done    chan bool
	mu      sync.Mutex
	active  bool
}

// newSpinner returns nil in verbose mode, where log lines replace it.
func newSpinner(message string) (s *spinner) {
	if getVerbose() {
		logger.Info(message)
		return s
	}
	s = &spinner{
		message: message,
		stop:    make(chan bool),
		done:    make(chan bool),
	}
	return s
}

func (s *spinner) start() {
	if s == nil {
		return
	}

	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		chars := []string{"|", "/", "-", "\\"}
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprintf(os.Stderr, "%s ", s.message)
		for {
			select {
			case <-s.stop:
				// Clear the line and ensure cursor is at start of new line
				fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+2))
				s.done <- true
				return
			case <-ticker.C:
				fmt.Fprintf(os.Stderr, "\r%s %s", s.message, chars[i%len(chars)])
				i++
			}
		}
	}()
}

func (s *spinner) stopSpinner() {
	if s == nil {
		return
	}

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.stop <- true
	<-s.done

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}
