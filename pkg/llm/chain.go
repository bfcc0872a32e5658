package llm

import (
	"context"
	"time"

	"github.com/nikogura/referral-mailer/pkg/logging"
	"github.com/nikogura/referral-mailer/pkg/posting"
	"github.com/nikogura/referral-mailer/pkg/sanitize"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Chain runs the two prompt stages: job extraction and referral email writing.
// Each call makes exactly one generator request and keeps no state between calls.
type Chain struct {
	generator Generator
	sender    Sender
	stripper  *sanitize.Stripper
	cleaner   *sanitize.MessageCleaner
	logger    *zap.Logger
}

// ChainOption configures a Chain.
type ChainOption func(c *Chain)

// WithSender sets the identity that signs generated emails.
func WithSender(sender Sender) (opt ChainOption) {
	opt = func(c *Chain) {
		c.sender = sender
	}
	return opt
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) (opt ChainOption) {
	opt = func(c *Chain) {
		c.logger = logging.OrNop(logger)
	}
	return opt
}

// WithReasoningTags replaces the reasoning wrapper tags removed from model output.
func WithReasoningTags(tags ...string) (opt ChainOption) {
	opt = func(c *Chain) {
		c.stripper = sanitize.NewStripper(tags...)
	}
	return opt
}

// NewChain creates a chain over generator.
func NewChain(generator Generator, opts ...ChainOption) (chain *Chain) {
	chain = &Chain{
		generator: generator,
		sender:    DefaultSender(),
		stripper:  sanitize.NewStripper(),
		cleaner:   sanitize.NewMessageCleaner(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// ExtractJobs asks the model for every job posting in sourceText. A
// *sanitize.ExtractionError carrying the raw model output is returned when
// the response holds no usable JSON; generator errors are returned wrapped.
func (c *Chain) ExtractJobs(ctx context.Context, sourceText string) (jobs posting.Set, err error) {
	prompt := buildExtractionPrompt(sourceText)

	var raw string
	raw, err = c.generate(ctx, "extract", prompt)
	if err != nil {
		err = errors.Wrap(err, "job extraction request failed")
		return jobs, err
	}

	jobs, err = c.stripper.Extract(raw)
	if err != nil {
		c.logger.Warn("Job extraction failed", zap.Error(err), zap.Int("raw_bytes", len(raw)))
		return jobs, err
	}

	c.logger.Debug("Jobs extracted", zap.Int("count", len(jobs)))

	return jobs, err
}

// WriteMail asks the model for a referral email for job citing links. Drafts
// that drift from the template are cleaned up and returned as-is; only
// generator errors are reported.
func (c *Chain) WriteMail(ctx context.Context, job posting.JobPosting, links []string) (message string, err error) {
	prompt := buildMailPrompt(job, links, c.sender)

	var draft string
	draft, err = c.generate(ctx, "mail", prompt)
	if err != nil {
		err = errors.Wrapf(err, "email generation request failed for role %q", job.Role)
		return message, err
	}

	message = c.cleaner.Clean(c.stripper.Strip(draft))

	return message, err
}

// Sender returns the identity that signs generated emails.
func (c *Chain) Sender() (sender Sender) {
	sender = c.sender
	return sender
}

func (c *Chain) generate(ctx context.Context, stage, prompt string) (text string, err error) {
	start := time.Now()

	text, err = c.generator.Generate(ctx, prompt)

	c.logger.Debug("Generator call finished",
		zap.String("stage", stage),
		zap.Int("prompt_bytes", len(prompt)),
		zap.Int("response_bytes", len(text)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", err == nil),
	)

	return text, err
}
