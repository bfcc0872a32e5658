// Package outreach drafts one referral email per job posting.
package outreach

import (
	"context"

	"github.com/nikogura/referral-mailer/pkg/logging"
	"github.com/nikogura/referral-mailer/pkg/posting"
	"github.com/nikogura/referral-mailer/pkg/scorer"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Mailer writes the final referral email for a posting.
type Mailer interface {
	WriteMail(ctx context.Context, job posting.JobPosting, links []string) (message string, err error)
}

// LinkMatcher picks portfolio links for a set of skills.
type LinkMatcher interface {
	QueryLinks(ctx context.Context, skills []string, n int) (links []string, err error)
}

// Options tunes a Runner.
type Options struct {
	Concurrency       int
	RequestsPerSecond float64
	LinksPerMail      int
	Signature         string
}

// Result is the outcome for one posting. Index is the posting's position in
// the input set.
type Result struct {
	Index   int                `json:"index"`
	Job     posting.JobPosting `json:"job"`
	Links   []string           `json:"links"`
	Message string             `json:"message"`
	Report  scorer.Report      `json:"report"`
}

// Runner drafts emails for many postings with bounded parallelism.
type Runner struct {
	mailer      Mailer
	matcher     LinkMatcher
	scorer      *scorer.Scorer
	limiter     *rate.Limiter
	concurrency int
	links       int
	logger      *zap.Logger
}

// NewRunner creates a runner. A nil matcher means no portfolio links.
func NewRunner(mailer Mailer, matcher LinkMatcher, opts Options, logger *zap.Logger) (runner *Runner) {
	runner = &Runner{
		mailer:      mailer,
		matcher:     matcher,
		scorer:      scorer.NewScorer(opts.Signature),
		concurrency: opts.Concurrency,
		links:       opts.LinksPerMail,
		logger:      logging.OrNop(logger),
	}

	if runner.concurrency <= 0 {
		runner.concurrency = 1
	}
	if runner.links <= 0 {
		runner.links = 2
	}
	if opts.RequestsPerSecond > 0 {
		runner.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return runner
}

// Run drafts an email for every posting that is a record. Results come back
// in posting order. The first failure cancels the remaining work and is
// returned; conformance problems are only logged.
func (r *Runner) Run(ctx context.Context, jobs posting.Set) (results []Result, err error) {
	slots := make([]*Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, job := range jobs {
		if !job.IsRecord() {
			r.logger.Warn("skipping posting that is not an object", zap.Int("index", i), zap.String("raw", job.Raw))
			continue
		}

		if gctx.Err() != nil {
			break
		}

		g.Go(func() (gerr error) {
			gerr = gctx.Err()
			if gerr != nil {
				return gerr
			}

			var res Result
			res, gerr = r.one(gctx, i, job)
			if gerr != nil {
				return gerr
			}
			slots[i] = &res
			return gerr
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return results, err
	}

	results = make([]Result, 0, len(jobs))
	for _, res := range slots {
		if res != nil {
			results = append(results, *res)
		}
	}

	return results, err
}

func (r *Runner) one(ctx context.Context, index int, job posting.JobPosting) (res Result, err error) {
	res = Result{Index: index, Job: job, Links: []string{}}

	if r.matcher != nil {
		res.Links, err = r.matcher.QueryLinks(ctx, job.Skills, r.links)
		if err != nil {
			err = errors.Wrapf(err, "failed to match portfolio links for posting %d", index)
			return res, err
		}
	}

	if r.limiter != nil {
		err = r.limiter.Wait(ctx)
		if err != nil {
			err = errors.Wrap(err, "rate limiter wait failed")
			return res, err
		}
	}

	res.Message, err = r.mailer.WriteMail(ctx, job, res.Links)
	if err != nil {
		return res, err
	}

	res.Report = r.scorer.Score(res.Message, job.Role)
	for _, issue := range res.Report.Issues {
		r.logger.Warn("generated email drifted from template",
			zap.Int("index", index),
			zap.String("role", job.Role),
			zap.String("rule", issue.Rule),
			zap.String("detail", issue.Detail),
		)
	}

	r.logger.Debug("email drafted",
		zap.Int("index", index),
		zap.String("role", job.Role),
		zap.Int("links", len(res.Links)),
		zap.Int("score", res.Report.Score),
	)

	return res, err
}
