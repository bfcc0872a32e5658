package outreach

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nikogura/referral-mailer/pkg/posting"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubMailer struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
	failRole string
}

func (s *stubMailer) WriteMail(ctx context.Context, job posting.JobPosting, links []string) (message string, err error) {
	s.calls.Add(1)
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	if job.Role == s.failRole {
		err = errors.New("upstream unavailable")
		return message, err
	}

	select {
	case <-ctx.Done():
		err = ctx.Err()
		return message, err
	case <-time.After(5 * time.Millisecond):
	}

	message = fmt.Sprintf("Subject: %s\n\nDear Hiring Manager,\n\nAbout the %s role.\n", job.Role, job.Role)
	for _, l := range links {
		message += "* " + l + "\n"
	}
	message += "\nBest regards,\nTaniya\nBusiness Development Executive | XYZ Solutions"
	return message, err
}

type stubMatcher struct {
	mu   sync.Mutex
	seen [][]string
}

func (s *stubMatcher) QueryLinks(_ context.Context, skills []string, n int) (links []string, err error) {
	s.mu.Lock()
	s.seen = append(s.seen, skills)
	s.mu.Unlock()

	for i := 0; i < n; i++ {
		links = append(links, fmt.Sprintf("https://example.com/%s/%d", strings.ToLower(strings.Join(skills, "-")), i))
	}
	return links, err
}

func jobs(roles ...string) (set posting.Set) {
	for _, role := range roles {
		set = append(set, posting.JobPosting{Role: role, Skills: []string{role}})
	}
	return set
}

func TestRunKeepsPostingOrder(t *testing.T) {
	mailer := &stubMailer{}
	matcher := &stubMatcher{}
	runner := NewRunner(mailer, matcher, Options{Concurrency: 3, Signature: "Taniya"}, zaptest.NewLogger(t))

	results, err := runner.Run(context.Background(), jobs("A", "B", "C", "D", "E"))
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, res := range results {
		assert.Equal(t, i, res.Index)
		assert.Equal(t, string(rune('A'+i)), res.Job.Role)
		assert.Len(t, res.Links, 2)
		assert.True(t, strings.HasPrefix(res.Message, "Subject: "+res.Job.Role))
		assert.True(t, res.Report.OK(), "issues: %+v", res.Report.Issues)
	}

	assert.LessOrEqual(t, mailer.peak.Load(), int32(3))
	assert.Len(t, matcher.seen, 5)
}

func TestRunSkipsNonRecords(t *testing.T) {
	set := jobs("A")
	set = append(set, posting.JobPosting{Raw: `"just a string"`})
	set = append(set, jobs("B")...)

	runner := NewRunner(&stubMailer{}, nil, Options{}, nil)

	results, err := runner.Run(context.Background(), set)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 2, results[1].Index)
	assert.Empty(t, results[1].Links)
}

func TestRunFirstErrorWins(t *testing.T) {
	mailer := &stubMailer{failRole: "B"}
	runner := NewRunner(mailer, &stubMatcher{}, Options{Concurrency: 1}, nil)

	results, err := runner.Run(context.Background(), jobs("A", "B", "C", "D"))
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "upstream unavailable")
	assert.Less(t, mailer.calls.Load(), int32(4))
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(&stubMailer{}, nil, Options{RequestsPerSecond: 1}, nil)

	_, err := runner.Run(ctx, jobs("A"))
	require.Error(t, err)
}

func TestRunRateLimited(t *testing.T) {
	runner := NewRunner(&stubMailer{}, nil, Options{Concurrency: 4, RequestsPerSecond: 1000}, nil)

	results, err := runner.Run(context.Background(), jobs("A", "B", "C"))
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestRunReportsDrift(t *testing.T) {
	runner := NewRunner(&stubMailer{}, nil, Options{Signature: "Somebody Else"}, nil)

	results, err := runner.Run(context.Background(), jobs("A"))
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.False(t, results[0].Report.OK())
	assert.Equal(t, 0, results[0].Report.BulletCount)
}

func TestRunEmptySet(t *testing.T) {
	runner := NewRunner(&stubMailer{}, nil, Options{}, nil)

	results, err := runner.Run(context.Background(), posting.Set{})
	require.NoError(t, err)
	assert.Empty(t, results)
}
