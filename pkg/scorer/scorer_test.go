package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodMessage = `Subject: Pre-vetted Go engineers for your Backend Engineer role

Dear Hiring Manager,

I am Taniya from XYZ Solutions, reaching out about the Backend Engineer role.

Our engineers build services in Go and Kubernetes.

Relevant work from our portfolio:
* https://example.com/go-platform shows a high-throughput Go platform
* https://example.com/k8s shows our Kubernetes operations practice

We focus on scalability and efficiency.

I would welcome a short call to discuss.

Best regards,
Taniya
Business Development Executive | XYZ Solutions`

func TestScoreConformingMessage(t *testing.T) {
	report := NewScorer("Taniya").Score(goodMessage, "Backend Engineer")

	assert.True(t, report.OK(), "issues: %+v", report.Issues)
	assert.Equal(t, MaxScore, report.Score)
	assert.True(t, report.HasSubject)
	assert.True(t, report.HasSalutation)
	assert.Equal(t, 2, report.BulletCount)
	assert.True(t, report.HasSignature)
	assert.True(t, report.MentionsRole)
}

func TestScoreDrift(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		role     string
		wantRule string
	}{
		{
			name:     "no subject",
			message:  "Dear Hiring Manager,\n* a\n* b\nTaniya",
			wantRule: RuleMissingSubject,
		},
		{
			name:     "no salutation",
			message:  "Subject: x\n\n* a\n* b\n\nTaniya",
			wantRule: RuleMissingSalutation,
		},
		{
			name:     "three bullets",
			message:  "Subject: x\nDear Team,\n- a\n- b\n- c\nTaniya",
			wantRule: RuleBulletCount,
		},
		{
			name:     "no signature",
			message:  "Subject: x\nHi there,\n* a\n* b\nRegards",
			wantRule: RuleMissingSignature,
		},
		{
			name:     "role not mentioned",
			message:  "Subject: x\nDear Team,\n* a\n* b\nTaniya",
			role:     "Data Scientist",
			wantRule: RuleMissingRole,
		},
		{
			name:     "markdown left in",
			message:  "Subject: x\nDear Team,\n**Bold** claim\n* a\n* b\nTaniya",
			wantRule: RuleLeftoverMarkup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := NewScorer("Taniya").Score(tt.message, tt.role)

			require.Len(t, report.Issues, 1, "issues: %+v", report.Issues)
			assert.Equal(t, tt.wantRule, report.Issues[0].Rule)
			assert.Equal(t, ConformanceRules[tt.wantRule].Severity, report.Issues[0].Severity)
			assert.Equal(t, MaxScore-ConformanceRules[tt.wantRule].Weight, report.Score)
		})
	}
}

func TestScoreNeverBelowZero(t *testing.T) {
	report := NewScorer("Taniya").Score("**nothing useful**", "Engineer")

	assert.False(t, report.OK())
	assert.GreaterOrEqual(t, report.Score, 0)
	assert.Len(t, report.Issues, 6)
}

func TestEmptySignatureAlwaysMatches(t *testing.T) {
	report := NewScorer("  ").Score(goodMessage, "")

	assert.True(t, report.HasSignature)
	assert.True(t, report.MentionsRole)
}
