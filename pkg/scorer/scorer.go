package scorer

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxScore is the score of a fully conforming message.
const MaxScore = 100

// ExpectedBullets is the number of portfolio bullets a message should carry.
const ExpectedBullets = 2

//nolint:gochecknoglobals // Compiled once, read-only
var (
	salutationPattern = regexp.MustCompile(`(?im)^\s*(dear|hello|hi|greetings)\b[^\n]*,?\s*$`)
	bulletPattern     = regexp.MustCompile(`(?m)^\s*(?:[*•-]|\d+[.)])\s+\S`)
	markdownPattern   = regexp.MustCompile(`(?m)\*\*[^*\n]+\*\*|^#{1,6}\s`)
)

// Issue is a single rule violation found in a message.
type Issue struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Detail   string `json:"detail"`
}

// Report describes how closely a message follows the email template.
type Report struct {
	Score         int     `json:"score"`
	HasSubject    bool    `json:"has_subject"`
	HasSalutation bool    `json:"has_salutation"`
	BulletCount   int     `json:"bullet_count"`
	HasSignature  bool    `json:"has_signature"`
	MentionsRole  bool    `json:"mentions_role"`
	Issues        []Issue `json:"issues"`
}

// OK reports whether no rule was violated.
func (r Report) OK() (ok bool) {
	ok = len(r.Issues) == 0
	return ok
}

// Scorer checks final messages against the email template.
type Scorer struct {
	signature string
}

// NewScorer creates a scorer expecting messages signed by signature.
func NewScorer(signature string) (scorer *Scorer) {
	scorer = &Scorer{signature: strings.TrimSpace(signature)}
	return scorer
}

// Score evaluates a final message for the given role. It never fails; format
// drift is reported as issues.
func (s *Scorer) Score(message, role string) (report Report) {
	report = Report{Issues: []Issue{}}
	text := strings.TrimSpace(message)

	report.HasSubject = strings.HasPrefix(text, "Subject:")
	if !report.HasSubject {
		report.addIssue(RuleMissingSubject, "first line: "+firstLine(text))
	}

	report.HasSalutation = salutationPattern.MatchString(text)
	if !report.HasSalutation {
		report.addIssue(RuleMissingSalutation, "")
	}

	report.BulletCount = len(bulletPattern.FindAllString(text, -1))
	if report.BulletCount != ExpectedBullets {
		report.addIssue(RuleBulletCount, "found "+strconv.Itoa(report.BulletCount))
	}

	report.HasSignature = s.hasSignature(text)
	if !report.HasSignature {
		report.addIssue(RuleMissingSignature, "expected "+s.signature)
	}

	report.MentionsRole = role == "" || strings.Contains(strings.ToLower(text), strings.ToLower(role))
	if !report.MentionsRole {
		report.addIssue(RuleMissingRole, role)
	}

	if markdownPattern.MatchString(text) {
		report.addIssue(RuleLeftoverMarkup, "")
	}

	report.Score = calculateScore(report.Issues)
	return report
}

// hasSignature looks for the sender name in the last lines of the message.
func (s *Scorer) hasSignature(text string) (found bool) {
	if s.signature == "" {
		found = true
		return found
	}

	lines := strings.Split(text, "\n")
	start := len(lines) - 4
	if start < 0 {
		start = 0
	}

	for _, line := range lines[start:] {
		if strings.Contains(line, s.signature) {
			found = true
			return found
		}
	}
	return found
}

func (r *Report) addIssue(rule, detail string) {
	r.Issues = append(r.Issues, Issue{
		Rule:     rule,
		Severity: ConformanceRules[rule].Severity,
		Detail:   detail,
	})
}

func calculateScore(issues []Issue) (score int) {
	score = MaxScore

	for _, issue := range issues {
		rule, exists := ConformanceRules[issue.Rule]
		if !exists {
			continue
		}
		score -= rule.Weight
	}

	if score < 0 {
		score = 0
	}

	return score
}

func firstLine(text string) (line string) {
	line, _, _ = strings.Cut(text, "\n")
	return line
}
