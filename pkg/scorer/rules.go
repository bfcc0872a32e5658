package scorer

// Rule represents a conformance rule for generated messages.
type Rule struct {
	Name        string
	Severity    string // major, minor
	Description string
	Weight      int // Points deducted for violation
}

// Rule names.
const (
	RuleMissingSubject    = "MISSING_SUBJECT"
	RuleMissingSalutation = "MISSING_SALUTATION"
	RuleBulletCount       = "BULLET_COUNT"
	RuleMissingSignature  = "MISSING_SIGNATURE"
	RuleMissingRole       = "MISSING_ROLE"
	RuleLeftoverMarkup    = "LEFTOVER_MARKUP"
)

//nolint:gochecknoglobals // Scoring configuration constants
var ConformanceRules = map[string]Rule{
	RuleMissingSubject: {
		Name:        RuleMissingSubject,
		Severity:    "major",
		Description: "Message does not start with a Subject: line",
		Weight:      30,
	},
	RuleMissingSalutation: {
		Name:        RuleMissingSalutation,
		Severity:    "minor",
		Description: "No salutation line (Dear ..., Hello ..., Hi ...)",
		Weight:      10,
	},
	RuleBulletCount: {
		Name:        RuleBulletCount,
		Severity:    "major",
		Description: "Portfolio paragraph should have exactly two bullet points",
		Weight:      20,
	},
	RuleMissingSignature: {
		Name:        RuleMissingSignature,
		Severity:    "major",
		Description: "Signature block with the sender name is missing",
		Weight:      20,
	},
	RuleMissingRole: {
		Name:        RuleMissingRole,
		Severity:    "minor",
		Description: "Message never mentions the role it refers to",
		Weight:      10,
	},
	RuleLeftoverMarkup: {
		Name:        RuleLeftoverMarkup,
		Severity:    "minor",
		Description: "Markdown emphasis or headings left in plain-text email",
		Weight:      10,
	},
}
