package sanitize

import (
	"regexp"
	"strings"
)

// DefaultReasoningTag is the wrapper reasoning models put around their deliberation.
const DefaultReasoningTag = "think"

//nolint:gochecknoglobals // Compiled once, read-only
var defaultStripper = NewStripper(DefaultReasoningTag)

// Stripper removes reasoning wrapper spans such as <think>...</think> from model output.
type Stripper struct {
	pattern *regexp.Regexp
}

// NewStripper creates a stripper for the given wrapper tag names. Matching is
// case-insensitive and spans newlines.
func NewStripper(tags ...string) (stripper *Stripper) {
	if len(tags) == 0 {
		tags = []string{DefaultReasoningTag}
	}

	alternatives := make([]string, 0, len(tags))
	for _, tag := range tags {
		quoted := regexp.QuoteMeta(strings.TrimSpace(tag))
		alternatives = append(alternatives, "<"+quoted+">.*?</"+quoted+">")
	}

	stripper = &Stripper{
		pattern: regexp.MustCompile(`(?is)` + strings.Join(alternatives, "|")),
	}
	return stripper
}

// Strip removes every complete wrapper span and trims the result. Unterminated
// markers are left in place.
func (s *Stripper) Strip(text string) (cleaned string) {
	cleaned = text

	// A removal can splice a new span together ("<th<think>x</think>ink>"),
	// so keep going until nothing matches.
	for {
		next := s.pattern.ReplaceAllString(cleaned, "")
		if next == cleaned {
			break
		}
		cleaned = next
	}

	cleaned = strings.TrimSpace(cleaned)
	return cleaned
}

// StripReasoning removes <think>...</think> spans using the default stripper.
func StripReasoning(text string) (cleaned string) {
	cleaned = defaultStripper.Strip(text)
	return cleaned
}
