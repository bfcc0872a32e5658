package sanitize

import (
	"regexp"
	"strings"
)

// SubjectMarker is the line every generated email must start with.
const SubjectMarker = "Subject:"

// CleanupPattern is a named rewrite applied to a generated message.
type CleanupPattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// MessageCleaner turns a generated email draft into the final message.
type MessageCleaner struct {
	markupPatterns  []CleanupPattern
	spacingPatterns []CleanupPattern
	marker          string
}

//nolint:gochecknoglobals // Compiled once, read-only
var defaultCleaner = NewMessageCleaner()

// NewMessageCleaner creates a cleaner anchored on SubjectMarker.
func NewMessageCleaner() (cleaner *MessageCleaner) {
	cleaner = &MessageCleaner{
		markupPatterns:  buildMarkupPatterns(),
		spacingPatterns: buildSpacingPatterns(),
		marker:          SubjectMarker,
	}
	return cleaner
}

// Clean removes markup tags, drops everything before the subject line,
// collapses repeated blank lines and trims. It never fails: a draft without
// a subject line is returned trimmed.
func (m *MessageCleaner) Clean(draft string) (message string) {
	message = applyUntilStable(draft, m.markupPatterns)
	message = m.anchor(message)
	message = applyUntilStable(message, m.spacingPatterns)
	message = strings.TrimSpace(message)
	return message
}

func (m *MessageCleaner) anchor(text string) (anchored string) {
	idx := strings.Index(text, m.marker)
	if idx < 0 {
		anchored = strings.TrimSpace(text)
		return anchored
	}
	anchored = text[idx:]
	return anchored
}

// Postprocess cleans a draft with the default cleaner.
func Postprocess(draft string) (message string) {
	message = defaultCleaner.Clean(draft)
	return message
}

func applyUntilStable(text string, patterns []CleanupPattern) (result string) {
	result = text
	for {
		next := result
		for _, p := range patterns {
			next = p.Pattern.ReplaceAllString(next, p.Replacement)
		}
		if next == result {
			return result
		}
		result = next
	}
}

func buildMarkupPatterns() (patterns []CleanupPattern) {
	patterns = []CleanupPattern{
		{
			Name:        "Markup tag",
			Pattern:     regexp.MustCompile(`<[^<>]*>`),
			Replacement: "",
		},
	}
	return patterns
}

func buildSpacingPatterns() (patterns []CleanupPattern) {
	patterns = []CleanupPattern{
		{
			Name:        "Repeated blank lines",
			Pattern:     regexp.MustCompile(`\n(?:[ \t\r]*\n){2,}`),
			Replacement: "\n\n",
		},
	}
	return patterns
}
