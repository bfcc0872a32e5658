package sanitize

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

// Ranks of valid balanced spans, best last.
const (
	rankOther = iota
	rankEmptyObject
	rankEmptyArray
	rankRecords
)

// LocateFragment finds the JSON object or array literal holding the records
// in text.
//
// Openers are scanned left to right and each is matched against its balanced
// closer, honoring string literals and escapes. The first balanced span that
// holds records (a non-empty object, or an array with an object in it) wins.
// Other valid spans such as "[1]" or "{}" in surrounding prose are only used
// when nothing better turns up: an empty array first, then an empty object.
// A balanced span that does not parse is skipped as a whole, so values nested
// inside a broken payload are never picked out on their own; when nothing
// holds records it is returned so the caller can report it as malformed.
//
// An opener that never balances is skipped, unless the rest of the text reads
// as JSON cut off mid-value; that truncated payload is returned as is. When no
// opener balances at all the greedy rule applies: first opener through the
// last closer of the same kind.
func LocateFragment(text string) (fragment string, found bool) {
	var firstBalanced, bestValid string
	bestRank := -1

	for i := 0; i < len(text); {
		if text[i] != '{' && text[i] != '[' {
			i++
			continue
		}

		end, balanced := matchBracket(text, i)
		if !balanced {
			if truncatedJSON(text[i:]) {
				fragment, found = greedySpan(text[i:])
				return fragment, found
			}
			i++
			continue
		}

		span := text[i : end+1]
		if gjson.Valid(span) {
			rank := recordRank(span)
			if rank == rankRecords {
				fragment = span
				found = true
				return fragment, found
			}
			if rank > bestRank {
				bestRank = rank
				bestValid = span
			}
		} else if firstBalanced == "" {
			firstBalanced = span
		}
		i = end + 1
	}

	switch {
	case bestRank >= rankEmptyObject:
		fragment = bestValid
	case firstBalanced != "":
		fragment = firstBalanced
	case bestRank == rankOther:
		fragment = bestValid
	default:
		fragment, found = greedySpan(text)
		return fragment, found
	}

	found = true
	return fragment, found
}

// recordRank says how much a valid span looks like extracted records.
func recordRank(span string) (rank int) {
	parsed := gjson.Parse(span)
	switch {
	case parsed.IsObject():
		rank = rankEmptyObject
		parsed.ForEach(func(_, _ gjson.Result) (keepGoing bool) {
			rank = rankRecords
			return keepGoing
		})
	case parsed.IsArray():
		items := parsed.Array()
		if len(items) == 0 {
			rank = rankEmptyArray
			return rank
		}
		for _, item := range items {
			if item.IsObject() {
				rank = rankRecords
				return rank
			}
		}
	}
	return rank
}

// truncatedJSON reports whether text is valid JSON up to the point where it
// runs out, as happens when the model hits its token limit mid-payload.
func truncatedJSON(text string) (truncated bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	for {
		_, err := dec.Token()
		if err == nil {
			continue
		}
		truncated = err == io.EOF || err == io.ErrUnexpectedEOF
		return truncated
	}
}

// matchBracket returns the index of the closer balancing the opener at start.
func matchBracket(text string, start int) (end int, balanced bool) {
	stack := make([]byte, 0, 8)
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return end, balanced
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				end = i
				balanced = true
				return end, balanced
			}
		}
	}

	return end, balanced
}

// greedySpan spans from the first opener to the last closer of the same kind,
// or to the end of the text when that closer never appears.
func greedySpan(text string) (fragment string, found bool) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return fragment, found
	}

	closer := byte('}')
	if text[start] == '[' {
		closer = ']'
	}

	found = true
	end := strings.LastIndexByte(text, closer)
	if end < start {
		fragment = text[start:]
		return fragment, found
	}

	fragment = text[start : end+1]
	return fragment, found
}
