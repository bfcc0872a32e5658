package sanitize

import (
	"encoding/json"
	"fmt"

	"github.com/nikogura/referral-mailer/pkg/posting"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// ErrorKind classifies extraction failures.
type ErrorKind int

const (
	// NoFragment means no object or array literal was found in the model output.
	NoFragment ErrorKind = iota + 1
	// MalformedPayload means a literal was found but did not parse, or parsed to a scalar.
	MalformedPayload
)

//nolint:gochecknoglobals // Sentinel errors
var (
	// ErrNoFragment matches extraction errors of kind NoFragment.
	ErrNoFragment = errors.New("no JSON found in model output")
	// ErrMalformedPayload matches extraction errors of kind MalformedPayload.
	ErrMalformedPayload = errors.New("JSON in model output is malformed")
)

func (k ErrorKind) String() (name string) {
	switch k {
	case NoFragment:
		name = "NoFragment"
	case MalformedPayload:
		name = "MalformedPayload"
	default:
		name = fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return name
}

func (k ErrorKind) sentinel() (err error) {
	err = ErrMalformedPayload
	if k == NoFragment {
		err = ErrNoFragment
	}
	return err
}

// ExtractionError reports why model output could not be turned into postings.
type ExtractionError struct {
	Kind     ErrorKind
	Fragment string // located literal, empty for NoFragment
	Raw      string // full model output, set by the caller that made the request
	Err      error  // parser detail, if any
}

func (e *ExtractionError) Error() (msg string) {
	msg = e.Kind.sentinel().Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Raw != "" {
		msg += "\n\nRAW OUTPUT:\n" + e.Raw
	}
	return msg
}

// Unwrap returns the parser detail.
func (e *ExtractionError) Unwrap() (err error) {
	err = e.Err
	return err
}

// Is matches ErrNoFragment or ErrMalformedPayload according to Kind.
func (e *ExtractionError) Is(target error) (ok bool) {
	ok = target == e.Kind.sentinel()
	return ok
}

// Normalize parses a located fragment into a posting set. A single object
// becomes a one-element set; an array is returned element for element.
func Normalize(fragment string, found bool) (set posting.Set, err error) {
	if !found {
		err = &ExtractionError{Kind: NoFragment}
		return set, err
	}

	if !gjson.Valid(fragment) {
		err = &ExtractionError{
			Kind:     MalformedPayload,
			Fragment: fragment,
			Err:      syntaxDetail(fragment),
		}
		return set, err
	}

	parsed := gjson.Parse(fragment)
	switch {
	case parsed.IsObject():
		set = posting.Set{posting.FromResult(parsed)}
	case parsed.IsArray():
		items := parsed.Array()
		set = make(posting.Set, 0, len(items))
		for _, item := range items {
			set = append(set, posting.FromResult(item))
		}
	default:
		err = &ExtractionError{
			Kind:     MalformedPayload,
			Fragment: fragment,
			Err:      errors.Errorf("unsupported top-level %s value", parsed.Type),
		}
	}

	return set, err
}

// Extract runs raw model output through Strip, LocateFragment and Normalize.
// An *ExtractionError carries raw unmodified in Raw.
func (s *Stripper) Extract(raw string) (set posting.Set, err error) {
	fragment, found := LocateFragment(s.Strip(raw))
	set, err = Normalize(fragment, found)
	if err != nil {
		var extractionErr *ExtractionError
		if errors.As(err, &extractionErr) {
			extractionErr.Raw = raw
		}
		return set, err
	}
	return set, err
}

// Extract runs raw model output through the default stripper, LocateFragment
// and Normalize.
func Extract(raw string) (set posting.Set, err error) {
	set, err = defaultStripper.Extract(raw)
	return set, err
}

// syntaxDetail asks encoding/json where the fragment breaks, for diagnostics only.
func syntaxDetail(fragment string) (err error) {
	var probe any
	err = json.Unmarshal([]byte(fragment), &probe)
	if err == nil {
		err = errors.New("invalid JSON")
	}
	return err
}
