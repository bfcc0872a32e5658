package posting

import (
	"encoding/json"
	"reflect"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// JobPosting represents one job record extracted from a careers page.
// Fields the model did not emit stay at their zero value.
type JobPosting struct {
	Role        string         `json:"role,omitempty"`
	Experience  string         `json:"experience,omitempty"`
	Skills      []string       `json:"skills,omitempty"`
	Description string         `json:"description,omitempty"`
	Extra       map[string]any `json:"-"` // keys outside the recognized four
	Raw         string         `json:"-"` // element text as the model emitted it
}

// Set is an ordered collection of postings.
type Set []JobPosting

// FromResult builds a posting from a parsed JSON value. Values that are not
// objects are kept verbatim in Raw with no recognized fields.
func FromResult(r gjson.Result) (p JobPosting) {
	p.Raw = r.Raw
	if !r.IsObject() {
		return p
	}

	r.ForEach(func(key, value gjson.Result) (keepGoing bool) {
		switch strings.ToLower(strings.TrimSpace(key.String())) {
		case "role":
			p.Role = value.String()
		case "experience":
			p.Experience = value.String()
		case "skills":
			p.Skills = skillsFrom(value)
		case "description":
			p.Description = value.String()
		default:
			if p.Extra == nil {
				p.Extra = make(map[string]any)
			}
			p.Extra[key.String()] = value.Value()
		}
		keepGoing = true
		return keepGoing
	})

	return p
}

// skillsFrom accepts an array of labels or a single comma separated string.
func skillsFrom(value gjson.Result) (skills []string) {
	switch {
	case value.IsArray():
		for _, item := range value.Array() {
			label := strings.TrimSpace(item.String())
			if label != "" {
				skills = append(skills, label)
			}
		}
	case value.Type == gjson.String:
		for _, label := range strings.Split(value.String(), ",") {
			label = strings.TrimSpace(label)
			if label != "" {
				skills = append(skills, label)
			}
		}
	case value.Exists() && value.Type != gjson.Null:
		skills = []string{value.String()}
	}
	return skills
}

// IsRecord reports whether the posting came from a JSON object.
func (p JobPosting) IsRecord() (ok bool) {
	if p.Raw == "" {
		ok = true
		return ok
	}
	ok = gjson.Parse(p.Raw).IsObject()
	return ok
}

// MarshalJSON emits a parsed posting exactly as the model wrote it, keeping
// every key, null and empty string, and original value types. Postings built
// in code, or whose fields were changed after parsing, emit the recognized
// fields merged with Extra. Non-object elements are emitted as received.
func (p JobPosting) MarshalJSON() (data []byte, err error) {
	if !p.IsRecord() || p.unchanged() {
		data = []byte(p.Raw)
		return data, err
	}

	fields := make(map[string]any, len(p.Extra)+4)
	for k, v := range p.Extra {
		fields[k] = v
	}
	if p.Role != "" {
		fields["role"] = p.Role
	}
	if p.Experience != "" {
		fields["experience"] = p.Experience
	}
	if p.Skills != nil {
		fields["skills"] = p.Skills
	}
	if p.Description != "" {
		fields["description"] = p.Description
	}

	data, err = json.Marshal(fields)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal job posting")
		return data, err
	}

	return data, err
}

// unchanged reports whether p still matches the raw object it was parsed from.
func (p JobPosting) unchanged() (same bool) {
	if p.Raw == "" {
		return same
	}

	orig := FromResult(gjson.Parse(p.Raw))
	same = orig.Role == p.Role &&
		orig.Experience == p.Experience &&
		orig.Description == p.Description &&
		slices.Equal(orig.Skills, p.Skills) &&
		reflect.DeepEqual(orig.Extra, p.Extra)
	return same
}

// UnmarshalJSON decodes a posting with the same leniency as FromResult.
func (p *JobPosting) UnmarshalJSON(data []byte) (err error) {
	if !gjson.ValidBytes(data) {
		err = errors.New("invalid job posting JSON")
		return err
	}
	*p = FromResult(gjson.ParseBytes(data))
	return err
}
