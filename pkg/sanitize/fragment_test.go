package sanitize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateFragment(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		want      string
		wantFound bool
	}{
		{
			name:      "bare object",
			input:     `{"role":"X"}`,
			want:      `{"role":"X"}`,
			wantFound: true,
		},
		{
			name:      "array inside prose",
			input:     "Here are the jobs:\n[{\"role\":\"A\"},{\"role\":\"B\"}]\nLet me know!",
			want:      `[{"role":"A"},{"role":"B"}]`,
			wantFound: true,
		},
		{
			name:      "markdown fence",
			input:     "```json\n[\n  {\"skills\": [\"Go\", \"SQL\"]}\n]\n```",
			want:      "[\n  {\"skills\": [\"Go\", \"SQL\"]}\n]",
			wantFound: true,
		},
		{
			name:      "brackets inside strings do not end the literal",
			input:     `note: {"description":"use } and ] freely","role":"x"} trailing`,
			want:      `{"description":"use } and ] freely","role":"x"}`,
			wantFound: true,
		},
		{
			name:      "escaped quotes inside strings",
			input:     `{"description":"say \"hi]\""}`,
			want:      `{"description":"say \"hi]\""}`,
			wantFound: true,
		},
		{
			name:      "prose brackets before the payload are skipped",
			input:     "Result [see below]:\n[{\"role\":\"A\"}]",
			want:      `[{"role":"A"}]`,
			wantFound: true,
		},
		{
			name:      "trailing bracket text after the payload is excluded",
			input:     `[{"role":"A"}] and also [this]`,
			want:      `[{"role":"A"}]`,
			wantFound: true,
		},
		{
			name:      "broken payload is returned whole, nested values are not picked out",
			input:     `[{"role":"A"}, oops]`,
			want:      `[{"role":"A"}, oops]`,
			wantFound: true,
		},
		{
			name:      "whitespace before the closer is still balanced",
			input:     `[{"role":"A"} ] ]`,
			want:      `[{"role":"A"} ]`,
			wantFound: true,
		},
		{
			name:      "mismatched closer falls back to the greedy span",
			input:     `{"a": [1, 2} more }`,
			want:      `{"a": [1, 2} more }`,
			wantFound: true,
		},
		{
			name:      "truncated payload falls back to the rest of the text",
			input:     `jobs: [{"role":"A"}, {"role":"B`,
			want:      `[{"role":"A"}, {"role":"B`,
			wantFound: true,
		},
		{
			name:      "unclosed bracket in prose before the payload is skipped",
			input:     "Note (see [1 for details):\n{\"role\":\"A\"}",
			want:      `{"role":"A"}`,
			wantFound: true,
		},
		{
			name:      "unclosed brace in prose before an array payload is skipped",
			input:     "Using the { template\n[{\"role\":\"A\"}]",
			want:      `[{"role":"A"}]`,
			wantFound: true,
		},
		{
			name:      "empty braces in prose lose to the records",
			input:     "I filled the {} placeholders:\n[{\"role\":\"A\"},{\"role\":\"B\"}]",
			want:      `[{"role":"A"},{"role":"B"}]`,
			wantFound: true,
		},
		{
			name:      "citation brackets lose to the records",
			input:     "As noted in [1], the job is:\n{\"role\":\"A\"}",
			want:      `{"role":"A"}`,
			wantFound: true,
		},
		{
			name:      "empty array beats a citation",
			input:     "As noted in [1], there are no openings: []",
			want:      `[]`,
			wantFound: true,
		},
		{
			name:      "broken payload beats a citation",
			input:     "As noted in [1]: [{\"role\":\"A\"}, oops]",
			want:      `[{"role":"A"}, oops]`,
			wantFound: true,
		},
		{
			name:      "citation alone is still returned",
			input:     "See [1].",
			want:      `[1]`,
			wantFound: true,
		},
		{
			name:      "truncated payload after prose brackets",
			input:     "As noted in [1]: [{\"role\":\"A\"}, {\"ro",
			want:      `[{"role":"A"}, {"ro`,
			wantFound: true,
		},
		{
			name:      "no brackets",
			input:     "There are no open positions.",
			wantFound: false,
		},
		{
			name:      "empty input",
			input:     "",
			wantFound: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := LocateFragment(tc.input)
			assert.Equal(t, tc.wantFound, found)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLocateFragmentRoundTripsEmbeddedLiterals(t *testing.T) {
	literals := []string{
		`{"role":"Engineer","skills":["Go","K8s"],"nested":{"a":[1,2,{"b":null}]}}`,
		`[{"role":"A","experience":"2 yrs"},{"role":"B","skills":[]}]`,
		`[]`,
		`{}`,
	}
	wrappers := []struct {
		prefix string
		suffix string
	}{
		{"", ""},
		{"Sure! Here you go:\n", "\nHope this helps."},
		{"```json\n", "\n```"},
		{"<answer>\n", "\n</answer>"},
		{"Note (see [1 for details):\n", ""},
		{"Using the { template\n", "\nDone."},
		{"I filled the {} placeholders:\n", ""},
		{"As noted in [1], the job is:\n", "\nThanks."},
	}

	for _, literal := range literals {
		var want any
		require.NoError(t, json.Unmarshal([]byte(literal), &want))

		for _, w := range wrappers {
			fragment, found := LocateFragment(w.prefix + literal + w.suffix)
			require.True(t, found, "literal %s", literal)

			var got any
			require.NoError(t, json.Unmarshal([]byte(fragment), &got))
			assert.Equal(t, want, got)
		}
	}
}
