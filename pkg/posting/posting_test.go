package posting

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestFromResult(t *testing.T) {
	p := FromResult(gjson.Parse(`{"role":"SRE","Experience":5,"skills":["Go"," Terraform ",""],"description":"On call","team":"infra"}`))

	assert.Equal(t, "SRE", p.Role)
	assert.Equal(t, "5", p.Experience)
	assert.Equal(t, []string{"Go", "Terraform"}, p.Skills)
	assert.Equal(t, "On call", p.Description)
	assert.Equal(t, map[string]any{"team": "infra"}, p.Extra)
	assert.True(t, p.IsRecord())
}

func TestFromResultSkillsVariants(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"comma separated string", `{"skills":"Go, Python ,SQL"}`, []string{"Go", "Python", "SQL"}},
		{"null", `{"skills":null}`, nil},
		{"missing", `{"role":"x"}`, nil},
		{"single number", `{"skills":3}`, []string{"3"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FromResult(gjson.Parse(tc.input)).Skills)
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	p := JobPosting{
		Role:   "Engineer",
		Skills: []string{"Go"},
		Extra:  map[string]any{"location": "Remote"},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"Engineer","skills":["Go"],"location":"Remote"}`, string(data))
}

func TestSetRoundTrip(t *testing.T) {
	input := `[{"role":"A","skills":["Go"],"level":"senior"},42]`

	var set Set
	require.NoError(t, json.Unmarshal([]byte(input), &set))
	require.Len(t, set, 2)
	assert.Equal(t, "A", set[0].Role)
	assert.False(t, set[1].IsRecord())

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(data))
}

func TestMarshalJSONKeepsModelKeys(t *testing.T) {
	input := `{"role":"","experience":null,"skills":"Go, Rust","description":"d","level":3,"Team":{"size":4}}`

	var p JobPosting
	require.NoError(t, json.Unmarshal([]byte(input), &p))
	assert.Equal(t, []string{"Go", "Rust"}, p.Skills)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(data))
}

func TestMarshalJSONKeepsNonStringValues(t *testing.T) {
	input := "{\n  \"role\": 42,\n  \"skills\": [\"Go\"]\n}"

	data, err := json.Marshal(FromResult(gjson.Parse(input)))
	require.NoError(t, err)
	assert.Equal(t, `{"role":42,"skills":["Go"]}`, string(data))
}

func TestMarshalJSONAfterEdit(t *testing.T) {
	p := FromResult(gjson.Parse(`{"role":"SRE","skills":["Go"],"level":3}`))
	p.Role = "Platform Engineer"

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"Platform Engineer","skills":["Go"],"level":3}`, string(data))
}

func TestUnmarshalJSONInvalid(t *testing.T) {
	var p JobPosting
	assert.Error(t, p.UnmarshalJSON([]byte(`{"role":`)))
}
