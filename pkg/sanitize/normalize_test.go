package sanitize

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSingleObject(t *testing.T) {
	set, err := Normalize(`{"role":"X"}`, true)
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, "X", set[0].Role)
	assert.Empty(t, set[0].Skills, "missing fields are not fabricated")
}

func TestNormalizeEmptyArray(t *testing.T) {
	set, err := Normalize(`[]`, true)
	require.NoError(t, err)
	assert.NotNil(t, set)
	assert.Empty(t, set)
}

func TestNormalizeArrayKeepsOrderAndExtraKeys(t *testing.T) {
	set, err := Normalize(`[{"role":"A","location":"Remote"},{"role":"B"},"stray"]`, true)
	require.NoError(t, err)
	require.Len(t, set, 3)

	assert.Equal(t, "A", set[0].Role)
	assert.Equal(t, "Remote", set[0].Extra["location"])
	assert.Equal(t, "B", set[1].Role)
	assert.False(t, set[2].IsRecord())
	assert.Equal(t, `"stray"`, set[2].Raw)
}

func TestNormalizeNoFragment(t *testing.T) {
	_, err := Normalize("", false)
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, NoFragment, extractionErr.Kind)
	assert.True(t, errors.Is(err, ErrNoFragment))
	assert.False(t, errors.Is(err, ErrMalformedPayload))
}

func TestNormalizeMalformed(t *testing.T) {
	inputs := []string{
		`{role: X}`,
		`[{"role":"A"},]`,
		`not json at all`,
		`"just a string"`,
		`42`,
	}

	for _, input := range inputs {
		_, err := Normalize(input, true)
		require.Error(t, err, input)

		var extractionErr *ExtractionError
		require.True(t, errors.As(err, &extractionErr), input)
		assert.Equal(t, MalformedPayload, extractionErr.Kind, input)
		assert.Equal(t, input, extractionErr.Fragment)
		assert.True(t, errors.Is(err, ErrMalformedPayload), input)
	}
}

func TestExtract(t *testing.T) {
	raw := "<think>reasoning</think>\n```json\n[{\"role\":\"Engineer\",\"experience\":\"3 yrs\",\"skills\":[\"Go\"],\"description\":\"Build services\"}]\n```"

	set, err := Extract(raw)
	require.NoError(t, err)
	require.Len(t, set, 1)

	job := set[0]
	assert.Equal(t, "Engineer", job.Role)
	assert.Equal(t, "3 yrs", job.Experience)
	assert.Equal(t, []string{"Go"}, job.Skills)
	assert.Equal(t, "Build services", job.Description)
}

func TestExtractFailures(t *testing.T) {
	_, err := Extract("<think>[1,2]</think>No jobs here.")
	assert.True(t, errors.Is(err, ErrNoFragment), "brackets inside reasoning must not count")

	_, err = Extract("Jobs: {oops}")
	assert.True(t, errors.Is(err, ErrMalformedPayload))
}

func TestStripperExtract(t *testing.T) {
	stripper := NewStripper("reasoning")

	set, err := stripper.Extract("<reasoning>try {\"role\":\"wrong\"}</reasoning>[{\"role\":\"Right\"}]")
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, "Right", set[0].Role)

	raw := "<reasoning>thinking</reasoning>Nothing listed."
	_, err = stripper.Extract(raw)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, NoFragment, extractionErr.Kind)
	assert.Equal(t, raw, extractionErr.Raw)
}

func TestExtractionErrorMessage(t *testing.T) {
	err := &ExtractionError{Kind: MalformedPayload, Raw: "RAW TEXT", Err: errors.New("bad char")}

	msg := err.Error()
	assert.Contains(t, msg, "malformed")
	assert.Contains(t, msg, "bad char")
	assert.Contains(t, msg, "RAW OUTPUT:\nRAW TEXT")
	assert.Equal(t, "MalformedPayload", err.Kind.String())
	assert.Equal(t, "NoFragment", NoFragment.String())
}
