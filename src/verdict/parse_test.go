package verdict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStripsFences(t *testing.T) {
	const payload = `{"verdict":"REAL","confidence":0.9,"rationale":"consistent lighting"}`

	plain, ok := Parse(payload)
	require.True(t, ok)

	wrapped := []string{
		"```json\n" + payload + "\n```",
		"```JSON\n" + payload + "```",
		"```\n" + payload + "\n```",
		"  ```json " + payload + " ```  \n",
		"```javascript\n" + payload + "\n```",
	}
	for _, raw := range wrapped {
		rec, ok := Parse(raw)
		require.True(t, ok, "input %q", raw)
		assert.Equal(t, plain, rec, "input %q", raw)
	}
}

func TestParseFaults(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"```json\n```",
		"The image appears to be authentic based on lighting.",
		`{"verdict": "FAKE"`,
		`{"verdict":"FAKE"} trailing prose`,
		`["FAKE", 0.9]`,
		`"FAKE"`,
		`null`,
		`0.4`,
	}
	for _, raw := range inputs {
		rec, ok := Parse(raw)
		assert.False(t, ok, "input %q", raw)
		assert.Nil(t, rec)
	}
}

func TestStripFencesOnlyRemovesOneOfEach(t *testing.T) {
	assert.Equal(t, "```x```", StripFences("``````x``````"))
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
}
