// (c) Copyright ZeroEval Inc. 2026

package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONOutput(t *testing.T) {
	type verdict struct {
		Score  float64 `json:"score"`
		Reason string  `json:"reason"`
	}

	examples := map[string]string{
		"valid":           `{"score": 0.9, "reason": "accurate"}`,
		"markdown fences": "```json\n{\"score\": 0.9, \"reason\": \"accurate\"}\n```",
		"trailing comma":  `{"score": 0.9, "reason": "accurate",}`,
		"unquoted keys":   `{score: 0.9, reason: "accurate"}`,
	}

	for name, content := range examples {
		t.Run(name, func(t *testing.T) {
			var v verdict
			require.NoError(t, ParseJSONOutput(content, &v))

			assert.Equal(t, 0.9, v.Score)
			assert.Equal(t, "accurate", v.Reason)
		})
	}
}

func TestParseJSONOutput_Unrepairable(t *testing.T) {
	var v map[string]interface{}
	assert.Error(t, ParseJSONOutput("certainly! here is some prose instead of JSON", &v))
}
