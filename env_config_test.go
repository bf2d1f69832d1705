// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("ZEROEVAL_API_KEY", "env-key")
	t.Setenv("ZEROEVAL_API_URL", "https://zeroeval.example.com")
	t.Setenv("ZEROEVAL_SERVICE_NAME", "env-service")
	t.Setenv("ZEROEVAL_WORKSPACE_ID", "ws-env")

	opts := &Options{}
	opts.setDefaults()

	assert.Equal(t, "env-key", opts.APIKey)
	assert.Equal(t, "https://zeroeval.example.com", opts.APIURL)
	assert.Equal(t, "env-service", opts.Service)
	assert.Equal(t, "ws-env", opts.WorkspaceID)
}

func TestApplyEnvConfig_ExplicitOptionsWin(t *testing.T) {
	t.Setenv("ZEROEVAL_API_KEY", "env-key")
	t.Setenv("ZEROEVAL_SERVICE_NAME", "env-service")

	opts := &Options{
		APIKey:  "explicit-key",
		Service: "explicit-service",
	}
	opts.setDefaults()

	assert.Equal(t, "explicit-key", opts.APIKey)
	assert.Equal(t, "explicit-service", opts.Service)
}

func TestApplyEnvConfig_Debug(t *testing.T) {
	t.Setenv("ZEROEVAL_DEBUG", "true")

	opts := &Options{}
	opts.setDefaults()

	assert.Equal(t, Debug, opts.LogLevel)
}

func TestApplyEnvConfig_DisabledIntegrations(t *testing.T) {
	t.Setenv("ZEROEVAL_DISABLED_INTEGRATIONS", "HTTP, openai,")

	opts := &Options{}
	opts.setDefaults()

	assert.Equal(t, map[string]bool{
		"http":   true,
		"openai": true,
	}, opts.Tracer.DisabledIntegrations)
}

func TestApplyEnvConfig_Secrets(t *testing.T) {
	t.Setenv("ZEROEVAL_SECRETS", "equals:classified,restricted")

	opts := &Options{}
	opts.setDefaults()

	require.NotNil(t, opts.Tracer.Secrets)
	assert.True(t, opts.Tracer.Secrets.Match("classified"))
	assert.True(t, opts.Tracer.Secrets.Match("restricted"))
	assert.False(t, opts.Tracer.Secrets.Match("key"))
}

func TestApplyEnvConfig_MalformedSecrets(t *testing.T) {
	t.Setenv("ZEROEVAL_SECRETS", "malformed-matcher-config")

	opts := &Options{}
	opts.setDefaults()

	// the default matcher stays in place when the configuration is malformed
	require.NotNil(t, opts.Tracer.Secrets)
	assert.True(t, opts.Tracer.Secrets.Match("api_key"))
}

func TestParseSecrets(t *testing.T) {
	examples := map[string]struct {
		Value    string
		Matching []string
	}{
		"equals":               {"equals:secret", []string{"secret"}},
		"equals-ignore-case":   {"equals-ignore-case:SECRET", []string{"secret"}},
		"contains":             {"contains:cret", []string{"secret"}},
		"contains-ignore-case": {"contains-ignore-case:CRET", []string{"secret"}},
		"regex":                {"regex:sec.+", []string{"secret"}},
	}

	for name, example := range examples {
		t.Run(name, func(t *testing.T) {
			m, err := parseSecrets(example.Value)
			require.NoError(t, err)

			for _, s := range example.Matching {
				assert.True(t, m.Match(s), "expected %q to match", s)
			}
		})
	}
}

func TestParseSecrets_Malformed(t *testing.T) {
	for _, value := range []string{"", "no-colon", "unknown:term"} {
		_, err := parseSecrets(value)
		assert.Error(t, err, "expected %q to fail", value)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, DefaultMaxBufferedSpans, opts.MaxBufferedSpans)
	assert.Equal(t, DefaultForceSpanSendAt, opts.ForceTransmissionStartingAt)
	assert.Equal(t, DefaultMaxBufferedSignals, opts.MaxBufferedSignals)
	assert.Equal(t, MaxLogsPerSpan, opts.Tracer.MaxLogsPerSpan)
	assert.NotNil(t, opts.Tracer.Secrets)
}
