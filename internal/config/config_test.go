// (c) Copyright ZeroEval Inc. 2026

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Config{
		APIKey:      "test-key",
		APIURL:      "https://zeroeval.example.com",
		WorkspaceID: "ws-1",
	}
	require.NoError(t, SaveTo(path, cfg))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	// the file contains the API key, keep it private
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadFrom_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- not yaml"), 0o600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestConfig_Env(t *testing.T) {
	cfg := Config{
		APIKey:      "test-key",
		WorkspaceID: "ws-1",
	}

	assert.Equal(t, []string{
		"ZEROEVAL_API_KEY=test-key",
		"ZEROEVAL_WORKSPACE_ID=ws-1",
	}, cfg.Env())

	assert.Empty(t, Config{}.Env())
}
