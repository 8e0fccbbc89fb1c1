package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CAREERQUEST_DB", "CAREERQUEST_USER", "CAREERQUEST_CATALOG",
		"CAREERQUEST_LOG_MODE", "CAREERQUEST_LOG_LEVEL",
		"CAREERQUEST_LLM_PROVIDER", "CAREERQUEST_LLM_MODEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingOptionalFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	require.NoError(t, err)
	assert.Equal(t, "quiet", cfg.Log.Mode)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"), false)
	assert.Error(t, err)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
db: /tmp/cq.db
user: alice
log:
  mode: dev
llm:
  provider: gemini
  timeout: 10s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	t.Setenv("CAREERQUEST_USER", "bob")

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cq.db", cfg.DBPath)
	assert.Equal(t, "bob", cfg.UserID, "env overrides file")
	assert.Equal(t, "dev", cfg.Log.Mode)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 10*time.Second, cfg.LLM.Timeout)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unclosed"), 0o644))
	_, err := Load(path, true)
	assert.Error(t, err)
}

func TestResolveUserID(t *testing.T) {
	cfg := Default()
	cfg.UserID = "explicit"
	assert.Equal(t, "explicit", cfg.ResolveUserID())

	cfg.UserID = ""
	id := cfg.ResolveUserID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, Default().ResolveUserID(), "derived id must be stable")
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "careerquest", "config.yaml"), p)
}
