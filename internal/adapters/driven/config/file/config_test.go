package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, "gitdocs", cfg.Robots.UserAgent)
	assert.Empty(t, cfg.GitHub.Token)
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[github]
token = "ghp_filetoken"

[index]
path = "/tmp/index.db"

[server]
port = 8080
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte(content), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "ghp_filetoken", cfg.GitHub.Token)
	assert.Equal(t, "/tmp/index.db", cfg.Index.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	// Untouched sections keep their defaults.
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[github]
token = "ghp_filetoken"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte(content), 0600))
	t.Setenv("GITHUB_TOKEN", "ghp_envtoken")
	t.Setenv("GITDOCS_SERVER_PORT", "9999")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "ghp_envtoken", cfg.GitHub.Token)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte("not [ toml"), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := Default()
	in.GitHub.Token = "ghp_saved"
	in.Index.Path = "/data/index.db"

	require.NoError(t, Save(dir, in))

	out, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, in.GitHub.Token, out.GitHub.Token)
	assert.Equal(t, in.Index.Path, out.Index.Path)

	info, err := os.Stat(filepath.Join(dir, DefaultFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
