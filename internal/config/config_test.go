package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, "cl100k_base", cfg.Tokenizer)
	assert.Equal(t, "_site", cfg.OutputDir)
	assert.Contains(t, cfg.Extensions, ".go")
	assert.Contains(t, cfg.Extensions, ".sol")
	assert.Equal(t, int64(1<<20), cfg.MaxFileSize)
	assert.Equal(t, 4, cfg.Parallel)
	assert.Equal(t, 5*time.Minute, time.Duration(cfg.RepoTimeout))
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "tokenmetry.yaml", `
tokenizer: o200k_base
output_dir: out
extensions: [".go", ".md"]
max_file_size: 2048
workers: 8
parallel: 2
repo_timeout: 90s
repositories:
  - name: celestia-app
    url: https://github.com/celestiaorg/celestia-app
    path: /srv/checkouts/celestia-app
  - name: celestia-node
    url: https://github.com/celestiaorg/celestia-node
    path: /srv/checkouts/celestia-node
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "o200k_base", cfg.Tokenizer)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, []string{".go", ".md"}, cfg.Extensions)
	assert.Equal(t, int64(2048), cfg.MaxFileSize)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 2, cfg.Parallel)
	assert.Equal(t, 90*time.Second, time.Duration(cfg.RepoTimeout))
	require.Len(t, cfg.Repositories, 2)
	assert.Equal(t, "celestia-app", cfg.Repositories[0].Name)
	assert.Equal(t, "/srv/checkouts/celestia-node", cfg.Repositories[1].Path)
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "minimal.yaml", `
repositories:
  - name: celestia-app
    url: https://github.com/celestiaorg/celestia-app
    path: /srv/celestia-app
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cl100k_base", cfg.Tokenizer)
	assert.Equal(t, "_site", cfg.OutputDir)
	assert.NotEmpty(t, cfg.Extensions)
	assert.Equal(t, 4, cfg.Parallel)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadBadDuration(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "bad.yaml", "repo_timeout: soon\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadReposFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "repos.txt", `
# Celestia repositories
https://github.com/celestiaorg/celestia-app.git

https://github.com/celestiaorg/celestia-node
`)

	repos, err := LoadReposFile(path)
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "celestia-app", repos[0].Name)
	assert.Equal(t, "https://github.com/celestiaorg/celestia-app.git", repos[0].URL)
	assert.Equal(t, "celestia-node", repos[1].Name)
}

func TestRepoName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://github.com/celestiaorg/celestia-app.git": "celestia-app",
		"https://github.com/celestiaorg/celestia-node":    "celestia-node",
		"https://github.com/celestiaorg/optimint/":        "optimint",
		"local-checkout":                                  "local-checkout",
	}
	for url, want := range cases {
		assert.Equal(t, want, RepoName(url), url)
	}
}
