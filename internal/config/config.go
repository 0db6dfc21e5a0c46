// Package config loads run configuration for tokenmetry.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/celestiaorg/tokenmetry/internal/model"
	"github.com/celestiaorg/tokenmetry/internal/tokenizer"
)

// Duration wraps time.Duration so YAML values like "5m" parse directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// RepositoryConfig identifies one repository and where its checkout lives.
type RepositoryConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Path string `yaml:"path"`
}

// Config is the full run configuration.
type Config struct {
	// Tokenizer is the tiktoken encoding name recorded as the run's
	// tokenizer identity.
	Tokenizer string `yaml:"tokenizer"`

	// OutputDir receives meta_index.json and repository_data/.
	OutputDir string `yaml:"output_dir"`

	// Extensions is the file extension allow-list.
	Extensions []string `yaml:"extensions"`

	// MaxFileSize excludes files larger than this many bytes.
	MaxFileSize int64 `yaml:"max_file_size"`

	// Workers bounds the per-file worker pool within one repository.
	// Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Parallel bounds how many repositories are analyzed concurrently.
	Parallel int `yaml:"parallel"`

	// RepoTimeout converts a stuck repository into a repository-level error.
	RepoTimeout Duration `yaml:"repo_timeout"`

	Repositories []RepositoryConfig `yaml:"repositories"`
}

// Default returns the configuration used when fields are omitted.
func Default() Config {
	return Config{
		Tokenizer:   tokenizer.DefaultEncoding,
		OutputDir:   "_site",
		Extensions:  []string{".go", ".md", ".rs", ".sol", ".proto"},
		MaxFileSize: 1 << 20,
		Parallel:    4,
		RepoTimeout: Duration(5 * time.Minute),
	}
}

// Load reads a YAML config file and applies defaults for omitted fields.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Tokenizer == "" {
		cfg.Tokenizer = tokenizer.DefaultEncoding
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = Default().Extensions
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = Default().Parallel
	}
	return cfg, nil
}

// LoadReposFile reads a plain repository list, one URL per line. Blank lines
// and lines starting with "#" are skipped. Repository names derive from the
// URL basename minus any ".git" suffix.
func LoadReposFile(path string) ([]model.Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading repos file: %w", err)
	}
	defer f.Close()

	var repos []model.Repository
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		repos = append(repos, model.Repository{Name: RepoName(line), URL: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading repos file %s: %w", path, err)
	}
	return repos, nil
}

// RepoName derives a repository name from its URL.
func RepoName(url string) string {
	name := strings.TrimSuffix(url, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".git")
}
