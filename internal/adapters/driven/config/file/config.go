// Package file loads the TOML configuration, layering environment
// overrides on top so secrets never have to live in the file.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the configuration file name inside the config dir.
const DefaultFileName = "config.toml"

// Config is the full application configuration.
type Config struct {
	GitHub    GitHubConfig    `toml:"github"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Index     IndexConfig     `toml:"index"`
	Store     StoreConfig     `toml:"store"`
	Robots    RobotsConfig    `toml:"robots"`
	Server    ServerConfig    `toml:"server"`
}

// GitHubConfig configures the GitHub connector.
type GitHubConfig struct {
	// Token authenticates API calls; empty means anonymous (60/h quota).
	Token string `toml:"token"`
}

// EmbeddingConfig configures the embedding backend.
type EmbeddingConfig struct {
	// APIKey for the OpenAI-compatible endpoint. Empty disables
	// semantic search; resolution still works.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the API endpoint.
	BaseURL string `toml:"base_url"`

	// Model selects the embedding model.
	Model string `toml:"model"`

	// Dimensions overrides the model's native width.
	Dimensions int `toml:"dimensions"`
}

// IndexConfig configures the vector index.
type IndexConfig struct {
	// Path to the SQLite index file. Empty keeps the index in memory.
	Path string `toml:"path"`
}

// StoreConfig configures the pre-generated documentation store.
type StoreConfig struct {
	// BaseURL of the HTTP object store. Empty disables the strategy.
	BaseURL string `toml:"base_url"`
}

// RobotsConfig configures robots.txt handling.
type RobotsConfig struct {
	// UserAgent is matched against robots.txt groups.
	UserAgent string `toml:"user_agent"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	// Port for the streamable HTTP transport; 0 means stdio only.
	Port int `toml:"port"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small"},
		Robots:    RobotsConfig{UserAgent: "gitdocs"},
	}
}

// Load reads the config file at dir/config.toml (defaulting the dir to
// ~/.gitdocs), then applies environment overrides. A missing file is
// not an error; defaults apply.
func Load(dir string) (Config, error) {
	cfg := Default()

	path, err := resolvePath(dir)
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults + environment only.
	case err != nil:
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Save writes the configuration to dir/config.toml with restricted
// permissions (the file can hold tokens).
func Save(dir string, cfg Config) error {
	path, err := resolvePath(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func resolvePath(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: home directory: %w", err)
		}
		dir = filepath.Join(home, ".gitdocs")
	}
	return filepath.Join(dir, DefaultFileName), nil
}

// applyEnv lets the environment override file values. GITHUB_TOKEN and
// OPENAI_API_KEY follow their ecosystem conventions; the rest are
// GITDOCS_-prefixed.
func applyEnv(cfg *Config) {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		cfg.GitHub.Token = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("GITDOCS_EMBEDDING_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if v := os.Getenv("GITDOCS_EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("GITDOCS_INDEX_PATH"); v != "" {
		cfg.Index.Path = v
	}
	if v := os.Getenv("GITDOCS_STORE_BASE_URL"); v != "" {
		cfg.Store.BaseURL = v
	}
	if v := os.Getenv("GITDOCS_ROBOTS_USER_AGENT"); v != "" {
		cfg.Robots.UserAgent = v
	}
	if v := os.Getenv("GITDOCS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}
