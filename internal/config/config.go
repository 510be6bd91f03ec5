package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Auth   AuthConfig   `yaml:"auth"`
	LLM    LLMConfig    `yaml:"llm"`
	MCP    MCPConfig    `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// AuthConfig selects the token resolver. Mode "http" verifies tokens against
// VerifyURL; mode "static" uses the Tokens map ("token=user" pairs in env).
type AuthConfig struct {
	Mode      string            `yaml:"mode"`
	VerifyURL string            `yaml:"verify_url"`
	Tokens    map[string]string `yaml:"tokens"`
}

// LLMConfig configures the language-model gateway. Enabled false leaves the
// pipeline fully heuristic.
type LLMConfig struct {
	Enabled        bool   `yaml:"enabled"`
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// MCPConfig configures the stdio tool server.
type MCPConfig struct {
	User string `yaml:"user"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "lumen.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			Mode: "static",
		},
		LLM: LLMConfig{
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 30,
		},
		MCP: MCPConfig{
			User: "local",
		},
	}

	if path := os.Getenv("LUMEN_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("LUMEN_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("LUMEN_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LUMEN_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("LUMEN_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("LUMEN_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("LUMEN_AUTH_MODE"); mode != "" {
		cfg.Auth.Mode = mode
	}
	if url := os.Getenv("LUMEN_AUTH_VERIFY_URL"); url != "" {
		cfg.Auth.VerifyURL = url
	}
	if tokens := os.Getenv("LUMEN_AUTH_TOKENS"); tokens != "" {
		parsed, err := parseTokens(tokens)
		if err != nil {
			return Config{}, err
		}
		cfg.Auth.Tokens = parsed
	}
	if enabled := os.Getenv("LUMEN_LLM_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LUMEN_LLM_ENABLED: %w", err)
		}
		cfg.LLM.Enabled = v
	}
	if url := os.Getenv("LUMEN_LLM_BASE_URL"); url != "" {
		cfg.LLM.BaseURL = url
	}
	if key := os.Getenv("LUMEN_LLM_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if model := os.Getenv("LUMEN_LLM_MODEL"); model != "" {
		cfg.LLM.Model = model
	}
	if user := os.Getenv("LUMEN_MCP_USER"); user != "" {
		cfg.MCP.User = user
	}

	return cfg, nil
}

// parseTokens parses "token=user" pairs separated by commas.
func parseTokens(raw string) (map[string]string, error) {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		token, user, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || token == "" || user == "" {
			return nil, fmt.Errorf("invalid LUMEN_AUTH_TOKENS entry %q", pair)
		}
		tokens[token] = user
	}
	return tokens, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
