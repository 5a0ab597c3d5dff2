// Package config loads and validates the service configuration from an
// optional YAML file plus CANVASCHAT_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for the service.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Storage StorageConfig `mapstructure:"storage"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the host:port pair the server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// BackendConfig selects and parameterizes the model backend.
type BackendConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// StorageConfig names the directories backing the two blob stores.
type StorageConfig struct {
	UploadsDir   string `mapstructure:"uploads_dir"`
	GeneratedDir string `mapstructure:"generated_dir"`
}

// ChatConfig tunes conversation handling.
type ChatConfig struct {
	SystemPrompt      string `mapstructure:"system_prompt"`
	MaxToolIterations int    `mapstructure:"max_tool_iterations"`
	MaxAttachmentRead int    `mapstructure:"max_attachment_readers"`
}

// LogConfig tunes the zerolog output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// DefaultSystemPrompt is the instruction block sent ahead of every
// conversation unless overridden in configuration.
const DefaultSystemPrompt = `You are a helpful assistant embedded in a chat application.
You can create interactive HTML artifacts with the create_artifact tool and
downloadable files with the create_document tool. Use them when the user asks
for a visualization, a small app, or a file they can download. Otherwise answer
in plain text.`

// Load reads configuration from the given file (optional) and the
// environment, applies defaults, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CANVASCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("backend.provider", "openai")
	v.SetDefault("backend.model", "gpt-4o-mini")
	v.SetDefault("backend.max_tokens", 4096)
	v.SetDefault("backend.temperature", 1.0)

	v.SetDefault("storage.uploads_dir", "data/uploads")
	v.SetDefault("storage.generated_dir", "data/generated")

	v.SetDefault("chat.system_prompt", DefaultSystemPrompt)
	v.SetDefault("chat.max_tool_iterations", 8)
	v.SetDefault("chat.max_attachment_readers", 4)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// Validate checks the configuration for values the service cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	provider := strings.ToLower(strings.TrimSpace(c.Backend.Provider))
	switch provider {
	case "openai", "anthropic", "claude":
		if strings.TrimSpace(c.Backend.APIKey) == "" {
			return fmt.Errorf("backend.api_key is required for provider %s", provider)
		}
	case "ollama", "scripted":
	case "":
		return errors.New("backend.provider is required")
	default:
		return fmt.Errorf("unknown backend.provider %q", c.Backend.Provider)
	}
	if strings.TrimSpace(c.Backend.Model) == "" && provider != "scripted" {
		return errors.New("backend.model is required")
	}

	if strings.TrimSpace(c.Storage.UploadsDir) == "" {
		return errors.New("storage.uploads_dir is required")
	}
	if strings.TrimSpace(c.Storage.GeneratedDir) == "" {
		return errors.New("storage.generated_dir is required")
	}

	if c.Chat.MaxToolIterations < 1 {
		return fmt.Errorf("chat.max_tool_iterations must be at least 1, got %d", c.Chat.MaxToolIterations)
	}
	if c.Chat.MaxAttachmentRead < 1 {
		return fmt.Errorf("chat.max_attachment_readers must be at least 1, got %d", c.Chat.MaxAttachmentRead)
	}
	return nil
}
