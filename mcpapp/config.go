package mcpapp

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport kinds accepted by Config.Transport.
const (
	TransportSSE        = "sse"
	TransportStreamable = "streamable"
)

// Config holds everything the bridge needs to run. Credentials are read once
// at startup and threaded into constructors from here.
type Config struct {
	// ServerURL is the MCP endpoint, e.g. http://localhost:8001/sse.
	ServerURL string `yaml:"server_url"`
	// APIKey is the Gemini API key. It is never read from a file.
	APIKey string `yaml:"-"`
	// Model is the Gemini model name.
	Model string `yaml:"model"`
	// Transport is either "sse" or "streamable".
	Transport string `yaml:"transport"`
	// MaxRounds bounds the tool rounds serviced per query.
	MaxRounds int `yaml:"max_rounds"`
	// Timeout bounds the wait for the server's HTTP responses and every tool
	// call. Event streams stay open past it.
	Timeout time.Duration `yaml:"timeout"`
	// ExitCommand ends the interactive shell, case-insensitively.
	ExitCommand string `yaml:"exit_command"`
	// Prompt is printed before reading each query.
	Prompt string `yaml:"prompt"`
}

// DefaultConfig returns a Config with defaults for everything but the server
// URL and the API key.
func DefaultConfig() Config {
	return Config{
		Model:       "gemini-2.5-flash",
		Transport:   TransportSSE,
		MaxRounds:   1,
		Timeout:     60 * time.Second,
		ExitCommand: "exit",
		Prompt:      "Enter your query: ",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.ServerURL != "" {
		c.ServerURL = source.ServerURL
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.Transport != "" {
		c.Transport = source.Transport
	}
	if source.MaxRounds > 0 {
		c.MaxRounds = source.MaxRounds
	}
	if source.Timeout > 0 {
		c.Timeout = source.Timeout
	}
	if source.ExitCommand != "" {
		c.ExitCommand = source.ExitCommand
	}
	if source.Prompt != "" {
		c.Prompt = source.Prompt
	}
}

// LoadConfig reads a YAML config file and merges it with defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file %s: %v", ErrConfiguration, filename, err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// APIKeyFromEnv returns the Gemini API key from GEMINI_API_KEY, or
// GOOGLE_API_KEY when the former is unset.
func APIKeyFromEnv(getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// Validate reports the first configuration problem as ErrConfiguration.
func (c *Config) Validate() error {
	switch {
	case c.APIKey == "":
		return fmt.Errorf("%w: GEMINI_API_KEY environment variable is not set", ErrConfiguration)
	case c.ServerURL == "":
		return fmt.Errorf("%w: missing server URL", ErrConfiguration)
	case c.Model == "":
		return fmt.Errorf("%w: missing model name", ErrConfiguration)
	case c.Transport != TransportSSE && c.Transport != TransportStreamable:
		return fmt.Errorf("%w: unknown transport %q, want %q or %q", ErrConfiguration, c.Transport, TransportSSE, TransportStreamable)
	case c.MaxRounds < 1:
		return fmt.Errorf("%w: max rounds must be >= 1, got %d", ErrConfiguration, c.MaxRounds)
	}
	return nil
}
