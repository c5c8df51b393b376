// Package toolhost is an MCP server exposing a handful of tools to the
// bridge: web search, weather lookup, integer addition and shell commands.
package toolhost

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrConfiguration reports a missing credential or setting.
var ErrConfiguration = errors.New("invalid tool host configuration")

// Default remote endpoints.
const (
	DefaultTavilyURL  = "https://api.tavily.com/search"
	DefaultWeatherURL = "https://api.weatherapi.com/v1"
	DefaultPort       = "8001"
)

// Config holds the tool host credentials and settings.
type Config struct {
	TavilyAPIKey  string
	WeatherAPIKey string
	// Workspace is the directory run_command executes in. It is created if
	// needed.
	Workspace string

	// TavilyURL is the search endpoint.
	TavilyURL string
	// WeatherURL is the base URL of the weather API, without the
	// current.json or forecast.json suffix.
	WeatherURL string
	// Timeout bounds every request to a remote API.
	Timeout time.Duration
	// HTTPClient is used for remote APIs. Timeout is applied on top of it.
	HTTPClient *http.Client
}

// ConfigFromEnv reads the API keys from TAVILY_API_KEY and WEATHERAPI_KEY.
// Everything else gets its default value.
func ConfigFromEnv(getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	return Config{
		TavilyAPIKey:  strings.TrimSpace(getenv("TAVILY_API_KEY")),
		WeatherAPIKey: strings.TrimSpace(getenv("WEATHERAPI_KEY")),
		Workspace:     "mcp_workspace",
	}
}

// Validate reports a missing API key as ErrConfiguration.
func (c *Config) Validate() error {
	if c.TavilyAPIKey == "" {
		return fmt.Errorf("%w: TAVILY_API_KEY environment variable not set", ErrConfiguration)
	}
	if c.WeatherAPIKey == "" {
		return fmt.Errorf("%w: WEATHERAPI_KEY environment variable not set", ErrConfiguration)
	}
	if c.Workspace == "" {
		return fmt.Errorf("%w: missing workspace directory", ErrConfiguration)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.TavilyURL == "" {
		c.TavilyURL = DefaultTavilyURL
	}
	if c.WeatherURL == "" {
		c.WeatherURL = DefaultWeatherURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
}
