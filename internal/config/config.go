package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type AIConfig struct {
	Provider string `yaml:"provider"` // "claude" or "openai"
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

type RelayConfig struct {
	// Listen is the address the `serve` command binds to.
	Listen string `yaml:"listen"`
	// URL is the relay base URL the chat client posts feed URLs to.
	// Empty means fetch feeds directly, without a relay.
	URL string `yaml:"url"`
	// AllowedOrigins are extra CORS origins for embedded frontends.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

type Config struct {
	// FeedURL is the topic feed template; %s is replaced with the
	// URL-escaped topic.
	FeedURL  string      `yaml:"feed_url,omitempty"`
	Keywords string      `yaml:"keywords,omitempty"` // path to marquee keyword list
	Relay    RelayConfig `yaml:"relay,omitempty"`
	AI       *AIConfig   `yaml:"ai,omitempty"`
}

const defaultFeedURL = "https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en"

// AIEnabled returns true if AI is configured with a valid API key.
func (c *Config) AIEnabled() bool {
	if c.AI == nil {
		return false
	}
	key := c.AI.APIKey
	if key == "" {
		key = os.Getenv("NEWSTALK_AI_KEY")
	}
	return key != ""
}

// AIKey returns the resolved API key (config or env var).
func (c *Config) AIKey() string {
	if c.AI != nil && c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	return os.Getenv("NEWSTALK_AI_KEY")
}

// FeedURLTemplate returns the topic feed template, defaulting to Google
// News search.
func (c *Config) FeedURLTemplate() string {
	if c.FeedURL == "" {
		return defaultFeedURL
	}
	return c.FeedURL
}

// KeywordsPath returns the marquee keyword list path, defaulting to the
// XDG data dir.
func (c *Config) KeywordsPath() string {
	if c.Keywords != "" {
		return c.Keywords
	}
	return filepath.Join(xdg.DataHome, "newstalk", "keywords.txt")
}

// RelayListen returns the relay bind address, defaulting to :8080.
func (c *Config) RelayListen() string {
	if c.Relay.Listen == "" {
		return ":8080"
	}
	return c.Relay.Listen
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newstalk", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.FeedURL != "" {
		if !strings.Contains(cfg.FeedURL, "%s") {
			return fmt.Errorf("feed_url must contain a %%s topic placeholder")
		}
		if err := checkHTTPURL("feed_url", fmt.Sprintf(cfg.FeedURL, "probe")); err != nil {
			return err
		}
	}
	if cfg.Relay.URL != "" {
		if err := checkHTTPURL("relay.url", cfg.Relay.URL); err != nil {
			return err
		}
	}
	if cfg.AI != nil && cfg.AI.Provider != "" {
		if cfg.AI.Provider != "claude" && cfg.AI.Provider != "openai" {
			return fmt.Errorf("ai.provider: unknown provider %q (valid: claude, openai)", cfg.AI.Provider)
		}
	}
	return nil
}

func checkHTTPURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid url: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: url scheme must be http or https, got %q", field, u.Scheme)
	}
	return nil
}
