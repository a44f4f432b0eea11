package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full application configuration, loaded once at startup.
type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Search  SearchConfig
	Discord DiscordConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Port  string
	Debug bool
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type SearchConfig struct {
	BaseURL    string
	MaxResults int
}

type DiscordConfig struct {
	Token         string
	CommandPrefix string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Addr returns the listen address with a colon prefix.
func (s ServerConfig) Addr() string {
	if strings.HasPrefix(s.Port, ":") {
		return s.Port
	}
	return ":" + s.Port
}

// Load reads configuration from a .env file (if present) and the process
// environment. A missing GEMINI_API_KEY is not an error here: the AI
// service degrades to an unavailable state instead of crashing.
func Load() (*Config, error) {
	// .env is optional; system environment wins over file values.
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("DEBUG", true)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("SEARCH_BASE_URL", "https://html.duckduckgo.com/html/")
	v.SetDefault("SEARCH_MAX_RESULTS", 6)
	v.SetDefault("DISCORD_COMMAND_PREFIX", "!chat ")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	cfg := &Config{
		Server: ServerConfig{
			Port:  v.GetString("PORT"),
			Debug: v.GetBool("DEBUG"),
		},
		Gemini: GeminiConfig{
			APIKey: v.GetString("GEMINI_API_KEY"),
			Model:  v.GetString("GEMINI_MODEL"),
		},
		Search: SearchConfig{
			BaseURL:    v.GetString("SEARCH_BASE_URL"),
			MaxResults: v.GetInt("SEARCH_MAX_RESULTS"),
		},
		Discord: DiscordConfig{
			Token:         v.GetString("DISCORD_BOT_TOKEN"),
			CommandPrefix: v.GetString("DISCORD_COMMAND_PREFIX"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if cfg.Search.MaxResults <= 0 {
		cfg.Search.MaxResults = 6
	}

	return cfg, nil
}
