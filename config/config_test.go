package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":5000", cfg.Server.Addr())
	require.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	require.Equal(t, "https://html.duckduckgo.com/html/", cfg.Search.BaseURL)
	require.Equal(t, 6, cfg.Search.MaxResults)
	require.Equal(t, "!chat ", cfg.Discord.CommandPrefix)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SEARCH_MAX_RESULTS", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Server.Addr())
	require.Equal(t, "test-key", cfg.Gemini.APIKey)
	require.Equal(t, 3, cfg.Search.MaxResults)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestAddrKeepsExistingColon(t *testing.T) {
	s := ServerConfig{Port: ":8080"}
	require.Equal(t, ":8080", s.Addr())
}

func TestLoadSanitizesMaxResults(t *testing.T) {
	t.Setenv("SEARCH_MAX_RESULTS", "-1")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 6, cfg.Search.MaxResults)
}
