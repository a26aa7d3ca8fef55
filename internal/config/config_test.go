package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/pathsvg/internal/document"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.AuthRequired)
	assert.Equal(t, int64(4<<20), cfg.MaxBodyBytes)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Origins())
	assert.Equal(t, []string{"localhost:5173", "localhost:3000"}, cfg.OriginPatterns())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("ALLOWED_ORIGINS", " https://a.test , ,*")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CENTER_POLICY", "mean")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.AuthRequired)
	assert.Equal(t, []string{"https://a.test", "*"}, cfg.Origins())
	assert.Equal(t, []string{"a.test", "*"}, cfg.OriginPatterns())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	policy, err := cfg.Center()
	require.NoError(t, err)
	assert.Equal(t, document.CenterMeanOfNodes, policy)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for key, value := range map[string]string{
		"PORT":          "eighty",
		"CENTER_POLICY": "middle",
		"LOG_LEVEL":     "loud",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
