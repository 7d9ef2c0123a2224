package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "Sheet1", cfg.Data.SheetName)
	assert.Empty(t, cfg.Data.Sentinels)
}

func TestLoadSentinelsFromEnv(t *testing.T) {
	t.Setenv("SHEETLINT_NA", "empty,NA,N/A")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"", "NA", "N/A"}, cfg.Data.Sentinels)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SHEETLINT_PORT", "9999")
	t.Setenv("SHEETLINT_SHEET", "Responses")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "Responses", cfg.Data.SheetName)
}
