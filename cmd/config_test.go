package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "levelsweep", configBaseName)
	assert.Equal(t, "levelsweep.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "exclude", excludeFlagName)
	assert.Equal(t, "keep", keepFlagName)
	assert.Equal(t, "missing-log", missingLogFlagName)
	assert.Equal(t, "scan.exclude", excludeConfigKey)
	assert.Equal(t, "keep.patterns", keepConfigKey)
	assert.Equal(t, "pack.compression", compressionConfigKey)
	assert.Equal(t, ".", defaultOutputDir)
	assert.Equal(t, "optimal", defaultCompression)
	assert.Equal(t, "LEVELSWEEP", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"empty uses default", "", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"mixed case", "DeBuG", slog.LevelDebug},
		{"numeric", "-4", slog.LevelDebug},
		{"garbage uses default", "loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}
