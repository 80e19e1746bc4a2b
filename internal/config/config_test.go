package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoConfigFilePresent(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.BaseDir)
	assert.Equal(t, ".js", cfg.OutputExtension)
	assert.Equal(t, "auto", cfg.ForceColor)
}

func TestLoadRejectsInvalidForceColor(t *testing.T) {
	err := validate(&Config{BaseDir: ".", OutputExtension: ".js", ForceColor: "sometimes"})
	assert.Error(t, err)
}

func TestLoadRejectsEmptyOutputExtension(t *testing.T) {
	err := validate(&Config{BaseDir: ".", OutputExtension: "", ForceColor: "auto"})
	assert.Error(t, err)
}

func TestMergeFlagsOverrideConfigValues(t *testing.T) {
	cfg := &Config{BaseDir: "src", OutputExtension: ".js", ForceColor: "auto"}
	merged := cfg.Merge("/other/dir", "", "on")

	assert.Equal(t, "/other/dir", merged.BaseDir)
	assert.Equal(t, ".js", merged.OutputExtension)
	assert.Equal(t, "on", merged.ForceColor)
}

func TestMergeWithNoFlagsKeepsConfigValues(t *testing.T) {
	cfg := &Config{BaseDir: "src", OutputExtension: ".mjs", ForceColor: "off"}
	merged := cfg.Merge("", "", "")

	assert.Equal(t, *cfg, merged)
}
