package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manaknight/mkc/internal/driver"
)

func TestDefaultOutputPathReplacesExtension(t *testing.T) {
	assert.Equal(t, "hello.js", defaultOutputPath("hello.mk", ".js"))
	assert.Equal(t, "dir/hello.mjs", defaultOutputPath("dir/hello.mk", "mjs"))
}

func TestDefaultOutputPathWithNoExtension(t *testing.T) {
	assert.Equal(t, "hello.js", defaultOutputPath("hello", ".js"))
}

func TestModeNameMatchesEachDriverMode(t *testing.T) {
	assert.Equal(t, "compile", modeName(driver.ModeCompile))
	assert.Equal(t, "check", modeName(driver.ModeCheck))
	assert.Equal(t, "format", modeName(driver.ModeFormat))
}

func TestFlagForceColorOverrideHonorsNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, "off", flagForceColorOverride())
}

func TestFlagForceColorOverrideDefaultsEmpty(t *testing.T) {
	assert.Equal(t, "", flagForceColorOverride())
}
