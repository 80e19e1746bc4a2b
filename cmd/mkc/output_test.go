package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manaknight/mkc/compiler/errors"
)

func TestOutputDiagnosticsJSONAndTerminalDoNotPanic(t *testing.T) {
	diags := []errors.CompilerError{
		errors.New("sema", "E2001", errors.SourceLocation{File: "test.mk", Line: 3, Column: 5}),
	}
	assert.NotPanics(t, func() { outputDiagnosticsJSON(diags) })
	assert.NotPanics(t, func() { outputDiagnosticsTerminal(diags, true) })
}

func TestPrintSuccessDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { printSuccess("done", true) })
}
