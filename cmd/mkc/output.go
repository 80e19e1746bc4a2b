package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/manaknight/mkc/compiler/errors"
)

// outputDiagnosticsJSON renders diags as the same Report shape
// errors.MarshalReport produces for a Bag, built here directly since
// the driver already hands back a flattened slice rather than a Bag.
func outputDiagnosticsJSON(diags []errors.CompilerError) {
	report := errors.Report{Success: false, Errors: diags}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.Encode(report)
}

// outputDiagnosticsTerminal defers the per-diagnostic rendering to
// errors.CompilerError.FormatTerminal (severity coloring, source
// context, suggestions, related errors all live there); this layer
// only adds the summary line and a color toggle for it, per
// compiler/errors/terminal.go's stated division of labor.
func outputDiagnosticsTerminal(diags []errors.CompilerError, noColor bool) {
	red := color.New(color.FgRed, color.Bold)
	if noColor {
		red.DisableColor()
	}
	red.Fprintf(os.Stderr, "\ncompilation failed with %d error(s):\n\n", len(diags))
	for _, d := range diags {
		fmt.Fprint(os.Stderr, d.FormatTerminal())
	}
}

func printSuccess(message string, noColor bool) {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	green.Printf("✓ %s\n", message)
}
