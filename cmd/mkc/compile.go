package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manaknight/mkc/compiler/openapi"
	"github.com/manaknight/mkc/internal/config"
	"github.com/manaknight/mkc/internal/driver"
)

// runCompile implements mkc's single verb end to end, mirroring
// original_source/mkc.c's main(): read input, pick a mode from the
// flags, run the pipeline, report diagnostics or write output.
func runCompile(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	source, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("cannot read input file %q: %w", inputPath, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading mkc config: %w", err)
	}
	forceColor := flagForceColorOverride()
	merged := cfg.Merge("", "", forceColor)

	baseDir := merged.BaseDir
	if baseDir == "" || baseDir == "." {
		baseDir = filepath.Dir(inputPath)
	}

	mode := driver.ModeCompile
	switch {
	case flagFormat:
		mode = driver.ModeFormat
	case flagCheck:
		mode = driver.ModeCheck
	}

	outputPath := flagOutput
	if outputPath == "" && mode == driver.ModeCompile {
		outputPath = defaultOutputPath(inputPath, merged.OutputExtension)
	}

	if flagVerbose {
		fmt.Printf("mkc: input=%s mode=%s\n", inputPath, modeName(mode))
		if outputPath != "" {
			fmt.Printf("mkc: output=%s\n", outputPath)
		}
		if flagOpenAPI != "" {
			fmt.Printf("mkc: openapi=%s\n", flagOpenAPI)
		}
	}

	unit := &driver.CompileUnit{
		Source:   string(source),
		Filename: inputPath,
		BaseDir:  baseDir,
	}
	opts := driver.Options{
		Mode:        mode,
		EmitOpenAPI: flagOpenAPI != "",
		OpenAPIInfo: openapi.Info{Title: strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)), Version: "0.1.0"},
	}

	result := driver.NewPipeline(flagVerbose).Run(context.Background(), unit, opts)

	if !result.Success {
		if flagJSON {
			outputDiagnosticsJSON(result.Diagnostics)
		} else {
			outputDiagnosticsTerminal(result.Diagnostics, forceColor == "off")
		}
		return fmt.Errorf("compilation failed with %d error(s)", len(result.Diagnostics))
	}

	switch mode {
	case driver.ModeFormat:
		fmt.Print(result.FormattedSource)
	case driver.ModeCheck:
		if flagVerbose {
			printSuccess("type check passed", forceColor == "off")
		}
	default:
		if err := os.WriteFile(outputPath, []byte(result.EmittedCode), 0o644); err != nil {
			return fmt.Errorf("writing output file %q: %w", outputPath, err)
		}
		if flagVerbose {
			printSuccess(fmt.Sprintf("generated %s", outputPath), forceColor == "off")
		}
	}

	if flagOpenAPI != "" {
		if err := os.WriteFile(flagOpenAPI, result.OpenAPIDoc, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write OpenAPI spec to %q: %v\n", flagOpenAPI, err)
		} else if flagVerbose {
			printSuccess(fmt.Sprintf("generated OpenAPI spec: %s", flagOpenAPI), forceColor == "off")
		}
	}

	return nil
}

// defaultOutputPath mirrors original_source/mkc.c's change_extension:
// replace the input's extension (if any) with ext.
func defaultOutputPath(inputPath, ext string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return base + ext
}

func modeName(mode driver.Mode) string {
	switch mode {
	case driver.ModeFormat:
		return "format"
	case driver.ModeCheck:
		return "check"
	default:
		return "compile"
	}
}

// flagForceColorOverride never exposes a dedicated --color flag (not
// one of spec.md §6's named options); NO_COLOR is the one ambient
// signal this CLI honors beyond the config file.
func flagForceColorOverride() string {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return "off"
	}
	return ""
}

