// Command mkc is the manaknight compiler CLI: mkc [options] <input.mk>,
// per spec.md §6. Grounded on the teacher's cmd/conduit/main.go cobra
// root-command construction, collapsed to one verb (mkc has no
// build/run/migrate subcommands — the original_source/mkc.c CLI this
// spec distills is a single-binary, single-verb tool).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mkc [options] <input.mk>",
	Short: "Manaknight compiler: compiles .mk source to JavaScript",
	Long: `mkc compiles Manaknight source files to JavaScript.

It lexes, parses, resolves imports, type-checks, and emits a JavaScript
target file, optionally alongside an OpenAPI document describing any
declared api routes.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "emitted JavaScript output path (default: input with extension replaced)")
	rootCmd.Flags().StringVarP(&flagOpenAPI, "openapi", "a", "", "OpenAPI document output path")
	rootCmd.Flags().BoolVarP(&flagFormat, "format", "f", false, "format source and print to standard output; do not compile")
	rootCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "type-check only; succeed silently, fail with diagnostics")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "emit diagnostics as JSON instead of terminal text")
}

var (
	flagOutput  string
	flagOpenAPI string
	flagFormat  bool
	flagCheck   bool
	flagVerbose bool
	flagJSON    bool
)
