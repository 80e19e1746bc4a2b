package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manaknight/mkc/compiler/ast"
	"github.com/manaknight/mkc/compiler/openapi"
	"github.com/manaknight/mkc/compiler/resolver"
)

func run(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	unit := &CompileUnit{Source: src, Filename: "test.mk", BaseDir: t.TempDir()}
	return NewPipeline(false).Run(context.Background(), unit, opts)
}

func TestPipelineCompileSucceedsAndEmitsCode(t *testing.T) {
	res := run(t, `module m {
fn add(a: Int, b: Int) -> Int { a + b }
fn main() -> Int { add(1, 2) }
}`, Options{Mode: ModeCompile})

	require.True(t, res.Success, res.Diagnostics)
	assert.Contains(t, res.EmittedCode, `"use strict";`)
	assert.Contains(t, res.EmittedCode, "function main() {")
	assert.Contains(t, res.PhaseDurations, "lexer")
	assert.Contains(t, res.PhaseDurations, "parser")
	assert.Contains(t, res.PhaseDurations, "resolver")
	assert.Contains(t, res.PhaseDurations, "sema")
	assert.Contains(t, res.PhaseDurations, "codegen")
}

func TestPipelineLexErrorShortCircuitsBeforeParser(t *testing.T) {
	res := run(t, `module m { fn f() -> Int { 1 ` + "`" + ` } }`, Options{Mode: ModeCompile})

	require.False(t, res.Success)
	assert.NotContains(t, res.PhaseDurations, "parser")
	assert.Empty(t, res.EmittedCode)
}

func TestPipelineParseErrorShortCircuitsBeforeResolver(t *testing.T) {
	res := run(t, `module m { fn f( -> Int { 1 } }`, Options{Mode: ModeCompile})

	require.False(t, res.Success)
	assert.NotContains(t, res.PhaseDurations, "resolver")
	assert.Empty(t, res.EmittedCode)
}

func TestPipelineSemaErrorShortCircuitsBeforeCodegen(t *testing.T) {
	res := run(t, `module m { fn f() -> Int { mystery } }`, Options{Mode: ModeCompile})

	require.False(t, res.Success)
	found := false
	for _, d := range res.Diagnostics {
		if d.Code == "E2001" {
			found = true
		}
	}
	assert.True(t, found, res.Diagnostics)
	assert.NotContains(t, res.PhaseDurations, "codegen")
	assert.Empty(t, res.EmittedCode)
}

func TestPipelineFormatModeStopsBeforeSema(t *testing.T) {
	res := run(t, `module m {
fn   add(a: Int,b: Int)->Int{a+b}
}`, Options{Mode: ModeFormat})

	require.True(t, res.Success, res.Diagnostics)
	assert.NotEmpty(t, res.FormattedSource)
	assert.NotContains(t, res.PhaseDurations, "sema")
	assert.Empty(t, res.EmittedCode)
}

func TestPipelineCheckModeStopsAfterSemaWithNoEmittedCode(t *testing.T) {
	res := run(t, `module m {
fn add(a: Int, b: Int) -> Int { a + b }
}`, Options{Mode: ModeCheck})

	require.True(t, res.Success, res.Diagnostics)
	assert.Contains(t, res.PhaseDurations, "sema")
	assert.NotContains(t, res.PhaseDurations, "codegen")
	assert.Empty(t, res.EmittedCode)
}

func TestMergeModulesOrdersByNameRegardlessOfMapIteration(t *testing.T) {
	files := map[string]*resolver.ModuleFile{
		"z.last": {
			Name: "z.last",
			Path: "z/last.mk",
			Prog: &ast.Program{Modules: []*ast.ModuleDecl{{Name: "z"}}},
		},
		"a.first": {
			Name: "a.first",
			Path: "a/first.mk",
			Prog: &ast.Program{Modules: []*ast.ModuleDecl{{Name: "a"}}},
		},
		"m.mid": {
			Name: "m.mid",
			Path: "m/mid.mk",
			Prog: &ast.Program{Modules: []*ast.ModuleDecl{{Name: "m"}}},
		},
	}

	for i := 0; i < 20; i++ {
		merged := mergeModules(files)
		require.Len(t, merged.Modules, 3)
		assert.Equal(t, []string{"a", "m", "z"}, []string{
			merged.Modules[0].Name, merged.Modules[1].Name, merged.Modules[2].Name,
		})
	}
}

func TestPipelineEmitOpenAPIPopulatesIndentedJSON(t *testing.T) {
	res := run(t, `api get "/ping" () -> String { "pong" }`, Options{
		Mode:        ModeCompile,
		EmitOpenAPI: true,
		OpenAPIInfo: openapi.Info{Title: "mk", Version: "0.1.0"},
	})

	require.True(t, res.Success, res.Diagnostics)
	require.NotEmpty(t, res.OpenAPIDoc)
	assert.Contains(t, string(res.OpenAPIDoc), "{\n  \"components\"")
	assert.Contains(t, string(res.OpenAPIDoc), `"/ping"`)
	assert.Contains(t, res.PhaseDurations, "openapi")
}
