package resolver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/manaknight/mkc/compiler/lexer"
	"github.com/manaknight/mkc/compiler/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedModuleToPath(t *testing.T) {
	assert.Equal(t, filepath.Join("base", "a", "b", "c") + ".mk", NamedModuleToPath("base", "a.b.c"))
	assert.Equal(t, filepath.Join("base", "a") + ".mk", NamedModuleToPath("base", "a"))
}

func TestResolveMissingModuleProducesE5001(t *testing.T) {
	dir := t.TempDir()
	tokens, lexErrs := lexer.New(`module m { import does.not.exist }`, "entry.mk").ScanTokens()
	require.Empty(t, lexErrs)
	prog, bag := parser.New(tokens).Parse()
	require.True(t, bag.Clean())

	r := New(dir)
	_, _, rbag := r.Resolve(context.Background(), "entry", prog)
	errs := rbag.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "E5001", errs[0].Code)
}

func TestResolveLoadsTransitiveImports(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "helper", `module helper { fn id(x: Int) -> Int { x } }`)

	tokens, lexErrs := lexer.New(`module m { import helper }`, "entry.mk").ScanTokens()
	require.Empty(t, lexErrs)
	prog, bag := parser.New(tokens).Parse()
	require.True(t, bag.Clean())

	r := New(dir)
	loaded, graph, rbag := r.Resolve(context.Background(), "entry", prog)
	require.True(t, rbag.Clean(), rbag.All())
	require.Contains(t, loaded, "helper")
	assert.Contains(t, graph.Edges["entry"], "helper")
}

func TestResolveDetectsCircularDependency(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a", `module a { import b }`)
	writeModule(t, dir, "b", `module b { import a }`)

	tokens, lexErrs := lexer.New(`module entry { import a }`, "entry.mk").ScanTokens()
	require.Empty(t, lexErrs)
	prog, bag := parser.New(tokens).Parse()
	require.True(t, bag.Clean())

	r := New(dir)
	_, _, rbag := r.Resolve(context.Background(), "entry", prog)
	errs := rbag.Errors()
	require.NotEmpty(t, errs)

	found := false
	for _, e := range errs {
		if e.Code == "E5004" {
			found = true
			assert.True(t, strings.Contains(e.Message, "a -> b -> a") || strings.Contains(e.Message, "b -> a -> b"))
		}
	}
	assert.True(t, found, "expected an E5004 circular dependency diagnostic")
}

func TestResolveDuplicateImportProducesE5003(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "helper", `module helper { fn id(x: Int) -> Int { x } }`)

	tokens, lexErrs := lexer.New(`module m { import helper import helper }`, "entry.mk").ScanTokens()
	require.Empty(t, lexErrs)
	prog, bag := parser.New(tokens).Parse()
	require.True(t, bag.Clean())

	r := New(dir)
	_, _, rbag := r.Resolve(context.Background(), "entry", prog)
	errs := rbag.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "E5003", errs[0].Code)
}

func writeModule(t *testing.T, base, name, src string) {
	t.Helper()
	path := NamedModuleToPath(base, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
}
