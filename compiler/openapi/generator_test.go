package openapi

import (
	"testing"

	"github.com/manaknight/mkc/compiler/ast"
	"github.com/manaknight/mkc/compiler/lexer"
	"github.com/manaknight/mkc/compiler/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, lexErrs := lexer.New(src, "test.mk").ScanTokens()
	require.Empty(t, lexErrs)
	prog, bag := parser.New(tokens).Parse()
	require.True(t, bag.Clean(), bag.All())
	return prog
}

func TestGenerateEmptyProgramHasNoPaths(t *testing.T) {
	prog := mustParse(t, `module m { fn main() -> String { "hello" } }`)

	doc := New(Info{Title: "mk", Version: "0.1.0"}).Generate(prog)
	assert.Equal(t, "3.0.0", doc["openapi"])
	paths := doc["paths"].(map[string]interface{})
	assert.Empty(t, paths)
}

func TestGeneratePingRouteStringResponseSchema(t *testing.T) {
	prog := mustParse(t, `api get "/ping" () -> String { "pong" }`)

	doc := New(Info{Title: "mk", Version: "0.1.0"}).Generate(prog)
	paths := doc["paths"].(map[string]interface{})
	pingPath, ok := paths["/ping"].(map[string]interface{})
	require.True(t, ok)
	get, ok := pingPath["get"].(map[string]interface{})
	require.True(t, ok)
	responses := get["responses"].(map[string]interface{})
	ok200 := responses["200"].(map[string]interface{})
	content := ok200["content"].(map[string]interface{})
	schema := content["application/json"].(map[string]interface{})["schema"].(map[string]interface{})
	assert.Equal(t, "string", schema["type"])
}

func TestGenerateUnionReturnTypeRegistersOneOfSchema(t *testing.T) {
	prog := mustParse(t, `module m {
type Shape = Circle(radius: Int) | Square(side: Int)
}
api get "/shape" () -> Shape { Circle(1) }`)

	doc := New(Info{Title: "mk", Version: "0.1.0"}).Generate(prog)
	schemas := doc["components"].(map[string]interface{})["schemas"].(map[string]interface{})
	shape, ok := schemas["Shape"].(map[string]interface{})
	require.True(t, ok)
	variants, ok := shape["oneOf"].([]interface{})
	require.True(t, ok)
	assert.Len(t, variants, 2)

	paths := doc["paths"].(map[string]interface{})
	shapePath := paths["/shape"].(map[string]interface{})
	get := shapePath["get"].(map[string]interface{})
	responses := get["responses"].(map[string]interface{})
	ok200 := responses["200"].(map[string]interface{})
	content := ok200["content"].(map[string]interface{})
	schema := content["application/json"].(map[string]interface{})["schema"].(map[string]interface{})
	assert.Equal(t, "#/components/schemas/Shape", schema["$ref"])
}

func TestGenerateOptionReturnTypeInlinesOneOf(t *testing.T) {
	prog := mustParse(t, `api get "/find" () -> Option<Int> { some(1) }`)

	doc := New(Info{Title: "mk", Version: "0.1.0"}).Generate(prog)
	paths := doc["paths"].(map[string]interface{})
	findPath := paths["/find"].(map[string]interface{})
	get := findPath["get"].(map[string]interface{})
	responses := get["responses"].(map[string]interface{})
	ok200 := responses["200"].(map[string]interface{})
	content := ok200["content"].(map[string]interface{})
	schema := content["application/json"].(map[string]interface{})["schema"].(map[string]interface{})
	variants, ok := schema["oneOf"].([]interface{})
	require.True(t, ok)
	assert.Len(t, variants, 2)

	// Option/Result never appear in components/schemas: they are rendered
	// inline since they are prelude generics, not user-declared types.
	schemas := doc["components"].(map[string]interface{})["schemas"].(map[string]interface{})
	assert.NotContains(t, schemas, "Option")
}

func TestGenerateMarshalJSONIsTwoSpaceIndented(t *testing.T) {
	prog := mustParse(t, `api get "/ping" () -> String { "pong" }`)
	doc := New(Info{Title: "mk", Version: "0.1.0"}).Generate(prog)
	data, err := MarshalJSON(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "{\n  \"components\"")
}

func TestGenerateRouteWithParametersListsThem(t *testing.T) {
	prog := mustParse(t, `api get "/greet" (name: String) -> String { name }`)

	doc := New(Info{Title: "mk", Version: "0.1.0"}).Generate(prog)
	paths := doc["paths"].(map[string]interface{})
	greetPath := paths["/greet"].(map[string]interface{})
	get := greetPath["get"].(map[string]interface{})
	params, ok := get["parameters"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, params, 1)
	assert.Equal(t, "name", params[0]["name"])
}
