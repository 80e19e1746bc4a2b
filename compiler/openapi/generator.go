// Package openapi walks a type-checked Program's API routes and produces
// an OpenAPI 3.0.0 JSON document describing them (spec.md §4.9): fixed
// top-level keys `openapi`, `info`, `paths`, and a `components/schemas`
// table for named and union return types. Generation never touches the
// filesystem; callers decide where the bytes go.
package openapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/manaknight/mkc/compiler/ast"
)

// Info carries the document's title and version, supplied by the caller;
// the CLI uses the input file's base name as the title.
type Info struct {
	Title   string
	Version string
}

// Generator produces an OpenAPI document for one Program.
type Generator struct {
	info    Info
	schemas map[string]interface{}
	unions  map[string]*ast.TypeDecl
}

// New creates a Generator. A zero Info still produces a valid document
// with empty title/version strings.
func New(info Info) *Generator {
	return &Generator{info: info, schemas: make(map[string]interface{})}
}

// Generate builds the complete OpenAPI document as a JSON-marshalable map
// and indexes every named type declared anywhere in prog, so a route's
// return type can resolve a `$ref` even across module boundaries (mirrors
// the analyzer's flat global declaration scope, see DESIGN.md's C7 entry).
func (g *Generator) Generate(prog *ast.Program) map[string]interface{} {
	g.unions = collectTypeDecls(prog)
	paths := make(map[string]interface{})

	for _, route := range prog.Routes {
		pathItem, ok := paths[route.Path].(map[string]interface{})
		if !ok {
			pathItem = make(map[string]interface{})
			paths[route.Path] = pathItem
		}
		pathItem[strings.ToLower(route.Method)] = g.operation(route)
	}

	return map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":   g.info.Title,
			"version": g.info.Version,
		},
		"paths":      paths,
		"components": map[string]interface{}{"schemas": g.schemas},
	}
}

// MarshalJSON renders doc (the map returned by Generate) as two-space
// indented JSON, per spec.md §6's OpenAPI file format.
func MarshalJSON(doc map[string]interface{}) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func (g *Generator) operation(route *ast.APIRouteDecl) map[string]interface{} {
	op := map[string]interface{}{
		"operationId": fmt.Sprintf("%s_%s", route.Method, routeSlug(route.Path)),
		"responses": map[string]interface{}{
			"200": map[string]interface{}{
				"description": "successful response",
				"content": map[string]interface{}{
					"application/json": map[string]interface{}{
						"schema": g.schemaFor(route.ReturnType),
					},
				},
			},
		},
	}
	if len(route.Params) > 0 {
		op["parameters"] = g.parameters(route.Params)
	}
	return op
}

func (g *Generator) parameters(params []*ast.Param) []map[string]interface{} {
	out := make([]map[string]interface{}, len(params))
	for i, p := range params {
		out[i] = map[string]interface{}{
			"name":     p.Name,
			"in":       "query",
			"required": true,
			"schema":   g.schemaFor(p.Type),
		}
	}
	return out
}

func routeSlug(path string) string {
	slug := make([]byte, 0, len(path))
	for _, r := range path {
		if r == '/' || r == '{' || r == '}' {
			continue
		}
		slug = append(slug, byte(r))
	}
	if len(slug) == 0 {
		return "root"
	}
	return string(slug)
}
