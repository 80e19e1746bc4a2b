// Package codegen lowers a type-checked Program to a target scripting
// language source string (spec.md §4.7): effects compile away to ordinary
// calls annotated with the host effect object they are permitted to
// reach; Option/Result/tagged-union values become `{tag, ...}` records;
// `a |> f` becomes `f(a)`; API routes become router-registration calls;
// the program calls `main()` if one is defined, else prints a fixed
// notice. The emitter never performs I/O itself.
package codegen

import (
	"fmt"
	"strings"

	"github.com/manaknight/mkc/compiler/ast"
)

// ctorInfo records the field names (in declaration order) of one tagged
// union constructor, so a constructor call or bare nullary reference can
// be lowered to a `{tag, field...}` record with the right keys.
type ctorInfo struct {
	fields []string
}

// Generator lowers a Program to target source text. Its internal buffer
// is a strings.Builder, which already grows geometrically the way the
// original emitter's hand-rolled realloc buffer did; there is no reason
// to reimplement that in Go.
type Generator struct {
	buf    *strings.Builder
	indent int
	ctors  map[string]ctorInfo
}

// NewGenerator creates a Generator with the prelude's Option/Result
// constructors preregistered.
func NewGenerator() *Generator {
	g := &Generator{buf: new(strings.Builder), ctors: map[string]ctorInfo{
		"some": {fields: []string{"value"}},
		"none": {fields: nil},
		"ok":   {fields: []string{"value"}},
		"err":  {fields: []string{"error"}},
	}}
	return g
}

// GenerateProgram lowers prog to a complete target source string.
func (g *Generator) GenerateProgram(prog *ast.Program) (string, error) {
	g.buf.Reset()
	g.indent = 0
	g.collectConstructors(prog)

	g.writeLine(`"use strict";`)
	g.writeLine("")
	g.writeLine("// Code generated by mkc from a .mk source file. DO NOT EDIT.")
	g.writeLine("")

	var mainFn *ast.FunctionDecl
	for _, mod := range prog.Modules {
		for _, decl := range mod.Decls {
			fn, ok := decl.(*ast.FunctionDecl)
			if !ok {
				continue
			}
			if err := g.generateFunction(fn); err != nil {
				return "", fmt.Errorf("codegen: function %s: %w", fn.Name, err)
			}
			g.writeLine("")
			if fn.Name == "main" {
				mainFn = fn
			}
		}
	}

	if len(prog.Routes) > 0 {
		g.writeLine("const router = effects.runtime.router;")
		g.writeLine("")
		for _, route := range prog.Routes {
			if err := g.generateRoute(route); err != nil {
				return "", fmt.Errorf("codegen: route %s %s: %w", route.Method, route.Path, err)
			}
		}
		g.writeLine("")
	}

	if mainFn != nil {
		g.writeLine("console.log(main());")
	} else {
		g.writeLine(`console.log("mkc: no main function defined");`)
	}

	return g.buf.String(), nil
}

// collectConstructors scans every module's type declarations for tagged
// unions and records each constructor's field names, so expression
// lowering can recognize a constructor call or bare nullary tag anywhere
// in the program. Relies on the semantic analyzer having already rejected
// any local binding that would shadow a constructor's name (spec.md §4.4
// forbids shadowing across the whole scope chain), so a bare identifier
// matching a registered tag can only ever mean that constructor.
func (g *Generator) collectConstructors(prog *ast.Program) {
	for _, mod := range prog.Modules {
		for _, decl := range mod.Decls {
			td, ok := decl.(*ast.TypeDecl)
			if !ok || !td.IsUnion {
				continue
			}
			for _, ctor := range td.Constructors {
				names := make([]string, len(ctor.Fields))
				for i, f := range ctor.Fields {
					names[i] = f.Name
				}
				g.ctors[ctor.Name] = ctorInfo{fields: names}
			}
		}
	}
}

func (g *Generator) generateFunction(fn *ast.FunctionDecl) error {
	if len(fn.Effects) > 0 {
		g.writeLine("// uses: %s", strings.Join(fn.Effects, ", "))
	}
	g.writeLine("function %s(%s) {", fn.Name, paramList(fn.Params))
	g.indent++
	g.generateBlockBody(fn.Body)
	g.indent--
	g.writeLine("}")
	return nil
}

func (g *Generator) generateRoute(route *ast.APIRouteDecl) error {
	g.writeLine("router.register(%q, %q, function(%s) {", strings.ToUpper(route.Method), route.Path, paramList(route.Params))
	g.indent++
	g.generateBlockBody(route.Body)
	g.indent--
	g.writeLine("});")
	return nil
}

func paramList(params []*ast.Param) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// writeLine writes one indented, formatted line.
func (g *Generator) writeLine(format string, args ...interface{}) {
	if format == "" {
		g.buf.WriteString("\n")
		return
	}
	g.buf.WriteString(strings.Repeat("    ", g.indent))
	if len(args) > 0 {
		fmt.Fprintf(g.buf, format, args...)
	} else {
		g.buf.WriteString(format)
	}
	g.buf.WriteString("\n")
}

// isKnownConstructor reports whether name is a registered tagged-union
// constructor (prelude or user-declared), returning its field names.
func (g *Generator) isKnownConstructor(name string) (ctorInfo, bool) {
	info, ok := g.ctors[name]
	return info, ok
}
