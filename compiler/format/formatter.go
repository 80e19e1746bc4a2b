// Package format pretty-prints a parsed program back to canonical mk
// source text (spec.md §4.8): 4-space indentation, one declaration per
// line-group separated by blank lines, braces on the same line as their
// introducing keyword, and pattern arms aligned within a match. Formatting
// is lossless at the level of program meaning but discards comments (the
// lexer never records them) and normalizes whitespace.
package format

import (
	"fmt"
	"strings"

	"github.com/manaknight/mkc/compiler/ast"
	"github.com/manaknight/mkc/compiler/lexer"
	"github.com/manaknight/mkc/compiler/parser"
)

// Formatter renders a Program to canonical source text.
type Formatter struct {
	config *Config
	buf    *strings.Builder
	indent int
}

// New creates a Formatter with the given configuration, or the default
// configuration when config is nil.
func New(config *Config) *Formatter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Formatter{config: config, buf: new(strings.Builder)}
}

// Format lexes and parses source, then re-emits it as canonical text.
func (f *Formatter) Format(source string) (string, error) {
	tokens, lexErrs := lexer.New(source, "").ScanTokens()
	if len(lexErrs) > 0 {
		return "", fmt.Errorf("lexer errors: %v", lexErrs)
	}

	prog, bag := parser.New(tokens).Parse()
	if !bag.Clean() {
		return "", fmt.Errorf("parse errors: %v", bag.All())
	}

	return f.FormatProgram(prog), nil
}

// FormatProgram renders an already-parsed Program directly, skipping the
// lex/parse step. Used by the driver when a program has already been
// loaded through the pipeline.
func (f *Formatter) FormatProgram(prog *ast.Program) string {
	f.buf.Reset()
	f.indent = 0
	f.formatProgram(prog)
	return f.buf.String()
}

// Format is a package-level convenience wrapper around New(nil).Format.
func Format(source string) (string, error) {
	return New(nil).Format(source)
}

// formatProgram emits every module, then every top-level API route, each
// separated by a blank line. The two are tracked as separate slices on
// Program, so the original interleaving between a module block and a
// sibling api route is not recoverable from the AST; emitting modules
// before routes is the canonical order and does not affect the
// parse-format-parse fixpoint, since it only reorders across the two
// slices, never within either one.
func (f *Formatter) formatProgram(prog *ast.Program) {
	total := len(prog.Modules) + len(prog.Routes)
	written := 0
	for _, mod := range prog.Modules {
		f.formatModule(mod)
		written++
		if written < total {
			f.blank()
		}
	}
	for _, route := range prog.Routes {
		f.formatAPIRoute(route)
		written++
		if written < total {
			f.blank()
		}
	}
}

func (f *Formatter) formatModule(mod *ast.ModuleDecl) {
	f.writeIndent()
	f.buf.WriteString("module ")
	f.buf.WriteString(mod.Name)
	f.buf.WriteString(" {\n")
	f.indent++
	for i, decl := range mod.Decls {
		f.formatDecl(decl)
		if i < len(mod.Decls)-1 {
			f.blank()
		}
	}
	f.indent--
	f.writeIndent()
	f.buf.WriteString("}\n")
}

func (f *Formatter) formatDecl(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.FunctionDecl:
		f.formatFunctionDecl(d)
	case *ast.TypeDecl:
		f.formatTypeDecl(d)
	case *ast.EffectDecl:
		f.formatEffectDecl(d)
	case *ast.ImportDecl:
		f.formatImportDecl(d)
	}
}

func (f *Formatter) formatFunctionDecl(d *ast.FunctionDecl) {
	f.writeIndent()
	f.buf.WriteString("fn ")
	f.buf.WriteString(d.Name)
	f.formatParams(d.Params)
	f.buf.WriteString(" -> ")
	f.formatType(d.ReturnType)
	f.formatEffectsClause(d.Effects)
	f.buf.WriteString(" ")
	f.formatBlock(d.Body)
}

func (f *Formatter) formatEffectDecl(d *ast.EffectDecl) {
	f.writeIndent()
	f.buf.WriteString("effect ")
	f.buf.WriteString(d.Name)
	f.buf.WriteString("\n")
}

func (f *Formatter) formatImportDecl(d *ast.ImportDecl) {
	f.writeIndent()
	f.buf.WriteString("import ")
	f.buf.WriteString(d.Path)
	if d.Alias != "" {
		f.buf.WriteString(" as ")
		f.buf.WriteString(d.Alias)
	}
	f.buf.WriteString("\n")
}

func (f *Formatter) formatTypeDecl(d *ast.TypeDecl) {
	f.writeIndent()
	f.buf.WriteString("type ")
	f.buf.WriteString(d.Name)
	if len(d.TypeParams) > 0 {
		f.buf.WriteString("<")
		f.buf.WriteString(strings.Join(d.TypeParams, ", "))
		f.buf.WriteString(">")
	}
	f.buf.WriteString(" = ")

	if d.IsUnion {
		parts := make([]string, len(d.Constructors))
		for i, ctor := range d.Constructors {
			parts[i] = f.renderConstructor(ctor)
		}
		f.buf.WriteString(strings.Join(parts, " | "))
		f.buf.WriteString("\n")
		return
	}

	if len(d.RecordFields) == 0 {
		f.buf.WriteString("{ }\n")
		return
	}
	f.buf.WriteString("{\n")
	f.indent++
	for _, field := range d.RecordFields {
		f.writeIndent()
		f.buf.WriteString(field.Name)
		f.buf.WriteString(": ")
		f.formatType(field.Type)
		f.buf.WriteString(",\n")
	}
	f.indent--
	f.writeIndent()
	f.buf.WriteString("}\n")
}

func (f *Formatter) renderConstructor(ctor ast.Constructor) string {
	if len(ctor.Fields) == 0 {
		return ctor.Name
	}
	parts := make([]string, len(ctor.Fields))
	for i, field := range ctor.Fields {
		parts[i] = field.Name + ": " + f.renderType(field.Type)
	}
	return ctor.Name + "(" + strings.Join(parts, ", ") + ")"
}

func (f *Formatter) formatAPIRoute(route *ast.APIRouteDecl) {
	f.writeIndent()
	f.buf.WriteString("api ")
	f.buf.WriteString(strings.ToLower(route.Method))
	f.buf.WriteString(" \"")
	f.buf.WriteString(route.Path)
	f.buf.WriteString("\" ")
	f.formatParams(route.Params)
	f.buf.WriteString(" -> ")
	f.formatType(route.ReturnType)
	f.formatEffectsClause(route.Effects)
	f.buf.WriteString(" ")
	f.formatBlock(route.Body)
}

func (f *Formatter) formatParams(params []*ast.Param) {
	f.buf.WriteString("(")
	for i, p := range params {
		if i > 0 {
			f.buf.WriteString(", ")
		}
		f.buf.WriteString(p.Name)
		f.buf.WriteString(": ")
		f.formatType(p.Type)
	}
	f.buf.WriteString(")")
}

func (f *Formatter) formatEffectsClause(effects []string) {
	if len(effects) == 0 {
		return
	}
	f.buf.WriteString(" uses { ")
	f.buf.WriteString(strings.Join(effects, ", "))
	f.buf.WriteString(" }")
}

func (f *Formatter) formatType(t ast.Type) {
	f.buf.WriteString(f.renderType(t))
}

func (f *Formatter) renderType(t ast.Type) string {
	switch ty := t.(type) {
	case nil:
		return "Unit"
	case *ast.PrimitiveType:
		return ty.Kind.String()
	case *ast.NamedType:
		return ty.Name
	case *ast.GenericType:
		args := make([]string, len(ty.Args))
		for i, a := range ty.Args {
			args[i] = f.renderType(a)
		}
		return ty.Name + "<" + strings.Join(args, ", ") + ">"
	case *ast.FunctionType:
		params := make([]string, len(ty.Params))
		for i, p := range ty.Params {
			params[i] = f.renderType(p)
		}
		s := "(" + strings.Join(params, ", ") + ") -> " + f.renderType(ty.Result)
		if len(ty.Effects) > 0 {
			s += " uses { " + strings.Join(ty.Effects, ", ") + " }"
		}
		return s
	default:
		return "?"
	}
}

// blank writes a single blank line; never indented.
func (f *Formatter) blank() {
	f.buf.WriteString("\n")
}

func (f *Formatter) writeIndent() {
	f.buf.WriteString(strings.Repeat(" ", f.indent*f.config.IndentSize))
}
