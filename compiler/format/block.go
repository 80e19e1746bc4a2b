package format

import (
	"strings"

	"github.com/manaknight/mkc/compiler/ast"
)

// formatBlock emits `{ stmt* tail? }`, one statement per line, with the
// opening brace on the same line as whatever preceded it.
func (f *Formatter) formatBlock(block *ast.Block) {
	if block == nil || (len(block.Stmts) == 0 && block.Tail == nil) {
		f.buf.WriteString("{\n")
		f.writeIndent()
		f.buf.WriteString("}\n")
		return
	}

	f.buf.WriteString("{\n")
	f.indent++
	for _, stmt := range block.Stmts {
		f.formatStmt(stmt)
	}
	if block.Tail != nil {
		f.writeIndent()
		f.buf.WriteString(f.exprString(block.Tail, precNone))
		f.buf.WriteString("\n")
	}
	f.indent--
	f.writeIndent()
	f.buf.WriteString("}\n")
}

func (f *Formatter) formatStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		f.writeIndent()
		f.buf.WriteString("let ")
		f.buf.WriteString(s.Name)
		f.buf.WriteString(" = ")
		f.buf.WriteString(f.exprString(s.Value, precNone))
		f.buf.WriteString("\n")
	case *ast.ExprStmt:
		f.writeIndent()
		f.buf.WriteString(f.exprString(s.Expr, precNone))
		f.buf.WriteString("\n")
	case *ast.IfStmt:
		f.writeIndent()
		f.buf.WriteString("if ")
		f.buf.WriteString(f.exprString(s.Cond, precNone))
		f.buf.WriteString(" ")
		f.formatBlock(s.Then)
		if s.Else != nil {
			f.trimTrailingNewline()
			f.buf.WriteString(" else ")
			f.formatBlock(s.Else)
		}
	case *ast.MatchStmt:
		f.writeIndent()
		f.buf.WriteString("match ")
		f.buf.WriteString(f.exprString(s.Scrutinee, precNone))
		f.buf.WriteString(" ")
		f.formatMatchCases(s.Cases)
	}
}

// trimTrailingNewline removes the single newline that formatBlock always
// appends after its closing brace, so an `else` clause can continue on the
// same line as the `then` block's closing brace.
func (f *Formatter) trimTrailingNewline() {
	s := f.buf.String()
	if strings.HasSuffix(s, "\n") {
		f.buf.Reset()
		f.buf.WriteString(s[:len(s)-1])
	}
}

func (f *Formatter) formatMatchCases(cases []*ast.MatchCase) {
	if len(cases) == 0 {
		f.buf.WriteString("{\n")
		f.writeIndent()
		f.buf.WriteString("}\n")
		return
	}

	patterns := make([]string, len(cases))
	maxLen := 0
	for i, c := range cases {
		patterns[i] = f.patternString(c.Pattern)
		if len(patterns[i]) > maxLen {
			maxLen = len(patterns[i])
		}
	}

	f.buf.WriteString("{\n")
	f.indent++
	for i, c := range cases {
		f.writeIndent()
		f.buf.WriteString(patterns[i])
		f.buf.WriteString(strings.Repeat(" ", maxLen-len(patterns[i])))
		f.buf.WriteString(" -> ")
		f.buf.WriteString(f.exprString(c.Body, precNone))
		f.buf.WriteString(",\n")
	}
	f.indent--
	f.writeIndent()
	f.buf.WriteString("}\n")
}

func (f *Formatter) patternString(pat ast.Pattern) string {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return "_"
	case *ast.IdentifierPattern:
		return p.Name
	case *ast.ConstructorPattern:
		if len(p.Fields) == 0 {
			return p.Tag
		}
		parts := make([]string, len(p.Fields))
		for i, field := range p.Fields {
			parts[i] = f.patternString(field)
		}
		return p.Tag + "(" + strings.Join(parts, ", ") + ")"
	default:
		return "?"
	}
}
