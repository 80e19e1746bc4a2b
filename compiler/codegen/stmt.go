package codegen

import (
	"fmt"
	"strings"

	"github.com/manaknight/mkc/compiler/ast"
)

// generateBlockBody writes a block's statements followed by a `return`
// of its tail expression (or nothing, for an implicit Unit result)
// directly into the generator's buffer at the current indent level. Used
// for function bodies, handler bodies, lambda bodies, block expressions,
// and the branches of a statement-form `if`.
func (g *Generator) generateBlockBody(block *ast.Block) {
	if block == nil {
		return
	}
	for _, stmt := range block.Stmts {
		g.generateStmt(stmt)
	}
	if block.Tail != nil {
		g.writeLine("return %s;", g.exprJS(block.Tail))
	}
}

func (g *Generator) generateStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		g.writeLine("const %s = %s;", s.Name, g.exprJS(s.Value))
	case *ast.ExprStmt:
		g.writeLine("%s;", g.exprJS(s.Expr))
	case *ast.IfStmt:
		g.writeLine("if (%s) {", g.exprJS(s.Cond))
		g.indent++
		g.generateBlockBody(s.Then)
		g.indent--
		if s.Else != nil {
			g.writeLine("} else {")
			g.indent++
			g.generateBlockBody(s.Else)
			g.indent--
		}
		g.writeLine("}")
	case *ast.MatchStmt:
		g.generateMatchStatement(s.Scrutinee, s.Cases)
	}
}

// generateMatchStatement lowers a match used for its effects only (value
// discarded) to a switch over the scrutinee's tag field, or a plain
// fallthrough binding when the only arm is a bare identifier/wildcard
// (spec.md §4.5 requires a wildcard whenever the scrutinee is not a
// tagged union, so that is always the shape in that case).
func (g *Generator) generateMatchStatement(scrutinee ast.Expr, cases []*ast.MatchCase) {
	g.emitMatch(scrutinee, cases, false)
}

// emitMatch is the shared lowering for MatchStmt and MatchExpr: a tag
// switch when any arm is a constructor pattern, or a direct binding when
// the arm set is a single identifier/wildcard catch-all (the only shape
// sema allows for a non-union scrutinee).
func (g *Generator) emitMatch(scrutinee ast.Expr, cases []*ast.MatchCase, asExpression bool) {
	scrutVar := fmt.Sprintf("__match%d", g.indent)
	g.writeLine("const %s = %s;", scrutVar, g.exprJS(scrutinee))

	if !hasConstructorArm(cases) {
		for _, c := range cases {
			if name, ok := bindingName(c.Pattern); ok {
				g.writeLine("const %s = %s;", name, scrutVar)
			}
			g.emitArmBody(c.Body, asExpression)
			return
		}
		return
	}

	g.writeLine("switch (%s.tag) {", scrutVar)
	g.indent++
	for _, c := range cases {
		g.generateMatchArmCase(c, scrutVar, asExpression)
	}
	g.indent--
	g.writeLine("}")
}

func hasConstructorArm(cases []*ast.MatchCase) bool {
	for _, c := range cases {
		if _, ok := c.Pattern.(*ast.ConstructorPattern); ok {
			return true
		}
	}
	return false
}

// generateMatchArmCase writes one `case`/`default` label and its body. If
// asExpression is true, the body ends in a `return`; otherwise the body's
// value is discarded and the case simply breaks.
func (g *Generator) generateMatchArmCase(c *ast.MatchCase, scrutVar string, asExpression bool) {
	switch pat := c.Pattern.(type) {
	case *ast.ConstructorPattern:
		g.writeLine("case %q: {", pat.Tag)
		g.indent++
		for i, field := range pat.Fields {
			if name, ok := bindingName(field); ok {
				g.writeLine("const %s = %s.%s;", name, scrutVar, fieldNameAt(g.ctors[pat.Tag], i))
			}
		}
		g.emitArmBody(c.Body, asExpression)
		g.indent--
		g.writeLine("}")
	case *ast.IdentifierPattern:
		g.writeLine("default: {")
		g.indent++
		g.writeLine("const %s = %s;", pat.Name, scrutVar)
		g.emitArmBody(c.Body, asExpression)
		g.indent--
		g.writeLine("}")
	case *ast.WildcardPattern:
		g.writeLine("default: {")
		g.indent++
		g.emitArmBody(c.Body, asExpression)
		g.indent--
		g.writeLine("}")
	}
}

func (g *Generator) emitArmBody(body ast.Expr, asExpression bool) {
	if asExpression {
		g.writeLine("return %s;", g.exprJS(body))
		return
	}
	g.writeLine("%s;", g.exprJS(body))
	g.writeLine("break;")
}

// bindingName reports the name a nested field pattern binds, if any.
func bindingName(pat ast.Pattern) (string, bool) {
	if id, ok := pat.(*ast.IdentifierPattern); ok {
		return id.Name, true
	}
	return "", false
}

func fieldNameAt(info ctorInfo, i int) string {
	if i < len(info.fields) {
		return info.fields[i]
	}
	return fmt.Sprintf("field%d", i)
}

// blockAsExpression renders a block as a self-invoking function expression
// so it can be embedded as a JS sub-expression (an if branch used in
// expression/tail position, or a BlockExpr).
func (g *Generator) blockAsExpression(block *ast.Block) string {
	saved := g.buf
	savedIndent := g.indent
	g.buf = new(strings.Builder)
	g.indent = 0
	g.buf.WriteString("(function() {\n")
	g.indent++
	g.generateBlockBody(block)
	g.indent--
	g.buf.WriteString("})()")
	out := g.buf.String()
	g.buf = saved
	g.indent = savedIndent
	return out
}

// matchAsExpression renders a match used in expression/tail position as a
// self-invoking function wrapping emitMatch's switch-with-return form,
// since JS switch statements have no expression form of their own.
func (g *Generator) matchAsExpression(scrutinee ast.Expr, cases []*ast.MatchCase) string {
	saved := g.buf
	savedIndent := g.indent
	g.buf = new(strings.Builder)
	g.indent = 0
	g.buf.WriteString("(function() {\n")
	g.indent++
	g.emitMatch(scrutinee, cases, true)
	g.indent--
	g.buf.WriteString("})()")
	out := g.buf.String()
	g.buf = saved
	g.indent = savedIndent
	return out
}
