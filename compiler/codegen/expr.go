package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manaknight/mkc/compiler/ast"
)

// exprJS lowers e to a single JS expression string. Binary and unary
// operands are always parenthesized: correctness of the generated
// program matters far more here than minimal punctuation, unlike the
// formatter's precedence-aware rendering of source text meant for humans.
func (g *Generator) exprJS(e ast.Expr) string {
	switch x := e.(type) {
	case nil:
		return "undefined"
	case *ast.LiteralExpr:
		return g.literalJS(x)
	case *ast.IdentifierExpr:
		return g.identifierJS(x)
	case *ast.CallExpr:
		return g.callJS(x)
	case *ast.LambdaExpr:
		return g.lambdaJS(x)
	case *ast.IfExpr:
		return g.ifExprJS(x)
	case *ast.MatchExpr:
		return g.matchAsExpression(x.Scrutinee, x.Cases)
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", g.exprJS(x.Left), jsOperator(x.Operator), g.exprJS(x.Right))
	case *ast.UnaryExpr:
		return fmt.Sprintf("(%s%s)", jsOperator(x.Operator), g.exprJS(x.Operand))
	case *ast.PipeExpr:
		return fmt.Sprintf("%s(%s)", g.exprJS(x.Func), g.exprJS(x.Value))
	case *ast.BlockExpr:
		return g.blockAsExpression(x.Block)
	default:
		return "undefined /* unhandled expression */"
	}
}

// jsOperator maps mk's boolean operators to their JS spellings; every
// other operator (arithmetic and comparison) is already valid JS.
func jsOperator(op string) string {
	switch op {
	case "||":
		return "||"
	case "&&":
		return "&&"
	default:
		return op
	}
}

func (g *Generator) literalJS(l *ast.LiteralExpr) string {
	switch l.Kind {
	case ast.LiteralInt:
		return strconv.FormatInt(l.Int, 10)
	case ast.LiteralString:
		return strconv.Quote(l.Str)
	case ast.LiteralBool:
		if l.Bool {
			return "true"
		}
		return "false"
	default:
		return "undefined"
	}
}

// identifierJS lowers a bare identifier. If it names a registered nullary
// tagged-union constructor (e.g. `none`, or a user union's zero-field
// tag), it becomes a `{tag}` record rather than a variable reference.
func (g *Generator) identifierJS(id *ast.IdentifierExpr) string {
	if info, ok := g.isKnownConstructor(id.Name); ok && len(info.fields) == 0 {
		return fmt.Sprintf("{tag: %q}", id.Name)
	}
	return id.Name
}

// callJS lowers a call. A call whose callee names a registered
// constructor becomes a `{tag, field...}` record instead of a function
// invocation; every other call lowers to an ordinary JS call expression.
// An effectful callee's permitted host-effect reach is documented at its
// declaration site (generateFunction's `// uses:` comment), not at each
// call site, since mk has no member-access syntax for the host's effect
// object to appear in a call expression at all.
func (g *Generator) callJS(c *ast.CallExpr) string {
	if id, ok := c.Callee.(*ast.IdentifierExpr); ok {
		if info, ok := g.isKnownConstructor(id.Name); ok {
			return g.recordJS(id.Name, info, c.Args)
		}
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = g.exprJS(a)
	}
	return fmt.Sprintf("%s(%s)", g.exprJS(c.Callee), strings.Join(args, ", "))
}

func (g *Generator) recordJS(tag string, info ctorInfo, args []ast.Expr) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, fmt.Sprintf("tag: %q", tag))
	for i, a := range args {
		parts = append(parts, fmt.Sprintf("%s: %s", fieldNameAt(info, i), g.exprJS(a)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// lambdaJS lowers a lambda to a JS function expression, reusing the
// buffer-swap technique rather than the IIFE form blockAsExpression
// produces: a lambda already is a function value, so it must not be
// immediately invoked.
func (g *Generator) lambdaJS(l *ast.LambdaExpr) string {
	saved := g.buf
	savedIndent := g.indent
	g.buf = new(strings.Builder)
	g.indent = 0
	fmt.Fprintf(g.buf, "function(%s) {\n", paramList(l.Params))
	g.indent++
	g.generateBlockBody(l.Body)
	g.indent--
	g.buf.WriteString("}")
	out := g.buf.String()
	g.buf = saved
	g.indent = savedIndent
	return out
}

// ifExprJS lowers an if used in expression/tail position to a ternary
// whose branches are self-invoking functions, so multi-statement
// branches (lets, effectful calls) still work as a single expression.
func (g *Generator) ifExprJS(i *ast.IfExpr) string {
	elseBranch := "undefined"
	if i.Else != nil {
		elseBranch = g.blockAsExpression(i.Else)
	}
	return fmt.Sprintf("(%s ? %s : %s)", g.exprJS(i.Cond), g.blockAsExpression(i.Then), elseBranch)
}
