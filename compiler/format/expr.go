package format

import (
	"strconv"
	"strings"

	"github.com/manaknight/mkc/compiler/ast"
)

// Precedence levels mirror the parser's precedence-climbing table
// (compiler/parser/parser_expr.go) exactly, so the formatter inserts
// parentheses only where the grammar would otherwise reassociate the tree
// differently on reparse.
const (
	precNone = iota
	precPipe
	precOr
	precAnd
	precEquality
	precComparison
	precAdditive
	precMultiplicative
	precUnary
	precAtom
)

var binaryPrec = map[string]int{
	"||": precOr,
	"&&": precAnd,
	"==": precEquality,
	"!=": precEquality,
	"<":  precComparison,
	">":  precComparison,
	"<=": precComparison,
	">=": precComparison,
	"+":  precAdditive,
	"-":  precAdditive,
	"*":  precMultiplicative,
	"/":  precMultiplicative,
	"%":  precMultiplicative,
}

// exprPrec reports the precedence level of e's own outermost operator, for
// deciding whether a parent needs to parenthesize it.
func exprPrec(e ast.Expr) int {
	switch x := e.(type) {
	case *ast.PipeExpr:
		return precPipe
	case *ast.BinaryExpr:
		return binaryPrec[x.Operator]
	case *ast.UnaryExpr:
		return precUnary
	default:
		return precAtom
	}
}

// exprString renders e, wrapping it in parentheses if its own precedence
// is lower than minPrec (the precedence level required by the calling
// context) so that reparsing produces the same tree shape.
func (f *Formatter) exprString(e ast.Expr, minPrec int) string {
	s := f.renderExpr(e)
	if exprPrec(e) < minPrec {
		return "(" + s + ")"
	}
	return s
}

func (f *Formatter) renderExpr(e ast.Expr) string {
	switch x := e.(type) {
	case nil:
		return ""
	case *ast.LiteralExpr:
		return f.renderLiteral(x)
	case *ast.IdentifierExpr:
		return x.Name
	case *ast.CallExpr:
		return f.renderCall(x)
	case *ast.LambdaExpr:
		return f.renderLambda(x)
	case *ast.IfExpr:
		return f.renderIfExpr(x)
	case *ast.MatchExpr:
		return f.renderMatchExpr(x)
	case *ast.BinaryExpr:
		prec := binaryPrec[x.Operator]
		left := f.exprString(x.Left, prec)
		right := f.exprString(x.Right, prec+1)
		return left + " " + x.Operator + " " + right
	case *ast.UnaryExpr:
		return x.Operator + f.exprString(x.Operand, precUnary)
	case *ast.PipeExpr:
		value := f.exprString(x.Value, precPipe)
		fn := f.exprString(x.Func, precPipe+1)
		return value + " |> " + fn
	case *ast.BlockExpr:
		return f.renderBlockExpr(x)
	default:
		return "?"
	}
}

func (f *Formatter) renderLiteral(l *ast.LiteralExpr) string {
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
		return "?"
	}
}

func (f *Formatter) renderCall(c *ast.CallExpr) string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = f.exprString(a, precNone)
	}
	return f.exprString(c.Callee, precAtom) + "(" + strings.Join(args, ", ") + ")"
}

func (f *Formatter) renderLambda(l *ast.LambdaExpr) string {
	var sb strings.Builder
	sb.WriteString("fn(")
	for i, p := range l.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		sb.WriteString(": ")
		sb.WriteString(f.renderType(p.Type))
	}
	sb.WriteString(") ")
	sb.WriteString(f.inlineBlock(l.Body))
	return sb.String()
}

func (f *Formatter) renderIfExpr(i *ast.IfExpr) string {
	s := "if " + f.exprString(i.Cond, precNone) + " " + f.inlineBlock(i.Then)
	if i.Else != nil {
		s += " else " + f.inlineBlock(i.Else)
	}
	return s
}

func (f *Formatter) renderMatchExpr(m *ast.MatchExpr) string {
	return "match " + f.exprString(m.Scrutinee, precNone) + " " + f.inlineMatchCases(m.Cases)
}

func (f *Formatter) renderBlockExpr(b *ast.BlockExpr) string {
	return f.inlineBlock(b.Block)
}

// inlineBlock renders a block using the formatter's current indent level,
// identical to formatBlock, but returns the text instead of writing
// directly so it can be embedded inside an expression string (e.g. a
// lambda body, or the branch of an if-expression used as a tail).
func (f *Formatter) inlineBlock(block *ast.Block) string {
	saved := f.buf
	f.buf = new(strings.Builder)
	f.formatBlock(block)
	out := f.buf.String()
	f.buf = saved
	return strings.TrimSuffix(out, "\n")
}

func (f *Formatter) inlineMatchCases(cases []*ast.MatchCase) string {
	saved := f.buf
	f.buf = new(strings.Builder)
	f.formatMatchCases(cases)
	out := f.buf.String()
	f.buf = saved
	return strings.TrimSuffix(out, "\n")
}
