package parser

import (
	"github.com/manaknight/mkc/compiler/ast"
	"github.com/manaknight/mkc/compiler/errors"
	"github.com/manaknight/mkc/compiler/lexer"
)

// Precedence levels, lowest to highest, per spec.md §4.2.
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
	precCall
)

var binaryPrecedence = map[lexer.TokenType]int{
	lexer.TOKEN_PIPE_OR:          precOr,
	lexer.TOKEN_AMP_AND:          precAnd,
	lexer.TOKEN_EQUAL_EQUAL:      precEquality,
	lexer.TOKEN_BANG_EQUAL:       precEquality,
	lexer.TOKEN_LANGLE:           precComparison,
	lexer.TOKEN_RANGLE:           precComparison,
	lexer.TOKEN_LESS_EQUAL:       precComparison,
	lexer.TOKEN_GREATER_EQUAL:    precComparison,
	lexer.TOKEN_PLUS:             precAdditive,
	lexer.TOKEN_MINUS:            precAdditive,
	lexer.TOKEN_STAR:             precMultiplicative,
	lexer.TOKEN_SLASH:            precMultiplicative,
	lexer.TOKEN_PERCENT:          precMultiplicative,
}

var binaryOperatorText = map[lexer.TokenType]string{
	lexer.TOKEN_PIPE_OR:       "||",
	lexer.TOKEN_AMP_AND:       "&&",
	lexer.TOKEN_EQUAL_EQUAL:   "==",
	lexer.TOKEN_BANG_EQUAL:    "!=",
	lexer.TOKEN_LANGLE:        "<",
	lexer.TOKEN_RANGLE:        ">",
	lexer.TOKEN_LESS_EQUAL:    "<=",
	lexer.TOKEN_GREATER_EQUAL: ">=",
	lexer.TOKEN_PLUS:          "+",
	lexer.TOKEN_MINUS:         "-",
	lexer.TOKEN_STAR:          "*",
	lexer.TOKEN_SLASH:         "/",
	lexer.TOKEN_PERCENT:       "%",
}

// parseExpression parses an expression at the lowest precedence, so that
// a top-level pipe chain is consumed in full.
func (p *Parser) parseExpression() ast.Expr {
	return p.parsePipe()
}

// parsePipe handles `a |> f |> g`, left-associative, below every other
// binary operator.
func (p *Parser) parsePipe() ast.Expr {
	left := p.parseBinary(precNone + 1)
	if left == nil {
		return nil
	}
	for p.check(lexer.TOKEN_PIPE) {
		tok := p.advance()
		fn := p.parseBinary(precNone + 1)
		if fn == nil {
			return left
		}
		left = &ast.PipeExpr{Value: left, Func: fn, Loc: tokenLocation(tok)}
	}
	return left
}

// parseBinary implements precedence-climbing over the operators below
// call/unary: or, and, equality, comparison, additive, multiplicative.
func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		prec, ok := binaryPrecedence[p.peek().Type]
		if !ok || prec < minPrec {
			return left
		}
		opTok := p.advance()
		right := p.parseBinary(prec + 1)
		if right == nil {
			return left
		}
		left = &ast.BinaryExpr{Left: left, Operator: binaryOperatorText[opTok.Type], Right: right, Loc: tokenLocation(opTok)}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	if p.check(lexer.TOKEN_MINUS) || p.check(lexer.TOKEN_BANG) {
		tok := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		op := "-"
		if tok.Type == lexer.TOKEN_BANG {
			op = "!"
		}
		return &ast.UnaryExpr{Operator: op, Operand: operand, Loc: tokenLocation(tok)}
	}
	return p.parseCall()
}

// parseCall parses a primary expression followed by zero or more call
// suffixes: `primary (call_or_pipe)*` restricted to call application,
// per spec.md §4.2 (pipe chaining is handled one level up).
func (p *Parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	for p.check(lexer.TOKEN_LPAREN) {
		tok := p.peek()
		args := p.parseArgList()
		expr = &ast.CallExpr{Callee: expr, Args: args, Loc: tokenLocation(tok)}
	}
	return expr
}

func (p *Parser) parseArgList() []ast.Expr {
	p.advance() // "("
	var args []ast.Expr
	for !p.check(lexer.TOKEN_RPAREN) && !p.isAtEnd() {
		arg := p.parseExpression()
		if arg == nil {
			break
		}
		args = append(args, arg)
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}
	p.consume(lexer.TOKEN_RPAREN, "')'")
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	loc := tokenLocation(tok)

	switch {
	case p.check(lexer.TOKEN_INT_LITERAL):
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LiteralInt, Int: tok.Literal.(int64), Loc: loc}

	case p.check(lexer.TOKEN_STRING_LITERAL):
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LiteralString, Str: tok.Literal.(string), Loc: loc}

	case p.match(lexer.TOKEN_TRUE):
		return &ast.LiteralExpr{Kind: ast.LiteralBool, Bool: true, Loc: loc}

	case p.match(lexer.TOKEN_FALSE):
		return &ast.LiteralExpr{Kind: ast.LiteralBool, Bool: false, Loc: loc}

	case p.check(lexer.TOKEN_SOME), p.check(lexer.TOKEN_NONE), p.check(lexer.TOKEN_OK), p.check(lexer.TOKEN_ERR):
		return p.parseConstructorCall()

	case p.check(lexer.TOKEN_IDENTIFIER):
		p.advance()
		return &ast.IdentifierExpr{Name: tok.Lexeme, Loc: loc}

	case p.check(lexer.TOKEN_FN):
		return p.parseLambda()

	case p.check(lexer.TOKEN_IF):
		return p.parseIfExpr()

	case p.check(lexer.TOKEN_MATCH):
		return p.parseMatchExpr()

	case p.match(lexer.TOKEN_LPAREN):
		expr := p.parseExpression()
		p.consume(lexer.TOKEN_RPAREN, "')'")
		return expr

	default:
		p.errorf(errors.EUnexpectedToken, tok, "expected an expression, found %q", tok.Lexeme)
		return nil
	}
}

// parseConstructorCall parses the prelude constructors `some(x)`, `none`,
// `ok(x)`, `err(x)` as ordinary identifier-call expressions; the symbol
// table resolves their names against the prelude (spec.md §4.6).
func (p *Parser) parseConstructorCall() ast.Expr {
	tok := p.advance()
	ident := &ast.IdentifierExpr{Name: tok.Lexeme, Loc: tokenLocation(tok)}
	if !p.check(lexer.TOKEN_LPAREN) {
		return ident
	}
	args := p.parseArgList()
	return &ast.CallExpr{Callee: ident, Args: args, Loc: tokenLocation(tok)}
}

// parseLambda parses an anonymous function `fn(params) block`. Lambdas
// carry no return type and no "uses" clause: they are always pure
// (spec.md §4.5 effect checking).
func (p *Parser) parseLambda() ast.Expr {
	start := p.advance() // "fn"
	params := p.parseParamList()
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.LambdaExpr{Params: params, Body: body, Loc: tokenLocation(start)}
}
