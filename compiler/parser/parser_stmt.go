package parser

import (
	"github.com/manaknight/mkc/compiler/ast"
	"github.com/manaknight/mkc/compiler/lexer"
)

// parseBlock parses `{ stmt* expr? }`. `if` and `match` are ambiguous
// between statement and tail-expression form (spec.md §9, open question c):
// they parse as IfStmt/MatchStmt unless they are the last construct before
// the closing brace, in which case they parse as IfExpr/MatchExpr and
// become the block's tail.
func (p *Parser) parseBlock() *ast.Block {
	start, ok := p.consume(lexer.TOKEN_LBRACE, "'{'")
	if !ok {
		return nil
	}
	block := &ast.Block{Loc: tokenLocation(start)}

	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		if p.check(lexer.TOKEN_LET) {
			if stmt := p.parseLetStmt(); stmt != nil {
				block.Stmts = append(block.Stmts, stmt)
			} else {
				p.synchronize()
			}
			continue
		}

		if p.check(lexer.TOKEN_IF) {
			tokStart := p.peek()
			cond, then, elseBlock := p.parseIfParts()
			if p.check(lexer.TOKEN_RBRACE) {
				block.Tail = &ast.IfExpr{Cond: cond, Then: then, Else: elseBlock, Loc: tokenLocation(tokStart)}
				break
			}
			block.Stmts = append(block.Stmts, &ast.IfStmt{Cond: cond, Then: then, Else: elseBlock, Loc: tokenLocation(tokStart)})
			continue
		}

		if p.check(lexer.TOKEN_MATCH) {
			tokStart := p.peek()
			scrutinee, cases := p.parseMatchParts()
			if p.check(lexer.TOKEN_RBRACE) {
				block.Tail = &ast.MatchExpr{Scrutinee: scrutinee, Cases: cases, Loc: tokenLocation(tokStart)}
				break
			}
			block.Stmts = append(block.Stmts, &ast.MatchStmt{Scrutinee: scrutinee, Cases: cases, Loc: tokenLocation(tokStart)})
			continue
		}

		expr := p.parseExpression()
		if expr == nil {
			p.synchronize()
			continue
		}
		if p.check(lexer.TOKEN_RBRACE) {
			block.Tail = expr
			break
		}
		block.Stmts = append(block.Stmts, &ast.ExprStmt{Expr: expr, Loc: expr.Location()})
	}

	p.consume(lexer.TOKEN_RBRACE, "'}'")
	return block
}

func (p *Parser) parseLetStmt() *ast.LetStmt {
	start := p.advance() // "let"
	nameTok, ok := p.consume(lexer.TOKEN_IDENTIFIER, "a binding name")
	if !ok {
		return nil
	}
	if _, ok := p.consume(lexer.TOKEN_EQUAL, "'='"); !ok {
		return nil
	}
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	return &ast.LetStmt{Name: nameTok.Lexeme, Value: value, Loc: tokenLocation(start)}
}

// parseIfParts parses `if expr block ("else" block)?` past the `if`
// keyword and returns its pieces for the caller to wrap as IfStmt or IfExpr.
func (p *Parser) parseIfParts() (ast.Expr, *ast.Block, *ast.Block) {
	p.advance() // "if"
	cond := p.parseExpression()
	then := p.parseBlock()
	var elseBlock *ast.Block
	if p.match(lexer.TOKEN_ELSE) {
		elseBlock = p.parseBlock()
	}
	return cond, then, elseBlock
}

// parseIfExpr parses an `if` appearing directly in expression position
// (e.g. as a let binding's value), not at block-statement position.
func (p *Parser) parseIfExpr() ast.Expr {
	start := p.peek()
	cond, then, elseBlock := p.parseIfParts()
	if then == nil {
		return nil
	}
	return &ast.IfExpr{Cond: cond, Then: then, Else: elseBlock, Loc: tokenLocation(start)}
}

// parseMatchParts parses `match expr { case+ }` past the `match` keyword.
func (p *Parser) parseMatchParts() (ast.Expr, []*ast.MatchCase) {
	p.advance() // "match"
	scrutinee := p.parseExpression()
	if _, ok := p.consume(lexer.TOKEN_LBRACE, "'{'"); !ok {
		return scrutinee, nil
	}
	var cases []*ast.MatchCase
	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		caseStart := p.peek()
		pattern := p.parsePattern()
		if pattern == nil {
			p.synchronize()
			continue
		}
		if _, ok := p.consume(lexer.TOKEN_ARROW, "'->'"); !ok {
			break
		}
		body := p.parseExpression()
		if body == nil {
			break
		}
		cases = append(cases, &ast.MatchCase{Pattern: pattern, Body: body, Loc: tokenLocation(caseStart)})
		p.match(lexer.TOKEN_COMMA)
	}
	p.consume(lexer.TOKEN_RBRACE, "'}'")
	return scrutinee, cases
}

// parseMatchExpr parses a `match` appearing directly in expression
// position, not at block-statement position.
func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.peek()
	scrutinee, cases := p.parseMatchParts()
	return &ast.MatchExpr{Scrutinee: scrutinee, Cases: cases, Loc: tokenLocation(start)}
}
