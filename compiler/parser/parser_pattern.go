package parser

import (
	"github.com/manaknight/mkc/compiler/ast"
	"github.com/manaknight/mkc/compiler/lexer"
)

// parsePattern parses a match-arm pattern: a wildcard, a bare identifier
// binding, or a constructor pattern with nested field patterns.
func (p *Parser) parsePattern() ast.Pattern {
	tok := p.peek()
	loc := tokenLocation(tok)

	if p.match(lexer.TOKEN_UNDERSCORE) {
		return &ast.WildcardPattern{Loc: loc}
	}

	// The prelude constructors are keywords, not identifiers, but behave
	// as ordinary constructor tags in pattern position.
	if p.check(lexer.TOKEN_SOME) || p.check(lexer.TOKEN_NONE) || p.check(lexer.TOKEN_OK) || p.check(lexer.TOKEN_ERR) {
		tag := p.advance()
		return p.parseConstructorPatternTail(tag.Lexeme, loc)
	}

	nameTok, ok := p.consume(lexer.TOKEN_IDENTIFIER, "a pattern")
	if !ok {
		return nil
	}

	if !p.check(lexer.TOKEN_LPAREN) {
		// A bare name is ambiguous between a nullary constructor tag and
		// a fresh binding; the semantic analyzer resolves it against the
		// scrutinee's declared union constructors and treats an
		// unresolved name as a binding.
		return &ast.IdentifierPattern{Name: nameTok.Lexeme, Loc: loc}
	}

	return p.parseConstructorPatternTail(nameTok.Lexeme, loc)
}

// parseConstructorPatternTail parses the optional `(field, ...)` suffix of
// a constructor pattern whose tag has already been consumed.
func (p *Parser) parseConstructorPatternTail(tag string, loc ast.SourceLocation) ast.Pattern {
	if !p.check(lexer.TOKEN_LPAREN) {
		return &ast.ConstructorPattern{Tag: tag, Loc: loc}
	}
	p.advance() // "("
	var fields []ast.Pattern
	for !p.check(lexer.TOKEN_RPAREN) && !p.isAtEnd() {
		field := p.parsePattern()
		if field == nil {
			break
		}
		fields = append(fields, field)
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}
	p.consume(lexer.TOKEN_RPAREN, "')'")
	return &ast.ConstructorPattern{Tag: tag, Fields: fields, Loc: loc}
}
