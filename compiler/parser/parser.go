// Package parser implements mk's recursive-descent parser (spec.md §4.2):
// one token of lookahead, accumulated diagnostics instead of exceptions,
// and synchronization-based error recovery.
package parser

import (
	"strings"

	"github.com/manaknight/mkc/compiler/ast"
	"github.com/manaknight/mkc/compiler/errors"
	"github.com/manaknight/mkc/compiler/lexer"
)

// Parser turns a token stream into a Program, collecting diagnostics as it
// goes rather than raising them.
type Parser struct {
	tokens    []lexer.Token
	current   int
	bag       *errors.Bag
	panicMode bool
}

// New creates a Parser over a token stream produced by the lexer.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens, bag: errors.NewBag()}
}

// Parse parses the full token stream and returns the resulting Program
// along with the accumulated diagnostics. The AST may contain partial or
// placeholder nodes when errors were reported; callers must check
// bag.Clean() before trusting the tree to downstream phases.
func (p *Parser) Parse() (*ast.Program, *errors.Bag) {
	prog := &ast.Program{}
	for !p.isAtEnd() {
		switch {
		case p.check(lexer.TOKEN_MODULE):
			if mod := p.parseModule(); mod != nil {
				prog.Modules = append(prog.Modules, mod)
			}
		case p.check(lexer.TOKEN_API):
			if route := p.parseAPIRoute(); route != nil {
				prog.Routes = append(prog.Routes, route)
			}
		default:
			p.errorf(errors.EUnexpectedToken, p.peek(), "expected 'module' or 'api', found %q", p.peek().Lexeme)
			p.synchronize()
		}
	}
	return prog, p.bag
}

// --- token stream primitives ---

func (p *Parser) isAtEnd() bool {
	return p.current >= len(p.tokens) || p.tokens[p.current].Type == lexer.TOKEN_EOF
}

func (p *Parser) peek() lexer.Token {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

func (p *Parser) previous() lexer.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return !p.isAtEnd() && p.peek().Type == tt
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances past a token of type tt or records a diagnostic and
// returns ok=false, leaving the stream positioned at the offending token.
func (p *Parser) consume(tt lexer.TokenType, expected string) (lexer.Token, bool) {
	if p.check(tt) {
		return p.advance(), true
	}
	p.errorf(errors.EUnexpectedToken, p.peek(), "expected %s, found %q", expected, p.peek().Lexeme)
	return lexer.Token{}, false
}

func (p *Parser) errorf(code string, at lexer.Token, format string, args ...interface{}) {
	p.bag.Add(errors.Newf("parser", code, tokenLocation(at), format, args...))
	p.panicMode = true
}

// synchronize discards tokens until a statement boundary: a closing brace
// or a keyword that starts a new top-level or block-level construct.
func (p *Parser) synchronize() {
	p.panicMode = false
	for !p.isAtEnd() {
		switch p.peek().Type {
		case lexer.TOKEN_RBRACE, lexer.TOKEN_MODULE, lexer.TOKEN_API, lexer.TOKEN_FN,
			lexer.TOKEN_TYPE, lexer.TOKEN_EFFECT, lexer.TOKEN_IMPORT, lexer.TOKEN_LET,
			lexer.TOKEN_IF, lexer.TOKEN_MATCH:
			return
		}
		p.advance()
	}
}

// --- top level ---

func (p *Parser) parseModule() *ast.ModuleDecl {
	start := p.advance() // "module"
	name, ok := p.consume(lexer.TOKEN_IDENTIFIER, "a module name")
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.consume(lexer.TOKEN_LBRACE, "'{'"); !ok {
		p.synchronize()
		return nil
	}

	mod := &ast.ModuleDecl{Name: name.Lexeme, Loc: tokenLocation(start)}
	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		decl := p.parseDecl()
		if decl != nil {
			mod.Decls = append(mod.Decls, decl)
		} else {
			p.synchronize()
		}
	}
	p.consume(lexer.TOKEN_RBRACE, "'}'")
	return mod
}

func (p *Parser) parseDecl() ast.Decl {
	switch {
	case p.check(lexer.TOKEN_FN):
		return p.parseFunctionDecl()
	case p.check(lexer.TOKEN_TYPE):
		return p.parseTypeDecl()
	case p.check(lexer.TOKEN_EFFECT):
		return p.parseEffectDecl()
	case p.check(lexer.TOKEN_IMPORT):
		return p.parseImportDecl()
	default:
		p.errorf(errors.EUnexpectedToken, p.peek(), "expected a declaration, found %q", p.peek().Lexeme)
		return nil
	}
}

func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	start := p.advance() // "fn"
	name, ok := p.consume(lexer.TOKEN_IDENTIFIER, "a function name")
	if !ok {
		return nil
	}
	params := p.parseParamList()
	if _, ok := p.consume(lexer.TOKEN_ARROW, "'->'"); !ok {
		return nil
	}
	retType := p.parseType()
	effects := p.parseOptionalUses()
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.FunctionDecl{
		Name:       name.Lexeme,
		Params:     params,
		ReturnType: retType,
		Effects:    effects,
		Body:       body,
		Loc:        tokenLocation(start),
	}
}

func (p *Parser) parseEffectDecl() *ast.EffectDecl {
	start := p.advance() // "effect"
	name, ok := p.consume(lexer.TOKEN_IDENTIFIER, "an effect name")
	if !ok {
		return nil
	}
	return &ast.EffectDecl{Name: name.Lexeme, Loc: tokenLocation(start)}
}

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.advance() // "import"
	var sb strings.Builder
	first, ok := p.consume(lexer.TOKEN_IDENTIFIER, "a module path")
	if !ok {
		return nil
	}
	sb.WriteString(first.Lexeme)
	for p.check(lexer.TOKEN_DOT) {
		p.advance()
		seg, ok := p.consume(lexer.TOKEN_IDENTIFIER, "a module path segment")
		if !ok {
			return nil
		}
		sb.WriteByte('.')
		sb.WriteString(seg.Lexeme)
	}
	decl := &ast.ImportDecl{Path: sb.String(), Loc: tokenLocation(start)}
	if p.match(lexer.TOKEN_AS) {
		alias, ok := p.consume(lexer.TOKEN_IDENTIFIER, "an alias name")
		if !ok {
			return nil
		}
		decl.Alias = alias.Lexeme
	}
	return decl
}

func (p *Parser) parseAPIRoute() *ast.APIRouteDecl {
	start := p.advance() // "api"
	methodTok, ok := p.consume(lexer.TOKEN_IDENTIFIER, "an HTTP method")
	if !ok {
		return nil
	}
	method := strings.ToUpper(methodTok.Lexeme)
	if !lexer.IsHTTPMethodWord(strings.ToLower(methodTok.Lexeme)) {
		p.errorf(errors.EInvalidHTTPMethod, methodTok, "invalid HTTP method %q", methodTok.Lexeme)
	}

	pathTok, ok := p.consume(lexer.TOKEN_STRING_LITERAL, "a route path string")
	if !ok {
		return nil
	}
	path, _ := pathTok.Literal.(string)

	params := p.parseParamList()
	if _, ok := p.consume(lexer.TOKEN_ARROW, "'->'"); !ok {
		return nil
	}
	retType := p.parseType()
	effects := p.parseOptionalUses()
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.APIRouteDecl{
		Method:     method,
		Path:       path,
		Params:     params,
		ReturnType: retType,
		Effects:    effects,
		Body:       body,
		Loc:        tokenLocation(start),
	}
}

// parseParamList parses a parenthesized, possibly empty, comma-separated
// list of `name: type` parameters.
func (p *Parser) parseParamList() []*ast.Param {
	if _, ok := p.consume(lexer.TOKEN_LPAREN, "'('"); !ok {
		return nil
	}
	var params []*ast.Param
	for !p.check(lexer.TOKEN_RPAREN) && !p.isAtEnd() {
		nameTok, ok := p.consume(lexer.TOKEN_IDENTIFIER, "a parameter name")
		if !ok {
			break
		}
		if _, ok := p.consume(lexer.TOKEN_COLON, "':'"); !ok {
			break
		}
		ty := p.parseType()
		params = append(params, &ast.Param{Name: nameTok.Lexeme, Type: ty, Loc: tokenLocation(nameTok)})
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}
	p.consume(lexer.TOKEN_RPAREN, "')'")
	return params
}

// parseOptionalUses parses an optional `uses { a, b, c }` effect clause.
func (p *Parser) parseOptionalUses() []string {
	if !p.match(lexer.TOKEN_USES) {
		return nil
	}
	if _, ok := p.consume(lexer.TOKEN_LBRACE, "'{'"); !ok {
		return nil
	}
	var names []string
	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		tok, ok := p.consume(lexer.TOKEN_IDENTIFIER, "an effect name")
		if !ok {
			break
		}
		names = append(names, tok.Lexeme)
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}
	p.consume(lexer.TOKEN_RBRACE, "'}'")
	return names
}
