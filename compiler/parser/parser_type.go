package parser

import (
	"github.com/manaknight/mkc/compiler/ast"
	"github.com/manaknight/mkc/compiler/lexer"
)

var primitiveNames = map[string]ast.PrimitiveKind{
	"Int":    ast.PrimInt,
	"Bool":   ast.PrimBool,
	"String": ast.PrimString,
	"Unit":   ast.PrimUnit,
}

// parseType parses a type annotation: a primitive, a named type, a generic
// instantiation (`Name<Arg, ...>`), or a function type (`(T, ...) -> T`).
func (p *Parser) parseType() ast.Type {
	start := p.peek()

	if p.check(lexer.TOKEN_LPAREN) {
		return p.parseFunctionType()
	}

	nameTok, ok := p.consume(lexer.TOKEN_IDENTIFIER, "a type name")
	if !ok {
		return nil
	}

	if p.match(lexer.TOKEN_LANGLE) {
		var args []ast.Type
		for {
			args = append(args, p.parseType())
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
		p.consume(lexer.TOKEN_RANGLE, "'>'")
		return &ast.GenericType{Name: nameTok.Lexeme, Args: args, Loc: tokenLocation(start)}
	}

	if kind, ok := primitiveNames[nameTok.Lexeme]; ok {
		return &ast.PrimitiveType{Kind: kind, Loc: tokenLocation(start)}
	}
	return &ast.NamedType{Name: nameTok.Lexeme, Loc: tokenLocation(start)}
}

func (p *Parser) parseFunctionType() ast.Type {
	start := p.advance() // "("
	var params []ast.Type
	for !p.check(lexer.TOKEN_RPAREN) && !p.isAtEnd() {
		params = append(params, p.parseType())
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}
	p.consume(lexer.TOKEN_RPAREN, "')'")
	if _, ok := p.consume(lexer.TOKEN_ARROW, "'->'"); !ok {
		return nil
	}
	result := p.parseType()
	effects := p.parseOptionalUses()
	return &ast.FunctionType{Params: params, Result: result, Effects: effects, Loc: tokenLocation(start)}
}

// parseTypeDecl parses `type Name<T,...> = recordBody | unionBody`.
func (p *Parser) parseTypeDecl() *ast.TypeDecl {
	start := p.advance() // "type"
	nameTok, ok := p.consume(lexer.TOKEN_IDENTIFIER, "a type name")
	if !ok {
		return nil
	}

	decl := &ast.TypeDecl{Name: nameTok.Lexeme, Loc: tokenLocation(start)}

	if p.match(lexer.TOKEN_LANGLE) {
		for {
			tp, ok := p.consume(lexer.TOKEN_IDENTIFIER, "a type parameter")
			if !ok {
				break
			}
			decl.TypeParams = append(decl.TypeParams, tp.Lexeme)
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
		p.consume(lexer.TOKEN_RANGLE, "'>'")
	}

	if _, ok := p.consume(lexer.TOKEN_EQUAL, "'='"); !ok {
		return nil
	}

	if p.check(lexer.TOKEN_LBRACE) {
		decl.RecordFields = p.parseRecordBody()
		return decl
	}

	decl.IsUnion = true
	decl.Constructors = p.parseUnionBody()
	return decl
}

// parseRecordBody parses `{ name: Type, ... }`.
func (p *Parser) parseRecordBody() []ast.ConstructorField {
	if _, ok := p.consume(lexer.TOKEN_LBRACE, "'{'"); !ok {
		return nil
	}
	var fields []ast.ConstructorField
	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		nameTok, ok := p.consume(lexer.TOKEN_IDENTIFIER, "a field name")
		if !ok {
			break
		}
		if _, ok := p.consume(lexer.TOKEN_COLON, "':'"); !ok {
			break
		}
		ty := p.parseType()
		fields = append(fields, ast.ConstructorField{Name: nameTok.Lexeme, Type: ty})
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}
	p.consume(lexer.TOKEN_RBRACE, "'}'")
	return fields
}

// parseUnionBody parses an ordered list of constructors separated by `|`:
// `A | B(x: Int) | C`.
func (p *Parser) parseUnionBody() []ast.Constructor {
	var ctors []ast.Constructor
	for {
		tagTok, ok := p.consume(lexer.TOKEN_IDENTIFIER, "a constructor name")
		if !ok {
			break
		}
		ctor := ast.Constructor{Name: tagTok.Lexeme, Loc: tokenLocation(tagTok)}
		if p.check(lexer.TOKEN_LPAREN) {
			p.advance()
			for !p.check(lexer.TOKEN_RPAREN) && !p.isAtEnd() {
				fname, ok := p.consume(lexer.TOKEN_IDENTIFIER, "a field name")
				if !ok {
					break
				}
				if _, ok := p.consume(lexer.TOKEN_COLON, "':'"); !ok {
					break
				}
				fty := p.parseType()
				ctor.Fields = append(ctor.Fields, ast.ConstructorField{Name: fname.Lexeme, Type: fty})
				if !p.match(lexer.TOKEN_COMMA) {
					break
				}
			}
			p.consume(lexer.TOKEN_RPAREN, "')'")
		}
		ctors = append(ctors, ctor)
		if !p.match(lexer.TOKEN_PIPE_BAR) {
			break
		}
	}
	return ctors
}
