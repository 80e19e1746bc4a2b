// Package ast defines the abstract syntax tree node types for mk, the
// effect-annotated functional language compiled by mkc. It follows a
// base-node design: every node implements Node, and each concrete kind is
// its own struct rather than a single tagged union.
package ast

import "github.com/manaknight/mkc/compiler/errors"

// SourceLocation is a re-export of the diagnostic package's location type so
// that AST nodes and diagnostics share one notion of position.
type SourceLocation = errors.SourceLocation

// Node is the base interface every AST node implements.
type Node interface {
	Location() SourceLocation
	node()
}

// Decl is the interface for top-level and module-level declarations.
type Decl interface {
	Node
	declNode()
}

// Program is the root of the tree for one translation unit: an ordered list
// of modules and top-level API routes, in source order.
type Program struct {
	Modules []*ModuleDecl
	Routes  []*APIRouteDecl
	Loc     SourceLocation
}

func (p *Program) node() {}

// Location returns the position of the first module or route in the program,
// or line 1 column 1 for an empty program.
func (p *Program) Location() SourceLocation {
	if len(p.Modules) > 0 {
		return p.Modules[0].Loc
	}
	if len(p.Routes) > 0 {
		return p.Routes[0].Loc
	}
	return SourceLocation{Line: 1, Column: 1}
}

// ModuleDecl is a named module containing an ordered list of declarations.
type ModuleDecl struct {
	Name  string
	Decls []Decl
	Loc   SourceLocation
}

func (m *ModuleDecl) node()     {}
func (m *ModuleDecl) declNode() {}

// Location returns the source position of the module keyword.
func (m *ModuleDecl) Location() SourceLocation {
	return m.Loc
}

// Param is a function or handler parameter: a name and its declared type.
type Param struct {
	Name string
	Type Type
	Loc  SourceLocation
}

// FunctionDecl is a named function: parameters, return type, declared
// effect set (nil or empty means pure), and a body block.
type FunctionDecl struct {
	Name       string
	Params     []*Param
	ReturnType Type
	Effects    []string
	Body       *Block
	Loc        SourceLocation
}

func (f *FunctionDecl) node()     {}
func (f *FunctionDecl) declNode() {}

// Location returns the source position of the fn keyword.
func (f *FunctionDecl) Location() SourceLocation {
	return f.Loc
}

// IsPure reports whether the function declares no effects.
func (f *FunctionDecl) IsPure() bool {
	return len(f.Effects) == 0
}

// ConstructorField is one labeled field of a union constructor or record.
type ConstructorField struct {
	Name string
	Type Type
}

// Constructor is one tag of a tagged-union type declaration.
type Constructor struct {
	Name   string
	Fields []ConstructorField
	Loc    SourceLocation
}

// TypeDecl is a named type: either a record body (labeled fields) or a
// tagged-union body (ordered constructors), with optional type parameters.
type TypeDecl struct {
	Name          string
	TypeParams    []string
	IsUnion       bool
	RecordFields  []ConstructorField // populated when !IsUnion
	Constructors  []Constructor      // populated when IsUnion
	Loc           SourceLocation
}

func (t *TypeDecl) node()     {}
func (t *TypeDecl) declNode() {}

// Location returns the source position of the type keyword.
func (t *TypeDecl) Location() SourceLocation {
	return t.Loc
}

// EffectDecl declares a named effect capability. The compiler tracks only
// the name; the operations it carries belong to the host effect object.
type EffectDecl struct {
	Name string
	Loc  SourceLocation
}

func (e *EffectDecl) node()     {}
func (e *EffectDecl) declNode() {}

// Location returns the source position of the effect keyword.
func (e *EffectDecl) Location() SourceLocation {
	return e.Loc
}

// ImportDecl imports a dotted module path, optionally under a local alias.
type ImportDecl struct {
	Path  string
	Alias string // empty when no "as" clause
	Loc   SourceLocation
}

func (i *ImportDecl) node()     {}
func (i *ImportDecl) declNode() {}

// Location returns the source position of the import keyword.
func (i *ImportDecl) Location() SourceLocation {
	return i.Loc
}

// APIRouteDecl binds an HTTP method and path to a handler. Method is
// canonicalized to uppercase by the parser.
type APIRouteDecl struct {
	Method     string
	Path       string
	Params     []*Param
	ReturnType Type
	Effects    []string
	Body       *Block
	Loc        SourceLocation
}

func (a *APIRouteDecl) node()     {}
func (a *APIRouteDecl) declNode() {}

// Location returns the source position of the api keyword.
func (a *APIRouteDecl) Location() SourceLocation {
	return a.Loc
}

// Block is a sequence of statements followed by an optional tail
// expression. The block's value is the tail, or Unit if absent.
type Block struct {
	Stmts []Stmt
	Tail  Expr // nil when the block has no tail expression
	Loc   SourceLocation
}

func (b *Block) node() {}

// Location returns the source position of the block's opening brace.
func (b *Block) Location() SourceLocation {
	return b.Loc
}
