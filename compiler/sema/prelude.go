package sema

import (
	"github.com/manaknight/mkc/compiler/ast"
	"github.com/manaknight/mkc/compiler/errors"
	"github.com/manaknight/mkc/compiler/symbols"
)

// preludeLoc is the synthetic location attached to prelude declarations;
// they have no source position of their own.
var preludeLoc = errors.SourceLocation{File: "<prelude>", Line: 0, Column: 0}

// constructorSig describes one prelude constructor's field types, keyed by
// the generic type's own type parameters ("T", "E").
type constructorSig struct {
	Tag    string
	Fields []string // names of the enclosing generic's type parameters this field reuses, or "" for none
}

// preludeUnions maps a generic type constructor's name to the tags its
// values can carry, used by exhaustiveness checking exactly like a
// user-declared tagged union.
var preludeUnions = map[string][]string{
	"Option": {"some", "none"},
	"Result": {"ok", "err"},
}

// loadPrelude seeds the global scope with the primitive types, generic
// container types, and their constructors (spec.md §4.6), mirroring
// `load_prelude` in the original type checker.
func loadPrelude(table *symbols.Table) {
	for _, name := range []string{"Int", "Bool", "String", "Unit"} {
		table.Declare(&symbols.Symbol{Name: name, Kind: symbols.KindType}, preludeLoc)
	}
	for _, name := range []string{"Option", "Result", "List", "Map"} {
		table.Declare(&symbols.Symbol{Name: name, Kind: symbols.KindType}, preludeLoc)
	}

	// some(value: T) -> Option<T>; none -> Option<T>
	table.Declare(&symbols.Symbol{
		Name: "some", Kind: symbols.KindFunction,
		Type: &ast.FunctionType{Params: []ast.Type{&ast.NamedType{Name: "T"}}, Result: &ast.GenericType{Name: "Option", Args: []ast.Type{&ast.NamedType{Name: "T"}}}},
	}, preludeLoc)
	table.Declare(&symbols.Symbol{
		Name: "none", Kind: symbols.KindFunction,
		Type: &ast.FunctionType{Result: &ast.GenericType{Name: "Option", Args: []ast.Type{&ast.NamedType{Name: "T"}}}},
	}, preludeLoc)

	// ok(value: T) -> Result<T,E>; err(error: E) -> Result<T,E>
	table.Declare(&symbols.Symbol{
		Name: "ok", Kind: symbols.KindFunction,
		Type: &ast.FunctionType{Params: []ast.Type{&ast.NamedType{Name: "T"}}, Result: &ast.GenericType{Name: "Result", Args: []ast.Type{&ast.NamedType{Name: "T"}, &ast.NamedType{Name: "E"}}}},
	}, preludeLoc)
	table.Declare(&symbols.Symbol{
		Name: "err", Kind: symbols.KindFunction,
		Type: &ast.FunctionType{Params: []ast.Type{&ast.NamedType{Name: "E"}}, Result: &ast.GenericType{Name: "Result", Args: []ast.Type{&ast.NamedType{Name: "T"}, &ast.NamedType{Name: "E"}}}},
	}, preludeLoc)
}
