// Package symbols implements the nested lexical scope stack used by
// semantic analysis (spec.md §4.4): declare/resolve
// with shadowing forbidden in every scope, rooted at the prelude.
package symbols

import (
	"github.com/manaknight/mkc/compiler/ast"
	"github.com/manaknight/mkc/compiler/errors"
)

// Kind classifies what a Symbol names.
type Kind int

const (
	KindVariable Kind = iota
	KindFunction
	KindType
	KindEffect
	KindModule
)

// Symbol binds a name to its kind, resolved type (for values), the scope
// it was declared in (for diagnostics), and a back-pointer to its
// declaration site. The declaration back-pointer is a weak, lookup-only
// reference: symbols never free their declaration.
type Symbol struct {
	Name  string
	Kind  Kind
	Type  ast.Type
	Decl  ast.Node
	Scope *Scope
}

// Scope is one lexical level: an ordered sequence of symbols plus a debug
// tag and a pointer to its parent.
type Scope struct {
	Tag     string
	Symbols []*Symbol
	Parent  *Scope
}

// Table is a stack of scopes rooted at the (prelude-populated) global scope.
type Table struct {
	root    *Scope
	current *Scope
}

// NewTable creates a Table with a single root scope tagged "global". The
// caller (typically the sema package) populates it with the prelude.
func NewTable() *Table {
	root := &Scope{Tag: "global"}
	return &Table{root: root, current: root}
}

// Enter pushes a new scope tagged name.
func (t *Table) Enter(name string) {
	t.current = &Scope{Tag: name, Parent: t.current}
}

// Leave pops the current scope. It is a no-op (and a programming error in
// the caller) to call Leave on the root scope; the root is never popped.
func (t *Table) Leave() {
	if t.current.Parent == nil {
		return
	}
	t.current = t.current.Parent
}

// Current returns the innermost scope.
func (t *Table) Current() *Scope {
	return t.current
}

// Declare inserts sym into the current scope. If any enclosing scope
// already binds sym.Name, it fails with E2006 and does not insert.
func (t *Table) Declare(sym *Symbol, loc errors.SourceLocation) *errors.CompilerError {
	if existing := t.Resolve(sym.Name); existing != nil {
		e := errors.Newf("sema", errors.EShadowingForbidden, loc,
			"%q is already declared in %s scope", sym.Name, existing.Scope.Tag)
		return &e
	}
	sym.Scope = t.current
	t.current.Symbols = append(t.current.Symbols, sym)
	return nil
}

// Resolve walks from the current scope outward and returns the first
// binding of name, or nil if none is visible.
func (t *Table) Resolve(name string) *Symbol {
	for s := t.current; s != nil; s = s.Parent {
		for _, sym := range s.Symbols {
			if sym.Name == name {
				return sym
			}
		}
	}
	return nil
}
