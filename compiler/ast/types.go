package ast

// Type is the interface for all type-annotation nodes. Type equality is
// defined structurally by the semantic analyzer, not by this package.
type Type interface {
	Node
	typeNode()
}

// PrimitiveKind enumerates the built-in primitive types.
type PrimitiveKind int

const (
	PrimInt PrimitiveKind = iota
	PrimBool
	PrimString
	PrimUnit
)

// String returns the mk source spelling of k.
func (k PrimitiveKind) String() string {
	switch k {
	case PrimInt:
		return "Int"
	case PrimBool:
		return "Bool"
	case PrimString:
		return "String"
	case PrimUnit:
		return "Unit"
	default:
		return "?"
	}
}

// PrimitiveType is one of Int, Bool, String, Unit.
type PrimitiveType struct {
	Kind PrimitiveKind
	Loc  SourceLocation
}

func (p *PrimitiveType) node()     {}
func (p *PrimitiveType) typeNode() {}

// Location returns the source position of the primitive type name.
func (p *PrimitiveType) Location() SourceLocation {
	return p.Loc
}

// NamedType is a reference to a user-declared type by name, with no type
// arguments. It is resolved to its declaration by the symbol table; two
// named types are equal when their resolved declarations are the same.
type NamedType struct {
	Name string
	Loc  SourceLocation
}

func (n *NamedType) node()     {}
func (n *NamedType) typeNode() {}

// Location returns the source position of the type name.
func (n *NamedType) Location() SourceLocation {
	return n.Loc
}

// GenericType is an instantiation of a generic type constructor, e.g.
// `Option<T>`, `Result<T,E>`, `List<T>`, `Map<K,V>`, or a user type
// parameterized at its declaration.
type GenericType struct {
	Name string
	Args []Type
	Loc  SourceLocation
}

func (g *GenericType) node()     {}
func (g *GenericType) typeNode() {}

// Location returns the source position of the generic type's head name.
func (g *GenericType) Location() SourceLocation {
	return g.Loc
}

// FunctionType is the type of a function value: parameter types, a result
// type, and the effect set the function carries when called.
type FunctionType struct {
	Params  []Type
	Result  Type
	Effects []string
	Loc     SourceLocation
}

func (f *FunctionType) node()     {}
func (f *FunctionType) typeNode() {}

// Location returns the source position of the function type's arrow.
func (f *FunctionType) Location() SourceLocation {
	return f.Loc
}
