package openapi

import (
	"github.com/manaknight/mkc/compiler/ast"
)

// collectTypeDecls indexes every union and record TypeDecl declared in any
// module of prog, keyed by name. Declarations are flattened across
// modules the same way the analyzer's global scope is (DESIGN.md's C7
// entry): a route in one module can return a type declared in another
// with no import, so schema resolution must see the whole program.
func collectTypeDecls(prog *ast.Program) map[string]*ast.TypeDecl {
	out := make(map[string]*ast.TypeDecl)
	for _, mod := range prog.Modules {
		for _, decl := range mod.Decls {
			if td, ok := decl.(*ast.TypeDecl); ok {
				out[td.Name] = td
			}
		}
	}
	return out
}

// schemaFor renders t as a JSON Schema object. Primitive types map to
// their JSON-schema equivalents; Unit (no meaningful payload) maps to
// `null`; a named type resolves to either a `$ref` into
// `components/schemas` (registering the schema there on first use) or,
// for the prelude's Option/Result generics, an inline `oneOf` of their
// tag shapes, since those two are never user-visible named components.
func (g *Generator) schemaFor(t ast.Type) map[string]interface{} {
	switch ty := t.(type) {
	case nil:
		return map[string]interface{}{"type": "null"}
	case *ast.PrimitiveType:
		return primitiveSchema(ty.Kind)
	case *ast.NamedType:
		return g.namedSchema(ty.Name)
	case *ast.GenericType:
		return g.genericSchema(ty)
	case *ast.FunctionType:
		// Functions are never a route's observable return shape in a
		// sema-clean program (spec.md §4.6 forbids returning closures from
		// an API handler's declared return type), but render something
		// sane rather than panic if one ever reaches here.
		return map[string]interface{}{"type": "object", "description": "function value"}
	default:
		return map[string]interface{}{}
	}
}

func primitiveSchema(kind ast.PrimitiveKind) map[string]interface{} {
	switch kind {
	case ast.PrimInt:
		return map[string]interface{}{"type": "integer"}
	case ast.PrimBool:
		return map[string]interface{}{"type": "boolean"}
	case ast.PrimString:
		return map[string]interface{}{"type": "string"}
	case ast.PrimUnit:
		return map[string]interface{}{"type": "null"}
	default:
		return map[string]interface{}{"type": "string"}
	}
}

func (g *Generator) namedSchema(name string) map[string]interface{} {
	if _, isGeneric := preludeGenericArities[name]; isGeneric {
		return g.genericSchema(&ast.GenericType{Name: name})
	}
	g.registerSchema(name)
	return map[string]interface{}{"$ref": "#/components/schemas/" + name}
}

// preludeGenericArities lists the prelude's built-in generic type
// constructors; List/Map never surface in a route's return type in the
// fixtures this generator is built against (spec.md §8's S1-S6), but are
// listed for completeness since the prelude declares them.
var preludeGenericArities = map[string]int{
	"Option": 1,
	"Result": 2,
	"List":   1,
	"Map":    2,
}

func (g *Generator) genericSchema(ty *ast.GenericType) map[string]interface{} {
	switch ty.Name {
	case "Option":
		var elem ast.Type
		if len(ty.Args) > 0 {
			elem = ty.Args[0]
		}
		return map[string]interface{}{
			"oneOf": []interface{}{
				map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{"tag": constTag("some"), "value": g.schemaFor(elem)},
				},
				map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{"tag": constTag("none")},
				},
			},
		}
	case "Result":
		var okType, errType ast.Type
		if len(ty.Args) > 0 {
			okType = ty.Args[0]
		}
		if len(ty.Args) > 1 {
			errType = ty.Args[1]
		}
		return map[string]interface{}{
			"oneOf": []interface{}{
				map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{"tag": constTag("ok"), "value": g.schemaFor(okType)},
				},
				map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{"tag": constTag("err"), "error": g.schemaFor(errType)},
				},
			},
		}
	case "List":
		var elem ast.Type
		if len(ty.Args) > 0 {
			elem = ty.Args[0]
		}
		return map[string]interface{}{"type": "array", "items": g.schemaFor(elem)}
	case "Map":
		var val ast.Type
		if len(ty.Args) > 1 {
			val = ty.Args[1]
		}
		return map[string]interface{}{"type": "object", "additionalProperties": g.schemaFor(val)}
	default:
		g.registerSchema(ty.Name)
		return map[string]interface{}{"$ref": "#/components/schemas/" + ty.Name}
	}
}

func constTag(tag string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "enum": []string{tag}}
}

// registerSchema writes name's schema into g.schemas on first reference,
// from its TypeDecl: a record becomes an `object` with its fields as
// `properties`; a tagged union becomes a `oneOf` of one object shape per
// constructor, each carrying a `tag` enum and its declared fields.
func (g *Generator) registerSchema(name string) {
	if _, done := g.schemas[name]; done {
		return
	}
	td, ok := g.unions[name]
	if !ok {
		return
	}
	// Reserve the slot before recursing, in case a constructor field
	// refers back to name (a recursive type).
	g.schemas[name] = map[string]interface{}{}

	if !td.IsUnion {
		g.schemas[name] = g.recordSchema(td.RecordFields)
		return
	}

	variants := make([]interface{}, len(td.Constructors))
	for i, ctor := range td.Constructors {
		properties := map[string]interface{}{"tag": constTag(ctor.Name)}
		for _, f := range ctor.Fields {
			properties[f.Name] = g.schemaFor(f.Type)
		}
		variants[i] = map[string]interface{}{
			"type":       "object",
			"properties": properties,
		}
	}
	g.schemas[name] = map[string]interface{}{"oneOf": variants}
}

func (g *Generator) recordSchema(fields []ast.ConstructorField) map[string]interface{} {
	properties := make(map[string]interface{}, len(fields))
	required := make([]string, len(fields))
	for i, f := range fields {
		properties[f.Name] = g.schemaFor(f.Type)
		required[i] = f.Name
	}
	schema := map[string]interface{}{"type": "object", "properties": properties}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
