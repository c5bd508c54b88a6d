// Package hir defines the high-level intermediate representation: the typed tree a front end
// produces once source has been parsed and checked, and the dialect that closure conversion and
// lambda lifting consume and produce. Nodes are value-like and acyclic; ownership is parent owns
// child, and the only sharing is through name.Name.
package hir

import (
	"fmt"
	"strings"

	"loomc/src/name"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Kind discriminates the cases of a HIR Type. Kind is a closed, exhaustively-matched sum; adding
// a case here should force every switch over Kind to be revisited.
type Kind int

const (
	I8 Kind = iota
	I16
	I32
	I64
	F32
	F64
	Bool
	Void
	Array
	Struct
	Fun
	Union
	BoxT
)

var kindNames = [...]string{
	"i8", "i16", "i32", "i64", "f32", "f64", "bool", "void",
	"array", "struct", "fun", "union", "box",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Type is the tagged union of HIR type constructors. Only the fields relevant to Kind are
// populated; callers must not inspect the others. Box denotes an opaque tagged pointer: producing
// or consuming a value of type Box requires an explicit Box/Unbox node (see Exp).
type Type struct {
	Kind     Kind
	Elem     *Type   // Array: element type.
	Fields   []Param // Struct: field types and names, in declaration order.
	Ret      *Type   // Fun: return type.
	Args     []Type  // Fun: parameter types, in order.
	Variants []Type  // Union: the alternatives.
}

// Param pairs a Name with its Type, used for struct fields and function parameters alike.
type Param struct {
	Name name.Name
	Type Type
}

// ---------------------
// ----- constructors -----
// ---------------------

func ArrayT(elem Type) Type       { return Type{Kind: Array, Elem: &elem} }
func StructT(fields []Param) Type { return Type{Kind: Struct, Fields: fields} }
func FunT(ret Type, args []Type) Type {
	return Type{Kind: Fun, Ret: &ret, Args: args}
}
func UnionT(variants []Type) Type { return Type{Kind: Union, Variants: variants} }

// ---------------------
// ----- functions -----
// ---------------------

// Equal reports whether t and o denote the same type, structurally.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Array:
		return t.Elem.Equal(*o.Elem)
	case Struct:
		if len(t.Fields) != len(o.Fields) {
			return false
		}
		for i := range t.Fields {
			if !t.Fields[i].Name.Equal(o.Fields[i].Name) || !t.Fields[i].Type.Equal(o.Fields[i].Type) {
				return false
			}
		}
		return true
	case Fun:
		if !t.Ret.Equal(*o.Ret) || len(t.Args) != len(o.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(o.Args[i]) {
				return false
			}
		}
		return true
	case Union:
		if len(t.Variants) != len(o.Variants) {
			return false
		}
		for i := range t.Variants {
			if !t.Variants[i].Equal(o.Variants[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders t in a print-friendly, roughly C-like notation, used for diagnostics only.
func (t Type) String() string {
	switch t.Kind {
	case Array:
		return fmt.Sprintf("%s[]", t.Elem.String())
	case Struct:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
		}
		return fmt.Sprintf("struct{%s}", strings.Join(parts, ", "))
	case Fun:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), t.Ret)
	case Union:
		parts := make([]string, len(t.Variants))
		for i, v := range t.Variants {
			parts[i] = v.String()
		}
		return fmt.Sprintf("union{%s}", strings.Join(parts, " | "))
	default:
		return t.Kind.String()
	}
}

// ExternalEnvType is the opaque, erased environment type a closure's caller sees: a struct with
// no fields. Every closure record exposes this type for its env component, regardless of how many
// variables it actually captures; the concrete layout is known only inside the lifted function
// that was built from that closure's body (see package cc and package lift).
func ExternalEnvType() Type { return StructT(nil) }
