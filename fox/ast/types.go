package ast

import (
	"strings"
)

type TypeKind int

const (
	TypeBuiltin TypeKind = iota
	TypeArray
	TypeReference
	TypeFunction
	TypeError
)

// Type is a semantic type. Types handed out by one Arena are unique, so
// they compare by address.
type Type interface {
	TypeKind() TypeKind
	String() string
}

type BuiltinKind int

const (
	BuiltinVoid BuiltinKind = iota
	BuiltinInt
	BuiltinFloat
	BuiltinBool
	BuiltinChar
	BuiltinString
)

var builtinNames = map[BuiltinKind]string{
	BuiltinVoid:   "void",
	BuiltinInt:    "int",
	BuiltinFloat:  "float",
	BuiltinBool:   "bool",
	BuiltinChar:   "char",
	BuiltinString: "string",
}

func (k BuiltinKind) String() string {
	if name, ok := builtinNames[k]; ok {
		return name
	}
	return "Unknown"
}

type BuiltinType struct {
	kind BuiltinKind
}

func (t *BuiltinType) TypeKind() TypeKind   { return TypeBuiltin }
func (t *BuiltinType) Builtin() BuiltinKind { return t.kind }
func (t *BuiltinType) String() string       { return t.kind.String() }

// IsArithmetic reports whether values of t support + - * / %.
func (t *BuiltinType) IsArithmetic() bool {
	return t.kind == BuiltinInt || t.kind == BuiltinFloat
}

type ArrayType struct {
	Elem Type
}

func (t *ArrayType) TypeKind() TypeKind { return TypeArray }
func (t *ArrayType) String() string     { return t.Elem.String() + "[]" }

type ReferenceType struct {
	Elem Type
}

func (t *ReferenceType) TypeKind() TypeKind { return TypeReference }
func (t *ReferenceType) String() string     { return "&" + t.Elem.String() }

type FunctionType struct {
	Params []Type
	Result Type
}

func (t *FunctionType) TypeKind() TypeKind { return TypeFunction }

func (t *FunctionType) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, p := range t.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(") -> ")
	if t.Result != nil {
		sb.WriteString(t.Result.String())
	}
	return sb.String()
}

// ErrorType stands in for a type that could not be parsed or resolved.
type ErrorType struct{}

func (t *ErrorType) TypeKind() TypeKind { return TypeError }
func (t *ErrorType) String() string     { return "<error type>" }

// Unwrap strips reference qualifiers from t.
func Unwrap(t Type) Type {
	for {
		ref, ok := t.(*ReferenceType)
		if !ok {
			return t
		}
		t = ref.Elem
	}
}
