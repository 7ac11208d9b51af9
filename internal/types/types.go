// Package types is the algebraic type representation the checker and
// unifier operate over: primitives, list/map aggregates, struct
// references, wrapper/nullable/optional boxing, opaque (abstract)
// parametric types, type-of-type, and type parameters used only during
// inference. This package is pure data plus structural equality/printing;
// all inference logic (assignability, unification, LUB) lives in
// internal/unify.
package types

// Kind tags the shape of a Type.
type Kind int

const (
	KindDyn Kind = iota
	KindError
	KindNull
	KindBool
	KindInt
	KindUint
	KindDouble
	KindString
	KindBytes
	KindTimestamp
	KindDuration
	KindAny
	KindList
	KindMap
	KindStruct
	KindWrapper
	KindNullable
	KindOptional
	KindOpaque
	KindTypeOfType
	KindTypeParam
)

var kindNames = map[Kind]string{
	KindDyn: "dyn", KindError: "error", KindNull: "null",
	KindBool: "bool", KindInt: "int", KindUint: "uint", KindDouble: "double",
	KindString: "string", KindBytes: "bytes",
	KindTimestamp: "timestamp", KindDuration: "duration", KindAny: "any",
	KindList: "list", KindMap: "map", KindStruct: "struct",
	KindWrapper: "wrapper", KindNullable: "nullable", KindOptional: "optional",
	KindOpaque: "opaque", KindTypeOfType: "type", KindTypeParam: "type_param",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Type is an immutable algebraic type value. Only the fields relevant to
// Kind are meaningful; constructors below are the only supported way to
// build one.
type Type struct {
	kind   Kind
	elem   *Type // list element / wrapped primitive / nullable-of / optional-of / type-of target
	key    *Type // map key
	name   string
	params []*Type
}

func simple(k Kind) *Type { return &Type{kind: k} }

func Dyn() *Type       { return simple(KindDyn) }
func Error() *Type     { return simple(KindError) }
func Null() *Type      { return simple(KindNull) }
func Bool() *Type      { return simple(KindBool) }
func Int() *Type       { return simple(KindInt) }
func Uint() *Type      { return simple(KindUint) }
func Double() *Type    { return simple(KindDouble) }
func String() *Type    { return simple(KindString) }
func Bytes() *Type     { return simple(KindBytes) }
func Timestamp() *Type { return simple(KindTimestamp) }
func Duration() *Type  { return simple(KindDuration) }
func Any() *Type       { return simple(KindAny) }

// JSON is the configured "JSON-value" union anchor: null | bool | number |
// string | list(json) | map(string, json). It is opaque to the checker
// (structure-free), used only as an LUB target.
func JSON() *Type { return &Type{kind: KindOpaque, name: "json"} }

// NewList builds list(elem).
func NewList(elem *Type) *Type { return &Type{kind: KindList, elem: elem} }

// NewMap builds map(key, value).
func NewMap(key, value *Type) *Type { return &Type{kind: KindMap, key: key, elem: value} }

// NewStruct builds a reference to an externally-resolved message type by
// fully-qualified name.
func NewStruct(name string) *Type { return &Type{kind: KindStruct, name: name} }

// NewWrapper builds wrapper-of(primitive), a nullable box around a
// primitive scalar (e.g. google.protobuf.Int32Value -> wrapper-of(int)).
func NewWrapper(primitive *Type) *Type { return &Type{kind: KindWrapper, elem: primitive} }

// NewNullable builds nullable-of(t).
func NewNullable(t *Type) *Type { return &Type{kind: KindNullable, elem: t} }

// NewOptional builds optional-of(t).
func NewOptional(t *Type) *Type { return &Type{kind: KindOptional, elem: t} }

// NewOpaque builds a named parametric abstract type, e.g. vector(int).
func NewOpaque(name string, params ...*Type) *Type {
	return &Type{kind: KindOpaque, name: name, params: params}
}

// NewTypeOfType builds type(t), the type of the type value t (as produced
// by the `type()` builtin or a type-identifier reference).
func NewTypeOfType(t *Type) *Type { return &Type{kind: KindTypeOfType, elem: t} }

// NewTypeParam builds a named placeholder used only during inference. A
// type parameter must appear inside at least one parameterized container
// before unification (spec §3.3); neither this package nor internal/unify
// checks that, and a bare type parameter binds like any other.
func NewTypeParam(name string) *Type { return &Type{kind: KindTypeParam, name: name} }

func (t *Type) Kind() Kind    { return t.kind }
func (t *Type) Elem() *Type   { return t.elem }
func (t *Type) Key() *Type    { return t.key }
func (t *Type) Name() string  { return t.name }
func (t *Type) Params() []*Type { return t.params }

func (t *Type) IsDyn() bool   { return t.kind == KindDyn }
func (t *Type) IsError() bool { return t.kind == KindError }
func (t *Type) IsNull() bool  { return t.kind == KindNull }

func (t *Type) IsTypeParam() bool { return t.kind == KindTypeParam }

// IsPrimitive reports whether t is one of the scalar CEL primitives.
func (t *Type) IsPrimitive() bool {
	switch t.kind {
	case KindBool, KindInt, KindUint, KindDouble, KindString, KindBytes,
		KindTimestamp, KindDuration:
		return true
	default:
		return false
	}
}

// Equal reports structural equality: same kind, and recursively-equal
// sub-types/names/params. Two distinct type parameters with the same name
// are considered equal only within the same overload's local scope; this
// package has no notion of scope, so callers needing scoped comparison
// (the unifier) compare through a substitution first.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindList, KindWrapper, KindNullable, KindOptional, KindTypeOfType:
		return t.elem.Equal(other.elem)
	case KindMap:
		return t.key.Equal(other.key) && t.elem.Equal(other.elem)
	case KindStruct:
		return t.name == other.name
	case KindTypeParam:
		return t.name == other.name
	case KindOpaque:
		if t.name != other.name || len(t.params) != len(other.params) {
			return false
		}
		for i := range t.params {
			if !t.params[i].Equal(other.params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders a debug/diagnostic representation, e.g. "list(int)",
// "map(string, dyn)", "nullable(int)", "MyPackage.MyMessage".
func (t *Type) String() string {
	switch t.kind {
	case KindList:
		return "list(" + t.elem.String() + ")"
	case KindMap:
		return "map(" + t.key.String() + ", " + t.elem.String() + ")"
	case KindStruct:
		return t.name
	case KindWrapper:
		return "wrapper(" + t.elem.String() + ")"
	case KindNullable:
		return "nullable(" + t.elem.String() + ")"
	case KindOptional:
		return "optional(" + t.elem.String() + ")"
	case KindOpaque:
		if len(t.params) == 0 {
			return t.name
		}
		s := t.name + "("
		for i, p := range t.params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		return s + ")"
	case KindTypeOfType:
		return "type(" + t.elem.String() + ")"
	case KindTypeParam:
		return "$" + t.name
	default:
		return t.kind.String()
	}
}

// DefaultUnionTypes is the anchor list from spec §4.5.1, in the documented
// order. internal/unify defaults to exactly this list and exposes it as a
// constructor override point (the Open Question resolution recorded in
// SPEC_FULL.md).
func DefaultUnionTypes() []*Type {
	return []*Type{
		NewNullable(Bool()),
		NewNullable(Bytes()),
		NewNullable(Double()),
		NewNullable(Int()),
		NewNullable(String()),
		NewNullable(Uint()),
		JSON(),
		Dyn(),
	}
}
