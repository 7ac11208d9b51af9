// Package ops names the canonical CEL built-in function identifiers, so
// the parser (which builds Call nodes for operators and indexing), the
// macro expanders (which build calls like `@not_strictly_false(accu)`
// into their fold expansions), and the standard declarations builder (which
// declares overloads under these same names) all agree on one spelling.
//
// The `_op_` underscore-bracketed convention for an n-ary global operator
// is the canonical CEL spelling (e.g. `_+_` for binary addition, `-_` for
// unary negation); `@`-prefixed names mark internal-only operators that
// never appear as literal syntax a user can type.
package ops

const (
	LogicalAnd    = "_&&_"
	LogicalOr     = "_||_"
	LogicalNot    = "!_"
	Conditional   = "_?_:_"
	Equals        = "_==_"
	NotEquals     = "_!=_"
	Less          = "_<_"
	LessEquals    = "_<=_"
	Greater       = "_>_"
	GreaterEquals = "_>=_"
	Add           = "_+_"
	Subtract      = "_-_"
	Multiply      = "_*_"
	Divide        = "_/_"
	Modulo        = "_%_"
	Negate        = "-_"
	Index         = "_[_]"
	OptIndex      = "_[?_]"
	OptSelect     = "_?._"

	In                = "@in"
	NotStrictlyFalse  = "@not_strictly_false"
	TypeConvToType    = "type"
	DynConv           = "dyn"
	Size              = "size"
	StringConv        = "string"
	BytesConv         = "bytes"
	IntConv           = "int"
	UintConv          = "uint"
	DoubleConv        = "double"
	BoolConv          = "bool"
	TimestampConv     = "timestamp"
	DurationConv      = "duration"
)
