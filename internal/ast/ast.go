// Package ast defines the parsed/checked expression tree: a tagged union of
// Expr kinds (Constant, Ident, Select, Call, CreateList, CreateMap,
// CreateStruct, Comprehension), plus the SourceInfo that ties every
// expression id back to a source position and, where macro expansion
// occurred, to the original call skeleton it replaced.
//
// This package is pure data: no behavior beyond constructors and small
// accessors lives here. The parser builds these values; the checker
// annotates them (via a side-table, never by mutation); nothing else
// touches them after a compile completes.
package ast

// Kind tags the payload carried by an Expr.
type Kind int

const (
	KindUnspecified Kind = iota
	KindConstant
	KindIdent
	KindSelect
	KindCall
	KindCreateList
	KindCreateMap
	KindCreateStruct
	KindComprehension
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindIdent:
		return "ident"
	case KindSelect:
		return "select"
	case KindCall:
		return "call"
	case KindCreateList:
		return "create_list"
	case KindCreateMap:
		return "create_map"
	case KindCreateStruct:
		return "create_struct"
	case KindComprehension:
		return "comprehension"
	default:
		return "unspecified"
	}
}

// ConstantKind tags the payload of a Constant expression.
type ConstantKind int

const (
	ConstantUnspecified ConstantKind = iota
	ConstantBool
	ConstantInt
	ConstantUint
	ConstantDouble
	ConstantString
	ConstantBytes
	ConstantNull
)

// Constant is a literal value, exactly one field of which is meaningful
// per ConstantKind.
type Constant struct {
	Kind        ConstantKind
	BoolValue   bool
	IntValue    int64
	UintValue   uint64
	DoubleValue float64
	StringValue string
	BytesValue  []byte
}

// Ident is a (possibly dotted, possibly macro-expanded-from) bare name
// reference, e.g. `x` or, pre-resolution, `com.example.Foo`.
type Ident struct {
	Name string
}

// Select is `operand.field`. TestOnly marks a `has(operand.field)`
// expansion, where the result type is always bool.
type Select struct {
	Operand  *Expr
	Field    string
	TestOnly bool
}

// Call is `target?.Function(args...)`; Target is nil for a free function
// call (`size(x)` as opposed to `x.size()`).
type Call struct {
	Target   *Expr
	Function string
	Args     []*Expr
}

// ListEntry is one element of a CreateList, with Optional set for `?e`.
type ListEntry struct {
	Value    *Expr
	Optional bool
}

// CreateList is `[e0, e1, ...]`.
type CreateList struct {
	Elements []ListEntry
}

// MapEntry is one (key, value) pair of a CreateMap, with Optional set for
// `?k: v`.
type MapEntry struct {
	Key      *Expr
	Value    *Expr
	Optional bool
}

// CreateMap is `{k0: v0, k1: v1, ...}`.
type CreateMap struct {
	Entries []MapEntry
}

// StructEntry is one field initializer of a CreateStruct.
type StructEntry struct {
	Field    string
	Value    *Expr
	Optional bool
}

// CreateStruct is `TypeName{field0: v0, ...}`.
type CreateStruct struct {
	TypeName string
	Entries  []StructEntry
}

// Comprehension is the canonical fold node every macro desugars to:
// iterate IterRange binding IterVar, fold AccuVar starting at AccuInit
// while LoopCondition holds, advancing via LoopStep, yielding Result.
type Comprehension struct {
	IterVar       string
	IterRange     *Expr
	AccuVar       string
	AccuInit      *Expr
	LoopCondition *Expr
	LoopStep      *Expr
	Result        *Expr
}

// Expr is one node of a CEL abstract syntax tree. ID is unique within a
// given AST and strictly positive; exactly one of the Kind-tagged fields
// is populated.
type Expr struct {
	ID   int64
	Kind Kind

	Constant      *Constant
	Ident         *Ident
	Select        *Select
	Call          *Call
	CreateList    *CreateList
	CreateMap     *CreateMap
	CreateStruct  *CreateStruct
	Comprehension *Comprehension
}

// IDGenerator hands out strictly increasing, strictly positive expression
// ids, scoped to a single compilation (spec §5: "ids are allocated
// monotonically per source").
type IDGenerator struct {
	next int64
}

// NewIDGenerator returns a generator whose first id is 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{next: 1}
}

// Next returns the next id and advances the counter.
func (g *IDGenerator) Next() int64 {
	id := g.next
	g.next++
	return id
}

// SourceInfo accumulates, during a single parse, the position of every
// expression id and (when macro-call retention is enabled) the original
// call skeleton each macro expansion replaced.
type SourceInfo struct {
	description string
	positions   map[int64]int32
	macroCalls  map[int64]*Expr
}

// NewSourceInfo creates an empty SourceInfo for the given source
// description.
func NewSourceInfo(description string) *SourceInfo {
	return &SourceInfo{
		description: description,
		positions:   make(map[int64]int32),
		macroCalls:  make(map[int64]*Expr),
	}
}

// Description returns the originating source's description.
func (si *SourceInfo) Description() string {
	return si.description
}

// SetOffset records the code-point offset of expression id.
func (si *SourceInfo) SetOffset(id int64, offset int32) {
	si.positions[id] = offset
}

// GetOffset returns the recorded code-point offset of expression id, if any.
func (si *SourceInfo) GetOffset(id int64) (int32, bool) {
	off, ok := si.positions[id]
	return off, ok
}

// Positions exposes the full id -> offset map (read-only by convention).
func (si *SourceInfo) Positions() map[int64]int32 {
	return si.positions
}

// SetMacroCall records the original call skeleton that macro expansion
// rooted at id replaced.
func (si *SourceInfo) SetMacroCall(id int64, call *Expr) {
	si.macroCalls[id] = call
}

// GetMacroCall returns the original call skeleton recorded for id, if any.
func (si *SourceInfo) GetMacroCall(id int64) (*Expr, bool) {
	call, ok := si.macroCalls[id]
	return call, ok
}

// MacroCalls exposes the full id -> original-call map (read-only by
// convention).
func (si *SourceInfo) MacroCalls() map[int64]*Expr {
	return si.macroCalls
}

// AST pairs a parsed (and, once checked, type-annotated) expression tree
// with its SourceInfo.
type AST struct {
	Expr   *Expr
	Source *SourceInfo
}
