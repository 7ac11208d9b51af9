package ast

// Factory creates Expr nodes with fresh, monotonically increasing ids and
// records each node's source offset as it is created. The parser and every
// macro expander share one Factory per compilation so that ids never
// collide between hand-parsed and macro-generated sub-trees.
type Factory struct {
	ids    *IDGenerator
	source *SourceInfo
}

// NewFactory builds a Factory backed by the given id generator and
// SourceInfo.
func NewFactory(ids *IDGenerator, source *SourceInfo) *Factory {
	return &Factory{ids: ids, source: source}
}

// NextID allocates an id without creating a node (used when macro expansion
// needs to reserve the expansion root's id before building its subtree).
func (f *Factory) NextID(offset int32) int64 {
	id := f.ids.Next()
	f.source.SetOffset(id, offset)
	return id
}

func (f *Factory) newExpr(offset int32, kind Kind) *Expr {
	return &Expr{ID: f.NextID(offset), Kind: kind}
}

// OffsetOf returns the recorded source offset of an already-built node,
// for macro expanders that need to re-stamp a derived node at the same
// position as the expression it replaces.
func (f *Factory) OffsetOf(e *Expr) int32 {
	offset, _ := f.source.GetOffset(e.ID)
	return offset
}

// SourceInfo returns the SourceInfo this Factory records positions and
// macro-call skeletons into, for callers (the parser) that assemble the
// final ast.AST once parsing completes.
func (f *Factory) SourceInfo() *SourceInfo {
	return f.source
}

// NewBoolConstant builds a bool literal node.
func (f *Factory) NewBoolConstant(offset int32, v bool) *Expr {
	e := f.newExpr(offset, KindConstant)
	e.Constant = &Constant{Kind: ConstantBool, BoolValue: v}
	return e
}

// NewIntConstant builds an int64 literal node.
func (f *Factory) NewIntConstant(offset int32, v int64) *Expr {
	e := f.newExpr(offset, KindConstant)
	e.Constant = &Constant{Kind: ConstantInt, IntValue: v}
	return e
}

// NewUintConstant builds a uint64 literal node.
func (f *Factory) NewUintConstant(offset int32, v uint64) *Expr {
	e := f.newExpr(offset, KindConstant)
	e.Constant = &Constant{Kind: ConstantUint, UintValue: v}
	return e
}

// NewDoubleConstant builds a float64 literal node.
func (f *Factory) NewDoubleConstant(offset int32, v float64) *Expr {
	e := f.newExpr(offset, KindConstant)
	e.Constant = &Constant{Kind: ConstantDouble, DoubleValue: v}
	return e
}

// NewStringConstant builds a string literal node.
func (f *Factory) NewStringConstant(offset int32, v string) *Expr {
	e := f.newExpr(offset, KindConstant)
	e.Constant = &Constant{Kind: ConstantString, StringValue: v}
	return e
}

// NewBytesConstant builds a bytes literal node.
func (f *Factory) NewBytesConstant(offset int32, v []byte) *Expr {
	e := f.newExpr(offset, KindConstant)
	e.Constant = &Constant{Kind: ConstantBytes, BytesValue: v}
	return e
}

// NewNullConstant builds a null literal node.
func (f *Factory) NewNullConstant(offset int32) *Expr {
	e := f.newExpr(offset, KindConstant)
	e.Constant = &Constant{Kind: ConstantNull}
	return e
}

// NewIdent builds an identifier reference node.
func (f *Factory) NewIdent(offset int32, name string) *Expr {
	e := f.newExpr(offset, KindIdent)
	e.Ident = &Ident{Name: name}
	return e
}

// NewSelect builds a field-select node.
func (f *Factory) NewSelect(offset int32, operand *Expr, field string, testOnly bool) *Expr {
	e := f.newExpr(offset, KindSelect)
	e.Select = &Select{Operand: operand, Field: field, TestOnly: testOnly}
	return e
}

// NewCall builds a function/method call node. target is nil for a free
// function call.
func (f *Factory) NewCall(offset int32, target *Expr, function string, args []*Expr) *Expr {
	e := f.newExpr(offset, KindCall)
	e.Call = &Call{Target: target, Function: function, Args: args}
	return e
}

// NewList builds a list-construction node.
func (f *Factory) NewList(offset int32, elements []ListEntry) *Expr {
	e := f.newExpr(offset, KindCreateList)
	e.CreateList = &CreateList{Elements: elements}
	return e
}

// NewMap builds a map-construction node.
func (f *Factory) NewMap(offset int32, entries []MapEntry) *Expr {
	e := f.newExpr(offset, KindCreateMap)
	e.CreateMap = &CreateMap{Entries: entries}
	return e
}

// NewStruct builds a message-construction node. typeName must be non-empty.
func (f *Factory) NewStruct(offset int32, typeName string, entries []StructEntry) *Expr {
	e := f.newExpr(offset, KindCreateStruct)
	e.CreateStruct = &CreateStruct{TypeName: typeName, Entries: entries}
	return e
}

// NewComprehension builds a fold-comprehension node.
func (f *Factory) NewComprehension(
	offset int32,
	iterVar string, iterRange *Expr,
	accuVar string, accuInit *Expr,
	loopCondition, loopStep, result *Expr,
) *Expr {
	e := f.newExpr(offset, KindComprehension)
	e.Comprehension = &Comprehension{
		IterVar: iterVar, IterRange: iterRange,
		AccuVar: accuVar, AccuInit: accuInit,
		LoopCondition: loopCondition, LoopStep: loopStep, Result: result,
	}
	return e
}

// CopyWithNewID returns a shallow copy of an already-built Expr with a
// fresh id (and copies its recorded offset to the new id). Only the top
// node is copied: its children and kind payload are shared with the
// original, and keep their own ids.
func (f *Factory) CopyWithNewID(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	offset, _ := f.source.GetOffset(e.ID)
	clone := *e
	clone.ID = f.NextID(offset)
	return &clone
}
