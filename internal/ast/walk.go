package ast

// Children returns the immediate child expressions of e, in evaluation
// order. Used by the checker's post-order walk and by tests asserting id
// uniqueness across a whole tree.
func Children(e *Expr) []*Expr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case KindSelect:
		return []*Expr{e.Select.Operand}
	case KindCall:
		children := make([]*Expr, 0, len(e.Call.Args)+1)
		if e.Call.Target != nil {
			children = append(children, e.Call.Target)
		}
		children = append(children, e.Call.Args...)
		return children
	case KindCreateList:
		children := make([]*Expr, 0, len(e.CreateList.Elements))
		for _, el := range e.CreateList.Elements {
			children = append(children, el.Value)
		}
		return children
	case KindCreateMap:
		children := make([]*Expr, 0, len(e.CreateMap.Entries)*2)
		for _, entry := range e.CreateMap.Entries {
			children = append(children, entry.Key, entry.Value)
		}
		return children
	case KindCreateStruct:
		children := make([]*Expr, 0, len(e.CreateStruct.Entries))
		for _, entry := range e.CreateStruct.Entries {
			children = append(children, entry.Value)
		}
		return children
	case KindComprehension:
		c := e.Comprehension
		return []*Expr{c.IterRange, c.AccuInit, c.LoopCondition, c.LoopStep, c.Result}
	default:
		return nil
	}
}

// PostOrder invokes visit on every node of the tree rooted at e, children
// before parents, which is the order the checker consumes (§4.5: "post-order
// traversal with contextual refinement" — refinement here means the
// checker does not use a bare PostOrder call for comprehensions, which need
// scoped visitation; PostOrder is provided for ID-uniqueness validation and
// simple read-only walks).
func PostOrder(e *Expr, visit func(*Expr)) {
	if e == nil {
		return
	}
	for _, child := range Children(e) {
		PostOrder(child, visit)
	}
	visit(e)
}

// CollectIDs returns every expression id reachable from root, used to
// validate the "ids unique within an AST" invariant.
func CollectIDs(root *Expr) []int64 {
	var ids []int64
	PostOrder(root, func(e *Expr) { ids = append(ids, e.ID) })
	return ids
}
