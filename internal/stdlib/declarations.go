package stdlib

import (
	"fmt"

	"github.com/oxhq/celcore/internal/env"
	"github.com/oxhq/celcore/internal/ops"
	"github.com/oxhq/celcore/internal/types"
)

type functionDecl struct {
	name      string
	overloads []*env.OverloadDecl
}

// primitives lists every CEL scalar kind, used to generate the same-type
// comparison overload for each.
func primitives() []*types.Type {
	return []*types.Type{
		types.Bool(), types.Int(), types.Uint(), types.Double(), types.String(),
		types.Bytes(), types.Timestamp(), types.Duration(),
	}
}

// orderable excludes bool (CEL has no <, <= etc over booleans).
func orderable() []*types.Type {
	return []*types.Type{
		types.Int(), types.Uint(), types.Double(), types.String(),
		types.Bytes(), types.Timestamp(), types.Duration(),
	}
}

func numeric() []*types.Type {
	return []*types.Type{types.Int(), types.Uint(), types.Double()}
}

func binaryOverload(id string, a, b, result *types.Type) *env.OverloadDecl {
	return &env.OverloadDecl{ID: id, ArgTypes: []*types.Type{a, b}, ResultType: result}
}

func unaryOverload(id string, a, result *types.Type) *env.OverloadDecl {
	return &env.OverloadDecl{ID: id, ArgTypes: []*types.Type{a}, ResultType: result}
}

// standardFunctions returns the canonical CEL built-in table (spec §4.6),
// filtered through cfg's environment-option toggles. Ternary conditional
// (`_?_:_`) is deliberately absent: internal/checker special-cases it
// directly (its LUB-of-branches result rule cannot be expressed as an
// ordinary generic overload — see DESIGN.md).
func standardFunctions(cfg Config) []functionDecl {
	var fns []functionDecl
	fns = append(fns, arithmeticFunctions()...)
	fns = append(fns, comparisonFunctions(cfg)...)
	fns = append(fns, logicalFunctions()...)
	fns = append(fns, membershipFunctions()...)
	fns = append(fns, indexingFunctions()...)
	fns = append(fns, sizeFunctions()...)
	fns = append(fns, conversionFunctions(cfg)...)
	fns = append(fns, dateTimeFunctions()...)
	return fns
}

func arithmeticFunctions() []functionDecl {
	add := []*env.OverloadDecl{}
	sub := []*env.OverloadDecl{}
	mul := []*env.OverloadDecl{}
	div := []*env.OverloadDecl{}
	for _, t := range numeric() {
		name := t.Kind().String()
		add = append(add, binaryOverload("add_"+name, t, t, t))
		sub = append(sub, binaryOverload("subtract_"+name, t, t, t))
		mul = append(mul, binaryOverload("multiply_"+name, t, t, t))
		div = append(div, binaryOverload("divide_"+name, t, t, t))
	}
	// string/bytes/list concatenation also rides the `+` operator.
	add = append(add,
		binaryOverload("add_string", types.String(), types.String(), types.String()),
		binaryOverload("add_bytes", types.Bytes(), types.Bytes(), types.Bytes()),
		&env.OverloadDecl{
			ID:         "add_list",
			ArgTypes:   []*types.Type{types.NewList(types.NewTypeParam("T")), types.NewList(types.NewTypeParam("T"))},
			ResultType: types.NewList(types.NewTypeParam("T")),
			TypeParams: []string{"T"},
		},
		binaryOverload("add_timestamp_duration", types.Timestamp(), types.Duration(), types.Timestamp()),
		binaryOverload("add_duration_timestamp", types.Duration(), types.Timestamp(), types.Timestamp()),
		binaryOverload("add_duration_duration", types.Duration(), types.Duration(), types.Duration()),
	)
	sub = append(sub,
		binaryOverload("subtract_timestamp_timestamp", types.Timestamp(), types.Timestamp(), types.Duration()),
		binaryOverload("subtract_timestamp_duration", types.Timestamp(), types.Duration(), types.Timestamp()),
		binaryOverload("subtract_duration_duration", types.Duration(), types.Duration(), types.Duration()),
	)

	mod := []*env.OverloadDecl{
		binaryOverload("modulo_int", types.Int(), types.Int(), types.Int()),
		binaryOverload("modulo_uint", types.Uint(), types.Uint(), types.Uint()),
	}
	negate := []*env.OverloadDecl{
		unaryOverload("negate_int", types.Int(), types.Int()),
		unaryOverload("negate_double", types.Double(), types.Double()),
	}

	return []functionDecl{
		{ops.Add, add},
		{ops.Subtract, sub},
		{ops.Multiply, mul},
		{ops.Divide, div},
		{ops.Modulo, mod},
		{ops.Negate, negate},
	}
}

func comparisonFunctions(cfg Config) []functionDecl {
	equalsT := types.NewTypeParam("T")
	equals := []*env.OverloadDecl{
		{ID: "equals", ArgTypes: []*types.Type{equalsT, equalsT}, ResultType: types.Bool(), TypeParams: []string{"T"}},
	}
	notEqualsT := types.NewTypeParam("T")
	notEquals := []*env.OverloadDecl{
		{ID: "not_equals", ArgTypes: []*types.Type{notEqualsT, notEqualsT}, ResultType: types.Bool(), TypeParams: []string{"T"}},
	}

	var less, lessEq, greater, greaterEq []*env.OverloadDecl
	for _, t := range orderable() {
		name := t.Kind().String()
		less = append(less, binaryOverload("less_"+name, t, t, types.Bool()))
		lessEq = append(lessEq, binaryOverload("less_equals_"+name, t, t, types.Bool()))
		greater = append(greater, binaryOverload("greater_"+name, t, t, types.Bool()))
		greaterEq = append(greaterEq, binaryOverload("greater_equals_"+name, t, t, types.Bool()))
	}
	if cfg.EnableHeterogeneousNumericComparisons {
		for _, a := range numeric() {
			for _, b := range numeric() {
				if a.Kind() == b.Kind() {
					continue
				}
				id := fmt.Sprintf("%s_%s", a.Kind().String(), b.Kind().String())
				less = append(less, binaryOverload("less_"+id, a, b, types.Bool()))
				lessEq = append(lessEq, binaryOverload("less_equals_"+id, a, b, types.Bool()))
				greater = append(greater, binaryOverload("greater_"+id, a, b, types.Bool()))
				greaterEq = append(greaterEq, binaryOverload("greater_equals_"+id, a, b, types.Bool()))
			}
		}
	}

	return []functionDecl{
		{ops.Equals, equals},
		{ops.NotEquals, notEquals},
		{ops.Less, less},
		{ops.LessEquals, lessEq},
		{ops.Greater, greater},
		{ops.GreaterEquals, greaterEq},
	}
}

func logicalFunctions() []functionDecl {
	return []functionDecl{
		{ops.LogicalAnd, []*env.OverloadDecl{binaryOverload("logical_and", types.Bool(), types.Bool(), types.Bool())}},
		{ops.LogicalOr, []*env.OverloadDecl{binaryOverload("logical_or", types.Bool(), types.Bool(), types.Bool())}},
		{ops.LogicalNot, []*env.OverloadDecl{unaryOverload("logical_not", types.Bool(), types.Bool())}},
		{ops.NotStrictlyFalse, []*env.OverloadDecl{unaryOverload("not_strictly_false", types.Bool(), types.Bool())}},
	}
}

func membershipFunctions() []functionDecl {
	k, v := types.NewTypeParam("K"), types.NewTypeParam("V")
	inList := &env.OverloadDecl{
		ID: "in_list", ArgTypes: []*types.Type{v, types.NewList(v)}, ResultType: types.Bool(),
		TypeParams: []string{"V"},
	}
	inMap := &env.OverloadDecl{
		ID: "in_map", ArgTypes: []*types.Type{k, types.NewMap(k, types.NewTypeParam("V2"))}, ResultType: types.Bool(),
		TypeParams: []string{"K", "V2"},
	}
	return []functionDecl{{ops.In, []*env.OverloadDecl{inList, inMap}}}
}

func indexingFunctions() []functionDecl {
	t := types.NewTypeParam("T")
	k, v := types.NewTypeParam("K"), types.NewTypeParam("V")
	index := []*env.OverloadDecl{
		{ID: "index_list", ArgTypes: []*types.Type{types.NewList(t), types.Int()}, ResultType: t, TypeParams: []string{"T"}},
		{ID: "index_map", ArgTypes: []*types.Type{types.NewMap(k, v), k}, ResultType: v, TypeParams: []string{"K", "V"}},
	}
	t2 := types.NewTypeParam("T")
	k2, v2 := types.NewTypeParam("K"), types.NewTypeParam("V")
	optIndex := []*env.OverloadDecl{
		{
			ID: "opt_index_list", ArgTypes: []*types.Type{types.NewList(t2), types.Int()},
			ResultType: types.NewOptional(t2), TypeParams: []string{"T"},
		},
		{
			ID: "opt_index_map", ArgTypes: []*types.Type{types.NewMap(k2, v2), k2},
			ResultType: types.NewOptional(v2), TypeParams: []string{"K", "V"},
		},
	}
	optSelect := []*env.OverloadDecl{
		binaryOverload("opt_select", types.Dyn(), types.String(), types.NewOptional(types.Dyn())),
	}
	return []functionDecl{
		{ops.Index, index},
		{ops.OptIndex, optIndex},
		{ops.OptSelect, optSelect},
	}
}

func sizeFunctions() []functionDecl {
	shapes := []*types.Type{
		types.NewList(types.NewTypeParam("T")),
		types.NewMap(types.NewTypeParam("K"), types.NewTypeParam("V")),
		types.String(),
		types.Bytes(),
	}
	var overloads []*env.OverloadDecl
	for _, shape := range shapes {
		params := typeParamsOf(shape)
		overloads = append(overloads,
			&env.OverloadDecl{ID: "size_global_" + shape.Kind().String(), ArgTypes: []*types.Type{shape}, ResultType: types.Int(), TypeParams: params},
			&env.OverloadDecl{ID: "size_instance_" + shape.Kind().String(), IsInstance: true, ArgTypes: []*types.Type{shape}, ResultType: types.Int(), TypeParams: params},
		)
	}
	return []functionDecl{{ops.Size, overloads}}
}

func typeParamsOf(t *types.Type) []string {
	switch t.Kind() {
	case types.KindList:
		return []string{"T"}
	case types.KindMap:
		return []string{"K", "V"}
	default:
		return nil
	}
}

func conversionFunctions(cfg Config) []functionDecl {
	intConv := []*env.OverloadDecl{
		unaryOverload("int_int", types.Int(), types.Int()),
		unaryOverload("int_uint", types.Uint(), types.Int()),
		unaryOverload("int_double", types.Double(), types.Int()),
		unaryOverload("int_string", types.String(), types.Int()),
		unaryOverload("int_timestamp", types.Timestamp(), types.Int()),
	}
	uintConv := []*env.OverloadDecl{
		unaryOverload("uint_uint", types.Uint(), types.Uint()),
		unaryOverload("uint_int", types.Int(), types.Uint()),
		unaryOverload("uint_double", types.Double(), types.Uint()),
		unaryOverload("uint_string", types.String(), types.Uint()),
	}
	doubleConv := []*env.OverloadDecl{
		unaryOverload("double_double", types.Double(), types.Double()),
		unaryOverload("double_int", types.Int(), types.Double()),
		unaryOverload("double_uint", types.Uint(), types.Double()),
		unaryOverload("double_string", types.String(), types.Double()),
	}
	boolConv := []*env.OverloadDecl{
		unaryOverload("bool_bool", types.Bool(), types.Bool()),
		unaryOverload("bool_string", types.String(), types.Bool()),
	}
	stringConv := []*env.OverloadDecl{
		unaryOverload("string_string", types.String(), types.String()),
		unaryOverload("string_int", types.Int(), types.String()),
		unaryOverload("string_uint", types.Uint(), types.String()),
		unaryOverload("string_double", types.Double(), types.String()),
		unaryOverload("string_bytes", types.Bytes(), types.String()),
		unaryOverload("string_bool", types.Bool(), types.String()),
		unaryOverload("string_timestamp", types.Timestamp(), types.String()),
		unaryOverload("string_duration", types.Duration(), types.String()),
	}
	bytesConv := []*env.OverloadDecl{
		unaryOverload("bytes_bytes", types.Bytes(), types.Bytes()),
		unaryOverload("bytes_string", types.String(), types.Bytes()),
	}
	timestampConv := []*env.OverloadDecl{
		unaryOverload("timestamp_string", types.String(), types.Timestamp()),
	}
	if cfg.EnableTimestampEpoch {
		timestampConv = append(timestampConv, unaryOverload("timestamp_int", types.Int(), types.Timestamp()))
	}
	durationConv := []*env.OverloadDecl{
		unaryOverload("duration_string", types.String(), types.Duration()),
	}
	dynT := types.NewTypeParam("T")
	dynConv := []*env.OverloadDecl{
		{ID: "dyn_identity", ArgTypes: []*types.Type{dynT}, ResultType: types.Dyn(), TypeParams: []string{"T"}},
	}
	typeT := types.NewTypeParam("T")
	typeConv := []*env.OverloadDecl{
		{ID: "type_of", ArgTypes: []*types.Type{typeT}, ResultType: types.NewTypeOfType(typeT), TypeParams: []string{"T"}},
	}

	return []functionDecl{
		{ops.IntConv, intConv},
		{ops.UintConv, uintConv},
		{ops.DoubleConv, doubleConv},
		{ops.BoolConv, boolConv},
		{ops.StringConv, stringConv},
		{ops.BytesConv, bytesConv},
		{ops.TimestampConv, timestampConv},
		{ops.DurationConv, durationConv},
		{ops.DynConv, dynConv},
		{ops.TypeConvToType, typeConv},
	}
}

// dateTimeFunctions declares the common timestamp/duration accessor
// methods (spec §4.6's "common date/time member calls"), each as an
// instance-style overload, both with and without a timezone-name argument
// for the timestamp accessors.
func dateTimeFunctions() []functionDecl {
	names := []string{"getFullYear", "getMonth", "getDayOfYear", "getDayOfMonth", "getDate", "getDayOfWeek", "getHours", "getMinutes", "getSeconds", "getMilliseconds"}
	var fns []functionDecl
	for _, name := range names {
		fns = append(fns, functionDecl{name, []*env.OverloadDecl{
			{ID: name + "_timestamp", IsInstance: true, ArgTypes: []*types.Type{types.Timestamp()}, ResultType: types.Int()},
			{ID: name + "_timestamp_tz", IsInstance: true, ArgTypes: []*types.Type{types.Timestamp(), types.String()}, ResultType: types.Int()},
		}})
	}
	durationNames := []string{"getHours", "getMinutes", "getSeconds", "getMilliseconds"}
	byName := make(map[string]int, len(fns))
	for i, fn := range fns {
		byName[fn.name] = i
	}
	for _, name := range durationNames {
		overload := &env.OverloadDecl{ID: name + "_duration", IsInstance: true, ArgTypes: []*types.Type{types.Duration()}, ResultType: types.Int()}
		if i, ok := byName[name]; ok {
			fns[i].overloads = append(fns[i].overloads, overload)
		} else {
			fns = append(fns, functionDecl{name, []*env.OverloadDecl{overload}})
		}
	}
	return fns
}
