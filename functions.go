package jsonpath

// funcSignature is the static shape of a built-in function: the kind
// each parameter accepts and the kind the call returns. The parser
// copies these into FuncCall.Params/Return so the evaluator never has
// to consult this table at run time.
type funcSignature struct {
	Params []ParamKind
	Return ReturnKind
}

// funcArgKind tags what an evaluated function argument holds.
type funcArgKind int

const (
	argKindValue funcArgKind = iota
	argKindNodes
	argKindLogical
)

// funcArgValue is one evaluated, typed argument passed to a built-in's
// Go implementation in functions_builtin.go.
type funcArgValue struct {
	kind    funcArgKind
	value   Result
	nodes   []Result
	logical bool
}

// funcResult is what evaluating a FuncCall produces: a Result for a
// value-returning function, or a bool for a logical-returning one,
// selected by the call's Return kind.
type funcResult struct {
	value   Result
	logical bool
}

func (e *Evaluator) evalFuncCall(fn *FuncCall, current Result) funcResult {
	impl, ok := builtinFuncs[fn.Name]
	if !ok {
		panic(internalInvariantError{"unknown function reached evaluator: " + fn.Name})
	}
	args := make([]funcArgValue, len(fn.Args))
	for i, arg := range fn.Args {
		args[i] = e.evalFuncArg(arg, fn.Params[i], current)
	}
	return impl(args)
}

func (e *Evaluator) evalFuncArg(arg *FuncArg, kind ParamKind, current Result) funcArgValue {
	switch kind {
	case ParamValue:
		switch arg.Type {
		case ArgLiteral:
			return funcArgValue{kind: argKindValue, value: literalValue(arg.Literal)}
		case ArgQuery:
			return funcArgValue{kind: argKindValue, value: e.evalSingular(arg.Query, current)}
		case ArgFunc:
			return funcArgValue{kind: argKindValue, value: e.evalFuncCall(arg.Func, current).value}
		default:
			panic(internalInvariantError{"value argument has non-value shape"})
		}
	case ParamNodes:
		return funcArgValue{kind: argKindNodes, nodes: e.evalQuery(arg.Query, current)}
	case ParamLogical:
		return funcArgValue{kind: argKindLogical, logical: e.evalFilterExpr(arg.Logical, current)}
	default:
		panic(internalInvariantError{"unknown parameter kind"})
	}
}
