package jsonpath

import "regexp"

// funcSignatures is the static function table the parser consults to
// type and arity check a call; the evaluator dispatches through
// builtinFuncs below.
// RFC 9535's five built-ins only; there is no facility for user-defined
// functions, per the spec's Non-goals.
var funcSignatures = map[string]funcSignature{
	"length": {Params: []ParamKind{ParamValue}, Return: ReturnValue},
	"count":  {Params: []ParamKind{ParamNodes}, Return: ReturnValue},
	"value":  {Params: []ParamKind{ParamNodes}, Return: ReturnValue},
	"match":  {Params: []ParamKind{ParamValue, ParamValue}, Return: ReturnLogical},
	"search": {Params: []ParamKind{ParamValue, ParamValue}, Return: ReturnLogical},
}

// builtinFuncs holds the Go implementation behind each entry in
// funcSignatures, keyed the same way.
var builtinFuncs = map[string]func(args []funcArgValue) funcResult{
	"length": func(args []funcArgValue) funcResult {
		v := args[0].value
		switch {
		case v.IsString():
			return funcResult{value: numberResult(float64(len(v.Str)))}
		case v.IsArray():
			return funcResult{value: numberResult(float64(len(v.Array())))}
		case v.IsObject():
			return funcResult{value: numberResult(float64(len(v.MapKVList())))}
		default:
			return funcResult{}
		}
	},
	"count": func(args []funcArgValue) funcResult {
		return funcResult{value: numberResult(float64(len(args[0].nodes)))}
	},
	"value": func(args []funcArgValue) funcResult {
		nodes := args[0].nodes
		if len(nodes) != 1 {
			return funcResult{}
		}
		return funcResult{value: nodes[0]}
	},
	"match": func(args []funcArgValue) funcResult {
		return funcResult{logical: regexTest(args[0].value, args[1].value, true)}
	},
	"search": func(args []funcArgValue) funcResult {
		return funcResult{logical: regexTest(args[0].value, args[1].value, false)}
	},
}

// regexTest backs both match() and search(): a malformed pattern or a
// non-string operand is a false result, never a compile or eval error,
// per RFC 9535 §2.4.6/§2.4.7. match() anchors the pattern to the whole
// subject; search() looks for a match anywhere in it.
func regexTest(subject, pattern Result, anchored bool) bool {
	if !subject.IsString() || !pattern.IsString() {
		return false
	}
	pat := pattern.Str
	if anchored {
		pat = "^(?:" + pat + ")$"
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return false
	}
	return re.MatchString(subject.Str)
}
