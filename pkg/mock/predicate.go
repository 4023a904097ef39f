package mock

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/ohler55/ojg/jp"
)

// ExprPredicate compiles an expression into a BodyPredicate. The expression
// evaluates in an environment with two variables:
//
//	body — the raw request body as a string ("" when absent)
//	json — the body decoded as JSON (nil when the body is not valid JSON)
//
// Example: `json?.operationName == "GetUser" && len(body) > 0`.
func ExprPredicate(expression string) (BodyPredicate, error) {
	program, err := expr.Compile(expression, expr.Env(exprEnv(nil)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile body expression: %w", err)
	}
	return func(body []byte) bool {
		return runExprProgram(program, body)
	}, nil
}

func exprEnv(body []byte) map[string]any {
	env := map[string]any{
		"body": string(body),
		"json": nil,
	}
	if len(body) > 0 {
		var decoded any
		if err := json.Unmarshal(body, &decoded); err == nil {
			env["json"] = decoded
		}
	}
	return env
}

func runExprProgram(program *vm.Program, body []byte) bool {
	out, err := expr.Run(program, exprEnv(body))
	if err != nil {
		return false
	}
	b, ok := out.(bool)
	return ok && b
}

// JSONPathPredicate builds a BodyPredicate from JSONPath conditions. Every
// condition must hold for the predicate to match. The expected value is
// compared with JSON type coercion; a value of the form {"exists": bool}
// asserts presence or absence of the path instead of comparing.
func JSONPathPredicate(conditions map[string]any) (BodyPredicate, error) {
	if len(conditions) == 0 {
		return nil, fmt.Errorf("jsonpath predicate requires at least one condition")
	}
	type compiled struct {
		path     jp.Expr
		expected any
	}
	exprs := make([]compiled, 0, len(conditions))
	for path, expected := range conditions {
		x, err := jp.ParseString(path)
		if err != nil {
			return nil, fmt.Errorf("parse jsonpath %q: %w", path, err)
		}
		exprs = append(exprs, compiled{path: x, expected: expected})
	}
	return func(body []byte) bool {
		var data any
		if err := json.Unmarshal(body, &data); err != nil {
			return false
		}
		for _, c := range exprs {
			if !matchJSONPathCondition(c.path, c.expected, data) {
				return false
			}
		}
		return true
	}, nil
}

func matchJSONPathCondition(path jp.Expr, expected, data any) bool {
	results := path.Get(data)

	if exists, ok := existenceCheck(expected); ok {
		return exists == (len(results) > 0)
	}
	for _, result := range results {
		if jsonValuesEqual(result, expected) {
			return true
		}
	}
	return false
}

// existenceCheck reports whether expected is a {"exists": bool} assertion.
func existenceCheck(expected any) (bool, bool) {
	m, ok := expected.(map[string]any)
	if !ok || len(m) != 1 {
		return false, false
	}
	b, ok := m["exists"].(bool)
	return b, ok
}

// jsonValuesEqual compares a JSON-decoded value against an expected value,
// coercing numeric types (JSON numbers decode as float64).
func jsonValuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	if reflect.DeepEqual(actual, expected) {
		return true
	}
	an, aok := toFloat64(actual)
	en, eok := toFloat64(expected)
	if aok && eok {
		return an == en
	}
	return false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
