// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package expression

import (
	"math"
	"strings"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
)

// FuncExplainLayout decides how a function call is rendered.
type FuncExplainLayout int32

const (
	STANDARD_FUNCTION FuncExplainLayout = iota
	UNARY_OPERATOR
	BINARY_OPERATOR
	COMPARISON_OPERATOR
	IS_NULL_EXPRESSION
)

// NullPolicy decides how NULL and MISSING arguments are handled before
// the function body runs.
type NullPolicy int32

const (
	// PropagateNull returns MISSING if any argument is MISSING, NULL if
	// any argument is NULL, without calling Fn.
	PropagateNull NullPolicy = iota
	// HandleNull passes NULL and MISSING arguments to Fn.
	HandleNull
)

type Function struct {
	Name   string
	Layout FuncExplainLayout
	Nulls  NullPolicy
	// TypeCheckFn validates the argument types and returns the result type.
	TypeCheckFn func(inputs []types.T) (types.T, error)
	Fn          func(args []types.Value) (types.Value, error)
}

var functionRegister = map[string]*Function{}

func register(fns ...*Function) {
	for _, fn := range fns {
		functionRegister[fn.Name] = fn
	}
}

// GetFunction looks up a builtin by name.
func GetFunction(name string) (*Function, bool) {
	fn, ok := functionRegister[strings.ToLower(name)]
	return fn, ok
}

// FunctionCall applies a builtin to its arguments.
type FunctionCall struct {
	Func *Function
	Args []Expression
	typ  types.T
}

// NewFunction resolves a builtin and type checks its arguments.
func NewFunction(name string, args ...Expression) (*FunctionCall, error) {
	fn, ok := GetFunction(name)
	if !ok {
		return nil, moerr.NewNotSupported(moerr.Context(), "function %s", name)
	}
	inputs := make([]types.T, len(args))
	for i, arg := range args {
		inputs[i] = arg.Type()
	}
	typ, err := fn.TypeCheckFn(inputs)
	if err != nil {
		return nil, err
	}
	return &FunctionCall{Func: fn, Args: args, typ: typ}, nil
}

func (f *FunctionCall) Name() string {
	return f.Func.Name
}

func (f *FunctionCall) Type() types.T {
	return f.typ
}

func (f *FunctionCall) Eval(row *types.Tuple) (types.Value, error) {
	args := make([]types.Value, len(f.Args))
	missing, null := false, false
	for i, arg := range f.Args {
		v, err := arg.Eval(row)
		if err != nil {
			return types.Value{}, err
		}
		missing = missing || v.IsMissing()
		null = null || v.IsNull()
		args[i] = v
	}
	if f.Func.Nulls == PropagateNull {
		if missing {
			return types.Missing(), nil
		}
		if null {
			return types.Null(), nil
		}
	}
	return f.Func.Fn(args)
}

func (f *FunctionCall) Children() []Expression {
	return f.Args
}

func (f *FunctionCall) Accept(v Visitor, ctx any) (any, error) {
	return v.VisitFunction(f, ctx)
}

func (f *FunctionCall) String() string {
	switch f.Func.Layout {
	case UNARY_OPERATOR:
		return f.Func.Name + " " + f.Args[0].String()
	case BINARY_OPERATOR, COMPARISON_OPERATOR:
		return f.Args[0].String() + " " + f.Func.Name + " " + f.Args[1].String()
	case IS_NULL_EXPRESSION:
		return f.Args[0].String() + " " + f.Func.Name
	}
	var sb strings.Builder
	sb.WriteString(f.Func.Name)
	sb.WriteString("(")
	for i, arg := range f.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteString(")")
	return sb.String()
}

func arity(name string, inputs []types.T, n int) error {
	if len(inputs) != n {
		return moerr.NewInvalidArg(moerr.Context(), name+" arguments", len(inputs))
	}
	return nil
}

func comparableTypes(a, b types.T) bool {
	switch {
	case a.IsNumeric() && b.IsNumeric():
		return true
	case a.IsString() && b.IsString():
		return true
	case a.IsTemporal() && b.IsTemporal():
		return true
	}
	return a == b
}

func comparisonCheck(name string) func(inputs []types.T) (types.T, error) {
	return func(inputs []types.T) (types.T, error) {
		if err := arity(name, inputs, 2); err != nil {
			return types.T_undefined, err
		}
		if !comparableTypes(inputs[0], inputs[1]) {
			return types.T_undefined, moerr.NewTypeMismatch(moerr.Context(), "%s expects comparable arguments, got [%s, %s]", name, inputs[0], inputs[1])
		}
		return types.T_boolean, nil
	}
}

func comparison(name string, test func(c int) bool) *Function {
	return &Function{
		Name:        name,
		Layout:      COMPARISON_OPERATOR,
		TypeCheckFn: comparisonCheck(name),
		Fn: func(args []types.Value) (types.Value, error) {
			c, err := types.Compare(args[0], args[1])
			if err != nil {
				return types.Value{}, err
			}
			return types.NewBool(test(c)), nil
		},
	}
}

func booleanCheck(name string, n int) func(inputs []types.T) (types.T, error) {
	return func(inputs []types.T) (types.T, error) {
		if err := arity(name, inputs, n); err != nil {
			return types.T_undefined, err
		}
		for _, in := range inputs {
			if in != types.T_boolean {
				return types.T_undefined, moerr.NewTypeMismatch(moerr.Context(), "%s expects BOOLEAN arguments, got %s", name, in)
			}
		}
		return types.T_boolean, nil
	}
}

// and, or under three valued logic: a definite answer wins over an
// unknown operand, MISSING wins over NULL.
func logical(name string, dominant bool) *Function {
	return &Function{
		Name:        name,
		Layout:      BINARY_OPERATOR,
		Nulls:       HandleNull,
		TypeCheckFn: booleanCheck(name, 2),
		Fn: func(args []types.Value) (types.Value, error) {
			missing, null := false, false
			for _, arg := range args {
				switch {
				case arg.IsMissing():
					missing = true
				case arg.IsNull():
					null = true
				default:
					b, err := arg.Bool()
					if err != nil {
						return types.Value{}, err
					}
					if b == dominant {
						return types.NewBool(dominant), nil
					}
				}
			}
			if missing {
				return types.Missing(), nil
			}
			if null {
				return types.Null(), nil
			}
			return types.NewBool(!dominant), nil
		},
	}
}

func arithmeticCheck(name string) func(inputs []types.T) (types.T, error) {
	return func(inputs []types.T) (types.T, error) {
		if err := arity(name, inputs, 2); err != nil {
			return types.T_undefined, err
		}
		if !inputs[0].IsNumeric() || !inputs[1].IsNumeric() {
			return types.T_undefined, moerr.NewTypeMismatch(moerr.Context(), "%s expects numeric arguments, got [%s, %s]", name, inputs[0], inputs[1])
		}
		return types.Widen(inputs[0], inputs[1]), nil
	}
}

// arithmetic evaluates on int64 when both sides are integral and on
// float64 otherwise. A zero divisor yields NULL.
func arithmetic(name string, ints func(a, b int64) (int64, bool), floats func(a, b float64) (float64, bool)) *Function {
	check := arithmeticCheck(name)
	return &Function{
		Name:        name,
		Layout:      BINARY_OPERATOR,
		TypeCheckFn: check,
		Fn: func(args []types.Value) (types.Value, error) {
			typ, err := check([]types.T{args[0].Type(), args[1].Type()})
			if err != nil {
				return types.Value{}, err
			}
			if typ.IsIntegral() {
				a, _ := args[0].Int64()
				b, _ := args[1].Int64()
				r, ok := ints(a, b)
				if !ok {
					return types.Null(), nil
				}
				if typ == types.T_integer {
					return types.NewInt(int32(r)), nil
				}
				return types.NewLong(r), nil
			}
			a, _ := args[0].Float64()
			b, _ := args[1].Float64()
			r, ok := floats(a, b)
			if !ok {
				return types.Null(), nil
			}
			return types.NewDouble(r), nil
		},
	}
}

func numericUnary(name string, ret func(in types.T) types.T, fn func(v types.Value) (types.Value, error)) *Function {
	return &Function{
		Name: name,
		TypeCheckFn: func(inputs []types.T) (types.T, error) {
			if err := arity(name, inputs, 1); err != nil {
				return types.T_undefined, err
			}
			if !inputs[0].IsNumeric() {
				return types.T_undefined, moerr.NewTypeMismatch(moerr.Context(), "%s expects a numeric argument, got %s", name, inputs[0])
			}
			return ret(inputs[0]), nil
		},
		Fn: func(args []types.Value) (types.Value, error) {
			return fn(args[0])
		},
	}
}

func isNull(name string, want bool) *Function {
	return &Function{
		Name:   name,
		Layout: IS_NULL_EXPRESSION,
		Nulls:  HandleNull,
		TypeCheckFn: func(inputs []types.T) (types.T, error) {
			if err := arity(name, inputs, 1); err != nil {
				return types.T_undefined, err
			}
			return types.T_boolean, nil
		},
		Fn: func(args []types.Value) (types.Value, error) {
			return types.NewBool(args[0].IsNullOrMissing() == want), nil
		},
	}
}

func init() {
	register(
		comparison("=", func(c int) bool { return c == 0 }),
		comparison("!=", func(c int) bool { return c != 0 }),
		comparison("<", func(c int) bool { return c < 0 }),
		comparison("<=", func(c int) bool { return c <= 0 }),
		comparison(">", func(c int) bool { return c > 0 }),
		comparison(">=", func(c int) bool { return c >= 0 }),
		logical("and", false),
		logical("or", true),
		&Function{
			Name:        "not",
			Layout:      UNARY_OPERATOR,
			TypeCheckFn: booleanCheck("not", 1),
			Fn: func(args []types.Value) (types.Value, error) {
				b, err := args[0].Bool()
				if err != nil {
					return types.Value{}, err
				}
				return types.NewBool(!b), nil
			},
		},
		arithmetic("+",
			func(a, b int64) (int64, bool) { return a + b, true },
			func(a, b float64) (float64, bool) { return a + b, true }),
		arithmetic("-",
			func(a, b int64) (int64, bool) { return a - b, true },
			func(a, b float64) (float64, bool) { return a - b, true }),
		arithmetic("*",
			func(a, b int64) (int64, bool) { return a * b, true },
			func(a, b float64) (float64, bool) { return a * b, true }),
		arithmetic("/",
			func(a, b int64) (int64, bool) { return safeDiv(a, b) },
			func(a, b float64) (float64, bool) { return a / b, b != 0 }),
		arithmetic("%",
			func(a, b int64) (int64, bool) { return safeMod(a, b) },
			func(a, b float64) (float64, bool) { return math.Mod(a, b), b != 0 }),
		numericUnary("abs",
			func(in types.T) types.T { return in },
			func(v types.Value) (types.Value, error) {
				f, err := v.Float64()
				if err != nil {
					return types.Value{}, err
				}
				return types.NewNumeric(v.Type(), math.Abs(f)), nil
			}),
		numericUnary("asin",
			func(types.T) types.T { return types.T_double },
			func(v types.Value) (types.Value, error) {
				f, err := v.Float64()
				if err != nil {
					return types.Value{}, err
				}
				if f < -1 || f > 1 {
					return types.Null(), nil
				}
				return types.NewDouble(math.Asin(f)), nil
			}),
		isNull("is null", true),
		isNull("is not null", false),
	)
}

func safeDiv(a, b int64) (int64, bool) {
	if b == 0 {
		return 0, false
	}
	return a / b, true
}

func safeMod(a, b int64) (int64, bool) {
	if b == 0 {
		return 0, false
	}
	return a % b, true
}
