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
	"github.com/matrixorigin/mosearch/pkg/container/types"
)

// Short constructors for building trees by hand. They panic on type check
// failures and are meant for plans built in code and for tests.

func Ref(attr string, typ types.T) *Reference {
	return NewReference(attr, typ)
}

func Lit(v any) *Literal {
	return NewLiteral(types.FromAny(v))
}

func Named(name string, e Expression) *NamedExpression {
	return NewNamed(name, e)
}

// NamedRef names a reference after its attribute.
func NamedRef(r *Reference) *NamedExpression {
	return NewNamed(r.Attr, r)
}

func NamedAs(name string, e Expression, alias string) *NamedExpression {
	return &NamedExpression{Name: name, Alias: alias, Delegate: e}
}

func Call(name string, args ...Expression) *FunctionCall {
	f, err := NewFunction(name, args...)
	if err != nil {
		panic(err)
	}
	return f
}

func Eq(a, b Expression) *FunctionCall      { return Call("=", a, b) }
func NotEq(a, b Expression) *FunctionCall   { return Call("!=", a, b) }
func Less(a, b Expression) *FunctionCall    { return Call("<", a, b) }
func LessEq(a, b Expression) *FunctionCall  { return Call("<=", a, b) }
func Greater(a, b Expression) *FunctionCall { return Call(">", a, b) }
func GreaterEq(a, b Expression) *FunctionCall {
	return Call(">=", a, b)
}

func And(a, b Expression) *FunctionCall { return Call("and", a, b) }
func Or(a, b Expression) *FunctionCall  { return Call("or", a, b) }
func Not(a Expression) *FunctionCall    { return Call("not", a) }
func Add(a, b Expression) *FunctionCall { return Call("+", a, b) }
func Abs(a Expression) *FunctionCall    { return Call("abs", a) }
func Asin(a Expression) *FunctionCall   { return Call("asin", a) }
func IsNull(a Expression) *FunctionCall { return Call("is null", a) }
func IsNotNull(a Expression) *FunctionCall {
	return Call("is not null", a)
}

func SpanOf(field *Reference, value *Literal, unit string) *Span {
	s, err := NewSpan(field, value, unit)
	if err != nil {
		panic(err)
	}
	return s
}

func agg(fn AggFunc, typ types.T, args ...Expression) *Aggregator {
	a, err := NewAggregator(fn, typ, args...)
	if err != nil {
		panic(err)
	}
	return a
}

func Avg(arg Expression, typ types.T) *Aggregator   { return agg(AggAvg, typ, arg) }
func Sum(arg Expression, typ types.T) *Aggregator   { return agg(AggSum, typ, arg) }
func Min(arg Expression, typ types.T) *Aggregator   { return agg(AggMin, typ, arg) }
func Max(arg Expression, typ types.T) *Aggregator   { return agg(AggMax, typ, arg) }
func Count(arg Expression, typ types.T) *Aggregator { return agg(AggCount, typ, arg) }

// CountAll counts rows.
func CountAll() *Aggregator {
	return agg(AggCount, types.T_integer)
}

func NamedAgg(name string, a *Aggregator) *NamedAggregator {
	return NewNamedAggregator(name, a)
}

func Asc(e Expression) SortItem  { return SortItem{Option: DefaultAsc, Expr: e} }
func Desc(e Expression) SortItem { return SortItem{Option: DefaultDesc, Expr: e} }
