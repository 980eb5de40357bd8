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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
)

type evalTestCase struct {
	expr Expression
	row  *types.Tuple
	want types.Value
}

var evalTcs []evalTestCase

func init() {
	age := Ref("age", types.T_integer)
	name := Ref("name", types.T_string)
	flag := Ref("flag", types.T_boolean)
	row := types.TupleOf("age", 30, "name", "bob", "flag", true, "score", nil)
	evalTcs = []evalTestCase{
		{age, row, types.NewInt(30)},
		{Ref("gender", types.T_string), row, types.Missing()},
		{Greater(age, Lit(20)), row, types.NewBool(true)},
		{Eq(name, Lit("bob")), row, types.NewBool(true)},
		{LessEq(age, Lit(29.5)), row, types.NewBool(false)},
		{Greater(Ref("gender", types.T_integer), Lit(1)), row, types.Missing()},
		{Greater(Ref("score", types.T_integer), Lit(1)), row, types.Null()},
		{And(flag, Greater(Ref("gender", types.T_integer), Lit(1))), row, types.Missing()},
		{And(Not(flag), Greater(Ref("gender", types.T_integer), Lit(1))), row, types.NewBool(false)},
		{Or(flag, Greater(Ref("gender", types.T_integer), Lit(1))), row, types.NewBool(true)},
		{Or(Not(flag), Greater(Ref("score", types.T_integer), Lit(1))), row, types.Null()},
		{Add(age, Lit(2)), row, types.NewInt(32)},
		{Add(age, Lit(0.5)), row, types.NewDouble(30.5)},
		{Call("/", age, Lit(0)), row, types.Null()},
		{Call("%", age, Lit(7)), row, types.NewInt(2)},
		{Abs(Lit(-3)), row, types.NewInt(3)},
		{Asin(Lit(2)), row, types.Null()},
		{IsNull(Ref("gender", types.T_string)), row, types.NewBool(true)},
		{Call("is not null", age), row, types.NewBool(true)},
		{Named("a", age), row, types.NewInt(30)},
		{Named("nested", Ref("addr.city", types.T_string)), types.TupleOf("addr", map[string]any{"city": "x"}), types.NewString("x")},
		{age, nil, types.Missing()},
	}
}

func TestEval(t *testing.T) {
	for _, tc := range evalTcs {
		got, err := tc.expr.Eval(tc.row)
		require.NoError(t, err, tc.expr.String())
		require.True(t, types.Equal(tc.want, got), "%s: want %s, got %s", tc.expr, tc.want, got)
	}
}

func TestTypeCheck(t *testing.T) {
	_, err := NewFunction(">", Ref("age", types.T_integer), Lit("a"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	_, err = NewFunction("and", Ref("age", types.T_integer), Lit(true))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	_, err = NewFunction("abs", Ref("name", types.T_string))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	_, err = NewFunction("nope", Lit(1))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotSupported))

	_, err = NewFunction("=", Lit(1))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))

	require.Equal(t, types.T_double, Asin(Ref("age", types.T_integer)).Type())
	require.Equal(t, types.T_long, Add(Ref("age", types.T_integer), Lit(int64(1))).Type())
}

func TestConcreteTypeError(t *testing.T) {
	// declared INTEGER but the row carries a string
	e := Greater(Ref("age", types.T_integer), Lit(1))
	_, err := e.Eval(types.TupleOf("age", "old"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))
}

func TestString(t *testing.T) {
	age := Ref("age", types.T_integer)
	require.Equal(t, "age > 20", Greater(age, Lit(20)).String())
	require.Equal(t, "asin(age)", Asin(age).String())
	require.Equal(t, "not flag", Not(Ref("flag", types.T_boolean)).String())
	require.Equal(t, "name = 'a'", Eq(Ref("name", types.T_string), Lit("a")).String())
	require.Equal(t, "age is null", IsNull(age).String())
	require.Equal(t, "avg(age)", Avg(age, types.T_integer).String())
	require.Equal(t, "avg(age) filter(where age > 34)", Avg(age, types.T_integer).WithCondition(Greater(age, Lit(34))).String())
	require.Equal(t, "count(distinct age)", Count(age, types.T_integer).WithDistinct(true).String())
	require.Equal(t, "count(*)", CountAll().String())
	require.Equal(t, "span(age, 10)", SpanOf(age, Lit(10), "").String())
	require.Equal(t, "span(ts, 1h)", SpanOf(Ref("ts", types.T_timestamp), Lit(1), "h").String())
	require.Equal(t, "name AS n", NamedAs("name", Ref("name", types.T_string), "n").String())
	require.Equal(t, "rank()", (&WindowFunction{Kind: Rank}).String())
}

func TestSpan(t *testing.T) {
	s := SpanOf(Ref("age", types.T_integer), Lit(10), "")
	v, err := s.Eval(types.TupleOf("age", 37))
	require.NoError(t, err)
	require.True(t, types.Equal(types.NewInt(30), v))

	v, err = s.Eval(types.NewTuple())
	require.NoError(t, err)
	require.True(t, v.IsMissing())

	ts := SpanOf(Ref("ts", types.T_timestamp), Lit(1), "h")
	row := types.NewTuple()
	row.Set("ts", types.NewTimestamp(time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)))
	v, err = ts.Eval(row)
	require.NoError(t, err)
	got, err := v.Time()
	require.NoError(t, err)
	require.Equal(t, time.Date(2021, 3, 4, 5, 0, 0, 0, time.UTC), got)

	month := SpanOf(Ref("ts", types.T_timestamp), Lit(2), "M")
	v, err = month.Eval(row)
	require.NoError(t, err)
	got, err = v.Time()
	require.NoError(t, err)
	require.Equal(t, time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = NewSpan(Ref("ts", types.T_timestamp), Lit(1), "")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))
	_, err = NewSpan(Ref("ts", types.T_timestamp), Lit(1), "x")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
}

func TestEvalPredicate(t *testing.T) {
	cond := Greater(Ref("age", types.T_integer), Lit(20))
	s, err := EvalPredicate(cond, types.TupleOf("age", 21))
	require.NoError(t, err)
	require.Equal(t, types.True, s)
	s, err = EvalPredicate(cond, types.TupleOf("age", 20))
	require.NoError(t, err)
	require.Equal(t, types.False, s)
	s, err = EvalPredicate(cond, types.TupleOf("name", "a"))
	require.NoError(t, err)
	require.Equal(t, types.Unknown, s)
}

func TestEvalNamed(t *testing.T) {
	exprs := []*NamedExpression{
		Named("response", Ref("response", types.T_integer)),
		NamedAs("action", Ref("action", types.T_string), "act"),
	}
	out, err := EvalNamed(exprs, types.TupleOf("action", "GET", "response", 200))
	require.NoError(t, err)
	require.Equal(t, []string{"response", "act"}, out.Names())
	require.Equal(t, []string{"response", "act"}, Columns(exprs).Names())
	require.Equal(t, types.T_string, Columns(exprs).Columns[1].Typ)
}

func TestCompareRows(t *testing.T) {
	a := types.TupleOf("x", 1, "y", nil)
	b := types.TupleOf("x", 1, "y", 2)
	x, y := Ref("x", types.T_integer), Ref("y", types.T_integer)

	c, err := CompareRows([]SortItem{Asc(x), Asc(y)}, a, b)
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = CompareRows([]SortItem{Asc(x), Desc(y)}, a, b)
	require.NoError(t, err)
	require.Equal(t, 1, c)

	c, err = CompareRows([]SortItem{{Option: SortOption{Order: Ascending, NullOrder: NullsLast}, Expr: y}}, a, b)
	require.NoError(t, err)
	require.Equal(t, 1, c)

	c, err = CompareRows([]SortItem{Desc(x)}, a, b)
	require.NoError(t, err)
	require.Equal(t, 0, c)
}
