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

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
)

func TestTypeString(t *testing.T) {
	require.Equal(t, "INTEGER", T_integer.String())
	require.Equal(t, "TEXT_KEYWORD", T_text_keyword.String())
	require.Equal(t, "UNKNOWN", T(200).String())
	require.True(t, T_text_keyword.IsString())
	require.True(t, T_short.IsNumeric())
	require.False(t, T_boolean.IsNumeric())
	require.Equal(t, T_double, Widen(T_integer, T_float))
	require.Equal(t, T_long, Widen(T_long, T_integer))
	require.Equal(t, T_integer, Widen(T_short, T_byte))
}

func TestValueState(t *testing.T) {
	var zero Value
	require.True(t, zero.IsMissing())
	require.True(t, Equal(zero, Missing()))
	require.False(t, NewInt(0).IsNullOrMissing())
	require.False(t, NewBool(false).IsNullOrMissing())
	require.False(t, Null().IsMissing())
	require.True(t, Null().IsNull())
	require.False(t, Equal(Null(), Missing()))
	require.True(t, Equal(Missing(), Missing()))
	require.Nil(t, Missing().Interface())
	require.Equal(t, "MISSING", Missing().String())
	require.Equal(t, "NULL", Null().String())
}

func TestValueAccessor(t *testing.T) {
	v := NewInt(3)
	i, err := v.Int64()
	require.NoError(t, err)
	require.Equal(t, int64(3), i)

	f, err := v.Float64()
	require.NoError(t, err)
	require.Equal(t, 3.0, f)

	_, err = v.Str()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	_, err = Missing().Bool()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))
}

func TestFromAny(t *testing.T) {
	require.Equal(t, T_integer, FromAny(1).Type())
	require.Equal(t, T_long, FromAny(int64(1)).Type())
	require.Equal(t, T_double, FromAny(1.5).Type())
	require.True(t, FromAny(nil).IsNull())

	v := FromAny(map[string]any{"b": 1, "a": "x"})
	tp, err := v.Tuple()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, tp.Names())

	arr, err := FromAny([]any{1, "a"}).Array()
	require.NoError(t, err)
	require.Len(t, arr, 2)
}

func TestConvert(t *testing.T) {
	tcs := []struct {
		typ  T
		in   any
		want Value
	}{
		{T_integer, float64(3), NewInt(3)},
		{T_long, "42", NewLong(42)},
		{T_double, int64(2), NewDouble(2)},
		{T_text_keyword, "n", NewText(T_text_keyword, "n")},
		{T_boolean, true, NewBool(true)},
		{T_timestamp, "2020-01-02 03:04:05", NewTimestamp(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC))},
		{T_integer, nil, Null()},
	}
	for _, tc := range tcs {
		got, err := Convert(tc.typ, tc.in)
		require.NoError(t, err)
		require.True(t, Equal(tc.want, got), "%v != %v", tc.want, got)
	}

	_, err := Convert(T_integer, "abc")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))
}

func TestCompare(t *testing.T) {
	c, err := Compare(NewInt(1), NewDouble(1.5))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = Compare(NewString("b"), NewText(T_text, "a"))
	require.NoError(t, err)
	require.Equal(t, 1, c)

	c, err = Compare(NewBool(false), NewBool(true))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	_, err = Compare(NewInt(1), NewString("1"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	_, err = Compare(NewInt(1), Null())
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	require.True(t, Equal(NewInt(2), NewLong(2)))
	require.True(t, Equal(NewInt(2), NewDouble(2)))
}

func TestHashValues(t *testing.T) {
	require.Equal(t,
		HashValues([]Value{NewInt(2), NewString("a")}),
		HashValues([]Value{NewDouble(2), NewString("a")}))
	require.NotEqual(t,
		HashValues([]Value{Null()}),
		HashValues([]Value{Missing()}))
	require.NotEqual(t,
		HashValues([]Value{NewString("ab"), NewString("c")}),
		HashValues([]Value{NewString("a"), NewString("bc")}))
	require.True(t, EqualValues([]Value{NewInt(1), Null()}, []Value{NewLong(1), Null()}))
}

func TestTuple(t *testing.T) {
	row := TupleOf("name", "a", "age", 10)
	require.Equal(t, []string{"name", "age"}, row.Names())

	row.Set("name", NewString("b"))
	require.Equal(t, []string{"name", "age"}, row.Names())
	require.Equal(t, NewString("b"), row.Value("name"))
	require.True(t, row.Value("gender").IsMissing())

	c := row.Clone()
	c.Remove("name")
	require.Equal(t, 2, row.Len())
	require.Equal(t, []string{"age"}, c.Names())
	require.False(t, row.Equal(c))

	r := TupleOf("a", 1, "b", 2, "c", 3)
	r.Rename("a", "x")
	require.Equal(t, []string{"x", "b", "c"}, r.Names())
	r.Rename("x", "c")
	require.Equal(t, []string{"c", "b"}, r.Names())
	require.Equal(t, NewInt(1), r.Value("c"))
	r.Rename("absent", "y")
	require.Equal(t, 2, r.Len())

	nested := TupleOf("addr", map[string]any{"city": "x"})
	require.Equal(t, NewString("x"), nested.Value("addr.city"))
	require.True(t, nested.Value("addr.zip").IsMissing())
	require.Equal(t, map[string]any{"addr": map[string]any{"city": "x"}}, nested.Map())
}

func TestTriState(t *testing.T) {
	s, err := ToTriState(NewBool(true))
	require.NoError(t, err)
	require.Equal(t, True, s)
	s, err = ToTriState(Missing())
	require.NoError(t, err)
	require.Equal(t, Unknown, s)
	_, err = ToTriState(NewInt(1))
	require.Error(t, err)
	require.Equal(t, "FALSE", False.String())
}

func TestSchema(t *testing.T) {
	s := NewSchema(Column{Name: "name", Typ: T_string}, Column{Name: "age", Alias: "a", Typ: T_integer})
	require.Equal(t, []string{"name", "a"}, s.Names())
	require.Equal(t, 1, s.Index("a"))
	require.Equal(t, -1, s.Index("age"))
	col, ok := s.Column("name")
	require.True(t, ok)
	require.Equal(t, T_string, col.Typ)
	require.Equal(t, "[name STRING, a INTEGER]", s.String())
	var nilSchema *Schema
	require.Equal(t, 0, nilSchema.Len())
}
