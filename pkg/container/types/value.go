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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
)

type valueState uint8

// the zero Value is MISSING
const (
	stateMissing valueState = iota
	stateNull
	statePresent
)

// Value is a tagged runtime value.
//
// MISSING means the field is absent from the row, NULL means the field
// is present without a value. The two never compare equal.
type Value struct {
	typ   T
	state valueState
	// int64 for integral kinds, float64 for float kinds, string for string
	// kinds, bool, time.Time for temporal kinds, time.Duration for
	// intervals, *Tuple for structs and []Value for arrays.
	data any
}

var (
	missingValue = Value{}
	nullValue    = Value{state: stateNull}
	trueValue    = Value{typ: T_boolean, state: statePresent, data: true}
	falseValue   = Value{typ: T_boolean, state: statePresent, data: false}
)

func Missing() Value {
	return missingValue
}

func Null() Value {
	return nullValue
}

func NewByte(v int8) Value {
	return Value{typ: T_byte, state: statePresent, data: int64(v)}
}

func NewShort(v int16) Value {
	return Value{typ: T_short, state: statePresent, data: int64(v)}
}

func NewInt(v int32) Value {
	return Value{typ: T_integer, state: statePresent, data: int64(v)}
}

func NewLong(v int64) Value {
	return Value{typ: T_long, state: statePresent, data: v}
}

func NewFloat(v float32) Value {
	return Value{typ: T_float, state: statePresent, data: float64(v)}
}

func NewDouble(v float64) Value {
	return Value{typ: T_double, state: statePresent, data: v}
}

func NewString(v string) Value {
	return Value{typ: T_string, state: statePresent, data: v}
}

// NewText builds a string carried value of one of the text kinds.
func NewText(typ T, v string) Value {
	if !typ.IsString() {
		typ = T_string
	}
	return Value{typ: typ, state: statePresent, data: v}
}

func NewBool(v bool) Value {
	if v {
		return trueValue
	}
	return falseValue
}

func NewDate(v time.Time) Value {
	return Value{typ: T_date, state: statePresent, data: v}
}

func NewTime(v time.Time) Value {
	return Value{typ: T_time, state: statePresent, data: v}
}

func NewTimestamp(v time.Time) Value {
	return Value{typ: T_timestamp, state: statePresent, data: v}
}

func NewInterval(v time.Duration) Value {
	return Value{typ: T_interval, state: statePresent, data: v}
}

func NewStruct(v *Tuple) Value {
	return Value{typ: T_struct, state: statePresent, data: v}
}

func NewArray(v []Value) Value {
	return Value{typ: T_array, state: statePresent, data: v}
}

// NewNumeric converts a float result back to typ, truncating for
// integral kinds.
func NewNumeric(typ T, v float64) Value {
	if typ.IsIntegral() {
		return Value{typ: typ, state: statePresent, data: int64(v)}
	}
	if typ == T_float {
		return Value{typ: T_float, state: statePresent, data: v}
	}
	return NewDouble(v)
}

// FromAny converts a go native value into a Value, mostly used to decode
// backend documents and in tests.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case int:
		return NewInt(int32(x))
	case int8:
		return NewByte(x)
	case int16:
		return NewShort(x)
	case int32:
		return NewInt(x)
	case int64:
		return NewLong(x)
	case float32:
		return NewFloat(x)
	case float64:
		return NewDouble(x)
	case string:
		return NewString(x)
	case bool:
		return NewBool(x)
	case time.Time:
		return NewTimestamp(x)
	case time.Duration:
		return NewInterval(x)
	case *Tuple:
		return NewStruct(x)
	case map[string]any:
		return NewStruct(TupleFromMap(x))
	case []any:
		vals := make([]Value, len(x))
		for i := range x {
			vals[i] = FromAny(x[i])
		}
		return NewArray(vals)
	default:
		panic(fmt.Sprintf("unsupported value type %T", v))
	}
}

// Convert reinterprets a go native value as type typ. It is used by result
// decoding where the declared column type is known.
func Convert(typ T, v any) (Value, error) {
	if v == nil {
		return Null(), nil
	}
	switch {
	case typ.IsIntegral():
		switch x := v.(type) {
		case float64:
			return Value{typ: typ, state: statePresent, data: int64(x)}, nil
		case int64:
			return Value{typ: typ, state: statePresent, data: x}, nil
		case int:
			return Value{typ: typ, state: statePresent, data: int64(x)}, nil
		case string:
			i, err := strconv.ParseInt(x, 10, 64)
			if err != nil {
				return Value{}, moerr.NewTypeMismatch(moerr.Context(), "cannot convert %q to %s", x, typ)
			}
			return Value{typ: typ, state: statePresent, data: i}, nil
		}
	case typ.IsFloat():
		switch x := v.(type) {
		case float64:
			return Value{typ: typ, state: statePresent, data: x}, nil
		case int64:
			return Value{typ: typ, state: statePresent, data: float64(x)}, nil
		case int:
			return Value{typ: typ, state: statePresent, data: float64(x)}, nil
		}
	case typ.IsString():
		if s, ok := v.(string); ok {
			return NewText(typ, s), nil
		}
		return NewText(typ, fmt.Sprintf("%v", v)), nil
	case typ == T_boolean:
		if b, ok := v.(bool); ok {
			return NewBool(b), nil
		}
	case typ.IsTemporal():
		switch x := v.(type) {
		case string:
			ts, err := time.Parse(time.RFC3339, x)
			if err != nil {
				ts, err = time.Parse("2006-01-02 15:04:05", x)
			}
			if err != nil {
				return Value{}, moerr.NewTypeMismatch(moerr.Context(), "cannot convert %q to %s", x, typ)
			}
			return Value{typ: typ, state: statePresent, data: ts.UTC()}, nil
		case float64:
			return Value{typ: typ, state: statePresent, data: time.UnixMilli(int64(x)).UTC()}, nil
		case int64:
			return Value{typ: typ, state: statePresent, data: time.UnixMilli(x).UTC()}, nil
		}
	default:
		return FromAny(v), nil
	}
	return Value{}, moerr.NewTypeMismatch(moerr.Context(), "cannot convert %v (%T) to %s", v, v, typ)
}

func (v Value) Type() T {
	return v.typ
}

func (v Value) IsMissing() bool {
	return v.state == stateMissing
}

func (v Value) IsNull() bool {
	return v.state == stateNull
}

func (v Value) IsNullOrMissing() bool {
	return v.state != statePresent
}

func (v Value) mismatch(want string) error {
	return moerr.NewTypeMismatch(moerr.Context(), "expect %s, got %s", want, v.describe())
}

func (v Value) describe() string {
	switch v.state {
	case stateMissing:
		return "MISSING"
	case stateNull:
		return "NULL"
	}
	return v.typ.String()
}

func (v Value) Int64() (int64, error) {
	if v.state == statePresent {
		switch x := v.data.(type) {
		case int64:
			return x, nil
		case float64:
			return int64(x), nil
		}
	}
	return 0, v.mismatch("integral value")
}

func (v Value) Float64() (float64, error) {
	if v.state == statePresent {
		switch x := v.data.(type) {
		case int64:
			return float64(x), nil
		case float64:
			return x, nil
		}
	}
	return 0, v.mismatch("numeric value")
}

func (v Value) Str() (string, error) {
	if v.state == statePresent {
		if s, ok := v.data.(string); ok {
			return s, nil
		}
	}
	return "", v.mismatch("string value")
}

func (v Value) Bool() (bool, error) {
	if v.state == statePresent {
		if b, ok := v.data.(bool); ok {
			return b, nil
		}
	}
	return false, v.mismatch("boolean value")
}

func (v Value) Time() (time.Time, error) {
	if v.state == statePresent {
		if t, ok := v.data.(time.Time); ok {
			return t, nil
		}
	}
	return time.Time{}, v.mismatch("temporal value")
}

func (v Value) Interval() (time.Duration, error) {
	if v.state == statePresent {
		if d, ok := v.data.(time.Duration); ok {
			return d, nil
		}
	}
	return 0, v.mismatch("interval value")
}

func (v Value) Tuple() (*Tuple, error) {
	if v.state == statePresent {
		if t, ok := v.data.(*Tuple); ok {
			return t, nil
		}
	}
	return nil, v.mismatch("struct value")
}

func (v Value) Array() ([]Value, error) {
	if v.state == statePresent {
		if a, ok := v.data.([]Value); ok {
			return a, nil
		}
	}
	return nil, v.mismatch("array value")
}

// Interface returns the go native form of v: nil for NULL and MISSING,
// map[string]any for structs.
func (v Value) Interface() any {
	if v.state != statePresent {
		return nil
	}
	switch x := v.data.(type) {
	case *Tuple:
		return x.Map()
	case []Value:
		out := make([]any, len(x))
		for i := range x {
			out[i] = x[i].Interface()
		}
		return out
	}
	return v.data
}

func (v Value) String() string {
	switch v.state {
	case stateMissing:
		return "MISSING"
	case stateNull:
		return "NULL"
	}
	switch x := v.data.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case *Tuple:
		return x.String()
	case []Value:
		parts := make([]string, len(x))
		for i := range x {
			parts[i] = x[i].String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprintf("%v", v.data)
}
