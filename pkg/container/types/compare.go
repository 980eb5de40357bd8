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
	"encoding/binary"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
)

func compareOrdered[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func family(t T) int {
	switch {
	case t.IsNumeric():
		return 1
	case t.IsString():
		return 2
	case t == T_boolean:
		return 3
	case t.IsTemporal():
		return 4
	case t == T_interval:
		return 5
	}
	return int(t) + 16
}

// Compare orders two present values. Numeric kinds of any width compare
// with each other, text kinds compare with strings. NULL and MISSING are
// not ordered here, callers decide where they go.
func Compare(a, b Value) (int, error) {
	if a.IsNullOrMissing() || b.IsNullOrMissing() {
		return 0, moerr.NewTypeMismatch(moerr.Context(), "cannot compare %s with %s", a.describe(), b.describe())
	}
	if family(a.typ) != family(b.typ) {
		return 0, moerr.NewTypeMismatch(moerr.Context(), "cannot compare %s with %s", a.typ, b.typ)
	}
	switch x := a.data.(type) {
	case int64:
		if y, ok := b.data.(int64); ok {
			return compareOrdered(x, y), nil
		}
		return compareOrdered(float64(x), b.data.(float64)), nil
	case float64:
		y, _ := b.Float64()
		return compareOrdered(x, y), nil
	case string:
		return compareOrdered(x, b.data.(string)), nil
	case bool:
		y := b.data.(bool)
		if x == y {
			return 0, nil
		}
		if !x {
			return -1, nil
		}
		return 1, nil
	case time.Time:
		return x.Compare(b.data.(time.Time)), nil
	case time.Duration:
		return compareOrdered(x, b.data.(time.Duration)), nil
	}
	return 0, moerr.NewNotSupported(moerr.Context(), "compare %s values", a.typ)
}

// Equal is total: NULL equals NULL and MISSING equals MISSING, which is
// what grouping and dedupe keys need.
func Equal(a, b Value) bool {
	if a.state != b.state {
		return false
	}
	if a.state != statePresent {
		return true
	}
	switch x := a.data.(type) {
	case *Tuple:
		y, ok := b.data.(*Tuple)
		return ok && x.Equal(y)
	case []Value:
		y, ok := b.data.([]Value)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	c, err := Compare(a, b)
	return err == nil && c == 0
}

func EqualValues(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// HashValues hashes a key tuple consistently with EqualValues.
func HashValues(vals []Value) uint64 {
	d := xxhash.New()
	var buf [9]byte
	for _, v := range vals {
		writeValue(d, v, buf[:])
	}
	return d.Sum64()
}

func writeValue(d *xxhash.Digest, v Value, buf []byte) {
	buf[0] = byte(v.state)
	if v.state != statePresent {
		_, _ = d.Write(buf[:1])
		return
	}
	buf[0] = byte(family(v.typ)) + 8
	switch x := v.data.(type) {
	case int64:
		// integral and float numbers that are equal must hash equal
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(float64(x)))
		_, _ = d.Write(buf)
	case float64:
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(x))
		_, _ = d.Write(buf)
	case string:
		_, _ = d.Write(buf[:1])
		_, _ = d.WriteString(x)
		_, _ = d.Write([]byte{0})
	case bool:
		if x {
			buf[1] = 1
		} else {
			buf[1] = 0
		}
		_, _ = d.Write(buf[:2])
	case time.Time:
		binary.LittleEndian.PutUint64(buf[1:], uint64(x.UnixNano()))
		_, _ = d.Write(buf)
	case time.Duration:
		binary.LittleEndian.PutUint64(buf[1:], uint64(x))
		_, _ = d.Write(buf)
	case *Tuple:
		_, _ = d.Write(buf[:1])
		for _, n := range x.names {
			_, _ = d.WriteString(n)
			writeValue(d, x.values[n], buf)
		}
	case []Value:
		_, _ = d.Write(buf[:1])
		for i := range x {
			writeValue(d, x[i], buf)
		}
	}
}

// TriState is the outcome of evaluating a predicate under three valued
// logic.
type TriState uint8

const (
	Unknown TriState = iota
	True
	False
)

func (s TriState) String() string {
	switch s {
	case True:
		return "TRUE"
	case False:
		return "FALSE"
	}
	return "UNKNOWN"
}

// ToTriState maps a boolean valued result; NULL and MISSING are Unknown.
func ToTriState(v Value) (TriState, error) {
	if v.IsNullOrMissing() {
		return Unknown, nil
	}
	b, err := v.Bool()
	if err != nil {
		return Unknown, err
	}
	if b {
		return True, nil
	}
	return False, nil
}
