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

// T is the closed set of expression types known to the engine.
type T uint8

const (
	T_undefined T = iota

	T_byte
	T_short
	T_integer
	T_long
	T_float
	T_double

	T_string
	T_boolean

	T_date
	T_time
	T_timestamp
	T_interval

	T_struct
	T_array

	// backend specific types
	T_text
	// T_text_keyword is a text field with a non-analyzed keyword sub-field.
	T_text_keyword
	T_ip
	T_geo_point
	T_binary
)

var typeNames = map[T]string{
	T_undefined:    "UNDEFINED",
	T_byte:         "BYTE",
	T_short:        "SHORT",
	T_integer:      "INTEGER",
	T_long:         "LONG",
	T_float:        "FLOAT",
	T_double:       "DOUBLE",
	T_string:       "STRING",
	T_boolean:      "BOOLEAN",
	T_date:         "DATE",
	T_time:         "TIME",
	T_timestamp:    "TIMESTAMP",
	T_interval:     "INTERVAL",
	T_struct:       "STRUCT",
	T_array:        "ARRAY",
	T_text:         "TEXT",
	T_text_keyword: "TEXT_KEYWORD",
	T_ip:           "IP",
	T_geo_point:    "GEO_POINT",
	T_binary:       "BINARY",
}

func (t T) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

func (t T) IsIntegral() bool {
	switch t {
	case T_byte, T_short, T_integer, T_long:
		return true
	}
	return false
}

func (t T) IsFloat() bool {
	return t == T_float || t == T_double
}

func (t T) IsNumeric() bool {
	return t.IsIntegral() || t.IsFloat()
}

// IsString reports whether values of t are carried as go strings.
func (t T) IsString() bool {
	switch t {
	case T_string, T_text, T_text_keyword, T_ip:
		return true
	}
	return false
}

func (t T) IsTemporal() bool {
	switch t {
	case T_date, T_time, T_timestamp:
		return true
	}
	return false
}

// Widen returns the wider of two numeric types, used to type arithmetic.
func Widen(a, b T) T {
	if a.IsFloat() || b.IsFloat() {
		return T_double
	}
	if a == T_long || b == T_long {
		return T_long
	}
	return T_integer
}
