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
	"bytes"
	"sort"
	"strings"
)

// Tuple is a row: an ordered mapping from column name to Value. Column
// order is insertion order and overwriting a column keeps its position.
type Tuple struct {
	names  []string
	values map[string]Value
}

func NewTuple() *Tuple {
	return &Tuple{values: make(map[string]Value)}
}

// TupleOf builds a tuple from alternating name, value pairs where values
// are converted by FromAny.
func TupleOf(kvs ...any) *Tuple {
	t := NewTuple()
	for i := 0; i+1 < len(kvs); i += 2 {
		t.Set(kvs[i].(string), FromAny(kvs[i+1]))
	}
	return t
}

// TupleFromMap builds a tuple from a decoded json document. Go maps are
// unordered, so columns are sorted by name.
func TupleFromMap(m map[string]any) *Tuple {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	t := NewTuple()
	for _, k := range names {
		t.Set(k, FromAny(m[k]))
	}
	return t
}

func (t *Tuple) Len() int {
	return len(t.names)
}

func (t *Tuple) Names() []string {
	return t.names
}

func (t *Tuple) Set(name string, v Value) {
	if _, ok := t.values[name]; !ok {
		t.names = append(t.names, name)
	}
	t.values[name] = v
}

// Get looks name up as a column first and then as a dotted path into
// nested struct values.
func (t *Tuple) Get(name string) (Value, bool) {
	if v, ok := t.values[name]; ok {
		return v, true
	}
	if !strings.Contains(name, ".") {
		return Missing(), false
	}
	cur := t
	parts := strings.Split(name, ".")
	for i, p := range parts {
		v, ok := cur.values[p]
		if !ok {
			return Missing(), false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, err := v.Tuple()
		if err != nil {
			return Missing(), false
		}
		cur = next
	}
	return Missing(), false
}

// Value returns the column value, MISSING when the column is absent.
func (t *Tuple) Value(name string) Value {
	v, _ := t.Get(name)
	return v
}

func (t *Tuple) Remove(name string) {
	if _, ok := t.values[name]; !ok {
		return
	}
	delete(t.values, name)
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i:i], t.names[i+1:]...)
			break
		}
	}
}

// Rename renames a column in place. A column already named to is
// replaced.
func (t *Tuple) Rename(from, to string) {
	v, ok := t.values[from]
	if !ok || from == to {
		return
	}
	t.Remove(to)
	delete(t.values, from)
	t.values[to] = v
	for i, n := range t.names {
		if n == from {
			t.names[i] = to
			break
		}
	}
}

func (t *Tuple) Clone() *Tuple {
	c := &Tuple{
		names:  make([]string, len(t.names)),
		values: make(map[string]Value, len(t.values)),
	}
	copy(c.names, t.names)
	for k, v := range t.values {
		c.values[k] = v
	}
	return c
}

// Equal compares column order and values.
func (t *Tuple) Equal(o *Tuple) bool {
	if t.Len() != o.Len() {
		return false
	}
	for i, n := range t.names {
		if o.names[i] != n || !Equal(t.values[n], o.values[n]) {
			return false
		}
	}
	return true
}

func (t *Tuple) Map() map[string]any {
	m := make(map[string]any, len(t.names))
	for _, n := range t.names {
		m[n] = t.values[n].Interface()
	}
	return m
}

func (t *Tuple) String() string {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, n := range t.names {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(n)
		buf.WriteString(": ")
		buf.WriteString(t.values[n].String())
	}
	buf.WriteString("}")
	return buf.String()
}
