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

package dsl

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type field struct {
	key   string
	value any
}

// Object is a JSON object that keeps its keys in insertion order, so
// rendered queries are stable and read like the backend documentation.
type Object struct {
	fields []field
}

// Obj builds an object from key value pairs.
func Obj(kvs ...any) *Object {
	o := &Object{}
	for i := 0; i+1 < len(kvs); i += 2 {
		o.Set(kvs[i].(string), kvs[i+1])
	}
	return o
}

// Set replaces the value of an existing key in place or appends the key.
func (o *Object) Set(key string, value any) *Object {
	for i := range o.fields {
		if o.fields[i].key == key {
			o.fields[i].value = value
			return o
		}
	}
	o.fields = append(o.fields, field{key: key, value: value})
	return o
}

func (o *Object) Get(key string) (any, bool) {
	for _, f := range o.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

// Object returns the nested object under key, nil if there is none.
func (o *Object) Object(key string) *Object {
	v, _ := o.Get(key)
	obj, _ := v.(*Object)
	return obj
}

func (o *Object) Keys() []string {
	keys := make([]string, len(o.fields))
	for i, f := range o.fields {
		keys[i] = f.key
	}
	return keys
}

func (o *Object) Len() int {
	return len(o.fields)
}

func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Object) String() string {
	data, err := o.MarshalJSON()
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// Merge returns one object holding the fields of all objects in order.
func Merge(objs ...*Object) *Object {
	out := &Object{}
	for _, obj := range objs {
		for _, f := range obj.fields {
			out.Set(f.key, f.value)
		}
	}
	return out
}
