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

package hashmap

import (
	"github.com/matrixorigin/mosearch/pkg/container/types"
)

// HashMap is the encapsulated hash table interface exposed to the outside
type HashMap interface {
	// HasNull returns whether the hash map considers the null values.
	HasNull() bool
	// Free method frees the hash map.
	Free()
	// GroupCount returns the hash map's row count.
	GroupCount() uint64
}

// KeyMap key is a tuple of values, value is the group number of the key
// (starting from 1, in insertion order).
//
// NULL and MISSING are distinct keys that equal themselves. When hasNull
// is false keys holding either are never inserted.
type KeyMap struct {
	hasNull bool
	// hash -> groups sharing the hash
	buckets map[uint64][]uint64
	keys    [][]types.Value
}

var _ HashMap = new(KeyMap)
