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

func NewKeyMap(hasNull bool) *KeyMap {
	return &KeyMap{
		hasNull: hasNull,
		buckets: make(map[uint64][]uint64),
	}
}

func (m *KeyMap) HasNull() bool {
	return m.hasNull
}

func (m *KeyMap) Free() {
	m.buckets = nil
	m.keys = nil
}

func (m *KeyMap) GroupCount() uint64 {
	return uint64(len(m.keys))
}

// Insert returns the group of key and whether it was added by this call.
// A key rejected for holding NULL or MISSING yields group 0.
func (m *KeyMap) Insert(key []types.Value) (uint64, bool) {
	if !m.hasNull && hasNullValue(key) {
		return 0, false
	}
	h := types.HashValues(key)
	if g := m.find(h, key); g != 0 {
		return g, false
	}
	stored := make([]types.Value, len(key))
	copy(stored, key)
	m.keys = append(m.keys, stored)
	g := uint64(len(m.keys))
	m.buckets[h] = append(m.buckets[h], g)
	return g, true
}

// Find returns the group of key, 0 means not found.
func (m *KeyMap) Find(key []types.Value) uint64 {
	return m.find(types.HashValues(key), key)
}

func (m *KeyMap) find(h uint64, key []types.Value) uint64 {
	for _, g := range m.buckets[h] {
		if types.EqualValues(m.keys[g-1], key) {
			return g
		}
	}
	return 0
}

// Key returns the key of a group.
func (m *KeyMap) Key(group uint64) []types.Value {
	return m.keys[group-1]
}

func hasNullValue(key []types.Value) bool {
	for _, v := range key {
		if v.IsNullOrMissing() {
			return true
		}
	}
	return false
}
