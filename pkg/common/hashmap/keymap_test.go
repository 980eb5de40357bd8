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
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mosearch/pkg/container/types"
)

func key(vals ...any) []types.Value {
	out := make([]types.Value, len(vals))
	for i, v := range vals {
		out[i] = types.FromAny(v)
	}
	return out
}

func TestKeyMap(t *testing.T) {
	mp := NewKeyMap(true)
	require.True(t, mp.HasNull())

	g, ok := mp.Insert(key("a", 1))
	require.True(t, ok)
	require.Equal(t, uint64(1), g)
	g, ok = mp.Insert(key("b", 1))
	require.True(t, ok)
	require.Equal(t, uint64(2), g)
	g, ok = mp.Insert(key("a", int64(1)))
	require.False(t, ok)
	require.Equal(t, uint64(1), g)

	g, ok = mp.Insert(key(nil, 1))
	require.True(t, ok)
	require.Equal(t, uint64(3), g)
	g, ok = mp.Insert([]types.Value{types.Missing(), types.NewInt(1)})
	require.True(t, ok)
	require.Equal(t, uint64(4), g)
	require.Equal(t, uint64(3), mp.Find(key(nil, 1)))
	require.Equal(t, uint64(0), mp.Find(key("c", 1)))

	require.Equal(t, uint64(4), mp.GroupCount())
	require.Equal(t, key("b", 1), mp.Key(2))

	mp.Free()
	require.Equal(t, uint64(0), mp.GroupCount())
}

func TestKeyMapWithoutNull(t *testing.T) {
	mp := NewKeyMap(false)
	g, ok := mp.Insert(key(nil))
	require.False(t, ok)
	require.Equal(t, uint64(0), g)
	g, ok = mp.Insert([]types.Value{types.Missing()})
	require.False(t, ok)
	require.Equal(t, uint64(0), g)
	require.Equal(t, uint64(0), mp.GroupCount())
}

func TestKeyMapMany(t *testing.T) {
	mp := NewKeyMap(true)
	for i := 0; i < 1000; i++ {
		mp.Insert(key(fmt.Sprintf("k%d", i%100), i%7))
	}
	require.Equal(t, uint64(700), mp.GroupCount())
	for i := 0; i < 1000; i++ {
		require.NotZero(t, mp.Find(key(fmt.Sprintf("k%d", i%100), i%7)))
	}
}
