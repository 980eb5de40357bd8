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

package limit

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/value_scan"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

// countingScan records how many rows were pulled from it.
type countingScan struct {
	*value_scan.ValueScan
	pulled int
}

func (c *countingScan) Next() (*types.Tuple, error) {
	c.pulled++
	return c.ValueScan.Next()
}

func newInput(n int) *countingScan {
	rows := make([]*types.Tuple, n)
	for i := range rows {
		rows[i] = types.TupleOf("id", i)
	}
	return &countingScan{ValueScan: value_scan.NewFromTuples(rows...)}
}

type limitTestCase struct {
	limit, offset uint64
	want          []int64
	pulled        int
}

var tcs = []limitTestCase{
	{limit: 3, offset: 0, want: []int64{0, 1, 2}, pulled: 3},
	{limit: 3, offset: 2, want: []int64{2, 3, 4}, pulled: 5},
	{limit: 20, offset: 8, want: []int64{8, 9}, pulled: 10},
	{limit: 0, offset: 0, want: nil, pulled: 0},
	{limit: 5, offset: 12, want: nil, pulled: 10},
}

func TestLimit(t *testing.T) {
	for _, tc := range tcs {
		input := newInput(10)
		arg := NewArgument(input, tc.limit, tc.offset)
		rows, err := vm.Run(arg, process.NewFromContext(context.Background()))
		require.NoError(t, err)
		var ids []int64
		for _, row := range rows {
			id, err := row.Value("id").Int64()
			require.NoError(t, err)
			ids = append(ids, id)
		}
		require.Equal(t, tc.want, ids, "limit %d offset %d", tc.limit, tc.offset)
		require.Equal(t, tc.pulled, input.pulled, "limit %d offset %d", tc.limit, tc.offset)
	}
}

func TestString(t *testing.T) {
	buf := new(bytes.Buffer)
	NewArgument(newInput(1), 10, 0).String(buf)
	require.Equal(t, "limit(10)", buf.String())
	buf.Reset()
	NewArgument(newInput(1), 10, 5).String(buf)
	require.Equal(t, "limit(10, offset 5)", buf.String())
	require.Equal(t, []string{"id"}, NewArgument(newInput(1), 1, 0).Schema().Names())
}
