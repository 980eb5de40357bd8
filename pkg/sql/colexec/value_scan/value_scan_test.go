// Copyright 2021-2023 Matrix Origin
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

package value_scan

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

func TestString(t *testing.T) {
	buf := new(bytes.Buffer)
	NewFromTuples(types.TupleOf("a", 1)).String(buf)
	require.Equal(t, "value_scan(1 rows)", buf.String())
}

func TestValueScan(t *testing.T) {
	proc := process.NewFromContext(context.Background())
	arg := NewArgument([]string{"a", "b"}, [][]expression.Expression{
		{expression.Lit(1), expression.Add(expression.Lit(1), expression.Lit(2))},
		{expression.Lit(2), expression.Lit("x")},
	})
	require.Equal(t, vm.ValueScan, arg.OpType())
	require.Equal(t, "[a INTEGER, b INTEGER]", arg.Schema().String())

	rows, err := vm.Run(arg, proc)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.True(t, rows[0].Equal(types.TupleOf("a", 1, "b", 3)))
	require.True(t, rows[1].Equal(types.TupleOf("a", 2, "b", "x")))

	// replays on reopen
	rows, err = vm.Run(arg, proc)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestPullProtocol(t *testing.T) {
	proc := process.NewFromContext(context.Background())
	arg := NewFromTuples(types.TupleOf("a", 1))
	require.NoError(t, arg.Open(proc))

	_, err := arg.Next()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))

	for i := 0; i < 3; i++ {
		ok, err := arg.HasNext()
		require.NoError(t, err)
		require.True(t, ok)
	}
	row, err := arg.Next()
	require.NoError(t, err)
	require.Equal(t, types.NewInt(1), row.Value("a"))
	ok, err := arg.HasNext()
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, arg.Close())
}

func TestInvalidRow(t *testing.T) {
	proc := process.NewFromContext(context.Background())
	arg := NewArgument([]string{"a", "b"}, [][]expression.Expression{{expression.Lit(1)}})
	require.True(t, moerr.IsMoErrCode(arg.Open(proc), moerr.ErrInvalidInput))
}
