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

package restrict

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/value_scan"
	. "github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

type filterTestCase struct {
	name string
	cond Expression
	want []int64
}

var input = []*types.Tuple{
	types.TupleOf("id", 1, "age", 30),
	types.TupleOf("id", 2, "age", 10),
	types.TupleOf("id", 3, "age", nil),
	types.TupleOf("id", 4),
	types.TupleOf("id", 5, "age", 40),
}

var tcs = []filterTestCase{
	{
		name: "greater",
		cond: Greater(Ref("age", types.T_integer), Lit(20)),
		want: []int64{1, 5},
	},
	{
		name: "null and missing are dropped",
		cond: Not(Greater(Ref("age", types.T_integer), Lit(20))),
		want: []int64{2},
	},
	{
		name: "is null keeps null and missing rows",
		cond: IsNull(Ref("age", types.T_integer)),
		want: []int64{3, 4},
	},
	{
		name: "or with unknown side",
		cond: Or(Greater(Ref("age", types.T_integer), Lit(20)), Eq(Ref("id", types.T_integer), Lit(4))),
		want: []int64{1, 4, 5},
	},
}

func TestFilter(t *testing.T) {
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			proc := process.NewFromContext(context.Background())
			arg := NewArgument(value_scan.NewFromTuples(input...), tc.cond)
			rows, err := vm.Run(arg, proc)
			require.NoError(t, err)
			var ids []int64
			for _, row := range rows {
				id, err := row.Value("id").Int64()
				require.NoError(t, err)
				ids = append(ids, id)
			}
			require.Equal(t, tc.want, ids)
		})
	}
}

func TestString(t *testing.T) {
	buf := new(bytes.Buffer)
	arg := NewArgument(value_scan.NewFromTuples(input...), Greater(Ref("age", types.T_integer), Lit(20)))
	arg.String(buf)
	require.Equal(t, "filter(age > 20)", buf.String())
	require.Equal(t, vm.Restrict, arg.OpType())
	require.Equal(t, []string{"id", "age"}, arg.Schema().Names())
}

func TestNonBooleanCondition(t *testing.T) {
	proc := process.NewFromContext(context.Background())
	arg := NewArgument(value_scan.NewFromTuples(input...), Ref("age", types.T_integer))
	_, err := vm.Run(arg, proc)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))
}
