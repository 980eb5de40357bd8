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

package projection

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

func accessLog() vm.Operator {
	return value_scan.NewArgument([]string{"ip", "action", "response"}, [][]Expression{
		{Lit("209.160.24.63"), Lit("GET"), Lit(200)},
		{Lit("209.160.24.63"), Lit("GET"), Lit(404)},
		{Lit("112.111.162.4"), Lit("GET"), Lit(200)},
		{Lit("74.125.19.106"), Lit("POST"), Lit(200)},
		{Lit("74.125.19.106"), Lit("POST"), Lit(500)},
	})
}

func run(t *testing.T, op vm.Operator) []*types.Tuple {
	rows, err := vm.Run(op, process.NewFromContext(context.Background()))
	require.NoError(t, err)
	return rows
}

func TestProjectFollowsListOrder(t *testing.T) {
	arg := NewArgument(accessLog(),
		NamedRef(Ref("action", types.T_string)),
		NamedRef(Ref("ip", types.T_string)))
	rows := run(t, arg)
	require.Len(t, rows, 5)
	for _, row := range rows {
		require.Equal(t, []string{"action", "ip"}, row.Names())
	}
	require.True(t, rows[0].Equal(types.TupleOf("action", "GET", "ip", "209.160.24.63")))
	require.True(t, rows[4].Equal(types.TupleOf("action", "POST", "ip", "74.125.19.106")))
	require.Equal(t, []string{"action", "ip"}, arg.Schema().Names())
}

func TestProjectMissingField(t *testing.T) {
	arg := NewArgument(accessLog(),
		NamedRef(Ref("action", types.T_string)),
		NamedRef(Ref("response", types.T_integer)),
		NamedRef(Ref("referer", types.T_string)))
	rows := run(t, arg)
	require.Len(t, rows, 5)
	for _, row := range rows {
		require.True(t, row.Value("referer").IsMissing())
		require.Equal(t, []string{"action", "response", "referer"}, row.Names())
	}
	require.Equal(t, types.NewInt(404), rows[1].Value("response"))
}

func TestProjectPartialRows(t *testing.T) {
	input := value_scan.NewFromTuples(
		types.TupleOf("a", 1, "b", 2),
		types.TupleOf("a", 3, "b", types.Missing()),
	)
	rows := run(t, NewArgument(input, NamedRef(Ref("b", types.T_integer)), NamedRef(Ref("a", types.T_integer))))
	require.Equal(t, types.NewInt(2), rows[0].Value("b"))
	require.True(t, rows[1].Value("b").IsMissing())
	require.Equal(t, types.NewInt(3), rows[1].Value("a"))
}

func TestProjectAlias(t *testing.T) {
	arg := NewArgument(accessLog(),
		NamedAs("action", Ref("action", types.T_string), "act"),
		Named("code", Add(Ref("response", types.T_integer), Lit(1))))
	require.Equal(t, "[act STRING, code INTEGER]", arg.Schema().String())

	rows := run(t, arg)
	require.True(t, rows[0].Equal(types.TupleOf("act", "GET", "code", 201)))

	buf := new(bytes.Buffer)
	arg.String(buf)
	require.Equal(t, "projection(action AS act, code)", buf.String())
}

func TestProjectDuplicateName(t *testing.T) {
	arg := NewArgument(accessLog(),
		NamedRef(Ref("action", types.T_string)),
		NamedAs("ip", Ref("ip", types.T_string), "action"))
	_, err := vm.Run(arg, process.NewFromContext(context.Background()))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}
