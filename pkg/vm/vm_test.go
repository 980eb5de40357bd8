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

package vm

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

type fakeOp struct {
	OperatorBase
	rows     []*types.Tuple
	idx      int
	fetches  int
	closed   int
	openErr  error
	closeErr error
	panicAt  int
}

func (f *fakeOp) Open(proc *process.Process) error {
	if f.openErr != nil {
		return f.openErr
	}
	return f.OpenChildren(proc)
}

func (f *fakeOp) HasNext() (bool, error) {
	return f.Peek(func() (*types.Tuple, error) {
		f.fetches++
		if f.panicAt > 0 && f.idx+1 == f.panicAt {
			panic("boom")
		}
		if f.idx >= len(f.rows) {
			return nil, nil
		}
		f.idx++
		return f.rows[f.idx-1], nil
	})
}

func (f *fakeOp) Next() (*types.Tuple, error) {
	return f.Take()
}

func (f *fakeOp) Close() error {
	f.closed++
	return multiErr(f.closeErr, f.CloseChildren())
}

func multiErr(a, b error) error {
	return combine([]error{a, b})
}

func (f *fakeOp) Schema() *types.Schema {
	return types.NewSchema(types.Column{Name: "a", Typ: types.T_integer})
}

func (f *fakeOp) OpType() OpType {
	return ValueScan
}

func (f fakeOp) TypeName() string {
	return "fake"
}

func (f *fakeOp) String(buf *bytes.Buffer) {
	buf.WriteString(f.TypeName())
}

func (f *fakeOp) GetOperatorBase() *OperatorBase {
	return &f.OperatorBase
}

func rowsOf(n int) []*types.Tuple {
	rows := make([]*types.Tuple, n)
	for i := range rows {
		rows[i] = types.TupleOf("a", i)
	}
	return rows
}

func TestPeekTake(t *testing.T) {
	op := &fakeOp{rows: rowsOf(2)}
	for i := 0; i < 3; i++ {
		ok, err := op.HasNext()
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.Equal(t, 1, op.fetches)

	row, err := op.Next()
	require.NoError(t, err)
	require.Equal(t, types.NewInt(0), row.Value("a"))

	_, err = op.Next()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))

	ok, err := op.HasNext()
	require.NoError(t, err)
	require.True(t, ok)
	_, err = op.Next()
	require.NoError(t, err)

	ok, err = op.HasNext()
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = op.HasNext()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 3, op.fetches)

	op.ResetLookahead()
	op.idx = 0
	ok, err = op.HasNext()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRun(t *testing.T) {
	proc := process.NewFromContext(context.Background())

	child := &fakeOp{}
	root := &fakeOp{rows: rowsOf(3)}
	root.AppendChild(child)
	rows, err := Run(root, proc)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, 1, root.closed)
	require.Equal(t, 1, child.closed)

	root = &fakeOp{rows: rowsOf(3), closeErr: moerr.NewInternalError(proc.Ctx, "close")}
	rows, err = Run(root, proc)
	require.Nil(t, rows)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))

	root = &fakeOp{openErr: moerr.NewInvalidInput(proc.Ctx, "open")}
	_, err = Run(root, proc)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	require.Equal(t, 1, root.closed)

	root = &fakeOp{rows: rowsOf(3), panicAt: 2}
	rows, err = Run(root, proc)
	require.Nil(t, rows)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
	require.Equal(t, 1, root.closed)
}

func TestString(t *testing.T) {
	root := &fakeOp{}
	root.AppendChild(&fakeOp{})
	var buf bytes.Buffer
	String(root, &buf)
	require.Equal(t, "fake <- fake", buf.String())
	require.Equal(t, "resource_monitor", ResourceMonitor.String())
	require.Equal(t, "unknown", LastInstructionOp.String())
	require.Equal(t, 1, root.NumChildren())
	require.NotNil(t, root.Input())
	require.Len(t, Children(root), 1)
}

func TestCancelCheck(t *testing.T) {
	proc := process.NewFromContext(context.Background())
	err, cancelled := CancelCheck(proc)
	require.NoError(t, err)
	require.False(t, cancelled)
	proc.Free()
	err, cancelled = CancelCheck(proc)
	require.Error(t, err)
	require.True(t, cancelled)
}
