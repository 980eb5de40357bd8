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

package window

import (
	"bytes"
	"fmt"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const opName = "window"

func (window *Window) String(buf *bytes.Buffer) {
	buf.WriteString(fmt.Sprintf("%s(%s over (%s) AS %s)",
		opName, window.Func.Delegate, window.Definition, window.Func.OutputName()))
}

func (window *Window) OpType() vm.OpType {
	return vm.Window
}

func (window *Window) function() (*expression.WindowFunction, bool) {
	fn, ok := window.Func.Delegate.(*expression.WindowFunction)
	return fn, ok
}

func (window *Window) Open(proc *process.Process) error {
	if _, ok := window.function(); !ok {
		return moerr.NewInvalidInput(proc.Ctx, "%s is not a window function", window.Func.Delegate)
	}
	window.ctr.reset()
	window.ResetLookahead()
	return window.OpenChildren(proc)
}

func (window *Window) HasNext() (bool, error) {
	return window.Peek(window.fetch)
}

func (window *Window) Next() (*types.Tuple, error) {
	return window.Take()
}

func (window *Window) fetch() (*types.Tuple, error) {
	ctr := &window.ctr
	if ctr.idx >= len(ctr.pending) {
		if err := window.loadPeers(); err != nil {
			return nil, err
		}
		if len(ctr.pending) == 0 {
			return nil, nil
		}
	}
	row := ctr.pending[ctr.idx]
	ctr.pending[ctr.idx] = nil
	ctr.idx++
	return row, nil
}

func (window *Window) pull() (*types.Tuple, error) {
	input := window.Input()
	ok, err := input.HasNext()
	if err != nil || !ok {
		return nil, err
	}
	return input.Next()
}

func (window *Window) keys(row *types.Tuple) ([]types.Value, []types.Value, error) {
	part := make([]types.Value, len(window.Definition.PartitionBy))
	for i, e := range window.Definition.PartitionBy {
		v, err := e.Eval(row)
		if err != nil {
			return nil, nil, err
		}
		part[i] = v
	}
	sort := make([]types.Value, len(window.Definition.SortList))
	for i, item := range window.Definition.SortList {
		v, err := item.Expr.Eval(row)
		if err != nil {
			return nil, nil, err
		}
		sort[i] = v
	}
	return part, sort, nil
}

// loadPeers reads the next peer group into pending and computes the window
// value of its rows.
func (window *Window) loadPeers() error {
	ctr := &window.ctr
	ctr.pending = ctr.pending[:0]
	ctr.idx = 0

	first := ctr.carry
	ctr.carry = nil
	if first == nil {
		var err error
		if first, err = window.pull(); err != nil || first == nil {
			return err
		}
	}
	fn, _ := window.function()
	partKey, sortKey, err := window.keys(first)
	if err != nil {
		return err
	}
	if !ctr.started || !types.EqualValues(partKey, ctr.partKey) {
		ctr.started = true
		ctr.partKey = partKey
		ctr.rowNum, ctr.peerGroups = 0, 0
		if fn.Kind == expression.AggregateWindow {
			ctr.state = fn.Agg.Create()
		}
	}

	ctr.pending = append(ctr.pending, first)
	for {
		row, err := window.pull()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		pk, sk, err := window.keys(row)
		if err != nil {
			return err
		}
		if !types.EqualValues(pk, partKey) || !types.EqualValues(sk, sortKey) {
			ctr.carry = row
			break
		}
		ctr.pending = append(ctr.pending, row)
	}

	ctr.peerGroups++
	rank := ctr.rowNum + 1
	name := window.Func.OutputName()
	if fn.Kind == expression.AggregateWindow {
		for _, row := range ctr.pending {
			if err := fn.Agg.Iterate(row, ctr.state); err != nil {
				return err
			}
		}
		v := ctr.state.Result()
		for _, row := range ctr.pending {
			row.Set(name, v)
		}
		ctr.rowNum += int64(len(ctr.pending))
		return nil
	}
	for _, row := range ctr.pending {
		ctr.rowNum++
		var n int64
		switch fn.Kind {
		case expression.RowNumber:
			n = ctr.rowNum
		case expression.Rank:
			n = rank
		case expression.DenseRank:
			n = ctr.peerGroups
		}
		row.Set(name, types.NewInt(int32(n)))
	}
	return nil
}

func (window *Window) Close() error {
	window.ctr.reset()
	return window.CloseChildren()
}

func (window *Window) Schema() *types.Schema {
	schema := window.ChildSchema().Clone()
	col := types.Column{Name: window.Func.OutputName(), Typ: window.Func.Type()}
	if idx := schema.Index(col.Name); idx >= 0 {
		schema.Columns[idx] = col
	} else {
		schema.Columns = append(schema.Columns, col)
	}
	return schema
}
