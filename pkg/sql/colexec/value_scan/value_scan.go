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
	"fmt"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const opName = "value_scan"

func (valueScan *ValueScan) String(buf *bytes.Buffer) {
	buf.WriteString(fmt.Sprintf("%s(%d rows)", opName, len(valueScan.Values)))
}

func (valueScan *ValueScan) OpType() vm.OpType {
	return vm.ValueScan
}

func (valueScan *ValueScan) Open(proc *process.Process) error {
	for i, row := range valueScan.Values {
		if len(row) != len(valueScan.Columns) {
			return moerr.NewInvalidInput(proc.Ctx, "%s row %d has %d values, want %d",
				opName, i, len(row), len(valueScan.Columns))
		}
	}
	valueScan.ctr.idx = 0
	valueScan.ResetLookahead()
	return nil
}

func (valueScan *ValueScan) HasNext() (bool, error) {
	return valueScan.Peek(valueScan.fetch)
}

func (valueScan *ValueScan) Next() (*types.Tuple, error) {
	return valueScan.Take()
}

func (valueScan *ValueScan) fetch() (*types.Tuple, error) {
	if valueScan.ctr.idx >= len(valueScan.Values) {
		return nil, nil
	}
	exprs := valueScan.Values[valueScan.ctr.idx]
	valueScan.ctr.idx++
	row := types.NewTuple()
	for i, e := range exprs {
		v, err := e.Eval(row)
		if err != nil {
			return nil, err
		}
		row.Set(valueScan.Columns[i], v)
	}
	return row, nil
}

func (valueScan *ValueScan) Close() error {
	return nil
}

func (valueScan *ValueScan) Schema() *types.Schema {
	cols := make([]types.Column, len(valueScan.Columns))
	for i, name := range valueScan.Columns {
		cols[i] = types.Column{Name: name}
		if len(valueScan.Values) > 0 {
			cols[i].Typ = valueScan.Values[0][i].Type()
		}
	}
	return types.NewSchema(cols...)
}
