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
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
)

var _ vm.Operator = new(ValueScan)

type container struct {
	idx int
}

// ValueScan replays literal rows. Each row is a list of expressions
// evaluated against an empty row and stored under the column names.
type ValueScan struct {
	ctr     container
	Columns []string
	Values  [][]expression.Expression

	vm.OperatorBase
}

func (valueScan *ValueScan) GetOperatorBase() *vm.OperatorBase {
	return &valueScan.OperatorBase
}

func (valueScan ValueScan) TypeName() string {
	return opName
}

func NewArgument(columns []string, values [][]expression.Expression) *ValueScan {
	return &ValueScan{
		Columns: columns,
		Values:  values,
	}
}

// NewFromTuples builds a value scan from already evaluated rows, the
// columns are taken from the first row.
func NewFromTuples(rows ...*types.Tuple) *ValueScan {
	valueScan := &ValueScan{}
	if len(rows) > 0 {
		valueScan.Columns = append([]string(nil), rows[0].Names()...)
	}
	for _, row := range rows {
		exprs := make([]expression.Expression, len(valueScan.Columns))
		for i, name := range valueScan.Columns {
			exprs[i] = &expression.Literal{Value: row.Value(name)}
		}
		valueScan.Values = append(valueScan.Values, exprs)
	}
	return valueScan
}
