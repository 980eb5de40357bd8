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
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
)

var _ vm.Operator = new(Window)

type container struct {
	started bool
	partKey []types.Value

	// rows of the current peer group, and the first row of the next one
	pending []*types.Tuple
	idx     int
	carry   *types.Tuple

	rowNum     int64
	peerGroups int64
	state      expression.AggregationState
}

// Window appends the value of a window function to every row. The input
// must already be grouped by the partition keys and sorted by the sort
// list of the definition.
//
// Rows with equal partition and sort keys are peers: ranking functions
// give peers the same rank, and aggregate functions see every row of the
// partition up to and including the peers of the current row.
type Window struct {
	ctr        container
	Func       *expression.NamedExpression
	Definition *expression.WindowDefinition

	vm.OperatorBase
}

func (window *Window) GetOperatorBase() *vm.OperatorBase {
	return &window.OperatorBase
}

func (window Window) TypeName() string {
	return opName
}

func NewArgument(input vm.Operator, fn *expression.NamedExpression, def *expression.WindowDefinition) *Window {
	if def == nil {
		def = &expression.WindowDefinition{}
	}
	window := &Window{Func: fn, Definition: def}
	window.AppendChild(input)
	return window
}

func (ctr *container) reset() {
	*ctr = container{}
}
