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

package order

import (
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
)

var _ vm.Operator = new(Order)

type container struct {
	sorted bool
	rows   []*types.Tuple
	idx    int
}

// Order buffers its whole input and emits it stably sorted by OrderBySpec.
type Order struct {
	ctr         container
	OrderBySpec []expression.SortItem

	vm.OperatorBase
}

func (order *Order) GetOperatorBase() *vm.OperatorBase {
	return &order.OperatorBase
}

func (order Order) TypeName() string {
	return opName
}

func NewArgument(input vm.Operator, items ...expression.SortItem) *Order {
	order := &Order{OrderBySpec: items}
	order.AppendChild(input)
	return order
}

func (ctr *container) reset() {
	ctr.sorted = false
	ctr.rows = nil
	ctr.idx = 0
}
