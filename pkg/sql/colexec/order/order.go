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
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const opName = "order"

func (order *Order) String(buf *bytes.Buffer) {
	items := make([]string, len(order.OrderBySpec))
	for i, item := range order.OrderBySpec {
		items[i] = item.String()
	}
	buf.WriteString(fmt.Sprintf("%s(%s)", opName, strings.Join(items, ", ")))
}

func (order *Order) OpType() vm.OpType {
	return vm.Order
}

func (order *Order) Open(proc *process.Process) error {
	order.ctr.reset()
	order.ResetLookahead()
	return order.OpenChildren(proc)
}

func (order *Order) HasNext() (bool, error) {
	return order.Peek(order.fetch)
}

func (order *Order) Next() (*types.Tuple, error) {
	return order.Take()
}

func (order *Order) fetch() (*types.Tuple, error) {
	if !order.ctr.sorted {
		if err := order.build(); err != nil {
			return nil, err
		}
	}
	if order.ctr.idx >= len(order.ctr.rows) {
		order.ctr.rows = nil
		return nil, nil
	}
	row := order.ctr.rows[order.ctr.idx]
	order.ctr.rows[order.ctr.idx] = nil
	order.ctr.idx++
	return row, nil
}

// build drains the input and sorts it. Rows comparing equal on every
// key keep their input order.
func (order *Order) build() error {
	input := order.Input()
	for {
		ok, err := input.HasNext()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		row, err := input.Next()
		if err != nil {
			return err
		}
		order.ctr.rows = append(order.ctr.rows, row)
	}

	var cmpErr error
	slices.SortStableFunc(order.ctr.rows, func(a, b *types.Tuple) int {
		if cmpErr != nil {
			return 0
		}
		c, err := expression.CompareRows(order.OrderBySpec, a, b)
		if err != nil {
			cmpErr = err
		}
		return c
	})
	if cmpErr != nil {
		return cmpErr
	}
	order.ctr.sorted = true
	return nil
}

func (order *Order) Close() error {
	order.ctr.reset()
	return order.CloseChildren()
}

func (order *Order) Schema() *types.Schema {
	return order.ChildSchema()
}
