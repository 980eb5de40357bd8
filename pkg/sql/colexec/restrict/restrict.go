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
	"fmt"

	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const opName = "filter"

func (filter *Filter) String(buf *bytes.Buffer) {
	buf.WriteString(fmt.Sprintf("%s(%s)", opName, filter.E))
}

func (filter *Filter) OpType() vm.OpType {
	return vm.Restrict
}

func (filter *Filter) Open(proc *process.Process) error {
	filter.ResetLookahead()
	return filter.OpenChildren(proc)
}

func (filter *Filter) HasNext() (bool, error) {
	return filter.Peek(filter.fetch)
}

func (filter *Filter) Next() (*types.Tuple, error) {
	return filter.Take()
}

// fetch skips rows whose condition is false, NULL or MISSING.
func (filter *Filter) fetch() (*types.Tuple, error) {
	input := filter.Input()
	for {
		ok, err := input.HasNext()
		if err != nil || !ok {
			return nil, err
		}
		row, err := input.Next()
		if err != nil {
			return nil, err
		}
		state, err := expression.EvalPredicate(filter.E, row)
		if err != nil {
			return nil, err
		}
		if state == types.True {
			return row, nil
		}
	}
}

func (filter *Filter) Close() error {
	return filter.CloseChildren()
}

func (filter *Filter) Schema() *types.Schema {
	return filter.ChildSchema()
}
