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

package remove

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const opName = "remove"

func (remove *Remove) String(buf *bytes.Buffer) {
	buf.WriteString(fmt.Sprintf("%s(%s)", opName, strings.Join(remove.RemoveList, ", ")))
}

func (remove *Remove) OpType() vm.OpType {
	return vm.Remove
}

func (remove *Remove) Open(proc *process.Process) error {
	remove.ResetLookahead()
	return remove.OpenChildren(proc)
}

func (remove *Remove) HasNext() (bool, error) {
	return remove.Peek(remove.fetch)
}

func (remove *Remove) Next() (*types.Tuple, error) {
	return remove.Take()
}

func (remove *Remove) fetch() (*types.Tuple, error) {
	input := remove.Input()
	ok, err := input.HasNext()
	if err != nil || !ok {
		return nil, err
	}
	row, err := input.Next()
	if err != nil {
		return nil, err
	}
	for _, name := range remove.RemoveList {
		row.Remove(name)
	}
	return row, nil
}

func (remove *Remove) Close() error {
	return remove.CloseChildren()
}

func (remove *Remove) Schema() *types.Schema {
	cols := lo.Reject(remove.ChildSchema().Columns, func(c types.Column, _ int) bool {
		return lo.Contains(remove.RemoveList, c.OutputName())
	})
	return types.NewSchema(cols...)
}
