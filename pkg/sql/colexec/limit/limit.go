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

package limit

import (
	"bytes"
	"fmt"

	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const opName = "limit"

func (limit *Limit) String(buf *bytes.Buffer) {
	if limit.Offset > 0 {
		buf.WriteString(fmt.Sprintf("%s(%v, offset %v)", opName, limit.Limit, limit.Offset))
		return
	}
	buf.WriteString(fmt.Sprintf("%s(%v)", opName, limit.Limit))
}

func (limit *Limit) OpType() vm.OpType {
	return vm.Limit
}

func (limit *Limit) Open(proc *process.Process) error {
	limit.ctr = container{}
	limit.ResetLookahead()
	return limit.OpenChildren(proc)
}

func (limit *Limit) HasNext() (bool, error) {
	return limit.Peek(limit.fetch)
}

func (limit *Limit) Next() (*types.Tuple, error) {
	return limit.Take()
}

// fetch streams: skipped rows are dropped as they arrive and the input is
// not pulled once limit rows were returned.
func (limit *Limit) fetch() (*types.Tuple, error) {
	if limit.ctr.seen >= limit.Limit {
		return nil, nil
	}
	input := limit.Input()
	for {
		ok, err := input.HasNext()
		if err != nil || !ok {
			return nil, err
		}
		row, err := input.Next()
		if err != nil {
			return nil, err
		}
		if limit.ctr.skipped < limit.Offset {
			limit.ctr.skipped++
			continue
		}
		limit.ctr.seen++
		return row, nil
	}
}

func (limit *Limit) Close() error {
	return limit.CloseChildren()
}

func (limit *Limit) Schema() *types.Schema {
	return limit.ChildSchema()
}
