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

package rename

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const opName = "rename"

func (rename *Rename) String(buf *bytes.Buffer) {
	pairs := make([]string, len(rename.Mappings))
	for i, m := range rename.Mappings {
		pairs[i] = m.From + " AS " + m.To
	}
	buf.WriteString(fmt.Sprintf("%s(%s)", opName, strings.Join(pairs, ", ")))
}

func (rename *Rename) OpType() vm.OpType {
	return vm.Rename
}

func (rename *Rename) Open(proc *process.Process) error {
	rename.ResetLookahead()
	return rename.OpenChildren(proc)
}

func (rename *Rename) HasNext() (bool, error) {
	return rename.Peek(rename.fetch)
}

func (rename *Rename) Next() (*types.Tuple, error) {
	return rename.Take()
}

func (rename *Rename) fetch() (*types.Tuple, error) {
	input := rename.Input()
	ok, err := input.HasNext()
	if err != nil || !ok {
		return nil, err
	}
	row, err := input.Next()
	if err != nil {
		return nil, err
	}
	for _, m := range rename.Mappings {
		row.Rename(m.From, m.To)
	}
	return row, nil
}

func (rename *Rename) Close() error {
	return rename.CloseChildren()
}

func (rename *Rename) Schema() *types.Schema {
	schema := rename.ChildSchema().Clone()
	for _, m := range rename.Mappings {
		idx := schema.Index(m.From)
		if idx < 0 {
			continue
		}
		if other := schema.Index(m.To); other >= 0 && other != idx {
			schema.Columns = append(schema.Columns[:other:other], schema.Columns[other+1:]...)
			idx = schema.Index(m.From)
		}
		schema.Columns[idx] = types.Column{Name: m.To, Typ: schema.Columns[idx].Typ}
	}
	return schema
}
