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

package eval

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const opName = "eval"

func (eval *Eval) String(buf *bytes.Buffer) {
	exprs := make([]string, len(eval.ExprList))
	for i, e := range eval.ExprList {
		exprs[i] = e.OutputName() + " = " + e.Delegate.String()
	}
	buf.WriteString(fmt.Sprintf("%s(%s)", opName, strings.Join(exprs, ", ")))
}

func (eval *Eval) OpType() vm.OpType {
	return vm.Eval
}

func (eval *Eval) Open(proc *process.Process) error {
	eval.ResetLookahead()
	return eval.OpenChildren(proc)
}

func (eval *Eval) HasNext() (bool, error) {
	return eval.Peek(eval.fetch)
}

func (eval *Eval) Next() (*types.Tuple, error) {
	return eval.Take()
}

func (eval *Eval) fetch() (*types.Tuple, error) {
	input := eval.Input()
	ok, err := input.HasNext()
	if err != nil || !ok {
		return nil, err
	}
	row, err := input.Next()
	if err != nil {
		return nil, err
	}
	for _, e := range eval.ExprList {
		v, err := e.Eval(row)
		if err != nil {
			return nil, err
		}
		row.Set(e.OutputName(), v)
	}
	return row, nil
}

func (eval *Eval) Close() error {
	return eval.CloseChildren()
}

func (eval *Eval) Schema() *types.Schema {
	schema := eval.ChildSchema().Clone()
	for _, e := range eval.ExprList {
		col := types.Column{Name: e.OutputName(), Typ: e.Type()}
		if idx := schema.Index(col.Name); idx >= 0 {
			schema.Columns[idx] = col
			continue
		}
		schema.Columns = append(schema.Columns, col)
	}
	return schema
}
