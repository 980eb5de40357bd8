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

package projection

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const opName = "projection"

func (projection *Projection) String(buf *bytes.Buffer) {
	exprs := make([]string, len(projection.ProjectList))
	for i, e := range projection.ProjectList {
		exprs[i] = e.String()
	}
	buf.WriteString(fmt.Sprintf("%s(%s)", opName, strings.Join(exprs, ", ")))
}

func (projection *Projection) OpType() vm.OpType {
	return vm.Projection
}

func (projection *Projection) Open(proc *process.Process) error {
	seen := make(map[string]struct{}, len(projection.ProjectList))
	for _, e := range projection.ProjectList {
		name := e.OutputName()
		if _, ok := seen[name]; ok {
			return moerr.NewInvalidInput(proc.Ctx, "duplicate projection %s", name)
		}
		seen[name] = struct{}{}
	}
	projection.ResetLookahead()
	return projection.OpenChildren(proc)
}

func (projection *Projection) HasNext() (bool, error) {
	return projection.Peek(projection.fetch)
}

func (projection *Projection) Next() (*types.Tuple, error) {
	return projection.Take()
}

// fetch builds the output row in projection order. Fields absent from the
// input row evaluate to MISSING.
func (projection *Projection) fetch() (*types.Tuple, error) {
	input := projection.Input()
	ok, err := input.HasNext()
	if err != nil || !ok {
		return nil, err
	}
	row, err := input.Next()
	if err != nil {
		return nil, err
	}
	return expression.EvalNamed(projection.ProjectList, row)
}

func (projection *Projection) Close() error {
	return projection.CloseChildren()
}

func (projection *Projection) Schema() *types.Schema {
	return expression.Columns(projection.ProjectList)
}
