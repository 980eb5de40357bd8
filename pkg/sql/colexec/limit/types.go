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
	"github.com/matrixorigin/mosearch/pkg/vm"
)

var _ vm.Operator = new(Limit)

type container struct {
	skipped uint64
	seen    uint64
}

type Limit struct {
	ctr    container
	Limit  uint64
	Offset uint64

	vm.OperatorBase
}

func (limit *Limit) GetOperatorBase() *vm.OperatorBase {
	return &limit.OperatorBase
}

func (limit Limit) TypeName() string {
	return opName
}

func NewArgument(input vm.Operator, n, offset uint64) *Limit {
	limit := &Limit{Limit: n, Offset: offset}
	limit.AppendChild(input)
	return limit
}
