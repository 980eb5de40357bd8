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
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
)

var _ vm.Operator = new(Filter)

// Filter forwards the rows for which E evaluates to true.
type Filter struct {
	E expression.Expression

	vm.OperatorBase
}

func (filter *Filter) GetOperatorBase() *vm.OperatorBase {
	return &filter.OperatorBase
}

func (filter Filter) TypeName() string {
	return opName
}

func NewArgument(input vm.Operator, cond expression.Expression) *Filter {
	filter := &Filter{E: cond}
	filter.AppendChild(input)
	return filter
}
