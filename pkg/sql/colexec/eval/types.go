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
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
)

var _ vm.Operator = new(Eval)

// Eval sets a computed column per expression, in list order, so later
// expressions see the columns set by earlier ones. Existing columns are
// overwritten in place, new ones are appended.
type Eval struct {
	ExprList []*expression.NamedExpression

	vm.OperatorBase
}

func (eval *Eval) GetOperatorBase() *vm.OperatorBase {
	return &eval.OperatorBase
}

func (eval Eval) TypeName() string {
	return opName
}

func NewArgument(input vm.Operator, exprList ...*expression.NamedExpression) *Eval {
	eval := &Eval{ExprList: exprList}
	eval.AppendChild(input)
	return eval
}
