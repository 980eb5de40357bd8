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
	"github.com/matrixorigin/mosearch/pkg/vm"
)

var _ vm.Operator = new(Remove)

// Remove drops the listed columns from every row.
type Remove struct {
	RemoveList []string

	vm.OperatorBase
}

func (remove *Remove) GetOperatorBase() *vm.OperatorBase {
	return &remove.OperatorBase
}

func (remove Remove) TypeName() string {
	return opName
}

func NewArgument(input vm.Operator, removeList ...string) *Remove {
	remove := &Remove{RemoveList: removeList}
	remove.AppendChild(input)
	return remove
}
