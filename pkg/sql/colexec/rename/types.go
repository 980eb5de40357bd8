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
	"github.com/matrixorigin/mosearch/pkg/vm"
)

var _ vm.Operator = new(Rename)

// Mapping renames column From to To.
type Mapping struct {
	From string
	To   string
}

// Rename relabels columns without touching their values or positions.
type Rename struct {
	Mappings []Mapping

	vm.OperatorBase
}

func (rename *Rename) GetOperatorBase() *vm.OperatorBase {
	return &rename.OperatorBase
}

func (rename Rename) TypeName() string {
	return opName
}

func NewArgument(input vm.Operator, mappings ...Mapping) *Rename {
	rename := &Rename{Mappings: mappings}
	rename.AppendChild(input)
	return rename
}
